package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrNoKindsEnabled  = errors.New("no asset kinds enabled")
	ErrTooManyRefs     = errors.New("too many reference images")
	ErrNotResumable    = errors.New("record has no pending video job")
	ErrProviderFailure = errors.New("provider failure")
)

// Error codes produced by the generation pipeline. Provider HTTP failures use
// the KIND_HTTP_<status> form so transient classification can inspect the
// trailing status digits.
const (
	CodeVideoIDMissing = "VIDEO_ID_MISSING"
	CodeVideoJobFailed = "VIDEO_JOB_FAILED"
	CodeEmptyResponse  = "EMPTY_RESPONSE"
)

// ErrorDetail is the normalized failure attached to a single asset kind. It
// never crosses asset boundaries: one kind failing is recorded here while the
// rest of the generation proceeds.
type ErrorDetail struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}

func (e *ErrorDetail) Error() string {
	return fmt.Sprintf("%s: %s (correlation %s)", e.Code, e.Message, e.CorrelationID)
}

// HTTPCode builds the canonical code for a provider HTTP failure, e.g.
// IMAGE_HTTP_500.
func HTTPCode(kind AssetKind, status int) string {
	return fmt.Sprintf("%s_HTTP_%d", kindCodePrefix(kind), status)
}

// NetworkCode builds the canonical code for a transport-level failure.
func NetworkCode(kind AssetKind) string {
	return kindCodePrefix(kind) + "_NETWORK"
}

func kindCodePrefix(kind AssetKind) string {
	switch kind {
	case KindText:
		return "TEXT"
	case KindImage:
		return "IMAGE"
	case KindAudio:
		return "AUDIO"
	case KindVideo:
		return "VIDEO"
	default:
		return "ASSET"
	}
}

// TransientCode reports whether an error code denotes a failure expected to
// resolve on a later attempt: a network failure, or a code whose trailing
// digits are 429 or a 5xx HTTP status. Everything else is terminal.
func TransientCode(code string) bool {
	if strings.HasSuffix(code, "_NETWORK") {
		return true
	}
	if len(code) < 3 {
		return false
	}
	n, err := strconv.Atoi(code[len(code)-3:])
	if err != nil {
		return false
	}
	return n == 429 || (n >= 500 && n <= 599)
}

// AsErrorDetail extracts the ErrorDetail from err, or wraps err into one with
// the given fallback code so the orchestrator always records a structured
// failure.
func AsErrorDetail(err error, fallbackCode, correlationID string) *ErrorDetail {
	var detail *ErrorDetail
	if errors.As(err, &detail) {
		if detail.CorrelationID == "" {
			detail.CorrelationID = correlationID
		}
		return detail
	}
	return &ErrorDetail{Code: fallbackCode, Message: err.Error(), CorrelationID: correlationID}
}
