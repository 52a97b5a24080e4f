package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VideoStatus is the record-level video state, distinct from the job enum:
// ready implies VideoURL is set; pending implies VideoJobID is set and
// VideoURL is not.
type VideoStatus string

const (
	VideoPending VideoStatus = "pending"
	VideoReady   VideoStatus = "ready"
	VideoFailed  VideoStatus = "failed"
)

// Visualization is the durable record of a (possibly partial) generation.
// It is created once at first save and mutated only by asset promotion or a
// resumed video poll; records are single-writer per owning session.
type Visualization struct {
	ID          string
	OwnerID     string
	CreatedAt   time.Time
	InputText   string
	Text        string
	ImageURL    string
	AudioURL    string
	VideoURL    string
	VideoJobID  string
	VideoStatus VideoStatus
}

// NewVisualizationID builds a caller-generated identifier so the first write
// needs no id round trip.
func NewVisualizationID(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d_%s", now.UnixMilli(), suffix)
}

// Resumable reports whether the record still carries a pollable video job.
func (v *Visualization) Resumable() bool {
	return v.VideoStatus == VideoPending && v.VideoJobID != ""
}
