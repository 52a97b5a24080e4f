package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func runI18N(t *testing.T, lookup CountryLookup, prepare func(*http.Request)) (locale, country string) {
	t.Helper()
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.10:443"
	if prepare != nil {
		prepare(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return locale, country
}

func TestI18NPrefersXLocaleHeader(t *testing.T) {
	locale, _ := runI18N(t, nil, func(r *http.Request) {
		r.Header.Set("X-Locale", "pt-BR")
		r.Header.Set("Accept-Language", "fr-FR")
	})
	if locale != "pt-BR" {
		t.Fatalf("locale mismatch: got %q want %q", locale, "pt-BR")
	}
}

func TestI18NFallsBackToAcceptLanguage(t *testing.T) {
	locale, _ := runI18N(t, nil, func(r *http.Request) {
		r.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
	})
	if locale != "de-DE" {
		t.Fatalf("locale mismatch: got %q want %q", locale, "de-DE")
	}
}

func TestI18NUsesCountryLookup(t *testing.T) {
	var lookedUp string
	lookup := func(ip string) (string, error) {
		lookedUp = ip
		return "br", nil
	}
	locale, country := runI18N(t, lookup, nil)
	if locale != "pt" {
		t.Fatalf("locale mismatch: got %q want %q", locale, "pt")
	}
	if country != "BR" {
		t.Fatalf("country mismatch: got %q want %q", country, "BR")
	}
	if lookedUp != "203.0.113.10" {
		t.Fatalf("lookup ip mismatch: got %q", lookedUp)
	}
}

func TestI18NDefaultsWhenNothingMatches(t *testing.T) {
	lookup := func(ip string) (string, error) {
		return "", errors.New("not in database")
	}
	locale, country := runI18N(t, lookup, nil)
	if locale != "en" {
		t.Fatalf("locale mismatch: got %q want %q", locale, "en")
	}
	if country != "" {
		t.Fatalf("country mismatch: got %q want empty", country)
	}
}

func TestI18NIgnoresUnparseableXLocale(t *testing.T) {
	locale, _ := runI18N(t, nil, func(r *http.Request) {
		r.Header.Set("X-Locale", "???")
		r.Header.Set("Accept-Language", "ja")
	})
	if locale != "ja" {
		t.Fatalf("locale mismatch: got %q want %q", locale, "ja")
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if ip := ClientIP(req); ip != "198.51.100.7" {
		t.Fatalf("ip mismatch: got %q", ip)
	}
}
