package validators

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
)

type sampleBody struct {
	Name     string `json:"name" validate:"required,max=5"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"taco","quantity":2}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Name != "taco" || body.Quantity != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"name":"taco","extra":1}`,
		"missing name":  `{"quantity":1}`,
		"too long":      `{"name":"burrito"}`,
		"negative":      `{"name":"taco","quantity":-1}`,
		"malformed":     `{"name":`,
		"empty":         ``,
		"two objects":   `{"name":"taco"}{"name":"soup"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			var body sampleBody
			err := DecodeJSONBody(req, &body)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDecodeOptionalJSONBody(t *testing.T) {
	chunked := func(raw string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(raw)))
		req.ContentLength = -1
		return req
	}

	var body sampleBody
	if err := DecodeOptionalJSONBody(httptest.NewRequest(http.MethodPost, "/", nil), &body); err != nil {
		t.Fatalf("no body: %v", err)
	}
	if err := DecodeOptionalJSONBody(chunked(""), &body); err != nil {
		t.Fatalf("empty chunked body: %v", err)
	}
	if err := DecodeOptionalJSONBody(chunked(`{"name":"taco","quantity":3}`), &body); err != nil {
		t.Fatalf("chunked body: %v", err)
	}
	if body.Name != "taco" || body.Quantity != 3 {
		t.Fatalf("unexpected body %+v", body)
	}
	if err := DecodeOptionalJSONBody(chunked(`{"quantity":1}`), &sampleBody{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=3", nil)
	if v, err := ParseQueryInt(req, "limit", 10, 1, 10); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d, %v", v, err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if v, _ := ParseQueryInt(req, "limit", 10, 1, 10); v != 10 {
		t.Fatalf("expected default, got %d", v)
	}
	req = httptest.NewRequest(http.MethodGet, "/?limit=50", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 10); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  extra spicy  ", 5); got != "extra" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("no\tonions\n", 0); got != "noonions" {
		t.Fatalf("expected control characters dropped, got %q", got)
	}
	if got := SanitizeString("café", 4); got != "caf" {
		t.Fatalf("expected cut on rune boundary, got %q", got)
	}
}
