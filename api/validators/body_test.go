package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=jemput antar"`
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","kind":"kirim"}`))
	var dest samplePayload
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["kind"] != "must be one of [jemput antar]" {
		t.Fatalf("unexpected kind message %q", details["kind"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","extra":1}`))
	var dest samplePayload
	if err := DecodeJSONBody(req, &dest); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	var dest samplePayload
	err := DecodeJSONBody(req, &dest)
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "request body is required" {
		t.Fatalf("expected missing body error, got %v", err)
	}
}

func TestDecodeOptionalJSONBody(t *testing.T) {
	var dest samplePayload
	if err := DecodeOptionalJSONBody(httptest.NewRequest("POST", "/", strings.NewReader("  ")), &dest); err != nil {
		t.Fatalf("empty body should be accepted: %v", err)
	}
	if dest.Email != "" {
		t.Fatalf("dest should be untouched")
	}
	if err := DecodeOptionalJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co"}`)), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Email != "a@b.co" {
		t.Fatalf("expected decoded email, got %q", dest.Email)
	}
}

func TestRequireUUID(t *testing.T) {
	if _, err := RequireUUID(" ", "orderId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank id")
	}
	if _, err := RequireUUID("123", "orderId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for malformed id")
	}
	if _, err := RequireUUID("0b6a1c42-5d7e-4a52-9f1a-4c1f2d3e4b5a", "orderId"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSanitizeStringRuneSafe(t *testing.T) {
	if got := SanitizeString("  Ñoño Laundry  ", 4); got != "Ñoño" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := SanitizeString(" x ", 0); got != "x" {
		t.Fatalf("unexpected result %q", got)
	}
}
