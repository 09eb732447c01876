package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code         Code
		status       int
		clientFacing bool
		detailsOK    bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, clientFacing: true, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, clientFacing: true},
		{code: CodeForbidden, status: http.StatusForbidden, clientFacing: true},
		{code: CodeNotFound, status: http.StatusNotFound, clientFacing: true},
		{code: CodeConflict, status: http.StatusConflict, clientFacing: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, clientFacing: true, detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, clientFacing: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, clientFacing: true},
		{code: CodeInternal, status: http.StatusInternalServerError},
		{code: CodeDependency, status: http.StatusServiceUnavailable, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.ClientFacing != tt.clientFacing {
			t.Fatalf("code %s expected client facing %v", tt.code, tt.clientFacing)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", tt.code)
		}
		if meta.Retryable != (tt.status >= http.StatusInternalServerError) {
			t.Fatalf("code %s retryable should follow 5xx", tt.code)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestCodeOfAndStatusOf(t *testing.T) {
	wrapped := fmt.Errorf("update order: %w", New(CodeStateConflict, "status changed concurrently"))
	if CodeOf(wrapped) != CodeStateConflict || StatusOf(wrapped) != http.StatusUnprocessableEntity {
		t.Fatalf("expected state conflict through the chain")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors are internal")
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestNewfAndIsCode(t *testing.T) {
	err := Newf(CodeStateConflict, "cannot %s order in status %d", "confirm", 6)
	if err.Message() != "cannot confirm order in status 6" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if !IsCode(wrapped, CodeStateConflict) {
		t.Fatalf("expected IsCode to see through wrapping")
	}
	if IsCode(wrapped, CodeNotFound) {
		t.Fatalf("unexpected code match")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors should not match")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	inner := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, inner, "load order")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %v", dump.Chain)
	}
	if dump.Storage != nil {
		t.Fatalf("no storage detail expected for %v", err)
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("expected empty dump for nil")
	}
}

func TestDumpReadsPostgresDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "customers_nomor_hp_key", TableName: "customers"}
	dump := Dump(Wrap(CodeConflict, fmt.Errorf("rename customer: %w", pgErr), "phone already used"))
	if dump.Storage == nil || dump.Storage.SQLState != "23505" || dump.Storage.Constraint != "customers_nomor_hp_key" {
		t.Fatalf("unexpected storage detail %+v", dump.Storage)
	}
	fields := dump.Fields()
	if fields["pg_table"] != "customers" || fields["error_code"] != CodeConflict {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}
