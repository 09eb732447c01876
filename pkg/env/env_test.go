package env

import "testing"

func TestLookupPrefersFirstKey(t *testing.T) {
	t.Setenv("LAUNDRY_LOG_FORMAT", "console")
	t.Setenv("LOG_FORMAT", "json")
	if got := Lookup("json", "LAUNDRY_LOG_FORMAT", "LOG_FORMAT"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestLookupFallsBack(t *testing.T) {
	t.Setenv("PORT", "  ")
	if got := Lookup("8080", "PORT"); got != "8080" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
