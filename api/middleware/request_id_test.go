package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDKeepsOrReplacesInbound(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	cases := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"token id", "abc-123_x.y", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", maxRequestIDLength+1), false},
		{"log injection", "abc\nlevel=error", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestIDHeader, tc.inbound)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			if got == "" {
				t.Fatal("expected a request id header")
			}
			if (got == tc.inbound) != tc.keep {
				t.Fatalf("inbound %q produced %q", tc.inbound, got)
			}
		})
	}
}
