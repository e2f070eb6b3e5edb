// Package testutil provides shared test helpers.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/banshee-data/sensorhub/internal/monitoring"
)

// LoopbackRequest creates a test request that appears to come from
// localhost, which tsweb.AllowDebugAccess requires for /debug/ routes.
func LoopbackRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}

// ServeDebug runs a loopback request through mux and returns the recorder.
func ServeDebug(mux http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, LoopbackRequest(method, path, nil))
	return rec
}

// MuteLogs discards monitoring output for the rest of the test.
func MuteLogs(t testing.TB) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })
}
