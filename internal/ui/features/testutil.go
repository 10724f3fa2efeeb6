// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/testutil"
	"github.com/leapstack-labs/tablescope/internal/ui/notifier"
)

// TestSessionSecret is the cookie key used by test session stores.
const TestSessionSecret = "test-secret-key-32-bytes-long!!"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	DataDir      string
	Inspector    *catalog.Inspector
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a data directory with sales.db and notes.txt
// plus the inspector, notifier and session store used by the handlers.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	return &TestFixture{
		DataDir:      testutil.SetupSalesDir(t),
		Inspector:    catalog.NewInspector(testutil.NewTestLogger(t)),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte(TestSessionSecret))
}

// SignalsRequest builds a datastar POST request carrying signals as JSON.
func SignalsRequest(t *testing.T, path string, signals any) *http.Request {
	t.Helper()

	body, err := json.Marshal(signals)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// RequestWithTimeout wraps a request with a context that is cancelled
// after timeout or when the test ends.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}
