package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ServesStylesheet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, StaticPath(Stylesheet), nil)
	rec := httptest.NewRecorder()

	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".grid")
	assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
}

func TestHandler_MissingAsset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, StaticPath("missing.js"), nil)
	rec := httptest.NewRecorder()

	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
