//go:build !dev

package resources

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPath(t *testing.T) {
	p := StaticPath("app.css")
	assert.True(t, strings.HasPrefix(p, "/static/app.css?v="), p)
	assert.Len(t, strings.TrimPrefix(p, "/static/app.css?v="), 8)

	assert.Equal(t, "/static/missing.js", StaticPath("missing.js"))
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCache string
	}{
		{"versioned", StaticPath("app.css"), http.StatusOK, "public, max-age=31536000, immutable"},
		{"plain", "/static/app.css", http.StatusOK, "public, max-age=300"},
		{"missing", "/static/nope.css", http.StatusNotFound, "no-store"},
		{"missing versioned", "/static/nope.css?v=deadbeef", http.StatusNotFound, "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
		})
	}
}
