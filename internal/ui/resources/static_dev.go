//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// IsDev reports whether assets are served from the filesystem.
const IsDev = true

func assetVersion(string) string { return "" }

// Handler serves assets straight from the source tree so stylesheet edits
// show up on reload.
func Handler() http.Handler {
	dir := "internal/ui/resources/static"
	if _, file, _, ok := runtime.Caller(0); ok {
		dir = filepath.Join(filepath.Dir(file), "static")
	}
	slog.Info("static assets served from filesystem", slog.String("path", dir))

	files := http.StripPrefix(staticPrefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})
}
