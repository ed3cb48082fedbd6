// Package resources serves the dashboard stylesheet and other static assets.
package resources

import "net/url"

const staticPrefix = "/static/"

// StaticPath returns the URL of a static asset. Embedded assets carry a
// content hash so browsers can cache them indefinitely.
func StaticPath(name string) string {
	p := staticPrefix + name
	if v := assetVersion(name); v != "" {
		p += "?" + url.Values{"v": {v}}.Encode()
	}
	return p
}
