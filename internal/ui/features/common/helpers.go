// Package common provides shared components and formatting for UI features.
package common

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
)

var printer = message.NewPrinter(language.English)

// Money formats v as a currency amount without decimals, e.g. "R$ 1,234".
func Money(v float64) string {
	return printer.Sprintf("R$ %.0f", v)
}

// Count formats an integer with thousands separators.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent formats v with one decimal and an explicit sign when signed is set.
func Percent(v float64, signed bool) string {
	if signed {
		return printer.Sprintf("%+.1f%%", v)
	}
	return printer.Sprintf("%.1f%%", v)
}

// Days formats a number of days with one decimal.
func Days(v float64) string {
	return printer.Sprintf("%.1f days", v)
}

var titler = cases.Title(language.English)

// CategoryLabel turns "health_beauty" into "Health Beauty".
func CategoryLabel(s string) string {
	return titler.String(strings.ReplaceAll(s, "_", " "))
}

// NoDataMessage is shown when the export directory holds no results yet.
const NoDataMessage = "No exported results yet. Run `olistflow run` to generate them."

// DataError renders err as a notice. Missing export files are expected
// before the first run and are shown as information.
func DataError(err error) templ.Component {
	if errors.Is(err, dashboard.ErrNoData) {
		return Alert("info", NoDataMessage)
	}
	return Alert("warning", err.Error())
}

// Render writes a component as an HTML response.
func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	RenderStatus(w, r, http.StatusOK, c)
}

// RenderStatus writes a component as an HTML response with status.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
