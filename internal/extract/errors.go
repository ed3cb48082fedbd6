package extract

import "errors"

// Sentinel errors, checked with errors.Is.
var (
	// ErrSourceMissing means a mapped CSV file does not exist.
	ErrSourceMissing = errors.New("source file not found")

	// ErrMalformedCSV means a CSV file could not be parsed.
	ErrMalformedCSV = errors.New("malformed csv")

	// ErrHolidayFetch means the holidays API call failed.
	ErrHolidayFetch = errors.New("public holidays fetch failed")
)
