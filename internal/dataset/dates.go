package dataset

import (
	"time"

	"salescope/pkg/errors"
)

const (
	// csvDate is the layout the generator writes, matching legacy exports
	csvDate = "01/02/2006"
	isoDate = "2006-01-02"
)

// ParseDate accepts MM/DD/YYYY, falling back to YYYY-MM-DD. Anything else
// is an error; there is no third format.
func ParseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(csvDate, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(isoDate, value); err == nil {
		return t, nil
	}
	return time.Time{}, errors.DateError(field, value)
}
