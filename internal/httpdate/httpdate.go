package httpdate

import (
	"errors"
	"time"
)

// IMFFixdate is the layout every response date is rendered in. The other two
// layouts exist only because clients are still allowed to send them.
const (
	IMFFixdate = "Mon, 02 Jan 2006 15:04:05 GMT"
	rfc850     = "Monday, 02-Jan-06 15:04:05 GMT"
	asctime    = "Mon Jan _2 15:04:05 2006"
)

var ErrBadDate = errors.New("unrecognized HTTP date")

func Format(t time.Time) string {
	return t.UTC().Format(IMFFixdate)
}

// Append renders t in IMF-fixdate onto dst.
func Append(dst []byte, t time.Time) []byte {
	return t.UTC().AppendFormat(dst, IMFFixdate)
}

// Parse accepts the three date layouts HTTP allows, IMF-fixdate first.
func Parse(value string) (time.Time, error) {
	for _, layout := range [...]string{IMFFixdate, rfc850, asctime} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrBadDate
}
