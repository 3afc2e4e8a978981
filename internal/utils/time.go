package util

import (
	"strings"
	"time"
)

// LocalDateTime accepts either an RFC 3339 timestamp or a zone-less
// "2006-01-02T15:04:05" value, which is read in the application timezone.
type LocalDateTime struct {
	time.Time
}

const layout = "2006-01-02T15:04:05"

var appLocation = time.UTC

// SetLocation selects the timezone used for zone-less timestamps. Unknown
// names keep the current location.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	appLocation = loc
	return nil
}

func ToTimePtr(ldt *LocalDateTime) *time.Time {
	if ldt == nil || ldt.IsZero() {
		return nil
	}
	t := ldt.Time.UTC()
	return &t
}

func (ldt *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		ldt.Time = t
		return nil
	}
	t, err := time.ParseInLocation(layout, s, appLocation)
	if err != nil {
		return err
	}
	ldt.Time = t
	return nil
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ldt.In(appLocation).Format(layout) + `"`), nil
}
