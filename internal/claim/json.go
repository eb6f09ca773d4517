package claim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	isoDateLayout    = "2006-01-02"
	compactDateLayout = "20060102"
)

// Date wraps time.Time with a codec that accepts "YYYY-MM-DD" or "YYYYMMDD"
// on decode and always emits "YYYY-MM-DD" on encode.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date.
func NewDate(t time.Time) Date { return Date{Time: t} }

// ParseDate parses a date string in either accepted wire format.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(compactDateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	return Date{}, fmt.Errorf("claim: invalid date %q: expected YYYY-MM-DD or YYYYMMDD", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(isoDateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CompactFormat renders the date as the fixed "YYYYMMDD" engine boundary format.
func (d Date) CompactFormat() string {
	return d.Time.Format(compactDateLayout)
}
