package banking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Stamp is a backend timestamp. The backend renders local date-times as
// "2006-01-02T15:04:05" strings, epoch milliseconds, or [y, m, d, h, mi, s, ns]
// arrays depending on serializer settings; all three are accepted.
type Stamp struct {
	time.Time
}

var stampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		s.Time = time.Time{}
		return nil
	}

	switch b[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		return s.parseString(raw)
	case '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		return s.fromParts(parts)
	default:
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("stamp: unsupported value %s", b)
		}
		s.Time = time.UnixMilli(ms).UTC()
		return nil
	}
}

func (s *Stamp) parseString(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		s.Time = time.Time{}
		return nil
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			s.Time = t
			return nil
		}
	}
	return fmt.Errorf("stamp: unrecognized time %q", raw)
}

func (s *Stamp) fromParts(p []int) error {
	if len(p) < 3 {
		return fmt.Errorf("stamp: expected at least 3 date parts, got %d", len(p))
	}
	for len(p) < 7 {
		p = append(p, 0)
	}
	s.Time = time.Date(p[0], time.Month(p[1]), p[2], p[3], p[4], p[5], p[6], time.UTC)
	return nil
}

// MarshalJSON renders the stamp the way the backend accepts it.
func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.Format("2006-01-02T15:04:05"))
}

// String formats the stamp for display.
func (s Stamp) String() string {
	if s.IsZero() {
		return ""
	}
	return s.Format("2006-01-02 15:04:05")
}
