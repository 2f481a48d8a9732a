package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is a time read leniently from backend JSON. A missing or
// unreadable value decodes to the zero time instead of failing the whole
// document, so one bad record cannot break a list. Zero sorts oldest.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp { return Timestamp{Time: t} }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	ts.Time = time.Time{}
	data = bytes.TrimSpace(data)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		ts.Time = parseTimestamp(s)
		return nil
	}
	// epoch milliseconds, as Date.now() writes them
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		ts.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
