package core

import (
	"encoding/json"
	"time"
)

// Timestamp is a normalized instant. Transaction dates arrive either as
// ISO-8601 strings or as a legacy {_seconds, _nanoseconds} epoch pair;
// both resolve to a single time.Time here, once, at the ingestion boundary.
//
// Normalization is total: null, absent, or unparseable input produces an
// invalid Timestamp (Valid=false) instead of an error. Callers must check
// Valid before comparing or bucketing, and render invalid values as
// "N/A"/"Invalid Date".
type Timestamp struct {
	time.Time
	Valid bool
}

// epochPair mirrors the legacy serialized form. Nanoseconds are carried on
// the wire but ignored: the instant is seconds alone.
type epochPair struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

// NewTimestamp returns a valid Timestamp for t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC(), Valid: true}
}

// ParseTimestamp normalizes a date string. It accepts RFC 3339 and plain
// calendar dates (2006-01-02); anything else degrades to the invalid
// sentinel without error.
func ParseTimestamp(s string) Timestamp {
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t)
		}
	}
	return Timestamp{}
}

// FromEpochPair normalizes a legacy seconds pair.
func FromEpochPair(seconds int64) Timestamp {
	return NewTimestamp(time.Unix(seconds, 0))
}

// UnmarshalJSON accepts a string, a {_seconds,_nanoseconds} object, or null.
// It never fails on malformed content; only structurally broken JSON (which
// the surrounding document decode would reject anyway) returns an error.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*ts = ParseTimestamp(s)
		return nil
	}
	var pair epochPair
	if err := json.Unmarshal(data, &pair); err == nil {
		*ts = FromEpochPair(pair.Seconds)
		return nil
	}
	*ts = Timestamp{}
	return nil
}

// MarshalJSON emits RFC 3339 for valid instants and null for the sentinel.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// InMonth reports whether the instant falls in the given calendar month.
// Invalid timestamps belong to no month.
func (ts Timestamp) InMonth(year int, month time.Month) bool {
	if !ts.Valid {
		return false
	}
	y, m, _ := ts.Time.Date()
	return y == year && m == month
}

// DisplayDate formats the instant for reports, degrading to "N/A" for the
// invalid sentinel.
func (ts Timestamp) DisplayDate() string {
	if !ts.Valid {
		return "N/A"
	}
	return ts.Time.Format("2006-01-02")
}

// DaysIn returns the day count of a calendar month, leap-year aware.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
