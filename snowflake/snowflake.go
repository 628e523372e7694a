// Package snowflake provides the 64-bit identifiers used by the chat platform.
//
// A snowflake embeds its creation time in its upper 42 bits, so identifiers are
// totally ordered by creation time across the whole platform. This is what makes
// them usable as pagination cursors: "before" and "after" bounds can be given
// either as an existing ID or as a wall-clock time converted with FromTime.
//
// Example:
//
//	id, _ := snowflake.Parse("881536165478499999")
//	fmt.Println(id.Time()) // 2021-08-29 13:50:00 +0000 UTC
//
//	after := snowflake.FromTime(time.Now().Add(-24*time.Hour), true)
package snowflake

import (
	"fmt"
	"strconv"
	"time"
)

// Epoch is the platform epoch in Unix milliseconds (2015-01-01T00:00:00Z).
const Epoch int64 = 1420070400000

// timestampShift is the number of low bits that hold worker, process and increment.
const timestampShift = 22

// lowBitsMask covers every bit below the timestamp.
const lowBitsMask = 1<<timestampShift - 1

// ID is a platform snowflake. The zero value means "unset".
type ID uint64

// Parse converts a decimal string into an ID.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse snowflake %q: %w", s, err)
	}
	return ID(v), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromTime returns the smallest (high=false) or largest (high=true) snowflake
// that could have been generated at t.
//
// Use high=false for exclusive "before" bounds and high=true for exclusive
// "after" bounds, so that no ID created at exactly t leaks through either bound.
func FromTime(t time.Time, high bool) ID {
	ms := t.UnixMilli() - Epoch
	if ms < 0 {
		ms = 0
	}
	id := ID(uint64(ms) << timestampShift)
	if high {
		id |= lowBitsMask
	}
	return id
}

// Time returns the creation time embedded in the ID, in UTC.
func (id ID) Time() time.Time {
	ms := int64(uint64(id)>>timestampShift) + Epoch
	return time.UnixMilli(ms).UTC()
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id == 0
}

// Hash mirrors the platform SDKs' hash of an ID: its timestamp part.
func (id ID) Hash() int64 {
	return int64(uint64(id) >> timestampShift)
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Ptr returns a pointer to a copy of id.
func (id ID) Ptr() *ID {
	return &id
}

// MarshalJSON encodes the ID as a JSON string, the platform's wire format.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON accepts both the string and the numeric form.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*id = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}
