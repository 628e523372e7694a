package snowflake

import "time"

// Time is a pagination bound given either as a snowflake or as a wall-clock time.
// Exactly one of the two forms is set; use At or Of to build one.
type Time struct {
	id ID
	at time.Time
}

// Of returns a bound positioned at an existing snowflake.
func Of(id ID) *Time {
	return &Time{id: id}
}

// At returns a bound positioned at a wall-clock time.
func At(t time.Time) *Time {
	return &Time{at: t}
}

// Resolve converts the bound into a snowflake. Times are converted with
// FromTime(t, high); IDs are returned unchanged.
func (b *Time) Resolve(high bool) ID {
	if b.id != 0 || b.at.IsZero() {
		return b.id
	}
	return FromTime(b.at, high)
}

// IsTime reports whether the bound was given as a wall-clock time.
func (b *Time) IsTime() bool {
	return b.id == 0 && !b.at.IsZero()
}

// Convert resolves optional before/after bounds the way every paginated
// endpoint expects: before uses the low end of its millisecond, after the high end.
// Nil bounds resolve to nil.
func Convert(before, after *Time) (*ID, *ID) {
	return resolve(before, false), resolve(after, true)
}

// ResolvePtr resolves an optional bound, returning nil when b is nil.
func ResolvePtr(b *Time, high bool) *ID {
	return resolve(b, high)
}

func resolve(b *Time, high bool) *ID {
	if b == nil {
		return nil
	}
	id := b.Resolve(high)
	return &id
}
