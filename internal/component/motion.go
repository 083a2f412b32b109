package component

import "time"

// Position is a point in world units.
type Position struct {
	X, Y float64
}

// Velocity is in world units per second.
type Velocity struct {
	X, Y float64
}

// Lifetime counts down to expiry. Entities without one live until destroyed.
type Lifetime struct {
	Remaining time.Duration
	Age       time.Duration
}

// Expired reports whether the lifetime has run out.
func (l Lifetime) Expired() bool { return l.Remaining <= 0 }

// Tag names the spawn entry an entity came from.
type Tag struct {
	Name string
}
