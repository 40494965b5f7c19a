package model

// PresenceSnapshot is a point-in-time copy of the online user set.
// The slice is owned by the receiver; mutating it never affects the live set.
type PresenceSnapshot struct {
	Users []string
	Count int
}
