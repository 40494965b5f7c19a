package model

//go:generate stringer -type=ReactionKind
type ReactionKind int16

const (
	ReactionLike ReactionKind = iota + 1
	ReactionDislike
)

// ParseReactionKind maps the wire identifier ("like"/"dislike") to the domain kind.
func ParseReactionKind(s string) (ReactionKind, bool) {
	switch s {
	case "like":
		return ReactionLike, true
	case "dislike":
		return ReactionDislike, true
	default:
		return 0, false
	}
}
