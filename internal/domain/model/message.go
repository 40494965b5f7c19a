package model

import "time"

//go:generate stringer -type=MessageKind
type MessageKind int16

const (
	// [ZERO_VALUE_GUARD] WE START FROM 1 TO DISTINGUISH FROM UNINITIALIZED DATA
	UserMessage MessageKind = iota + 1
	SystemMessage
)

// [MESSAGE] CORE ENTITY REPRESENTING ONE ENTRY OF THE CHAT LOG
//
// Identity and content fields are immutable once the store assigns the ID.
// Only Likes/Dislikes may change afterwards, and only through the store.
type Message struct {
	ID        int64
	Kind      MessageKind
	Author    string // empty for system messages
	Text      string
	CreatedAt time.Time
	Likes     int64
	Dislikes  int64
}
