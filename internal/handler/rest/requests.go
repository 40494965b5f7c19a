package rest

// PostMessageRequest is the body of POST /api/messages.
type PostMessageRequest struct {
	User string `json:"user" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// PresenceRequest is the body of POST /api/join and POST /api/leave.
type PresenceRequest struct {
	User string `json:"user" validate:"required"`
}

// ReactRequest is the body of POST /api/react.
type ReactRequest struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Type string `json:"type" validate:"required,oneof=like dislike"`
}

// PresenceResponse mirrors the original wire shape of the presence endpoints.
type PresenceResponse struct {
	OnlineUsers []string `json:"onlineUsers"`
	Count       int      `json:"count"`
}

// ErrorResponse is the structured error body for all REST failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
