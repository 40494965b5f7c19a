package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/webitel/group-chat-service/internal/domain/model"
	"github.com/webitel/group-chat-service/internal/handler/marshaller"
	"github.com/webitel/group-chat-service/internal/service"
)

// RESTHandler translates the HTTP surface into broadcaster calls. It holds no
// business logic of its own; both transports funnel into the same service.
type RESTHandler struct {
	logger      *slog.Logger
	broadcaster service.Broadcaster
	validate    *validator.Validate
}

func NewRESTHandler(logger *slog.Logger, broadcaster service.Broadcaster) *RESTHandler {
	return &RESTHandler{
		logger:      logger,
		broadcaster: broadcaster,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes mounts the REST surface under the given router.
func (h *RESTHandler) Routes(r chi.Router) {
	r.Get("/online-users", h.OnlineUsers)
	r.Get("/messages", h.GetMessages)
	r.Post("/messages", h.PostMessage)
	r.Post("/join", h.Join)
	r.Post("/leave", h.Leave)
	r.Post("/react", h.React)
}

func (h *RESTHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	snap := h.broadcaster.OnlineUsers()
	h.respond(w, http.StatusOK, PresenceResponse{OnlineUsers: snap.Users, Count: snap.Count})
}

// GetMessages is the long-poll endpoint. It replies immediately when the
// client's cursor is behind, otherwise the broadcaster suspends the request
// until new data arrives or the wait deadline elapses with an empty batch.
func (h *RESTHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.respondError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		since = parsed
	}

	batch, err := h.broadcaster.Poll(r.Context(), since, 0)
	if err != nil {
		// The only poll error is client cancellation; there is nobody left
		// to answer.
		return
	}
	h.respond(w, http.StatusOK, marshaller.MapMessages(batch))
}

func (h *RESTHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	msg, err := h.broadcaster.PostMessage(r.Context(), req.User, req.Text)
	if err != nil {
		h.mapDomainError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, marshaller.MapMessage(msg))
}

func (h *RESTHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.handlePresence(w, r, h.broadcaster.Join)
}

func (h *RESTHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.handlePresence(w, r, h.broadcaster.Leave)
}

func (h *RESTHandler) handlePresence(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, name string) (model.PresenceSnapshot, error),
) {
	var req PresenceRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap, err := op(r.Context(), req.User)
	if err != nil {
		h.mapDomainError(w, err)
		return
	}
	h.respond(w, http.StatusOK, PresenceResponse{OnlineUsers: snap.Users, Count: snap.Count})
}

func (h *RESTHandler) React(w http.ResponseWriter, r *http.Request) {
	var req ReactRequest
	if !h.decode(w, r, &req) {
		return
	}

	msg, err := h.broadcaster.React(r.Context(), req.ID, req.Type)
	if err != nil {
		h.mapDomainError(w, err)
		return
	}
	h.respond(w, http.StatusOK, marshaller.MapMessage(msg))
}

// decode parses and validates the request body; on failure it writes the 400
// reply itself and reports false.
func (h *RESTHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "missing or invalid fields")
		return false
	}
	return true
}

func (h *RESTHandler) mapDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "message not found")
	case errors.Is(err, model.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("unhandled domain error", "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *RESTHandler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("response write failed", "error", err)
	}
}

func (h *RESTHandler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respond(w, status, ErrorResponse{Error: msg})
}
