package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/validation"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
)

type UserHandler struct {
	users  *users.Service
	logger *slog.Logger
}

func NewUserHandler(userService *users.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: userService, logger: logger}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Get(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUser(user))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), p.UserID, users.ProfileInput{
		Name:           validation.SanitizePtr(req.Name),
		Bio:            validation.SanitizePtr(req.Bio),
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUser(user))
}

// DeleteMe deactivates the caller's account. Its row and plans are kept.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.users.Deactivate(r.Context(), p.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Cuenta eliminada exitosamente"})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToPublicUser(user))
}
