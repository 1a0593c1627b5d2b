package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/participations"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
)

type ParticipationHandler struct {
	participations *participations.Service
	users          *users.Service
	logger         *slog.Logger
}

func NewParticipationHandler(participationService *participations.Service, userService *users.Service, logger *slog.Logger) *ParticipationHandler {
	return &ParticipationHandler{
		participations: participationService,
		users:          userService,
		logger:         logger,
	}
}

func (h *ParticipationHandler) Join(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	planID, err := uuidParam(r, "planId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	participation, err := h.participations.Join(r.Context(), planID, p.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Get(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ToParticipation(participation, user))
}

func (h *ParticipationHandler) Leave(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	planID, err := uuidParam(r, "planId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.participations.Leave(r.Context(), planID, p.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	planID, err := uuidParam(r, "planId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	userID, err := uuidParam(r, "userId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.participations.Remove(r.Context(), planID, userID, p.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipationHandler) Participants(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "planId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.participations.Participants(r.Context(), planID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out := make([]dto.UserResponse, len(list))
	for i := range list {
		out[i] = dto.ToPublicUser(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ParticipationHandler) Check(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	planID, err := uuidParam(r, "planId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ok, err := h.participations.IsParticipating(r.Context(), planID, p.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ParticipationCheckResponse{PlanID: planID, Participating: ok})
}

func (h *ParticipationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := dto.ParsePaging(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.participations.ForUser(r.Context(), p.UserID, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := h.users.Get(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPageResponse(result, func(pt models.Participation) dto.ParticipationResponse {
		return dto.ToParticipation(&pt, user)
	}))
}
