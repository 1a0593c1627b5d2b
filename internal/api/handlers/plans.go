package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/validation"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/paging"
	"github.com/ivanquesadapalmero/planazo-backend/internal/plans"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
)

type PlanHandler struct {
	plans      *plans.Service
	categories *categories.Service
	users      *users.Service
	logger     *slog.Logger
}

func NewPlanHandler(planService *plans.Service, categoryService *categories.Service, userService *users.Service, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		plans:      planService,
		categories: categoryService,
		users:      userService,
		logger:     logger,
	}
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.CreatePlanRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	plan, err := h.plans.Create(r.Context(), p.UserID, plans.CreateInput{
		Title:           validation.SanitizeString(req.Title),
		Description:     validation.SanitizeString(req.Description),
		CategoryID:      req.CategoryID,
		Location:        validation.SanitizeString(req.Location),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		EventDate:       req.EventDate.UTC(),
		MaxParticipants: req.MaxParticipants,
		ImageURL:        strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPlan(w, r, http.StatusCreated, plan)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	plan, err := h.plans.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPlan(w, r, http.StatusOK, plan)
}

// List serves GET /api/plans with optional status, categoryId, creatorId,
// location and upcoming filters.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := dto.ParsePaging(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	filter, err := parsePlanFilter(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPage(w, r, func(ctx context.Context) (paging.Page[models.Plan], error) {
		return h.plans.List(ctx, filter, page)
	})
}

func (h *PlanHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	page, err := dto.ParsePaging(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPage(w, r, func(ctx context.Context) (paging.Page[models.Plan], error) {
		return h.plans.Upcoming(ctx, page)
	})
}

func (h *PlanHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuidParam(r, "categoryId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := dto.ParsePaging(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPage(w, r, func(ctx context.Context) (paging.Page[models.Plan], error) {
		return h.plans.ByCategory(ctx, categoryID, page)
	})
}

func (h *PlanHandler) ByCreator(w http.ResponseWriter, r *http.Request) {
	creatorID, err := uuidParam(r, "creatorId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := dto.ParsePaging(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPage(w, r, func(ctx context.Context) (paging.Page[models.Plan], error) {
		return h.plans.ByCreator(ctx, creatorID, page)
	})
}

func (h *PlanHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := dto.ParsePaging(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	location := r.URL.Query().Get("location")

	h.respondPage(w, r, func(ctx context.Context) (paging.Page[models.Plan], error) {
		return h.plans.SearchByLocation(ctx, location, page)
	})
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdatePlanRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	input := plans.UpdateInput{
		Title:           validation.SanitizePtr(req.Title),
		Description:     validation.SanitizePtr(req.Description),
		Location:        validation.SanitizePtr(req.Location),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		MaxParticipants: req.MaxParticipants,
		ImageURL:        req.ImageURL,
	}
	if req.EventDate != nil {
		eventDate := req.EventDate.UTC()
		input.EventDate = &eventDate
	}

	plan, err := h.plans.Update(r.Context(), id, p.UserID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondPlan(w, r, http.StatusOK, plan)
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.plans.Delete(r.Context(), id, p.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.plans.Cancel(r.Context(), id, p.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlanHandler) respondPlan(w http.ResponseWriter, r *http.Request, status int, plan *models.Plan) {
	views, err := h.assemble(r.Context(), []models.Plan{*plan})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, views[plan.ID])
}

func (h *PlanHandler) respondPage(w http.ResponseWriter, r *http.Request, load func(context.Context) (paging.Page[models.Plan], error)) {
	page, err := load(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	views, err := h.assemble(r.Context(), page.Items)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPageResponse(page, func(p models.Plan) dto.PlanResponse {
		return views[p.ID]
	}))
}

// assemble resolves categories and creators for a batch of plans with one
// lookup each.
func (h *PlanHandler) assemble(ctx context.Context, list []models.Plan) (map[uuid.UUID]dto.PlanResponse, error) {
	categoryIDs := make([]uuid.UUID, 0, len(list))
	creatorIDs := make([]uuid.UUID, 0, len(list))
	for _, p := range list {
		categoryIDs = append(categoryIDs, p.CategoryID)
		creatorIDs = append(creatorIDs, p.CreatorID)
	}

	cats, err := h.categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	creators, err := h.users.FindByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	views := make(map[uuid.UUID]dto.PlanResponse, len(list))
	for i := range list {
		p := &list[i]
		views[p.ID] = dto.ToPlan(p, cats[p.CategoryID], creators[p.CreatorID])
	}
	return views, nil
}

func parsePlanFilter(r *http.Request) (plans.Filter, error) {
	q := r.URL.Query()
	var filter plans.Filter

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := models.PlanStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return filter, apperr.BadRequest("unknown plan status %q", raw)
		}
		filter.Status = status
	}

	var err error
	if filter.CategoryID, err = optionalUUID(q.Get("categoryId"), "categoryId"); err != nil {
		return filter, err
	}
	if filter.CreatorID, err = optionalUUID(q.Get("creatorId"), "creatorId"); err != nil {
		return filter, err
	}
	filter.Location = strings.TrimSpace(q.Get("location"))

	if filter.Upcoming, err = queryBool(r, "upcoming"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalUUID(raw, name string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid %s", name)
	}
	return id, nil
}
