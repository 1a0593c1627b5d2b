package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
)

type CategoryHandler struct {
	categories *categories.Service
	logger     *slog.Logger
}

func NewCategoryHandler(categoryService *categories.Service, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categoryService, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyActive, err := queryBool(r, "onlyActive")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.categories.List(r.Context(), onlyActive)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToCategories(list))
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToCategory(category))
}
