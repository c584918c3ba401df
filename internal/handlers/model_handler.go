package handlers

import (
	"net/http"

	"github.com/iyunix/go-chatnest/internal/dtos"
	"github.com/iyunix/go-chatnest/internal/services/ai"
)

// ModelHandler serves the completion provider's model list.
type ModelHandler struct {
	models ai.ModelLister
	logger Logger
}

func NewModelHandler(models ai.ModelLister, logger Logger) *ModelHandler {
	return &ModelHandler{models: models, logger: logger}
}

// ListModels handles GET /api/models.
func (h *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.ListModels(r.Context())
	if err != nil {
		respondError(w, r, h.logger, "list_models", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToModelResponseDTOs(models))
}
