package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	registrymetrics "easel/internal/registry/metrics"
	"easel/internal/registry/models"
	"easel/internal/registry/service"
	dErrors "easel/pkg/domain-errors"
	"easel/pkg/platform/httputil"
	"easel/pkg/requestcontext"
)

// Service defines the registry operations the handler needs.
type Service interface {
	CreateAttribute(ctx context.Context, req service.CreateAttributeRequest) (*models.Attribute, error)
	AddTraits(ctx context.Context, attributeID int, specs []models.TraitSpec) error
	AddSingleTrait(ctx context.Context, attributeID, traitID int, name string, rarity models.Rarity) error
	UpdateCID(ctx context.Context, attributeID int, cid string) error
	UpdateCIDs(ctx context.Context, cids []string) error

	GetAttribute(ctx context.Context, attributeID int) (*models.Attribute, error)
	ListAttributes(ctx context.Context) ([]*models.Attribute, error)
	ListTraits(ctx context.Context, attributeID int) ([]*models.Trait, error)
	CurrentCID(ctx context.Context, attributeID int) (string, error)
	CIDHistory(ctx context.Context, attributeID int) ([]string, error)
	Scripts(ctx context.Context) ([]string, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *registrymetrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: metrics}
}

// RegisterAdmin mounts the mutating endpoints. The router wraps these in the
// admin credential middleware; the capability decision itself happens in the
// service's authorizer.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/attributes", h.HandleCreateAttribute)
	r.Post("/attributes/{attributeID}/traits", h.HandleAddTraits)
	r.Put("/attributes/{attributeID}/traits/{traitID}", h.HandleAddSingleTrait)
	r.Put("/attributes/{attributeID}/cid", h.HandleUpdateCID)
	r.Put("/attributes/cids", h.HandleUpdateCIDs)
}

// RegisterPublic mounts the read-only endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/attributes", h.HandleListAttributes)
	r.Get("/attributes/{attributeID}", h.HandleGetAttribute)
	r.Get("/attributes/{attributeID}/traits", h.HandleListTraits)
	r.Get("/attributes/{attributeID}/cid", h.HandleCurrentCID)
	r.Get("/attributes/{attributeID}/cid/history", h.HandleCIDHistory)
	r.Get("/generation-scripts", h.HandleListScripts)
}

func pathInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s must be an integer", name)
	}
	return value, nil
}

// HandleCreateAttribute handles POST /admin/attributes.
func (h *Handler) HandleCreateAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateAttributeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateAttribute(ctx, service.CreateAttributeRequest{
		Name:   req.Name,
		Traits: specs(req.Traits),
		CID:    req.CID,
		Script: req.Script,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create attribute failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveCreateAttribute(start)
	}
	httputil.WriteJSON(w, http.StatusCreated, CreateAttributeResponse{AttributeID: created.ID})
}

// HandleAddTraits handles POST /admin/attributes/{attributeID}/traits.
func (h *Handler) HandleAddTraits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddTraitsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddTraits(ctx, attributeID, specs(req.Traits)); err != nil {
		h.logger.ErrorContext(ctx, "add traits failed",
			"request_id", requestID,
			"attribute_id", attributeID,
			"count", len(req.Traits),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddSingleTrait handles PUT /admin/attributes/{attributeID}/traits/{traitID}.
func (h *Handler) HandleAddSingleTrait(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	traitID, err := pathInt(r, "traitID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddSingleTraitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddSingleTrait(ctx, attributeID, traitID, req.Name, models.Rarity(req.Rarity)); err != nil {
		h.logger.ErrorContext(ctx, "add single trait failed",
			"request_id", requestID,
			"attribute_id", attributeID,
			"trait_id", traitID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateCID handles PUT /admin/attributes/{attributeID}/cid.
func (h *Handler) HandleUpdateCID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateCIDRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateCID(ctx, attributeID, req.CID); err != nil {
		h.logger.ErrorContext(ctx, "cid update failed",
			"request_id", requestID,
			"attribute_id", attributeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateCIDs handles PUT /admin/attributes/cids.
func (h *Handler) HandleUpdateCIDs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UpdateCIDsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateCIDs(ctx, req.CIDs); err != nil {
		h.logger.ErrorContext(ctx, "bulk cid update failed",
			"request_id", requestID,
			"count", len(req.CIDs),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListAttributes handles GET /attributes.
func (h *Handler) HandleListAttributes(w http.ResponseWriter, r *http.Request) {
	attributes, err := h.service.ListAttributes(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAttributes(attributes))
}

// HandleGetAttribute handles GET /attributes/{attributeID}.
func (h *Handler) HandleGetAttribute(w http.ResponseWriter, r *http.Request) {
	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attribute, err := h.service.GetAttribute(r.Context(), attributeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAttribute(attribute))
}

// HandleListTraits handles GET /attributes/{attributeID}/traits.
func (h *Handler) HandleListTraits(w http.ResponseWriter, r *http.Request) {
	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	traits, err := h.service.ListTraits(r.Context(), attributeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromTraits(attributeID, traits))
}

// HandleCurrentCID handles GET /attributes/{attributeID}/cid.
func (h *Handler) HandleCurrentCID(w http.ResponseWriter, r *http.Request) {
	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cid, err := h.service.CurrentCID(r.Context(), attributeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CurrentCIDResponse{AttributeID: attributeID, CID: cid})
}

// HandleCIDHistory handles GET /attributes/{attributeID}/cid/history.
func (h *Handler) HandleCIDHistory(w http.ResponseWriter, r *http.Request) {
	attributeID, err := pathInt(r, "attributeID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	history, err := h.service.CIDHistory(r.Context(), attributeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CIDHistoryResponse{AttributeID: attributeID, History: history})
}

// HandleListScripts handles GET /generation-scripts.
func (h *Handler) HandleListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.service.Scripts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ScriptListResponse{Scripts: scripts})
}
