package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/service"
	"dojoroll/internal/platform/metrics"
	"dojoroll/internal/platform/middleware"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/platform/httputil"
	"dojoroll/pkg/requestcontext"
)

// Service defines the lifecycle operations the HTTP layer exposes.
type Service interface {
	Provision(ctx context.Context, req service.ProvisionRequest) (*models.Person, error)
	Modify(ctx context.Context, req service.ModifyRequest) (*models.Person, error)
	Promote(ctx context.Context, req service.PromoteRequest) (*models.Person, error)
	Demote(ctx context.Context, personID id.PersonID) (*models.Person, error)
	Deprovision(ctx context.Context, personID id.PersonID) error
	Get(ctx context.Context, personID id.PersonID) (*models.Person, error)
}

// Handler handles member lifecycle endpoints.
type Handler struct {
	logger       *slog.Logger
	identity     Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new member Handler.
func New(
	identity Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		identity:     identity,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the member routes with the chi router. Lifecycle
// transitions are admin-only; reads and self-service edits need any
// authenticated caller.
func (h *Handler) Register(r chi.Router) {
	memberRouter := chi.NewRouter()
	memberRouter.Use(middleware.Recovery(h.logger))
	memberRouter.Use(middleware.RequestID)
	memberRouter.Use(middleware.RequestTime)
	memberRouter.Use(middleware.Logger(h.logger))
	memberRouter.Use(middleware.Timeout(30 * time.Second))
	memberRouter.Use(middleware.ContentTypeJSON)
	memberRouter.Use(middleware.Latency(h.metrics))
	memberRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	memberRouter.Get("/members/{id}", h.handleGet)
	memberRouter.Patch("/members/{id}", h.handleModify)

	memberRouter.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin(h.logger))
		admin.Post("/members", h.handleProvision)
		admin.Post("/members/{id}/promote", h.handlePromote)
		admin.Post("/members/{id}/demote", h.handleDemote)
		admin.Delete("/members/{id}", h.handleDeprovision)
	})

	r.Mount("/", memberRouter)
}

func (h *Handler) handleProvision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.warn(ctx, "invalid provision request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	sanitize(&body)

	req, err := body.toService()
	if err != nil {
		h.warn(ctx, "invalid provision request", err)
		httputil.WriteError(w, err)
		return
	}

	person, err := h.identity.Provision(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "provision failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPersonResponse(person))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := pathPersonID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.identity.Get(ctx, personID)
	if err != nil {
		h.writeServiceError(ctx, w, "get member failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *Handler) handleModify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := pathPersonID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body modifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.warn(ctx, "invalid modify request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	req, err := body.toService(personID, requestcontext.CallerID(ctx), requestcontext.CallerRole(ctx))
	if err != nil {
		h.warn(ctx, "invalid modify request", err)
		httputil.WriteError(w, err)
		return
	}

	person, err := h.identity.Modify(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "modify failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *Handler) handlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := pathPersonID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.warn(ctx, "invalid promote request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	sanitize(&body)

	req, err := body.toService(personID)
	if err != nil {
		h.warn(ctx, "invalid promote request", err)
		httputil.WriteError(w, err)
		return
	}

	person, err := h.identity.Promote(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, "promote failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *Handler) handleDemote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := pathPersonID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.identity.Demote(ctx, personID)
	if err != nil {
		h.writeServiceError(ctx, w, "demote failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(person))
}

func (h *Handler) handleDeprovision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := pathPersonID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.identity.Deprovision(ctx, personID); err != nil {
		h.writeServiceError(ctx, w, "deprovision failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathPersonID parses the {id} path parameter into a PersonID.
func pathPersonID(r *http.Request) (id.PersonID, error) {
	raw := chi.URLParam(r, "id")
	personID, err := id.ParsePersonID(raw)
	if err != nil {
		return id.PersonID{}, dErrors.New(dErrors.CodeBadRequest, "malformed member ID")
	}
	return personID, nil
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

// writeServiceError logs at a level matching the error class and writes the
// mapped response. Client mistakes stay at warn; store trouble is an error.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeUnavailable, dErrors.CodePartialFailure, dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	default:
		h.warn(ctx, msg, err)
	}
	httputil.WriteError(w, err)
}
