package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/eventlog"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/reconcile"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// AdminHandlers contains operator endpoints
type AdminHandlers struct {
	reconciler reconcile.Service
	events     eventlog.Service
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(reconciler reconcile.Service, events eventlog.Service) *AdminHandlers {
	return &AdminHandlers{reconciler: reconciler, events: events}
}

// ReconcileRequest targets one user, or every user when UserID is empty
type ReconcileRequest struct {
	UserID string `json:"user_id" validate:"max=100"`
}

// ReconcileUserResponse reports what a single-user pass repaired
type ReconcileUserResponse struct {
	Message string                  `json:"message"`
	Changed bool                    `json:"changed"`
	Result  *domain.ReconcileResult `json:"result"`
}

// ReconcileAllResponse reports a full pass
type ReconcileAllResponse struct {
	Message string                `json:"message"`
	Summary *reconcile.RunSummary `json:"summary"`
}

// EventsResponse lists audit log entries newest first
type EventsResponse struct {
	Count  int                        `json:"count"`
	Events []repository.EventLogEntry `json:"events"`
}

// HandleReconcile repairs drifted progression state on demand
// @Summary Reconcile progression
// @Description Recomputes XP, stats and achievements from history. An empty user_id runs a pass over every user.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ReconcileRequest true "Target user"
// @Success 200 {object} ReconcileUserResponse "Single user"
// @Success 200 {object} ReconcileAllResponse "Every user"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown user"
// @Failure 503 {object} ErrorResponse "Pass timed out"
// @Security ApiKeyAuth
// @Router /api/v1/admin/reconcile [post]
func (h *AdminHandlers) HandleReconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ReconcileRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Reconcile"); err != nil {
			return
		}

		if req.UserID != "" {
			res, err := h.reconciler.ReconcileUser(r.Context(), req.UserID)
			if err != nil {
				respondServiceError(w, r, ErrMsgReconcileFailed, err)
				return
			}
			log.Info(MsgReconcileUserFinished, "user_id", req.UserID, "changed", res.Changed())
			respondJSON(w, http.StatusOK, ReconcileUserResponse{
				Message: MsgReconcileUserFinished,
				Changed: res.Changed(),
				Result:  res,
			})
			return
		}

		summary, err := h.reconciler.RunOnce(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgReconcileFailed, err)
			return
		}
		log.Info(MsgReconcileAllFinished, "users", summary.Users, "repaired", summary.Repaired, "failed", summary.Failed)
		respondJSON(w, http.StatusOK, ReconcileAllResponse{Message: MsgReconcileAllFinished, Summary: summary})
	}
}

// HandleListEvents queries the audit log of published domain events
// @Summary List logged events
// @Description Returns logged domain events newest first, optionally filtered by user, type and time window
// @Tags admin
// @Produce json
// @Param user_id query string false "User ID"
// @Param type query string false "Event type, e.g. meal.completed"
// @Param since query string false "RFC3339 lower bound on created_at"
// @Param until query string false "RFC3339 upper bound on created_at"
// @Param limit query int false "Maximum entries (default 100, max 1000)"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/events [get]
func (h *AdminHandlers) HandleListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := repository.EventLogFilter{Limit: getQueryInt(r, "limit", eventlog.DefaultQueryLimit)}
		if v := GetOptionalQueryParam(r, "user_id", ""); v != "" {
			filter.UserID = &v
		}
		if v := GetOptionalQueryParam(r, "type", ""); v != "" {
			filter.EventType = &v
		}

		var ok bool
		if filter.Since, ok = queryTime(w, r, "since"); !ok {
			return
		}
		if filter.Until, ok = queryTime(w, r, "until"); !ok {
			return
		}

		entries, err := h.events.ListEvents(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, ErrMsgListEventsFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, EventsResponse{Count: len(entries), Events: entries})
	}
}

// queryTime parses an optional RFC3339 parameter. On false the response is already written.
func queryTime(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, true
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, key))
		return nil, false
	}
	return &ts, true
}
