package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/level"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/xp"
)

// ProgressionHandlers contains HTTP handlers for the XP ledger
type ProgressionHandlers struct {
	service xp.Service
}

// NewProgressionHandlers creates new progression handlers
func NewProgressionHandlers(service xp.Service) *ProgressionHandlers {
	return &ProgressionHandlers{service: service}
}

// InitializeUserRequest creates a progression record
type InitializeUserRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
}

// InitializeUserResponse reports the record and whether this call created it
type InitializeUserResponse struct {
	Message     string              `json:"message"`
	Created     bool                `json:"created"`
	Progression *domain.Progression `json:"progression"`
}

// AwardRequest is a manual award. Zero and negative amounts are recorded as given.
type AwardRequest struct {
	UserID           string  `json:"user_id" validate:"required,max=100"`
	Amount           int64   `json:"amount" validate:"min=-100000,max=100000"`
	Reason           string  `json:"reason" validate:"required,max=200"`
	RelatedRequestID *string `json:"related_request_id,omitempty" validate:"omitempty,max=100"`
}

// AwardActionRequest awards the fixed amount for a UI action
type AwardActionRequest struct {
	UserID           string  `json:"user_id" validate:"required,max=100"`
	Action           string  `json:"action" validate:"required,xp_action"`
	RelatedRequestID *string `json:"related_request_id,omitempty" validate:"omitempty,max=100"`
}

// TransactionsResponse lists ledger entries newest first
type TransactionsResponse struct {
	UserID       string                 `json:"user_id"`
	Transactions []domain.XPTransaction `json:"transactions"`
}

// CurveLevelResponse answers a level lookup
type CurveLevelResponse struct {
	Level      int   `json:"level"`
	XPRequired int64 `json:"xp_required"`
}

// HandleInitializeUser creates the progression record with the welcome bonus
// @Summary Initialize progression
// @Description Creates the progression record and grants the welcome bonus. Repeated calls return the existing record.
// @Tags progression
// @Accept json
// @Produce json
// @Param request body InitializeUserRequest true "User"
// @Success 201 {object} InitializeUserResponse "Created"
// @Success 200 {object} InitializeUserResponse "Already existed"
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression/users [post]
func (h *ProgressionHandlers) HandleInitializeUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InitializeUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Initialize user"); err != nil {
			return
		}

		prog, created, err := h.service.InitializeUser(r.Context(), req.UserID)
		if err != nil {
			respondServiceError(w, r, ErrMsgInitializeUserFailed, err)
			return
		}

		resp := InitializeUserResponse{Message: MsgProgressionExists, Progression: prog}
		status := http.StatusOK
		if created {
			resp.Message = MsgProgressionCreated
			resp.Created = true
			status = http.StatusCreated
		}
		respondJSON(w, status, resp)
	}
}

// HandleGetSummary returns the user's level, band progress and achievement counts
// @Summary Progression summary
// @Tags progression
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.ProgressionSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression [get]
func (h *ProgressionHandlers) HandleGetSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		summary, err := h.service.GetSummary(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetSummaryFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, summary)
	}
}

// HandleAward records a manual XP award
// @Summary Award XP
// @Tags progression
// @Accept json
// @Produce json
// @Param request body AwardRequest true "Award"
// @Success 200 {object} domain.LevelUpResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Concurrent update, retry"
// @Security ApiKeyAuth
// @Router /api/v1/progression/award [post]
func (h *ProgressionHandlers) HandleAward() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AwardRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Award XP"); err != nil {
			return
		}
		LogRequestFields(log, "user_id", req.UserID, "amount", req.Amount, "reason", req.Reason)

		ctx := xp.WithSource(r.Context(), xp.SourceManual)
		result, err := h.service.Award(ctx, req.UserID, req.Amount, req.Reason, req.RelatedRequestID)
		if err != nil {
			respondServiceError(w, r, ErrMsgAwardXPFailed, err)
			return
		}

		log.Info(fmt.Sprintf(LogMsgRequestSuccess, "Award XP"), "user_id", req.UserID, "leveled_up", result.LeveledUp)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleAwardAction awards XP for one of the fixed UI actions
// @Summary Award action XP
// @Tags progression
// @Accept json
// @Produce json
// @Param request body AwardActionRequest true "Action"
// @Success 200 {object} domain.LevelUpResult
// @Failure 400 {object} ErrorResponse "Unknown action"
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression/actions [post]
func (h *ProgressionHandlers) HandleAwardAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AwardActionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Award action"); err != nil {
			return
		}

		ctx := xp.WithSource(r.Context(), xp.SourceAction)
		result, err := h.service.AwardAction(ctx, req.UserID, req.Action, req.RelatedRequestID)
		if err != nil {
			respondServiceError(w, r, ErrMsgAwardActionFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleGetTransactions returns the newest ledger entries for a user
// @Summary XP ledger
// @Tags progression
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} TransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression/transactions [get]
func (h *ProgressionHandlers) HandleGetTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}
		limit := getQueryInt(r, "limit", xp.DefaultTransactionLimit)

		txns, err := h.service.GetTransactions(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetTransactionsFailed, err)
			return
		}
		if txns == nil {
			txns = []domain.XPTransaction{}
		}
		respondJSON(w, http.StatusOK, TransactionsResponse{UserID: userID, Transactions: txns})
	}
}

// HandleCurve answers level curve lookups: ?level=N gives the cumulative XP for
// level N, ?xp=N gives the level and band progress for a total.
// @Summary Level curve lookup
// @Tags progression
// @Produce json
// @Param level query int false "Level to price"
// @Param xp query int false "XP total to place on the curve"
// @Success 200 {object} CurveLevelResponse "level lookup"
// @Success 200 {object} level.Progress "xp lookup"
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression/curve [get]
func HandleCurve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		levelStr, xpStr := q.Get("level"), q.Get("xp")

		switch {
		case levelStr != "" && xpStr == "":
			l, err := strconv.Atoi(levelStr)
			if err != nil || l < level.MinLevel || l > level.MaxLevel {
				respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, "level"))
				return
			}
			respondJSON(w, http.StatusOK, CurveLevelResponse{Level: l, XPRequired: level.XPRequiredForLevel(l)})
		case xpStr != "" && levelStr == "":
			total, err := strconv.ParseInt(xpStr, 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, "xp"))
				return
			}
			respondJSON(w, http.StatusOK, level.ProgressWithinLevel(total))
		default:
			respondError(w, http.StatusBadRequest, ErrMsgCurveQueryParam)
		}
	}
}
