package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

type Handler struct {
	orchestrator *usecase.OrchestratorService
	query        *usecase.QueryService
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	orchestrator *usecase.OrchestratorService,
	query *usecase.QueryService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		orchestrator: orchestrator,
		query:        query,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// TriggerUpdate kicks off the sync pipeline and returns immediately. The
// response only says whether a run was started; progress is on the status
// route.
func (h *Handler) TriggerUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerUpdate")
	defer span.End()

	status, err := h.orchestrator.Trigger(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "trigger update failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, triggerDTO{Status: status})
}

func (h *Handler) GetUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUpdateStatus")
	defer span.End()

	record, err := h.orchestrator.Status(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get update status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(record))
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	items, err := h.query.ListCompetitions(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	id, err := h.pathID(ctx, r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.query.GetCompetition(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition failed", "competition_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	id, err := h.pathID(ctx, r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.query.GetStandings(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "competition_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	id, err := h.pathID(ctx, r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.query.GetTeam(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detail)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.query.ListMainMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	id, err := h.pathID(ctx, r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.query.GetMatch(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetMatchHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchHeadToHead")
	defer span.End()

	id, err := h.pathID(ctx, r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, meetings, err := h.query.GetMatchHeadToHead(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get head-to-head failed", "match_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, headToHeadDTO{
		Record:   record,
		Meetings: meetings,
	})
}

func (h *Handler) pathID(ctx context.Context, r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", usecase.ErrInvalidInput, name, raw)
	}
	if err := h.validateRequest(ctx, idParams{ID: id}); err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type idParams struct {
	ID int64 `validate:"required,gt=0"`
}

type triggerDTO struct {
	Status string `json:"status"`
}

type scheduleDTO struct {
	LastRunAt  string           `json:"lastRunAt"`
	LastStatus string           `json:"lastStatus"`
	Windows    []scheduleWindow `json:"windows"`
}

type scheduleWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type headToHeadDTO struct {
	Record   headtohead.HeadToHead `json:"record"`
	Meetings []match.Match         `json:"meetings"`
}

func scheduleToDTO(record schedule.Record) scheduleDTO {
	windows := make([]scheduleWindow, 0, len(record.Windows))
	for _, window := range record.Windows {
		windows = append(windows, scheduleWindow{
			Start: window.Start.UTC().Format(time.RFC3339),
			End:   window.End.UTC().Format(time.RFC3339),
		})
	}

	lastRunAt := ""
	if !record.LastRunAt.IsZero() {
		lastRunAt = record.LastRunAt.UTC().Format(time.RFC3339)
	}

	return scheduleDTO{
		LastRunAt:  lastRunAt,
		LastStatus: string(record.LastStatus),
		Windows:    windows,
	}
}
