package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/matchai/internal/api"
	"github.com/talentbridge/matchai/internal/pagination"
	"github.com/talentbridge/matchai/internal/service"
)

type MatchService interface {
	ScoreSingle(ctx context.Context, userID, jobID int64) (int, error)
	ScoreBatch(ctx context.Context, input service.BatchInput) ([]service.JobScore, error)
	ListScores(ctx context.Context, candidateID int64, cursor string, limit int) (*pagination.PageResult[service.ScoreSummary], error)
	InvalidateCandidate(ctx context.Context, candidateID int64) (int64, error)
	InvalidateJob(ctx context.Context, jobID int64) (int64, error)
}

type PrecomputeService interface {
	PrecomputeForCandidate(ctx context.Context, userID int64) (int, error)
}

type GapService interface {
	Analyze(ctx context.Context, userID, jobID int64) (*service.GapResult, error)
}

type MatchHandler struct {
	match      MatchService
	precompute PrecomputeService
	gap        GapService
}

func NewMatchHandler(match MatchService, precompute PrecomputeService, gap GapService) *MatchHandler {
	return &MatchHandler{
		match:      match,
		precompute: precompute,
		gap:        gap,
	}
}

type ScoreRequest struct {
	UserID int64 `json:"userId"`
	JobID  int64 `json:"jobId"`
}

type ScoreResponse struct {
	UserID int64 `json:"userId"`
	JobID  int64 `json:"jobId"`
	Score  int   `json:"score"`
}

func (h *MatchHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 || req.JobID <= 0 {
		api.Error(w, http.StatusBadRequest, "userId and jobId are required")
		return
	}

	score, err := h.match.ScoreSingle(r.Context(), req.UserID, req.JobID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ScoreResponse{
		UserID: req.UserID,
		JobID:  req.JobID,
		Score:  score,
	})
}

type BatchScoreRequest struct {
	UserID  int64                     `json:"userId"`
	Profile *service.ProfilePayload   `json:"profile"`
	Jobs    []service.BatchJobPayload `json:"jobs"`
}

type BatchScoreResponse struct {
	Results []service.JobScore `json:"results"`
}

func (h *MatchHandler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Jobs) == 0 {
		api.Error(w, http.StatusBadRequest, "jobs are required")
		return
	}

	results, err := h.match.ScoreBatch(r.Context(), service.BatchInput{
		UserID:  req.UserID,
		Profile: req.Profile,
		Jobs:    req.Jobs,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, BatchScoreResponse{Results: results})
}

type PrecomputeRequest struct {
	UserID int64 `json:"userId"`
}

type PrecomputeResponse struct {
	UserID   int64 `json:"userId"`
	Computed int   `json:"computed"`
}

func (h *MatchHandler) Precompute(w http.ResponseWriter, r *http.Request) {
	var req PrecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		api.Error(w, http.StatusBadRequest, "userId is required")
		return
	}

	computed, err := h.precompute.PrecomputeForCandidate(r.Context(), req.UserID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, PrecomputeResponse{
		UserID:   req.UserID,
		Computed: computed,
	})
}

func (h *MatchHandler) Gap(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		api.Error(w, http.StatusBadRequest, "userId is required")
		return
	}
	jobID, err := strconv.ParseInt(r.URL.Query().Get("jobId"), 10, 64)
	if err != nil || jobID <= 0 {
		api.Error(w, http.StatusBadRequest, "jobId is required")
		return
	}

	result, err := h.gap.Analyze(r.Context(), userID, jobID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// ListScores returns a page of cached scores for one candidate. The
// cursor and limit come from query parameters; an absent limit uses the
// service default.
func (h *MatchHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	page, err := h.match.ListScores(r.Context(), id, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, page)
}

type InvalidateResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *MatchHandler) InvalidateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	deleted, err := h.match.InvalidateCandidate(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, InvalidateResponse{Deleted: deleted})
}

func (h *MatchHandler) InvalidateJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid job id")
		return
	}

	deleted, err := h.match.InvalidateJob(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, InvalidateResponse{Deleted: deleted})
}
