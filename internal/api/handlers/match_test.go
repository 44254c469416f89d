package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/matchai/internal/domain"
	"github.com/talentbridge/matchai/internal/pagination"
	"github.com/talentbridge/matchai/internal/service"
)

type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) ScoreSingle(ctx context.Context, userID, jobID int64) (int, error) {
	args := m.Called(ctx, userID, jobID)
	return args.Int(0), args.Error(1)
}

func (m *MockMatchService) ScoreBatch(ctx context.Context, input service.BatchInput) ([]service.JobScore, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.JobScore), args.Error(1)
}

func (m *MockMatchService) ListScores(ctx context.Context, candidateID int64, cursor string, limit int) (*pagination.PageResult[service.ScoreSummary], error) {
	args := m.Called(ctx, candidateID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[service.ScoreSummary]), args.Error(1)
}

func (m *MockMatchService) InvalidateCandidate(ctx context.Context, candidateID int64) (int64, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMatchService) InvalidateJob(ctx context.Context, jobID int64) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPrecomputeService struct {
	mock.Mock
}

func (m *MockPrecomputeService) PrecomputeForCandidate(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockGapService struct {
	mock.Mock
}

func (m *MockGapService) Analyze(ctx context.Context, userID, jobID int64) (*service.GapResult, error) {
	args := m.Called(ctx, userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GapResult), args.Error(1)
}

func newTestHandler() (*MatchHandler, *MockMatchService, *MockPrecomputeService, *MockGapService) {
	match := new(MockMatchService)
	precompute := new(MockPrecomputeService)
	gap := new(MockGapService)
	return NewMatchHandler(match, precompute, gap), match, precompute, gap
}

func TestMatchHandler_Score(t *testing.T) {
	t.Run("returns the score", func(t *testing.T) {
		h, match, _, _ := newTestHandler()
		match.On("ScoreSingle", mock.Anything, int64(42), int64(7)).Return(83, nil)

		body := bytes.NewBufferString(`{"userId": 42, "jobId": 7}`)
		req := httptest.NewRequest(http.MethodPost, "/match/score", body)
		w := httptest.NewRecorder()

		h.Score(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data ScoreResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 83, resp.Data.Score)
		assert.Equal(t, int64(42), resp.Data.UserID)
	})

	t.Run("rejects missing ids", func(t *testing.T) {
		h, _, _, _ := newTestHandler()

		body := bytes.NewBufferString(`{"userId": 42}`)
		req := httptest.NewRequest(http.MethodPost, "/match/score", body)
		w := httptest.NewRecorder()

		h.Score(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		h, _, _, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/match/score", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		h.Score(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps domain errors to status codes", func(t *testing.T) {
		cases := []struct {
			err  error
			want int
		}{
			{domain.ErrJobNotFound, http.StatusNotFound},
			{domain.ErrCandidateNotFound, http.StatusNotFound},
			{domain.ErrUpstreamRateLimited, http.StatusTooManyRequests},
			{domain.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		}

		for _, tc := range cases {
			h, match, _, _ := newTestHandler()
			match.On("ScoreSingle", mock.Anything, int64(42), int64(7)).Return(0, tc.err)

			body := bytes.NewBufferString(`{"userId": 42, "jobId": 7}`)
			req := httptest.NewRequest(http.MethodPost, "/match/score", body)
			w := httptest.NewRecorder()

			h.Score(w, req)

			assert.Equal(t, tc.want, w.Code)
		}
	})
}

func TestMatchHandler_ScoreBatch(t *testing.T) {
	t.Run("returns per-job results", func(t *testing.T) {
		h, match, _, _ := newTestHandler()
		match.On("ScoreBatch", mock.Anything, mock.MatchedBy(func(input service.BatchInput) bool {
			return input.UserID == 42 && len(input.Jobs) == 2
		})).Return([]service.JobScore{
			{JobID: 7, MatchScore: 83, Similarity: 0.83},
			{JobID: 8, MatchScore: 61, Similarity: 0.61},
		}, nil)

		body := bytes.NewBufferString(`{"userId": 42, "jobs": [{"jobId": 7}, {"jobId": 8}]}`)
		req := httptest.NewRequest(http.MethodPost, "/match/batch", body)
		w := httptest.NewRecorder()

		h.ScoreBatch(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data BatchScoreResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Results, 2)
		assert.Equal(t, int64(7), resp.Data.Results[0].JobID)
	})

	t.Run("rejects an empty job list", func(t *testing.T) {
		h, _, _, _ := newTestHandler()

		body := bytes.NewBufferString(`{"userId": 42, "jobs": []}`)
		req := httptest.NewRequest(http.MethodPost, "/match/batch", body)
		w := httptest.NewRecorder()

		h.ScoreBatch(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing profile for anonymous caller is a 400", func(t *testing.T) {
		h, match, _, _ := newTestHandler()
		match.On("ScoreBatch", mock.Anything, mock.Anything).
			Return(nil, domain.ErrEmptyBatchProfile)

		body := bytes.NewBufferString(`{"jobs": [{"jobId": 7}]}`)
		req := httptest.NewRequest(http.MethodPost, "/match/batch", body)
		w := httptest.NewRecorder()

		h.ScoreBatch(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMatchHandler_Precompute(t *testing.T) {
	t.Run("reports the computed count", func(t *testing.T) {
		h, _, precompute, _ := newTestHandler()
		precompute.On("PrecomputeForCandidate", mock.Anything, int64(42)).Return(17, nil)

		body := bytes.NewBufferString(`{"userId": 42}`)
		req := httptest.NewRequest(http.MethodPost, "/match/precompute", body)
		w := httptest.NewRecorder()

		h.Precompute(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data PrecomputeResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 17, resp.Data.Computed)
	})

	t.Run("unknown candidate is a 404", func(t *testing.T) {
		h, _, precompute, _ := newTestHandler()
		precompute.On("PrecomputeForCandidate", mock.Anything, int64(404)).
			Return(0, domain.ErrCandidateNotFound)

		body := bytes.NewBufferString(`{"userId": 404}`)
		req := httptest.NewRequest(http.MethodPost, "/match/precompute", body)
		w := httptest.NewRecorder()

		h.Precompute(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMatchHandler_Gap(t *testing.T) {
	t.Run("returns the combined report", func(t *testing.T) {
		h, _, _, gap := newTestHandler()
		gap.On("Analyze", mock.Anything, int64(42), int64(7)).Return(&service.GapResult{
			Skills: domain.SkillGapReport{
				RequiredMissing: []string{"Kubernetes"},
				MatchRate:       0.5,
			},
			Advice: "Learn Kubernetes.",
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/match/gap?userId=42&jobId=7", nil)
		w := httptest.NewRecorder()

		h.Gap(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data service.GapResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Kubernetes"}, resp.Data.Skills.RequiredMissing)
		assert.Equal(t, "Learn Kubernetes.", resp.Data.Advice)
	})

	t.Run("rejects missing query params", func(t *testing.T) {
		h, _, _, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodGet, "/match/gap?userId=42", nil)
		w := httptest.NewRecorder()

		h.Gap(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMatchHandler_ListScores(t *testing.T) {
	t.Run("returns a page of cached scores", func(t *testing.T) {
		h, match, _, _ := newTestHandler()
		match.On("ListScores", mock.Anything, int64(42), "", 2).Return(&pagination.PageResult[service.ScoreSummary]{
			Items: []service.ScoreSummary{
				{JobID: 7, MatchScore: 80, Similarity: 0.8},
				{JobID: 9, MatchScore: 65, Similarity: 0.65},
			},
			Cursor:  pagination.EncodeCursor(9),
			HasMore: true,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/match/candidate/42/scores?limit=2", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "42")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		h.ListScores(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data pagination.PageResult[service.ScoreSummary] `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Items, 2)
		assert.Equal(t, int64(7), resp.Data.Items[0].JobID)
		assert.True(t, resp.Data.HasMore)
		assert.NotEmpty(t, resp.Data.Cursor)
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		h, _, _, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodGet, "/match/candidate/42/scores?limit=lots", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "42")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		h.ListScores(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMatchHandler_Invalidate(t *testing.T) {
	t.Run("deletes cached scores for a candidate", func(t *testing.T) {
		h, match, _, _ := newTestHandler()
		match.On("InvalidateCandidate", mock.Anything, int64(42)).Return(int64(3), nil)

		req := httptest.NewRequest(http.MethodDelete, "/match/candidate/42", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "42")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		h.InvalidateCandidate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data InvalidateResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.Data.Deleted)
	})

	t.Run("rejects a non-numeric id", func(t *testing.T) {
		h, _, _, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodDelete, "/match/job/abc", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "abc")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		h.InvalidateJob(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
