package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

// MockAdviceProvider is a mock implementation of AdviceProvider
type MockAdviceProvider struct {
	mock.Mock
}

func (m *MockAdviceProvider) ForGap(
	ctx context.Context,
	candidateID, jobID int64,
	skills domain.SkillGapReport,
	experience domain.ExperienceGapReport,
	education domain.EducationGapReport,
) string {
	args := m.Called(ctx, candidateID, jobID, skills, experience, education)
	return args.String(0)
}

func TestGapService_Analyze(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("combines all three reports with advice", func(t *testing.T) {
		store := new(MockProfileStore)
		advice := new(MockAdviceProvider)
		svc := NewGapService(store, NewGapAnalyzer(zap.NewNop()), advice)

		store.On("GetJob", mock.Anything, int64(7)).Return(testJob(base), nil)
		store.On("GetCandidate", mock.Anything, int64(42)).Return(testProfile(base), nil)
		advice.On("ForGap", mock.Anything, int64(42), int64(7), mock.Anything, mock.Anything, mock.Anything).
			Return("Keep practicing Go.")

		result, err := svc.Analyze(ctx, 42, 7)

		require.NoError(t, err)
		// Stored skills Go and PostgreSQL; job requires Go, Kafka optional.
		assert.Empty(t, result.Skills.RequiredMissing)
		assert.Equal(t, []string{"Kafka"}, result.Skills.OptionalMissing)
		assert.True(t, result.Education.IsQualified)
		assert.Equal(t, "Keep practicing Go.", result.Advice)
	})

	t.Run("works without an advice provider", func(t *testing.T) {
		store := new(MockProfileStore)
		svc := NewGapService(store, NewGapAnalyzer(zap.NewNop()), nil)

		store.On("GetJob", mock.Anything, int64(7)).Return(testJob(base), nil)
		store.On("GetCandidate", mock.Anything, int64(42)).Return(testProfile(base), nil)

		result, err := svc.Analyze(ctx, 42, 7)

		require.NoError(t, err)
		assert.Empty(t, result.Advice)
	})

	t.Run("unknown job or candidate fails", func(t *testing.T) {
		store := new(MockProfileStore)
		svc := NewGapService(store, NewGapAnalyzer(zap.NewNop()), nil)

		store.On("GetJob", mock.Anything, int64(99)).Return(nil, nil)
		_, err := svc.Analyze(ctx, 42, 99)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)

		store.On("GetJob", mock.Anything, int64(7)).Return(testJob(base), nil)
		store.On("GetCandidate", mock.Anything, int64(404)).Return(nil, nil)
		_, err = svc.Analyze(ctx, 404, 7)
		assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	})
}
