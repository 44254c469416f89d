package service

import (
	"context"
	"time"

	"github.com/talentbridge/matchai/internal/domain"
	"github.com/talentbridge/matchai/internal/telemetry"
	"go.uber.org/zap"
)

// PrecomputeService warms the match score cache for one candidate against
// every active job, typically after a profile change.
type PrecomputeService struct {
	store    ProfileStore
	cache    ScoreCache
	embedder Embedder
	logger   *zap.Logger
	now      func() time.Time
}

// NewPrecomputeService creates a new PrecomputeService instance
func NewPrecomputeService(store ProfileStore, cache ScoreCache, embedder Embedder, logger *zap.Logger) *PrecomputeService {
	return &PrecomputeService{
		store:    store,
		cache:    cache,
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}
}

// PrecomputeForCandidate embeds the candidate's profile once and scores it
// against every active job, replacing each cached record. Per-job failures
// are logged and skipped. Returns the number of scores computed; a score
// that failed to persist still counts.
func (s *PrecomputeService) PrecomputeForCandidate(ctx context.Context, userID int64) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "PrecomputeService.PrecomputeForCandidate", telemetry.SpanAttributes{
		CandidateID: userID,
		Operation:   "precompute",
	})
	defer span.End()

	profile, err := s.store.GetCandidate(ctx, userID)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, domain.ErrCandidateNotFound
	}

	candText := BuildCandidateText(profile.Major, profile.School, profile.Skills, profile.Work, profile.Projects)
	candEmb, err := s.embedder.Embed(ctx, candText)
	if err != nil {
		return 0, err
	}

	jobIDs, err := s.store.ListActiveJobIDs(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("precomputing match scores",
		zap.Int64("user_id", userID),
		zap.Int("jobs", len(jobIDs)),
	)

	computed := 0
	for _, jobID := range jobIDs {
		if err := s.scoreJob(ctx, profile, candEmb, jobID); err != nil {
			s.logger.Warn("precompute job failed",
				zap.Int64("user_id", userID),
				zap.Int64("job_id", jobID),
				zap.Error(err),
			)
			continue
		}
		computed++
		if computed%10 == 0 {
			s.logger.Info("precompute progress",
				zap.Int64("user_id", userID),
				zap.Int("computed", computed),
				zap.Int("total", len(jobIDs)),
			)
		}
	}

	s.logger.Info("precompute finished",
		zap.Int64("user_id", userID),
		zap.Int("computed", computed),
		zap.Int("total", len(jobIDs)),
	)
	return computed, nil
}

func (s *PrecomputeService) scoreJob(ctx context.Context, profile *domain.Profile, candEmb []float32, jobID int64) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return domain.ErrJobNotFound
	}

	jobText := BuildJobText(job.Title, job.Description, job.Responsibilities, job.Requirements, job.SkillNames())
	jobEmb, err := s.embedder.Embed(ctx, jobText)
	if err != nil {
		return err
	}

	similarity, err := domain.CosineSimilarity(candEmb, jobEmb)
	if err != nil {
		return err
	}

	record := domain.NewMatchScoreRecord(
		profile.UserID, job.ID,
		similarity, domain.ToMatchScore(similarity), candEmb,
		profile.ModifiedAt, job.ModifiedAt,
		s.now(),
	)
	// The cache is best-effort: a score that could not be persisted was
	// still computed.
	if err := s.cache.Put(ctx, record); err != nil {
		s.logger.Warn("failed to cache precomputed score",
			zap.Int64("user_id", profile.UserID),
			zap.Int64("job_id", job.ID),
			zap.Error(err),
		)
	}
	return nil
}
