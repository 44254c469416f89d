package jobs

import (
	"context"
	"fmt"

	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

const (
	// DefaultRefreshBatch caps how many stale scores are recomputed per poll.
	DefaultRefreshBatch = 50
)

// StaleScoreSource lists cached scores whose source rows have changed since
// the score was computed.
type StaleScoreSource interface {
	ListStalePairs(ctx context.Context, limit int) ([]domain.ScorePair, error)
}

// Scorer recomputes and re-caches the score for one candidate/job pair.
type Scorer interface {
	ScoreSingle(ctx context.Context, userID, jobID int64) (int, error)
}

// RefreshWorker recomputes cached match scores that have gone stale behind
// profile or job edits, so reads stay cache hits instead of paying the
// embedding cost on the request path.
type RefreshWorker struct {
	source    StaleScoreSource
	scorer    Scorer
	batchSize int
	logger    *zap.Logger
}

// NewRefreshWorker creates a new RefreshWorker instance
func NewRefreshWorker(source StaleScoreSource, scorer Scorer, logger *zap.Logger) *RefreshWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshWorker{
		source:    source,
		scorer:    scorer,
		batchSize: DefaultRefreshBatch,
		logger:    logger,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *RefreshWorker) ProcessJobs(ctx context.Context) error {
	pairs, err := w.source.ListStalePairs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale scores: %w", err)
	}

	if len(pairs) == 0 {
		return nil
	}

	w.logger.Info("refreshing stale match scores", zap.Int("count", len(pairs)))

	refreshed := 0
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := w.scorer.ScoreSingle(ctx, pair.CandidateID, pair.JobID); err != nil {
			w.logger.Warn("failed to refresh match score",
				zap.Int64("candidate_id", pair.CandidateID),
				zap.Int64("job_id", pair.JobID),
				zap.Error(err))
			continue
		}
		refreshed++
	}

	w.logger.Info("stale score refresh complete",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", len(pairs)-refreshed))
	return nil
}
