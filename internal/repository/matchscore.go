package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

// MatchScoreRepository persists computed match scores keyed by
// (candidate_id, job_id). It is a cache, never a source of truth: when
// constructed without a pool every operation degrades to a miss or no-op
// so scoring keeps working without persistence.
type MatchScoreRepository struct {
	db     dbtx
	logger *zap.Logger
}

// NewMatchScoreRepository creates the cache over a pool. A nil pool is
// allowed and yields the degraded no-op cache; the nil check happens here
// so r.db stays a nil interface, not a nil pointer in a non-nil interface.
func NewMatchScoreRepository(pool *pgxpool.Pool, logger *zap.Logger) *MatchScoreRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &MatchScoreRepository{logger: logger}
	if pool != nil {
		r.db = pool
	}
	return r
}

// Get returns the cached record for a pair, or (nil, nil) on a miss.
func (r *MatchScoreRepository) Get(ctx context.Context, candidateID, jobID int64) (*domain.MatchScoreRecord, error) {
	if r.db == nil {
		return nil, nil
	}

	var rec domain.MatchScoreRecord
	var embedding pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT candidate_id, job_id, similarity, match_score, embedding,
		        candidate_ts, job_ts, computed_ts
		 FROM match_scores WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID,
	).Scan(
		&rec.CandidateID, &rec.JobID, &rec.Similarity, &rec.MatchScore, &embedding,
		&rec.CandidateTS, &rec.JobTS, &rec.ComputedTS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rec.Embedding = embedding.Slice()
	return &rec, nil
}

// Put replaces the record for a pair. Delete-then-insert keeps the write
// path identical whether or not a previous record exists.
func (r *MatchScoreRepository) Put(ctx context.Context, record *domain.MatchScoreRecord) error {
	if r.db == nil {
		return nil
	}
	if err := domain.ValidateMatchScoreRecord(record); err != nil {
		return err
	}

	// A failed delete still allows the insert; a duplicate-key error there
	// is preferable to losing the fresh score.
	_, err := r.db.Exec(ctx,
		`DELETE FROM match_scores WHERE candidate_id = $1 AND job_id = $2`,
		record.CandidateID, record.JobID,
	)
	if err != nil {
		r.logger.Warn("failed to delete stale match score",
			zap.Int64("candidate_id", record.CandidateID),
			zap.Int64("job_id", record.JobID),
			zap.Error(err))
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO match_scores
			(candidate_id, job_id, similarity, match_score, embedding,
			 candidate_ts, job_ts, computed_ts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.CandidateID,
		record.JobID,
		record.Similarity,
		record.MatchScore,
		pgvector.NewVector(record.Embedding),
		record.CandidateTS,
		record.JobTS,
		record.ComputedTS,
	)
	return err
}

// IsStale reports whether the cached record for a pair predates either
// source timestamp. A miss counts as stale.
func (r *MatchScoreRepository) IsStale(ctx context.Context, candidateID, jobID int64, candidateModifiedAt, jobModifiedAt time.Time) (bool, error) {
	record, err := r.Get(ctx, candidateID, jobID)
	if err != nil {
		return true, err
	}
	if record == nil {
		return true, nil
	}
	return record.StaleAgainst(candidateModifiedAt, jobModifiedAt), nil
}

// ListStalePairs returns up to limit (candidate, job) keys whose cached
// score predates an edit to either source row. Pairs whose candidate or
// job has been deleted or delisted are excluded; their rows are removed
// through the invalidation path instead.
func (r *MatchScoreRepository) ListStalePairs(ctx context.Context, limit int) ([]domain.ScorePair, error) {
	if r.db == nil {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT m.candidate_id, m.job_id
		 FROM match_scores m
		 JOIN candidate_profiles p ON p.user_id = m.candidate_id
		 JOIN job_postings j ON j.id = m.job_id
		 WHERE j.status = $1 AND j.audit_status = $2
		   AND (m.candidate_ts < EXTRACT(EPOCH FROM p.updated_at)::bigint
		     OR m.job_ts < EXTRACT(EPOCH FROM j.updated_at)::bigint)
		 ORDER BY m.id
		 LIMIT $3`,
		domain.JobStatusOpen, domain.AuditApproved, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []domain.ScorePair
	for rows.Next() {
		var p domain.ScorePair
		if err := rows.Scan(&p.CandidateID, &p.JobID); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// ListForCandidate returns cached records for a candidate ordered by job
// ID, starting after afterJobID. Limit is applied as given; callers
// over-fetch by one to detect a further page.
func (r *MatchScoreRepository) ListForCandidate(ctx context.Context, candidateID, afterJobID int64, limit int) ([]*domain.MatchScoreRecord, error) {
	if r.db == nil {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, job_id, similarity, match_score,
		        candidate_ts, job_ts, computed_ts
		 FROM match_scores
		 WHERE candidate_id = $1 AND job_id > $2
		 ORDER BY job_id
		 LIMIT $3`,
		candidateID, afterJobID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.MatchScoreRecord
	for rows.Next() {
		var rec domain.MatchScoreRecord
		if err := rows.Scan(
			&rec.CandidateID, &rec.JobID, &rec.Similarity, &rec.MatchScore,
			&rec.CandidateTS, &rec.JobTS, &rec.ComputedTS,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteForCandidate removes every record for a candidate. Best-effort:
// failures are logged and reported as zero deletions.
func (r *MatchScoreRepository) DeleteForCandidate(ctx context.Context, candidateID int64) (int64, error) {
	if r.db == nil {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx,
		`DELETE FROM match_scores WHERE candidate_id = $1`,
		candidateID,
	)
	if err != nil {
		r.logger.Warn("failed to delete match scores for candidate",
			zap.Int64("candidate_id", candidateID),
			zap.Error(err),
		)
		return 0, nil
	}
	return tag.RowsAffected(), nil
}

// DeleteForJob removes every record for a job. Best-effort.
func (r *MatchScoreRepository) DeleteForJob(ctx context.Context, jobID int64) (int64, error) {
	if r.db == nil {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx,
		`DELETE FROM match_scores WHERE job_id = $1`,
		jobID,
	)
	if err != nil {
		r.logger.Warn("failed to delete match scores for job",
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return 0, nil
	}
	return tag.RowsAffected(), nil
}
