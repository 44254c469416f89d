package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentbridge/matchai/internal/domain"
)

// Store bundles the profile and job repositories behind the single
// read-only surface the scoring services consume.
type Store struct {
	profiles *ProfileRepository
	jobs     *JobRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		profiles: NewProfileRepository(pool),
		jobs:     NewJobRepository(pool),
	}
}

func (s *Store) GetJob(ctx context.Context, jobID int64) (*domain.JobPosting, error) {
	return s.jobs.GetByID(ctx, jobID)
}

func (s *Store) GetCandidate(ctx context.Context, userID int64) (*domain.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *Store) ListActiveJobIDs(ctx context.Context) ([]int64, error) {
	return s.jobs.ListActiveIDs(ctx)
}
