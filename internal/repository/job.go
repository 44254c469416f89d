package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentbridge/matchai/internal/domain"
)

// JobRepository reads job postings and their skill requirements. The job
// store is owned by the recruiting service; this repository never writes
// to it.
type JobRepository struct {
	db dbtx
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: pool}
}

// GetByID loads an open, approved job posting. Returns (nil, nil) when no
// such posting exists; closed or unapproved postings are treated as absent.
func (r *JobRepository) GetByID(ctx context.Context, jobID int64) (*domain.JobPosting, error) {
	var j domain.JobPosting
	var description, responsibilities, requirements *string
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, responsibilities, requirements,
		        education_required, experience_required, updated_at
		 FROM job_postings
		 WHERE id = $1 AND status = $2 AND audit_status = $3`,
		jobID, domain.JobStatusOpen, domain.AuditApproved,
	).Scan(
		&j.ID, &j.Title, &description, &responsibilities, &requirements,
		&j.EducationRequired, &j.ExperienceRequired, &j.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if description != nil {
		j.Description = *description
	}
	if responsibilities != nil {
		j.Responsibilities = *responsibilities
	}
	if requirements != nil {
		j.Requirements = *requirements
	}

	if j.Skills, err = r.skills(ctx, j.ID); err != nil {
		return nil, err
	}

	return &j, nil
}

// ListActiveIDs returns the IDs of every open, approved job posting, the
// population eligible for precompute.
func (r *JobRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM job_postings
		 WHERE status = $1 AND audit_status = $2 ORDER BY id`,
		domain.JobStatusOpen, domain.AuditApproved,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *JobRepository) skills(ctx context.Context, jobID int64) ([]domain.RequiredSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, is_required FROM job_skills WHERE job_id = $1 ORDER BY id`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.RequiredSkill
	for rows.Next() {
		var s domain.RequiredSkill
		if err := rows.Scan(&s.Name, &s.IsRequired); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
