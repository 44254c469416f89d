package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentbridge/matchai/internal/domain"
)

// ProfileRepository reads candidate profiles and their skill and history
// sub-tables. The profile store is owned by the account service; this
// repository never writes to it.
type ProfileRepository struct {
	db dbtx
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: pool}
}

// GetByUserID loads a full candidate profile by the owning user ID.
// Returns (nil, nil) when no profile exists.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	var major, school, city *string
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, major, school, city, highest_education, updated_at
		 FROM candidate_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.ID, &p.UserID, &major, &school, &city, &p.Education, &p.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if major != nil {
		p.Major = *major
	}
	if school != nil {
		p.School = *school
	}
	if city != nil {
		p.City = *city
	}

	if p.Skills, err = r.skills(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Work, err = r.work(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Projects, err = r.projects(ctx, p.ID); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProfileRepository) skills(ctx context.Context, profileID int64) ([]domain.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, level FROM candidate_skills WHERE profile_id = $1 ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.Name, &s.Level); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *ProfileRepository) work(ctx context.Context, profileID int64) ([]domain.WorkExperience, error) {
	rows, err := r.db.Query(ctx,
		`SELECT company, position, description, start_date, end_date
		 FROM work_experiences WHERE profile_id = $1 ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var work []domain.WorkExperience
	for rows.Next() {
		var w domain.WorkExperience
		var company, position, description *string
		if err := rows.Scan(&company, &position, &description, &w.Start, &w.End); err != nil {
			return nil, err
		}
		if company != nil {
			w.Company = *company
		}
		if position != nil {
			w.Position = *position
		}
		if description != nil {
			w.Description = *description
		}
		work = append(work, w)
	}
	return work, rows.Err()
}

func (r *ProfileRepository) projects(ctx context.Context, profileID int64) ([]domain.ProjectExperience, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, description, start_date, end_date
		 FROM project_experiences WHERE profile_id = $1 ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.ProjectExperience
	for rows.Next() {
		var p domain.ProjectExperience
		var name, description *string
		if err := rows.Scan(&name, &description, &p.Start, &p.End); err != nil {
			return nil, err
		}
		if name != nil {
			p.Name = *name
		}
		if description != nil {
			p.Description = *description
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
