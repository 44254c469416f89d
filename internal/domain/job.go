package domain

import "time"

// JobStatus values used by the active-job filter.
const (
	JobStatusOpen   = 1
	JobStatusClosed = 0
)

// AuditApproved is the audit state a job and its company must both carry
// before the job is visible to scoring.
const AuditApproved = "approved"

// JobPosting represents a job as read from the relational store. Read-only
// to this core, same ownership rules as Profile.
type JobPosting struct {
	ID                 int64
	Title              string
	Description        string
	Responsibilities   string
	Requirements       string
	EducationRequired  *int // education tier ordinal, nil when the job has no requirement
	ExperienceRequired *int // experience tier ordinal, nil when the job has no requirement
	Skills             []RequiredSkill
	ModifiedAt         time.Time
}

// RequiredSkill is one skill a job asks for. Optional skills carry
// IsRequired=false and do not count toward the skill-gap match rate.
type RequiredSkill struct {
	Name       string
	IsRequired bool
}

// SkillNames returns the non-empty skill names in declaration order.
func (j *JobPosting) SkillNames() []string {
	names := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}
