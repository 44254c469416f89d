package domain

import "time"

// Profile represents a candidate profile as read from the relational store.
// The profile and everything nested in it is owned by the backend service;
// this core only reads it by identifier and modification timestamp.
type Profile struct {
	ID         int64
	UserID     int64
	Major      string
	School     string
	City       string
	Education  *int // ordinal on the education tier scale, nil when not provided
	Skills     []Skill
	Work       []WorkExperience
	Projects   []ProjectExperience
	ModifiedAt time.Time
}

// Skill is one candidate skill with a self-reported proficiency level.
type Skill struct {
	Name  string
	Level int
}

// WorkExperience is one entry of the candidate's work history.
// A nil End means the position is current.
type WorkExperience struct {
	Company     string
	Position    string
	Description string
	Start       *time.Time
	End         *time.Time
}

// ProjectExperience is one entry of the candidate's project history.
type ProjectExperience struct {
	Name        string
	Description string
	Start       *time.Time
	End         *time.Time
}

// SkillNames returns the non-empty skill names in declaration order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}
