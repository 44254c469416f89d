package domain

// MatchedSkill is one job skill the candidate covers, with the candidate's
// proficiency level attached for display.
type MatchedSkill struct {
	Name       string `json:"name"`
	YourLevel  int    `json:"your_level"`
	IsRequired bool   `json:"is_required"`
}

// SkillGapReport compares candidate skills against a job's skill list.
// Matching here is case-insensitive but exact by name, stricter than the
// substring heuristic used for scoring. MatchRate counts required skills
// only and defaults to 1.0 when the job requires none.
type SkillGapReport struct {
	RequiredMissing []string       `json:"required_missing"`
	OptionalMissing []string       `json:"optional_missing"`
	Matched         []MatchedSkill `json:"matched"`
	MatchRate       float64        `json:"match_rate"`
}

// ExperienceGapReport compares total work experience against a job's
// tiered experience requirement.
type ExperienceGapReport struct {
	YourYears     float64 `json:"your_years"`
	RequiredLevel int     `json:"required_level"`
	RequiredText  string  `json:"required_text"`
	IsQualified   bool    `json:"is_qualified"`
	GapYears      float64 `json:"gap_years"`
}

// EducationGapReport compares the candidate's education tier against a
// job's required tier. Levels of -1 mean "not provided".
type EducationGapReport struct {
	YourLevel     int     `json:"your_level"`
	YourText      string  `json:"your_text"`
	RequiredLevel int     `json:"required_level"`
	RequiredText  string  `json:"required_text"`
	IsQualified   bool    `json:"is_qualified"`
	MatchScore    float64 `json:"match_score"`
}
