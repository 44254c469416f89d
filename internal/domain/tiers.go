package domain

import "strings"

// Education tier ordinals. The scale is fixed at five tiers; a job that
// carries a present requirement of 0 means "high school", not "no
// requirement" (absence is expressed with a nil pointer).
const (
	EducationHighSchool = 0
	EducationAssociate  = 1
	EducationBachelor   = 2
	EducationMaster     = 3
	EducationDoctorate  = 4
)

var educationLabels = map[int]string{
	EducationHighSchool: "High school or below",
	EducationAssociate:  "Associate degree",
	EducationBachelor:   "Bachelor",
	EducationMaster:     "Master",
	EducationDoctorate:  "PhD",
}

var educationOrdinals = map[string]int{
	"high school":          EducationHighSchool,
	"high school or below": EducationHighSchool,
	"high_school":          EducationHighSchool,
	"associate":            EducationAssociate,
	"associate degree":     EducationAssociate,
	"bachelor":             EducationBachelor,
	"bachelor's":           EducationBachelor,
	"master":               EducationMaster,
	"master's":             EducationMaster,
	"phd":                  EducationDoctorate,
	"doctorate":            EducationDoctorate,
}

// EducationLabel returns the display label for an education tier, or
// "Unknown" for a tier outside the scale.
func EducationLabel(tier int) string {
	if label, ok := educationLabels[tier]; ok {
		return label
	}
	return "Unknown"
}

// EducationOrdinal resolves a free-form education label to its tier.
// Returns -1 when the label is empty or not on the scale.
func EducationOrdinal(label string) int {
	if tier, ok := educationOrdinals[strings.ToLower(strings.TrimSpace(label))]; ok {
		return tier
	}
	return -1
}

// ExperienceTier describes one tier of the experience requirement scale.
type ExperienceTier struct {
	MinYears float64
	Label    string
}

// experienceTiers maps requirement ordinals to the minimum years they demand.
var experienceTiers = map[int]ExperienceTier{
	1: {MinYears: 1, Label: "1-3 years"},
	2: {MinYears: 3, Label: "3-5 years"},
	3: {MinYears: 5, Label: "5-10 years"},
	4: {MinYears: 10, Label: "10+ years"},
}

// ExperienceTierFor returns the tier definition for a requirement ordinal.
func ExperienceTierFor(tier int) (ExperienceTier, bool) {
	t, ok := experienceTiers[tier]
	return t, ok
}

// Experience requirement labels for the degenerate tiers.
const (
	ExperienceUnlimitedLabel = "No requirement"
	ExperienceUnknownLabel   = "Unknown"
)
