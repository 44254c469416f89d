package domain

import (
	"math"
	"strings"
)

// CosineSimilarity computes the cosine of the angle between two vectors.
// The measure is symmetric and lands in [-1, 1]. Both vectors must have
// the same length; ErrDimensionMismatch is returned otherwise.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// ToMatchScore converts a similarity to an integer match percentage,
// clamped to [0, 100].
func ToMatchScore(similarity float64) int {
	score := int(math.Round(similarity * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// SkillMatch scores how many of the job's skills the candidate covers.
// Matching is a bidirectional case-insensitive substring check, so
// "golang" covers "Go" and vice versa. Counts distinct job skills matched
// over total job skills. A job with no skills matches a candidate with no
// skills perfectly and any other candidate not at all.
func SkillMatch(candidateSkills []Skill, jobSkillNames []string) float64 {
	jobNames := make([]string, 0, len(jobSkillNames))
	for _, name := range jobSkillNames {
		if name != "" {
			jobNames = append(jobNames, strings.ToLower(name))
		}
	}

	candidateNames := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		if s.Name != "" {
			candidateNames = append(candidateNames, strings.ToLower(s.Name))
		}
	}

	if len(jobNames) == 0 {
		if len(candidateNames) == 0 {
			return 1.0
		}
		return 0.0
	}

	if len(candidateNames) == 0 {
		return 0.0
	}

	matched := 0
	for _, jobName := range jobNames {
		for _, candName := range candidateNames {
			if strings.Contains(candName, jobName) || strings.Contains(jobName, candName) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(jobNames))
}

// EducationMatch scores a candidate's education label against a job's
// required tier. A job without a requirement matches everyone; a candidate
// whose label cannot be resolved to the tier scale matches nothing. A
// candidate at or above the required tier scores 1.0, below it the ratio
// of the two tiers.
func EducationMatch(candidateLabel string, requiredTier *int) float64 {
	if requiredTier == nil {
		return 1.0
	}

	candidateTier := EducationOrdinal(candidateLabel)
	if candidateTier < 0 {
		return EducationMatchTier(nil, requiredTier)
	}
	return EducationMatchTier(&candidateTier, requiredTier)
}

// EducationMatchTier is EducationMatch over already-resolved ordinals.
// A present requirement of tier 0 is a real tier, not "no requirement";
// any resolved candidate satisfies it.
func EducationMatchTier(candidateTier, requiredTier *int) float64 {
	if requiredTier == nil {
		return 1.0
	}

	if candidateTier == nil {
		return 0.0
	}

	candidate := *candidateTier
	required := *requiredTier
	if candidate < EducationHighSchool || candidate > EducationDoctorate {
		return 0.0
	}
	if required < EducationHighSchool || required > EducationDoctorate {
		return 0.0
	}

	if candidate >= required {
		return 1.0
	}

	return math.Max(0, float64(candidate)/float64(required))
}
