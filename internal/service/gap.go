package service

import (
	"math"
	"strings"
	"time"

	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

// GapAnalyzer produces structured skill, experience and education gap
// reports. Reports are derived and ephemeral: always recomputed from
// current profile and job data, never cached alongside match scores.
type GapAnalyzer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewGapAnalyzer creates a new GapAnalyzer instance
func NewGapAnalyzer(logger *zap.Logger) *GapAnalyzer {
	return &GapAnalyzer{
		logger: logger,
		now:    time.Now,
	}
}

// AnalyzeSkillGap partitions a job's skill list into matched and missing
// against the candidate's skills. Matching is case-insensitive but exact
// by name, stricter than the substring heuristic used for scoring since
// these lists are shown to the candidate.
func (g *GapAnalyzer) AnalyzeSkillGap(candidateSkills []domain.Skill, jobSkills []domain.RequiredSkill) domain.SkillGapReport {
	levelsByName := make(map[string]int, len(candidateSkills))
	for _, s := range candidateSkills {
		if s.Name != "" {
			levelsByName[strings.ToLower(s.Name)] = s.Level
		}
	}

	report := domain.SkillGapReport{
		RequiredMissing: []string{},
		OptionalMissing: []string{},
		Matched:         []domain.MatchedSkill{},
	}

	requiredTotal := 0
	requiredMatched := 0

	for _, js := range jobSkills {
		if js.Name == "" {
			continue
		}
		if js.IsRequired {
			requiredTotal++
		}

		level, ok := levelsByName[strings.ToLower(js.Name)]
		if ok {
			report.Matched = append(report.Matched, domain.MatchedSkill{
				Name:       js.Name,
				YourLevel:  level,
				IsRequired: js.IsRequired,
			})
			if js.IsRequired {
				requiredMatched++
			}
			continue
		}

		if js.IsRequired {
			report.RequiredMissing = append(report.RequiredMissing, js.Name)
		} else {
			report.OptionalMissing = append(report.OptionalMissing, js.Name)
		}
	}

	report.MatchRate = 1.0
	if requiredTotal > 0 {
		report.MatchRate = round2(float64(requiredMatched) / float64(requiredTotal))
	}

	g.logger.Info("skill gap analyzed",
		zap.Int("required_total", requiredTotal),
		zap.Int("required_matched", requiredMatched),
		zap.Int("required_missing", len(report.RequiredMissing)),
		zap.Int("optional_missing", len(report.OptionalMissing)),
		zap.Float64("match_rate", report.MatchRate),
	)

	return report
}

// AnalyzeExperienceGap compares total work experience in years against a
// job's tiered requirement. Tier 0 or absent means no requirement; a tier
// outside the scale yields an unqualified verdict with an unknown label.
func (g *GapAnalyzer) AnalyzeExperienceGap(work []domain.WorkExperience, requiredTier *int) domain.ExperienceGapReport {
	years := g.workYears(work)

	if requiredTier == nil || *requiredTier == 0 {
		return domain.ExperienceGapReport{
			YourYears:     years,
			RequiredLevel: 0,
			RequiredText:  domain.ExperienceUnlimitedLabel,
			IsQualified:   true,
			GapYears:      0,
		}
	}

	tier, ok := domain.ExperienceTierFor(*requiredTier)
	if !ok {
		g.logger.Warn("unknown experience requirement tier", zap.Int("tier", *requiredTier))
		return domain.ExperienceGapReport{
			YourYears:     years,
			RequiredLevel: *requiredTier,
			RequiredText:  domain.ExperienceUnknownLabel,
			IsQualified:   false,
			GapYears:      0,
		}
	}

	gap := math.Max(0, tier.MinYears-years)
	report := domain.ExperienceGapReport{
		YourYears:     years,
		RequiredLevel: *requiredTier,
		RequiredText:  tier.Label,
		IsQualified:   years >= tier.MinYears,
		GapYears:      round1(gap),
	}

	g.logger.Info("experience gap analyzed",
		zap.Float64("your_years", years),
		zap.String("required", tier.Label),
		zap.Bool("qualified", report.IsQualified),
		zap.Float64("gap_years", report.GapYears),
	)

	return report
}

// AnalyzeEducationGap compares education tiers. An absent requirement
// always qualifies; an absent candidate tier never does.
func (g *GapAnalyzer) AnalyzeEducationGap(candidateTier, requiredTier *int) domain.EducationGapReport {
	report := domain.EducationGapReport{
		YourLevel:     -1,
		YourText:      "Unknown",
		RequiredLevel: -1,
		RequiredText:  "No requirement",
	}

	if candidateTier != nil {
		report.YourLevel = *candidateTier
		report.YourText = domain.EducationLabel(*candidateTier)
	}
	if requiredTier != nil {
		report.RequiredLevel = *requiredTier
		report.RequiredText = domain.EducationLabel(*requiredTier)
	}

	switch {
	case requiredTier == nil:
		report.IsQualified = true
		report.MatchScore = 1.0
	case candidateTier == nil:
		report.IsQualified = false
		report.MatchScore = 0.0
	default:
		report.IsQualified = *candidateTier >= *requiredTier
		report.MatchScore = domain.EducationMatchTier(candidateTier, requiredTier)
	}

	g.logger.Info("education gap analyzed",
		zap.String("your_level", report.YourText),
		zap.String("required_level", report.RequiredText),
		zap.Bool("qualified", report.IsQualified),
		zap.Float64("match_score", report.MatchScore),
	)

	return report
}

// workYears sums whole-month spans over the work history and converts to
// years with one decimal. A nil end date counts as "to now".
func (g *GapAnalyzer) workYears(work []domain.WorkExperience) float64 {
	totalMonths := 0
	now := g.now()

	for _, exp := range work {
		if exp.Start == nil {
			continue
		}
		end := now
		if exp.End != nil {
			end = *exp.End
		}
		if months := wholeMonths(*exp.Start, end); months > 0 {
			totalMonths += months
		}
	}

	if totalMonths <= 0 {
		return 0
	}
	return round1(float64(totalMonths) / 12)
}

// wholeMonths counts complete calendar months between two dates.
func wholeMonths(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
