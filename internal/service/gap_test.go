package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func newTestGapAnalyzer(now time.Time) *GapAnalyzer {
	g := NewGapAnalyzer(zap.NewNop())
	g.now = func() time.Time { return now }
	return g
}

func TestGapAnalyzer_AnalyzeSkillGap(t *testing.T) {
	analyzer := NewGapAnalyzer(zap.NewNop())

	t.Run("partitions missing skills by requirement", func(t *testing.T) {
		report := analyzer.AnalyzeSkillGap(
			[]domain.Skill{{Name: "Go", Level: 3}, {Name: "Redis", Level: 2}},
			[]domain.RequiredSkill{
				{Name: "Go", IsRequired: true},
				{Name: "Kubernetes", IsRequired: true},
				{Name: "Redis", IsRequired: false},
				{Name: "Terraform", IsRequired: false},
			},
		)

		assert.Equal(t, []string{"Kubernetes"}, report.RequiredMissing)
		assert.Equal(t, []string{"Terraform"}, report.OptionalMissing)
		require.Len(t, report.Matched, 2)
		assert.Equal(t, domain.MatchedSkill{Name: "Go", YourLevel: 3, IsRequired: true}, report.Matched[0])
		assert.Equal(t, domain.MatchedSkill{Name: "Redis", YourLevel: 2, IsRequired: false}, report.Matched[1])
		assert.Equal(t, 0.5, report.MatchRate)
	})

	t.Run("matching is case-insensitive but exact", func(t *testing.T) {
		report := analyzer.AnalyzeSkillGap(
			[]domain.Skill{{Name: "postgresql", Level: 1}},
			[]domain.RequiredSkill{
				{Name: "PostgreSQL", IsRequired: true},
				{Name: "SQL", IsRequired: true},
			},
		)

		// "SQL" is a substring of "postgresql" but does not match here.
		assert.Equal(t, []string{"SQL"}, report.RequiredMissing)
		require.Len(t, report.Matched, 1)
		assert.Equal(t, "PostgreSQL", report.Matched[0].Name)
		assert.Equal(t, 0.5, report.MatchRate)
	})

	t.Run("no required skills yields full match rate", func(t *testing.T) {
		report := analyzer.AnalyzeSkillGap(
			nil,
			[]domain.RequiredSkill{{Name: "Docker", IsRequired: false}},
		)

		assert.Equal(t, 1.0, report.MatchRate)
		assert.Empty(t, report.RequiredMissing)
		assert.Equal(t, []string{"Docker"}, report.OptionalMissing)
	})

	t.Run("empty inputs yield initialized slices", func(t *testing.T) {
		report := analyzer.AnalyzeSkillGap(nil, nil)

		assert.NotNil(t, report.RequiredMissing)
		assert.NotNil(t, report.OptionalMissing)
		assert.NotNil(t, report.Matched)
		assert.Equal(t, 1.0, report.MatchRate)
	})
}

func TestGapAnalyzer_AnalyzeExperienceGap(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	analyzer := newTestGapAnalyzer(now)

	t.Run("exactly meeting the tier minimum qualifies", func(t *testing.T) {
		// 36 whole months = 3.0 years against tier 2 (3-5 years).
		work := []domain.WorkExperience{
			{Start: datePtr(2020, 1, 1), End: datePtr(2023, 1, 1)},
		}

		report := analyzer.AnalyzeExperienceGap(work, intPtr(2))

		assert.Equal(t, 3.0, report.YourYears)
		assert.Equal(t, "3-5 years", report.RequiredText)
		assert.True(t, report.IsQualified)
		assert.Equal(t, 0.0, report.GapYears)
	})

	t.Run("reports gap when short of the minimum", func(t *testing.T) {
		work := []domain.WorkExperience{
			{Start: datePtr(2024, 3, 1), End: datePtr(2025, 3, 1)},
		}

		report := analyzer.AnalyzeExperienceGap(work, intPtr(3))

		assert.Equal(t, 1.0, report.YourYears)
		assert.Equal(t, "5-10 years", report.RequiredText)
		assert.False(t, report.IsQualified)
		assert.Equal(t, 4.0, report.GapYears)
	})

	t.Run("open-ended position counts to now", func(t *testing.T) {
		work := []domain.WorkExperience{
			{Start: datePtr(2024, 9, 1), End: nil},
		}

		report := analyzer.AnalyzeExperienceGap(work, intPtr(1))

		assert.Equal(t, 2.0, report.YourYears)
		assert.True(t, report.IsQualified)
	})

	t.Run("partial months are dropped", func(t *testing.T) {
		// Jan 15 to Mar 10 spans one whole month only.
		work := []domain.WorkExperience{
			{Start: datePtr(2025, 1, 15), End: datePtr(2025, 3, 10)},
		}

		report := analyzer.AnalyzeExperienceGap(work, nil)
		assert.Equal(t, 0.1, report.YourYears)
	})

	t.Run("nil or zero tier means no requirement", func(t *testing.T) {
		for _, tier := range []*int{nil, intPtr(0)} {
			report := analyzer.AnalyzeExperienceGap(nil, tier)
			assert.True(t, report.IsQualified)
			assert.Equal(t, domain.ExperienceUnlimitedLabel, report.RequiredText)
			assert.Equal(t, 0.0, report.GapYears)
		}
	})

	t.Run("unknown tier never qualifies", func(t *testing.T) {
		report := analyzer.AnalyzeExperienceGap(nil, intPtr(9))

		assert.False(t, report.IsQualified)
		assert.Equal(t, domain.ExperienceUnknownLabel, report.RequiredText)
		assert.Equal(t, 0.0, report.GapYears)
	})

	t.Run("entries without a start date are skipped", func(t *testing.T) {
		work := []domain.WorkExperience{
			{Start: nil, End: datePtr(2025, 1, 1)},
		}

		report := analyzer.AnalyzeExperienceGap(work, nil)
		assert.Equal(t, 0.0, report.YourYears)
	})
}

func TestGapAnalyzer_AnalyzeEducationGap(t *testing.T) {
	analyzer := NewGapAnalyzer(zap.NewNop())

	t.Run("meeting the requirement qualifies with full score", func(t *testing.T) {
		report := analyzer.AnalyzeEducationGap(intPtr(3), intPtr(2))

		assert.True(t, report.IsQualified)
		assert.Equal(t, 1.0, report.MatchScore)
		assert.Equal(t, "Master", report.YourText)
		assert.Equal(t, "Bachelor", report.RequiredText)
	})

	t.Run("below the requirement scores the tier ratio", func(t *testing.T) {
		report := analyzer.AnalyzeEducationGap(intPtr(2), intPtr(4))

		assert.False(t, report.IsQualified)
		assert.Equal(t, 0.5, report.MatchScore)
	})

	t.Run("absent requirement always qualifies", func(t *testing.T) {
		report := analyzer.AnalyzeEducationGap(nil, nil)

		assert.True(t, report.IsQualified)
		assert.Equal(t, 1.0, report.MatchScore)
		assert.Equal(t, "No requirement", report.RequiredText)
		assert.Equal(t, "Unknown", report.YourText)
	})

	t.Run("absent candidate tier never qualifies", func(t *testing.T) {
		report := analyzer.AnalyzeEducationGap(nil, intPtr(1))

		assert.False(t, report.IsQualified)
		assert.Equal(t, 0.0, report.MatchScore)
	})
}
