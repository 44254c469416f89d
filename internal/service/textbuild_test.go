package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/talentbridge/matchai/internal/domain"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildCandidateText(t *testing.T) {
	t.Run("builds labeled text from full profile", func(t *testing.T) {
		text := BuildCandidateText(
			"Computer Science",
			"State University",
			[]domain.Skill{{Name: "Go"}, {Name: "PostgreSQL"}},
			[]domain.WorkExperience{
				{Position: "Backend Engineer", Description: "Built payment APIs", End: datePtr(2025, 3, 1)},
			},
			[]domain.ProjectExperience{
				{Name: "Log Pipeline", Description: "Streaming ingest"},
			},
		)

		assert.Equal(t,
			"Major: Computer Science School: State University Skills: Go, PostgreSQL "+
				"Work experience: Backend Engineer Built payment APIs "+
				"Project: Log Pipeline Streaming ingest",
			text,
		)
	})

	t.Run("omits empty fields", func(t *testing.T) {
		text := BuildCandidateText("", "", nil, nil, nil)
		assert.Equal(t, "", text)

		text = BuildCandidateText("Math", "", []domain.Skill{{Name: ""}}, nil, nil)
		assert.Equal(t, "Major: Math", text)
	})

	t.Run("is deterministic", func(t *testing.T) {
		skills := []domain.Skill{{Name: "Go"}, {Name: "Redis"}}
		first := BuildCandidateText("CS", "MIT", skills, nil, nil)
		second := BuildCandidateText("CS", "MIT", skills, nil, nil)
		assert.Equal(t, first, second)
	})

	t.Run("keeps only the two most recent work entries", func(t *testing.T) {
		work := []domain.WorkExperience{
			{Position: "Oldest", End: datePtr(2018, 1, 1)},
			{Position: "Middle", End: datePtr(2022, 6, 1)},
			{Position: "Newest", End: datePtr(2025, 1, 1)},
		}

		text := BuildCandidateText("", "", nil, work, nil)

		assert.Contains(t, text, "Work experience: Newest")
		assert.Contains(t, text, "Work experience: Middle")
		assert.NotContains(t, text, "Oldest")
	})

	t.Run("current position sorts before dated entries", func(t *testing.T) {
		work := []domain.WorkExperience{
			{Position: "Past", End: datePtr(2024, 1, 1)},
			{Position: "Current", End: nil},
		}

		text := BuildCandidateText("", "", nil, work, nil)

		assert.Less(t, strings.Index(text, "Current"), strings.Index(text, "Past"))
	})

	t.Run("undated entries keep declaration order", func(t *testing.T) {
		work := []domain.WorkExperience{
			{Position: "First"},
			{Position: "Second"},
			{Position: "Third"},
		}

		text := BuildCandidateText("", "", nil, work, nil)

		assert.Contains(t, text, "First")
		assert.Contains(t, text, "Second")
		assert.NotContains(t, text, "Third")
	})
}

func TestBuildJobText(t *testing.T) {
	t.Run("builds labeled text from full posting", func(t *testing.T) {
		text := BuildJobText(
			"Senior Go Developer",
			"Build distributed systems.",
			"Own the ingest path.",
			"5 years of Go.",
			[]string{"Go", "Kafka"},
		)

		assert.Equal(t,
			"Position: Senior Go Developer Build distributed systems. "+
				"Own the ingest path. 5 years of Go. Required skills: Go, Kafka",
			text,
		)
	})

	t.Run("omits empty fields", func(t *testing.T) {
		assert.Equal(t, "", BuildJobText("", "", "", "", nil))
		assert.Equal(t, "Position: Analyst", BuildJobText("Analyst", "", "", "", []string{""}))
	})
}
