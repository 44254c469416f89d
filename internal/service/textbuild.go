package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/talentbridge/matchai/internal/domain"
)

// maxHistoryEntries caps how many work and project entries feed the
// embedding text; older entries add noise without improving the match.
const maxHistoryEntries = 2

// BuildCandidateText flattens a candidate profile into one labeled text
// blob for embedding. Deterministic; empty fields are omitted rather than
// rendered as placeholders. Only the two most recent work and project
// entries are included.
func BuildCandidateText(
	major, school string,
	skills []domain.Skill,
	work []domain.WorkExperience,
	projects []domain.ProjectExperience,
) string {
	var parts []string

	if major != "" {
		parts = append(parts, fmt.Sprintf("Major: %s", major))
	}
	if school != "" {
		parts = append(parts, fmt.Sprintf("School: %s", school))
	}

	var skillNames []string
	for _, s := range skills {
		if s.Name != "" {
			skillNames = append(skillNames, s.Name)
		}
	}
	if len(skillNames) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s", strings.Join(skillNames, ", ")))
	}

	for _, exp := range recentWork(work) {
		if exp.Position != "" {
			parts = append(parts, fmt.Sprintf("Work experience: %s", exp.Position))
		}
		if exp.Description != "" {
			parts = append(parts, exp.Description)
		}
	}

	for _, proj := range recentProjects(projects) {
		if proj.Name != "" {
			parts = append(parts, fmt.Sprintf("Project: %s", proj.Name))
		}
		if proj.Description != "" {
			parts = append(parts, proj.Description)
		}
	}

	return strings.Join(parts, " ")
}

// BuildJobText flattens a job posting into one labeled text blob for
// embedding. Deterministic; empty fields are omitted.
func BuildJobText(title, description, responsibilities, requirements string, skillNames []string) string {
	var parts []string

	if title != "" {
		parts = append(parts, fmt.Sprintf("Position: %s", title))
	}
	if description != "" {
		parts = append(parts, description)
	}
	if responsibilities != "" {
		parts = append(parts, responsibilities)
	}
	if requirements != "" {
		parts = append(parts, requirements)
	}

	var names []string
	for _, name := range skillNames {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		parts = append(parts, fmt.Sprintf("Required skills: %s", strings.Join(names, ", ")))
	}

	return strings.Join(parts, " ")
}

// recentWork returns up to maxHistoryEntries work entries ordered most
// recent first. A nil end date means a current position and sorts before
// every dated entry.
func recentWork(work []domain.WorkExperience) []domain.WorkExperience {
	sorted := make([]domain.WorkExperience, len(work))
	copy(sorted, work)
	sort.SliceStable(sorted, func(i, j int) bool {
		return endsAfter(sorted[i].End, sorted[j].End)
	})
	if len(sorted) > maxHistoryEntries {
		sorted = sorted[:maxHistoryEntries]
	}
	return sorted
}

func recentProjects(projects []domain.ProjectExperience) []domain.ProjectExperience {
	sorted := make([]domain.ProjectExperience, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return endsAfter(sorted[i].End, sorted[j].End)
	})
	if len(sorted) > maxHistoryEntries {
		sorted = sorted[:maxHistoryEntries]
	}
	return sorted
}

// endsAfter orders end dates descending, with nil (current) first.
func endsAfter(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.After(*b)
}
