package service

import (
	"context"

	"github.com/talentbridge/matchai/internal/domain"
	"github.com/talentbridge/matchai/internal/telemetry"
)

// AdviceProvider turns a combined gap report into short improvement
// advice. Implementations must degrade to an empty string on failure.
type AdviceProvider interface {
	ForGap(
		ctx context.Context,
		candidateID, jobID int64,
		skills domain.SkillGapReport,
		experience domain.ExperienceGapReport,
		education domain.EducationGapReport,
	) string
}

// GapResult is the combined gap report for one candidate/job pair.
type GapResult struct {
	Skills     domain.SkillGapReport      `json:"skill_gap"`
	Experience domain.ExperienceGapReport `json:"experience_gap"`
	Education  domain.EducationGapReport  `json:"education_gap"`
	Advice     string                     `json:"advice,omitempty"`
}

// GapService loads a candidate and a job and produces their combined gap
// report. Reports are always recomputed from current data.
type GapService struct {
	store    ProfileStore
	analyzer *GapAnalyzer
	advice   AdviceProvider
}

// NewGapService creates a new GapService instance. advice may be nil.
func NewGapService(store ProfileStore, analyzer *GapAnalyzer, advice AdviceProvider) *GapService {
	return &GapService{
		store:    store,
		analyzer: analyzer,
		advice:   advice,
	}
}

// Analyze produces the skill, experience and education gap reports for a
// pair, plus generated advice when a provider is configured.
func (s *GapService) Analyze(ctx context.Context, userID, jobID int64) (*GapResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "GapService.Analyze", telemetry.SpanAttributes{
		CandidateID: userID,
		JobID:       jobID,
		Operation:   "gap",
	})
	defer span.End()

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrJobNotFound
	}

	profile, err := s.store.GetCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrCandidateNotFound
	}

	result := &GapResult{
		Skills:     s.analyzer.AnalyzeSkillGap(profile.Skills, job.Skills),
		Experience: s.analyzer.AnalyzeExperienceGap(profile.Work, job.ExperienceRequired),
		Education:  s.analyzer.AnalyzeEducationGap(profile.Education, job.EducationRequired),
	}

	if s.advice != nil {
		result.Advice = s.advice.ForGap(ctx, userID, jobID, result.Skills, result.Experience, result.Education)
	}

	return result, nil
}
