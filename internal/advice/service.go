package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

const (
	adviceTTL    = 24 * time.Hour
	callTimeout  = 20 * time.Second
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// TextGenerator produces free-form text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// AdviceCache stores generated advice keyed by (candidate, job) pair.
type AdviceCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service turns gap reports into short human-readable improvement advice.
// Advice is decorative: every failure degrades to an empty string so gap
// analysis itself never depends on the model being up.
type Service struct {
	generator TextGenerator
	cache     AdviceCache
	logger    *zap.Logger
}

func NewService(generator TextGenerator, cache AdviceCache, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

// ForGap generates advice for one candidate/job gap report, serving a
// cached answer when one exists for the pair.
func (s *Service) ForGap(
	ctx context.Context,
	candidateID, jobID int64,
	skills domain.SkillGapReport,
	experience domain.ExperienceGapReport,
	education domain.EducationGapReport,
) string {
	if s.generator == nil {
		return ""
	}

	key := fmt.Sprintf("advice:%d:%d", candidateID, jobID)
	var cached string
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached
	}

	prompt := buildPrompt(skills, experience, education)
	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("advice generation failed",
			zap.Int64("candidate_id", candidateID),
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return ""
	}

	if err := s.cache.SetJSON(ctx, key, text, adviceTTL); err != nil {
		s.logger.Warn("failed to cache advice", zap.String("key", key), zap.Error(err))
	}
	return text
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryBackoff << (attempt - 1)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		text, err := s.generator.GenerateContent(callCtx, prompt)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func buildPrompt(
	skills domain.SkillGapReport,
	experience domain.ExperienceGapReport,
	education domain.EducationGapReport,
) string {
	var b strings.Builder
	b.WriteString("You are a career coach. A candidate is comparing their profile against a job posting.\n")

	if len(skills.RequiredMissing) > 0 {
		b.WriteString(fmt.Sprintf("Missing required skills: %s.\n", strings.Join(skills.RequiredMissing, ", ")))
	}
	if len(skills.OptionalMissing) > 0 {
		b.WriteString(fmt.Sprintf("Missing optional skills: %s.\n", strings.Join(skills.OptionalMissing, ", ")))
	}
	if !experience.IsQualified && experience.GapYears > 0 {
		b.WriteString(fmt.Sprintf(
			"The job asks for %s of experience; the candidate has %.1f years, %.1f short.\n",
			experience.RequiredText, experience.YourYears, experience.GapYears,
		))
	}
	if !education.IsQualified {
		b.WriteString(fmt.Sprintf(
			"The job requires %s; the candidate holds %s.\n",
			education.RequiredText, education.YourText,
		))
	}

	b.WriteString("In at most four sentences, give concrete, encouraging advice on closing these gaps.")
	return b.String()
}
