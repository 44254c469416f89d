package service

import (
	"context"
	"math"
	"time"

	"github.com/talentbridge/matchai/internal/domain"
	"github.com/talentbridge/matchai/internal/pagination"
	"github.com/talentbridge/matchai/internal/telemetry"
	"go.uber.org/zap"
)

// ProfileStore defines the read-only interface over the relational store
// owning candidate profiles and job postings. Absence is a normal outcome
// and is reported as (nil, nil), not as an error.
type ProfileStore interface {
	GetJob(ctx context.Context, jobID int64) (*domain.JobPosting, error)
	GetCandidate(ctx context.Context, userID int64) (*domain.Profile, error)
	ListActiveJobIDs(ctx context.Context) ([]int64, error)
}

// ScoreCache defines the interface for the match score cache. The cache
// is optional: every operation may degrade to a miss or no-op when the
// underlying store is unavailable, and callers never treat it as a source
// of truth.
type ScoreCache interface {
	Get(ctx context.Context, candidateID, jobID int64) (*domain.MatchScoreRecord, error)
	Put(ctx context.Context, record *domain.MatchScoreRecord) error
	ListForCandidate(ctx context.Context, candidateID, afterJobID int64, limit int) ([]*domain.MatchScoreRecord, error)
	DeleteForCandidate(ctx context.Context, candidateID int64) (int64, error)
	DeleteForJob(ctx context.Context, jobID int64) (int64, error)
}

// Embedder defines the interface for the embedding provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// MatchService orchestrates single-pair and batch match scoring with
// cache-first evaluation.
type MatchService struct {
	store    ProfileStore
	cache    ScoreCache
	embedder Embedder
	logger   *zap.Logger
	now      func() time.Time
}

// NewMatchService creates a new MatchService instance
func NewMatchService(store ProfileStore, cache ScoreCache, embedder Embedder, logger *zap.Logger) *MatchService {
	return &MatchService{
		store:    store,
		cache:    cache,
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}
}

// ScoreSingle computes the match score for one (candidate, job) pair.
// A cached record is returned as long as neither side has been modified
// since it was computed; otherwise the pair is recomputed and the record
// replaced.
func (s *MatchService) ScoreSingle(ctx context.Context, userID, jobID int64) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "MatchService.ScoreSingle", telemetry.SpanAttributes{
		CandidateID: userID,
		JobID:       jobID,
		Operation:   "score",
	})
	defer span.End()

	score, _, err := s.scoreSingle(ctx, userID, jobID, nil)
	return score, err
}

// scoreSingle returns both the integer score and the similarity. When
// candEmb is non-nil it is used as the candidate-side vector instead of
// rebuilding and re-embedding the profile text.
func (s *MatchService) scoreSingle(ctx context.Context, userID, jobID int64, candEmb []float32) (int, float64, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return 0, 0, err
	}
	if job == nil {
		return 0, 0, domain.ErrJobNotFound
	}

	profile, err := s.store.GetCandidate(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if profile == nil {
		return 0, 0, domain.ErrCandidateNotFound
	}

	if cached := s.lookup(ctx, userID, jobID); cached != nil &&
		!cached.StaleAgainst(profile.ModifiedAt, job.ModifiedAt) {
		s.logger.Info("using cached match score",
			zap.Int64("user_id", userID),
			zap.Int64("job_id", jobID),
			zap.Int("score", cached.MatchScore),
		)
		return cached.MatchScore, cached.Similarity, nil
	}

	return s.computeAndStore(ctx, profile, job, candEmb)
}

// computeAndStore runs the full text → embed → score path and replaces
// the cached record. Cache write failures are tolerated: the score is
// still returned.
func (s *MatchService) computeAndStore(ctx context.Context, profile *domain.Profile, job *domain.JobPosting, candEmb []float32) (int, float64, error) {
	if candEmb == nil {
		text := BuildCandidateText(profile.Major, profile.School, profile.Skills, profile.Work, profile.Projects)
		var err error
		candEmb, err = s.embedder.Embed(ctx, text)
		if err != nil {
			return 0, 0, err
		}
	}

	jobText := BuildJobText(job.Title, job.Description, job.Responsibilities, job.Requirements, job.SkillNames())
	jobEmb, err := s.embedder.Embed(ctx, jobText)
	if err != nil {
		return 0, 0, err
	}

	similarity, err := domain.CosineSimilarity(candEmb, jobEmb)
	if err != nil {
		return 0, 0, err
	}
	score := domain.ToMatchScore(similarity)

	record := domain.NewMatchScoreRecord(
		profile.UserID, job.ID,
		similarity, score, candEmb,
		profile.ModifiedAt, job.ModifiedAt,
		s.now(),
	)
	if err := s.cache.Put(ctx, record); err != nil {
		s.logger.Warn("failed to store match score",
			zap.Int64("user_id", profile.UserID),
			zap.Int64("job_id", job.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("match score computed",
		zap.Int64("user_id", profile.UserID),
		zap.Int64("job_id", job.ID),
		zap.Float64("similarity", similarity),
		zap.Int("score", score),
	)

	return score, similarity, nil
}

func (s *MatchService) lookup(ctx context.Context, userID, jobID int64) *domain.MatchScoreRecord {
	record, err := s.cache.Get(ctx, userID, jobID)
	if err != nil {
		s.logger.Warn("match score cache lookup failed",
			zap.Int64("user_id", userID),
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return nil
	}
	return record
}

// PayloadWork is one work entry of a caller-supplied profile payload.
type PayloadWork struct {
	Position    string `json:"position"`
	Description string `json:"description"`
}

// PayloadProject is one project entry of a caller-supplied profile payload.
type PayloadProject struct {
	Name        string `json:"projectName"`
	Description string `json:"description"`
}

// ProfilePayload is a candidate profile supplied directly by the caller,
// used when no stored profile is available.
type ProfilePayload struct {
	Major            string           `json:"major"`
	School           string           `json:"university"`
	HighestEducation string           `json:"highestEducation"`
	City             string           `json:"currentCity"`
	Skills           []domain.Skill   `json:"skills"`
	Work             []PayloadWork    `json:"workExperiences"`
	Projects         []PayloadProject `json:"projectExperiences"`
}

// BatchJobPayload is one job to score in a batch request.
type BatchJobPayload struct {
	JobID             int64    `json:"jobId"`
	Title             string   `json:"jobTitle"`
	Description       string   `json:"description"`
	Responsibilities  string   `json:"responsibilities"`
	Requirements      string   `json:"requirements"`
	SkillNames        []string `json:"skills"`
	EducationRequired *int     `json:"educationRequired"`
}

// BatchInput is a batch scoring request. UserID of 0 means the caller is
// unauthenticated and only the payload profile can be used.
type BatchInput struct {
	UserID  int64
	Profile *ProfilePayload
	Jobs    []BatchJobPayload
}

// MatchDetails carries the per-dimension sub-scores of one batch result.
type MatchDetails struct {
	SkillMatch       float64 `json:"skillMatch"`
	DescriptionMatch float64 `json:"descriptionMatch"`
	EducationMatch   float64 `json:"educationMatch"`
}

// JobScore is one entry of a batch scoring result.
type JobScore struct {
	JobID      int64        `json:"jobId"`
	MatchScore int          `json:"matchScore"`
	Similarity float64      `json:"similarity"`
	Details    MatchDetails `json:"details"`
}

// ScoreBatch scores one candidate against a list of jobs. When a stored
// profile exists for the user the cached single-pair path runs per job
// with sub-scores from stored data; otherwise everything is computed from
// the payload profile. Per-job failures are logged and the job omitted;
// partial results are acceptable and the batch itself only fails on a
// malformed request.
func (s *MatchService) ScoreBatch(ctx context.Context, input BatchInput) ([]JobScore, error) {
	ctx, span := telemetry.StartSpan(ctx, "MatchService.ScoreBatch", telemetry.SpanAttributes{
		CandidateID: input.UserID,
		Operation:   "batch",
	})
	defer span.End()

	if input.UserID != 0 {
		profile, err := s.store.GetCandidate(ctx, input.UserID)
		if err != nil {
			s.logger.Warn("failed to load stored profile, falling back to payload",
				zap.Int64("user_id", input.UserID),
				zap.Error(err),
			)
		} else if profile != nil {
			return s.scoreBatchStored(ctx, profile, input.Jobs), nil
		}
	}

	if input.Profile == nil {
		return nil, domain.ErrEmptyBatchProfile
	}
	return s.scoreBatchPayload(ctx, input)
}

// scoreBatchStored runs the cached single-pair path per job. The
// candidate embedding is computed at most once and shared across cache
// misses.
func (s *MatchService) scoreBatchStored(ctx context.Context, profile *domain.Profile, jobs []BatchJobPayload) []JobScore {
	var candEmb []float32
	embedProfile := func() []float32 {
		if candEmb != nil {
			return candEmb
		}
		text := BuildCandidateText(profile.Major, profile.School, profile.Skills, profile.Work, profile.Projects)
		emb, err := s.embedder.Embed(ctx, text)
		if err != nil {
			s.logger.Warn("failed to embed stored profile", zap.Int64("user_id", profile.UserID), zap.Error(err))
			return nil
		}
		candEmb = emb
		return candEmb
	}

	results := make([]JobScore, 0, len(jobs))
	for _, jobInput := range jobs {
		score, similarity, err := s.scoreSingle(ctx, profile.UserID, jobInput.JobID, embedProfile())
		if err != nil {
			s.logger.Warn("batch job scoring failed",
				zap.Int64("user_id", profile.UserID),
				zap.Int64("job_id", jobInput.JobID),
				zap.Error(err),
			)
			continue
		}

		job, err := s.store.GetJob(ctx, jobInput.JobID)
		if err != nil || job == nil {
			continue
		}

		results = append(results, JobScore{
			JobID:      job.ID,
			MatchScore: score,
			Similarity: round4(similarity),
			Details: MatchDetails{
				SkillMatch:       round4(domain.SkillMatch(profile.Skills, job.SkillNames())),
				DescriptionMatch: round4(similarity),
				EducationMatch:   domain.EducationMatchTier(profile.Education, job.EducationRequired),
			},
		})
	}
	return results
}

// scoreBatchPayload computes everything from the caller-supplied profile.
// The cache's staleness logic never sees these inputs (they carry no
// timestamps) but scores are still persisted when stored counterparts
// exist.
func (s *MatchService) scoreBatchPayload(ctx context.Context, input BatchInput) ([]JobScore, error) {
	payload := input.Profile
	candText := BuildCandidateText(
		payload.Major, payload.School, payload.Skills,
		payloadWorkHistory(payload.Work), payloadProjectHistory(payload.Projects),
	)
	candEmb, err := s.embedder.Embed(ctx, candText)
	if err != nil {
		return nil, err
	}

	var storedProfile *domain.Profile
	if input.UserID != 0 {
		storedProfile, _ = s.store.GetCandidate(ctx, input.UserID)
	}

	results := make([]JobScore, 0, len(input.Jobs))
	for _, jobInput := range input.Jobs {
		jobText := BuildJobText(jobInput.Title, jobInput.Description, jobInput.Responsibilities, jobInput.Requirements, jobInput.SkillNames)
		jobEmb, err := s.embedder.Embed(ctx, jobText)
		if err != nil {
			s.logger.Warn("batch job embedding failed", zap.Int64("job_id", jobInput.JobID), zap.Error(err))
			continue
		}

		similarity, err := domain.CosineSimilarity(candEmb, jobEmb)
		if err != nil {
			s.logger.Warn("batch job similarity failed", zap.Int64("job_id", jobInput.JobID), zap.Error(err))
			continue
		}
		score := domain.ToMatchScore(similarity)

		descriptionMatch, err := s.descriptionMatch(ctx, candEmb, jobInput.Description)
		if err != nil {
			s.logger.Warn("batch description match failed", zap.Int64("job_id", jobInput.JobID), zap.Error(err))
			continue
		}

		if storedProfile != nil {
			s.persistPayloadScore(ctx, storedProfile, jobInput.JobID, similarity, score, candEmb)
		}

		results = append(results, JobScore{
			JobID:      jobInput.JobID,
			MatchScore: score,
			Similarity: round4(similarity),
			Details: MatchDetails{
				SkillMatch:       round4(domain.SkillMatch(payload.Skills, jobInput.SkillNames)),
				DescriptionMatch: round4(descriptionMatch),
				EducationMatch:   domain.EducationMatch(payload.HighestEducation, jobInput.EducationRequired),
			},
		})
	}
	return results, nil
}

// descriptionMatch measures the candidate against the job description
// alone. A job without a description matches trivially.
func (s *MatchService) descriptionMatch(ctx context.Context, candEmb []float32, description string) (float64, error) {
	if description == "" {
		return 1.0, nil
	}
	descEmb, err := s.embedder.Embed(ctx, description)
	if err != nil {
		return 0, err
	}
	return domain.CosineSimilarity(candEmb, descEmb)
}

// persistPayloadScore stores a payload-mode score when the stored profile
// and job both exist and can supply source timestamps. Best-effort.
func (s *MatchService) persistPayloadScore(ctx context.Context, profile *domain.Profile, jobID int64, similarity float64, score int, candEmb []float32) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil || job == nil {
		return
	}

	record := domain.NewMatchScoreRecord(
		profile.UserID, job.ID,
		similarity, score, candEmb,
		profile.ModifiedAt, job.ModifiedAt,
		s.now(),
	)
	if err := s.cache.Put(ctx, record); err != nil {
		s.logger.Warn("failed to persist payload match score",
			zap.Int64("user_id", profile.UserID),
			zap.Int64("job_id", job.ID),
			zap.Error(err),
		)
	}
}

const (
	defaultScorePageSize = 20
	maxScorePageSize     = 100
)

// ScoreSummary is one cached score in a candidate's score listing.
type ScoreSummary struct {
	JobID      int64   `json:"jobId"`
	MatchScore int     `json:"matchScore"`
	Similarity float64 `json:"similarity"`
	ComputedAt int64   `json:"computedAt"`
}

// ListScores returns a page of cached scores for a candidate, ordered by
// job ID. Scores are returned as stored; no staleness check or recompute
// happens on the listing path.
func (s *MatchService) ListScores(ctx context.Context, candidateID int64, cursor string, limit int) (*pagination.PageResult[ScoreSummary], error) {
	if limit <= 0 {
		limit = defaultScorePageSize
	}
	if limit > maxScorePageSize {
		limit = maxScorePageSize
	}

	afterJobID, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}

	records, err := s.cache.ListForCandidate(ctx, candidateID, afterJobID, limit+1)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCacheUnavailable, "failed to list match scores", err)
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	items := make([]ScoreSummary, 0, len(records))
	for _, rec := range records {
		items = append(items, ScoreSummary{
			JobID:      rec.JobID,
			MatchScore: rec.MatchScore,
			Similarity: rec.Similarity,
			ComputedAt: rec.ComputedTS,
		})
	}

	result := &pagination.PageResult[ScoreSummary]{
		Items:   items,
		HasMore: hasMore,
	}
	if hasMore {
		result.Cursor = pagination.EncodeCursor(items[len(items)-1].JobID)
	}
	return result, nil
}

// InvalidateCandidate removes every cached score for a candidate, e.g.
// when the profile is deleted. Returns the number of records removed.
func (s *MatchService) InvalidateCandidate(ctx context.Context, candidateID int64) (int64, error) {
	return s.cache.DeleteForCandidate(ctx, candidateID)
}

// InvalidateJob removes every cached score for a job.
func (s *MatchService) InvalidateJob(ctx context.Context, jobID int64) (int64, error) {
	return s.cache.DeleteForJob(ctx, jobID)
}

func payloadWorkHistory(entries []PayloadWork) []domain.WorkExperience {
	work := make([]domain.WorkExperience, 0, len(entries))
	for _, e := range entries {
		work = append(work, domain.WorkExperience{Position: e.Position, Description: e.Description})
	}
	return work
}

func payloadProjectHistory(entries []PayloadProject) []domain.ProjectExperience {
	projects := make([]domain.ProjectExperience, 0, len(entries))
	for _, e := range entries {
		projects = append(projects, domain.ProjectExperience{Name: e.Name, Description: e.Description})
	}
	return projects
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
