package domain

import (
	"fmt"
	"time"
)

// EmbeddingDim is the fixed dimension of every embedding in the system.
const EmbeddingDim = 768

// MatchScoreRecord is one cached match score, keyed by the
// (candidate, job) composite key. Records are never updated in place:
// a fresher computation always replaces the row via delete-then-insert.
// Source timestamps are stored at one-second resolution; a zero source
// timestamp means the backend never reported one and compares as epoch 0.
type MatchScoreRecord struct {
	CandidateID int64
	JobID       int64
	Similarity  float64
	MatchScore  int
	// Embedding is the candidate-side vector snapshot at computation time.
	Embedding   []float32
	CandidateTS int64
	JobTS       int64
	ComputedTS  int64
}

// ScorePair identifies a cached score row by its composite key.
type ScorePair struct {
	CandidateID int64
	JobID       int64
}

// NewMatchScoreRecord builds a record from a freshly computed score,
// truncating the source modification times to epoch seconds.
func NewMatchScoreRecord(
	candidateID, jobID int64,
	similarity float64,
	matchScore int,
	embedding []float32,
	candidateModifiedAt, jobModifiedAt time.Time,
	computedAt time.Time,
) *MatchScoreRecord {
	return &MatchScoreRecord{
		CandidateID: candidateID,
		JobID:       jobID,
		Similarity:  similarity,
		MatchScore:  matchScore,
		Embedding:   embedding,
		CandidateTS: epochSeconds(candidateModifiedAt),
		JobTS:       epochSeconds(jobModifiedAt),
		ComputedTS:  epochSeconds(computedAt),
	}
}

// StaleAgainst reports whether the record was computed from sources older
// than the given current modification times.
func (r *MatchScoreRecord) StaleAgainst(candidateModifiedAt, jobModifiedAt time.Time) bool {
	return r.CandidateTS < epochSeconds(candidateModifiedAt) ||
		r.JobTS < epochSeconds(jobModifiedAt)
}

// ValidateMatchScoreRecord validates a MatchScoreRecord instance.
func ValidateMatchScoreRecord(r *MatchScoreRecord) error {
	if r == nil {
		return fmt.Errorf("match score record cannot be nil")
	}

	if r.CandidateID == 0 {
		return fmt.Errorf("match score record CandidateID is required")
	}

	if r.JobID == 0 {
		return fmt.Errorf("match score record JobID is required")
	}

	if r.Similarity < -1 || r.Similarity > 1 {
		return fmt.Errorf("match score record Similarity out of range: %f", r.Similarity)
	}

	if r.MatchScore < 0 || r.MatchScore > 100 {
		return fmt.Errorf("match score record MatchScore out of range: %d", r.MatchScore)
	}

	if len(r.Embedding) != 0 && len(r.Embedding) != EmbeddingDim {
		return fmt.Errorf("match score record Embedding has wrong dimension: %d", len(r.Embedding))
	}

	return nil
}

func epochSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
