//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentbridge/matchai/internal/api/handlers"
	"github.com/talentbridge/matchai/internal/domain"
	"github.com/talentbridge/matchai/internal/repository"
	"github.com/talentbridge/matchai/internal/server"
	"github.com/talentbridge/matchai/internal/service"
	"github.com/talentbridge/matchai/internal/testutil"
	"go.uber.org/zap"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a database container
// and an in-process server. Embeddings come from a deterministic local
// stub, so no external API is needed.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// SeedProfile inserts a candidate profile with skills and one work entry.
func (e *E2ETestEnv) SeedProfile(userID int64, skills []string, updatedAt time.Time) {
	var profileID int64
	err := e.Pool.QueryRow(e.Ctx,
		`INSERT INTO candidate_profiles (user_id, major, school, city, highest_education, updated_at)
		 VALUES ($1, 'Computer Science', 'State University', 'Berlin', 2, $2)
		 RETURNING id`,
		userID, updatedAt,
	).Scan(&profileID)
	if err != nil {
		e.T.Fatalf("failed to seed profile: %v", err)
	}

	for _, skill := range skills {
		if _, err := e.Pool.Exec(e.Ctx,
			`INSERT INTO candidate_skills (profile_id, name) VALUES ($1, $2)`,
			profileID, skill,
		); err != nil {
			e.T.Fatalf("failed to seed skill: %v", err)
		}
	}

	if _, err := e.Pool.Exec(e.Ctx,
		`INSERT INTO work_experiences (profile_id, company, position, description, start_date, end_date)
		 VALUES ($1, 'Acme', 'Engineer', 'Built backend services', '2020-01-01', '2024-01-01')`,
		profileID,
	); err != nil {
		e.T.Fatalf("failed to seed work experience: %v", err)
	}
}

// SeedJob inserts an open, approved job posting with skills.
func (e *E2ETestEnv) SeedJob(title string, requiredSkills []string, updatedAt time.Time) int64 {
	var jobID int64
	err := e.Pool.QueryRow(e.Ctx,
		`INSERT INTO job_postings
			(title, description, responsibilities, requirements,
			 education_required, experience_required, status, audit_status, updated_at)
		 VALUES ($1, 'Build and run services', 'Own delivery end to end', 'Solid engineering background',
		         2, 2, $2, $3, $4)
		 RETURNING id`,
		title, domain.JobStatusOpen, domain.AuditApproved, updatedAt,
	).Scan(&jobID)
	if err != nil {
		e.T.Fatalf("failed to seed job: %v", err)
	}

	for _, skill := range requiredSkills {
		if _, err := e.Pool.Exec(e.Ctx,
			`INSERT INTO job_skills (job_id, name, is_required) VALUES ($1, $2, TRUE)`,
			jobID, skill,
		); err != nil {
			e.T.Fatalf("failed to seed job skill: %v", err)
		}
	}

	return jobID
}

// CachedScoreCount returns the number of cached score rows for a candidate.
func (e *E2ETestEnv) CachedScoreCount(candidateID int64) int {
	var count int
	err := e.Pool.QueryRow(e.Ctx,
		`SELECT COUNT(*) FROM match_scores WHERE candidate_id = $1`, candidateID,
	).Scan(&count)
	if err != nil {
		e.T.Fatalf("failed to count cached scores: %v", err)
	}
	return count
}

// APIResponse represents a standard API response
type APIResponse struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	apiResp := &APIResponse{Status: resp.StatusCode}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, apiResp); err != nil {
			return nil, fmt.Errorf("failed to parse response %q: %w", respBody, err)
		}
	}
	return apiResp, nil
}

// stubEmbeddingClient derives a deterministic vector from the text hash.
// Equal texts embed identically, different texts mostly do not, which is
// all the scoring pipeline needs under test.
type stubEmbeddingClient struct{}

func (stubEmbeddingClient) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	v := make([]float32, domain.EmbeddingDim)
	for i := range v {
		seed := binary.LittleEndian.Uint32(sum[(i*4)%28 : (i*4)%28+4])
		v[i] = float32((seed+uint32(i))%1000)/1000.0 - 0.5
	}
	return v, nil
}

func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	zlog := zap.NewNop()

	store := repository.NewStore(pool)
	scoreRepo := repository.NewMatchScoreRepository(pool, zlog)
	embedder := service.NewEmbeddingProviderWithClient(domain.EmbeddingDim, stubEmbeddingClient{})

	matchSvc := service.NewMatchService(store, scoreRepo, embedder, zlog)
	precomputeSvc := service.NewPrecomputeService(store, scoreRepo, embedder, zlog)
	gapSvc := service.NewGapService(store, service.NewGapAnalyzer(zlog), nil)

	matchHandler := handlers.NewMatchHandler(matchSvc, precomputeSvc, gapSvc)

	router := server.NewRouter(server.RouterConfig{
		MatchHandler: matchHandler,
		Logger:       zlog,
	})

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL+"/health")

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}

	return serverURL, closer
}

func waitForServer(t *testing.T, healthURL string) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(healthURL)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("server did not become healthy in time")
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
