package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/scoring"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/store"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJob    = "Backend Engineer. Go, PostgreSQL, Docker and Kubernetes experience required."
	testResume = `Sam Lee
sam@example.com

Experience
- Built billing services in Go and PostgreSQL, reducing costs by 30%
- Led the move to Docker and Kubernetes

Education
B.Sc. Computer Science

Skills
Go, PostgreSQL, Docker, Kubernetes
`
)

type testServerOptions struct {
	apiKeys        []string
	maxRequestSize int64
	rateLimit      *config.RateLimitConfig
	settings       *ats.Settings
}

func newTestServer(t *testing.T, opts testServerOptions) *Server {
	t.Helper()

	var engineOpts []ats.Option
	if opts.settings != nil {
		engineOpts = append(engineOpts, ats.WithSettings(*opts.settings))
	}
	engine, err := ats.NewEngine(engineOpts...)
	require.NoError(t, err)

	appCfg := &config.Config{}
	svc := scoring.NewService(engine, store.NewMemoryStore(20), config.BatchConfig{Concurrency: 2, MaxItems: 10}, nil, errors.Discard())

	s := NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "0",
		Version:        "test",
		APIKeys:        opts.apiKeys,
		MaxRequestSize: opts.maxRequestSize,
		RateLimit:      opts.rateLimit,
	}, svc, nil, errors.Discard())
	t.Cleanup(s.cleanupRateLimiter)
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:4321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "test", resp["version"])
}

func TestStatsHandler(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "scoring")
	assert.Equal(t, map[string]any{"enabled": false}, resp["rate_limiting"])
}

func TestScoreHandler(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/score", ScoreRequest{
		ResumeText:     testResume,
		JobDescription: testJob,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out types.ScoreResumeOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.ID)
	assert.Equal(t, ats.DefaultSettings().Threshold, out.Threshold)
	assert.Equal(t, out.Overall >= out.Threshold, out.Passed)
	assert.Contains(t, out.MatchedKeywords, "kubernetes")
}

func TestScoreHandlerSaveAndFetch(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/score", ScoreRequest{
		ResumeText:     testResume,
		JobDescription: testJob,
		Save:           true,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out types.ScoreResumeOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.ID)

	rec = doJSON(t, h, http.MethodGet, "/scores/"+out.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stored types.StoredScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, out.ID, stored.ID)
	assert.Equal(t, out.Overall, stored.Score.Overall)

	rec = doJSON(t, h, http.MethodGet, "/scores?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var history types.ScoreHistoryOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Scores, 1)
	assert.Equal(t, out.ID, history.Scores[0].ID)
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		opts       testServerOptions
		method     string
		path       string
		body       any
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "wrong content type",
			method:     http.MethodPost,
			path:       "/score",
			body:       `{"resumeText":"x"}`,
			headers:    map[string]string{"Content-Type": "text/plain"},
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "malformed json",
			method:     http.MethodPost,
			path:       "/score",
			body:       `{"resumeText":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "request body over limit",
			opts:       testServerOptions{maxRequestSize: 64},
			method:     http.MethodPost,
			path:       "/score",
			body:       ScoreRequest{ResumeText: strings.Repeat("resume ", 50)},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "interview without question",
			method:     http.MethodPost,
			path:       "/interview",
			body:       InterviewRequest{Answer: "I led the migration."},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "batch without items",
			method:     http.MethodPost,
			path:       "/score/batch",
			body:       BatchScoreRequest{JobDescription: testJob},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed score id",
			method:     http.MethodGet,
			path:       "/scores/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown score id",
			method:     http.MethodGet,
			path:       "/scores/" + uuid.NewString(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "limit out of range",
			method:     http.MethodGet,
			path:       "/scores?limit=501",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "limit not a number",
			method:     http.MethodGet,
			path:       "/scores?limit=ten",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			path:       "/score",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, tt.opts).Handler()
			rec := doJSON(t, h, tt.method, tt.path, tt.body, tt.headers)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestScoreHandlerInputTooLarge(t *testing.T) {
	settings := ats.DefaultSettings()
	settings.MaxInputBytes = 128
	settings.OversizePolicy = ats.OversizeReject
	h := newTestServer(t, testServerOptions{settings: &settings}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/score", ScoreRequest{
		ResumeText:     strings.Repeat("Go developer. ", 40),
		JobDescription: testJob,
	}, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	assert.Equal(t, "Input too large", decodeError(t, rec).Error)
}

func TestAuthMiddleware(t *testing.T) {
	const key = "test-key-0123456789"
	h := newTestServer(t, testServerOptions{apiKeys: []string{key}}).Handler()
	body := KeywordsRequest{JobDescription: testJob}

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": key}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer " + key}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/keywords", body, tt.headers)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	t.Run("health stays public", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSetAPIKeysRotates(t *testing.T) {
	s := newTestServer(t, testServerOptions{apiKeys: []string{"old-key-0123456789"}})
	h := s.Handler()
	body := KeywordsRequest{JobDescription: testJob}

	s.SetAPIKeys([]string{"new-key-0123456789", ""})

	rec := doJSON(t, h, http.MethodPost, "/keywords", body, map[string]string{"X-API-Key": "old-key-0123456789"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/keywords", body, map[string]string{"X-API-Key": "new-key-0123456789"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.currentAPIKeys(), 1)
}

func TestRateLimitedRoute(t *testing.T) {
	h := newTestServer(t, testServerOptions{rateLimit: &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
	}}).Handler()

	rec := doJSON(t, h, http.MethodGet, "/scores", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/scores", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestBatchHandler(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/score/batch", BatchScoreRequest{
		JobDescription: testJob,
		Items: []types.BatchItem{
			{ID: "strong", ResumeText: testResume},
			{ResumeText: "Cashier. Friendly."},
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out types.BatchScoreOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.RequestID)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "strong", out.Results[0].ID)
	assert.Equal(t, "2", out.Results[1].ID)
	assert.Equal(t, 2, out.Summary.Total)
	assert.Equal(t, 2, out.Summary.Scored)
	assert.Greater(t, out.Results[0].Score.Overall, out.Results[1].Score.Overall)
}

func TestCoverLetterAndInterviewHandlers(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/cover-letter", CoverLetterRequest{
		CoverLetterText: "Dear Hiring Manager,\n\nI build Go services on Kubernetes and would love to join your team.\n\nSincerely,\nSam",
		JobDescription:  testJob,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var letter types.ScoreCoverLetterOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &letter))
	assert.Equal(t, ats.DefaultSettings().CoverLetterThreshold, letter.Threshold)

	rec = doJSON(t, h, http.MethodPost, "/interview", InterviewRequest{
		Question: "Tell me about a migration you led.",
		Answer:   "",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var answer types.ScoreInterviewOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.Equal(t, 0, answer.Overall)
	assert.False(t, answer.Passed)
}

func TestKeywordsHandler(t *testing.T) {
	h := newTestServer(t, testServerOptions{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/keywords", KeywordsRequest{JobDescription: testJob}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out types.KeywordsOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "job", out.Source)
	assert.Equal(t, len(out.Keywords), out.Count)
	assert.Contains(t, out.Keywords, "postgresql")

	rec = doJSON(t, h, http.MethodPost, "/keywords", KeywordsRequest{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "generic", out.Source)
}
