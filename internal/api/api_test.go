package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/citrigger"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/outwriter"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

const cartChanges = `{
  "pullRequest": {"number": "42", "branch": "feature/cart"},
  "changedFiles": [
    {"path": "src/cart.js", "status": "modified", "additions": 12},
    {"path": "src/cart.test.js", "status": "modified", "additions": 3},
    {"path": "src/price.js", "status": "added", "additions": 30}
  ],
  "repositoryFiles": ["src/cart.js", "src/cart.test.js", "src/price.js"]
}`

func serverConfig() *contract.Config {
	return &contract.Config{
		RepoPath:     ".",
		ResultLimit:  contract.DefaultResultLimit,
		MinRelevance: contract.DefaultMinRelevance,
		Excludes:     contract.DefaultExcludes,
		ServeAddr:    "127.0.0.1:0",
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestLanguages(t *testing.T) {
	rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodGet, "/api/v1/languages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var profiles []schema.LanguageProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	assert.NotEmpty(t, profiles)
}

func TestAnalyze(t *testing.T) {
	rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodPost, "/api/v1/analyze", cartChanges)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got schema.EnrichedAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, schema.IndexMode, got.Mode)
	assert.Equal(t, 3, got.TotalChangedFiles)
	assert.Equal(t, 50, got.CoverageEstimatePercent)

	var paths []string
	for _, c := range got.IdentifiedTests {
		paths = append(paths, c.TestPath)
	}
	assert.Contains(t, paths, "src/cart.test.js")
	assert.Contains(t, paths, "src/price.test.js", "uncovered sources get a suggested test")
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "src/price.js", got.Recommendations[0].SourcePath)
}

func TestAnalyzeEmptyChangeSet(t *testing.T) {
	rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodPost, "/api/v1/analyze", `{"changedFiles": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got schema.EnrichedAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.IdentifiedTests)
	assert.Equal(t, 100, got.CoverageEstimatePercent)
	assert.Equal(t, 0, got.RiskScore)
}

func TestAnalyzeInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"missing changedFiles", `{"limit": 5}`},
		{"unknown field", `{"changedFiles": [], "extra": true}`},
		{"not a document", `[1, 2, 3]`},
	}
	h := NewServer(serverConfig(), nil).Routes()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/analyze", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, errorOf(t, rec), "invalid change document")
		})
	}
}

func TestTemplates(t *testing.T) {
	h := NewServer(serverConfig(), nil).Routes()

	t.Run("renders", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/templates", `{"name": "parseOrder", "language": "go"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var got templateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Contains(t, got.Template, "func TestParseOrder(t *testing.T)")
	})

	t.Run("bad json", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/templates", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorOf(t, rec), "invalid JSON body")
	})

	t.Run("unknown language", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/templates", `{"name": "x", "language": "cobol"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestTrigger(t *testing.T) {
	t.Run("queues existing tests", func(t *testing.T) {
		trigger := &citrigger.MockCITrigger{}
		trigger.On("Name").Return(contract.JenkinsProvider).Maybe()
		trigger.On("Trigger", mock.Anything, mock.MatchedBy(func(req schema.TriggerRequest) bool {
			return req.PRNumber == "42" && req.Branch == "feature/cart" &&
				len(req.Tests) == 1 && req.Tests[0] == "src/cart.test.js"
		})).Return(schema.TriggerReceipt{Provider: contract.JenkinsProvider, StatusCode: 201, TestCount: 1}, nil)

		s := NewServer(serverConfig(), nil, WithTriggerFactory(func(*contract.Config) (contract.CITrigger, error) {
			return trigger, nil
		}))
		rec := do(t, s.Routes(), http.MethodPost, "/api/v1/trigger", cartChanges)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got outwriter.TriggerOutput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 201, got.Receipt.StatusCode)
		trigger.AssertExpectations(t)
	})

	t.Run("dry run through the default factory", func(t *testing.T) {
		rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodPost, "/api/v1/trigger?dryRun=true&includeSuggested=true", cartChanges)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got outwriter.TriggerOutput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Receipt.DryRun)
		assert.ElementsMatch(t, []string{"src/cart.test.js", "src/price.test.js"}, got.Request.Tests)
	})

	t.Run("provider failure", func(t *testing.T) {
		trigger := &citrigger.MockCITrigger{}
		trigger.On("Name").Return(contract.JenkinsProvider)
		trigger.On("Trigger", mock.Anything, mock.Anything).Return(schema.TriggerReceipt{}, citrigger.ErrTriggerRejected)

		s := NewServer(serverConfig(), nil, WithTriggerFactory(func(*contract.Config) (contract.CITrigger, error) {
			return trigger, nil
		}))
		rec := do(t, s.Routes(), http.MethodPost, "/api/v1/trigger", cartChanges)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, errorOf(t, rec), "failed to trigger jenkins")
	})

	t.Run("jenkins not configured", func(t *testing.T) {
		rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodPost, "/api/v1/trigger", cartChanges)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, errorOf(t, rec), "--ci-url")
	})

	t.Run("bad dryRun flag", func(t *testing.T) {
		rec := do(t, NewServer(serverConfig(), nil).Routes(), http.MethodPost, "/api/v1/trigger?dryRun=maybe", cartChanges)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	cfg := serverConfig()
	cfg.AllowedOrigins = []string{"chrome-extension://abc"}
	h := NewServer(cfg, nil).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "chrome-extension://abc")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "chrome-extension://abc", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(serverConfig(), nil).ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
