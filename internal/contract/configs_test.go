package contract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// baseInput returns raw input that passes validation with Git references.
func baseInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        10,
		Precision:    1,
		Output:       "text",
		MinRelevance: DefaultMinRelevance,
		MaxRisk:      DefaultMaxRisk,
		BaseRef:      "main",
		CacheBackend: string(schema.SQLiteBackend),
		RepoPathStr:  ".",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
		setupMock   func(*MockGitClient, string) // Pass the expected working directory
	}{
		{
			name:   "valid minimal config",
			modify: func(*ConfigRawInput) {},
			setupMock: func(m *MockGitClient, workDir string) {
				m.On("GetRepoRoot", mock.Anything, workDir).Return("/mock/repo/root", nil)
			},
		},
		{
			name:        "missing change source",
			modify:      func(in *ConfigRawInput) { in.BaseRef = "" },
			expectError: true,
		},
		{
			name:        "input and diff together",
			modify:      func(in *ConfigRawInput) { in.Input = "changes.json"; in.Diff = "pr.diff" },
			expectError: true,
		},
		{
			name:        "no-index with index file",
			modify:      func(in *ConfigRawInput) { in.NoIndex = true; in.IndexFile = "files.txt" },
			expectError: true,
		},
		{
			name:        "invalid limit (zero)",
			modify:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "invalid limit (too large)",
			modify:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid relevance",
			modify:      func(in *ConfigRawInput) { in.MinRelevance = 1.5 },
			expectError: true,
		},
		{
			name:        "invalid precision (too high)",
			modify:      func(in *ConfigRawInput) { in.Precision = 3 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			modify:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "invalid emoji flag",
			modify:      func(in *ConfigRawInput) { in.Emoji = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid log level",
			modify:      func(in *ConfigRawInput) { in.LogLevel = "chatty" },
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			modify:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: true,
		},
		{
			name:        "mysql backend without connection string",
			modify:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name:        "postgresql backend without connection string",
			modify:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.PostgreSQLBackend) },
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			modify: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/testid"
			},
			setupMock: func(m *MockGitClient, workDir string) {
				m.On("GetRepoRoot", mock.Anything, workDir).Return("/mock/repo/root", nil)
			},
		},
		{
			name:        "invalid coverage threshold",
			modify:      func(in *ConfigRawInput) { in.MinCoverage = 101 },
			expectError: true,
		},
		{
			name:        "invalid risk threshold",
			modify:      func(in *ConfigRawInput) { in.MaxRisk = -1 },
			expectError: true,
		},
		{
			name:        "invalid ci provider",
			modify:      func(in *ConfigRawInput) { in.CIProvider = "travis" },
			expectError: true,
		},
		{
			name:        "invalid ci timeout",
			modify:      func(in *ConfigRawInput) { in.CITimeout = "soon" },
			expectError: true,
		},
		{
			name:   "none backend",
			modify: func(in *ConfigRawInput) { in.CacheBackend = string(schema.NoneBackend) },
			setupMock: func(m *MockGitClient, workDir string) {
				m.On("GetRepoRoot", mock.Anything, workDir).Return("/mock/repo/root", nil)
			},
		},
		{
			name:        "git refs outside a repository",
			modify:      func(*ConfigRawInput) {},
			expectError: true,
			setupMock: func(m *MockGitClient, workDir string) {
				m.On("GetRepoRoot", mock.Anything, workDir).Return("", errors.New("not a git repository"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(MockGitClient)

			// Dynamically determine the expected working directory
			workDir, err := filepath.Abs(".")
			require.NoError(t, err)

			if tt.setupMock != nil {
				tt.setupMock(mockClient, workDir)
			}

			in := baseInput()
			tt.modify(in)

			cfg := &Config{}
			err = ProcessAndValidate(context.Background(), cfg, mockClient, in)

			if tt.expectError {
				assert.Error(t, err, "ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "ProcessAndValidate should not return an error for %s", tt.name)
				assert.Equal(t, in.Limit, cfg.ResultLimit)
				assert.Equal(t, "/mock/repo/root", cfg.RepoPath)
				assert.True(t, cfg.HasRepo)
				assert.Equal(t, "HEAD", cfg.TargetRef)
			}

			if tt.setupMock != nil {
				mockClient.AssertExpectations(t)
			}
		})
	}
}

func TestProcessAndValidateInputFileWithoutRepo(t *testing.T) {
	dir := t.TempDir()
	mockClient := new(MockGitClient)
	mockClient.On("GetRepoRoot", mock.Anything, dir).Return("", errors.New("not a git repository"))

	in := baseInput()
	in.BaseRef = ""
	in.Input = "changes.yaml"
	in.RepoPathStr = dir

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, mockClient, in))
	assert.False(t, cfg.HasRepo)
	assert.Equal(t, dir, cfg.RepoPath)
	assert.False(t, cfg.UsesGitRefs())
	assert.Empty(t, cfg.TargetRef, "target ref is only defaulted for git ranges")
	mockClient.AssertExpectations(t)
}

func TestProcessAndValidateServerMode(t *testing.T) {
	dir := t.TempDir()
	mockClient := new(MockGitClient)
	mockClient.On("GetRepoRoot", mock.Anything, dir).Return("", errors.New("not a git repository"))

	in := baseInput()
	in.BaseRef = ""
	in.ServerMode = true
	in.RepoPathStr = dir

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, mockClient, in))
	assert.False(t, cfg.HasRepo)
	assert.Empty(t, cfg.BaseRef)
	mockClient.AssertExpectations(t)
}

func TestProcessAndValidateDefaultsAndLists(t *testing.T) {
	mockClient := new(MockGitClient)
	mockClient.On("GetRepoRoot", mock.Anything, mock.Anything).Return("/repo", nil)

	in := baseInput()
	in.Exclude = "docs/, *.snap ,"
	in.AllowedOrigins = "http://localhost:3000, https://ci.example.com"
	in.CIURL = "https://jenkins.example.com/"
	in.CIProvider = "Jenkins"
	in.CITimeout = "5s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, mockClient, in))

	assert.Contains(t, cfg.Excludes, "docs/")
	assert.Contains(t, cfg.Excludes, "*.snap")
	assert.Contains(t, cfg.Excludes, ".min.js")
	assert.Equal(t, []string{"http://localhost:3000", "https://ci.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://jenkins.example.com", cfg.CIURL)
	assert.Equal(t, JenkinsProvider, cfg.CIProvider)
	assert.Equal(t, 5*time.Second, cfg.CITimeout)
	assert.Equal(t, DefaultServeAddr, cfg.ServeAddr)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
}

func TestProcessAndValidateDryRunOverridesProvider(t *testing.T) {
	mockClient := new(MockGitClient)
	mockClient.On("GetRepoRoot", mock.Anything, mock.Anything).Return("/repo", nil)

	in := baseInput()
	in.CIProvider = JenkinsProvider
	in.DryRun = true

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, mockClient, in))
	assert.Equal(t, DryRunProvider, cfg.CIProvider)
	assert.Equal(t, DefaultCITimeout, cfg.CITimeout)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite ignores connection", schema.SQLiteBackend, "", false},
		{"none ignores connection", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "u:p@tcp(localhost:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "u:p@localhost/db", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=testid", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSQLiteConflict(t *testing.T) {
	shared := filepath.Join(os.TempDir(), "testid.db")
	in := &ConfigRawInput{
		CacheBackend:      string(schema.SQLiteBackend),
		CacheDBConnect:    shared,
		AnalysisBackend:   string(schema.SQLiteBackend),
		AnalysisDBConnect: shared,
	}
	err := validateBackendConfigs(&Config{}, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	in.AnalysisDBConnect = filepath.Join(os.TempDir(), "analysis.db")
	assert.NoError(t, validateBackendConfigs(&Config{}, in))

	// Defaults resolve to distinct files
	assert.NoError(t, validateBackendConfigs(&Config{}, &ConfigRawInput{
		CacheBackend:    string(schema.SQLiteBackend),
		AnalysisBackend: string(schema.SQLiteBackend),
	}))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Excludes: []string{"a"}, AllowedOrigins: []string{"x"}}
	clone := cfg.Clone()
	clone.Excludes[0] = "b"
	clone.AllowedOrigins[0] = "y"
	assert.Equal(t, "a", cfg.Excludes[0])
	assert.Equal(t, "x", cfg.AllowedOrigins[0])
}
