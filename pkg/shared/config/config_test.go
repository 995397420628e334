package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `logger:
  level: debug
git_client:
  depth: 5
  timeout: 2m
github:
  token: secret
parser:
  command: solidity-parse
  use_ast_files: true
survey:
  jobs: 4
  exclude_dirs: ["vendor"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 5, cfg.GitClient.Depth)
	assert.Equal(t, 2*time.Minute, cfg.GitClient.Timeout)
	assert.Equal(t, "secret", cfg.GitHub.Token)
	assert.Equal(t, "solidity-parse", cfg.Parser.Command)
	assert.True(t, cfg.Parser.UseASTFiles)
	assert.Equal(t, 4, cfg.Survey.Jobs)
	assert.Equal(t, []string{"vendor"}, cfg.Survey.ExcludeDirs)
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(&Config{}))
	assert.Error(t, ValidateConfig(nil))

	bad := &Config{}
	bad.HTTPClient.RetryCount = 21
	assert.Error(t, ValidateConfig(bad))

	bad = &Config{}
	bad.GitClient.Depth = -1
	assert.Error(t, ValidateConfig(bad))

	bad = &Config{}
	bad.Survey.Jobs = -1
	assert.Error(t, ValidateConfig(bad))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, 5, SetThen(0, 5))
	assert.Equal(t, 3, SetThen(3, 5))
	assert.Equal(t, "fallback", SetThen("", "fallback"))
	assert.Equal(t, time.Minute, SetThen(time.Duration(0), time.Minute))
}

func TestGetHome(t *testing.T) {
	cfg := &Config{}
	cfg.Dgs.HomeFolder = "/opt/dgs"
	assert.Equal(t, "/opt/dgs", GetHome(cfg))

	t.Setenv("DGS_HOME", "/var/dgs")
	assert.Equal(t, "/var/dgs", GetHome(&Config{}))

	t.Setenv("DGS_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".dgs"), GetHome(&Config{}))
}

func TestDerivedFolders(t *testing.T) {
	cfg := &Config{}
	cfg.Dgs.HomeFolder = "/opt/dgs"

	assert.Equal(t, filepath.Join("/opt/dgs", "projects"), GetProjectsFolder(cfg))
	assert.Equal(t, filepath.Join("/opt/dgs", "results"), GetResultsFolder(cfg))
	assert.Equal(t, filepath.Join("/opt/dgs", "tmp"), GetTempFolder(cfg))

	cfg.Dgs.ResultsFolder = "/data/out"
	assert.Equal(t, "/data/out", GetResultsFolder(cfg))
}
