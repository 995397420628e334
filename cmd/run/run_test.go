package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/metagov/dao-governance-surfaces/internal/surveyor"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
)

func TestTargetListUnmarshal(t *testing.T) {
	input := `targets:
  - https://github.com/aragon/aragonOS
  - url: https://github.com/compound-finance/compound-protocol/tree/v2.8.1
    subdir: contracts
    label: compound
    exclude_dirs: [scenarios]
  - url: https://github.com/gnosis/safe-contracts
    include_files: [GnosisSafe.sol]
`

	var targets TargetList
	require.NoError(t, yaml.Unmarshal([]byte(input), &targets))
	require.Len(t, targets.Targets, 3)

	bare := targets.Targets[0]
	assert.Equal(t, "https://github.com/aragon/aragonOS", bare.URL)
	assert.Empty(t, bare.Subdir)
	assert.Empty(t, bare.Label)

	full := targets.Targets[1]
	assert.Equal(t, "https://github.com/compound-finance/compound-protocol/tree/v2.8.1", full.URL)
	assert.Equal(t, "contracts", full.Subdir)
	assert.Equal(t, "compound", full.Label)
	assert.Equal(t, []string{"scenarios"}, full.ExcludeDirs)

	assert.Equal(t, []string{"GnosisSafe.sol"}, targets.Targets[2].IncludeFiles)

	for i := range targets.Targets {
		assert.NoError(t, targets.Targets[i].validate())
	}
}

func TestTargetValidate(t *testing.T) {
	testCases := []struct {
		name    string
		target  Target
		wantErr bool
	}{
		{name: "url only", target: Target{URL: "https://github.com/aragon/aragonOS"}},
		{name: "missing url", target: Target{Label: "aragon"}, wantErr: true},
		{
			name:    "both dir lists",
			target:  Target{URL: "u", IncludeDirs: []string{"a"}, ExcludeDirs: []string{"b"}},
			wantErr: true,
		},
		{
			name:    "both file lists",
			target:  Target{URL: "u", IncludeFiles: []string{"A.sol"}, ExcludeFiles: []string{"B.sol"}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.target.validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTargetSurveyConfig(t *testing.T) {
	base := config.Survey{Jobs: 4}

	t.Run("no overrides keeps the base", func(t *testing.T) {
		target := Target{URL: "u"}
		assert.Equal(t, base, target.surveyConfig(base))
	})

	t.Run("exclude lists extend the defaults", func(t *testing.T) {
		target := Target{URL: "u", ExcludeDirs: []string{"mocks"}, ExcludeFiles: []string{"Imports.sol"}}
		cfg := target.surveyConfig(base)
		assert.Equal(t, append([]string{"mocks"}, surveyor.DefaultExcludeDirs...), cfg.ExcludeDirs)
		assert.Equal(t, append([]string{"Imports.sol"}, surveyor.DefaultExcludeFiles...), cfg.ExcludeFiles)
		assert.Equal(t, 4, cfg.Jobs)
	})

	t.Run("exclude lists extend configured excludes", func(t *testing.T) {
		configured := config.Survey{ExcludeDirs: []string{"vendor"}}
		target := Target{URL: "u", ExcludeDirs: []string{"mocks"}}
		cfg := target.surveyConfig(configured)
		assert.Equal(t, []string{"mocks", "vendor"}, cfg.ExcludeDirs)
	})

	t.Run("include lists take over their axis", func(t *testing.T) {
		configured := config.Survey{
			ExcludeDirs:         []string{"vendor"},
			ExcludeFiles:        []string{"Imports.sol"},
			IncludeFilePatterns: []string{`Gov.*\.sol`},
		}
		target := Target{URL: "u", IncludeDirs: []string{"contracts"}, IncludeFiles: []string{"SafeMath.sol"}}
		cfg := target.surveyConfig(configured)
		assert.Equal(t, []string{"contracts"}, cfg.IncludeDirs)
		assert.Empty(t, cfg.ExcludeDirs)
		assert.Equal(t, []string{"SafeMath.sol"}, cfg.IncludeFiles)
		assert.Empty(t, cfg.IncludeFilePatterns)
		assert.Empty(t, cfg.ExcludeFiles)
		assert.Empty(t, cfg.ExcludeFilePatterns)
	})
}
