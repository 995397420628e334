package surveyor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
)

const solSuffix = ".sol"

// Default filters skip the parts of a repository that carry no governance
// surface of their own: vendored libraries, tests, examples and migration
// scaffolding, plus well-known utility and standard-interface contracts.
var (
	DefaultExcludeDirs = []string{
		"lib", "libs", "libraries",
		"test", "tests", "test-helpers", "testHelpers",
		"example", "examples",
		"migration",
	}

	DefaultExcludeFiles = []string{
		"SafeMath.sol", "lib.sol", "Migrations.sol",
	}

	DefaultExcludeFilePatterns = []string{
		`I?ERC\d+\.sol`,
		`I?EIP\d+\.sol`,
		`.*\.t\.sol`,
	}
)

// Filter decides which directories and files of a repository walk are
// surveyed. Include lists are allow-lists: when one is given it takes over
// selection on its axis and the exclude lists (and, for files, the `.sol`
// suffix requirement) are not consulted.
type Filter struct {
	includeDirs  map[string]struct{}
	dirs         map[string]struct{}
	includeFiles map[string]struct{}
	files        map[string]struct{}
	patterns     []*regexp.Regexp
	includes     []*regexp.Regexp
}

// NewFilter builds a Filter from the survey config, falling back to the
// defaults for any exclude list left empty. Patterns are anchored to the
// whole file name.
func NewFilter(cfg config.Survey) (*Filter, error) {
	dirs := cfg.ExcludeDirs
	if len(dirs) == 0 {
		dirs = DefaultExcludeDirs
	}
	fileNames := cfg.ExcludeFiles
	if len(fileNames) == 0 {
		fileNames = DefaultExcludeFiles
	}
	rawPatterns := cfg.ExcludeFilePatterns
	if len(rawPatterns) == 0 {
		rawPatterns = DefaultExcludeFilePatterns
	}

	f := &Filter{
		includeDirs:  make(map[string]struct{}, len(cfg.IncludeDirs)),
		dirs:         make(map[string]struct{}, len(dirs)),
		includeFiles: make(map[string]struct{}, len(cfg.IncludeFiles)),
		files:        make(map[string]struct{}, len(fileNames)),
	}
	for _, d := range cfg.IncludeDirs {
		f.includeDirs[d] = struct{}{}
	}
	for _, d := range dirs {
		f.dirs[d] = struct{}{}
	}
	for _, name := range cfg.IncludeFiles {
		f.includeFiles[name] = struct{}{}
	}
	for _, name := range fileNames {
		f.files[name] = struct{}{}
	}
	for _, p := range rawPatterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	for _, p := range cfg.IncludeFilePatterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.includes = append(f.includes, re)
	}
	return f, nil
}

// SkipDir reports whether a directory should be pruned from the walk.
// Hidden directories are always pruned. The include allow-list applies at
// every level of the walk, so nested directories must be listed too.
func (f *Filter) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if len(f.includeDirs) > 0 {
		_, found := f.includeDirs[name]
		return !found
	}
	_, found := f.dirs[name]
	return found
}

// SkipFile reports whether a file should be excluded by name. Outside of
// include mode only `.sol` files are eligible.
func (f *Filter) SkipFile(name string) bool {
	if len(f.includeFiles) > 0 || len(f.includes) > 0 {
		if _, found := f.includeFiles[name]; found {
			return false
		}
		for _, re := range f.includes {
			if re.MatchString(name) {
				return false
			}
		}
		return true
	}
	if !strings.HasSuffix(name, solSuffix) {
		return true
	}
	if _, found := f.files[name]; found {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
