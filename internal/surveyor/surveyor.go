// Package surveyor drives the extraction pipeline over single contract
// files and whole repository checkouts: parse, flatten, associate
// comments, suppress duplicates, code keywords, and attach provenance.
package surveyor

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/metagov/dao-governance-surfaces/internal/export"
	"github.com/metagov/dao-governance-surfaces/internal/keywords"
	"github.com/metagov/dao-governance-surfaces/internal/solparser"
	"github.com/metagov/dao-governance-surfaces/internal/surface"
	"github.com/metagov/dao-governance-surfaces/pkg/shared"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/files"
)

// Surveyor runs the extraction pipeline.
type Surveyor struct {
	parser solparser.Parser
	coding *keywords.Coding
	filter *Filter
	jobs   int
	logger hclog.Logger
}

// Result accumulates the rows of a survey run plus per-file failures.
// Failed files never abort a run; they are reported and skipped.
type Result struct {
	Objects    []export.ObjectRow
	Parameters []export.ParameterRow
	Files      int
	Failed     []string
}

// New builds a Surveyor from the application config.
func New(cfg *config.Config, parser solparser.Parser, coding *keywords.Coding, logger hclog.Logger) (*Surveyor, error) {
	filter, err := NewFilter(cfg.Survey)
	if err != nil {
		return nil, err
	}
	return &Surveyor{
		parser: parser,
		coding: coding,
		filter: filter,
		jobs:   config.SetThen(cfg.Survey.Jobs, 1),
		logger: logger,
	}, nil
}

// Build assembles a Surveyor from the application config: the external
// parser command (or pre-generated AST files) and the configured keyword
// coding scheme.
func Build(cfg *config.Config, logger hclog.Logger) (*Surveyor, error) {
	var parser solparser.Parser = solparser.NewExecParser(cfg.Parser.Command, cfg.Parser.Args, logger)
	if cfg.Parser.UseASTFiles {
		parser = solparser.FileParser{}
	}

	coding := keywords.DefaultCoding()
	if cfg.Keywords.ConfigPath != "" {
		loaded, err := keywords.Load(cfg.Keywords.ConfigPath)
		if err != nil {
			return nil, err
		}
		coding = loaded
	}
	return New(cfg, parser, coding, logger)
}

// WithFilter returns a copy of the Surveyor that selects files through f
// instead of the configured filter. The parser, coding and worker pool are
// shared with the receiver.
func (s *Surveyor) WithFilter(f *Filter) *Surveyor {
	scoped := *s
	scoped.filter = f
	return &scoped
}

// SurveyFile runs the pipeline over one contract file.
func (s *Surveyor) SurveyFile(ctx context.Context, path string, prov export.Provenance) (*Result, error) {
	lines, err := files.ReadSourceLines(path)
	if err != nil {
		return nil, err
	}

	unit, err := s.parser.Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	surf, err := surface.NewFlattener(nil, s.logger).Flatten(unit)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten %q: %w", path, err)
	}
	for _, mismatchErr := range surface.AssociateComments(lines, surf, s.logger) {
		s.logger.Warn("comment association mismatch", "path", path, "error", mismatchErr)
	}
	surface.SuppressDuplicateComments(surf)

	objects, parameters := s.rows(surf, prov)
	return &Result{Objects: objects, Parameters: parameters, Files: 1}, nil
}

// SurveyRepository walks a checkout, surveying every eligible `.sol` file
// with a bounded worker pool. provFor maps a file's slash-separated
// relative path to its provenance columns; nil means no provenance.
func (s *Surveyor) SurveyRepository(ctx context.Context, root string, provFor func(relPath string) export.Provenance) (*Result, error) {
	paths, err := s.collectFiles(root)
	if err != nil {
		return nil, err
	}
	s.logger.Info("surveying repository", "root", root, "files", len(paths), "jobs", s.jobs)

	perFile := make([]*Result, len(paths))
	var mu sync.Mutex
	failed := make(map[int]string)

	shared.ForEveryWithBoundedGoroutines(s.jobs, paths, func(i int, path string) {
		relPath, _ := filepath.Rel(root, path)
		relPath = filepath.ToSlash(relPath)

		var prov export.Provenance
		if provFor != nil {
			prov = provFor(relPath)
		}

		result, err := s.SurveyFile(ctx, path, prov)
		if err != nil {
			s.logger.Error("failed to survey file, skipping", "path", path, "error", err)
			mu.Lock()
			failed[i] = relPath
			mu.Unlock()
			return
		}
		perFile[i] = result
	})

	// Merge in walk order so output rows are deterministic regardless of
	// worker scheduling.
	total := &Result{Files: len(paths)}
	for i, result := range perFile {
		if result == nil {
			total.Failed = append(total.Failed, failed[i])
			continue
		}
		total.Objects = append(total.Objects, result.Objects...)
		total.Parameters = append(total.Parameters, result.Parameters...)
	}
	if len(total.Failed) > 0 {
		s.logger.Warn("some files could not be surveyed", "failed", len(total.Failed), "total", len(paths))
	}
	return total, nil
}

// collectFiles walks root and returns the eligible contract files in
// sorted order.
func (s *Surveyor) collectFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && s.filter.SkipDir(d.Name()) {
				s.logger.Debug("skipping directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		if s.filter.SkipFile(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// rows turns an extracted surface into export rows, running keyword coding
// over each object together with its parameters.
func (s *Surveyor) rows(surf *surface.Surface, prov export.Provenance) ([]export.ObjectRow, []export.ParameterRow) {
	objects := make([]export.ObjectRow, 0, len(surf.Objects))
	for _, obj := range surf.Objects {
		params := surf.ParametersOf(obj)
		categories := s.coding.CodeObject(obj, params)
		objects = append(objects, export.ObjectRow{
			ObjectRecord: obj,
			Categories:   categories,
			Topics:       s.coding.CodeTopics(obj, categories, params),
			Provenance:   prov,
		})
	}

	parameters := make([]export.ParameterRow, 0, len(surf.Parameters))
	for _, p := range surf.Parameters {
		parameters = append(parameters, export.ParameterRow{
			ParameterRecord: p,
			Provenance:      prov,
		})
	}
	return objects, parameters
}
