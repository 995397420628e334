package run

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/metagov/dao-governance-surfaces/cmd/fetch"
	"github.com/metagov/dao-governance-surfaces/internal/export"
	"github.com/metagov/dao-governance-surfaces/internal/repometa"
	"github.com/metagov/dao-governance-surfaces/internal/surveyor"
	"github.com/metagov/dao-governance-surfaces/pkg/shared"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/files"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/logger"
)

// RunOptionsRun holds the arguments for the run command.
type RunOptionsRun struct {
	InputFile string
	Output    string
	AuthType  string
	SSHKey    string
	Jobs      int
}

// Target is one entry of a batch run: a repository URL, optionally scoped
// to a subdirectory and labelled, with per-target file and directory
// filters. A plain string entry is shorthand for a target with only a URL.
type Target struct {
	URL          string   `yaml:"url"`
	Subdir       string   `yaml:"subdir"`
	Label        string   `yaml:"label"`
	IncludeDirs  []string `yaml:"include_dirs"`
	ExcludeDirs  []string `yaml:"exclude_dirs"`
	IncludeFiles []string `yaml:"include_files"`
	ExcludeFiles []string `yaml:"exclude_files"`
}

// UnmarshalYAML accepts either a bare URL string or a full target mapping.
func (t *Target) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var url string
	if err := unmarshal(&url); err == nil {
		t.URL = url
		return nil
	}

	type plain Target
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*t = Target(p)
	return nil
}

func (t *Target) validate() error {
	if t.URL == "" {
		return fmt.Errorf("target entry is missing a url")
	}
	if len(t.IncludeDirs) > 0 && len(t.ExcludeDirs) > 0 {
		return fmt.Errorf("target %q: specify either include_dirs or exclude_dirs, not both", t.URL)
	}
	if len(t.IncludeFiles) > 0 && len(t.ExcludeFiles) > 0 {
		return fmt.Errorf("target %q: specify either include_files or exclude_files, not both", t.URL)
	}
	return nil
}

// surveyConfig overlays the target's filters onto the base survey config.
// Include lists replace the base selection on their axis; exclude lists
// extend the effective exclude lists.
func (t *Target) surveyConfig(base config.Survey) config.Survey {
	cfg := base
	switch {
	case len(t.IncludeDirs) > 0:
		cfg.IncludeDirs = t.IncludeDirs
		cfg.ExcludeDirs = nil
	case len(t.ExcludeDirs) > 0:
		effective := base.ExcludeDirs
		if len(effective) == 0 {
			effective = surveyor.DefaultExcludeDirs
		}
		cfg.ExcludeDirs = append(append([]string{}, t.ExcludeDirs...), effective...)
	}
	switch {
	case len(t.IncludeFiles) > 0:
		cfg.IncludeFiles = t.IncludeFiles
		cfg.IncludeFilePatterns = nil
		cfg.ExcludeFiles = nil
		cfg.ExcludeFilePatterns = nil
	case len(t.ExcludeFiles) > 0:
		effective := base.ExcludeFiles
		if len(effective) == 0 {
			effective = surveyor.DefaultExcludeFiles
		}
		cfg.ExcludeFiles = append(append([]string{}, t.ExcludeFiles...), effective...)
	}
	return cfg
}

// TargetList is the YAML input of a batch run.
type TargetList struct {
	Targets []Target `yaml:"targets"`
}

var (
	AppConfig       *config.Config
	runOptions      RunOptionsRun
	exampleRunUsage = `  # Surveying every repository listed in a targets file
  dgs run -i targets.yml

  # Surveying with four workers per repository and SSH agent authentication
  dgs run -i targets.yml -j 4 --auth-type ssh-agent`
)

var RunCmd = &cobra.Command{
	Use:                   "run --input-file/-i PATH [--output/-o DIR] [--auth-type/-a AUTH_TYPE] [--ssh-key/-k PATH] [-j JOBS]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleRunUsage,
	Short:                 "Fetches and surveys a batch of repositories into combined CSV tables",
	RunE:                  runRunCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runRunCommand executes the run command.
func runRunCommand(cmd *cobra.Command, args []string) error {
	if !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-run")

	if runOptions.InputFile == "" {
		return fmt.Errorf("run requires --input-file")
	}

	var targets TargetList
	if err := config.LoadYAML(runOptions.InputFile, &targets); err != nil {
		logger.Error("failed to load targets file", "path", runOptions.InputFile, "error", err)
		return err
	}
	if len(targets.Targets) == 0 {
		return fmt.Errorf("targets file %q lists no repositories", runOptions.InputFile)
	}
	for i := range targets.Targets {
		if err := targets.Targets[i].validate(); err != nil {
			return fmt.Errorf("invalid targets file %q: %w", runOptions.InputFile, err)
		}
	}

	if runOptions.Jobs > 0 {
		AppConfig.Survey.Jobs = runOptions.Jobs
	}

	s, err := surveyor.Build(AppConfig, logger)
	if err != nil {
		logger.Error("failed to build surveyor", "error", err)
		return err
	}

	jobID := uuid.New().String()
	logger.Info("starting batch run", "jobID", jobID, "targets", len(targets.Targets))

	ctx := context.Background()
	resolver := repometa.NewResolver(AppConfig, logger)

	var objects []export.ObjectRow
	var parameters []export.ParameterRow
	var failed []string

	for i := range targets.Targets {
		target := &targets.Targets[i]
		targetObjects, targetParameters, err := surveyTarget(ctx, s, resolver, logger, target)
		if err != nil {
			logger.Error("failed to survey target, skipping", "target", target.URL, "error", err)
			failed = append(failed, target.URL)
			continue
		}
		objects = append(objects, targetObjects...)
		parameters = append(parameters, targetParameters...)
	}

	outputFolder := runOptions.Output
	if outputFolder == "" {
		outputFolder = filepath.Join(config.GetResultsFolder(AppConfig), jobID)
	}
	if err := files.CreateFolderIfNotExists(outputFolder); err != nil {
		return err
	}

	objectsPath := filepath.Join(outputFolder, "objects.csv")
	parametersPath := filepath.Join(outputFolder, "parameters.csv")
	if err := export.WriteObjectsCSV(objectsPath, objects); err != nil {
		return err
	}
	if err := export.WriteParametersCSV(parametersPath, parameters); err != nil {
		return err
	}

	logger.Info("batch run completed", "jobID", jobID,
		"objects", len(objects), "parameters", len(parameters),
		"targets", len(targets.Targets), "failed", len(failed))
	fmt.Println(objectsPath)
	fmt.Println(parametersPath)

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d targets failed", len(failed), len(targets.Targets))
	}
	return nil
}

// surveyTarget fetches one repository and surveys its checkout, scoped to
// the target's subdirectory and filters, attaching full provenance to
// every row.
func surveyTarget(ctx context.Context, s *surveyor.Surveyor, resolver *repometa.Resolver, log hclog.Logger, target *Target) ([]export.ObjectRow, []export.ParameterRow, error) {
	meta, err := resolver.Resolve(ctx, target.URL)
	if err != nil {
		return nil, nil, err
	}

	fetchOptions := &fetch.RunOptionsFetch{
		AuthType: runOptions.AuthType,
		SSHKey:   runOptions.SSHKey,
	}
	checkout, err := fetch.FetchRepository(AppConfig, log, meta, fetchOptions)
	if err != nil {
		return nil, nil, err
	}

	root := checkout
	if target.Subdir != "" {
		root = filepath.Join(checkout, filepath.FromSlash(target.Subdir))
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return nil, nil, fmt.Errorf("subdir %q does not exist in %q", target.Subdir, target.URL)
		}
	}

	filter, err := surveyor.NewFilter(target.surveyConfig(AppConfig.Survey))
	if err != nil {
		return nil, nil, fmt.Errorf("target %q: %w", target.URL, err)
	}

	prov := export.Provenance{
		Project:       meta.Project(),
		RepoVersion:   meta.Branch(),
		RepoURL:       meta.URL,
		RepoUpdatedAt: meta.UpdatedAt,
	}
	if target.Label != "" {
		prov.Project = target.Label
	}
	result, err := s.WithFilter(filter).SurveyRepository(ctx, root, func(relPath string) export.Provenance {
		p := prov
		p.FileURL = meta.FileURL(path.Join(target.Subdir, relPath))
		return p
	})
	if err != nil {
		return nil, nil, err
	}
	return result.Objects, result.Parameters, nil
}

func init() {
	RunCmd.Flags().StringVarP(&runOptions.InputFile, "input-file", "i", "", "Path to a YAML file listing repository targets to survey.")
	RunCmd.Flags().StringVarP(&runOptions.Output, "output", "o", "", "Output folder for the combined CSV tables (default: a per-run folder under results).")
	RunCmd.Flags().StringVarP(&runOptions.AuthType, "auth-type", "a", "", "Type of authentication (http, ssh-agent, ssh-key). Empty means anonymous.")
	RunCmd.Flags().StringVarP(&runOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	RunCmd.Flags().IntVarP(&runOptions.Jobs, "jobs", "j", 0, "Number of concurrent workers per repository survey.")
	RunCmd.Flags().BoolP("help", "h", false, "Show help for the run command.")
}
