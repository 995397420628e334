package parse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/metagov/dao-governance-surfaces/internal/export"
	"github.com/metagov/dao-governance-surfaces/internal/repometa"
	"github.com/metagov/dao-governance-surfaces/internal/surveyor"
	"github.com/metagov/dao-governance-surfaces/pkg/shared"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/files"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/logger"
)

// RunOptionsParse holds the arguments for the parse command.
type RunOptionsParse struct {
	Output  string
	Project string
	RepoURL string
	Jobs    int
}

var (
	AppConfig         *config.Config
	parseOptions      RunOptionsParse
	exampleParseUsage = `  # Parsing a single local contract file
  dgs parse ./contracts/Voting.sol

  # Parsing a fetched repository checkout with four workers
  dgs parse -j 4 ~/.dgs/projects/aragon/aragonOS

  # Parsing a checkout with provenance columns tied to the source repository
  dgs parse --repo-url https://github.com/aragon/aragonOS/tree/v4.4.0 ~/.dgs/projects/aragon/aragonOS

  # Parsing a single contract file straight from a GitHub URL
  dgs parse https://github.com/aragon/aragonOS/blob/master/contracts/acl/ACL.sol`
)

var ParseCmd = &cobra.Command{
	Use:                   "parse [--output/-o DIR] [--project NAME] [--repo-url URL] [-j JOBS] {PATH | DIR | URL}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleParseUsage,
	Short:                 "Extracts the governance surface of a contract file or repository into CSV tables",
	RunE:                  runParseCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runParseCommand executes the parse command.
func runParseCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-parse")

	if err := validateParseArgs(&parseOptions, args); err != nil {
		logger.Error("invalid parse arguments", "error", err)
		return err
	}

	if parseOptions.Jobs > 0 {
		AppConfig.Survey.Jobs = parseOptions.Jobs
	}

	s, err := surveyor.Build(AppConfig, logger)
	if err != nil {
		logger.Error("failed to build surveyor", "error", err)
		return err
	}

	ctx := context.Background()
	target := args[0]

	result, label, err := survey(ctx, s, logger, target)
	if err != nil {
		logger.Error("parse command failed", "error", err)
		return err
	}
	if parseOptions.Project != "" {
		label = parseOptions.Project
	}

	objectsPath, parametersPath, err := writeTables(result, label)
	if err != nil {
		logger.Error("failed to write output tables", "error", err)
		return err
	}

	logger.Info("parse command completed successfully",
		"objects", len(result.Objects), "parameters", len(result.Parameters),
		"files", result.Files, "failed", len(result.Failed))
	fmt.Println(objectsPath)
	fmt.Println(parametersPath)
	return nil
}

// survey dispatches on the kind of target: remote file URL, local
// directory, or local file.
func survey(ctx context.Context, s *surveyor.Surveyor, log hclog.Logger, target string) (*surveyor.Result, string, error) {
	if isURL(target) {
		path, err := downloadContract(AppConfig, log, target)
		if err != nil {
			return nil, "", err
		}
		prov := export.Provenance{FileURL: target, Project: parseOptions.Project}
		result, err := s.SurveyFile(ctx, path, prov)
		return result, baseLabel(path), err
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, "", fmt.Errorf("cannot stat target %q: %w", target, err)
	}

	if info.IsDir() {
		provFor, label, err := repositoryProvenance(ctx, log, target)
		if err != nil {
			return nil, "", err
		}
		result, err := s.SurveyRepository(ctx, target, provFor)
		return result, label, err
	}

	result, err := s.SurveyFile(ctx, target, export.Provenance{Project: parseOptions.Project})
	return result, baseLabel(target), err
}

// repositoryProvenance builds the per-file provenance function for a
// checkout. Without --repo-url the rows carry only the project label.
func repositoryProvenance(ctx context.Context, log hclog.Logger, root string) (func(string) export.Provenance, string, error) {
	label := filepath.Base(filepath.Clean(root))

	if parseOptions.RepoURL == "" {
		prov := export.Provenance{Project: parseOptions.Project}
		return func(string) export.Provenance { return prov }, label, nil
	}

	resolver := repometa.NewResolver(AppConfig, log)
	meta, err := resolver.Resolve(ctx, parseOptions.RepoURL)
	if err != nil {
		return nil, "", err
	}
	prov := export.Provenance{
		Project:       meta.Project(),
		RepoVersion:   meta.Branch(),
		RepoURL:       meta.URL,
		RepoUpdatedAt: meta.UpdatedAt,
	}
	return func(relPath string) export.Provenance {
		p := prov
		p.FileURL = meta.FileURL(relPath)
		return p
	}, meta.Name, nil
}

// writeTables writes the objects and parameters CSV files into the output
// folder.
func writeTables(result *surveyor.Result, label string) (string, string, error) {
	outputFolder := parseOptions.Output
	if outputFolder == "" {
		outputFolder = config.GetResultsFolder(AppConfig)
	}
	if err := files.CreateFolderIfNotExists(outputFolder); err != nil {
		return "", "", err
	}

	objectsPath := filepath.Join(outputFolder, label+"_objects.csv")
	parametersPath := filepath.Join(outputFolder, label+"_parameters.csv")

	if err := export.WriteObjectsCSV(objectsPath, result.Objects); err != nil {
		return "", "", err
	}
	if err := export.WriteParametersCSV(parametersPath, result.Parameters); err != nil {
		return "", "", err
	}
	return objectsPath, parametersPath, nil
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func baseLabel(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func init() {
	ParseCmd.Flags().StringVarP(&parseOptions.Output, "output", "o", "", "Output folder for the CSV tables (default: the results folder).")
	ParseCmd.Flags().StringVar(&parseOptions.Project, "project", "", "Project label recorded in the output rows.")
	ParseCmd.Flags().StringVar(&parseOptions.RepoURL, "repo-url", "", "Repository URL used to resolve provenance columns for a checkout.")
	ParseCmd.Flags().IntVarP(&parseOptions.Jobs, "jobs", "j", 0, "Number of concurrent workers for repository surveys.")
	ParseCmd.Flags().BoolP("help", "h", false, "Show help for the parse command.")
}
