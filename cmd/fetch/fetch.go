package fetch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/metagov/dao-governance-surfaces/internal/git"
	"github.com/metagov/dao-governance-surfaces/internal/repometa"
	"github.com/metagov/dao-governance-surfaces/pkg/shared"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/files"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/logger"
)

// RunOptionsFetch holds the arguments for the fetch command.
type RunOptionsFetch struct {
	AuthType string
	SSHKey   string
	Ref      string
}

var (
	AppConfig         *config.Config
	fetchOptions      RunOptionsFetch
	exampleFetchUsage = `  # Fetching the default branch of a repository anonymously
  dgs fetch https://github.com/aragon/aragonOS

  # Fetching the ref embedded in the URL
  dgs fetch https://github.com/aragon/aragonOS/tree/v4.4.0

  # Fetching a specific branch using SSH agent authentication
  dgs fetch --auth-type ssh-agent -b develop https://github.com/aragon/aragonOS

  # Fetching using SSH key authentication
  dgs fetch --auth-type ssh-key --ssh-key ~/.ssh/id_ed25519 https://github.com/aragon/aragonOS`
)

var FetchCmd = &cobra.Command{
	Use:                   "fetch [--auth-type/-a AUTH_TYPE] [--ssh-key/-k PATH] [-b BRANCH/HASH] URL",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleFetchUsage,
	Short:                 "Fetches a smart contract repository for surveying",
	RunE:                  runFetchCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runFetchCommand executes the fetch command.
func runFetchCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-fetch")

	if err := validateFetchArgs(&fetchOptions, args); err != nil {
		logger.Error("invalid fetch arguments", "error", err)
		return err
	}

	ctx := context.Background()
	resolver := repometa.NewResolver(AppConfig, logger)
	meta, err := resolver.Resolve(ctx, args[0])
	if err != nil {
		logger.Error("failed to resolve repository metadata", "error", err)
		return err
	}

	targetFolder, err := FetchRepository(AppConfig, logger, meta, &fetchOptions)
	if err != nil {
		logger.Error("fetch command failed", "error", err)
		return err
	}

	logger.Info("fetch command completed successfully", "targetFolder", targetFolder)
	return nil
}

// FetchRepository clones the repository described by meta into the
// projects folder and returns the checkout path. The run command reuses it
// for batch fetching.
func FetchRepository(cfg *config.Config, log hclog.Logger, meta *repometa.Metadata, opts *RunOptionsFetch) (string, error) {
	targetFolder := filepath.Join(config.GetProjectsFolder(cfg), meta.Owner, meta.Name)
	if err := files.CreateFolderIfNotExists(filepath.Dir(targetFolder)); err != nil {
		return "", err
	}

	req := &git.CloneRequest{
		CloneURL:     cloneURL(meta, opts.AuthType),
		Ref:          config.SetThen(opts.Ref, meta.Branch()),
		AuthType:     opts.AuthType,
		SSHKey:       opts.SSHKey,
		TargetFolder: targetFolder,
	}

	client, err := git.New(log, cfg, req)
	if err != nil {
		return "", err
	}
	return client.CloneRepository(req)
}

// cloneURL picks the transport matching the authentication type.
func cloneURL(meta *repometa.Metadata, authType string) string {
	switch authType {
	case "ssh-key", "ssh-agent":
		return fmt.Sprintf("git@github.com:%s/%s.git", meta.Owner, meta.Name)
	default:
		return meta.CloneURL
	}
}

func init() {
	FetchCmd.Flags().StringVarP(&fetchOptions.AuthType, "auth-type", "a", "", "Type of authentication (http, ssh-agent, ssh-key). Empty means anonymous.")
	FetchCmd.Flags().StringVarP(&fetchOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	FetchCmd.Flags().StringVarP(&fetchOptions.Ref, "branch", "b", "", "Specific branch, tag or commit hash to fetch (default: ref from the URL, then the default branch).")
	FetchCmd.Flags().BoolP("help", "h", false, "Show help for the fetch command.")
}
