package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metagov/dao-governance-surfaces/cmd/fetch"
	"github.com/metagov/dao-governance-surfaces/cmd/parse"
	"github.com/metagov/dao-governance-surfaces/cmd/run"
	"github.com/metagov/dao-governance-surfaces/cmd/version"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "dgs [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Dgs extracts governance surfaces from smart contract repositories.",
		Long: `Dgs surveys Solidity repositories and extracts their governance surface:
	a table of declared objects (contracts, functions, events, modifiers, structs,
	enums) and a table of their parameters, each annotated with the documentation
	comment written above it in the source and coded against a keyword scheme.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(fetch.FetchCmd)
	rootCmd.AddCommand(parse.ParseCmd)
	rootCmd.AddCommand(run.RunCmd)
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("failed to initialize config - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	version.Init(AppConfig)
	fetch.Init(AppConfig)
	parse.Init(AppConfig)
	run.Init(AppConfig)
}
