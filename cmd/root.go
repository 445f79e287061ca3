package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/sariflint/cmd/rules"
	"github.com/scan-io-git/sariflint/cmd/validate"
	"github.com/scan-io-git/sariflint/cmd/version"
	"github.com/scan-io-git/sariflint/internal/config"
	ruleset "github.com/scan-io-git/sariflint/internal/rules"
	cmderrors "github.com/scan-io-git/sariflint/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	Registry  = ruleset.Builtin()
	rootCmd   = &cobra.Command{
		Use:                   "sariflint [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Sariflint checks SARIF logs for defects a schema cannot catch.",
		Long: `Sariflint validates SARIF 2.1.0 logs with a set of rules covering
	inconsistent indexes, unresolvable references, malformed URIs and the properties
	consumers such as GitHub code scanning rely on.
	`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("Path to the sariflint config file (default $%s, then ./%s).", config.EnvConfigPath, config.DefaultConfigFile))
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cmderrors.NewCommandError(err, cmderrors.ExitUsageError)
	})
	rootCmd.AddCommand(validate.ValidateCmd)
	rootCmd.AddCommand(rules.RulesCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return cmderrors.ExitOK
	}
	var cmdErr *cmderrors.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
	}
	return cmderrors.ExitCode(err)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cmderrors.NewCommandError(fmt.Errorf("initializing config file function is crashed - %w", err), cmderrors.ExitUsageError)
	}
	if err := config.ValidateConfig(cfg, Registry.IDs()); err != nil {
		return cmderrors.NewCommandError(err, cmderrors.ExitUsageError)
	}

	AppConfig = cfg
	validate.Init(AppConfig, Registry)
	rules.Init(AppConfig, Registry)
	version.Init(AppConfig)
	return nil
}
