package validate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/sariflint/cmd/version"
	"github.com/scan-io-git/sariflint/internal/config"
	"github.com/scan-io-git/sariflint/internal/driver"
	"github.com/scan-io-git/sariflint/internal/logger"
	"github.com/scan-io-git/sariflint/internal/output"
	ruleset "github.com/scan-io-git/sariflint/internal/rules"
	"github.com/scan-io-git/sariflint/internal/validation"
	"github.com/scan-io-git/sariflint/pkg/shared"
	cmderrors "github.com/scan-io-git/sariflint/pkg/shared/errors"
	"github.com/scan-io-git/sariflint/pkg/shared/files"
)

// DefaultOutputName is the file written when --output names a directory.
const DefaultOutputName = "sariflint.sarif"

// RunOptionsValidate holds the arguments for the validate command.
type RunOptionsValidate struct {
	OutputPath string
	Threads    int
	Enable     []string
	Disable    []string
	FailLevel  string
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	Registry             *ruleset.Registry
	validateOptions      RunOptionsValidate
	exampleValidateUsage = `  # Validating a single SARIF log
  sariflint validate results.sarif

  # Validating every *.sarif and *.sarif.json file under a directory with 8 concurrent threads
  sariflint validate -j 8 /path/to/reports

  # Enabling the GitHub code scanning rules and failing on warnings
  sariflint validate --enable GH1006 --enable SARIF2020 --fail-level warning results.sarif

  # Writing the validation results as a SARIF log
  sariflint validate --output /path/to/validation.sarif results.sarif`
)

// ValidateCmd represents the validate command.
var ValidateCmd = &cobra.Command{
	Use:                   "validate [--output/-o PATH] [-j THREADS_NUMBER, default=4] [--enable RULE_ID]... [--disable RULE_ID]... [--fail-level LEVEL] PATH...",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleValidateUsage,
	Short:                 "Validates SARIF logs against the enabled rules",
	RunE:                  runValidateCommand,
}

// Init initializes the global configuration variable and the rule registry.
func Init(cfg *config.Config, registry *ruleset.Registry) {
	AppConfig = cfg
	Registry = registry
}

// runValidateCommand executes the validate command.
func runValidateCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	cfg := AppConfig
	if cfg == nil {
		cfg = config.Default()
	}
	registry := Registry
	if registry == nil {
		registry = ruleset.Builtin()
	}
	if err := checkThreadsFlag(cmd.Flags(), validateOptions.Threads); err != nil {
		return cmderrors.NewCommandError(err, cmderrors.ExitUsageError)
	}
	if !cmd.Flags().Changed("threads") {
		validateOptions.Threads = 0
	}

	return runValidation(cmd.Context(), cfg, registry, validateOptions, args, cmd.OutOrStdout())
}

// runValidation validates targets and maps the outcome to an exit code: 1 when
// a rule failed or a result reached the fail level, 2 for invalid arguments or
// documents that could not be validated.
func runValidation(ctx context.Context, cfg *config.Config, registry *ruleset.Registry, options RunOptionsValidate, targets []string, stdout io.Writer) error {
	log := logger.NewLogger(cfg, "core-validate")

	effective, failLevel, err := validateValidateArgs(cfg, registry, &options, targets)
	if err != nil {
		log.Error("invalid validate arguments", "error", err)
		return cmderrors.NewCommandError(err, cmderrors.ExitUsageError)
	}

	paths, err := files.ExpandTargets(targets)
	if err != nil {
		log.Error("failed to prepare validation targets", "error", err)
		return cmderrors.NewCommandError(err, cmderrors.ExitUsageError)
	}
	if len(paths) == 0 {
		return cmderrors.NewCommandError(errors.New("no SARIF files found in the given paths"), cmderrors.ExitUsageError)
	}

	console := output.NewConsoleSink(logger.NewLoggerWithOutput(effective, "sariflint", stdout))
	var sarifSink *output.SarifSink
	sinks := []validation.Sink{console}
	if options.OutputPath != "" {
		sarifSink, err = output.NewSarifSink(version.CoreVersion, registry.Instantiate())
		if err != nil {
			return err
		}
		sinks = append(sinks, sarifSink)
	}

	d := driver.New(registry, effective, output.NewMultiSink(sinks...), log)
	summary, validateErr := d.ValidateFiles(ctx, paths)

	if sarifSink != nil {
		if err := writeSarif(sarifSink, options.OutputPath, log); err != nil {
			return err
		}
	}
	printSummary(stdout, summary)

	switch {
	case summary.Malformed > 0 || summary.Unreadable > 0:
		return cmderrors.NewCommandError(validateErr, cmderrors.ExitUsageError)
	case validateErr != nil:
		return cmderrors.NewCommandError(validateErr, cmderrors.ExitFailed)
	case summary.Failed(failLevel):
		log.Debug("validation failed", "fail_level", failLevel.String())
		return cmderrors.NewCommandError(nil, cmderrors.ExitFailed)
	}
	return nil
}

func writeSarif(sink *output.SarifSink, outputPath string, log hclog.Logger) error {
	path, folder, err := files.DetermineFileFullPath(outputPath, DefaultOutputName)
	if err != nil {
		return err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return err
	}
	if err := sink.WriteFile(path); err != nil {
		log.Error("failed to write result", "error", err)
		return err
	}
	log.Info("results saved to file", "path", path)
	return nil
}

func printSummary(w io.Writer, s driver.Summary) {
	fmt.Fprintf(w, "%d file(s) validated: %d error(s), %d warning(s), %d note(s)",
		s.Files,
		s.Count(validation.LevelError),
		s.Count(validation.LevelWarning),
		s.Count(validation.LevelNote))
	if s.Faults > 0 {
		fmt.Fprintf(w, ", %d rule failure(s)", s.Faults)
	}
	if n := s.Malformed + s.Unreadable; n > 0 {
		fmt.Fprintf(w, ", %d file(s) could not be validated", n)
	}
	fmt.Fprintln(w)
}

// Initialize flags for the validate command.
func init() {
	ValidateCmd.Flags().StringVarP(&validateOptions.OutputPath, "output", "o", "", "Path to a file or directory where the results are saved as a SARIF log.")
	ValidateCmd.Flags().IntVarP(&validateOptions.Threads, "threads", "j", config.DefaultThreads, "Number of documents validated concurrently. Overrides validation.threads of the config file.")
	ValidateCmd.Flags().StringArrayVar(&validateOptions.Enable, "enable", nil, "Enable the rule with this id. Can be repeated.")
	ValidateCmd.Flags().StringArrayVar(&validateOptions.Disable, "disable", nil, "Disable the rule with this id. Can be repeated.")
	ValidateCmd.Flags().StringVar(&validateOptions.FailLevel, "fail-level", "", "Lowest result level that fails the validation: error, warning, note or none. Overrides validation.fail_level of the config file.")
	ValidateCmd.Flags().BoolP("help", "h", false, "Show help for the validate command.")
}
