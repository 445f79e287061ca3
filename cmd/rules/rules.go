package rules

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scan-io-git/sariflint/cmd/version"
	"github.com/scan-io-git/sariflint/internal/config"
	"github.com/scan-io-git/sariflint/internal/output"
	ruleset "github.com/scan-io-git/sariflint/internal/rules"
	"github.com/scan-io-git/sariflint/internal/validation"
	cmderrors "github.com/scan-io-git/sariflint/pkg/shared/errors"
)

const (
	FormatText  = "text"
	FormatSarif = "sarif"
)

// RunOptionsRules holds the arguments for the rules command.
type RunOptionsRules struct {
	Format string
}

var (
	AppConfig         *config.Config
	Registry          *ruleset.Registry
	rulesOptions      RunOptionsRules
	exampleRulesUsage = `  # Listing the available rules
  sariflint rules

  # Exporting rule metadata as a SARIF log
  sariflint rules --format sarif > rules.sarif`
)

// RulesCmd represents the rules command.
var RulesCmd = &cobra.Command{
	Use:                   "rules [--format/-f text|sarif]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleRulesUsage,
	Short:                 "Lists the validation rules and their configured state",
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeRules(cmd.OutOrStdout(), AppConfig, Registry, rulesOptions.Format)
	},
}

// Init initializes the global configuration variable and the rule registry.
func Init(cfg *config.Config, registry *ruleset.Registry) {
	AppConfig = cfg
	Registry = registry
}

func writeRules(w io.Writer, cfg *config.Config, registry *ruleset.Registry, format string) error {
	if registry == nil {
		registry = ruleset.Builtin()
	}
	rules := registry.Instantiate()

	switch strings.ToLower(format) {
	case FormatText, "":
		return writeText(w, cfg, rules)
	case FormatSarif:
		report, err := output.NewRulesReport(version.CoreVersion, rules)
		if err != nil {
			return err
		}
		return report.PrettyWrite(w)
	default:
		return cmderrors.NewCommandError(
			fmt.Errorf("unknown format %q, expected %s or %s", format, FormatText, FormatSarif),
			cmderrors.ExitUsageError)
	}
}

func writeText(w io.Writer, cfg *config.Config, rules []validation.Rule) error {
	title := cases.Title(language.Und)
	for _, r := range rules {
		enabled, level := r.EnabledByDefault(), r.DefaultLevel()
		if rc, ok := cfg.Rule(r.ID()); ok {
			if rc.Enabled != nil {
				enabled = *rc.Enabled
			}
			if parsed, err := validation.ParseLevel(rc.Level); err == nil {
				level = parsed
			}
		}
		state := "enabled"
		if !enabled {
			state = "disabled"
		}

		if _, err := fmt.Fprintf(w, "%-10s %-45s %-8s %s\n", r.ID(), r.Name(), title.String(level.String()), state); err != nil {
			return err
		}
		if r.HelpURI() != "" {
			if _, err := fmt.Fprintf(w, "%11s%s\n", "", r.HelpURI()); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	RulesCmd.Flags().StringVarP(&rulesOptions.Format, "format", "f", FormatText, "Output format: text or sarif.")
	RulesCmd.Flags().BoolP("help", "h", false, "Show help for the rules command.")
}
