package validate

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/scan-io-git/sariflint/internal/config"
	ruleset "github.com/scan-io-git/sariflint/internal/rules"
	"github.com/scan-io-git/sariflint/internal/validation"
)

// validateValidateArgs validates the arguments provided to the validate
// command and returns the configuration with the command line overrides
// applied, along with the fail level. cfg itself is not modified.
func validateValidateArgs(cfg *config.Config, registry *ruleset.Registry, options *RunOptionsValidate, targets []string) (*config.Config, validation.Level, error) {
	if len(targets) == 0 {
		return nil, validation.LevelNone, fmt.Errorf("at least one target path must be specified")
	}
	if options.Threads < 0 || options.Threads > config.MaxThreads {
		return nil, validation.LevelNone, fmt.Errorf("the 'threads' flag must be between 1 and %d", config.MaxThreads)
	}

	enable := make(map[string]bool, len(options.Enable))
	for _, id := range options.Enable {
		if !registry.Has(id) {
			return nil, validation.LevelNone, fmt.Errorf("the 'enable' flag names an unknown rule %q", id)
		}
		enable[id] = true
	}
	for _, id := range options.Disable {
		if !registry.Has(id) {
			return nil, validation.LevelNone, fmt.Errorf("the 'disable' flag names an unknown rule %q", id)
		}
		if enable[id] {
			return nil, validation.LevelNone, fmt.Errorf("rule %q cannot be both enabled and disabled", id)
		}
	}

	failLevelName := config.SetThen(options.FailLevel, cfg.Validation.FailLevel)
	failLevel, err := validation.ParseLevel(failLevelName)
	if err != nil {
		return nil, validation.LevelNone, fmt.Errorf("the 'fail-level' flag is invalid: %w", err)
	}

	effective := applyOverrides(cfg, options)
	effective.Validation.FailLevel = failLevel.String()
	return effective, failLevel, nil
}

// checkThreadsFlag rejects an explicit thread count outside 1..MaxThreads. An
// unset flag leaves the count to the config file.
func checkThreadsFlag(flags *pflag.FlagSet, threads int) error {
	if !flags.Changed("threads") {
		return nil
	}
	if threads < 1 || threads > config.MaxThreads {
		return fmt.Errorf("the 'threads' flag must be between 1 and %d", config.MaxThreads)
	}
	return nil
}

// applyOverrides returns a copy of cfg with the rule switches and thread count of options applied.
func applyOverrides(cfg *config.Config, options *RunOptionsValidate) *config.Config {
	effective := *cfg
	effective.Rules = make(map[string]config.RuleConfig, len(cfg.Rules)+len(options.Enable)+len(options.Disable))
	for id, rc := range cfg.Rules {
		effective.Rules[id] = rc
	}

	set := func(ids []string, enabled bool) {
		for _, id := range ids {
			rc := effective.Rules[id]
			rc.Enabled = &enabled
			effective.Rules[id] = rc
		}
	}
	set(options.Enable, true)
	set(options.Disable, false)

	effective.Validation.Threads = config.SetThen(options.Threads, cfg.Validation.Threads)
	return &effective
}
