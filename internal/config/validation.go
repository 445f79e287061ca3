package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scan-io-git/sariflint/internal/validation"
)

var logLevels = []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// ValidateConfig checks that the configuration holds valid values. Rule
// overrides must name one of ruleIDs; a nil ruleIDs skips that check.
func ValidateConfig(cfg *Config, ruleIDs []string) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateLogger(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML global config: logger directive is invalid: %w", err)
	}
	if err := validateValidation(&cfg.Validation); err != nil {
		return fmt.Errorf("YAML global config: validation directive is invalid: %w", err)
	}
	if err := validateRules(cfg.Rules, ruleIDs); err != nil {
		return fmt.Errorf("YAML global config: rules directive is invalid: %w", err)
	}
	return nil
}

func validateLogger(logger *Logger) error {
	if logger.Level == "" {
		return nil
	}
	level := strings.ToUpper(logger.Level)
	for _, known := range logLevels {
		if level == known {
			return nil
		}
	}
	return fmt.Errorf("unknown level %q, expected one of %s", logger.Level, strings.Join(logLevels, ", "))
}

func validateValidation(v *Validation) error {
	if v.Threads < 1 || v.Threads > MaxThreads {
		return fmt.Errorf("threads must be between 1 and %d: %d", MaxThreads, v.Threads)
	}
	if _, err := validation.ParseLevel(v.FailLevel); err != nil {
		return fmt.Errorf("fail_level: %w", err)
	}
	return nil
}

func validateRules(rules map[string]RuleConfig, ruleIDs []string) error {
	known := make(map[string]bool, len(ruleIDs))
	for _, id := range ruleIDs {
		known[id] = true
	}

	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if ruleIDs != nil && !known[id] {
			return fmt.Errorf("unknown rule %q", id)
		}
		if level := rules[id].Level; level != "" {
			if _, err := validation.ParseLevel(level); err != nil {
				return fmt.Errorf("rule %s: %w", id, err)
			}
		}
	}
	return nil
}
