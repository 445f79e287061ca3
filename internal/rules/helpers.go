package rules

import (
	"strconv"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

// notSpecified is the conventional value of an index property that refers to nothing.
const notSpecified = -1

// memberNames returns the property names of the object at p in document order,
// without duplicates.
func memberNames(ctx *validation.Context, p jsonpath.Path) []string {
	node, err := ctx.Document.Node(p)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool, len(node.Members))
	names := make([]string, 0, len(node.Members))
	for _, m := range node.Members {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}

// runPath is the path of the run currently being visited.
func runPath(ctx *validation.Context) jsonpath.Path {
	return jsonpath.Root().Property(sariflog.PropRuns).Index(ctx.CurrentRunIndex)
}

// runArray renders the accessor of a property path below the current run.
func runArray(ctx *validation.Context, names ...string) string {
	p := runPath(ctx)
	for _, name := range names {
		p = p.Property(name)
	}
	return p.Accessor()
}

// resolveToolComponent finds the tool component a reference points into. A nil
// reference means the driver. Taxonomies hold the components of taxon references,
// extensions hold the rest. An index of -1 falls back to guid and name matching.
// The second result is false when the component cannot be determined.
func resolveToolComponent(ctx *validation.Context, ref *sarif.ToolComponentReference, refPath jsonpath.Path, kind validation.ReferenceKind) (*sarif.ToolComponent, bool) {
	run := ctx.CurrentRun
	if run == nil {
		return nil, false
	}
	if ref == nil {
		return run.Tool.Driver, run.Tool.Driver != nil
	}

	candidates := run.Tool.Extensions
	if kind == validation.ReferenceKindTaxon {
		candidates = run.Taxonomies
	}

	if index, ok := ctx.Document.Integer(refPath, sariflog.PropIndex); ok && index != notSpecified {
		if index < 0 || index >= int64(len(candidates)) || candidates[index] == nil {
			return nil, false
		}
		return candidates[index], true
	}
	for _, component := range candidates {
		if component == nil {
			continue
		}
		if ref.Guid != nil && component.GUID != nil && strings.EqualFold(*ref.Guid, *component.GUID) {
			return component, true
		}
		if ref.Guid == nil && ref.Name != nil && *ref.Name == component.Name {
			return component, true
		}
	}
	if ref.Guid == nil && ref.Name == nil {
		return run.Tool.Driver, run.Tool.Driver != nil
	}
	return nil, false
}

// descriptors returns the descriptor array of component selected by kind.
func descriptors(component *sarif.ToolComponent, kind validation.ReferenceKind) []*sarif.ReportingDescriptor {
	if component == nil {
		return nil
	}
	switch kind {
	case validation.ReferenceKindRule:
		return component.Rules
	case validation.ReferenceKindNotification:
		return component.Notifications
	case validation.ReferenceKindTaxon:
		return component.Taxa
	default:
		return nil
	}
}

func optionInt(ctx *validation.Context, rule validation.Rule, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(ctx.Option(rule.ID(), key, strconv.Itoa(def))))
	if err != nil {
		ctx.Logger.Warn("ignoring invalid rule option", "rule", rule.ID(), "option", key)
		return def
	}
	return v
}

func optionBool(ctx *validation.Context, rule validation.Rule, key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(ctx.Option(rule.ID(), key, strconv.FormatBool(def))))
	if err != nil {
		ctx.Logger.Warn("ignoring invalid rule option", "rule", rule.ID(), "option", key)
		return def
	}
	return v
}

func optionList(ctx *validation.Context, rule validation.Rule, key string, def []string) []string {
	raw := ctx.Option(rule.ID(), key, "")
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
