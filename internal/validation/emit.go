package validation

import (
	"errors"
	"fmt"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
)

// RootAccessor is how the document root is named in messages.
const RootAccessor = "(root)"

// LogResult renders message templateID of rule with the location of p as
// argument {0} followed by args, and hands the diagnostic to the context sink.
//
// It panics with *UnknownTemplateError when the rule has no such template. A
// path may name a property the document does not contain, as long as its
// parent exists; such a diagnostic has no source position. Any other
// unresolvable path panics with *jsonpath.PathNotFoundError.
func LogResult(ctx *Context, rule Rule, p jsonpath.Path, templateID string, args ...interface{}) {
	template, ok := rule.Messages()[templateID]
	if !ok {
		panic(&UnknownTemplateError{RuleID: rule.ID(), TemplateID: templateID})
	}

	accessor := p.Accessor()
	location := accessor
	if p.IsRoot() {
		location = RootAccessor
	}
	arguments := make([]string, 0, len(args)+1)
	arguments = append(arguments, location)
	for _, arg := range args {
		arguments = append(arguments, fmt.Sprint(arg))
	}

	d := Diagnostic{
		Kind:       KindResult,
		RuleID:     rule.ID(),
		RuleName:   rule.Name(),
		Level:      ctx.Level(rule),
		Pointer:    p.Pointer(),
		Accessor:   accessor,
		TemplateID: templateID,
		Arguments:  arguments,
		Message:    sariflog.FormatMessage(template, arguments),
		File:       ctx.File(),
	}
	d.Line, d.Column = position(ctx, p)

	ctx.Sink.Emit(d)
}

func position(ctx *Context, p jsonpath.Path) (int, int) {
	if ctx.Document == nil || ctx.Document.Tree == nil {
		return 0, 0
	}
	node, err := ctx.Document.Tree.Resolve(p)
	if err != nil {
		var notFound *jsonpath.PathNotFoundError
		if errors.As(err, &notFound) && notFound.Depth == p.Len()-1 {
			return 0, 0
		}
		panic(err)
	}
	line, column, _ := node.LineInfo()
	return line, column
}
