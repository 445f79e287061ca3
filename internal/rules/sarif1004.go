package rules

import (
	"net/url"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	uriBaseIDRequiresRelativeURI            = "Error_UriBaseIdRequiresRelativeUri"
	topLevelURIBaseIDMustBeAbsolute         = "Error_TopLevelUriBaseIdMustBeAbsolute"
	uriBaseIDValueMustEndWithSlash          = "Error_UriBaseIdValueMustEndWithSlash"
	uriBaseIDValueMustNotContainDotDot      = "Error_UriBaseIdValueMustNotContainDotDotSegment"
	uriBaseIDValueMustNotContainQueryOrFrag = "Error_UriBaseIdValueMustNotContainQueryOrFragment"
	relativeReferenceMustNotBeginWithSlash  = "Error_RelativeReferenceMustNotBeginWithSlash"
)

// ExpressURIBaseIDsCorrectly checks that uriBaseId and originalUriBaseIds can
// actually turn relative references into absolute URIs.
type ExpressURIBaseIDsCorrectly struct {
	validation.RuleBase
}

func NewExpressURIBaseIDsCorrectly() validation.Rule {
	return &ExpressURIBaseIDsCorrectly{RuleBase: validation.RuleBase{
		RuleID:   "SARIF1004",
		RuleName: "ExpressUriBaseIdsCorrectly",
		Summary: "When using the 'uriBaseId' property, the 'uri' must be a relative reference that does not " +
			"begin with a slash, and every entry of 'originalUriBaseIds' must resolve to an absolute URI " +
			"that ends with a slash and has no '..' segment, query or fragment.",
		Help:  sarifSpecURI + "#_Toc34317431",
		Level: validation.LevelError,
		Templates: map[string]string{
			uriBaseIDRequiresRelativeURI: "{0}: This 'artifactLocation' object has a 'uriBaseId' property '{1}', " +
				"but its 'uri' property '{2}' is an absolute URI. 'uriBaseId' only makes sense for relative references.",
			topLevelURIBaseIDMustBeAbsolute: "{0}: The '{1}' element of 'originalUriBaseIds' has no 'uriBaseId' " +
				"property, but its 'uri' property '{2}' is not an absolute URI.",
			uriBaseIDValueMustEndWithSlash: "{0}: The '{1}' element of 'originalUriBaseIds' has a 'uri' " +
				"property '{2}' that does not end with a slash.",
			uriBaseIDValueMustNotContainDotDot: "{0}: The '{1}' element of 'originalUriBaseIds' has a 'uri' " +
				"property '{2}' that contains a '..' segment.",
			uriBaseIDValueMustNotContainQueryOrFrag: "{0}: The '{1}' element of 'originalUriBaseIds' has a 'uri' " +
				"property '{2}' that contains a query or a fragment.",
			relativeReferenceMustNotBeginWithSlash: "{0}: The relative reference '{1}' begins with a slash, " +
				"which prevents it from combining with the absolute URI of a 'uriBaseId'.",
		},
	}}
}

func (r *ExpressURIBaseIDsCorrectly) AnalyzeArtifactLocation(ctx *validation.Context, location *sarif.ArtifactLocation, p jsonpath.Path) {
	if location.URI == nil {
		return
	}
	uri := *location.URI
	parsed, err := url.Parse(uri)
	if err != nil {
		return
	}

	if location.URIBaseId != nil && parsed.IsAbs() {
		r.LogResult(ctx, p, uriBaseIDRequiresRelativeURI, *location.URIBaseId, uri)
	}
	if !parsed.IsAbs() && strings.HasPrefix(uri, "/") {
		r.LogResult(ctx, p.Property(sariflog.PropURI), relativeReferenceMustNotBeginWithSlash, uri)
	}
}

func (r *ExpressURIBaseIDsCorrectly) AnalyzeRun(ctx *validation.Context, run *sarif.Run, p jsonpath.Path) {
	if run.OriginalUriBaseIDs == nil {
		return
	}
	basesPath := p.Property(sariflog.PropOriginalURIBaseIDs)
	for _, name := range memberNames(ctx, basesPath) {
		location := run.OriginalUriBaseIDs[name]
		if location == nil {
			continue
		}
		r.analyzeBase(ctx, name, location, basesPath.Property(name))
	}
}

func (r *ExpressURIBaseIDsCorrectly) analyzeBase(ctx *validation.Context, name string, location *sarif.ArtifactLocation, p jsonpath.Path) {
	if location.URI == nil {
		return
	}
	uri := *location.URI
	parsed, err := url.Parse(uri)
	if err != nil {
		// Malformed URIs are some other rule's business.
		return
	}

	if location.URIBaseId == nil && !parsed.IsAbs() {
		r.LogResult(ctx, p, topLevelURIBaseIDMustBeAbsolute, name, uri)
	}
	if !strings.HasSuffix(uri, "/") {
		r.LogResult(ctx, p, uriBaseIDValueMustEndWithSlash, name, uri)
	}
	for _, segment := range strings.Split(uri, "/") {
		if segment == ".." {
			r.LogResult(ctx, p, uriBaseIDValueMustNotContainDotDot, name, uri)
			break
		}
	}
	if parsed.IsAbs() && (parsed.RawQuery != "" || parsed.ForceQuery || parsed.Fragment != "") {
		r.LogResult(ctx, p, uriBaseIDValueMustNotContainQueryOrFrag, name, uri)
	}
}
