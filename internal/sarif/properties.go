package sarif

// JSON property names used when building paths into a SARIF log.
const (
	PropAddress                            = "address"
	PropAddresses                          = "addresses"
	PropAnalysisTarget                     = "analysisTarget"
	PropAnalysisToolLogFiles               = "analysisToolLogFiles"
	PropAnnotations                        = "annotations"
	PropArguments                          = "arguments"
	PropArtifactChanges                    = "artifactChanges"
	PropArtifactLocation                   = "artifactLocation"
	PropArtifacts                          = "artifacts"
	PropAssociatedComponent                = "associatedComponent"
	PropAssociatedRule                     = "associatedRule"
	PropAttachments                        = "attachments"
	PropAutomationDetails                  = "automationDetails"
	PropBody                               = "body"
	PropChildren                           = "children"
	PropCodeFlows                          = "codeFlows"
	PropContents                           = "contents"
	PropContextRegion                      = "contextRegion"
	PropConversion                         = "conversion"
	PropConversionSources                  = "conversionSources"
	PropDeletedRegion                      = "deletedRegion"
	PropDescription                        = "description"
	PropDescriptor                         = "descriptor"
	PropDisplayBase                        = "displayBase"
	PropDottedQuadFileVersion              = "dottedQuadFileVersion"
	PropDriver                             = "driver"
	PropEdges                              = "edges"
	PropEdgeTraversals                     = "edgeTraversals"
	PropEndColumn                          = "endColumn"
	PropEndLine                            = "endLine"
	PropException                          = "exception"
	PropExecutableLocation                 = "executableLocation"
	PropExtensions                         = "extensions"
	PropExternalizedProperties             = "externalizedProperties"
	PropExternalPropertyFileReferences     = "externalPropertyFileReferences"
	PropFinalState                         = "finalState"
	PropFixes                              = "fixes"
	PropFrames                             = "frames"
	PropFullDescription                    = "fullDescription"
	PropGlobalMessageStrings               = "globalMessageStrings"
	PropGraphs                             = "graphs"
	PropGraphTraversals                    = "graphTraversals"
	PropHelp                               = "help"
	PropID                                 = "id"
	PropImmutableState                     = "immutableState"
	PropIndex                              = "index"
	PropInformationURI                     = "informationUri"
	PropInitialState                       = "initialState"
	PropInnerExceptions                    = "innerExceptions"
	PropInsertedContent                    = "insertedContent"
	PropInvocation                         = "invocation"
	PropInvocationIndex                    = "invocationIndex"
	PropInvocations                        = "invocations"
	PropLabel                              = "label"
	PropLocation                           = "location"
	PropLocations                          = "locations"
	PropLogicalLocation                    = "logicalLocation"
	PropLogicalLocations                   = "logicalLocations"
	PropMappedTo                           = "mappedTo"
	PropMessage                            = "message"
	PropMessageStrings                     = "messageStrings"
	PropName                               = "name"
	PropNodes                              = "nodes"
	PropNotificationConfigurationOverrides = "notificationConfigurationOverrides"
	PropNotifications                      = "notifications"
	PropOriginalURIBaseIDs                 = "originalUriBaseIds"
	PropParentIndex                        = "parentIndex"
	PropPhysicalLocation                   = "physicalLocation"
	PropPolicies                           = "policies"
	PropProvenance                         = "provenance"
	PropRegion                             = "region"
	PropRelatedLocations                   = "relatedLocations"
	PropRelationships                      = "relationships"
	PropRendered                           = "rendered"
	PropReplacements                       = "replacements"
	PropRepositoryURI                      = "repositoryUri"
	PropResponseFiles                      = "responseFiles"
	PropResultGraphIndex                   = "resultGraphIndex"
	PropResults                            = "results"
	PropRule                               = "rule"
	PropRuleConfigurationOverrides         = "ruleConfigurationOverrides"
	PropRuleID                             = "ruleId"
	PropRuleIndex                          = "ruleIndex"
	PropRules                              = "rules"
	PropRunAggregates                      = "runAggregates"
	PropRunGraphIndex                      = "runGraphIndex"
	PropRuns                               = "runs"
	PropSemanticVersion                    = "semanticVersion"
	PropShortDescription                   = "shortDescription"
	PropSnippet                            = "snippet"
	PropSpecialLocations                   = "specialLocations"
	PropStack                              = "stack"
	PropStacks                             = "stacks"
	PropStartColumn                        = "startColumn"
	PropStartLine                          = "startLine"
	PropState                              = "state"
	PropStderr                             = "stderr"
	PropStdin                              = "stdin"
	PropStdout                             = "stdout"
	PropStdoutStderr                       = "stdoutStderr"
	PropSupportedTaxonomies                = "supportedTaxonomies"
	PropSuppressions                       = "suppressions"
	PropTaxa                               = "taxa"
	PropTaxonomies                         = "taxonomies"
	PropText                               = "text"
	PropThreadFlowLocations                = "threadFlowLocations"
	PropThreadFlows                        = "threadFlows"
	PropTool                               = "tool"
	PropToolComponent                      = "toolComponent"
	PropToolConfigurationNotifications     = "toolConfigurationNotifications"
	PropToolExecutionNotifications         = "toolExecutionNotifications"
	PropTranslationMetadata                = "translationMetadata"
	PropTranslations                       = "translations"
	PropURI                                = "uri"
	PropURIBaseID                          = "uriBaseId"
	PropVersion                            = "version"
	PropVersionControlProvenance           = "versionControlProvenance"
	PropWebRequest                         = "webRequest"
	PropWebRequests                        = "webRequests"
	PropWebResponse                        = "webResponse"
	PropWebResponses                       = "webResponses"
	PropWorkingDirectory                   = "workingDirectory"
)
