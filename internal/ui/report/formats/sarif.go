package formats

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"tokenlint/internal/engine/lint"
)

const (
	toolName    = "tokenlint"
	toolInfoURI = "https://github.com/tokenlint/tokenlint"

	ruleDetached     = "detached"
	ruleWrongLibrary = "wrong-library"
)

// RuleID is the SARIF rule of an issue: "<category>/detached" or "<category>/wrong-library".
func RuleID(issue lint.Issue) string {
	if issue.SourceLibraryID != "" {
		return string(issue.Category) + "/" + ruleWrongLibrary
	}
	return string(issue.Category) + "/" + ruleDetached
}

type SARIFGenerator struct {
	version string
}

func NewSARIFGenerator(version string) *SARIFGenerator {
	return &SARIFGenerator{version: version}
}

// Generate renders issues as a SARIF 2.1.0 log. Nodes have no file position, so each result
// carries a logical location naming the node.
func (g *SARIFGenerator) Generate(in Input) ([]byte, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("create sarif report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, toolInfoURI)
	if g.version != "" {
		v := g.version
		run.Tool.Driver.Version = &v
	}

	for _, issue := range in.Issues {
		id := RuleID(issue)
		rule := run.AddRule(id).
			WithDescription(ruleDescription(issue)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})

		name := issue.NodeName
		fqn := issue.NodeID
		kind := string(issue.NodeKind)
		location := sarif.NewLocation()
		location.LogicalLocations = []*sarif.LogicalLocation{{
			Name:               &name,
			FullyQualifiedName: &fqn,
			Kind:               &kind,
		}}

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(resultMessage(issue))).
			WithLevel("warning").
			WithLocations([]*sarif.Location{location})
		result.PropertyBag = *sarif.NewPropertyBag()
		result.Add("category", string(issue.Category))
		result.Add("nodeId", issue.NodeID)
		if issue.Details != "" {
			result.Add("details", issue.Details)
		}
		if issue.SourceLibraryID != "" {
			result.Add("sourceLibraryId", issue.SourceLibraryID)
			result.Add("sourceLibraryName", issue.SourceLibraryName)
		}
		run.AddResult(result)
	}
	report.AddRun(run)

	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return nil, fmt.Errorf("write sarif report: %w", err)
	}
	return buf.Bytes(), nil
}

func ruleDescription(issue lint.Issue) string {
	if issue.SourceLibraryID != "" {
		return lint.WrongLibraryMessage(issue.Category)
	}
	return issue.Category.Label() + " not linked to a token"
}

func resultMessage(issue lint.Issue) string {
	msg := issue.NodeName + ": " + issue.Message
	if issue.Details != "" {
		msg += " (" + issue.Details + ")"
	}
	return msg
}
