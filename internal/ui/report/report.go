package report

import (
	"fmt"
	"strings"

	"tokenlint/internal/ui/report/formats"
)

type Input = formats.Input
type Clock = formats.Clock

const NoIssuesLine = formats.NoIssuesLine

type Format string

const (
	FormatText  Format = "text"
	FormatSARIF Format = "sarif"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatSARIF:
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Generator renders reports in every supported format.
type Generator struct {
	text  *formats.TextGenerator
	sarif *formats.SARIFGenerator
}

func NewGenerator(clock Clock, version string) *Generator {
	return &Generator{
		text:  formats.NewTextGenerator(clock),
		sarif: formats.NewSARIFGenerator(version),
	}
}

func (g *Generator) Generate(format Format, in Input) (string, error) {
	switch format {
	case FormatText, "":
		return g.text.Generate(in)
	case FormatSARIF:
		data, err := g.sarif.Generate(in)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}
