package formats

import (
	"encoding/json"
	"testing"
)

type sarifDoc struct {
	Version string `json:"version"`
	Runs    []struct {
		Tool struct {
			Driver struct {
				Name    string `json:"name"`
				Version string `json:"version"`
				Rules   []struct {
					ID string `json:"id"`
				} `json:"rules"`
			} `json:"driver"`
		} `json:"tool"`
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				LogicalLocations []struct {
					Name               string `json:"name"`
					FullyQualifiedName string `json:"fullyQualifiedName"`
				} `json:"logicalLocations"`
			} `json:"locations"`
			Properties map[string]any `json:"properties"`
		} `json:"results"`
	} `json:"runs"`
}

func TestSARIFGenerator(t *testing.T) {
	data, err := NewSARIFGenerator("1.2.3").Generate(sampleInput())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var doc sarifDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Version != "2.1.0" {
		t.Errorf("version = %q, want 2.1.0", doc.Version)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(doc.Runs))
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "tokenlint" || run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 3 {
		t.Errorf("expected 3 distinct rules, got %d", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(run.Results))
	}

	wrong := run.Results[1]
	if wrong.RuleID != "fill/wrong-library" {
		t.Errorf("ruleId = %q", wrong.RuleID)
	}
	if wrong.Properties["sourceLibraryId"] != "legacy" {
		t.Errorf("expected source library property, got %v", wrong.Properties)
	}
	loc := wrong.Locations[0].LogicalLocations[0]
	if loc.Name != "Title" || loc.FullyQualifiedName != "1:2" {
		t.Errorf("unexpected logical location: %+v", loc)
	}
	if run.Results[2].Message.Text != "Card: Corner radius not linked to a variable (uniform)" {
		t.Errorf("unexpected message %q", run.Results[2].Message.Text)
	}
}

func TestSARIFGenerator_Empty(t *testing.T) {
	in := sampleInput()
	in.Issues = nil
	data, err := NewSARIFGenerator("").Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	var doc sarifDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Runs) != 1 || len(doc.Runs[0].Results) != 0 {
		t.Fatalf("expected one empty run, got %+v", doc.Runs)
	}
}
