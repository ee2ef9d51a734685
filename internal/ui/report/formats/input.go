// Package formats renders scan results as text and SARIF documents.
package formats

import (
	"fmt"
	"time"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/lint"
)

// Input is everything a report needs. Audit may be nil.
type Input struct {
	Issues   []lint.Issue
	Settings lint.Settings
	Catalog  *lint.Catalog
	Audit    *audit.Log
	Document string
}

func (in Input) validate() error {
	for i, issue := range in.Issues {
		if !issue.Category.Valid() {
			return fmt.Errorf("issue %d on node %q has unknown category %q", i, issue.NodeID, issue.Category)
		}
	}
	return nil
}

// Clock supplies the report timestamp.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
