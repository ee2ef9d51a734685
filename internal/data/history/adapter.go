package history

import (
	"context"
	"time"
)

// Adapter bridges Store to the core HistoryStore port.
type Adapter struct {
	store *Store
}

func NewAdapter(store *Store) *Adapter {
	return &Adapter{store: store}
}

// Record saves rec and returns it with its delta against the previous scan of the same document.
func (a *Adapter) Record(ctx context.Context, rec ScanRecord) (ScanRecord, Delta, error) {
	if err := ctx.Err(); err != nil {
		return rec, Delta{}, err
	}
	saved, err := a.store.SaveScan(rec)
	if err != nil {
		return rec, Delta{}, err
	}
	prev, err := a.store.Previous(saved.Document, saved.Timestamp)
	if err != nil {
		return saved, Delta{}, err
	}
	return saved, Compare(saved, prev), nil
}

func (a *Adapter) LoadScans(ctx context.Context, document string, since time.Time) ([]ScanRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.store.LoadScans(document, since)
}
