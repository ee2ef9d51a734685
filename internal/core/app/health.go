package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  s.app.clock().UTC(),
		Components: make(map[string]string),
	}

	if snap, err := s.app.docs.Snapshot(ctx); err != nil {
		status.Status = "degraded"
		status.Components["document"] = "unavailable: " + err.Error()
	} else {
		status.Components["document"] = fmt.Sprintf("ok (%s, %d pages)", snap.Name, len(snap.Pages))
	}

	if libs, err := s.app.libs.Libraries(ctx); err != nil {
		status.Status = "degraded"
		status.Components["libraries"] = "unavailable: " + err.Error()
	} else {
		status.Components["libraries"] = fmt.Sprintf("ok (%d libraries)", len(libs))
	}

	cfg := s.app.Config()
	if s.app.resolver != nil {
		status.Components["resolver"] = "ok"
	} else if cfg.Scan.ReferenceLibrary != "" {
		status.Status = "degraded"
		status.Components["resolver"] = "missing but reference library configured"
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if cfg.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if latest, ok := s.app.Latest(); ok {
		status.Components["latest_scan"] = fmt.Sprintf("%s (%d issues)", latest.ScanID, latest.TotalIssues)
	} else {
		status.Components["latest_scan"] = "none"
	}

	return status
}
