package app

import (
	"context"
	"runtime"
	"time"

	"github.com/cursosjujuy/camila/internal/config"
)

// sweepSessions drops conversations idle past the TTL, exits on
// context cancellation.
func (a *Application) sweepSessions(ctx context.Context) {
	a.logger.Debug("Session sweep job started")
	defer a.logger.Debug("Session sweep job stopped")

	ticker := time.NewTicker(config.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := a.sessions.Sweep(config.SessionTTL)
			remaining := a.sessions.Count()
			a.metrics.RecordSessionsSwept(removed)
			a.metrics.SetSessionsActive(remaining)
			if removed > 0 {
				a.logger.WithField("removed", removed).
					WithField("remaining", remaining).
					Info("Swept idle sessions")
			}
		}
	}
}

// logUsage periodically reports process and conversation stats.
func (a *Application) logUsage(ctx context.Context) {
	ticker := time.NewTicker(config.UsageLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			a.logger.WithField("sessions", a.sessions.Count()).
				WithField("llm_chats_active", a.llmLimiter.GetActiveCount()).
				WithField("heap_mb", mem.HeapAlloc/1024/1024).
				WithField("goroutines", runtime.NumGoroutine()).
				Info("Usage snapshot")
		}
	}
}
