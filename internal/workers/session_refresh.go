package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/service"
)

// SessionRefreshWorker runs the session refresh job for the lifetime of Run.
type SessionRefreshWorker struct {
	job      service.ClientSessionRefreshJob
	interval time.Duration
}

func NewSessionRefreshWorker(job service.ClientSessionRefreshJob, interval time.Duration) *SessionRefreshWorker {
	return &SessionRefreshWorker{job: job, interval: interval}
}

func (w *SessionRefreshWorker) Run(ctx context.Context) error {
	w.job.Start(ctx, w.interval)
	<-ctx.Done()
	w.job.Stop()
	return nil
}
