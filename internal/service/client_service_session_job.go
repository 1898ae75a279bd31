package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/models"
)

// DefaultSessionRefreshInterval is used when Start gets a non-positive
// interval.
const DefaultSessionRefreshInterval = 5 * time.Minute

// sessionRefresher is the part of the session manager the job drives.
type sessionRefresher interface {
	State() models.SessionState
	Refresh(ctx context.Context) error
}

type clientSessionRefreshJob struct {
	session sessionRefresher
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSessionRefreshJob creates a job that calls session.Refresh on a
// ticker while the client is signed in. The job is idle until Start is called.
func NewClientSessionRefreshJob(session sessionRefresher, logger *logger.Logger) ClientSessionRefreshJob {
	return &clientSessionRefreshJob{session: session, logger: logger}
}

// Start implements ClientSessionRefreshJob. Ticks that find the client signed
// out are skipped. The goroutine exits when ctx is cancelled or Stop is called.
func (j *clientSessionRefreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSessionRefreshInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if j.session.State() != models.StateAuthenticated {
					continue
				}
				if err := j.session.Refresh(jobCtx); err != nil {
					j.logger.Warn().Err(err).Msg("periodic session check failed")
				}
			}
		}
	}()
}

// Stop implements ClientSessionRefreshJob. Safe to call when the job is not
// running.
func (j *clientSessionRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
