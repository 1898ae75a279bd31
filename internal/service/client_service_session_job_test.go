// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/models"
)

// spySession counts Refresh calls and reports a configurable state.
type spySession struct {
	calls atomic.Int64
	state atomic.Int32
	err   error
}

func newSpySession(state models.SessionState) *spySession {
	s := &spySession{}
	s.state.Store(int32(state))
	return s
}

func (s *spySession) State() models.SessionState {
	return models.SessionState(s.state.Load())
}

func (s *spySession) Refresh(context.Context) error {
	s.calls.Add(1)
	return s.err
}

func TestNewClientSessionRefreshJob_ReturnsInterface(t *testing.T) {
	job := NewClientSessionRefreshJob(newSpySession(models.StateAuthenticated), logger.Nop())
	require.NotNil(t, job)
}

func TestClientSessionRefreshJob_RefreshesWhileSignedIn(t *testing.T) {
	spy := newSpySession(models.StateAuthenticated)
	spy.err = errors.New("boom")
	job := NewClientSessionRefreshJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	assert.Eventually(t, func() bool { return spy.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	job.Stop()
}

func TestClientSessionRefreshJob_SkipsWhileSignedOut(t *testing.T) {
	spy := newSpySession(models.StateUnauthenticated)
	job := NewClientSessionRefreshJob(spy, logger.Nop())

	job.Start(context.Background(), 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Zero(t, spy.calls.Load())
}

func TestClientSessionRefreshJob_StopStopsGoroutine(t *testing.T) {
	spy := newSpySession(models.StateAuthenticated)
	job := NewClientSessionRefreshJob(spy, logger.Nop())

	job.Start(context.Background(), 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load())
}

func TestClientSessionRefreshJob_StopWithoutStart(t *testing.T) {
	job := NewClientSessionRefreshJob(newSpySession(models.StateAuthenticated), logger.Nop())

	assert.NotPanics(t, func() {
		job.Stop()
		job.Stop()
	})
}

func TestClientSessionRefreshJob_DefaultInterval(t *testing.T) {
	spy := newSpySession(models.StateAuthenticated)
	job := NewClientSessionRefreshJob(spy, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 0)
	time.Sleep(20 * time.Millisecond)
	cancel()
	job.Stop()

	assert.Zero(t, spy.calls.Load())
}

func TestClientSessionRefreshJob_RestartReplacesRunningJob(t *testing.T) {
	spy := newSpySession(models.StateAuthenticated)
	job := NewClientSessionRefreshJob(spy, logger.Nop())

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 5*time.Millisecond)
	assert.Eventually(t, func() bool { return spy.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	job.Stop()
}
