// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal front end of the vault client.
//
// The UI owns no state of its own beyond what is on screen. It subscribes to
// the service events and re-reads the vault after each one, so optimistic
// writes, rollbacks and refreshes all show up through the same path.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/service"
	"github.com/MKhiriev/go-vault-client/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrNoServices = errors.New("tui: client services are required")

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil {
		return nil, ErrNoServices
	}
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}, nil
}

// Run shows the UI until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	eventsCh, unsubscribe := t.services.Events.Subscribe()
	defer unsubscribe()

	m := newAppModel(ctx, t.services.Session, t.services.Vault, eventsCh, t.buildInfo, t.logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
