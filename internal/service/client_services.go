package service

import (
	"github.com/MKhiriev/go-vault-client/internal/adapter"
	"github.com/MKhiriev/go-vault-client/internal/cache"
	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/store"
	"github.com/MKhiriev/go-vault-client/internal/validators"
)

type ClientServices struct {
	Session    ClientSessionService
	Vault      ClientVaultService
	Events     ClientEvents
	RefreshJob ClientSessionRefreshJob

	broker *events.Broker
}

func NewClientServices(sessions store.SessionRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) *ClientServices {
	broker := events.NewBroker(events.DefaultBuffer)
	cacheStore := cache.NewStore(broker, logger)
	validator := validators.NewClientValidator()

	sessionSvc := NewClientSessionService(serverAdapter, sessions, cacheStore, validator, broker, logger)
	vaultSvc := NewClientVaultService(serverAdapter, cacheStore, sessionSvc, validator, broker, logger)
	sessionSvc.vault = vaultSvc

	return &ClientServices{
		Session:    sessionSvc,
		Vault:      vaultSvc,
		Events:     broker,
		RefreshJob: NewClientSessionRefreshJob(sessionSvc, logger),
		broker:     broker,
	}
}

// Close stops the refresh job and closes every subscription.
func (s *ClientServices) Close() {
	s.RefreshJob.Stop()
	s.broker.Close()
}
