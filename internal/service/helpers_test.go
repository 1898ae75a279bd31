package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/cache"
	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/mock"
	"github.com/MKhiriev/go-vault-client/internal/validators"
	"github.com/MKhiriev/go-vault-client/models"
	"go.uber.org/mock/gomock"
)

// testClient wires the real session manager, vault service, cache and broker
// around a mocked server adapter and token repository.
type testClient struct {
	adapter *mock.MockServerAdapter
	repo    *mock.MockSessionRepository
	broker  *events.Broker
	cache   *cache.Store
	session *clientSessionService
	vault   *clientVaultService
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockRepo := mock.NewMockSessionRepository(ctrl)

	broker := events.NewBroker(256)
	t.Cleanup(broker.Close)

	store := cache.NewStore(broker, logger.Nop())
	validator := validators.NewClientValidator()

	session := NewClientSessionService(mockAdapter, mockRepo, store, validator, broker, logger.Nop())
	vault := NewClientVaultService(mockAdapter, store, session, validator, broker, logger.Nop())
	session.vault = vault

	return &testClient{
		adapter: mockAdapter,
		repo:    mockRepo,
		broker:  broker,
		cache:   store,
		session: session,
		vault:   vault,
	}
}

// signIn puts the client in the authenticated state with items cached,
// without going through the server.
func (c *testClient) signIn(items ...models.VaultItem) {
	c.session.started.Store(true)
	c.session.bootstrapped.Store(true)
	c.session.session.Store(&models.Session{UserID: 1, DisplayName: "alice"})
	c.session.setState(models.StateAuthenticated)
	c.cache.ReplaceAll(c.cache.BeginRefresh(), items)
}

func (c *testClient) ids() []int64 {
	return c.cache.Current().IDs()
}

func ts(day int) *time.Time {
	t := time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func sampleItems() []models.VaultItem {
	return []models.VaultItem{
		{ID: 1, Title: "Bank", Type: models.ItemTypePassword, UpdatedAt: ts(1)},
		{ID: 2, Title: "Mail", Type: models.ItemTypePassword, Favorite: true, UpdatedAt: ts(2)},
		{ID: 3, Title: "Diary", Type: models.ItemTypeNote, UpdatedAt: ts(3)},
	}
}

// outcome carries the result of a call made in another goroutine.
type outcome struct {
	item models.VaultItem
	err  error
}

func runAsync(f func() (models.VaultItem, error)) <-chan outcome {
	ch := make(chan outcome, 1)
	go func() {
		item, err := f()
		ch <- outcome{item: item, err: err}
	}()
	return ch
}

// blockingCall returns a gomock action that signals entered, waits for
// proceed and then answers with item and err.
func blockingCall(entered, proceed chan struct{}, item models.VaultItem, err error) func(context.Context, int64) (models.VaultItem, error) {
	return func(context.Context, int64) (models.VaultItem, error) {
		close(entered)
		<-proceed
		return item, err
	}
}
