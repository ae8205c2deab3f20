package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/db"
	"github.com/noirparfum/noir-backend/pkg/mailer"
	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, price int64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Slug:          util.Slugify(name),
		Brand:         "Maison Noir",
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
		Gender:        model.GenderUnisex,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func updateSettings(t *testing.T, testDB *gorm.DB, mutate func(*model.Settings)) {
	t.Helper()
	repo := repository.NewSettingsRepository(testDB)
	settings, err := repo.Get()
	require.NoError(t, err)
	mutate(settings)
	require.NoError(t, repo.Save(settings))
}

// recordingBroadcaster captures broadcast event types
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	keys   []string
}

func (p *recordingPublisher) Publish(ctx context.Context, key, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// fakeMailer stores messages instead of sending them
type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// fakeWhatsApp stores outgoing texts
type fakeWhatsApp struct {
	mu    sync.Mutex
	texts map[string]string
	err   error
}

func (w *fakeWhatsApp) SendText(ctx context.Context, to, body string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return "", w.err
	}
	if w.texts == nil {
		w.texts = make(map[string]string)
	}
	w.texts[to] = body
	return "wamid." + time.Now().Format("150405.000"), nil
}
