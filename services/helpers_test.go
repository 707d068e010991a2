package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg/email"
	"github.com/akinalp/sentquote/pkg/payment"
	"github.com/akinalp/sentquote/repository"
	"github.com/akinalp/sentquote/ws"
)

// fixedNow, testlerde kullanılan sabit saat.
var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	stores *repository.Stores
	tx     repository.Transactor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "services.db"), database.Migrations())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &testEnv{
		stores: repository.NewSQLiteStores(db.Conn),
		tx:     repository.NewSQLiteTransactor(db.Conn),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "hash", BusinessName: "Acme Studio"}
	if err := e.stores.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) quoteService(mailer email.QuoteMailer) *quoteService {
	svc := NewQuoteService(e.stores, e.tx, mailer, "https://app.test").(*quoteService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// newQuoteRequest, 2 × 50.00 kalem ve %10 vergi: 10000 / 1000 / 11000.
func newQuoteRequest() *models.CreateQuoteRequest {
	return &models.CreateQuoteRequest{
		ClientName:  "Ada Lovelace",
		ClientEmail: "ada@example.com",
		Title:       "Website redesign",
		LineItems:   []models.LineItem{{Description: "Design", Quantity: 2, UnitPrice: 50}},
		TaxRate:     10,
	}
}

// sentQuote, oluşturulmuş ve gönderilmiş bir teklif döner.
func (e *testEnv) sentQuote(t *testing.T, owner *models.User) *models.Quote {
	t.Helper()
	svc := e.quoteService(nil)
	q, err := svc.Create(context.Background(), owner.ID, newQuoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if q, err = svc.Send(context.Background(), q.ID, owner.ID); err != nil {
		t.Fatalf("send quote: %v", err)
	}
	return q
}

func (e *testEnv) pendingFollowups(t *testing.T, quoteID string) int {
	t.Helper()
	followups, err := e.stores.Followups.ListByQuote(context.Background(), quoteID)
	if err != nil {
		t.Fatalf("list followups: %v", err)
	}
	n := 0
	for _, f := range followups {
		if f.Status == models.FollowupPending {
			n++
		}
	}
	return n
}

// ─── Fakes ───

type fakeGateway struct {
	mu sync.Mutex

	checkouts   []payment.CheckoutRequest
	accounts    []string
	links       []string
	webhook     *payment.WebhookEvent
	checkoutErr error
	accountErr  error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	g.checkouts = append(g.checkouts, req)
	return &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func (g *fakeGateway) CreateConnectedAccount(_ context.Context, email string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.accountErr != nil {
		return "", g.accountErr
	}
	g.accounts = append(g.accounts, email)
	return "acct_test_1", nil
}

func (g *fakeGateway) CreateOnboardingLink(_ context.Context, accountID, refreshURL, returnURL string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.links = append(g.links, refreshURL, returnURL)
	return "https://connect.test/" + accountID, nil
}

// ParseWebhook, "bad" imzasını reddeder, aksi halde hazırlanmış event'i döner.
func (g *fakeGateway) ParseWebhook(_ []byte, signature string) (*payment.WebhookEvent, error) {
	if signature == "bad" {
		return nil, errors.New("signature mismatch")
	}
	if g.webhook == nil {
		return nil, errors.New("no event configured")
	}
	return g.webhook, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]ws.Event
}

func (p *recordingPublisher) BroadcastToUser(userID string, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string][]ws.Event)
	}
	p.events[userID] = append(p.events[userID], event)
}

func (p *recordingPublisher) ops(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ops []string
	for _, e := range p.events[userID] {
		ops = append(ops, e.Op)
	}
	return ops
}

type fakeMailer struct {
	sent []email.QuoteEmail
	err  error
}

func (m *fakeMailer) SendQuote(_ context.Context, msg email.QuoteEmail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
