package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/pkg/cache"
	"github.com/akinalp/sentquote/pkg/payment"
	"github.com/akinalp/sentquote/ws"
)

func newTestPayments(t *testing.T, env *testEnv, gw payment.Gateway, pub ws.EventPublisher) PaymentService {
	t.Helper()
	processed := cache.New[string, time.Time](WebhookDedupTTL, time.Minute)
	t.Cleanup(processed.Close)
	return NewPaymentService(env.stores, env.tx, gw, pub, processed, "https://app.test")
}

func paidEvent(id, quoteID string, amount int64) *payment.WebhookEvent {
	meta := map[string]string{}
	if quoteID != "" {
		meta[payment.MetaQuoteID] = quoteID
	}
	return &payment.WebhookEvent{
		ID:   id,
		Type: payment.EventCheckoutCompleted,
		Checkout: &payment.CheckoutCompleted{
			SessionID:     "cs_test_1",
			Metadata:      meta,
			AmountTotal:   amount,
			PaymentIntent: "pi_test_1",
		},
	}
}

func TestInitiatePaymentNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestPayments(t, env, nil, nil)

	if _, err := svc.InitiatePayment(context.Background(), "whatever"); !errors.Is(err, pkg.ErrPaymentsNotConfigured) {
		t.Fatalf("err = %v, want ErrPaymentsNotConfigured", err)
	}
}

func TestInitiatePaymentBuildsCheckout(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	gw := &fakeGateway{}
	svc := newTestPayments(t, env, gw, nil)
	ctx := context.Background()

	q := env.sentQuote(t, owner)
	url, err := svc.InitiatePayment(ctx, q.Slug)
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if url != "https://checkout.test/cs_test_1" {
		t.Fatalf("url = %s", url)
	}

	req := gw.checkouts[0]
	if req.Mode != payment.ModePayment || req.Amount != 11000 || req.Currency != "usd" {
		t.Fatalf("checkout = %+v", req)
	}
	if req.ProductName != "Website redesign" || req.Description != "Quote from Acme Studio" {
		t.Fatalf("product = %q / %q", req.ProductName, req.Description)
	}
	if req.SuccessURL != "https://app.test/q/"+q.Slug+"?paid=true" || req.CancelURL != "https://app.test/q/"+q.Slug+"?cancelled=true" {
		t.Fatalf("redirects = %s / %s", req.SuccessURL, req.CancelURL)
	}
	if req.Metadata[payment.MetaQuoteID] != q.ID || req.Metadata[payment.MetaQuoteSlug] != q.Slug || req.CustomerEmail != "ada@example.com" {
		t.Fatalf("metadata = %v email = %s", req.Metadata, req.CustomerEmail)
	}
}

func TestInitiatePaymentChargesDeposit(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	gw := &fakeGateway{}
	svc := newTestPayments(t, env, gw, nil)
	ctx := context.Background()

	quotes := env.quoteService(nil)
	req := newQuoteRequest()
	req.DepositPercent = 25
	q, err := quotes.Create(ctx, owner.ID, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.InitiatePayment(ctx, q.Slug); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("draft payment err = %v, want ErrNotFound", err)
	}

	if _, err := quotes.Send(ctx, q.ID, owner.ID); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := svc.InitiatePayment(ctx, q.Slug); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if got := gw.checkouts[0]; got.Amount != 2750 || got.ProductName != "Website redesign (Deposit)" {
		t.Fatalf("checkout = %d %q", got.Amount, got.ProductName)
	}
}

func TestInitiatePaymentProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	gw := &fakeGateway{checkoutErr: errors.New("stripe: card_declined")}
	svc := newTestPayments(t, env, gw, nil)

	q := env.sentQuote(t, owner)
	if _, err := svc.InitiatePayment(context.Background(), q.Slug); !errors.Is(err, pkg.ErrPaymentSetup) {
		t.Fatalf("err = %v, want ErrPaymentSetup", err)
	}
}

func TestWebhookMarksQuotePaid(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	pub := &recordingPublisher{}
	gw := &fakeGateway{}
	svc := newTestPayments(t, env, gw, pub)
	ctx := context.Background()

	q := env.sentQuote(t, owner)
	gw.webhook = paidEvent("evt_1", q.ID, 11000)

	if err := svc.ReconcileWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("ReconcileWebhook: %v", err)
	}

	stored, _ := env.stores.Quotes.GetByID(ctx, q.ID)
	if stored.Status != models.QuoteStatusPaid || stored.PaidAt == nil {
		t.Fatalf("status=%s paid_at=%v", stored.Status, stored.PaidAt)
	}
	if stored.PaidAmount == nil || *stored.PaidAmount != 11000 {
		t.Fatalf("paid_amount = %v", stored.PaidAmount)
	}
	if stored.StripePaymentIntent == nil || *stored.StripePaymentIntent != "pi_test_1" {
		t.Fatalf("payment intent = %v", stored.StripePaymentIntent)
	}
	if n := env.pendingFollowups(t, q.ID); n != 0 {
		t.Fatalf("pending followups = %d", n)
	}

	events, _ := env.stores.Events.ListByQuote(ctx, q.ID, 10)
	if events[0].EventType != models.EventPaid {
		t.Fatalf("latest event = %s", events[0].EventType)
	}
	var meta struct {
		Amount        int64  `json:"amount"`
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.Unmarshal(events[0].Metadata, &meta); err != nil || meta.Amount != 11000 || meta.PaymentIntent != "pi_test_1" {
		t.Fatalf("paid metadata = %s (%v)", events[0].Metadata, err)
	}

	if ops := pub.ops(owner.ID); len(ops) != 1 || ops[0] != ws.OpQuotePaid {
		t.Fatalf("published ops = %v", ops)
	}
}

func TestWebhookWithoutMetadataDoesNothing(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	gw := &fakeGateway{}
	svc := newTestPayments(t, env, gw, nil)
	ctx := context.Background()

	q := env.sentQuote(t, owner)
	gw.webhook = paidEvent("evt_2", "", 11000)

	if err := svc.ReconcileWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("ReconcileWebhook: %v", err)
	}
	stored, _ := env.stores.Quotes.GetByID(ctx, q.ID)
	if stored.Status != models.QuoteStatusSent || stored.PaidAmount != nil {
		t.Fatalf("quote mutated: status=%s paid=%v", stored.Status, stored.PaidAmount)
	}

	// Bilinmeyen teklif ve bilinmeyen event türü de hatasız kabul edilir.
	gw.webhook = paidEvent("evt_3", "missing-quote", 500)
	if err := svc.ReconcileWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("unknown quote: %v", err)
	}
	gw.webhook = &payment.WebhookEvent{ID: "evt_4", Type: "invoice.paid"}
	if err := svc.ReconcileWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("unknown type: %v", err)
	}
}

func TestWebhookIgnoresDraftAndPaidQuotes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	gw := &fakeGateway{}
	svc := newTestPayments(t, env, gw, nil)
	ctx := context.Background()

	draft, err := env.quoteService(nil).Create(ctx, owner.ID, newQuoteRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	gw.webhook = paidEvent("evt_draft", draft.ID, 11000)
	if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("draft webhook: %v", err)
	}
	stored, _ := env.stores.Quotes.GetByID(ctx, draft.ID)
	if stored.Status != models.QuoteStatusDraft {
		t.Fatalf("draft became %s", stored.Status)
	}

	q := env.sentQuote(t, owner)
	gw.webhook = paidEvent("evt_a", q.ID, 11000)
	if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("first: %v", err)
	}
	// Farklı event ID ile ikinci ödeme: teklif artık payable değil.
	gw.webhook = paidEvent("evt_b", q.ID, 999)
	if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("second: %v", err)
	}
	stored, _ = env.stores.Quotes.GetByID(ctx, q.ID)
	if *stored.PaidAmount != 11000 {
		t.Fatalf("paid_amount overwritten: %d", *stored.PaidAmount)
	}
	events, _ := env.stores.Events.ListByQuote(ctx, q.ID, 10)
	paid := 0
	for _, e := range events {
		if e.EventType == models.EventPaid {
			paid++
		}
	}
	if paid != 1 {
		t.Fatalf("paid events = %d, want 1", paid)
	}
}

func TestWebhookDeduplicatesEventIDs(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	pub := &recordingPublisher{}
	gw := &fakeGateway{}
	svc := newTestPayments(t, env, gw, pub)
	ctx := context.Background()

	q := env.sentQuote(t, owner)
	gw.webhook = paidEvent("evt_dup", q.ID, 11000)

	for i := 0; i < 3; i++ {
		if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}
	if ops := pub.ops(owner.ID); len(ops) != 1 {
		t.Fatalf("published %d times, want 1", len(ops))
	}
}

func TestWebhookBadSignature(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestPayments(t, env, &fakeGateway{}, nil)

	if err := svc.ReconcileWebhook(context.Background(), []byte(`{}`), "bad"); !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestWebhookWithoutStripeIsAcknowledged(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestPayments(t, env, nil, nil)

	if err := svc.ReconcileWebhook(context.Background(), []byte(`garbage`), ""); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}

func TestWebhookUpgradesPlan(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	gw := &fakeGateway{webhook: &payment.WebhookEvent{
		ID:   "evt_sub",
		Type: payment.EventCheckoutCompleted,
		Checkout: &payment.CheckoutCompleted{
			Metadata:    map[string]string{payment.MetaUserID: owner.ID},
			AmountTotal: 2900,
		},
	}}
	svc := newTestPayments(t, env, gw, nil)
	ctx := context.Background()

	if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("ReconcileWebhook: %v", err)
	}
	user, _ := env.stores.Users.GetByID(ctx, owner.ID)
	if user.Plan != models.PlanPro {
		t.Fatalf("plan = %s, want pro", user.Plan)
	}
}

func TestWebhookAccountUpdated(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	ctx := context.Background()
	if err := env.stores.Users.SetStripeAccount(ctx, owner.ID, "acct_42"); err != nil {
		t.Fatalf("SetStripeAccount: %v", err)
	}

	gw := &fakeGateway{webhook: &payment.WebhookEvent{
		ID:      "evt_acct_pending",
		Type:    payment.EventAccountUpdated,
		Account: &payment.AccountUpdate{AccountID: "acct_42", ChargesEnabled: false},
	}}
	svc := newTestPayments(t, env, gw, nil)

	if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("pending account: %v", err)
	}
	user, _ := env.stores.Users.GetByID(ctx, owner.ID)
	if user.StripeConnected {
		t.Fatal("connected before charges were enabled")
	}

	gw.webhook = &payment.WebhookEvent{
		ID:      "evt_acct_ready",
		Type:    payment.EventAccountUpdated,
		Account: &payment.AccountUpdate{AccountID: "acct_42", ChargesEnabled: true},
	}
	if err := svc.ReconcileWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("ready account: %v", err)
	}
	user, _ = env.stores.Users.GetByID(ctx, owner.ID)
	if !user.StripeConnected {
		t.Fatal("stripe_connected not set")
	}
}
