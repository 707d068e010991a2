package services

import (
	"context"
	"fmt"

	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/pkg/payment"
	"github.com/akinalp/sentquote/repository"
	"go.uber.org/zap"
)

// BillingPlan, Pro abonelik fiyatı (minor unit) ve para birimi.
type BillingPlan struct {
	Amount   int64
	Currency string
}

// AccountService, satıcının Stripe Connect bağlantısı ve Pro aboneliği.
type AccountService interface {
	// ConnectStripe, Express hesap açar (yoksa) ve onboarding URL'i döner.
	ConnectStripe(ctx context.Context, userID string) (string, error)
	// SubscriptionCheckout, Pro plan için abonelik checkout URL'i döner.
	SubscriptionCheckout(ctx context.Context, userID string) (string, error)
}

type accountService struct {
	users   repository.UserRepository
	gateway payment.Gateway
	plan    BillingPlan
	appURL  string
	log     *zap.Logger
}

// NewAccountService, constructor. gateway nil ise iki metot da
// ErrPaymentsNotConfigured döner.
func NewAccountService(users repository.UserRepository, gateway payment.Gateway, plan BillingPlan, appURL string) AccountService {
	return &accountService{
		users:   users,
		gateway: gateway,
		plan:    plan,
		appURL:  appURL,
		log:     zap.L().Named("billing"),
	}
}

func (s *accountService) ConnectStripe(ctx context.Context, userID string) (string, error) {
	if s.gateway == nil {
		return "", pkg.ErrPaymentsNotConfigured
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	// Yarım kalmış onboarding'e dönen kullanıcıya yeni hesap açılmaz.
	var accountID string
	if user.StripeAccountID != nil && *user.StripeAccountID != "" {
		accountID = *user.StripeAccountID
	} else {
		accountID, err = s.gateway.CreateConnectedAccount(ctx, user.Email)
		if err != nil {
			s.log.Error("connected account creation failed", zap.String("user_id", userID), zap.Error(err))
			return "", fmt.Errorf("%w: failed to setup Stripe", pkg.ErrPaymentSetup)
		}
		if err := s.users.SetStripeAccount(ctx, userID, accountID); err != nil {
			return "", err
		}
	}

	settings := s.appURL + "/dashboard/settings"
	url, err := s.gateway.CreateOnboardingLink(ctx, accountID, settings, settings+"?stripe=connected")
	if err != nil {
		s.log.Error("onboarding link failed", zap.String("account_id", accountID), zap.Error(err))
		return "", fmt.Errorf("%w: failed to setup Stripe", pkg.ErrPaymentSetup)
	}
	return url, nil
}

func (s *accountService) SubscriptionCheckout(ctx context.Context, userID string) (string, error) {
	if s.gateway == nil {
		return "", pkg.ErrPaymentsNotConfigured
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Mode:          payment.ModeSubscription,
		ProductName:   "SentQuote Pro",
		Description:   "Unlimited quotes, payment collection, auto follow-ups",
		Amount:        s.plan.Amount,
		Currency:      s.plan.Currency,
		Interval:      "month",
		CustomerEmail: user.Email,
		SuccessURL:    s.appURL + "/dashboard?upgraded=true",
		CancelURL:     s.appURL + "/dashboard/settings",
		Metadata:      map[string]string{payment.MetaUserID: user.ID},
	})
	if err != nil {
		s.log.Error("subscription checkout failed", zap.String("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("%w: checkout failed", pkg.ErrPaymentSetup)
	}
	return session.URL, nil
}
