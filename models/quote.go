package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// QuoteStatus, teklifin yaşam döngüsündeki yeri.
// Sadece ileri gider: draft → sent → accepted → paid.
// Ödeme accepted'ı atlayıp doğrudan sent'ten de gelebilir.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusPaid     QuoteStatus = "paid"
)

// Rank, status'ün yaşam döngüsündeki sırası. Geri gitme kontrolü için.
func (s QuoteStatus) Rank() int {
	switch s {
	case QuoteStatusDraft:
		return 0
	case QuoteStatusSent:
		return 1
	case QuoteStatusAccepted:
		return 2
	case QuoteStatusPaid:
		return 3
	default:
		return -1
	}
}

// Payable, müşterinin bu status'teki bir teklif için ödeme başlatıp
// başlatamayacağını döner.
func (s QuoteStatus) Payable() bool {
	return s == QuoteStatusSent || s == QuoteStatusAccepted
}

const (
	DefaultCurrency = "usd"

	// Limitler
	maxTitleLength      = 200
	maxClientNameLength = 120
	maxLineItems        = 100
	maxValidDays        = 3650
	maxQuantity         = 1_000_000
	maxUnitPrice        = 1_000_000_000
	maxTaxRate          = 100
)

// LineItem, teklifteki tek bir kalem. UnitPrice major unit'tir (ör: 50.00),
// toplamlar minor unit'e (cent) çevrilerek hesaplanır.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Quote, bir satış teklifi. Tüm para alanları minor unit (cent) cinsindendir.
//
// Slug, public link'te (/q/{slug}) kullanılan 8 karakterlik kimliktir
// ve oluşturulduktan sonra değişmez.
type Quote struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"user_id"`
	Slug                string      `json:"slug"`
	ClientName          string      `json:"client_name"`
	ClientEmail         string      `json:"client_email"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	LineItems           []LineItem  `json:"line_items"`
	Subtotal            int64       `json:"subtotal"`
	TaxRate             float64     `json:"tax_rate"`
	TaxAmount           int64       `json:"tax_amount"`
	Total               int64       `json:"total"`
	DepositPercent      float64     `json:"deposit_percent"`
	DepositAmount       int64       `json:"deposit_amount"`
	Currency            string      `json:"currency"`
	ValidUntil          *time.Time  `json:"valid_until"`
	Status              QuoteStatus `json:"status"`
	AcceptedAt          *time.Time  `json:"accepted_at"`
	PaidAt              *time.Time  `json:"paid_at"`
	PaidAmount          *int64      `json:"paid_amount"`
	StripePaymentIntent *string     `json:"stripe_payment_intent"`
	ViewCount           int         `json:"view_count"`
	FirstViewedAt       *time.Time  `json:"first_viewed_at"`
	LastViewedAt        *time.Time  `json:"last_viewed_at"`
	Notes               string      `json:"notes"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// PaymentAmount, müşteriden tahsil edilecek tutar: depozito varsa
// depozito, yoksa toplam.
func (q *Quote) PaymentAmount() int64 {
	if q.DepositAmount > 0 {
		return q.DepositAmount
	}
	return q.Total
}

// QuoteDetail, tek bir teklifin sahibine dönen görünümü: teklif,
// en yeni 50 event ve takip mesajları.
type QuoteDetail struct {
	*Quote
	Events    []QuoteEvent `json:"events"`
	Followups []Followup   `json:"followups"`
}

// PublicQuote, müşteriye (public link) gösterilen projeksiyon.
// Sahibin iç alanları (view sayacı, ödeme detayları, user_id) dahil değildir.
type PublicQuote struct {
	ID             string      `json:"id"`
	Slug           string      `json:"slug"`
	BusinessName   string      `json:"business_name"`
	SenderEmail    string      `json:"sender_email"`
	ClientName     string      `json:"client_name"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	LineItems      []LineItem  `json:"line_items"`
	Subtotal       int64       `json:"subtotal"`
	TaxRate        float64     `json:"tax_rate"`
	TaxAmount      int64       `json:"tax_amount"`
	Total          int64       `json:"total"`
	DepositPercent float64     `json:"deposit_percent"`
	DepositAmount  int64       `json:"deposit_amount"`
	Currency       string      `json:"currency"`
	ValidUntil     *time.Time  `json:"valid_until"`
	Status         QuoteStatus `json:"status"`
	Notes          string      `json:"notes"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewPublicQuote, teklif ve sahibinden public projeksiyonu üretir.
func NewPublicQuote(q *Quote, owner *User) *PublicQuote {
	return &PublicQuote{
		ID:             q.ID,
		Slug:           q.Slug,
		BusinessName:   owner.BusinessName,
		SenderEmail:    owner.Email,
		ClientName:     q.ClientName,
		Title:          q.Title,
		Description:    q.Description,
		LineItems:      q.LineItems,
		Subtotal:       q.Subtotal,
		TaxRate:        q.TaxRate,
		TaxAmount:      q.TaxAmount,
		Total:          q.Total,
		DepositPercent: q.DepositPercent,
		DepositAmount:  q.DepositAmount,
		Currency:       q.Currency,
		ValidUntil:     q.ValidUntil,
		Status:         q.Status,
		Notes:          q.Notes,
		CreatedAt:      q.CreatedAt,
	}
}

// CreateQuoteRequest, yeni teklif oluştururken gelen veri.
type CreateQuoteRequest struct {
	ClientName     string     `json:"client_name"`
	ClientEmail    string     `json:"client_email"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	LineItems      []LineItem `json:"line_items"`
	TaxRate        float64    `json:"tax_rate"`
	DepositPercent float64    `json:"deposit_percent"`
	ValidDays      *int       `json:"valid_days"`
	Notes          string     `json:"notes"`
	Currency       string     `json:"currency"`
}

// Validate, zorunlu alanları ve sayısal sınırları kontrol eder.
// Currency boşsa "usd" atanır.
func (r *CreateQuoteRequest) Validate() error {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ClientEmail = strings.TrimSpace(r.ClientEmail)
	r.Title = strings.TrimSpace(r.Title)

	if r.ClientName == "" || r.ClientEmail == "" || r.Title == "" || len(r.LineItems) == 0 {
		return fmt.Errorf("client_name, client_email, title and line_items are required")
	}
	if err := validateClient(r.ClientName, r.ClientEmail); err != nil {
		return err
	}
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if err := validateLineItems(r.LineItems); err != nil {
		return err
	}
	if err := validateRates(r.TaxRate, r.DepositPercent); err != nil {
		return err
	}
	if r.ValidDays != nil {
		if err := validateValidDays(*r.ValidDays); err != nil {
			return err
		}
	}

	currency, err := normalizeCurrency(r.Currency)
	if err != nil {
		return err
	}
	r.Currency = currency
	return nil
}

// UpdateQuoteRequest, kısmi güncelleme. Body'de olmayan alan korunur,
// null gönderilen opsiyonel alan temizlenir (bkz. Optional).
type UpdateQuoteRequest struct {
	ClientName     Optional[string]     `json:"client_name"`
	ClientEmail    Optional[string]     `json:"client_email"`
	Title          Optional[string]     `json:"title"`
	Description    Optional[string]     `json:"description"`
	LineItems      Optional[[]LineItem] `json:"line_items"`
	TaxRate        Optional[float64]    `json:"tax_rate"`
	DepositPercent Optional[float64]    `json:"deposit_percent"`
	ValidDays      Optional[int]        `json:"valid_days"`
	Notes          Optional[string]     `json:"notes"`
	Currency       Optional[string]     `json:"currency"`
}

// Validate, gönderilen alanları kontrol eder. Zorunlu metin alanları
// boş veya null yapılamaz.
func (r *UpdateQuoteRequest) Validate() error {
	required := []struct {
		name  string
		field *Optional[string]
	}{
		{"client_name", &r.ClientName},
		{"client_email", &r.ClientEmail},
		{"title", &r.Title},
	}
	for _, f := range required {
		if !f.field.Set {
			continue
		}
		f.field.Value = strings.TrimSpace(f.field.Value)
		if f.field.Null || f.field.Value == "" {
			return fmt.Errorf("%s cannot be empty", f.name)
		}
	}

	// Gönderilmeyen alan "" olarak kalır; validateClient boş değeri atlar.
	if err := validateClient(r.ClientName.Value, r.ClientEmail.Value); err != nil {
		return err
	}
	if r.Title.Set {
		if err := validateTitle(r.Title.Value); err != nil {
			return err
		}
	}
	if r.LineItems.Set {
		if r.LineItems.Null || len(r.LineItems.Value) == 0 {
			return fmt.Errorf("line_items cannot be empty")
		}
		if err := validateLineItems(r.LineItems.Value); err != nil {
			return err
		}
	}
	if err := validateRates(r.TaxRate.Value, r.DepositPercent.Value); err != nil {
		return err
	}
	if r.ValidDays.Present() {
		if err := validateValidDays(r.ValidDays.Value); err != nil {
			return err
		}
	}
	if r.Currency.Set {
		currency, err := normalizeCurrency(r.Currency.Value)
		if err != nil {
			return err
		}
		r.Currency.Value = currency
	}
	return nil
}

// RecomputesTotals, güncellemenin para alanlarını yeniden hesaplatıp
// hesaplatmayacağını döner.
func (r *UpdateQuoteRequest) RecomputesTotals() bool {
	return r.LineItems.Set || r.TaxRate.Set || r.DepositPercent.Set
}

func validateClient(name, email string) error {
	if utf8.RuneCountInString(name) > maxClientNameLength {
		return fmt.Errorf("client_name must be at most %d characters", maxClientNameLength)
	}
	if email != "" && !validEmail(strings.ToLower(email)) {
		return fmt.Errorf("invalid client_email format")
	}
	return nil
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("title must be at most %d characters", maxTitleLength)
	}
	return nil
}

func validateLineItems(items []LineItem) error {
	if len(items) > maxLineItems {
		return fmt.Errorf("a quote can have at most %d line items", maxLineItems)
	}
	for i, item := range items {
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return fmt.Errorf("line item %d: quantity and unit_price must not be negative", i+1)
		}
		if item.Quantity > maxQuantity {
			return fmt.Errorf("line item %d: quantity must be at most %d", i+1, maxQuantity)
		}
		if item.UnitPrice > maxUnitPrice {
			return fmt.Errorf("line item %d: unit_price must be at most %d", i+1, maxUnitPrice)
		}
	}
	return nil
}

func validateRates(taxRate, depositPercent float64) error {
	if taxRate < 0 || taxRate > maxTaxRate {
		return fmt.Errorf("tax_rate must be between 0 and %d", maxTaxRate)
	}
	if depositPercent < 0 || depositPercent > 100 {
		return fmt.Errorf("deposit_percent must be between 0 and 100")
	}
	return nil
}

func validateValidDays(days int) error {
	if days < 0 || days > maxValidDays {
		return fmt.Errorf("valid_days must be between 0 and %d", maxValidDays)
	}
	return nil
}

// normalizeCurrency, ISO 4217 kodunu küçük harfe çevirir; boşsa "usd".
func normalizeCurrency(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	if len(code) != 3 {
		return "", fmt.Errorf("currency must be a 3-letter code")
	}
	for _, ch := range code {
		if ch < 'a' || ch > 'z' {
			return "", fmt.Errorf("currency must be a 3-letter code")
		}
	}
	return code, nil
}
