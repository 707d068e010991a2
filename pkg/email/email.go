// Package email, teklif gönderildiğinde müşteriye public linki email ile iletir.
//
// QuoteMailer interface'i ile gönderim detayları soyutlanır; service
// katmanı Resend'i bilmez. RESEND_API_KEY tanımlı değilse main.go
// mailer'ı hiç oluşturmaz ve gönderim adımı atlanır.
package email

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v3"
)

// QuoteEmail, teklif bildirim email'inin içeriği.
type QuoteEmail struct {
	To           string
	ClientName   string
	BusinessName string
	Title        string
	Amount       string // Biçimlendirilmiş toplam, ör: "USD 110.00"
	Link         string // Public teklif linki: {APP_URL}/q/{slug}
}

// QuoteMailer, teklif email'i gönderimi için interface.
type QuoteMailer interface {
	SendQuote(ctx context.Context, msg QuoteEmail) error
}

type resendMailer struct {
	client    *resend.Client
	fromEmail string // Resend'de doğrulanmış domain altında olmalı
}

// NewResendMailer, Resend API client'ı ile yeni bir QuoteMailer oluşturur.
func NewResendMailer(apiKey, fromEmail string) QuoteMailer {
	return &resendMailer{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (m *resendMailer) SendQuote(ctx context.Context, msg QuoteEmail) error {
	sender := msg.BusinessName
	if sender == "" {
		sender = "SentQuote"
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", sender, m.fromEmail),
		To:      []string{msg.To},
		Subject: fmt.Sprintf("Quote from %s: %s", sender, msg.Title),
		Html:    renderQuoteEmail(sender, msg),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send quote email: %w", err)
	}
	return nil
}

// renderQuoteEmail, kullanıcıdan gelen tüm alanları HTML-escape eder.
func renderQuoteEmail(sender string, msg QuoteEmail) string {
	link := html.EscapeString(msg.Link)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f8fafc;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f8fafc;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <p style="color:#0f172a;font-size:15px;margin:0 0 16px 0;">Hi %s,</p>
              <p style="color:#334155;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                %s sent you a quote for <strong>%s</strong> (%s).
              </p>
              <table cellpadding="0" cellspacing="0" style="margin:0 0 24px 0;">
                <tr>
                  <td style="background-color:#2563eb;border-radius:6px;padding:12px 32px;">
                    <a href="%s" style="color:#ffffff;text-decoration:none;font-size:15px;font-weight:600;">View quote</a>
                  </td>
                </tr>
              </table>
              <p style="color:#64748b;font-size:13px;line-height:1.6;margin:0;word-break:break-all;">
                If the button doesn't work, copy and paste this link:<br>
                <a href="%s" style="color:#2563eb;">%s</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
		html.EscapeString(msg.ClientName),
		html.EscapeString(sender),
		html.EscapeString(msg.Title),
		html.EscapeString(msg.Amount),
		link, link, link,
	)
}
