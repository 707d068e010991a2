package models

import "time"

// FollowupStatus, takip mesajının durumu. "sent"e geçiren bir dispatcher
// yoktur; satırlar pending kalır ya da iptal edilir.
type FollowupStatus string

const (
	FollowupPending   FollowupStatus = "pending"
	FollowupSent      FollowupStatus = "sent"
	FollowupCancelled FollowupStatus = "cancelled"
)

// Followup, gönderilmiş bir teklif için zamanlanmış hatırlatma.
type Followup struct {
	ID          int64          `json:"id"`
	QuoteID     string         `json:"quote_id"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	SentAt      *time.Time     `json:"sent_at"`
	Message     string         `json:"message"`
	Status      FollowupStatus `json:"status"`
}

// DueFollowup, CLI'nin listelediği vadesi gelmiş takip mesajı.
type DueFollowup struct {
	Followup
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	ClientEmail string `json:"client_email"`
}
