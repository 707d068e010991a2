// Package models, uygulamanın domain modellerini tanımlar.
//
// Her struct hem veritabanı satırının Go karşılığıdır hem de API'den
// gelen/giden JSON'un şeklini belirler. JSON alanları snake_case'dir.
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// maxPasswordBytes, bcrypt'in kabul ettiği en uzun parola.
const maxPasswordBytes = 72

// UserPlan, kullanıcının abonelik planı.
type UserPlan string

const (
	PlanFree UserPlan = "free"
	PlanPro  UserPlan = "pro"
)

// User, bir hesap sahibini (teklif gönderen işletme) temsil eder.
// Kullanıcılar hiç silinmez.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // API response'a DAHİL ETME
	BusinessName    string    `json:"business_name"`
	StripeAccountID *string   `json:"-"`
	StripeConnected bool      `json:"stripe_connected"`
	Plan            UserPlan  `json:"plan"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RegisterRequest, kayıt olurken frontend'den gelen veri.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
}

// Validate, email'i normalize eder (trim + lowercase) ve alanları kontrol eder.
//   - Email: zorunlu, geçerli format
//   - Password: minimum 8 karakter, en fazla 72 byte
//   - BusinessName: opsiyonel, max 120 karakter
func (r *RegisterRequest) Validate() error {
	if r.Email = normalizeEmail(r.Email); r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if !validEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	// bcrypt 72 byte üstünü kabul etmez; çok baytlı karakterler de sayılır.
	if len(r.Password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}

	r.BusinessName = strings.TrimSpace(r.BusinessName)
	if utf8.RuneCountInString(r.BusinessName) > 120 {
		return fmt.Errorf("business name must be at most 120 characters")
	}
	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail, "ad <x@y>" gibi display name'li adresleri reddeder;
// sadece çıplak adres kabul edilir.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
