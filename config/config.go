// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Email    EmailConfig
	Log      LogConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
	// AppURL, public link'lerin (ör: /q/{slug}) ve Stripe redirect URL'lerinin
	// üretildiği taban adres. Sonunda "/" olmamalı.
	AppURL         string
	AllowedOrigins []string
	// TrustedProxies, X-Forwarded-For'u okumaya yetkili proxy adresleri.
	// Boşsa forwarding header'ları yok sayılır.
	TrustedProxies []netip.Prefix
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/sentquote.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret     string // Token imzalama anahtarı — GİZLİ TUTULMALI
	ExpiryDays int    // Gün cinsinden (varsayılan: 30)
}

// StripeConfig, ödeme sağlayıcısı ayarları.
// SecretKey boşsa ödeme endpoint'leri "payments not configured" döner.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string // Boşsa webhook imzası doğrulanmaz (local development)
	ProAmount     int64  // Pro plan aylık ücreti, minor unit (varsayılan: 2900)
	Currency      string
}

// Enabled, Stripe'ın yapılandırılıp yapılandırılmadığını döner.
func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

// EmailConfig, Resend ayarları. İkisi de doluysa quote gönderiminde
// müşteriye email atılır.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
}

// Enabled, email gönderiminin aktif olup olmadığını döner.
func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromEmail != ""
}

// LogConfig, zap logger ayarları.
type LogConfig struct {
	Level string // debug, info, warn, error
	Env   string // development | production
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, sessizce devam eder.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	expiryDays, err := strconv.Atoi(getEnv("JWT_EXPIRY_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DAYS: %w", err)
	}
	if expiryDays <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DAYS: must be positive")
	}

	proAmount, err := strconv.ParseInt(getEnv("BILLING_PRO_AMOUNT", "2900"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_PRO_AMOUNT: %w", err)
	}

	trustedProxies, err := parsePrefixes(splitList(getEnv("TRUSTED_PROXIES", "")))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AppURL:         strings.TrimRight(getEnv("APP_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
			TrustedProxies: trustedProxies,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/sentquote.db"),
		},
		JWT: JWTConfig{
			Secret:     jwtSecret,
			ExpiryDays: expiryDays,
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			ProAmount:     proAmount,
			Currency:      strings.ToLower(getEnv("BILLING_CURRENCY", "usd")),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("RESEND_FROM", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("APP_ENV", "development"),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:3001").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePrefixes, CIDR veya tek IP kabul eder ("10.0.0.0/8", "127.0.0.1").
func parsePrefixes(raw []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, r := range raw {
		if strings.Contains(r, "/") {
			prefix, err := netip.ParsePrefix(r)
			if err != nil {
				return nil, err
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(r)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
