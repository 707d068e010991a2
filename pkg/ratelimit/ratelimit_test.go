package ratelimit

import (
	"testing"
	"time"
)

func TestLoginRateLimiter(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth attempt should be blocked")
	}
	if rl.Allow("5.6.7.8") == false {
		t.Fatal("other IPs are not affected")
	}
	if s := rl.RetryAfterSeconds("1.2.3.4"); s <= 0 || s > 61 {
		t.Errorf("retry after = %d", s)
	}

	rl.Reset("1.2.3.4")
	if !rl.Allow("1.2.3.4") {
		t.Fatal("reset should clear the counter")
	}
}

func TestFormatRetryMessage(t *testing.T) {
	if got := FormatRetryMessage(120); got != "2 minute(s)" {
		t.Errorf("got %q", got)
	}
	if got := FormatRetryMessage(45); got != "45 second(s)" {
		t.Errorf("got %q", got)
	}
}
