package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: title is required", ErrBadRequest), http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: expired", ErrInvalidToken), http.StatusUnauthorized},
		{fmt.Errorf("%w: quote", ErrNotFound), http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{fmt.Errorf("%w: stripe down", ErrPaymentSetup), http.StatusBadGateway},
		{ErrPaymentsNotConfigured, http.StatusServiceUnavailable},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Errorf("StatusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("sqlite: database is locked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatal("success should be false")
	}
	if resp.Error != "internal server error" {
		t.Fatalf("error = %q, internal details leaked", resp.Error)
	}
}

func TestErrorKeepsDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("%w: quote not found", ErrNotFound))

	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusNotFound || resp.Error != "not found: quote not found" {
		t.Fatalf("got %d %q", rec.Code, resp.Error)
	}
}
