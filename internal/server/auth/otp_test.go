package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
)

func TestOTP_IssueAndRedeem(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(5*time.Minute, time.Minute)
	code, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if len(code) != otpLength {
		t.Fatalf("code length: got %d want %d", len(code), otpLength)
	}
	if err := s.Redeem(code); err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
}

func TestOTP_RedeemIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(5*time.Minute, time.Minute)
	code, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := s.Redeem(strings.ToLower(code)); err != nil {
		t.Fatalf("lowercase redeem failed: %v", err)
	}
}

func TestOTP_SingleUse(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(5*time.Minute, time.Minute)
	code, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := s.Redeem(code); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if err := s.Redeem(code); !errors.Is(err, common.ErrOTPUsed) {
		t.Fatalf("second redeem: got %v want ErrOTPUsed", err)
	}
}

func TestOTP_UnknownCode(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(5*time.Minute, time.Minute)
	if err := s.Redeem("NOTACODE"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("got %v want ErrUnauthorized", err)
	}
}

func TestOTP_Expired(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(-1*time.Second, time.Minute)
	code, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := s.Redeem(code); !errors.Is(err, common.ErrOTPExpired) {
		t.Fatalf("got %v want ErrOTPExpired", err)
	}
	// An expired entry is evicted on redeem, a retry is indistinguishable
	// from a code that never existed.
	if err := s.Redeem(code); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("retry after expiry: got %v want ErrUnauthorized", err)
	}
}

func TestOTP_Discard(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(5*time.Minute, time.Minute)
	code, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	s.Discard(code)
	if err := s.Redeem(code); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("discarded code redeemed: %v", err)
	}
}

func TestOTP_SweepEvictsExpiredAndUsed(t *testing.T) {
	t.Parallel()

	s := NewOTPStore(-1*time.Second, time.Minute)
	if _, err := s.Issue(); err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := s.Issue(); err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if got := s.outstanding(); got != 2 {
		t.Fatalf("outstanding before sweep: got %d want 2", got)
	}
	s.sweep()
	if got := s.outstanding(); got != 0 {
		t.Fatalf("outstanding after sweep: got %d want 0", got)
	}
}
