package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
)

const (
	otpLength  = 8
	otpCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type otpEntry struct {
	expiresAt time.Time
	used      bool
}

// OTPStore holds outstanding one-time passcodes in process memory only: a
// restart invalidates every outstanding code, and multiple server instances
// do not share codes (deployments behind a load balancer need session
// affinity). A background sweep evicts expired and used entries.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]*otpEntry

	ttl        time.Duration
	sweepEvery time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

// NewOTPStore creates a store issuing codes valid for ttl, swept every
// sweepEvery.
func NewOTPStore(ttl, sweepEvery time.Duration) *OTPStore {
	return &OTPStore{
		entries:    make(map[string]*otpEntry),
		ttl:        ttl,
		sweepEvery: sweepEvery,
		done:       make(chan struct{}),
	}
}

// Start launches the background sweep. It returns immediately; the sweep
// stops when ctx is cancelled or Stop is called.
func (s *OTPStore) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the background sweep. Safe to call more than once.
func (s *OTPStore) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Issue generates and registers a new 8-character alphanumeric code.
func (s *OTPStore) Issue() (string, error) {
	var b strings.Builder
	for i := 0; i < otpLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(otpCharset))))
		if err != nil {
			return "", fmt.Errorf("generating otp: %w", err)
		}
		b.WriteByte(otpCharset[n.Int64()])
	}
	code := b.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[strings.ToUpper(code)] = &otpEntry{
		expiresAt: time.Now().Add(s.ttl),
	}
	return code, nil
}

// Redeem consumes a code, case-insensitively. A code redeems exactly once;
// redeeming after the TTL fails with common.ErrOTPExpired regardless of
// correctness.
func (s *OTPStore) Redeem(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToUpper(code)
	entry, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("%w: invalid otp", common.ErrUnauthorized)
	}
	if entry.used {
		return common.ErrOTPUsed
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return common.ErrOTPExpired
	}
	entry.used = true
	return nil
}

// Discard removes a code outright, e.g. when delivering it by email failed.
func (s *OTPStore) Discard(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.ToUpper(code))
}

func (s *OTPStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if entry.used || now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// outstanding reports the number of live entries; test hook.
func (s *OTPStore) outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
