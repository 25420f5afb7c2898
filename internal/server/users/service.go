// Package users handles admin authentication: OTP issuance, OTP-based login,
// and refresh-token rotation against the stored user document.
package users

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/mail"
	"github.com/chdeepakkumar/portfolio/internal/server/auth"
	"github.com/chdeepakkumar/portfolio/internal/server/config"
	"github.com/chdeepakkumar/portfolio/internal/server/models"
	"github.com/chdeepakkumar/portfolio/internal/server/repository"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service provides the authentication flow for the single admin account.
type Service struct {
	repo   *repository.Repository
	otp    *auth.OTPStore
	mailer mail.Sender
	logger logging.Logger

	adminEmail    string
	otpPassword   string
	jwtSecret     []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewService constructs the user service from repositories and server config.
func NewService(repo *repository.Repository, otp *auth.OTPStore, mailer mail.Sender, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:          repo,
		otp:           otp,
		mailer:        mailer,
		logger:        logger.With("component", "users"),
		adminEmail:    cfg.AdminEmail,
		otpPassword:   cfg.OTPPassword,
		jwtSecret:     []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// RequestOTP checks the shared password, issues a fresh code, and mails it to
// the admin address. A code whose delivery fails is discarded so it can never
// be redeemed.
func (s *Service) RequestOTP(ctx context.Context, password string) error {
	if s.otpPassword == "" {
		return fmt.Errorf("%w: OTP_PASSWORD is not set", common.ErrConfig)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.otpPassword)) != 1 {
		return fmt.Errorf("%w: invalid password", common.ErrUnauthorized)
	}

	code, err := s.otp.Issue()
	if err != nil {
		return err
	}
	if err := s.mailer.SendOTP(ctx, s.adminEmail, code); err != nil {
		s.otp.Discard(code)
		return fmt.Errorf("delivering otp: %w", err)
	}
	s.logger.Info(ctx, "otp issued and mailed")
	return nil
}

// Login redeems an OTP and, on success, mints a token pair for the admin
// account. The refresh token is persisted on the user document so it can be
// checked on refresh.
func (s *Service) Login(ctx context.Context, code string) (*TokenPair, *models.UserAccount, error) {
	if err := s.otp.Redeem(code); err != nil {
		return nil, nil, err
	}

	doc, err := s.repo.ReadUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	admin := doc.Admin()
	if admin == nil {
		return nil, nil, fmt.Errorf("%w: admin user not found", common.ErrRepository)
	}

	access, err := auth.GenerateToken(admin.ID, admin.Username, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("minting access token: %w", err)
	}
	refresh, err := auth.GenerateToken(admin.ID, admin.Username, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("minting refresh token: %w", err)
	}

	admin.RefreshToken = refresh
	if err := s.repo.WriteUsers(ctx, doc); err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "admin logged in", "user", admin.Username)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, admin, nil
}

// Refresh validates a refresh token against both its signature and the copy
// stored on the user document, then mints a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ParseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return "", err
	}

	doc, err := s.repo.ReadUsers(ctx)
	if err != nil {
		return "", err
	}
	user := doc.ByID(claims.UserID)
	if user == nil || user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return "", common.ErrInvalidToken
	}

	return auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.accessTTL)
}
