package services

import (
	"context"
	"errors"
	"log"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/jwt"
	"nfc-cooperative/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "invalid credentials")
	ErrInvalidToken       = domain.NewError(domain.ErrUnauthorized, "invalid token")
	ErrTokenExpired       = domain.NewError(domain.ErrUnauthorized, "token expired")
	ErrTokenRevoked       = domain.NewError(domain.ErrUnauthorized, "token revoked")
	ErrUserInactive       = domain.NewError(domain.ErrForbidden, "user account is inactive")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	auditRepo        *repositories.AuditRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(store *repositories.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:         store.Users,
		refreshTokenRepo: store.RefreshTokens,
		auditRepo:        store.Audit,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput, ip string) (*AuthResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logActivity(ctx, nil, input.Username, models.ActivityLoginFail, "unknown username", ip)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.PasswordHash) {
		s.logActivity(ctx, &user.ID, user.Username, models.ActivityLoginFail, "wrong password", ip)
		return nil, ErrInvalidCredentials
	}

	// 4. Generate and store tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("⚠️ Failed to update last login for %s: %v", user.Username, err)
	}
	user.LastLogin = &now
	s.logActivity(ctx, &user.ID, user.Username, models.ActivityLogin, "", ip)

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if storedToken.IsRevoked() {
		// A rotated token came back: end every session of the user
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, storedToken.UserID); err != nil {
			return nil, err
		}
		log.Printf("⚠️ Refresh token reuse detected for user ID %d, all sessions revoked", storedToken.UserID)
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Token rotation
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, actor Actor, refreshToken string) error {
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}
	s.logActivity(ctx, actor.userID(), actor.Username, models.ActivityLogout, "", actor.IP)

	log.Printf("✅ User logged out: %s", actor.Name())
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, actor Actor) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, actor.UserID); err != nil {
		return err
	}
	s.logActivity(ctx, actor.userID(), actor.Username, models.ActivityLogoutAll, "", actor.IP)

	log.Printf("✅ All sessions revoked for user ID: %d", actor.UserID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user.ToResponse(), nil
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		uint8(user.Permissions()),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}

func (s *AuthService) logActivity(ctx context.Context, userID *uint, username, activity, details, ip string) {
	entry := &models.ActivityLog{
		UserID:    userID,
		Username:  username,
		Activity:  activity,
		Details:   details,
		IPAddress: ip,
	}
	if err := s.auditRepo.CreateActivity(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write activity log: %v", err)
	}
}
