package repositories

import (
	"context"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountActiveByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, memberID string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	List(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Member, error)
	ExistsByRegistrationNumber(ctx context.Context, regNo string) (bool, error)
	ListChargeable(ctx context.Context, excludeMemberID string) ([]*models.Member, error)
	CountByStatus(ctx context.Context) (*MemberCounts, error)
	Summary(ctx context.Context, memberID string) (*models.MemberSummary, error)
	ListSummaries(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.MemberSummary, int64, error)
}

// MemberFilter narrows member listings
type MemberFilter struct {
	StationID  string
	ActiveOnly bool
	Status     string // active | inactive | deceased
}

// MemberCounts holds member totals by lifecycle status
type MemberCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Deceased int64 `json:"deceased"`
}

// LoanFilter narrows loan listings
type LoanFilter struct {
	MemberID   string
	Status     string
	LoanTypeID uint
}

// TransactionFilter narrows ledger listings
type TransactionFilter struct {
	MemberID        string
	StationID       string
	TransactionType string
	AccountType     string
	From            *time.Time
	To              *time.Time
}

// BankFilter narrows bank book listings
type BankFilter struct {
	AccountNumber string
	Reconciled    *bool
	From          *time.Time
	To            *time.Time
}

// AuditFilter narrows audit listings
type AuditFilter struct {
	UserID     uint
	EntityType string
	EntityID   string
	Action     string
	From       *time.Time
	To         *time.Time
}
