package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Shared errors
var (
	ErrMemberNotFound      = domain.NewError(domain.ErrNotFound, "member not found")
	ErrMemberDeceased      = domain.NewError(domain.ErrRuleViolation, "member is deceased")
	ErrMemberInactive      = domain.NewError(domain.ErrRuleViolation, "member is inactive")
	ErrAccountNotFound     = domain.NewError(domain.ErrNotFound, "savings account not found")
	ErrSavingsTypeNotFound = domain.NewError(domain.ErrNotFound, "savings type not found")
)

// Actor identifies the user performing an operation
type Actor struct {
	UserID   uint
	Username string
	IP       string
}

// SystemActor is used by scheduled jobs
var SystemActor = Actor{Username: "system"}

// Name returns the username recorded in created_by / modified_by columns
func (a Actor) Name() string {
	if a.Username == "" {
		return "system"
	}
	return a.Username
}

func (a Actor) userID() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// audit writes one audit_log row through the given store, so inside a
// transaction it commits or rolls back with the change it describes.
func audit(ctx context.Context, store *repositories.Store, actor Actor, action, entityType, entityID string, oldValues, newValues interface{}) error {
	entry := &models.AuditLog{
		UserID:     actor.userID(),
		Username:   actor.Name(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValues:  toJSON(oldValues),
		NewValues:  toJSON(newValues),
		IPAddress:  actor.IP,
	}
	return store.Audit.CreateAudit(ctx, entry)
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// notFound maps gorm's missing-row error to the given service error
func notFound(err error, mapped error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mapped
	}
	return err
}

// duplicate maps a unique-constraint violation to the given service error
func duplicate(err error, mapped error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return mapped
	}
	return err
}

// loadMember fetches a member and maps a missing row
func loadMember(ctx context.Context, store *repositories.Store, memberID string) (*models.Member, error) {
	member, err := store.Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return member, nil
}

// requireTransacting rejects members that may not take new postings
func requireTransacting(member *models.Member) error {
	if member.IsDeceased {
		return ErrMemberDeceased
	}
	if !member.IsActive {
		return ErrMemberInactive
	}
	return nil
}

// ledgerEntry describes one transactions row
type ledgerEntry struct {
	Member        *models.Member
	Type          string
	AccountType   string
	AccountID     uint
	Amount        decimal.Decimal
	IsCredit      bool
	Description   string
	PaymentMethod string
	ChequeNumber  string
	ReceiptNumber string
	Date          time.Time
}

// record writes a ledger row; the station is taken from the member
func record(ctx context.Context, store *repositories.Store, actor Actor, e ledgerEntry) (*models.Transaction, error) {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	if e.PaymentMethod == "" {
		e.PaymentMethod = domain.PaymentSystem
	}
	txn := &models.Transaction{
		TransactionDate: e.Date,
		MemberID:        e.Member.MemberID,
		StationID:       e.Member.StationID,
		TransactionType: e.Type,
		AccountType:     e.AccountType,
		AccountID:       e.AccountID,
		Description:     e.Description,
		Amount:          e.Amount,
		IsCredit:        e.IsCredit,
		PaymentMethod:   e.PaymentMethod,
		ChequeNumber:    e.ChequeNumber,
		ReceiptNumber:   e.ReceiptNumber,
		CreatedBy:       actor.Name(),
	}
	if err := store.Transactions.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ErrInvalidDate is returned for dates not in YYYY-MM-DD or RFC 3339 form
var ErrInvalidDate = domain.NewError(domain.ErrInvalidInput, "invalid date, expected YYYY-MM-DD")

// ParseDate parses an optional date; an empty string yields nil
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func timeOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now()
	}
	return *t
}
