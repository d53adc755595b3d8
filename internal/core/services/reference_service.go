package services

import (
	"context"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Reference data errors
var (
	ErrLoanTypeNotFound = domain.NewError(domain.ErrNotFound, "loan type not found")
	ErrTypeCodeExists   = domain.NewError(domain.ErrDuplicateEntry, "type code already exists")
	ErrTypeCodeRequired = domain.NewError(domain.ErrInvalidInput, "type code and name are required")
)

// ReferenceService manages savings and loan types
type ReferenceService struct {
	store *repositories.Store
}

// NewReferenceService creates a new reference data service
func NewReferenceService(store *repositories.Store) *ReferenceService {
	return &ReferenceService{store: store}
}

// SavingsTypeInput creates or updates a savings type
type SavingsTypeInput struct {
	TypeCode     string          `json:"type_code"`
	TypeName     string          `json:"type_name"`
	Description  string          `json:"description"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// LoanTypeInput creates or updates a loan type
type LoanTypeInput struct {
	TypeCode          string          `json:"type_code"`
	TypeName          string          `json:"type_name"`
	Description       string          `json:"description"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	MaxDurationMonths int             `json:"max_duration_months"`
	MaxAmount         decimal.Decimal `json:"max_amount"`
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return domain.ErrInvalidPercentage
	}
	return nil
}

// ListSavingsTypes lists savings types
func (s *ReferenceService) ListSavingsTypes(ctx context.Context, activeOnly bool) ([]*models.SavingsType, error) {
	return s.store.SavingsTypes.List(ctx, activeOnly)
}

// GetSavingsType returns one savings type
func (s *ReferenceService) GetSavingsType(ctx context.Context, id uint) (*models.SavingsType, error) {
	st, err := s.store.SavingsTypes.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSavingsTypeNotFound)
	}
	return st, nil
}

// CreateSavingsType adds a savings product
func (s *ReferenceService) CreateSavingsType(ctx context.Context, actor Actor, input *SavingsTypeInput) (*models.SavingsType, error) {
	code := normalizeCode(input.TypeCode)
	if code == "" || strings.TrimSpace(input.TypeName) == "" {
		return nil, ErrTypeCodeRequired
	}
	if err := validRate(input.InterestRate); err != nil {
		return nil, err
	}

	st := &models.SavingsType{
		TypeCode:     code,
		TypeName:     strings.TrimSpace(input.TypeName),
		Description:  input.Description,
		InterestRate: input.InterestRate,
		IsActive:     true,
	}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		exists, err := tx.SavingsTypes.ExistsByCode(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			return ErrTypeCodeExists
		}
		if err := tx.SavingsTypes.Create(ctx, st); err != nil {
			return duplicate(err, ErrTypeCodeExists)
		}
		return audit(ctx, tx, actor, models.AuditCreate, "savings_types", code, nil, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateSavingsType changes name, description or rate. The code is fixed.
func (s *ReferenceService) UpdateSavingsType(ctx context.Context, actor Actor, id uint, input *SavingsTypeInput) (*models.SavingsType, error) {
	if err := validRate(input.InterestRate); err != nil {
		return nil, err
	}
	var st *models.SavingsType
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		st, err = tx.SavingsTypes.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrSavingsTypeNotFound)
		}
		before := *st
		if name := strings.TrimSpace(input.TypeName); name != "" {
			st.TypeName = name
		}
		st.Description = input.Description
		st.InterestRate = input.InterestRate
		if err := tx.SavingsTypes.Update(ctx, st); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditUpdate, "savings_types", st.TypeCode, before, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// SetSavingsTypeActive activates or deactivates a savings type
func (s *ReferenceService) SetSavingsTypeActive(ctx context.Context, actor Actor, id uint, active bool) error {
	return s.store.WithTx(ctx, func(tx *repositories.Store) error {
		st, err := tx.SavingsTypes.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrSavingsTypeNotFound)
		}
		if err := tx.SavingsTypes.SetActive(ctx, id, active); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "savings_types", st.TypeCode,
			map[string]bool{"is_active": st.IsActive}, map[string]bool{"is_active": active})
	})
}

// ListLoanTypes lists loan types
func (s *ReferenceService) ListLoanTypes(ctx context.Context, activeOnly bool) ([]*models.LoanType, error) {
	return s.store.LoanTypes.List(ctx, activeOnly)
}

// GetLoanType returns one loan type
func (s *ReferenceService) GetLoanType(ctx context.Context, id uint) (*models.LoanType, error) {
	lt, err := s.store.LoanTypes.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLoanTypeNotFound)
	}
	return lt, nil
}

// CreateLoanType adds a loan product
func (s *ReferenceService) CreateLoanType(ctx context.Context, actor Actor, input *LoanTypeInput) (*models.LoanType, error) {
	code := normalizeCode(input.TypeCode)
	if code == "" || strings.TrimSpace(input.TypeName) == "" {
		return nil, ErrTypeCodeRequired
	}
	if err := validRate(input.InterestRate); err != nil {
		return nil, err
	}
	if input.MaxDurationMonths < 1 {
		return nil, domain.ErrInvalidDuration
	}
	if input.MaxAmount.IsNegative() {
		return nil, domain.ErrNonPositiveAmount
	}

	lt := &models.LoanType{
		TypeCode:          code,
		TypeName:          strings.TrimSpace(input.TypeName),
		Description:       input.Description,
		InterestRate:      input.InterestRate,
		MaxDurationMonths: input.MaxDurationMonths,
		MaxAmount:         input.MaxAmount,
		IsActive:          true,
	}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		exists, err := tx.LoanTypes.ExistsByCode(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			return ErrTypeCodeExists
		}
		if err := tx.LoanTypes.Create(ctx, lt); err != nil {
			return duplicate(err, ErrTypeCodeExists)
		}
		return audit(ctx, tx, actor, models.AuditCreate, "loan_types", code, nil, lt)
	})
	if err != nil {
		return nil, err
	}
	return lt, nil
}

// UpdateLoanType changes terms of a loan type. Existing loans keep the
// terms they were issued with.
func (s *ReferenceService) UpdateLoanType(ctx context.Context, actor Actor, id uint, input *LoanTypeInput) (*models.LoanType, error) {
	if err := validRate(input.InterestRate); err != nil {
		return nil, err
	}
	if input.MaxDurationMonths < 1 {
		return nil, domain.ErrInvalidDuration
	}
	var lt *models.LoanType
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		lt, err = tx.LoanTypes.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrLoanTypeNotFound)
		}
		before := *lt
		if name := strings.TrimSpace(input.TypeName); name != "" {
			lt.TypeName = name
		}
		lt.Description = input.Description
		lt.InterestRate = input.InterestRate
		lt.MaxDurationMonths = input.MaxDurationMonths
		if !input.MaxAmount.IsNegative() {
			lt.MaxAmount = input.MaxAmount
		}
		if err := tx.LoanTypes.Update(ctx, lt); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditUpdate, "loan_types", lt.TypeCode, before, lt)
	})
	if err != nil {
		return nil, err
	}
	return lt, nil
}

// SetLoanTypeActive activates or deactivates a loan type
func (s *ReferenceService) SetLoanTypeActive(ctx context.Context, actor Actor, id uint, active bool) error {
	return s.store.WithTx(ctx, func(tx *repositories.Store) error {
		lt, err := tx.LoanTypes.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrLoanTypeNotFound)
		}
		if err := tx.LoanTypes.SetActive(ctx, id, active); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "loan_types", lt.TypeCode,
			map[string]bool{"is_active": lt.IsActive}, map[string]bool{"is_active": active})
	})
}
