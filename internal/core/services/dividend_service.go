package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Dividend errors
var (
	ErrDividendNotFound    = domain.NewError(domain.ErrNotFound, "dividend not found")
	ErrDividendNotDeclared = domain.NewError(domain.ErrRuleViolation, "dividend is not in Declared status")
	ErrInvalidYear         = domain.NewError(domain.ErrInvalidInput, "invalid financial year")
)

// DividendService declares and pays year-end dividends on shares
type DividendService struct {
	store *repositories.Store
}

// NewDividendService creates a new dividend service
func NewDividendService(store *repositories.Store) *DividendService {
	return &DividendService{store: store}
}

// DeclareInput declares a dividend for a financial year
type DeclareInput struct {
	FinancialYear int             `json:"financial_year"`
	Rate          decimal.Decimal `json:"rate"`
}

// DeclareResult summarizes a declaration
type DeclareResult struct {
	FinancialYear int                `json:"financial_year"`
	Declared      int                `json:"declared"`
	Skipped       int                `json:"skipped"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Dividends     []*models.Dividend `json:"dividends"`
}

// PayAllResult summarizes a bulk payment
type PayAllResult struct {
	FinancialYear int             `json:"financial_year"`
	Paid          int             `json:"paid"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Declare creates one Declared dividend per active member holding shares.
// Members that already have a dividend for the year are skipped.
func (s *DividendService) Declare(ctx context.Context, actor Actor, input *DeclareInput) (*DeclareResult, error) {
	if input.FinancialYear < 1900 || input.FinancialYear > time.Now().Year()+1 {
		return nil, ErrInvalidYear
	}
	if input.Rate.IsNegative() || input.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidPercentage
	}

	result := &DeclareResult{FinancialYear: input.FinancialYear, TotalAmount: decimal.Zero, Dividends: []*models.Dividend{}}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		members, err := tx.Members.ListChargeable(ctx, "")
		if err != nil {
			return err
		}
		today := dayOf(time.Now())

		for _, m := range members {
			shares, err := tx.Savings.GetByMemberAndCode(ctx, m.MemberID, domain.SavingsShares)
			if err = notFound(err, nil); err != nil {
				return err
			}
			if shares == nil || !shares.IsActive || !shares.CurrentBalance.IsPositive() {
				continue
			}

			exists, err := tx.Dividends.ExistsForYear(ctx, m.MemberID, input.FinancialYear)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			amount, err := domain.ComputeDividend(shares.CurrentBalance, input.Rate)
			if err != nil {
				return err
			}
			d := &models.Dividend{
				MemberID:        m.MemberID,
				FinancialYear:   input.FinancialYear,
				SharesBalance:   shares.CurrentBalance,
				DividendRate:    input.Rate,
				DividendAmount:  amount,
				DeclarationDate: today,
				Status:          string(domain.DividendDeclared),
				CreatedBy:       actor.Name(),
			}
			if err := tx.Dividends.Create(ctx, d); err != nil {
				return err
			}
			result.Declared++
			result.TotalAmount = result.TotalAmount.Add(amount)
			result.Dividends = append(result.Dividends, d)
		}

		return audit(ctx, tx, actor, models.AuditCreate, "dividends", fmt.Sprint(input.FinancialYear), nil, map[string]interface{}{
			"rate":         input.Rate,
			"declared":     result.Declared,
			"total_amount": result.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Dividend %d declared at %s%%: %d members, total %s",
		input.FinancialYear, input.Rate.String(), result.Declared, result.TotalAmount.StringFixed(2))
	return result, nil
}

// Pay credits a declared dividend to the member's PREMIUM savings
func (s *DividendService) Pay(ctx context.Context, actor Actor, dividendID uint) (*models.Dividend, error) {
	var dividend *models.Dividend
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		dividend, err = tx.Dividends.GetByIDForUpdate(ctx, dividendID)
		if err != nil {
			return notFound(err, ErrDividendNotFound)
		}
		return payDividend(ctx, tx, actor, dividend)
	})
	if err != nil {
		return nil, err
	}
	return dividend, nil
}

// PayAll pays every Declared dividend of a year
func (s *DividendService) PayAll(ctx context.Context, actor Actor, year int) (*PayAllResult, error) {
	result := &PayAllResult{FinancialYear: year, TotalAmount: decimal.Zero}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		declared, err := tx.Dividends.List(ctx, year, string(domain.DividendDeclared), "")
		if err != nil {
			return err
		}
		for _, d := range declared {
			if err := payDividend(ctx, tx, actor, d); err != nil {
				return fmt.Errorf("dividend %d for %s: %w", d.ID, d.MemberID, err)
			}
			result.Paid++
			result.TotalAmount = result.TotalAmount.Add(d.DividendAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Dividend %d paid: %d members, total %s", year, result.Paid, result.TotalAmount.StringFixed(2))
	return result, nil
}

func payDividend(ctx context.Context, tx *repositories.Store, actor Actor, d *models.Dividend) error {
	if d.Status != string(domain.DividendDeclared) {
		return ErrDividendNotDeclared
	}
	member, err := loadMember(ctx, tx, d.MemberID)
	if err != nil {
		return err
	}

	if d.DividendAmount.IsPositive() {
		account, err := ensureAccount(ctx, tx, actor, member, domain.SavingsPremium)
		if err != nil {
			return err
		}
		if account, err = tx.Savings.GetByIDForUpdate(ctx, account.ID); err != nil {
			return err
		}
		if _, err := creditSavings(ctx, tx, actor, account, ledgerEntry{
			Member:      member,
			Type:        domain.TxnDividendPayment,
			Amount:      d.DividendAmount,
			Description: fmt.Sprintf("Dividend %d @ %s%%", d.FinancialYear, d.DividendRate.String()),
		}); err != nil {
			return err
		}
	}

	paid := dayOf(time.Now())
	d.Status = string(domain.DividendPaid)
	d.PaymentDate = &paid
	if err := tx.Dividends.Update(ctx, d); err != nil {
		return err
	}
	return audit(ctx, tx, actor, models.AuditStatusChange, "dividends", fmt.Sprint(d.ID),
		map[string]string{"status": string(domain.DividendDeclared)}, map[string]string{"status": d.Status})
}

// Cancel withdraws a Declared dividend
func (s *DividendService) Cancel(ctx context.Context, actor Actor, dividendID uint) (*models.Dividend, error) {
	var dividend *models.Dividend
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		dividend, err = tx.Dividends.GetByIDForUpdate(ctx, dividendID)
		if err != nil {
			return notFound(err, ErrDividendNotFound)
		}
		if dividend.Status != string(domain.DividendDeclared) {
			return ErrDividendNotDeclared
		}
		dividend.Status = string(domain.DividendCancelled)
		if err := tx.Dividends.Update(ctx, dividend); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "dividends", fmt.Sprint(dividend.ID),
			map[string]string{"status": string(domain.DividendDeclared)}, map[string]string{"status": dividend.Status})
	})
	if err != nil {
		return nil, err
	}
	return dividend, nil
}

// Get returns one dividend
func (s *DividendService) Get(ctx context.Context, id uint) (*models.Dividend, error) {
	d, err := s.store.Dividends.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDividendNotFound)
	}
	return d, nil
}

// List lists dividends by year, status and member
func (s *DividendService) List(ctx context.Context, year int, status, memberID string) ([]*models.Dividend, error) {
	return s.store.Dividends.List(ctx, year, status, memberID)
}
