package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/money"
	"nfc-cooperative/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// Loan errors
var (
	ErrLoanNotFound       = domain.NewError(domain.ErrNotFound, "loan not found")
	ErrLoanTypeInactive   = domain.NewError(domain.ErrRuleViolation, "loan type is inactive")
	ErrLoanAboveMaximum   = domain.NewError(domain.ErrRuleViolation, "principal exceeds the loan type maximum")
	ErrLoanNotPending     = domain.NewError(domain.ErrRuleViolation, "only pending loans can be disbursed")
	ErrLoanNotRepayable   = domain.NewError(domain.ErrRuleViolation, "loan does not accept repayments")
	ErrOverpayment        = domain.NewError(domain.ErrRuleViolation, "amount exceeds the outstanding balance")
	ErrLoanNotAdjustable  = domain.NewError(domain.ErrRuleViolation, "only open loans can be adjusted")
	ErrAdjustmentZero     = domain.NewError(domain.ErrInvalidInput, "adjustment must not be zero")
	ErrAdjustmentTooLarge = domain.NewError(domain.ErrRuleViolation, "waiver exceeds the outstanding balance")
	ErrAdjustmentReason   = domain.NewError(domain.ErrInvalidInput, "adjustment reason is required")
	ErrLoanInconsistent   = domain.NewError(domain.ErrRuleViolation, "loan totals are inconsistent")
)

// LoanService manages the loan lifecycle
type LoanService struct {
	store *repositories.Store
}

// NewLoanService creates a new loan service
func NewLoanService(store *repositories.Store) *LoanService {
	return &LoanService{store: store}
}

// ApplyLoanInput is a loan application
type ApplyLoanInput struct {
	MemberID        string          `json:"member_id" validate:"required"`
	LoanTypeID      uint            `json:"loan_type_id"`
	TypeCode        string          `json:"type_code"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	DurationMonths  int             `json:"duration_months"`
	ApplicationDate string          `json:"application_date"`
	Purpose         string          `json:"purpose"`
}

// DisburseInput carries the payout details
type DisburseInput struct {
	DisbursementDate string `json:"disbursement_date"`
	StartDate        string `json:"start_date"`
	ChequeNumber     string `json:"cheque_number"`
	BankName         string `json:"bank_name"`
	PaymentMethod    string `json:"payment_method"`
}

// IssueLoanInput applies and disburses in one step
type IssueLoanInput struct {
	ApplyLoanInput
	DisburseInput
}

// RepayInput is one repayment
type RepayInput struct {
	Amount           decimal.Decimal `json:"amount"`
	AllowOverpayment bool            `json:"allow_overpayment"`
	PaymentDate      string          `json:"payment_date"`
	PaymentMethod    string          `json:"payment_method"`
	ChequeNumber     string          `json:"cheque_number"`
	ReceiptNumber    string          `json:"receipt_number"`
	Notes            string          `json:"notes"`
}

// AdjustInput raises (positive) or waives (negative) part of a loan
type AdjustInput struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason"`
}

// RepaymentResult returns the loan after a repayment
type RepaymentResult struct {
	Loan        *models.Loan          `json:"loan"`
	Repayment   *models.LoanRepayment `json:"repayment"`
	Transaction *models.Transaction   `json:"transaction"`
}

// SweepResult summarizes an overdue sweep
type SweepResult struct {
	Checked   int `json:"checked"`
	Defaulted int `json:"defaulted"`
	Failed    int `json:"failed"`
}

// Quote computes the terms of a prospective loan without saving anything
func (s *LoanService) Quote(ctx context.Context, loanTypeID uint, principal decimal.Decimal, months int) (*domain.LoanTerms, error) {
	lt, err := s.store.LoanTypes.GetByID(ctx, loanTypeID)
	if err != nil {
		return nil, notFound(err, ErrLoanTypeNotFound)
	}
	if months > lt.MaxDurationMonths {
		return nil, domain.ErrInvalidDuration
	}
	terms, err := domain.ComputeLoanTerms(money.Round(principal), lt.InterestRate, months)
	if err != nil {
		return nil, err
	}
	return &terms, nil
}

// Apply records a Pending loan with flat-rate terms from its loan type
func (s *LoanService) Apply(ctx context.Context, actor Actor, input *ApplyLoanInput) (*models.Loan, error) {
	var loan *models.Loan
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		loan, err = applyLoan(ctx, tx, actor, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Loan application %s recorded for %s", loan.LoanNumber, loan.MemberID)
	return loan, nil
}

// Disburse pays out a Pending loan and makes it Active
func (s *LoanService) Disburse(ctx context.Context, actor Actor, loanID uint, input *DisburseInput) (*models.Loan, error) {
	var loan *models.Loan
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		loan, err = tx.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return notFound(err, ErrLoanNotFound)
		}
		return disburseLoan(ctx, tx, actor, loan, input)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Loan %s disbursed: %s", loan.LoanNumber, loan.PrincipalAmount.StringFixed(2))
	return loan, nil
}

// Issue applies for and disburses a loan in one transaction
func (s *LoanService) Issue(ctx context.Context, actor Actor, input *IssueLoanInput) (*models.Loan, error) {
	var loan *models.Loan
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		loan, err = applyLoan(ctx, tx, actor, &input.ApplyLoanInput)
		if err != nil {
			return err
		}
		return disburseLoan(ctx, tx, actor, loan, &input.DisburseInput)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Loan %s issued to %s: %s", loan.LoanNumber, loan.MemberID, loan.PrincipalAmount.StringFixed(2))
	return loan, nil
}

func applyLoan(ctx context.Context, tx *repositories.Store, actor Actor, input *ApplyLoanInput) (*models.Loan, error) {
	member, err := loadMember(ctx, tx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if err := requireTransacting(member); err != nil {
		return nil, err
	}

	var lt *models.LoanType
	if input.LoanTypeID != 0 {
		lt, err = tx.LoanTypes.GetByID(ctx, input.LoanTypeID)
	} else {
		lt, err = tx.LoanTypes.GetByCode(ctx, normalizeCode(input.TypeCode))
	}
	if err != nil {
		return nil, notFound(err, ErrLoanTypeNotFound)
	}
	if !lt.IsActive {
		return nil, ErrLoanTypeInactive
	}

	principal := money.Round(input.PrincipalAmount)
	if input.DurationMonths > lt.MaxDurationMonths {
		return nil, domain.ErrInvalidDuration
	}
	if lt.MaxAmount.IsPositive() && principal.GreaterThan(lt.MaxAmount) {
		return nil, ErrLoanAboveMaximum
	}
	terms, err := domain.ComputeLoanTerms(principal, lt.InterestRate, input.DurationMonths)
	if err != nil {
		return nil, err
	}

	applied, err := ParseDate(input.ApplicationDate)
	if err != nil {
		return nil, err
	}

	seq, err := tx.Loans.CountByMember(ctx, member.MemberID)
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		LoanNumber:         fmt.Sprintf("L-%s-%04d", member.MemberID, seq+1),
		MemberID:           member.MemberID,
		LoanTypeID:         lt.ID,
		PrincipalAmount:    principal,
		InterestRate:       lt.InterestRate,
		InterestAmount:     terms.InterestAmount,
		TotalAmount:        terms.TotalAmount,
		MonthlyInstallment: terms.MonthlyInstallment,
		DurationMonths:     input.DurationMonths,
		AmountPaid:         decimal.Zero,
		BalanceOutstanding: terms.TotalAmount,
		ApplicationDate:    dayOf(timeOrNow(applied)),
		Purpose:            strings.TrimSpace(input.Purpose),
		Status:             string(domain.LoanPending),
		IsActive:           true,
		CreatedBy:          actor.Name(),
	}
	if err := tx.Loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	loan.LoanType = lt
	return loan, audit(ctx, tx, actor, models.AuditCreate, "loans", loan.LoanNumber, nil, loan)
}

func disburseLoan(ctx context.Context, tx *repositories.Store, actor Actor, loan *models.Loan, input *DisburseInput) error {
	if !domain.LoanStatus(loan.Status).CanTransition(domain.LoanActive) {
		return ErrLoanNotPending
	}
	member, err := loadMember(ctx, tx, loan.MemberID)
	if err != nil {
		return err
	}
	if err := requireTransacting(member); err != nil {
		return err
	}

	disbursed, err := ParseDate(input.DisbursementDate)
	if err != nil {
		return err
	}
	start, err := ParseDate(input.StartDate)
	if err != nil {
		return err
	}
	disbursedOn := dayOf(timeOrNow(disbursed))
	startOn := disbursedOn
	if start != nil {
		startOn = dayOf(*start)
	}
	endOn := startOn.AddDate(0, loan.DurationMonths, 0)

	loan.Status = string(domain.LoanActive)
	loan.DisbursementDate = &disbursedOn
	loan.StartDate = &startOn
	loan.EndDate = &endOn
	loan.ChequeNumber = input.ChequeNumber
	loan.BankName = input.BankName
	if err := tx.Loans.Update(ctx, loan); err != nil {
		return err
	}

	method := input.PaymentMethod
	if method == "" && input.ChequeNumber != "" {
		method = domain.PaymentCheque
	}
	if _, err := record(ctx, tx, actor, ledgerEntry{
		Member:        member,
		Type:          domain.TxnLoanDisbursement,
		AccountType:   domain.AccountLoan,
		AccountID:     loan.ID,
		Amount:        loan.PrincipalAmount,
		IsCredit:      true,
		Description:   fmt.Sprintf("Loan disbursement - %s", loan.LoanNumber),
		PaymentMethod: method,
		ChequeNumber:  input.ChequeNumber,
		Date:          disbursedOn,
	}); err != nil {
		return err
	}

	return audit(ctx, tx, actor, models.AuditStatusChange, "loans", loan.LoanNumber,
		map[string]string{"status": string(domain.LoanPending)}, map[string]string{"status": loan.Status})
}

// Repay posts a repayment. An amount above the balance is rejected unless
// overpayment is allowed by the caller or by the allow_loan_overpayment
// setting; the excess is then kept on the repayment row and the balance
// stops at zero.
func (s *LoanService) Repay(ctx context.Context, actor Actor, loanID uint, input *RepayInput) (*RepaymentResult, error) {
	amount := money.Round(input.Amount)
	if !amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	paid, err := ParseDate(input.PaymentDate)
	if err != nil {
		return nil, err
	}

	result := &RepaymentResult{}
	err = s.store.WithTx(ctx, func(tx *repositories.Store) error {
		loan, err := tx.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return notFound(err, ErrLoanNotFound)
		}
		if !domain.LoanStatus(loan.Status).AcceptsRepayment() {
			return ErrLoanNotRepayable
		}
		member, err := loadMember(ctx, tx, loan.MemberID)
		if err != nil {
			return err
		}
		if member.IsDeceased {
			return ErrMemberDeceased
		}

		before := loan.BalanceOutstanding
		applied, over := amount, decimal.Zero
		if amount.GreaterThan(before) {
			allowed := input.AllowOverpayment
			if !allowed {
				settings, err := readBusiness(ctx, tx)
				if err != nil {
					return err
				}
				allowed = settings.AllowLoanOverpayment
			}
			if !allowed {
				return ErrOverpayment
			}
			applied, over = before, amount.Sub(before)
		}

		loan.AmountPaid = loan.AmountPaid.Add(applied)
		loan.BalanceOutstanding = before.Sub(applied)
		if !loan.Consistent() {
			return ErrLoanInconsistent
		}
		previous := loan.Status
		if loan.BalanceOutstanding.IsZero() {
			loan.Status = string(domain.LoanCompleted)
		}
		if err := tx.Loans.Update(ctx, loan); err != nil {
			return err
		}

		payDate := dayOf(timeOrNow(paid))
		repayment := &models.LoanRepayment{
			LoanID:            loan.ID,
			MemberID:          loan.MemberID,
			PaymentDate:       payDate,
			ExpectedAmount:    decimal.Min(loan.MonthlyInstallment, before),
			ActualAmount:      amount,
			OverpaymentAmount: over,
			BalanceBefore:     before,
			BalanceAfter:      loan.BalanceOutstanding,
			PaymentMethod:     input.PaymentMethod,
			ChequeNumber:      input.ChequeNumber,
			ReceiptNumber:     input.ReceiptNumber,
			Notes:             input.Notes,
			CreatedBy:         actor.Name(),
		}
		if err := tx.Loans.CreateRepayment(ctx, repayment); err != nil {
			return err
		}

		txn, err := record(ctx, tx, actor, ledgerEntry{
			Member:        member,
			Type:          domain.TxnLoanRepayment,
			AccountType:   domain.AccountLoan,
			AccountID:     loan.ID,
			Amount:        amount,
			IsCredit:      false,
			Description:   fmt.Sprintf("Loan repayment - %s", loan.LoanNumber),
			PaymentMethod: input.PaymentMethod,
			ChequeNumber:  input.ChequeNumber,
			ReceiptNumber: input.ReceiptNumber,
			Date:          payDate,
		})
		if err != nil {
			return err
		}

		if loan.Status != previous {
			if err := audit(ctx, tx, actor, models.AuditStatusChange, "loans", loan.LoanNumber,
				map[string]string{"status": previous}, map[string]string{"status": loan.Status}); err != nil {
				return err
			}
		}

		result.Loan, result.Repayment, result.Transaction = loan, repayment, txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Loan.Status == string(domain.LoanCompleted) {
		log.Printf("✅ Loan %s fully repaid", result.Loan.LoanNumber)
	}
	return result, nil
}

// Adjust changes what is owed on an open loan through its interest amount,
// so total = principal + interest and balance = total - paid still hold
func (s *LoanService) Adjust(ctx context.Context, actor Actor, loanID uint, input *AdjustInput) (*models.Loan, error) {
	delta := money.Round(input.Delta)
	if delta.IsZero() {
		return nil, ErrAdjustmentZero
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrAdjustmentReason
	}

	var loan *models.Loan
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		loan, err = tx.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return notFound(err, ErrLoanNotFound)
		}
		if !domain.LoanStatus(loan.Status).AcceptsRepayment() {
			return ErrLoanNotAdjustable
		}
		member, err := loadMember(ctx, tx, loan.MemberID)
		if err != nil {
			return err
		}
		if member.IsDeceased {
			return ErrMemberDeceased
		}
		if delta.IsNegative() && delta.Abs().GreaterThan(loan.BalanceOutstanding) {
			return ErrAdjustmentTooLarge
		}

		before := map[string]decimal.Decimal{
			"interest_amount":     loan.InterestAmount,
			"total_amount":        loan.TotalAmount,
			"balance_outstanding": loan.BalanceOutstanding,
		}
		loan.InterestAmount = loan.InterestAmount.Add(delta)
		loan.TotalAmount = loan.TotalAmount.Add(delta)
		loan.BalanceOutstanding = loan.BalanceOutstanding.Add(delta)
		if !loan.Consistent() {
			return ErrLoanInconsistent
		}
		if loan.BalanceOutstanding.IsZero() {
			loan.Status = string(domain.LoanCompleted)
		}
		if err := tx.Loans.Update(ctx, loan); err != nil {
			return err
		}

		if _, err := record(ctx, tx, actor, ledgerEntry{
			Member:      member,
			Type:        domain.TxnLoanAdjustment,
			AccountType: domain.AccountLoan,
			AccountID:   loan.ID,
			Amount:      delta.Abs(),
			IsCredit:    delta.IsPositive(),
			Description: fmt.Sprintf("Loan adjustment - %s: %s", loan.LoanNumber, reason),
		}); err != nil {
			return err
		}

		after := map[string]interface{}{
			"interest_amount":     loan.InterestAmount,
			"total_amount":        loan.TotalAmount,
			"balance_outstanding": loan.BalanceOutstanding,
			"reason":              reason,
		}
		return audit(ctx, tx, actor, models.AuditUpdate, "loans", loan.LoanNumber, before, after)
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// MarkDefaulted moves an Active loan to Defaulted
func (s *LoanService) MarkDefaulted(ctx context.Context, actor Actor, loanID uint) (*models.Loan, error) {
	var loan *models.Loan
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		loan, err = tx.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return notFound(err, ErrLoanNotFound)
		}
		return markDefaulted(ctx, tx, actor, loan)
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func markDefaulted(ctx context.Context, tx *repositories.Store, actor Actor, loan *models.Loan) error {
	if !domain.LoanStatus(loan.Status).CanTransition(domain.LoanDefaulted) {
		return domain.ErrInvalidTransition
	}
	previous := loan.Status
	loan.Status = string(domain.LoanDefaulted)
	if err := tx.Loans.Update(ctx, loan); err != nil {
		return err
	}
	return audit(ctx, tx, actor, models.AuditStatusChange, "loans", loan.LoanNumber,
		map[string]string{"status": previous}, map[string]string{"status": loan.Status})
}

// SweepOverdue marks Active loans past their end date with money still
// owed as Defaulted
func (s *LoanService) SweepOverdue(ctx context.Context, actor Actor, now time.Time) (*SweepResult, error) {
	loans, err := s.store.Loans.ListOverdue(ctx, dayOf(now))
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Checked: len(loans)}
	for _, l := range loans {
		err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
			loan, err := tx.Loans.GetByIDForUpdate(ctx, l.ID)
			if err != nil {
				return err
			}
			return markDefaulted(ctx, tx, actor, loan)
		})
		if err != nil {
			result.Failed++
			log.Printf("⚠️ Could not default loan %s: %v", l.LoanNumber, err)
			continue
		}
		result.Defaulted++
	}

	if result.Defaulted > 0 {
		log.Printf("⚠️ Overdue sweep defaulted %d loans", result.Defaulted)
	}
	return result, nil
}

// Get returns one loan with its member and type
func (s *LoanService) Get(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.store.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, notFound(err, ErrLoanNotFound)
	}
	return loan, nil
}

// ListByMember lists a member's loans; activeOnly keeps Active and Defaulted
func (s *LoanService) ListByMember(ctx context.Context, memberID string, activeOnly bool) ([]*models.Loan, error) {
	if _, err := loadMember(ctx, s.store, memberID); err != nil {
		return nil, err
	}
	return s.store.Loans.ListByMember(ctx, memberID, activeOnly)
}

// List returns a page of loans
func (s *LoanService) List(ctx context.Context, filter repositories.LoanFilter, params *pagination.Params) ([]*models.Loan, int64, error) {
	if filter.Status != "" {
		switch domain.LoanStatus(filter.Status) {
		case domain.LoanPending, domain.LoanActive, domain.LoanCompleted, domain.LoanDefaulted:
		default:
			return nil, 0, domain.NewError(domain.ErrInvalidInput, "unknown loan status")
		}
	}
	return s.store.Loans.List(ctx, filter, params.Offset, params.Limit)
}

// Repayments lists a loan's repayments in posting order
func (s *LoanService) Repayments(ctx context.Context, loanID uint) ([]*models.LoanRepayment, error) {
	if _, err := s.store.Loans.GetByID(ctx, loanID); err != nil {
		return nil, notFound(err, ErrLoanNotFound)
	}
	return s.store.Loans.ListRepayments(ctx, loanID)
}
