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

	"github.com/shopspring/decimal"
)

// Savings errors
var (
	ErrAccountExists       = domain.NewError(domain.ErrDuplicateEntry, "member already has an account of this savings type")
	ErrAccountClosed       = domain.NewError(domain.ErrRuleViolation, "savings account is closed")
	ErrInsufficientBalance = domain.NewError(domain.ErrRuleViolation, "insufficient balance")
	ErrSavingsTypeInactive = domain.NewError(domain.ErrRuleViolation, "savings type is inactive")
)

// SavingsService manages savings accounts and their postings
type SavingsService struct {
	store *repositories.Store
}

// NewSavingsService creates a new savings service
func NewSavingsService(store *repositories.Store) *SavingsService {
	return &SavingsService{store: store}
}

// OpenAccountInput opens an account by savings type ID or code
type OpenAccountInput struct {
	MemberID      string `json:"member_id" validate:"required"`
	SavingsTypeID uint   `json:"savings_type_id"`
	TypeCode      string `json:"type_code"`
}

// PostingInput is a deposit or withdrawal
type PostingInput struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	ChequeNumber  string          `json:"cheque_number"`
	ReceiptNumber string          `json:"receipt_number"`
	Description   string          `json:"description"`
	Date          string          `json:"transaction_date"`
}

// PostingResult returns the account after a posting and its ledger row
type PostingResult struct {
	Account     *models.SavingsAccount `json:"account"`
	Transaction *models.Transaction    `json:"transaction"`
}

// AccrualResult summarizes an interest run
type AccrualResult struct {
	Period   string          `json:"period"`
	Accounts int             `json:"accounts"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Total    decimal.Decimal `json:"total"`
}

// accountNumber builds <memberID>-<first four letters of the type code>
func accountNumber(memberID, code string) string {
	code = strings.ToUpper(code)
	if len(code) > 4 {
		code = code[:4]
	}
	return fmt.Sprintf("%s-%s", memberID, code)
}

// Open opens an account for a member. A closed account of the same type is
// reopened instead, keeping its history.
func (s *SavingsService) Open(ctx context.Context, actor Actor, input *OpenAccountInput) (*models.SavingsAccount, error) {
	var account *models.SavingsAccount
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		member, err := loadMember(ctx, tx, input.MemberID)
		if err != nil {
			return err
		}
		if err := requireTransacting(member); err != nil {
			return err
		}

		st, err := s.resolveType(ctx, tx, input)
		if err != nil {
			return err
		}
		if !st.IsActive {
			return ErrSavingsTypeInactive
		}

		existing, err := tx.Savings.GetByMemberAndType(ctx, member.MemberID, st.ID)
		if err == nil {
			if existing.IsActive {
				return ErrAccountExists
			}
			account = existing
			return reopen(ctx, tx, actor, account)
		}
		if err = notFound(err, nil); err != nil {
			return err
		}

		account, err = openAccount(ctx, tx, actor, member, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *SavingsService) resolveType(ctx context.Context, tx *repositories.Store, input *OpenAccountInput) (*models.SavingsType, error) {
	var (
		st  *models.SavingsType
		err error
	)
	if input.SavingsTypeID != 0 {
		st, err = tx.SavingsTypes.GetByID(ctx, input.SavingsTypeID)
	} else {
		st, err = tx.SavingsTypes.GetByCode(ctx, normalizeCode(input.TypeCode))
	}
	if err != nil {
		return nil, notFound(err, ErrSavingsTypeNotFound)
	}
	return st, nil
}

func openAccount(ctx context.Context, tx *repositories.Store, actor Actor, member *models.Member, st *models.SavingsType) (*models.SavingsAccount, error) {
	account := &models.SavingsAccount{
		MemberID:      member.MemberID,
		SavingsTypeID: st.ID,
		AccountNumber: accountNumber(member.MemberID, st.TypeCode),
		OpenedDate:    dayOf(time.Now()),
		IsActive:      true,
	}
	if err := tx.Savings.Create(ctx, account); err != nil {
		return nil, duplicate(err, ErrAccountExists)
	}
	account.SavingsType = st
	return account, audit(ctx, tx, actor, models.AuditCreate, "savings_accounts", account.AccountNumber, nil, account)
}

func reopen(ctx context.Context, tx *repositories.Store, actor Actor, account *models.SavingsAccount) error {
	account.IsActive = true
	account.ClosedDate = nil
	if err := tx.Savings.Update(ctx, account); err != nil {
		return err
	}
	return audit(ctx, tx, actor, models.AuditStatusChange, "savings_accounts", account.AccountNumber,
		map[string]bool{"is_active": false}, map[string]bool{"is_active": true})
}

// ensureAccount returns the member's active account of the given type code,
// opening or reopening it when needed. Used by system credits, which are
// also allowed for deceased members.
func ensureAccount(ctx context.Context, tx *repositories.Store, actor Actor, member *models.Member, code string) (*models.SavingsAccount, error) {
	account, err := tx.Savings.GetByMemberAndCode(ctx, member.MemberID, code)
	if err == nil {
		if !account.IsActive {
			if err := reopen(ctx, tx, actor, account); err != nil {
				return nil, err
			}
		}
		return account, nil
	}
	if err = notFound(err, nil); err != nil {
		return nil, err
	}

	st, err := tx.SavingsTypes.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, ErrSavingsTypeNotFound)
	}
	return openAccount(ctx, tx, actor, member, st)
}

// Deposit credits an account
func (s *SavingsService) Deposit(ctx context.Context, actor Actor, accountID uint, input *PostingInput) (*PostingResult, error) {
	return s.post(ctx, actor, accountID, input, true)
}

// Withdraw debits an account; the balance may not go negative
func (s *SavingsService) Withdraw(ctx context.Context, actor Actor, accountID uint, input *PostingInput) (*PostingResult, error) {
	return s.post(ctx, actor, accountID, input, false)
}

func (s *SavingsService) post(ctx context.Context, actor Actor, accountID uint, input *PostingInput, credit bool) (*PostingResult, error) {
	amount := money.Round(input.Amount)
	if !amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	result := &PostingResult{}
	err = s.store.WithTx(ctx, func(tx *repositories.Store) error {
		account, err := tx.Savings.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return notFound(err, ErrAccountNotFound)
		}
		if !account.IsActive {
			return ErrAccountClosed
		}
		member, err := loadMember(ctx, tx, account.MemberID)
		if err != nil {
			return err
		}
		if member.IsDeceased {
			return ErrMemberDeceased
		}

		entry := ledgerEntry{
			Member:        member,
			Amount:        amount,
			Description:   input.Description,
			PaymentMethod: input.PaymentMethod,
			ChequeNumber:  input.ChequeNumber,
			ReceiptNumber: input.ReceiptNumber,
			Date:          timeOrNow(date),
		}
		if credit {
			entry.Type = domain.TxnSavingsDeposit
			result.Transaction, err = creditSavings(ctx, tx, actor, account, entry)
		} else {
			entry.Type = domain.TxnSavingsWithdrawal
			result.Transaction, err = debitSavings(ctx, tx, actor, account, entry)
		}
		result.Account = account
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// creditSavings adds entry.Amount to deposits and writes the ledger row.
// The caller holds the account row.
func creditSavings(ctx context.Context, tx *repositories.Store, actor Actor, account *models.SavingsAccount, entry ledgerEntry) (*models.Transaction, error) {
	account.TotalDeposits = account.TotalDeposits.Add(entry.Amount)
	account.CurrentBalance = account.CurrentBalance.Add(entry.Amount)
	return postSavings(ctx, tx, actor, account, entry, true)
}

// debitSavings adds entry.Amount to withdrawals and writes the ledger row
func debitSavings(ctx context.Context, tx *repositories.Store, actor Actor, account *models.SavingsAccount, entry ledgerEntry) (*models.Transaction, error) {
	if entry.Amount.GreaterThan(account.CurrentBalance) {
		return nil, ErrInsufficientBalance
	}
	account.TotalWithdrawals = account.TotalWithdrawals.Add(entry.Amount)
	account.CurrentBalance = account.CurrentBalance.Sub(entry.Amount)
	return postSavings(ctx, tx, actor, account, entry, false)
}

func postSavings(ctx context.Context, tx *repositories.Store, actor Actor, account *models.SavingsAccount, entry ledgerEntry, credit bool) (*models.Transaction, error) {
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	account.LastTransactionDate = &entry.Date
	if err := tx.Savings.Update(ctx, account); err != nil {
		return nil, err
	}
	entry.AccountType = domain.AccountSavings
	entry.AccountID = account.ID
	entry.IsCredit = credit
	if entry.Description == "" {
		entry.Description = fmt.Sprintf("%s - %s", entry.Type, account.AccountNumber)
	}
	return record(ctx, tx, actor, entry)
}

// PostInterest credits one month of interest to an account. Deceased
// members still accrue interest. Returns a nil transaction when the
// computed interest is zero.
func (s *SavingsService) PostInterest(ctx context.Context, actor Actor, accountID uint) (*PostingResult, error) {
	result := &PostingResult{}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		account, err := tx.Savings.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return notFound(err, ErrAccountNotFound)
		}
		if !account.IsActive {
			return ErrAccountClosed
		}
		result.Account = account
		result.Transaction, err = postInterest(ctx, tx, actor, account, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func postInterest(ctx context.Context, tx *repositories.Store, actor Actor, account *models.SavingsAccount, at time.Time) (*models.Transaction, error) {
	st, err := tx.SavingsTypes.GetByID(ctx, account.SavingsTypeID)
	if err != nil {
		return nil, notFound(err, ErrSavingsTypeNotFound)
	}
	interest := domain.MonthlyInterest(account.CurrentBalance, st.InterestRate)
	if !interest.IsPositive() {
		return nil, nil
	}
	member, err := loadMember(ctx, tx, account.MemberID)
	if err != nil {
		return nil, err
	}

	account.TotalInterestEarned = account.TotalInterestEarned.Add(interest)
	account.CurrentBalance = account.CurrentBalance.Add(interest)
	return postSavings(ctx, tx, actor, account, ledgerEntry{
		Member:      member,
		Type:        domain.TxnInterestCredit,
		Amount:      interest,
		Description: fmt.Sprintf("Interest %s @ %s%% - %s", at.Format("Jan 2006"), st.InterestRate.String(), account.AccountNumber),
		Date:        at,
	}, true)
}

// AccrueMonthlyInterest posts interest on every interest-bearing account
// for the month containing at. Accounts already credited that month are
// skipped, so a rerun is harmless.
func (s *SavingsService) AccrueMonthlyInterest(ctx context.Context, actor Actor, at time.Time) (*AccrualResult, error) {
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	accounts, err := s.store.Savings.ListInterestBearing(ctx)
	if err != nil {
		return nil, err
	}

	result := &AccrualResult{Period: monthStart.Format("2006-01"), Total: decimal.Zero}
	for _, a := range accounts {
		var posted *models.Transaction
		err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
			done, err := tx.Transactions.ExistsForAccount(ctx, domain.TxnInterestCredit, domain.AccountSavings, a.ID, monthStart, monthEnd)
			if err != nil || done {
				return err
			}
			account, err := tx.Savings.GetByIDForUpdate(ctx, a.ID)
			if err != nil {
				return err
			}
			posted, err = postInterest(ctx, tx, actor, account, at)
			return err
		})
		switch {
		case err != nil:
			result.Failed++
			log.Printf("⚠️ Interest posting failed for account %s: %v", a.AccountNumber, err)
		case posted == nil:
			result.Skipped++
		default:
			result.Accounts++
			result.Total = result.Total.Add(posted.Amount)
		}
	}

	log.Printf("✅ Interest accrued for %s: %d accounts, total %s", result.Period, result.Accounts, result.Total.StringFixed(2))
	return result, nil
}

// Close pays out the remaining balance and deactivates the account.
// Allowed for deceased members.
func (s *SavingsService) Close(ctx context.Context, actor Actor, accountID uint, paymentMethod string) (*PostingResult, error) {
	result := &PostingResult{}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		account, err := tx.Savings.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return notFound(err, ErrAccountNotFound)
		}
		if !account.IsActive {
			return ErrAccountClosed
		}
		member, err := loadMember(ctx, tx, account.MemberID)
		if err != nil {
			return err
		}
		result.Account = account
		result.Transaction, err = closeAccount(ctx, tx, actor, member, account, paymentMethod, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// closeAccount debits the full balance as an account closure and flags the
// account inactive. The transaction is nil for an empty account.
func closeAccount(ctx context.Context, tx *repositories.Store, actor Actor, member *models.Member, account *models.SavingsAccount, paymentMethod, description string) (*models.Transaction, error) {
	var txn *models.Transaction
	now := time.Now()
	if account.CurrentBalance.IsPositive() {
		var err error
		txn, err = debitSavings(ctx, tx, actor, account, ledgerEntry{
			Member:        member,
			Type:          domain.TxnAccountClosure,
			Amount:        account.CurrentBalance,
			Description:   description,
			PaymentMethod: paymentMethod,
			Date:          now,
		})
		if err != nil {
			return nil, err
		}
	}

	closed := dayOf(now)
	account.IsActive = false
	account.ClosedDate = &closed
	if err := tx.Savings.Update(ctx, account); err != nil {
		return nil, err
	}
	return txn, audit(ctx, tx, actor, models.AuditStatusChange, "savings_accounts", account.AccountNumber,
		map[string]bool{"is_active": true}, map[string]bool{"is_active": false})
}

// Get returns one account with its type
func (s *SavingsService) Get(ctx context.Context, accountID uint) (*models.SavingsAccount, error) {
	account, err := s.store.Savings.GetByID(ctx, accountID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return account, nil
}

// ListByMember lists a member's accounts
func (s *SavingsService) ListByMember(ctx context.Context, memberID string, activeOnly bool) ([]*models.SavingsAccount, error) {
	if _, err := loadMember(ctx, s.store, memberID); err != nil {
		return nil, err
	}
	return s.store.Savings.ListByMember(ctx, memberID, activeOnly)
}
