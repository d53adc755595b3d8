package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/money"
	"nfc-cooperative/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// Bank errors
var (
	ErrBankTxnNotFound     = domain.NewError(domain.ErrNotFound, "bank transaction not found")
	ErrBankTxnType         = domain.NewError(domain.ErrInvalidInput, "transaction type must be Deposit, Withdrawal, Charge or Interest")
	ErrBankDetailsRequired = domain.NewError(domain.ErrInvalidInput, "bank name and account number are required")
	ErrAlreadyReconciled   = domain.NewError(domain.ErrRuleViolation, "bank transaction already reconciled")
)

// BankService keeps the society's bank book
type BankService struct {
	store *repositories.Store
}

// NewBankService creates a new bank service
func NewBankService(store *repositories.Store) *BankService {
	return &BankService{store: store}
}

// BankTransactionInput records one bank book line
type BankTransactionInput struct {
	BankName        string          `json:"bank_name"`
	AccountNumber   string          `json:"account_number"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate string          `json:"transaction_date"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
}

// Record adds a bank book line
func (s *BankService) Record(ctx context.Context, actor Actor, input *BankTransactionInput) (*models.BankTransaction, error) {
	bank, number := strings.TrimSpace(input.BankName), strings.TrimSpace(input.AccountNumber)
	if bank == "" || number == "" {
		return nil, ErrBankDetailsRequired
	}
	txnType := domain.BankTxnType(input.TransactionType)
	if !txnType.IsValid() {
		return nil, ErrBankTxnType
	}
	amount := money.Round(input.Amount)
	if !amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	date, err := ParseDate(input.TransactionDate)
	if err != nil {
		return nil, err
	}

	bt := &models.BankTransaction{
		BankName:        bank,
		AccountNumber:   number,
		TransactionType: string(txnType),
		Amount:          amount,
		TransactionDate: dayOf(timeOrNow(date)),
		Reference:       strings.TrimSpace(input.Reference),
		Description:     input.Description,
		CreatedBy:       actor.Name(),
	}
	err = s.store.WithTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Bank.Create(ctx, bt); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditCreate, "bank_transactions", fmt.Sprint(bt.ID), nil, bt)
	})
	if err != nil {
		return nil, err
	}
	return bt, nil
}

// Reconcile marks a line as agreed with the bank statement
func (s *BankService) Reconcile(ctx context.Context, actor Actor, id uint) (*models.BankTransaction, error) {
	var bt *models.BankTransaction
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		bt, err = tx.Bank.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrBankTxnNotFound)
		}
		if bt.IsReconciled {
			return ErrAlreadyReconciled
		}
		now := time.Now()
		bt.IsReconciled = true
		bt.ReconciledDate = &now
		bt.ReconciledBy = actor.Name()
		if err := tx.Bank.Update(ctx, bt); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "bank_transactions", fmt.Sprint(bt.ID),
			map[string]bool{"is_reconciled": false}, map[string]bool{"is_reconciled": true})
	})
	if err != nil {
		return nil, err
	}
	return bt, nil
}

// Get returns one bank book line
func (s *BankService) Get(ctx context.Context, id uint) (*models.BankTransaction, error) {
	bt, err := s.store.Bank.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBankTxnNotFound)
	}
	return bt, nil
}

// List returns a page of bank book lines
func (s *BankService) List(ctx context.Context, filter repositories.BankFilter, params *pagination.Params) ([]*models.BankTransaction, int64, error) {
	return s.store.Bank.List(ctx, filter, params.Offset, params.Limit)
}

// Summary returns the book and reconciled balances of one bank account
func (s *BankService) Summary(ctx context.Context, accountNumber string) (*models.BankSummary, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, ErrBankDetailsRequired
	}
	return s.store.Bank.Summary(ctx, accountNumber)
}
