package services

import (
	"context"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// ErrInvalidPeriod is returned when a statement period ends before it starts
var ErrInvalidPeriod = domain.NewError(domain.ErrInvalidInput, "period end is before its start")

// LedgerService reads the general ledger
type LedgerService struct {
	store *repositories.Store
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store *repositories.Store) *LedgerService {
	return &LedgerService{store: store}
}

// StatementLine is a ledger row with the running savings balance
type StatementLine struct {
	*models.Transaction
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Statement is a member's account activity over a period
type Statement struct {
	Member         *models.MemberResponse `json:"member"`
	Summary        *models.MemberSummary  `json:"summary"`
	From           time.Time              `json:"from"`
	To             time.Time              `json:"to"`
	OpeningBalance decimal.Decimal        `json:"opening_balance"`
	TotalCredits   decimal.Decimal        `json:"total_credits"`
	TotalDebits    decimal.Decimal        `json:"total_debits"`
	ClosingBalance decimal.Decimal        `json:"closing_balance"`
	Savings        []*StatementLine       `json:"savings"`
	Loans          []*models.Transaction  `json:"loans"`
	Other          []*models.Transaction  `json:"other"`
}

// List returns ledger rows, newest first
func (s *LedgerService) List(ctx context.Context, filter repositories.TransactionFilter, params *pagination.Params) ([]*models.Transaction, int64, error) {
	return s.store.Transactions.List(ctx, filter, params.Offset, params.Limit)
}

// Statement builds a member statement for [from, to]. The opening and
// closing balances cover savings rows; loan and benefit rows are listed
// separately.
func (s *LedgerService) Statement(ctx context.Context, memberID string, from, to time.Time) (*Statement, error) {
	if to.Before(from) {
		return nil, ErrInvalidPeriod
	}
	member, err := loadMember(ctx, s.store, memberID)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Members.Summary(ctx, memberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	from = dayOf(from)
	end := dayOf(to).AddDate(0, 0, 1).Add(-time.Nanosecond)

	opening, err := s.store.Transactions.NetBefore(ctx, memberID, domain.AccountSavings, from)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Transactions.ListChronological(ctx, repositories.TransactionFilter{
		MemberID: memberID,
		From:     &from,
		To:       &end,
	})
	if err != nil {
		return nil, err
	}

	st := &Statement{
		Member:         member.ToResponse(),
		Summary:        summary,
		From:           from,
		To:             end,
		OpeningBalance: opening,
		TotalCredits:   decimal.Zero,
		TotalDebits:    decimal.Zero,
		Savings:        []*StatementLine{},
		Loans:          []*models.Transaction{},
		Other:          []*models.Transaction{},
	}

	running := opening
	for _, t := range rows {
		switch t.AccountType {
		case domain.AccountSavings:
			running = running.Add(t.SignedAmount())
			if t.IsCredit {
				st.TotalCredits = st.TotalCredits.Add(t.Amount)
			} else {
				st.TotalDebits = st.TotalDebits.Add(t.Amount)
			}
			st.Savings = append(st.Savings, &StatementLine{Transaction: t, RunningBalance: running})
		case domain.AccountLoan:
			st.Loans = append(st.Loans, t)
		default:
			st.Other = append(st.Other, t)
		}
	}
	st.ClosingBalance = running

	return st, nil
}
