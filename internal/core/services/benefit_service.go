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

	"github.com/shopspring/decimal"
)

// Benefit errors
var (
	ErrWithdrawalExists       = domain.NewError(domain.ErrDuplicateEntry, "member has already withdrawn")
	ErrWithdrawalNotFound     = domain.NewError(domain.ErrNotFound, "withdrawal benefit not found")
	ErrDeathBenefitDisabled   = domain.NewError(domain.ErrRuleViolation, "death benefit is disabled")
	ErrDeathBenefitExists     = domain.NewError(domain.ErrDuplicateEntry, "death benefit already processed for this member")
	ErrDeathBenefitNotFound   = domain.NewError(domain.ErrNotFound, "death benefit not found")
	ErrDeathBenefitPaid       = domain.NewError(domain.ErrRuleViolation, "death benefit already paid")
	ErrMemberNotDeceased      = domain.NewError(domain.ErrRuleViolation, "member is not deceased")
	ErrDeathBenefitZeroCharge = domain.NewError(domain.ErrRuleViolation, "death benefit amount must be greater than zero")
)

// BenefitService runs the withdrawal and death benefit flows
type BenefitService struct {
	store *repositories.Store
}

// NewBenefitService creates a new benefit service
func NewBenefitService(store *repositories.Store) *BenefitService {
	return &BenefitService{store: store}
}

// WithdrawalInput processes a member leaving the society
type WithdrawalInput struct {
	MemberID       string `json:"member_id" validate:"required"`
	WithdrawalType string `json:"withdrawal_type" validate:"required"`
	Reason         string `json:"reason"`
	PaymentMethod  string `json:"payment_method"`
}

// WithdrawalResult is the processed withdrawal with its ledger rows
type WithdrawalResult struct {
	Benefit      *models.WithdrawalBenefit `json:"benefit"`
	Transactions []*models.Transaction     `json:"transactions"`
}

// activeSavings sums the balances of a member's open accounts
func activeSavings(ctx context.Context, tx *repositories.Store, memberID string) ([]*models.SavingsAccount, decimal.Decimal, error) {
	accounts, err := tx.Savings.ListByMember(ctx, memberID, true)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.CurrentBalance)
	}
	return accounts, total, nil
}

// ComputeWithdrawal previews the payout for a member without saving
func (s *BenefitService) ComputeWithdrawal(ctx context.Context, memberID, withdrawalType string) (*domain.WithdrawalBenefit, error) {
	if _, err := loadMember(ctx, s.store, memberID); err != nil {
		return nil, err
	}
	_, total, err := activeSavings(ctx, s.store, memberID)
	if err != nil {
		return nil, err
	}
	settings, err := readBusiness(ctx, s.store)
	if err != nil {
		return nil, err
	}
	wb, err := domain.ComputeWithdrawalBenefit(total, domain.WithdrawalType(withdrawalType),
		settings.RetirementBenefitPct, settings.NonRetirementChargePct)
	if err != nil {
		return nil, err
	}
	return &wb, nil
}

// ProcessWithdrawal closes every account of the member, applies the
// retirement bonus or early-withdrawal charge and deactivates the member
func (s *BenefitService) ProcessWithdrawal(ctx context.Context, actor Actor, input *WithdrawalInput) (*WithdrawalResult, error) {
	wt := domain.WithdrawalType(input.WithdrawalType)
	if !wt.IsValid() {
		return nil, domain.ErrInvalidWithdrawType
	}

	result := &WithdrawalResult{Transactions: []*models.Transaction{}}
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		member, err := loadMember(ctx, tx, input.MemberID)
		if err != nil {
			return err
		}
		if member.IsDeceased {
			return ErrMemberDeceased
		}
		exists, err := tx.Benefits.ExistsWithdrawalForMember(ctx, member.MemberID)
		if err != nil {
			return err
		}
		if exists {
			return ErrWithdrawalExists
		}

		accounts, total, err := activeSavings(ctx, tx, member.MemberID)
		if err != nil {
			return err
		}
		settings, err := readBusiness(ctx, tx)
		if err != nil {
			return err
		}
		computed, err := domain.ComputeWithdrawalBenefit(total, wt, settings.RetirementBenefitPct, settings.NonRetirementChargePct)
		if err != nil {
			return err
		}

		for _, a := range accounts {
			account, err := tx.Savings.GetByIDForUpdate(ctx, a.ID)
			if err != nil {
				return err
			}
			txn, err := closeAccount(ctx, tx, actor, member, account, input.PaymentMethod,
				fmt.Sprintf("Withdrawal (%s) - %s", wt, account.AccountNumber))
			if err != nil {
				return err
			}
			if txn != nil {
				result.Transactions = append(result.Transactions, txn)
			}
		}

		wb := &models.WithdrawalBenefit{
			MemberID:          member.MemberID,
			WithdrawalDate:    dayOf(time.Now()),
			WithdrawalType:    string(wt),
			TotalSavings:      computed.TotalSavings,
			BenefitPercentage: computed.Percentage,
			BenefitAmount:     computed.BenefitAmount,
			ChargeAmount:      computed.ChargeAmount,
			FinalAmount:       computed.FinalAmount,
			Reason:            strings.TrimSpace(input.Reason),
			ProcessedBy:       actor.Name(),
		}
		if err := tx.Benefits.CreateWithdrawal(ctx, wb); err != nil {
			return err
		}

		// The closures debit the savings; the benefit row carries the
		// bonus (credit) or charge (debit) that makes up the final amount.
		adjustment, credit := computed.BenefitAmount, true
		if wt == domain.WithdrawalNonRetirement {
			adjustment, credit = computed.ChargeAmount, false
		}
		if adjustment.IsPositive() {
			txn, err := record(ctx, tx, actor, ledgerEntry{
				Member:        member,
				Type:          domain.TxnWithdrawalBenefit,
				AccountType:   domain.AccountBenefit,
				AccountID:     wb.ID,
				Amount:        adjustment,
				IsCredit:      credit,
				Description:   fmt.Sprintf("%s withdrawal at %s%%, final amount %s", wt, computed.Percentage.String(), computed.FinalAmount.StringFixed(2)),
				PaymentMethod: input.PaymentMethod,
			})
			if err != nil {
				return err
			}
			result.Transactions = append(result.Transactions, txn)
		}

		if member.IsActive {
			member.IsActive = false
			member.ModifiedBy = actor.Name()
			if err := tx.Members.Update(ctx, member); err != nil {
				return err
			}
		}

		result.Benefit = wb
		return audit(ctx, tx, actor, models.AuditPosting, "withdrawal_benefits", member.MemberID, nil, wb)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal processed for %s: %s", input.MemberID, result.Benefit.FinalAmount.StringFixed(2))
	return result, nil
}

// GetWithdrawal returns one withdrawal benefit
func (s *BenefitService) GetWithdrawal(ctx context.Context, id uint) (*models.WithdrawalBenefit, error) {
	wb, err := s.store.Benefits.GetWithdrawal(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWithdrawalNotFound)
	}
	return wb, nil
}

// ListWithdrawals lists withdrawal benefits, optionally for one member
func (s *BenefitService) ListWithdrawals(ctx context.Context, memberID string) ([]*models.WithdrawalBenefit, error) {
	return s.store.Benefits.ListWithdrawals(ctx, memberID)
}

// ProcessDeath charges every other active member the death benefit amount
// and credits the total to the deceased member's PREMIUM account.
// A member without enough PREMIUM savings gets an Outstanding charge.
func (s *BenefitService) ProcessDeath(ctx context.Context, actor Actor, deceasedMemberID string) (*models.DeathBenefit, error) {
	var benefit *models.DeathBenefit
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		settings, err := readBusiness(ctx, tx)
		if err != nil {
			return err
		}
		if !settings.DeathBenefitEnabled {
			return ErrDeathBenefitDisabled
		}
		charge := settings.DeathBenefitAmount
		if !charge.IsPositive() {
			return ErrDeathBenefitZeroCharge
		}

		deceased, err := loadMember(ctx, tx, deceasedMemberID)
		if err != nil {
			return err
		}
		if !deceased.IsDeceased {
			return ErrMemberNotDeceased
		}
		exists, err := tx.Benefits.ExistsDeathForMember(ctx, deceased.MemberID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDeathBenefitExists
		}

		now := time.Now()
		benefit = &models.DeathBenefit{
			DeceasedMemberID:   deceased.MemberID,
			DeathDate:          dayOf(timeOrNow(deceased.DeceasedDate)),
			ChargePerMember:    charge,
			TotalBenefitAmount: decimal.Zero,
			Status:             domain.DeathBenefitCredited,
			ProcessedDate:      now,
			ProcessedBy:        actor.Name(),
		}
		if err := tx.Benefits.CreateDeath(ctx, benefit); err != nil {
			return duplicate(err, ErrDeathBenefitExists)
		}

		members, err := tx.Members.ListChargeable(ctx, deceased.MemberID)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Death benefit charge - %s", deceased.FullName())
		for _, m := range members {
			c, err := chargeMember(ctx, tx, actor, benefit, m, charge, description, now)
			if err != nil {
				return err
			}
			benefit.Charges = append(benefit.Charges, *c)
			benefit.TotalBenefitAmount = benefit.TotalBenefitAmount.Add(c.ChargeAmount)
			benefit.TotalMembersCharged++
			if c.Status == domain.ChargeOutstanding {
				benefit.OutstandingCharges++
			}
		}

		if benefit.TotalBenefitAmount.IsPositive() {
			account, err := ensureAccount(ctx, tx, actor, deceased, domain.SavingsPremium)
			if err != nil {
				return err
			}
			account, err = tx.Savings.GetByIDForUpdate(ctx, account.ID)
			if err != nil {
				return err
			}
			if _, err := creditSavings(ctx, tx, actor, account, ledgerEntry{
				Member:      deceased,
				Type:        domain.TxnDeathBenefitCredit,
				Amount:      benefit.TotalBenefitAmount,
				Description: fmt.Sprintf("Death benefit from %d members", benefit.TotalMembersCharged),
				Date:        now,
			}); err != nil {
				return err
			}
			benefit.CreditedAccountID = &account.ID
		}

		if err := tx.Benefits.UpdateDeath(ctx, benefit); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditPosting, "death_benefits", deceased.MemberID, nil, map[string]interface{}{
			"death_benefit_id":      benefit.ID,
			"total_benefit_amount":  benefit.TotalBenefitAmount,
			"total_members_charged": benefit.TotalMembersCharged,
			"outstanding_charges":   benefit.OutstandingCharges,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Death benefit for %s: %d members charged, total %s (%d outstanding)",
		deceasedMemberID, benefit.TotalMembersCharged, benefit.TotalBenefitAmount.StringFixed(2), benefit.OutstandingCharges)
	return benefit, nil
}

// chargeMember levies the charge on one member, from PREMIUM savings when
// the balance covers it
func chargeMember(ctx context.Context, tx *repositories.Store, actor Actor, benefit *models.DeathBenefit, m *models.Member, amount decimal.Decimal, description string, at time.Time) (*models.DeathBenefitCharge, error) {
	c := &models.DeathBenefitCharge{
		DeathBenefitID: benefit.ID,
		MemberID:       m.MemberID,
		ChargeAmount:   amount,
		ChargeDate:     dayOf(at),
		Status:         domain.ChargeOutstanding,
	}

	entry := ledgerEntry{
		Member:      m,
		Type:        domain.TxnDeathBenefitCharge,
		Amount:      amount,
		Description: description,
		Date:        at,
	}

	account, err := tx.Savings.GetByMemberAndCode(ctx, m.MemberID, domain.SavingsPremium)
	if err = notFound(err, nil); err != nil {
		return nil, err
	}
	if account != nil && account.IsActive && account.CurrentBalance.GreaterThanOrEqual(amount) {
		if account, err = tx.Savings.GetByIDForUpdate(ctx, account.ID); err != nil {
			return nil, err
		}
		if _, err := debitSavings(ctx, tx, actor, account, entry); err != nil {
			return nil, err
		}
		c.Status = domain.ChargeDeducted
		c.AccountID = &account.ID
	} else {
		entry.AccountType = domain.AccountBenefit
		entry.AccountID = benefit.ID
		entry.Description = description + " (outstanding)"
		if _, err := record(ctx, tx, actor, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Benefits.CreateCharge(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SettleDeath pays out the deceased member's accounts and marks the
// benefit Paid
func (s *BenefitService) SettleDeath(ctx context.Context, actor Actor, deathBenefitID uint, paymentMethod string) (*models.DeathBenefit, error) {
	var benefit *models.DeathBenefit
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		benefit, err = tx.Benefits.GetDeath(ctx, deathBenefitID)
		if err != nil {
			return notFound(err, ErrDeathBenefitNotFound)
		}
		if benefit.Status == domain.DeathBenefitPaid {
			return ErrDeathBenefitPaid
		}
		deceased, err := loadMember(ctx, tx, benefit.DeceasedMemberID)
		if err != nil {
			return err
		}

		accounts, err := tx.Savings.ListByMember(ctx, deceased.MemberID, true)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			account, err := tx.Savings.GetByIDForUpdate(ctx, a.ID)
			if err != nil {
				return err
			}
			if _, err := closeAccount(ctx, tx, actor, deceased, account, paymentMethod,
				fmt.Sprintf("Death benefit settlement - %s", account.AccountNumber)); err != nil {
				return err
			}
		}

		now := time.Now()
		benefit.Status = domain.DeathBenefitPaid
		benefit.PaidDate = &now
		if err := tx.Benefits.UpdateDeath(ctx, benefit); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "death_benefits", deceased.MemberID,
			map[string]string{"status": domain.DeathBenefitCredited}, map[string]string{"status": domain.DeathBenefitPaid})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Death benefit %d settled", deathBenefitID)
	return benefit, nil
}

// GetDeath returns a death benefit with its charges
func (s *BenefitService) GetDeath(ctx context.Context, id uint) (*models.DeathBenefit, error) {
	benefit, err := s.store.Benefits.GetDeath(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDeathBenefitNotFound)
	}
	return benefit, nil
}

// ListDeaths lists death benefits by status
func (s *BenefitService) ListDeaths(ctx context.Context, status string) ([]*models.DeathBenefit, error) {
	return s.store.Benefits.ListDeaths(ctx, status)
}

// ChargesByMember lists the death benefit charges levied on a member
func (s *BenefitService) ChargesByMember(ctx context.Context, memberID, status string) ([]*models.DeathBenefitCharge, error) {
	if _, err := loadMember(ctx, s.store, memberID); err != nil {
		return nil, err
	}
	return s.store.Benefits.ListChargesByMember(ctx, memberID, status)
}
