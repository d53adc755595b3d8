package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"nfc-cooperative/internal/pkg/money"
)

// LoanTerms is the flat-rate schedule of a loan
type LoanTerms struct {
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

// ComputeLoanTerms applies a flat interest rate over the whole principal.
// interest = principal * rate / 100, total = principal + interest,
// installment = total / months.
func ComputeLoanTerms(principal, ratePct decimal.Decimal, months int) (LoanTerms, error) {
	if !principal.IsPositive() {
		return LoanTerms{}, ErrNonPositiveAmount
	}
	if months < 1 {
		return LoanTerms{}, ErrInvalidDuration
	}
	if ratePct.IsNegative() {
		return LoanTerms{}, ErrInvalidPercentage
	}

	interest := money.Round(money.Percent(principal, ratePct))
	total := principal.Add(interest)
	return LoanTerms{
		InterestAmount:     interest,
		TotalAmount:        total,
		MonthlyInstallment: money.Round(total.Div(decimal.NewFromInt(int64(months)))),
	}, nil
}

// WithdrawalBenefit is the payout of a member leaving the society
type WithdrawalBenefit struct {
	TotalSavings   decimal.Decimal `json:"total_savings"`
	Percentage     decimal.Decimal `json:"percentage"`
	BenefitAmount  decimal.Decimal `json:"benefit_amount"`
	ChargeAmount   decimal.Decimal `json:"charge_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	WithdrawalType WithdrawalType  `json:"withdrawal_type"`
}

// ComputeWithdrawalBenefit adds the retirement bonus or subtracts the early
// exit charge from the member's total savings.
func ComputeWithdrawalBenefit(totalSavings decimal.Decimal, wt WithdrawalType, retirementPct, chargePct decimal.Decimal) (WithdrawalBenefit, error) {
	if !wt.IsValid() {
		return WithdrawalBenefit{}, ErrInvalidWithdrawType
	}
	if totalSavings.IsNegative() {
		return WithdrawalBenefit{}, ErrInvalidInput
	}

	wb := WithdrawalBenefit{
		TotalSavings:   totalSavings,
		WithdrawalType: wt,
		BenefitAmount:  decimal.Zero,
		ChargeAmount:   decimal.Zero,
	}

	if wt == WithdrawalRetirement {
		if !validPercentage(retirementPct) {
			return WithdrawalBenefit{}, ErrInvalidPercentage
		}
		wb.Percentage = retirementPct
		wb.BenefitAmount = money.Round(money.Percent(totalSavings, retirementPct))
		wb.FinalAmount = totalSavings.Add(wb.BenefitAmount)
		return wb, nil
	}

	if !validPercentage(chargePct) {
		return WithdrawalBenefit{}, ErrInvalidPercentage
	}
	wb.Percentage = chargePct
	wb.ChargeAmount = money.Round(money.Percent(totalSavings, chargePct))
	wb.FinalAmount = totalSavings.Sub(wb.ChargeAmount)
	return wb, nil
}

// ComputeDividend returns the dividend owed on a shares balance
func ComputeDividend(sharesBalance, ratePct decimal.Decimal) (decimal.Decimal, error) {
	if !validPercentage(ratePct) {
		return decimal.Zero, ErrInvalidPercentage
	}
	if !sharesBalance.IsPositive() {
		return decimal.Zero, nil
	}
	return money.Round(money.Percent(sharesBalance, ratePct)), nil
}

// MonthlyInterest returns one month of interest on a savings balance
func MonthlyInterest(balance, monthlyRatePct decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() || !monthlyRatePct.IsPositive() {
		return decimal.Zero
	}
	return money.Round(money.Percent(balance, monthlyRatePct))
}

func validPercentage(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(money.Hundred)
}

// SplitFullName splits "First Middle Last" into its parts. Two words give
// first and last, a single word is treated as the first name.
func SplitFullName(full string) (first, middle, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	case 2:
		return parts[0], "", parts[1]
	default:
		return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// FormatFullName joins the non-empty name parts with single spaces
func FormatFullName(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
