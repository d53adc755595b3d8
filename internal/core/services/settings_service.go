package services

import (
	"context"
	"strconv"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// Settings errors
var (
	ErrSettingNotFound = domain.NewError(domain.ErrNotFound, "setting not found")
	ErrSettingReadOnly = domain.NewError(domain.ErrRuleViolation, "counter settings cannot be edited")
	ErrSettingInvalid  = domain.NewError(domain.ErrInvalidInput, "invalid setting value")
)

// SettingsService gives typed access to system_settings
type SettingsService struct {
	store *repositories.Store
}

// NewSettingsService creates a new settings service
func NewSettingsService(store *repositories.Store) *SettingsService {
	return &SettingsService{store: store}
}

// BusinessSettings is the typed view of the business toggles
type BusinessSettings struct {
	OrganizationName       string          `json:"organization_name"`
	CurrencySymbol         string          `json:"currency_symbol"`
	InterestAutoCalculate  bool            `json:"interest_auto_calculate"`
	DeathBenefitEnabled    bool            `json:"death_benefit_enabled"`
	DeathBenefitAmount     decimal.Decimal `json:"death_benefit_amount"`
	RetirementBenefitPct   decimal.Decimal `json:"retirement_benefit_percentage"`
	NonRetirementChargePct decimal.Decimal `json:"non_retirement_charge_percentage"`
	AllowLoanOverpayment   bool            `json:"allow_loan_overpayment"`
}

// List returns every setting row
func (s *SettingsService) List(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.store.Settings.List(ctx)
}

// Get returns one setting row
func (s *SettingsService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	setting, err := s.store.Settings.Get(ctx, key)
	if err != nil {
		return nil, notFound(err, ErrSettingNotFound)
	}
	return setting, nil
}

// Update stores a new value. Counters are owned by the registration flows.
func (s *SettingsService) Update(ctx context.Context, actor Actor, key, value string) (*models.SystemSetting, error) {
	if key == domain.SettingNextMemberNumber || key == domain.SettingNextStationNumber {
		return nil, ErrSettingReadOnly
	}
	value = strings.TrimSpace(value)
	if err := validateSetting(key, value); err != nil {
		return nil, err
	}

	var updated *models.SystemSetting
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		old, err := tx.Settings.Get(ctx, key)
		if err != nil {
			return notFound(err, ErrSettingNotFound)
		}
		if err := tx.Settings.Set(ctx, key, value, actor.Name()); err != nil {
			return err
		}
		updated, err = tx.Settings.Get(ctx, key)
		if err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditUpdate, "system_settings", key,
			map[string]string{"value": old.SettingValue}, map[string]string{"value": value})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func validateSetting(key, value string) error {
	switch key {
	case domain.SettingInterestAuto, domain.SettingDeathBenefitEnabled, domain.SettingAllowOverpayment:
		if value != "0" && value != "1" {
			return ErrSettingInvalid
		}
	case domain.SettingDeathBenefitAmount:
		d, err := money.Parse(value)
		if err != nil || d.IsNegative() {
			return ErrSettingInvalid
		}
	case domain.SettingRetirementBenefitPct, domain.SettingNonRetirementPct:
		d, err := money.Parse(value)
		if err != nil || d.IsNegative() || d.GreaterThan(money.Hundred) {
			return domain.ErrInvalidPercentage
		}
	}
	return nil
}

// Business reads every business toggle, falling back to the seeded
// defaults for missing or malformed rows
func (s *SettingsService) Business(ctx context.Context) (*BusinessSettings, error) {
	return readBusiness(ctx, s.store)
}

func readBusiness(ctx context.Context, store *repositories.Store) (*BusinessSettings, error) {
	rows, err := store.Settings.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.SettingKey] = strings.TrimSpace(r.SettingValue)
	}

	str := func(key, def string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return def
	}
	flag := func(key string, def bool) bool {
		v, ok := values[key]
		if !ok {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	amount := func(key, def string) decimal.Decimal {
		d, err := money.Parse(str(key, def))
		if err != nil {
			return decimal.RequireFromString(def)
		}
		return d
	}

	return &BusinessSettings{
		OrganizationName:       str(domain.SettingOrganizationName, "NFC Cooperative Society"),
		CurrencySymbol:         str(domain.SettingCurrencySymbol, "₦"),
		InterestAutoCalculate:  flag(domain.SettingInterestAuto, true),
		DeathBenefitEnabled:    flag(domain.SettingDeathBenefitEnabled, true),
		DeathBenefitAmount:     amount(domain.SettingDeathBenefitAmount, "1000"),
		RetirementBenefitPct:   amount(domain.SettingRetirementBenefitPct, "10"),
		NonRetirementChargePct: amount(domain.SettingNonRetirementPct, "5"),
		AllowLoanOverpayment:   flag(domain.SettingAllowOverpayment, false),
	}, nil
}
