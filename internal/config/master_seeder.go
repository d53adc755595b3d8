package config

import (
	"errors"
	"log"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedMasterData seeds the reference types and default settings
func SeedMasterData(db *gorm.DB) error {
	// Seed Savings Types
	if err := seedSavingsTypes(db); err != nil {
		return err
	}

	// Seed Loan Types
	if err := seedLoanTypes(db); err != nil {
		return err
	}

	// Seed System Settings
	if err := seedSettings(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedSavingsTypes(db *gorm.DB) error {
	savingsTypes := []models.SavingsType{
		{
			TypeCode:     domain.SavingsPremium,
			TypeName:     "Premium Savings",
			Description:  "Compulsory monthly contribution",
			InterestRate: decimal.RequireFromString("0.50"),
			IsActive:     true,
		},
		{
			TypeCode:     domain.SavingsFixed,
			TypeName:     "Fixed Deposit",
			Description:  "Term deposit at a higher rate",
			InterestRate: decimal.RequireFromString("1.00"),
			IsActive:     true,
		},
		{
			TypeCode:     domain.SavingsTarget,
			TypeName:     "Target Savings",
			Description:  "Savings towards a planned purchase",
			InterestRate: decimal.RequireFromString("0.75"),
			IsActive:     true,
		},
		{
			TypeCode:     domain.SavingsShares,
			TypeName:     "Shares Investment",
			Description:  "Member shares; earns the annual dividend instead of interest",
			InterestRate: decimal.Zero,
			IsActive:     true,
		},
	}

	for _, st := range savingsTypes {
		var existing models.SavingsType
		err := db.Where("type_code = ?", st.TypeCode).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&st).Error; err != nil {
				return err
			}
			log.Printf("   Created savings_type: %s", st.TypeName)
		} else if err != nil {
			return err
		}
	}
	return nil
}

func seedLoanTypes(db *gorm.DB) error {
	loanTypes := []models.LoanType{
		{TypeCode: domain.LoanMajor, TypeName: "Major Loan", Description: "Long term loan against savings", InterestRate: decimal.NewFromInt(10), MaxDurationMonths: 36},
		{TypeCode: domain.LoanMinor, TypeName: "Minor Loan", Description: "Short term personal loan", InterestRate: decimal.NewFromInt(8), MaxDurationMonths: 12},
		{TypeCode: domain.LoanEmergency, TypeName: "Emergency Loan", Description: "Quick loan for urgent needs", InterestRate: decimal.NewFromInt(5), MaxDurationMonths: 6},
		{TypeCode: domain.LoanSoft, TypeName: "Soft Loan", Description: "Low interest welfare loan", InterestRate: decimal.NewFromInt(3), MaxDurationMonths: 12},
		{TypeCode: domain.LoanHousing, TypeName: "Housing Loan", Description: "Building or renovation loan", InterestRate: decimal.NewFromInt(12), MaxDurationMonths: 60},
		{TypeCode: domain.LoanVehicle, TypeName: "Vehicle Loan", Description: "Car or motorcycle purchase", InterestRate: decimal.NewFromInt(10), MaxDurationMonths: 48},
		{TypeCode: domain.LoanCommodity, TypeName: "Commodity Loan", Description: "Household items bought through the society", InterestRate: decimal.NewFromInt(7), MaxDurationMonths: 12},
	}

	for _, lt := range loanTypes {
		lt.IsActive = true
		var existing models.LoanType
		err := db.Where("type_code = ?", lt.TypeCode).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&lt).Error; err != nil {
				return err
			}
			log.Printf("   Created loan_type: %s", lt.TypeName)
		} else if err != nil {
			return err
		}
	}
	return nil
}

// DefaultSettings are inserted on first run and never overwritten
var DefaultSettings = []models.SystemSetting{
	{SettingKey: domain.SettingOrganizationName, SettingValue: "NFC Cooperative Society", Description: "Name printed on statements"},
	{SettingKey: domain.SettingCurrencySymbol, SettingValue: "₦", Description: "Currency symbol"},
	{SettingKey: domain.SettingInterestAuto, SettingValue: "1", Description: "Post monthly savings interest automatically"},
	{SettingKey: domain.SettingDeathBenefitEnabled, SettingValue: "1", Description: "Charge members when a member dies"},
	{SettingKey: domain.SettingDeathBenefitAmount, SettingValue: "1000", Description: "Amount charged to each member per death"},
	{SettingKey: domain.SettingRetirementBenefitPct, SettingValue: "10", Description: "Bonus percentage paid on retirement"},
	{SettingKey: domain.SettingNonRetirementPct, SettingValue: "5", Description: "Charge percentage on early withdrawal"},
	{SettingKey: domain.SettingAllowOverpayment, SettingValue: "0", Description: "Accept repayments above the outstanding balance"},
	{SettingKey: domain.SettingNextMemberNumber, SettingValue: "1", Description: "Next member number"},
	{SettingKey: domain.SettingNextStationNumber, SettingValue: "1", Description: "Next station number"},
}

func seedSettings(db *gorm.DB) error {
	for _, s := range DefaultSettings {
		var count int64
		if err := db.Model(&models.SystemSetting{}).Where("setting_key = ?", s.SettingKey).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		s.ModifiedBy = "system"
		if err := db.Create(&s).Error; err != nil {
			return err
		}
	}
	return nil
}
