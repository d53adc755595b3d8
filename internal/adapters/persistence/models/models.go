package models

import (
	"time"

	"nfc-cooperative/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID             uint       `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username       string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash   string     `gorm:"size:255;not null" json:"-"`
	FullName       string     `gorm:"size:150" json:"full_name"`
	Role           string     `gorm:"size:20;not null;check:chk_users_role,role IN ('Admin','Manager','Operator','Auditor')" json:"role"`
	CanMaintain    bool       `gorm:"not null;default:false" json:"can_maintain"`
	CanOperate     bool       `gorm:"not null;default:false" json:"can_operate"`
	CanEdit        bool       `gorm:"not null;default:false" json:"can_edit"`
	CanViewReports bool       `gorm:"not null;default:false" json:"can_view_reports"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedDate    time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate   time.Time  `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`
}

func (User) TableName() string {
	return "users"
}

// ApplyRole sets the role and copies its permission bits onto the can_* columns
func (u *User) ApplyRole(role domain.Role) {
	perms := role.Permissions()
	u.Role = string(role)
	u.CanMaintain = perms.Has(domain.PermMaintain)
	u.CanOperate = perms.Has(domain.PermOperate)
	u.CanEdit = perms.Has(domain.PermEdit)
	u.CanViewReports = perms.Has(domain.PermViewReports)
}

// Permissions rebuilds the permission bitset from the can_* columns
func (u *User) Permissions() domain.Permission {
	var p domain.Permission
	if u.CanMaintain {
		p |= domain.PermMaintain
	}
	if u.CanOperate {
		p |= domain.PermOperate
	}
	if u.CanEdit {
		p |= domain.PermEdit
	}
	if u.CanViewReports {
		p |= domain.PermViewReports
	}
	return p
}

// UserResponse DTO
type UserResponse struct {
	ID             uint       `json:"user_id"`
	Username       string     `json:"username"`
	FullName       string     `json:"full_name"`
	Role           string     `json:"role"`
	CanMaintain    bool       `json:"can_maintain"`
	CanOperate     bool       `json:"can_operate"`
	CanEdit        bool       `json:"can_edit"`
	CanViewReports bool       `json:"can_view_reports"`
	IsActive       bool       `json:"is_active"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedDate    time.Time  `json:"created_date"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Role:           u.Role,
		CanMaintain:    u.CanMaintain,
		CanOperate:     u.CanOperate,
		CanEdit:        u.CanEdit,
		CanViewReports: u.CanViewReports,
		IsActive:       u.IsActive,
		LastLogin:      u.LastLogin,
		CreatedDate:    u.CreatedDate,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Settings & Audit Tables
// ============================================================

// SystemSetting is one key/value row of system_settings
type SystemSetting struct {
	SettingKey   string    `gorm:"column:setting_key;primaryKey;size:100" json:"setting_key"`
	SettingValue string    `gorm:"column:setting_value;type:text" json:"setting_value"`
	Description  string    `gorm:"type:text" json:"description"`
	ModifiedBy   string    `gorm:"size:50" json:"modified_by"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// AuditLog records a create/update of a business entity
type AuditLog struct {
	ID          uint      `gorm:"column:audit_id;primaryKey" json:"audit_id"`
	UserID      *uint     `gorm:"index" json:"user_id"`
	Username    string    `gorm:"size:50" json:"username"`
	Action      string    `gorm:"size:50;not null;index" json:"action"`
	EntityType  string    `gorm:"size:50;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID    string    `gorm:"size:50;index:idx_audit_entity" json:"entity_id"`
	OldValues   string    `gorm:"type:text" json:"old_values"`
	NewValues   string    `gorm:"type:text" json:"new_values"`
	IPAddress   string    `gorm:"size:50" json:"ip_address"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime;index" json:"created_date"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// ActivityLog records a user session event
type ActivityLog struct {
	ID          uint      `gorm:"column:activity_id;primaryKey" json:"activity_id"`
	UserID      *uint     `gorm:"index" json:"user_id"`
	Username    string    `gorm:"size:50" json:"username"`
	Activity    string    `gorm:"size:50;not null" json:"activity"`
	Details     string    `gorm:"type:text" json:"details"`
	IPAddress   string    `gorm:"size:50" json:"ip_address"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime;index" json:"created_date"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}

// Audit actions
const (
	AuditCreate       = "CREATE"
	AuditUpdate       = "UPDATE"
	AuditStatusChange = "STATUS_CHANGE"
	AuditPosting      = "POSTING"
)

// Activities
const (
	ActivityLogin     = "LOGIN"
	ActivityLogout    = "LOGOUT"
	ActivityLogoutAll = "LOGOUT_ALL"
	ActivityLoginFail = "LOGIN_FAILED"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table. The summary view and the
// timestamp triggers are installed separately by config.InstallSchemaExtras.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Reference
		&Station{},
		&SavingsType{},
		&LoanType{},
		&SystemSetting{},
		// Members & accounts
		&Member{},
		&SavingsAccount{},
		&Loan{},
		&LoanRepayment{},
		&Transaction{},
		// Benefits & bank
		&Dividend{},
		&WithdrawalBenefit{},
		&DeathBenefit{},
		&DeathBenefitCharge{},
		&BankTransaction{},
		// Audit
		&AuditLog{},
		&ActivityLog{},
	)
}
