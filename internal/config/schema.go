package config

import (
	"fmt"
	"log"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// tables whose modified_date is refreshed by a trigger on every update,
// including raw column updates that bypass gorm's autoUpdateTime
var timestampTriggers = map[string]string{
	"members": "member_id",
	"loans":   "loan_id",
}

const memberSummaryView = `
CREATE VIEW vw_member_summary AS
SELECT
    m.member_id,
    %s AS full_name,
    m.station_id,
    s.station_name,
    m.is_active,
    m.is_deceased,
    COALESCE(sv.total_savings, 0) AS total_savings,
    COALESCE(sv.premium_savings, 0) AS premium_savings,
    COALESCE(sv.fixed_target_deposits, 0) AS fixed_target_deposits,
    COALESCE(sv.shares_investment, 0) AS shares_investment,
    COALESCE(ln.total_loans_outstanding, 0) AS total_loans_outstanding,
    COALESCE(sv.total_savings, 0) - COALESCE(ln.total_loans_outstanding, 0) AS net_balance
FROM members m
JOIN stations s ON s.station_id = m.station_id
LEFT JOIN (
    SELECT sa.member_id,
        SUM(sa.current_balance) AS total_savings,
        SUM(CASE WHEN st.type_code = 'PREMIUM' THEN sa.current_balance ELSE 0 END) AS premium_savings,
        SUM(CASE WHEN st.type_code IN ('FIXED', 'TARGET') THEN sa.current_balance ELSE 0 END) AS fixed_target_deposits,
        SUM(CASE WHEN st.type_code = 'SHARES' THEN sa.current_balance ELSE 0 END) AS shares_investment
    FROM savings_accounts sa
    JOIN savings_types st ON st.savings_type_id = sa.savings_type_id
    WHERE sa.is_active = TRUE
    GROUP BY sa.member_id
) sv ON sv.member_id = m.member_id
LEFT JOIN (
    SELECT member_id, SUM(balance_outstanding) AS total_loans_outstanding
    FROM loans
    WHERE status IN ('Active', 'Defaulted')
    GROUP BY member_id
) ln ON ln.member_id = m.member_id`

// InstallSchemaExtras creates the member summary view and the
// modified_date triggers for the connected dialect. Safe to run on every start.
func InstallSchemaExtras(db *gorm.DB) error {
	dialect := db.Dialector.Name()

	stmts := []string{
		"DROP VIEW IF EXISTS vw_member_summary",
		fmt.Sprintf(memberSummaryView, fullNameExpr(dialect)),
	}
	stmts = append(stmts, triggerStatements(dialect)...)

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to install schema extras: %w", err)
		}
	}

	log.Printf("✅ Schema extras installed [%s]", dialect)
	return nil
}

func fullNameExpr(dialect string) string {
	if dialect == "sqlite" {
		return "TRIM(m.first_name || ' ' || COALESCE(NULLIF(m.middle_name, '') || ' ', '') || m.last_name)"
	}
	return "CONCAT_WS(' ', m.first_name, NULLIF(m.middle_name, ''), m.last_name)"
}

func triggerStatements(dialect string) []string {
	var stmts []string

	if dialect == "postgres" {
		stmts = append(stmts, `CREATE OR REPLACE FUNCTION set_modified_date() RETURNS TRIGGER AS $$
BEGIN
    NEW.modified_date = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql`)
	}

	for _, table := range []string{"members", "loans"} {
		name := "trg_" + table + "_modified_date"
		pk := timestampTriggers[table]

		switch dialect {
		case "sqlite":
			stmts = append(stmts,
				"DROP TRIGGER IF EXISTS "+name,
				strings.Join([]string{
					"CREATE TRIGGER " + name + " AFTER UPDATE ON " + table + " FOR EACH ROW",
					"WHEN NEW.modified_date IS OLD.modified_date",
					"BEGIN",
					"    UPDATE " + table + " SET modified_date = CURRENT_TIMESTAMP WHERE " + pk + " = NEW." + pk + ";",
					"END",
				}, "\n"),
			)
		case "mysql":
			stmts = append(stmts,
				"DROP TRIGGER IF EXISTS "+name,
				"CREATE TRIGGER "+name+" BEFORE UPDATE ON "+table+" FOR EACH ROW SET NEW.modified_date = CURRENT_TIMESTAMP(3)",
			)
		case "postgres":
			stmts = append(stmts,
				"DROP TRIGGER IF EXISTS "+name+" ON "+table,
				"CREATE TRIGGER "+name+" BEFORE UPDATE ON "+table+" FOR EACH ROW EXECUTE FUNCTION set_modified_date()",
			)
		}
	}
	return stmts
}

// Migrate runs AutoMigrate, installs the schema extras and seeds reference data
func Migrate(db *gorm.DB, seed SeedConfig) error {
	// SQLite rebuilds tables on column changes and refuses while a view depends on them
	if err := db.Exec("DROP VIEW IF EXISTS vw_member_summary").Error; err != nil {
		return fmt.Errorf("failed to drop summary view: %w", err)
	}
	if err := autoMigrate(db); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	if err := InstallSchemaExtras(db); err != nil {
		return err
	}
	if err := SeedMasterData(db); err != nil {
		return fmt.Errorf("master data seeding failed: %w", err)
	}
	return NewSeeder(db, seed).Run()
}

// autoMigrate runs the model migration. SQLite rebuilds a table to alter a
// column, so foreign keys are switched off for the run and checked after.
func autoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() != DriverSQLite {
		return models.AutoMigrate(db)
	}

	if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		return err
	}
	migrateErr := models.AutoMigrate(db)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return err
	}
	if migrateErr != nil {
		return migrateErr
	}

	var violations []map[string]interface{}
	if err := db.Raw("PRAGMA foreign_key_check").Scan(&violations).Error; err != nil {
		return err
	}
	if len(violations) > 0 {
		return fmt.Errorf("foreign key check failed: %d violations, first %v", len(violations), violations[0])
	}
	return nil
}
