package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
)

// statementsTable holds one row per company per fiscal year.
const statementsTable = "financial_statements"

const statementColumns = `tax_id, fiscal_year, company_name, revenue, cost_of_goods_sold, net_income,
	inventory, accounts_receivable, total_assets, total_equity, current_assets, current_liabilities`

// StatementStoreImpl serves metric rows out of persisted financial statements.
type StatementStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.StatementStore = &StatementStoreImpl{} // Compile-time check

// NewStatementStore opens the statement database and migrates it to the latest version.
// NoneBackend yields a store where every company is absent.
func NewStatementStore(backend schema.DatabaseBackend, connStr string) (contract.StatementStore, error) {
	if backend == schema.NoneBackend {
		return &StatementStoreImpl{backend: backend}, nil
	}
	db, err := openDB(backend, connStr, contract.GetStatementDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("statements: %w", err)
	}
	if err := migrateUp(db, backend, StatementMigrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &StatementStoreImpl{db: db, backend: backend}, nil
}

// FetchMetricRow loads the statements one metric family needs. The CAGR family
// gets the whole history up to the fiscal year; the others get the fiscal year
// and the one before it. A missing current year means the row is absent.
func (ss *StatementStoreImpl) FetchMetricRow(ctx context.Context, family schema.MetricKey, taxID string, fiscalYear int) (*schema.RawMetricRow, error) {
	if ss.db == nil {
		return nil, nil
	}
	from := fiscalYear - 1
	if family == schema.RevenueCAGR {
		from = contract.MinFiscalYear
	}

	records, err := ss.queryStatements(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE tax_id = ? AND fiscal_year BETWEEN ? AND ? ORDER BY fiscal_year`,
			statementColumns, quoteTableName(statementsTable, ss.backend)),
		taxID, from, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	return buildMetricRow(family, taxID, fiscalYear, records), nil
}

// buildMetricRow assembles a row from statements sorted by fiscal year.
func buildMetricRow(family schema.MetricKey, taxID string, fiscalYear int, records []schema.StatementRecord) *schema.RawMetricRow {
	var current, prior *schema.StatementRecord
	for i := range records {
		switch records[i].FiscalYear {
		case fiscalYear:
			current = &records[i]
		case fiscalYear - 1:
			prior = &records[i]
		}
	}
	if current == nil {
		return nil
	}
	row := &schema.RawMetricRow{
		TaxID:       taxID,
		FiscalYear:  fiscalYear,
		CompanyName: current.CompanyName,
		Current:     current.RawStatementYear,
	}
	if prior != nil {
		p := prior.RawStatementYear
		row.Prior = &p
	}
	if family == schema.RevenueCAGR {
		for _, r := range records {
			row.History = append(row.History, r.RawStatementYear)
		}
	}
	return row
}

func (ss *StatementStoreImpl) queryStatements(ctx context.Context, query string, args ...any) ([]schema.StatementRecord, error) {
	rows, err := ss.db.QueryContext(ctx, rebind(query, ss.backend), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []schema.StatementRecord
	for rows.Next() {
		var r schema.StatementRecord
		if err := rows.Scan(&r.TaxID, &r.FiscalYear, &r.CompanyName, &r.Revenue, &r.CostOfGoodsSold, &r.NetIncome,
			&r.Inventory, &r.AccountsReceivable, &r.TotalAssets, &r.TotalEquity, &r.CurrentAssets, &r.CurrentLiabilities); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ImportStatements validates and upserts statement rows in one transaction.
func (ss *StatementStoreImpl) ImportStatements(ctx context.Context, records []schema.StatementRecord) (int, error) {
	if ss.db == nil {
		return 0, errors.New("statement store is disabled (backend none)")
	}
	for i, r := range records {
		if err := contract.ValidateStruct(r); err != nil {
			return 0, fmt.Errorf("record %d (%s/%d): %w", i+1, r.TaxID, r.FiscalYear, err)
		}
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, ss.getUpsertQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.TaxID, r.FiscalYear, r.CompanyName, r.Revenue, r.CostOfGoodsSold, r.NetIncome,
			r.Inventory, r.AccountsReceivable, r.TotalAssets, r.TotalEquity, r.CurrentAssets, r.CurrentLiabilities); err != nil {
			return 0, fmt.Errorf("failed to upsert %s/%d: %w", r.TaxID, r.FiscalYear, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(records), nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ss *StatementStoreImpl) getUpsertQuery() string {
	quoted := quoteTableName(statementsTable, ss.backend)
	const values = `(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s AS new ON DUPLICATE KEY UPDATE
			company_name = new.company_name, revenue = new.revenue, cost_of_goods_sold = new.cost_of_goods_sold,
			net_income = new.net_income, inventory = new.inventory, accounts_receivable = new.accounts_receivable,
			total_assets = new.total_assets, total_equity = new.total_equity, current_assets = new.current_assets,
			current_liabilities = new.current_liabilities`, quoted, statementColumns, values)

	case schema.PostgreSQLBackend:
		return rebind(fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s ON CONFLICT (tax_id, fiscal_year) DO UPDATE SET
			company_name = EXCLUDED.company_name, revenue = EXCLUDED.revenue, cost_of_goods_sold = EXCLUDED.cost_of_goods_sold,
			net_income = EXCLUDED.net_income, inventory = EXCLUDED.inventory, accounts_receivable = EXCLUDED.accounts_receivable,
			total_assets = EXCLUDED.total_assets, total_equity = EXCLUDED.total_equity, current_assets = EXCLUDED.current_assets,
			current_liabilities = EXCLUDED.current_liabilities`, quoted, statementColumns, values), ss.backend)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES %s`, quoted, statementColumns, values)
	}
}

// GetStatus returns status information about the statement store.
func (ss *StatementStoreImpl) GetStatus() (schema.StatementStatus, error) {
	status := schema.StatementStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.db == nil {
		return status, nil
	}
	query := fmt.Sprintf(`SELECT COUNT(*), COUNT(DISTINCT tax_id), COALESCE(MIN(fiscal_year), 0), COALESCE(MAX(fiscal_year), 0) FROM %s`,
		quoteTableName(statementsTable, ss.backend))
	if err := ss.db.QueryRow(query).Scan(&status.TotalRows, &status.Companies, &status.EarliestYear, &status.LatestYear); err != nil {
		return status, fmt.Errorf("failed to get statement counts: %w", err)
	}
	return status, nil
}

// Close closes the underlying connection.
func (ss *StatementStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
