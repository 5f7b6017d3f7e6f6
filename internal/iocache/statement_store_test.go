package iocache

import (
	"context"
	"testing"

	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementFixture() []schema.StatementRecord {
	year := func(y int, revenue, cogs, income, inventory, receivables, assets, equity, curAssets, curLiab float64) schema.RawStatementYear {
		return schema.RawStatementYear{
			FiscalYear: y, Revenue: revenue, CostOfGoodsSold: cogs, NetIncome: income,
			Inventory: inventory, AccountsReceivable: receivables, TotalAssets: assets,
			TotalEquity: equity, CurrentAssets: curAssets, CurrentLiabilities: curLiab,
		}
	}
	return []schema.StatementRecord{
		{TaxID: "97179430", CompanyName: "Acme Manufacturing", RawStatementYear: year(2021, 800, 500, 60, 100, 80, 1000, 500, 400, 200)},
		{TaxID: "97179430", CompanyName: "Acme Manufacturing", RawStatementYear: year(2022, 900, 560, 70, 110, 90, 1100, 520, 420, 210)},
		{TaxID: "97179430", CompanyName: "Acme Manufacturing", RawStatementYear: year(2023, 1000, 600, 80, 120, 100, 1200, 560, 450, 220)},
		{TaxID: "24566673", CompanyName: "Beta Logistics", RawStatementYear: year(2023, 500, 300, 20, 50, 40, 700, 300, 200, 180)},
	}
}

func newTestStatementStore(t *testing.T) *StatementStoreImpl {
	t.Helper()
	store, err := NewStatementStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	n, err := store.ImportStatements(context.Background(), statementFixture())
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return store.(*StatementStoreImpl)
}

func TestStatementStore_NoneBackend(t *testing.T) {
	store, err := NewStatementStore(schema.NoneBackend, "")
	require.NoError(t, err)

	row, err := store.FetchMetricRow(context.Background(), schema.ReturnOnEquity, "97179430", 2023)
	assert.NoError(t, err)
	assert.Nil(t, row)

	_, err = store.ImportStatements(context.Background(), statementFixture())
	assert.Error(t, err)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)
	assert.NoError(t, store.Close())
}

func TestStatementStore_FetchMetricRow(t *testing.T) {
	store := newTestStatementStore(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		family      schema.MetricKey
		taxID       string
		year        int
		wantNil     bool
		wantPrior   bool
		wantHistory int
	}{
		{"growth with prior", schema.RevenueGrowth, "97179430", 2023, false, true, 0},
		{"cagr gets history", schema.RevenueCAGR, "97179430", 2023, false, true, 3},
		{"cagr stops at fiscal year", schema.RevenueCAGR, "97179430", 2022, false, true, 2},
		{"first year has no prior", schema.InventoryTurnover, "97179430", 2021, false, false, 0},
		{"single year company", schema.CurrentRatio, "24566673", 2023, false, false, 0},
		{"year not on file", schema.ReturnOnEquity, "97179430", 2024, true, false, 0},
		{"unknown company", schema.ReturnOnEquity, "11111111", 2023, true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := store.FetchMetricRow(ctx, tt.family, tt.taxID, tt.year)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, row)
				return
			}
			require.NotNil(t, row)
			assert.Equal(t, tt.taxID, row.TaxID)
			assert.Equal(t, tt.year, row.FiscalYear)
			assert.Equal(t, tt.year, row.Current.FiscalYear)
			assert.Equal(t, tt.wantPrior, row.Prior != nil)
			assert.Len(t, row.History, tt.wantHistory)
		})
	}
}

func TestStatementStore_FetchValues(t *testing.T) {
	store := newTestStatementStore(t)

	row, err := store.FetchMetricRow(context.Background(), schema.RevenueCAGR, "97179430", 2023)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Acme Manufacturing", row.CompanyName)
	assert.Equal(t, 1000.0, row.Current.Revenue)
	assert.Equal(t, 900.0, row.Prior.Revenue)
	assert.Equal(t, 2021, row.History[0].FiscalYear)
	assert.Equal(t, 2023, row.History[2].FiscalYear)
}

func TestStatementStore_ImportUpserts(t *testing.T) {
	store := newTestStatementStore(t)
	ctx := context.Background()

	updated := statementFixture()[2]
	updated.Revenue = 1234
	updated.CompanyName = "Acme Manufacturing Co"
	_, err := store.ImportStatements(ctx, []schema.StatementRecord{updated})
	require.NoError(t, err)

	row, err := store.FetchMetricRow(ctx, schema.RevenueGrowth, "97179430", 2023)
	require.NoError(t, err)
	assert.Equal(t, 1234.0, row.Current.Revenue)
	assert.Equal(t, "Acme Manufacturing Co", row.CompanyName)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 4, status.TotalRows)
	assert.Equal(t, 2, status.Companies)
	assert.Equal(t, 2021, status.EarliestYear)
	assert.Equal(t, 2023, status.LatestYear)
}

func TestStatementStore_ImportRejectsInvalid(t *testing.T) {
	store := newTestStatementStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record schema.StatementRecord
	}{
		{"missing tax id", schema.StatementRecord{RawStatementYear: schema.RawStatementYear{FiscalYear: 2023}}},
		{"non numeric tax id", schema.StatementRecord{TaxID: "ABC12345", RawStatementYear: schema.RawStatementYear{FiscalYear: 2023}}},
		{"year out of range", schema.StatementRecord{TaxID: "12345678", RawStatementYear: schema.RawStatementYear{FiscalYear: 1800}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := statementFixture()[3]
			good.TaxID = "55555555"
			n, err := store.ImportStatements(ctx, []schema.StatementRecord{good, tt.record})
			assert.Error(t, err)
			assert.Zero(t, n)

			// nothing from a rejected batch is written
			row, err := store.FetchMetricRow(ctx, schema.CurrentRatio, "55555555", 2023)
			require.NoError(t, err)
			assert.Nil(t, row)
		})
	}
}

func TestStatementStore_EmptyStatus(t *testing.T) {
	store, err := NewStatementStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRows)
	assert.Equal(t, 0, status.EarliestYear)
}

func TestBuildMetricRow(t *testing.T) {
	records := statementFixture()[:3]

	assert.Nil(t, buildMetricRow(schema.RevenueGrowth, "97179430", 2020, records))

	row := buildMetricRow(schema.RevenueGrowth, "97179430", 2022, records)
	require.NotNil(t, row)
	assert.Equal(t, 2021, row.Prior.FiscalYear)
	assert.Nil(t, row.History)

	row = buildMetricRow(schema.RevenueCAGR, "97179430", 2023, records)
	require.NotNil(t, row)
	assert.Len(t, row.History, 3)
}
