package iocache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/finscore/schema"
)

// statementCSVColumns are the recognized CSV header names. Column order is free.
var statementCSVColumns = []string{
	"tax_id", "fiscal_year", "company_name", "revenue", "cost_of_goods_sold", "net_income",
	"inventory", "accounts_receivable", "total_assets", "total_equity", "current_assets", "current_liabilities",
}

// ReadStatementsCSV parses statement rows from CSV with a header line.
// tax_id and fiscal_year are required columns; missing amount columns read as zero.
func ReadStatementsCSV(r io.Reader) ([]schema.StatementRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	for _, required := range []string{"tax_id", "fiscal_year"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", required)
		}
	}

	var records []schema.StatementRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseStatementRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseStatementRow(row []string, index map[string]int) (schema.StatementRecord, error) {
	get := func(col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	amount := func(col string) (float64, error) {
		s := strings.ReplaceAll(get(col), ",", "")
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", col, err)
		}
		return v, nil
	}

	var rec schema.StatementRecord
	rec.TaxID = get("tax_id")
	rec.CompanyName = get("company_name")
	year, err := strconv.Atoi(get("fiscal_year"))
	if err != nil {
		return rec, fmt.Errorf("column fiscal_year: %w", err)
	}
	rec.FiscalYear = year

	targets := map[string]*float64{
		"revenue":             &rec.Revenue,
		"cost_of_goods_sold":  &rec.CostOfGoodsSold,
		"net_income":          &rec.NetIncome,
		"inventory":           &rec.Inventory,
		"accounts_receivable": &rec.AccountsReceivable,
		"total_assets":        &rec.TotalAssets,
		"total_equity":        &rec.TotalEquity,
		"current_assets":      &rec.CurrentAssets,
		"current_liabilities": &rec.CurrentLiabilities,
	}
	for _, col := range statementCSVColumns[3:] {
		v, err := amount(col)
		if err != nil {
			return rec, err
		}
		*targets[col] = v
	}
	return rec, nil
}
