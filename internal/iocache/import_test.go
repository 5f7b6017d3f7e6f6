package iocache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStatementsCSV(t *testing.T) {
	input := "\ufeffTax_ID,fiscal_year,company_name,revenue,net_income,total_equity\n" +
		"97179430,2023,Acme Manufacturing,\"1,000\",80,560\n" +
		"24566673,2023,Beta Logistics,500,,300\n"

	records, err := ReadStatementsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "97179430", records[0].TaxID)
	assert.Equal(t, 2023, records[0].FiscalYear)
	assert.Equal(t, "Acme Manufacturing", records[0].CompanyName)
	assert.Equal(t, 1000.0, records[0].Revenue)
	assert.Equal(t, 80.0, records[0].NetIncome)
	assert.Equal(t, 560.0, records[0].TotalEquity)
	assert.Zero(t, records[0].Inventory)

	assert.Zero(t, records[1].NetIncome)
}

func TestReadStatementsCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty CSV input"},
		{"missing tax id", "fiscal_year,revenue\n2023,1\n", `missing column "tax_id"`},
		{"missing year", "tax_id,revenue\n97179430,1\n", `missing column "fiscal_year"`},
		{"bad year", "tax_id,fiscal_year\n97179430,next\n", "line 2: column fiscal_year"},
		{"bad amount", "tax_id,fiscal_year,revenue\n97179430,2023,1\n97179430,2022,lots\n", "line 3: column revenue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadStatementsCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadStatementsCSV_HeaderOnly(t *testing.T) {
	records, err := ReadStatementsCSV(strings.NewReader("tax_id,fiscal_year\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func FuzzReadStatementsCSV(f *testing.F) {
	f.Add("tax_id,fiscal_year,revenue\n97179430,2023,100\n")
	f.Add("tax_id,fiscal_year\n,\n")
	f.Add("\"unterminated\n")
	f.Fuzz(func(t *testing.T, input string) {
		records, err := ReadStatementsCSV(strings.NewReader(input))
		if err != nil {
			assert.Nil(t, records)
		}
	})
}
