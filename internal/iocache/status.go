package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
)

// CollectStatus gathers the status of every store the manager holds.
func CollectStatus(mgr contract.CacheManager) (schema.StoreStatus, error) {
	var status schema.StoreStatus
	var err error
	if s := mgr.GetStatementStore(); s != nil {
		if status.Statements, err = s.GetStatus(); err != nil {
			return status, fmt.Errorf("statement status: %w", err)
		}
	}
	if c := mgr.GetCacheStore(); c != nil {
		if status.Cache, err = c.GetStatus(); err != nil {
			return status, fmt.Errorf("cache status: %w", err)
		}
	}
	if r := mgr.GetReportStore(); r != nil {
		if status.Reports, err = r.GetStatus(); err != nil {
			return status, fmt.Errorf("report status: %w", err)
		}
	}
	return status, nil
}

// PrintStoreStatus prints the status of every store.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	printStatementStatus(w, status.Statements)
	_, _ = fmt.Fprintln(w)
	printCacheStatus(w, status.Cache)
	_, _ = fmt.Fprintln(w)
	printReportStatus(w, status.Reports)
}

func printStatementStatus(w io.Writer, status schema.StatementStatus) {
	_, _ = fmt.Fprintf(w, "Statement Backend: %s\n", orDisabled(status.Backend))
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Statement Rows: %d\n", status.TotalRows)
	_, _ = fmt.Fprintf(w, "Companies: %d\n", status.Companies)
	if status.TotalRows > 0 {
		_, _ = fmt.Fprintf(w, "Fiscal Years: %d - %d\n", status.EarliestYear, status.LatestYear)
	}
}

func printCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", orDisabled(status.Backend))
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(contract.DateTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

func printReportStatus(w io.Writer, status schema.ReportStatus) {
	_, _ = fmt.Fprintf(w, "Report Backend: %s\n", orDisabled(status.Backend))
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(contract.DateTimeFormat))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

func orDisabled(backend string) string {
	if backend == "" {
		return "disabled"
	}
	return backend
}
