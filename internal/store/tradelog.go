package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
)

// signalFieldOrder is the column order used when a trade log is first
// created. Later appends may widen it; prior columns keep their position.
var signalFieldOrder = []string{
	"Timestamp", "Stock", "Side", "Entry", "Target", "StopLoss",
	"Confidence", "Strategy", "StrategyType",
}

// AppendTradeLog appends final signals to the cumulative trade log
func (s *FileStore) AppendTradeLog(signals []contracts.Signal) error {
	return s.appendCSV(s.path(tradeLogFile), signalFieldOrder, signalRows(signals))
}

// AppendStrategyLog appends a strategy's accepted signals to its own log
func (s *FileStore) AppendStrategyLog(strategyName string, signals []contracts.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	dir := s.path(strategyLogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create strategy log dir: %w", err)
	}

	path := filepath.Join(dir, strategyName+"_log.csv")
	return s.appendCSV(path, signalFieldOrder, signalRows(signals))
}

// ReadTradeLog returns the trade log header and rows keyed by column name
func (s *FileStore) ReadTradeLog() ([]string, []map[string]string, error) {
	f, err := os.Open(s.path(tradeLogFile))
	if err != nil {
		return nil, nil, fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read trade log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// RewriteTradeLog replaces the trade log with the given header and rows,
// used by the position tracker to overlay live columns.
func (s *FileStore) RewriteTradeLog(header []string, rows []map[string]string) error {
	return writeCSV(s.path(tradeLogFile), header, rows)
}

// appendCSV appends rows to a CSV file. When the file exists and the new
// rows carry columns absent from its header, the whole file is rewritten
// with the widened header, preserving prior rows (empty cells for columns
// they predate).
func (s *FileStore) appendCSV(path string, fieldOrder []string, rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	existing, err := os.Open(path)
	if os.IsNotExist(err) {
		return writeCSV(path, fieldOrder, rows)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	records, err := csv.NewReader(existing).ReadAll()
	existing.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return writeCSV(path, fieldOrder, rows)
	}

	header := records[0]
	known := make(map[string]struct{}, len(header))
	for _, col := range header {
		known[col] = struct{}{}
	}

	// Widen the header with any new columns, preserving existing order.
	finalHeader := append([]string{}, header...)
	widened := false
	for _, col := range fieldOrder {
		if _, ok := known[col]; !ok {
			finalHeader = append(finalHeader, col)
			known[col] = struct{}{}
			widened = true
		}
	}

	if !widened {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("append %s: %w", path, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		for _, row := range rows {
			if err := w.Write(recordFor(header, row)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		w.Flush()
		return w.Error()
	}

	// Rewrite completely: old rows first, padded to the widened header.
	oldRows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		oldRows = append(oldRows, row)
	}

	return writeCSV(path, finalHeader, append(oldRows, rows...))
}

// writeCSV writes a complete CSV file with the given header and rows
func writeCSV(path string, header []string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(recordFor(header, row)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// recordFor orders a row's cells by the header, empty for missing columns
func recordFor(header []string, row map[string]string) []string {
	record := make([]string, len(header))
	for i, col := range header {
		record[i] = row[col]
	}
	return record
}

// signalRows converts signals to CSV rows with 2-decimal price formatting
func signalRows(signals []contracts.Signal) []map[string]string {
	rows := make([]map[string]string, 0, len(signals))
	for _, sig := range signals {
		sig.RoundPrices()
		rows = append(rows, map[string]string{
			"Timestamp":    sig.Timestamp.Format(time.RFC3339),
			"Stock":        sig.Symbol,
			"Side":         string(sig.Side),
			"Entry":        formatPrice(sig.Entry),
			"Target":       formatPrice(sig.Target),
			"StopLoss":     formatPrice(sig.StopLoss),
			"Confidence":   formatPrice(sig.Confidence),
			"Strategy":     sig.Strategy,
			"StrategyType": string(sig.StrategyType),
		})
	}
	return rows
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
