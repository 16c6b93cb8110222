package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rustyeddy/ptsim/market"
)

var logColumns = []string{"date", "code", "side", "quantity", "price"}

// LogBook holds a trading system's executions grouped by instrument.
type LogBook struct {
	entries map[string][]market.LogEntry
}

// LoadLogCSV reads executions with a date,code,side,quantity,price header.
// Each instrument's entries are ordered by date; fills on the same date
// keep their file order.
func LoadLogCSV(r io.Reader) (*LogBook, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	lb := &LogBook{entries: make(map[string][]market.LogEntry)}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return lb, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range logColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var e market.LogEntry
		if e.Date, err = market.ParseDay(strings.TrimSpace(rec[idx["date"]])); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e.Code = strings.TrimSpace(rec[idx["code"]])
		if e.Code == "" {
			return nil, fmt.Errorf("line %d: empty code", line)
		}
		if e.Side, err = market.ParseSide(rec[idx["side"]]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if e.Quantity, err = strconv.ParseUint(strings.TrimSpace(rec[idx["quantity"]]), 10, 64); err != nil {
			return nil, fmt.Errorf("line %d quantity: %w", line, err)
		}
		if e.Price, err = strconv.ParseFloat(strings.TrimSpace(rec[idx["price"]]), 64); err != nil {
			return nil, fmt.Errorf("line %d price: %w", line, err)
		}
		if e.Price < 0 {
			return nil, fmt.Errorf("line %d: negative price %v", line, e.Price)
		}
		lb.entries[e.Code] = append(lb.entries[e.Code], e)
	}

	for _, es := range lb.entries {
		sort.SliceStable(es, func(i, j int) bool { return es[i].Date.Before(es[j].Date) })
	}
	return lb, nil
}

// LoadLogFile opens path and reads it with LoadLogCSV.
func LoadLogFile(path string) (*LogBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lb, err := LoadLogCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lb, nil
}

// Logs returns the executions of code in date order.
func (lb *LogBook) Logs(code string) ([]market.LogEntry, error) {
	return lb.entries[code], nil
}

// Codes lists the instruments that have executions, sorted.
func (lb *LogBook) Codes() []string {
	out := make([]string, 0, len(lb.entries))
	for c := range lb.entries {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len is the total number of executions.
func (lb *LogBook) Len() int {
	n := 0
	for _, es := range lb.entries {
		n += len(es)
	}
	return n
}
