package pricing

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

var barColumns = []string{"date", "open", "high", "low", "close"}

// LoadCSV reads daily bars with a date,open,high,low,close[,volume]
// header. Columns are matched by name. Empty price fields read as zero,
// which marks a day without a trade. Bars come back in date order.
func LoadCSV(r io.Reader) ([]market.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range barColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	vol, hasVol := idx["volume"]

	var bars []market.PriceBar
	seen := make(map[int64]bool)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(rec))
		}

		date, err := market.ParseDay(rec[idx["date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[date.Unix()] {
			return nil, fmt.Errorf("line %d: duplicate date %s", line, rec[idx["date"]])
		}
		seen[date.Unix()] = true

		bar := market.PriceBar{Date: date}
		fields := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close}
		for i, c := range barColumns[1:] {
			if *fields[i], err = parseFloat(rec[idx[c]]); err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, c, err)
			}
		}
		if hasVol {
			if bar.Volume, err = parseFloat(rec[vol]); err != nil {
				return nil, fmt.Errorf("line %d volume: %w", line, err)
			}
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// LoadFile opens path and reads it with LoadCSV.
func LoadFile(path string) ([]market.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
