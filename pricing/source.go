package pricing

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/rustyeddy/ptsim/market"
)

// Dir reads one <code>.csv file per instrument from Path.
type Dir struct {
	Path      string
	TimeFrame market.TimeFrame
}

// Prices returns the instrument's bars resampled to the directory's time
// frame. A missing file is reported as no series.
func (d Dir) Prices(code string) ([]market.PriceBar, error) {
	bars, err := LoadFile(filepath.Join(d.Path, code+".csv"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Resample(bars, d.TimeFrame), nil
}

// Memory is an in-process bar store keyed by instrument code.
type Memory struct {
	mu   sync.RWMutex
	bars map[string][]market.PriceBar
}

func NewMemory() *Memory {
	return &Memory{bars: make(map[string][]market.PriceBar)}
}

func (m *Memory) Set(code string, bars []market.PriceBar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[code] = bars
}

func (m *Memory) Prices(code string) ([]market.PriceBar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bars[code], nil
}
