package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/khoon485/toss-stock/internal/model"
)

// marketOrder fixes the iteration order over the holdings map so batches
// and reports are reproducible.
var marketOrder = []string{model.MarketUS, model.MarketKR, model.MarketCrypto}

// Store reads and writes the portfolio document at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by the given portfolio.json path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// rawPortfolio defers holdings decoding so both the grouped map layout and
// the legacy flat list are accepted. updated_at is parsed leniently because
// older files carry naive ISO timestamps without an offset.
type rawPortfolio struct {
	Holdings  json.RawMessage    `json:"holdings"`
	Cash      model.CashBalances `json:"cash"`
	UpdatedAt string             `json:"updated_at"`
}

func parseUpdatedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Load reads the portfolio file. A missing file yields an empty portfolio.
// Legacy files that store holdings as a flat list are read as US holdings.
func (s *Store) Load() (*model.Portfolio, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &model.Portfolio{Holdings: map[string][]model.Holding{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}

	var raw rawPortfolio
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}

	p := &model.Portfolio{
		Holdings:  map[string][]model.Holding{},
		Cash:      raw.Cash,
		UpdatedAt: parseUpdatedAt(raw.UpdatedAt),
	}
	if len(raw.Holdings) == 0 {
		return p, nil
	}

	var grouped map[string][]model.Holding
	if err := json.Unmarshal(raw.Holdings, &grouped); err == nil {
		p.Holdings = grouped
		return p, nil
	}

	var flat []model.Holding
	if err := json.Unmarshal(raw.Holdings, &flat); err != nil {
		return nil, fmt.Errorf("parse holdings: %w", err)
	}
	p.Holdings[model.MarketUS] = flat
	return p, nil
}

// Save stamps updated_at and writes the portfolio back to disk.
func (s *Store) Save(p *model.Portfolio) error {
	p.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write portfolio: %w", err)
	}
	return nil
}

// Add appends a holding to the given market segment. Symbols are stored
// uppercase; adding an existing symbol is an error.
func (s *Store) Add(symbol, name string, quantity float64, market string) error {
	if market == "" {
		market = model.MarketUS
	}
	p, err := s.Load()
	if err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)
	for _, h := range p.Holdings[market] {
		if strings.ToUpper(h.Symbol) == symbol {
			return fmt.Errorf("holding %s already exists in %s", symbol, market)
		}
	}
	p.Holdings[market] = append(p.Holdings[market], model.Holding{
		Symbol:   symbol,
		Name:     name,
		Quantity: quantity,
	})
	return s.Save(p)
}

// Remove deletes a holding from the given market segment.
func (s *Store) Remove(symbol, market string) error {
	if market == "" {
		market = model.MarketUS
	}
	p, err := s.Load()
	if err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)
	list := p.Holdings[market]
	kept := list[:0]
	for _, h := range list {
		if strings.ToUpper(h.Symbol) != symbol {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("holding %s not found in %s", symbol, market)
	}
	p.Holdings[market] = kept
	return s.Save(p)
}

// AllHoldings flattens the grouped holdings, tagging each with its market
// segment. Known segments come first in a fixed order, any others sorted by
// name.
func AllHoldings(p *model.Portfolio) []model.Holding {
	var out []model.Holding
	seen := map[string]bool{}
	appendMarket := func(market string) {
		for _, h := range p.Holdings[market] {
			h.Market = market
			out = append(out, h)
		}
		seen[market] = true
	}
	for _, market := range marketOrder {
		appendMarket(market)
	}
	var rest []string
	for market := range p.Holdings {
		if !seen[market] {
			rest = append(rest, market)
		}
	}
	sort.Strings(rest)
	for _, market := range rest {
		appendMarket(market)
	}
	return out
}
