package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Adi-UA/SimpleTrader/market"
)

// BarFeed yields daily bars one at a time, oldest first. Implementations
// should be deterministic and return (ok=false, err=nil) at EOF.
type BarFeed interface {
	Next() (b market.Bar, ok bool, err error)
	Close() error
}

// SliceFeed serves bars from memory. Mostly for tests and programmatic use.
type SliceFeed struct {
	bars  []market.Bar
	index int
}

func NewSliceFeed(bars []market.Bar) *SliceFeed {
	return &SliceFeed{bars: bars}
}

func (s *SliceFeed) Next() (market.Bar, bool, error) {
	if s.index >= len(s.bars) {
		return market.Bar{}, false, nil
	}
	b := s.bars[s.index]
	s.index++
	return b, true, nil
}

func (s *SliceFeed) Close() error { return nil }

// CSVBarFeed reads daily bar rows:
//
//	date,close
//
// where date is 2006-01-02 or RFC3339. A header row ("date,...") is
// allowed; empty rows are skipped. Malformed rows are returned as errors
// rather than skipped, so the caller sees exactly where a dataset is bad.
type CSVBarFeed struct {
	f *os.File
	r *csv.Reader

	sawFirst bool
}

func NewCSVBarFeed(path string) (*CSVBarFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &CSVBarFeed{f: f, r: r}, nil
}

func (c *CSVBarFeed) Close() error {
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

func (c *CSVBarFeed) Next() (market.Bar, bool, error) {
	for {
		row, err := c.r.Read()
		if err == io.EOF {
			return market.Bar{}, false, nil
		}
		if err != nil {
			return market.Bar{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !c.sawFirst {
			c.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return market.Bar{}, false, err
		}
		return b, true, nil
	}
}

func parseBarRow(row []string) (market.Bar, error) {
	if len(row) < 2 {
		return market.Bar{}, fmt.Errorf("bad row (need date,close): %v", row)
	}

	ds := strings.TrimSpace(row[0])
	t, err := time.Parse("2006-01-02", ds)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, ds)
		if err2 != nil {
			return market.Bar{}, fmt.Errorf("bad date %q: %w", row[0], err)
		}
		t = t2
	}

	close, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("bad close %q: %w", row[1], err)
	}

	return market.Bar{Time: t, Close: close}, nil
}
