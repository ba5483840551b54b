package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV writes fills and equity snapshots to two CSV files, flushing after
// every record so a crashed run still leaves usable output.
type CSV struct {
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

func NewCSV(fillsPath, equityPath string) (*CSV, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	ew := csv.NewWriter(ef)

	if err := fw.Write([]string{"fill_id", "side", "quantity", "price", "time", "cash", "position", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "cash", "position", "equity"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSV{fills: fw, equity: ew, ff: ff, ef: ef}, nil
}

func (j *CSV) RecordFill(r FillRecord) error {
	if err := j.fills.Write([]string{
		r.FillID,
		r.Side,
		f(r.Quantity),
		f(r.Price),
		r.Time.Format(time.RFC3339),
		f(r.Cash),
		f(r.Position),
		r.Reason,
	}); err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSV) RecordEquity(e EquitySnapshot) error {
	if err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Cash),
		f(e.Position),
		f(e.Equity),
	}); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.ff.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
