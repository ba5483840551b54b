package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetFill returns a single fill record by ID.
func (j *SQLite) GetFill(fillID string) (FillRecord, error) {
	var rec FillRecord

	row := j.db.QueryRow(`
		SELECT fill_id, side, quantity, price, time, cash, position, reason
		FROM fills
		WHERE fill_id = ?`, fillID)

	err := row.Scan(
		&rec.FillID,
		&rec.Side,
		&rec.Quantity,
		&rec.Price,
		&rec.Time,
		&rec.Cash,
		&rec.Position,
		&rec.Reason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return FillRecord{}, fmt.Errorf("fill %q not found", fillID)
		}
		return FillRecord{}, err
	}
	return rec, nil
}

// ListFillsBetween returns fills whose time is within [start, end), oldest
// first.
func (j *SQLite) ListFillsBetween(start, end time.Time) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, side, quantity, price, time, cash, position, reason
		FROM fills
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(
			&rec.FillID,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Time,
			&rec.Cash,
			&rec.Position,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity snapshots within [start, end), oldest
// first.
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, cash, position, equity
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(
			&rec.Time,
			&rec.Cash,
			&rec.Position,
			&rec.Equity,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
