package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite journals into a local database so runs can be queried after the
// fact with plain SQL.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(r FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, side, quantity, price, time, cash, position, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.FillID, r.Side, r.Quantity, r.Price,
		r.Time, r.Cash, r.Position, r.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, position, equity)
		VALUES (?, ?, ?, ?)`,
		e.Time, e.Cash, e.Position, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
