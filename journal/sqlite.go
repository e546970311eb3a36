package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, user_id, kind, token, symbol, amount, exec_price, value_sol, realized_pl, dex, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.UserID, t.Kind, t.Token, t.Symbol,
		t.Amount, t.ExecPrice, t.ValueSOL, t.RealizedPL, t.Dex, t.Time,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (user_id, time, balance, equity)
		VALUES (?, ?, ?, ?)`,
		e.UserID, e.Time, e.Balance, e.Equity,
	)
	return err
}

// TradesByUser returns a user's journaled trades, oldest first.
func (j *SQLite) TradesByUser(userID int64) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, user_id, kind, token, symbol, amount, exec_price, value_sol, realized_pl, dex, time
		FROM trades WHERE user_id = ? ORDER BY time`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.UserID, &t.Kind, &t.Token, &t.Symbol,
			&t.Amount, &t.ExecPrice, &t.ValueSOL, &t.RealizedPL, &t.Dex, &t.Time); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
