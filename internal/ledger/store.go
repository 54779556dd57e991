// internal/ledger/store.go
//
// Win ledger backed by SQLite.
//
// Only wins are recorded: session ID, claim code, the letters held at the
// moment of the win and timestamps. Staff redeem each claim code once at the
// reception desk (one wheel spin per win).

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownClaim    = errors.New("unknown claim code")
	ErrAlreadyRedeemed = errors.New("claim already redeemed")
)

// Win is one row of the wins table.
type Win struct {
	SessionID  string     `json:"sessionId"`
	ClaimCode  string     `json:"claimCode"`
	Date       string     `json:"date"`
	Letters    []string   `json:"letters"`
	WonAt      time.Time  `json:"wonAt"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// RecordWin inserts a win. A session that is already recorded is ignored.
func (s *Store) RecordWin(ctx context.Context, w Win) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO wins(session_id, claim_code, date, letters, won_at)
		 VALUES(?,?,?,?,?)`,
		w.SessionID, w.ClaimCode, DateKey(w.WonAt), strings.Join(w.Letters, ""),
		w.WonAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Redeem marks a claim code as used and returns the redeemed win.
func (s *Store) Redeem(ctx context.Context, code string, at time.Time) (*Win, error) {
	code = NormalizeCode(code)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	w, err := scanWin(tx.QueryRowContext(ctx,
		`SELECT session_id, claim_code, date, letters, won_at, COALESCE(redeemed_at,'')
		 FROM wins WHERE claim_code=?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownClaim
	}
	if err != nil {
		return nil, err
	}
	if w.RedeemedAt != nil {
		return w, ErrAlreadyRedeemed
	}

	ts := at.UTC().Truncate(time.Second)
	if _, err := tx.ExecContext(ctx,
		`UPDATE wins SET redeemed_at=? WHERE claim_code=?`, ts.Format(time.RFC3339), code); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	w.RedeemedAt = &ts
	return w, nil
}

// Wins lists the wins of one date, oldest first.
func (s *Store) Wins(ctx context.Context, date string, limit int) ([]Win, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, claim_code, date, letters, won_at, COALESCE(redeemed_at,'')
		 FROM wins
		 WHERE date=?
		 ORDER BY won_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Win{}
	for rows.Next() {
		w, err := scanWin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWin(row rowScanner) (*Win, error) {
	var (
		w                 Win
		letters, wonAt, r string
	)
	if err := row.Scan(&w.SessionID, &w.ClaimCode, &w.Date, &letters, &wonAt, &r); err != nil {
		return nil, err
	}
	w.Letters = splitLetters(letters)
	var err error
	if w.WonAt, err = time.Parse(time.RFC3339, wonAt); err != nil {
		return nil, fmt.Errorf("win %s: won_at: %w", w.SessionID, err)
	}
	if r != "" {
		t, err := time.Parse(time.RFC3339, r)
		if err != nil {
			return nil, fmt.Errorf("win %s: redeemed_at: %w", w.SessionID, err)
		}
		w.RedeemedAt = &t
	}
	return &w, nil
}

func splitLetters(s string) []string {
	out := []string{}
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
