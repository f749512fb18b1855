package tradelog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	position_id TEXT NOT NULL,
	kind        TEXT NOT NULL,
	token       TEXT NOT NULL,
	symbol      TEXT NOT NULL,
	amount_wei  TEXT NOT NULL,
	pnl_percent TEXT,
	tx_hash     TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_position ON trades(position_id);
`

// Store is the append-only audit log of executed trades. It is a sink, not
// a ledger: the agent never reads it back, and positions are not
// reconstructed from it on restart.
type Store struct {
	db *sqlx.DB
}

var _ domain.TradeLog = (*Store)(nil)

// NewStore opens (or creates) the SQLite file and ensures the schema.
func NewStore(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trade log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// TradeRow is the stored shape of one trade. Amounts are kept as decimal
// strings since SQLite has no 256-bit integer type.
type TradeRow struct {
	ID         int64     `db:"id"`
	PositionID string    `db:"position_id"`
	Kind       string    `db:"kind"`
	Token      string    `db:"token"`
	Symbol     string    `db:"symbol"`
	AmountWei  string    `db:"amount_wei"`
	PnLPercent *string   `db:"pnl_percent"`
	TxHash     string    `db:"tx_hash"`
	CreatedAt  time.Time `db:"created_at"`
}

// Append records one executed trade.
func (s *Store) Append(ctx context.Context, event domain.TradeEvent) error {
	row := TradeRow{
		PositionID: event.PositionID.String(),
		Kind:       string(event.Kind),
		Token:      event.Token.Hex(),
		Symbol:     event.TokenSymbol,
		AmountWei:  event.AmountNative.String(),
		TxHash:     event.TxHash.Hex(),
		CreatedAt:  event.Time.UTC(),
	}
	if event.ProfitLossPercent != nil {
		pnl := event.ProfitLossPercent.String()
		row.PnLPercent = &pnl
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO trades (position_id, kind, token, symbol, amount_wei, pnl_percent, tx_hash, created_at)
		VALUES (:position_id, :kind, :token, :symbol, :amount_wei, :pnl_percent, :tx_hash, :created_at)`,
		row)
	if err != nil {
		return fmt.Errorf("failed to append trade: %w", err)
	}
	return nil
}

// TradesForPosition returns all recorded trades for a position, oldest
// first. Used for offline inspection; the trading loop never reads back.
func (s *Store) TradesForPosition(ctx context.Context, positionID string) ([]TradeRow, error) {
	var rows []TradeRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM trades WHERE position_id = ? ORDER BY id ASC`, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return rows, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
