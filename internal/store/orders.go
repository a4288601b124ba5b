package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"finanp2p/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const orderColumns = `order_id, wallet_address, amount, status, tx_hash, created_at, updated_at`

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO orders (
			order_id, wallet_address, amount, status, tx_hash, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID,
		order.WalletAddress,
		order.Amount.String(),
		order.Status,
		order.TxHash,
		order.CreatedAt,
		order.UpdatedAt,
	)
	return err
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id=$1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus applies a guarded status transition in a single
// conditional UPDATE. It returns nil (and no error) when the order does not
// exist or its persisted status is not in the expected set, so two racing
// transitions on the same order resolve to exactly one winner.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, expected []models.OrderStatus, next models.OrderStatus, txHash *string) (*models.Order, error) {
	states := make([]string, 0, len(expected))
	for _, st := range expected {
		states = append(states, string(st))
	}

	row := s.Pool.QueryRow(ctx, `
		UPDATE orders
		SET status=$3, tx_hash=COALESCE($4, tx_hash), updated_at=now()
		WHERE order_id=$1 AND status = ANY($2)
		RETURNING `+orderColumns+`
	`, orderID, states, next, txHash)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (s *Store) ListOrders(ctx context.Context, offset, limit int) ([]*models.Order, int64, error) {
	var total int64
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *Store) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status=$1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	var amount string
	var txHash sql.NullString
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&order.ID,
		&order.WalletAddress,
		&amount,
		&order.Status,
		&txHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	if txHash.Valid {
		order.TxHash = &txHash.String
	}
	order.CreatedAt = createdAt
	order.UpdatedAt = updatedAt
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
