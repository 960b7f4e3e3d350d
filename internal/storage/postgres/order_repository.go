package postgres

import (
	"context"
	"fmt"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const orderColumns = `id, row_hash, email, cnt, event, theater, event_date, sold_date, ingested_at`

func (r *OrderRepository) ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE email = $1 ORDER BY id`
	rows, err := r.query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list orders by email: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY id`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) ListFacets(ctx context.Context) (events, theaters []string, err error) {
	events, err = r.listDistinct(ctx, `SELECT DISTINCT event FROM orders WHERE event <> '' ORDER BY event`)
	if err != nil {
		return nil, nil, fmt.Errorf("list events: %w", err)
	}
	theaters, err = r.listDistinct(ctx, `SELECT DISTINCT theater FROM orders WHERE theater <> '' ORDER BY theater`)
	if err != nil {
		return nil, nil, fmt.Errorf("list theaters: %w", err)
	}
	return events, theaters, nil
}

// UpsertOrders writes the rows inside one transaction, updating rows whose
// content hash already exists so re-imports stay idempotent.
func (r *OrderRepository) UpsertOrders(ctx context.Context, orders []domain.Order) (int, error) {
	const stmt = `
INSERT INTO orders (row_hash, email, cnt, event, theater, event_date, sold_date, ingested_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (row_hash) DO UPDATE SET
	email = EXCLUDED.email,
	cnt = EXCLUDED.cnt,
	event = EXCLUDED.event,
	theater = EXCLUDED.theater,
	event_date = EXCLUDED.event_date,
	sold_date = EXCLUDED.sold_date,
	ingested_at = EXCLUDED.ingested_at`

	count := 0
	err := r.WithTx(ctx, func(txCtx context.Context) error {
		for _, o := range orders {
			if _, err := r.exec(txCtx, stmt,
				o.RowHash,
				o.Email,
				o.Quantity,
				o.Event,
				o.Theater,
				o.EventDate,
				o.SoldDate,
				o.IngestedAt,
			); err != nil {
				return fmt.Errorf("upsert order: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.RowHash,
			&o.Email,
			&o.Quantity,
			&o.Event,
			&o.Theater,
			&o.EventDate,
			&o.SoldDate,
			&o.IngestedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) listDistinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
