package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository is the local ledger of accepted orders.
type Repository interface {
	SaveReceipt(ctx context.Context, r *Receipt) error
	ListReceipts(ctx context.Context, limit int) ([]*Receipt, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveReceipt(ctx context.Context, rec *Receipt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_receipts (
			id, number, order_id, total, email, name,
			tel, address, message, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rec.ID,
		rec.Number,
		rec.OrderID,
		rec.Total,
		rec.Email,
		rec.Name,
		rec.Tel,
		rec.Address,
		rec.Message,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}

	for _, item := range rec.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_receipt_items (receipt_id, product_id, title, qty, price)
			VALUES ($1,$2,$3,$4,$5)
		`, rec.ID, item.ProductID, item.Title, item.Qty, item.Price)
		if err != nil {
			return fmt.Errorf("insert receipt item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *repository) ListReceipts(ctx context.Context, limit int) ([]*Receipt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, order_id, total, email, name, tel, address, message, created_at
		FROM order_receipts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []*Receipt{}
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(
			&rec.ID,
			&rec.Number,
			&rec.OrderID,
			&rec.Total,
			&rec.Email,
			&rec.Name,
			&rec.Tel,
			&rec.Address,
			&rec.Message,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Items = []ReceiptItem{}
		receipts = append(receipts, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, receipts); err != nil {
		return nil, err
	}

	return receipts, nil
}

// loadItems fills Items for every receipt with one query.
func (r *repository) loadItems(ctx context.Context, receipts []*Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*Receipt, len(receipts))
	ids := make([]string, 0, len(receipts))
	for _, rec := range receipts {
		byID[rec.ID] = rec
		ids = append(ids, rec.ID.String())
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT receipt_id, product_id, title, qty, price
		FROM order_receipt_items
		WHERE receipt_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			receiptID uuid.UUID
			item      ReceiptItem
		)
		if err := rows.Scan(&receiptID, &item.ProductID, &item.Title, &item.Qty, &item.Price); err != nil {
			return err
		}
		if rec, ok := byID[receiptID]; ok {
			rec.Items = append(rec.Items, item)
		}
	}
	return rows.Err()
}

// NopRepository is used when no database is configured.
type NopRepository struct{}

func (NopRepository) SaveReceipt(context.Context, *Receipt) error { return nil }

func (NopRepository) ListReceipts(context.Context, int) ([]*Receipt, error) {
	return []*Receipt{}, nil
}
