package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uav-store/backend/internal/domain"
)

// BillFilter narrows bill listings.
type BillFilter struct {
	CustomerID    *string
	ShipperID     *string
	PaymentStatus *domain.PaymentStatus
	Page          Page
}

// BillRepository encapsulates bill persistence.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
	List(ctx context.Context, filter BillFilter) ([]domain.Bill, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) error
	PickShipper(ctx context.Context) (string, error)
}

type billRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository instantiates repository.
func NewBillRepository(pool *pgxpool.Pool) BillRepository {
	return &billRepository{pool: pool}
}

const billColumns = `id, customer_id, shipper_id, total, shipping_address, phone, note, payment_status, paid_at, created_at, updated_at`

func (r *billRepository) Create(ctx context.Context, bill *domain.Bill) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO bills (customer_id, shipper_id, total, shipping_address, phone, note, payment_status)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			bill.CustomerID,
			bill.ShipperID,
			bill.Total,
			bill.ShippingAddress,
			bill.Phone,
			bill.Note,
			bill.PaymentStatus,
		).Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt); err != nil {
			return err
		}

		const itemQuery = `
            INSERT INTO bill_items (bill_id, product_id, quantity, unit_price)
            VALUES ($1,$2,$3,$4)
            RETURNING id`
		for i := range bill.Items {
			item := &bill.Items[i]
			item.BillID = bill.ID
			if err := tx.QueryRow(ctx, itemQuery, bill.ID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + billColumns + ` FROM bills WHERE id=$1`
	bill, err := scanBill(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	bills := []domain.Bill{*bill}
	if err := r.attachItems(ctx, bills); err != nil {
		return nil, err
	}
	return &bills[0], nil
}

func (r *billRepository) List(ctx context.Context, filter BillFilter) ([]domain.Bill, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.ShipperID != nil {
		args = append(args, *filter.ShipperID)
		clauses = append(clauses, fmt.Sprintf("shipper_id=$%d", len(args)))
	}
	if filter.PaymentStatus != nil {
		args = append(args, *filter.PaymentStatus)
		clauses = append(clauses, fmt.Sprintf("payment_status=$%d", len(args)))
	}

	page := filter.Page.normalize()
	query := fmt.Sprintf(`SELECT %s FROM bills WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		billColumns, strings.Join(clauses, " AND "), page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var bills []domain.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bills = append(bills, *bill)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billRepository) attachItems(ctx context.Context, bills []domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]string, len(bills))
	index := make(map[string]int, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
		index[b.ID] = i
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, bill_id, product_id, quantity, unit_price
        FROM bill_items WHERE bill_id = ANY($1::uuid[])
        ORDER BY bill_id, id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.BillItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		if i, ok := index[item.BillID]; ok {
			bills[i].Items = append(bills[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *billRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	const query = `UPDATE bills SET payment_status=$1, paid_at=$2, updated_at=NOW() WHERE id=$3`
	return execOne(ctx, r.pool, query, status, paidAt, id)
}

// PickShipper returns the shipper with the fewest pending bills.
func (r *billRepository) PickShipper(ctx context.Context) (string, error) {
	const query = `
        SELECT c.id
        FROM customers c
        LEFT JOIN bills b ON b.shipper_id = c.id AND b.payment_status = 'pending'
        WHERE c.role = 'shipper'
        GROUP BY c.id, c.created_at
        ORDER BY COUNT(b.id), c.created_at
        LIMIT 1`
	var id string
	if err := r.pool.QueryRow(ctx, query).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var bill domain.Bill
	if err := row.Scan(
		&bill.ID,
		&bill.CustomerID,
		&bill.ShipperID,
		&bill.Total,
		&bill.ShippingAddress,
		&bill.Phone,
		&bill.Note,
		&bill.PaymentStatus,
		&bill.PaidAt,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &bill, nil
}
