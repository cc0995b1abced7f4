package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Archive persists confirmed order snapshots. Live storefront state is
// in-memory; only finalized orders reach the database.
type Archive struct {
	db *sqlx.DB
}

// NewArchive connects to the order archive database
func NewArchive(databaseURL string) (*Archive, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

type orderRow struct {
	ID              int64     `db:"id"`
	CustomerName    string    `db:"customer_name"`
	CustomerPhone   string    `db:"customer_phone"`
	Region          string    `db:"region"`
	City            string    `db:"city"`
	Email           string    `db:"email"`
	DeliveryCompany string    `db:"delivery_company"`
	Subtotal        int64     `db:"subtotal"`
	Shipping        int64     `db:"shipping"`
	DeliveryFee     int64     `db:"delivery_fee"`
	Total           int64     `db:"total"`
	Status          string    `db:"status"`
	ConfirmedAt     time.Time `db:"confirmed_at"`
}

type orderItemRow struct {
	ID        int64  `db:"id"`
	OrderID   int64  `db:"order_id"`
	ProductID int64  `db:"product_id"`
	Name      string `db:"name"`
	Quantity  int    `db:"quantity"`
	UnitPrice int64  `db:"unit_price"`
}

// SaveOrder persists a confirmed order and its items in one transaction.
// The archive id is written back into the snapshot.
func (a *Archive) SaveOrder(ctx context.Context, order *models.ConfirmedOrder) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (customer_name, customer_phone, region, city, email,
			delivery_company, subtotal, shipping, delivery_fee, total, status, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err = tx.GetContext(ctx, &order.OrderID, query,
		order.Customer.Name, order.Customer.Phone, order.Customer.Region,
		order.Customer.City, order.Customer.Email, order.DeliveryCompany,
		order.Subtotal, order.Shipping, order.DeliveryFee, order.Total,
		models.OrderStatusConfirmed, order.ConfirmedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			order.OrderID, item.ID, item.Name, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrder retrieves an archived order by id
func (a *Archive) GetOrder(ctx context.Context, id int64) (*models.ConfirmedOrder, error) {
	var row orderRow
	err := a.db.GetContext(ctx, &row, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}

	var itemRows []orderItemRow
	err = a.db.SelectContext(ctx, &itemRows,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, err
	}

	return assembleOrder(row, itemRows), nil
}

// RecentOrders retrieves the most recently confirmed orders without items
func (a *Archive) RecentOrders(ctx context.Context, limit int) ([]models.ConfirmedOrder, error) {
	var rows []orderRow
	err := a.db.SelectContext(ctx, &rows,
		"SELECT * FROM orders ORDER BY confirmed_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}

	orders := make([]models.ConfirmedOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, *assembleOrder(row, nil))
	}
	return orders, nil
}

func assembleOrder(row orderRow, itemRows []orderItemRow) *models.ConfirmedOrder {
	order := &models.ConfirmedOrder{
		OrderID: row.ID,
		Customer: models.CustomerDetails{
			Name:   row.CustomerName,
			Phone:  row.CustomerPhone,
			Region: row.Region,
			City:   row.City,
			Email:  row.Email,
		},
		Subtotal:        row.Subtotal,
		Shipping:        row.Shipping,
		DeliveryFee:     row.DeliveryFee,
		Total:           row.Total,
		DeliveryCompany: row.DeliveryCompany,
		ConfirmedAt:     row.ConfirmedAt,
	}

	for _, item := range itemRows {
		order.Items = append(order.Items, models.CartItem{
			Product: models.Product{
				ID:    item.ProductID,
				Name:  item.Name,
				Price: item.UnitPrice,
			},
			Quantity: item.Quantity,
		})
	}
	return order
}
