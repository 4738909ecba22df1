package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// WithinTx runs fn inside one transaction. It commits when fn returns nil
	// and rolls back on error or panic.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// List returns orders newest first. A non-nil channel restricts the result
	// to orders having that channel's metadata row.
	List(ctx context.Context, channel *domain.ChannelKind) ([]*domain.Order, error)
	// Delete removes lines, channel metadata and header in one transaction
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderTx is the set of operations available while submitting an order
type OrderTx interface {
	// ProductPrice returns the current catalog price and holds a share lock on
	// the product row until the transaction ends
	ProductPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	// Create writes header, lines and channel metadata
	Create(ctx context.Context, order *domain.Order) error
}

// metadataTables maps each channel to the table holding its metadata row
var metadataTables = map[domain.ChannelKind]string{
	domain.ChannelDineIn:   "dine_in_orders",
	domain.ChannelDelivery: "delivery_orders",
	domain.ChannelCounter:  "counter_orders",
}

// channelFilters restricts the header query to orders with a metadata row
var channelFilters = map[domain.ChannelKind]string{
	domain.ChannelDineIn:   "WHERE d.order_id IS NOT NULL",
	domain.ChannelDelivery: "WHERE v.order_id IS NOT NULL",
	domain.ChannelCounter:  "WHERE c.order_id IS NOT NULL",
}

const selectOrderHeaders = `
	SELECT o.id, o.customer_name, o.address, o.total, o.created_at, o.origin,
	       o.phone, o.waiter, o.comment, o.entered_by,
	       d.table_number, d.server_name, d.party_size,
	       v.phone, v.address
	FROM orders o
	LEFT JOIN dine_in_orders d ON d.order_id = o.id
	LEFT JOIN delivery_orders v ON v.order_id = o.id
	LEFT JOIN counter_orders c ON c.order_id = o.id
`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &orderTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type orderTx struct {
	tx *sql.Tx
}

func (t *orderTx) ProductPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := t.tx.QueryRowContext(ctx,
		`SELECT price FROM products WHERE id = $1 FOR SHARE`, productID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrProductNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to read product price: %w", err)
	}
	return price, nil
}

func (t *orderTx) Create(ctx context.Context, order *domain.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, address, total, created_at, origin, phone, waiter, comment, entered_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		order.ID,
		order.CustomerName,
		order.Address,
		order.Total,
		order.CreatedAt,
		string(order.Origin()),
		order.Phone,
		order.Waiter,
		order.Comment,
		order.EnteredBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, line := range order.Lines {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_lines (id, order_id, line_no, product_id, quantity, unit_price, comment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New(), order.ID, i+1, line.ProductID, line.Quantity, line.UnitPrice, line.Comment)
		if err != nil {
			return fmt.Errorf("failed to insert order line for product %s: %w", line.ProductID, err)
		}
	}

	if err := insertChannelMetadata(ctx, t.tx, order); err != nil {
		return fmt.Errorf("failed to insert %s metadata: %w", order.Origin(), err)
	}

	return nil
}

func insertChannelMetadata(ctx context.Context, q querier, order *domain.Order) error {
	var err error

	switch ch := order.Channel.(type) {
	case domain.DineIn:
		_, err = q.ExecContext(ctx, `
			INSERT INTO dine_in_orders (order_id, table_number, server_name, party_size, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, ch.Table, ch.Server, ch.PartySize, order.Total, order.CreatedAt)
	case domain.Delivery:
		_, err = q.ExecContext(ctx, `
			INSERT INTO delivery_orders (order_id, customer_name, phone, address, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, order.CustomerName, ch.Phone, ch.Address, order.Total, order.CreatedAt)
	case domain.Counter:
		_, err = q.ExecContext(ctx, `
			INSERT INTO counter_orders (order_id, customer_name, total, created_at)
			VALUES ($1, $2, $3, $4)
		`, order.ID, order.CustomerName, order.Total, order.CreatedAt)
	}

	return err
}

// FindByID retrieves one order with its lines and channel metadata
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := scanOrderHeader(r.db.QueryRowContext(ctx, selectOrderHeaders+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if order.Lines, err = findOrderLines(ctx, r.db, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, channel *domain.ChannelKind) ([]*domain.Order, error) {
	query := selectOrderHeaders
	if channel != nil {
		filter, ok := channelFilters[*channel]
		if !ok {
			return nil, fmt.Errorf("no metadata table for channel %q", *channel)
		}
		query += filter
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrderHeader(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		if order.Lines, err = findOrderLines(ctx, r.db, order.ID); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var origin string
	err = tx.QueryRowContext(ctx, `SELECT origin FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&origin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}

	// Children first: lines and metadata both reference the header
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}

	if table, ok := metadataTables[domain.ChannelKind(origin)]; ok {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete %s metadata: %w", origin, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanOrderHeader(row rowScanner) (*domain.Order, error) {
	var (
		order      domain.Order
		origin     string
		table      sql.NullInt32
		serverName sql.NullString
		partySize  sql.NullInt32
		phone      sql.NullString
		address    sql.NullString
	)

	err := row.Scan(
		&order.ID,
		&order.CustomerName,
		&order.Address,
		&order.Total,
		&order.CreatedAt,
		&origin,
		&order.Phone,
		&order.Waiter,
		&order.Comment,
		&order.EnteredBy,
		&table,
		&serverName,
		&partySize,
		&phone,
		&address,
	)
	if err != nil {
		return nil, err
	}

	switch domain.ChannelKind(origin) {
	case domain.ChannelDineIn:
		order.Channel = domain.DineIn{
			Table:     nullIntPtr(table),
			Server:    serverName.String,
			PartySize: nullIntPtr(partySize),
		}
	case domain.ChannelDelivery:
		order.Channel = domain.Delivery{Phone: phone.String, Address: address.String}
	case domain.ChannelCounter:
		order.Channel = domain.Counter{}
	default:
		order.Channel = domain.Unset{}
	}

	return &order, nil
}

func findOrderLines(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT l.product_id, l.quantity, l.unit_price, l.comment,
		       COALESCE(p.name, ''), COALESCE(p.category, '')
		FROM order_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
		ORDER BY l.line_no
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var (
			line    domain.OrderLine
			comment sql.NullString
		)
		err := rows.Scan(
			&line.ProductID,
			&line.Quantity,
			&line.UnitPrice,
			&comment,
			&line.ProductName,
			&line.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if comment.Valid {
			line.Comment = &comment.String
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}

func nullIntPtr(n sql.NullInt32) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int32)
	return &v
}
