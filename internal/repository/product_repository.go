package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant-pos/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	CreateMany(ctx context.Context, products []*domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, category *string) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, cost, image_url, category, created_at, updated_at`

const insertProduct = `
	INSERT INTO products (id, name, description, price, cost, image_url, category, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func insertProductWith(ctx context.Context, q querier, product *domain.Product) error {
	_, err := q.ExecContext(
		ctx,
		insertProduct,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.ImageURL,
		product.Category,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

// Create inserts a new product into the database
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := insertProductWith(ctx, r.db, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// CreateMany inserts all products in one transaction; either all are stored or none
func (r *productRepository) CreateMany(ctx context.Context, products []*domain.Product) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, product := range products {
		if err = insertProductWith(ctx, tx, product); err != nil {
			return fmt.Errorf("failed to create product %q: %w", product.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, cost = $5,
		    image_url = $6, category = $7
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.ImageURL,
		product.Category,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product from the catalog. Order lines keep their snapshot.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Exists reports whether a product with the given ID is in the catalog
func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// List returns products newest first, optionally restricted to one category name
func (r *productRepository) List(ctx context.Context, category *string) ([]*domain.Product, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if category != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY created_at DESC`, *category)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Cost,
		&product.ImageURL,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
