package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice = errors.New("price must be greater than zero")
	ErrInvalidCost  = errors.New("cost must not be negative")
)

// ProductInput holds the attributes of a new product
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        *decimal.Decimal
	ImageURL    string
	Category    string
}

// CatalogService defines the interface for product and category management
type CatalogService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, category *string) ([]*domain.Product, error)
	ImportProducts(ctx context.Context, rows []ProductInput) (int, error)

	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func validatePricing(price decimal.Decimal, cost *decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if cost != nil && cost.IsNegative() {
		return ErrInvalidCost
	}
	return nil
}

func newProduct(in ProductInput) *domain.Product {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Cost != nil {
		product.Cost = decimal.NewNullDecimal(*in.Cost)
	}
	return product
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := validatePricing(in.Price, in.Cost); err != nil {
		return nil, err
	}

	product := newProduct(in)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct applies a partial update. Existing orders keep their line prices.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return product, nil
	}

	patch.Apply(product)

	var cost *decimal.Decimal
	if product.Cost.Valid {
		cost = &product.Cost.Decimal
	}
	if err := validatePricing(product.Price, cost); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.productRepo.Exists(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, category *string) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, category)
}

// ImportProducts stores every row or none of them and returns how many were created
func (s *catalogService) ImportProducts(ctx context.Context, rows []ProductInput) (int, error) {
	products := make([]*domain.Product, 0, len(rows))
	for i, in := range rows {
		if err := validatePricing(in.Price, in.Cost); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		products = append(products, newProduct(in))
	}
	if len(products) == 0 {
		return 0, nil
	}

	if err := s.productRepo.CreateMany(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to import products: %w", err)
	}
	return len(products), nil
}

func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}
