package transport

import (
	"context"
	"sort"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock repositories for testing

// mockOrderRepository prices and enriches orders from the shared product mock
type mockOrderRepository struct {
	products  *mockProductRepository
	orders    map[uuid.UUID]*domain.Order
	createErr error
}

func newMockOrderRepository(products *mockProductRepository) *mockOrderRepository {
	return &mockOrderRepository{
		products: products,
		orders:   make(map[uuid.UUID]*domain.Order),
	}
}

type mockOrderTx struct {
	repo   *mockOrderRepository
	staged []*domain.Order
}

func (t *mockOrderTx) ProductPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, ok := t.repo.products.products[productID]
	if !ok {
		return decimal.Zero, repository.ErrProductNotFound
	}
	return product.Price, nil
}

func (t *mockOrderTx) Create(ctx context.Context, order *domain.Order) error {
	if t.repo.createErr != nil {
		return t.repo.createErr
	}
	t.staged = append(t.staged, order)
	return nil
}

// WithinTx only publishes staged orders when fn succeeds
func (m *mockOrderRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.OrderTx) error) error {
	tx := &mockOrderTx{repo: m}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, order := range tx.staged {
		m.orders[order.ID] = order
	}
	return nil
}

// enrich joins line names and categories like the SQL read path does
func (m *mockOrderRepository) enrich(order *domain.Order) *domain.Order {
	copied := *order
	copied.Lines = make([]domain.OrderLine, len(order.Lines))
	for i, line := range order.Lines {
		if product, ok := m.products.products[line.ProductID]; ok {
			line.ProductName = product.Name
			line.Category = product.Category
		}
		copied.Lines[i] = line
	}
	return &copied
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return m.enrich(order), nil
}

func (m *mockOrderRepository) List(ctx context.Context, channel *domain.ChannelKind) ([]*domain.Order, error) {
	var orders []*domain.Order
	for _, order := range m.orders {
		if channel != nil && order.Origin() != *channel {
			continue
		}
		orders = append(orders, m.enrich(order))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) CreateMany(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.products[id]
	return ok, nil
}

func (m *mockProductRepository) List(ctx context.Context, category *string) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range m.products {
		if category != nil && p.Category != *category {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockEmployeeRepository struct {
	employees map[uuid.UUID]*domain.Employee
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: make(map[uuid.UUID]*domain.Employee)}
}

func (m *mockEmployeeRepository) conflicts(e *domain.Employee) bool {
	for _, other := range m.employees {
		if other.ID == e.ID {
			continue
		}
		if e.DNI != nil && other.DNI != nil && *e.DNI == *other.DNI {
			return true
		}
		if e.Email != nil && other.Email != nil && *e.Email == *other.Email {
			return true
		}
	}
	return false
}

func (m *mockEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	if m.conflicts(employee) {
		return repository.ErrEmployeeAlreadyExists
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	if _, ok := m.employees[employee.ID]; !ok {
		return repository.ErrEmployeeNotFound
	}
	if m.conflicts(employee) {
		return repository.ErrEmployeeAlreadyExists
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	employee, ok := m.employees[id]
	if !ok {
		return nil, repository.ErrEmployeeNotFound
	}
	copied := *employee
	return &copied, nil
}

func (m *mockEmployeeRepository) ListActive(ctx context.Context) ([]*domain.Employee, error) {
	var employees []*domain.Employee
	for _, e := range m.employees {
		if e.Active {
			employees = append(employees, e)
		}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].LastName < employees[j].LastName })
	return employees, nil
}

func (m *mockEmployeeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	employee, ok := m.employees[id]
	if !ok {
		return repository.ErrEmployeeNotFound
	}
	employee.Active = false
	return nil
}
