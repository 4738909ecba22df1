package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func submitTestOrder(t *testing.T, repo OrderRepository, channel domain.Channel, lines ...domain.OrderLine) *domain.Order {
	t.Helper()

	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: "Ana",
		Address:      "Main St 1",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		Channel:      channel,
	}

	err := repo.WithinTx(context.Background(), func(ctx context.Context, tx OrderTx) error {
		total := decimal.Zero
		for i := range lines {
			price, err := tx.ProductPrice(ctx, lines[i].ProductID)
			if err != nil {
				return err
			}
			lines[i].UnitPrice = price
			total = total.Add(lines[i].Subtotal())
		}
		order.Lines = lines
		order.Total = total
		return tx.Create(ctx, order)
	})
	if err != nil {
		t.Fatalf("failed to submit order: %v", err)
	}
	return order
}

func countRows(t *testing.T, table string, orderID uuid.UUID) int {
	t.Helper()
	column := "order_id"
	if table == "orders" {
		column = "id"
	}
	var n int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE `+column+` = $1`, orderID).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestOrderRepository_CounterOrderRoundTrip(t *testing.T) {
	resetTables(t)
	products := NewProductRepository(testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Empanada", "Entradas", "10.00")
	if err := products.Create(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	note := "sin picante"
	order := submitTestOrder(t, repo, domain.Counter{},
		domain.OrderLine{ProductID: product.ID, Quantity: 2, Comment: &note})

	stored, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !stored.Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected total 20, got %s", stored.Total)
	}
	if _, ok := stored.Channel.(domain.Counter); !ok {
		t.Errorf("expected counter channel, got %T", stored.Channel)
	}
	if len(stored.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(stored.Lines))
	}
	line := stored.Lines[0]
	if line.Quantity != 2 || !line.UnitPrice.Equal(decimal.NewFromInt(10)) || line.ProductName != "Empanada" || line.Category != "Entradas" {
		t.Errorf("unexpected line: %+v", line)
	}
	if line.Comment == nil || *line.Comment != note {
		t.Errorf("expected comment %q, got %v", note, line.Comment)
	}
	if countRows(t, "counter_orders", order.ID) != 1 {
		t.Error("expected one counter metadata row")
	}
}

func TestOrderRepository_ChannelMetadataAndFilter(t *testing.T) {
	resetTables(t)
	products := NewProductRepository(testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Pizza", "Pizzas", "12.50")
	products.Create(ctx, product)
	line := func() domain.OrderLine { return domain.OrderLine{ProductID: product.ID, Quantity: 1} }

	table, party := 7, 4
	dine := submitTestOrder(t, repo, domain.DineIn{Table: &table, Server: "Ana", PartySize: &party}, line())
	delivery := submitTestOrder(t, repo, domain.Delivery{Phone: "555-1234", Address: "Main St 1"}, line())
	unset := submitTestOrder(t, repo, domain.Unset{}, line())

	kind := domain.ChannelDelivery
	deliveries, err := repo.List(ctx, &kind)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(deliveries) != 1 || deliveries[0].ID != delivery.ID {
		t.Fatalf("expected only the delivery order, got %d orders", len(deliveries))
	}
	ch, ok := deliveries[0].Channel.(domain.Delivery)
	if !ok || ch.Phone != "555-1234" || ch.Address != "Main St 1" {
		t.Errorf("unexpected delivery metadata: %+v", deliveries[0].Channel)
	}

	kind = domain.ChannelDineIn
	dineIns, _ := repo.List(ctx, &kind)
	if len(dineIns) != 1 || dineIns[0].ID != dine.ID {
		t.Fatalf("expected only the dine-in order, got %d", len(dineIns))
	}
	d := dineIns[0].Channel.(domain.DineIn)
	if d.Table == nil || *d.Table != 7 || d.Server != "Ana" || d.PartySize == nil || *d.PartySize != 4 {
		t.Errorf("unexpected dine-in metadata: %+v", d)
	}

	stored, _ := repo.FindByID(ctx, unset.ID)
	if _, ok := stored.Channel.(domain.Unset); !ok {
		t.Errorf("expected unset channel, got %T", stored.Channel)
	}
	for _, table := range []string{"dine_in_orders", "delivery_orders", "counter_orders"} {
		if countRows(t, table, unset.ID) != 0 {
			t.Errorf("unset order has a row in %s", table)
		}
	}

	all, _ := repo.List(ctx, nil)
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("orders not newest first at index %d", i)
		}
	}
}

func TestOrderRepository_RollbackLeavesNothing(t *testing.T) {
	resetTables(t)
	products := NewProductRepository(testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Agua", "Bebidas", "2")
	products.Create(ctx, product)

	orderID := uuid.New()
	failure := errors.New("late failure")
	err := repo.WithinTx(ctx, func(ctx context.Context, tx OrderTx) error {
		price, err := tx.ProductPrice(ctx, product.ID)
		if err != nil {
			return err
		}
		order := &domain.Order{
			ID:        orderID,
			CreatedAt: time.Now().UTC(),
			Total:     price,
			Channel:   domain.Counter{},
			Lines:     []domain.OrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: price}},
		}
		if err := tx.Create(ctx, order); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected late failure, got %v", err)
	}

	for _, table := range []string{"orders", "order_lines", "counter_orders"} {
		if n := countRows(t, table, orderID); n != 0 {
			t.Errorf("expected no rows in %s after rollback, got %d", table, n)
		}
	}
}

func TestOrderRepository_ProductPriceNotFound(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)

	err := repo.WithinTx(context.Background(), func(ctx context.Context, tx OrderTx) error {
		_, err := tx.ProductPrice(ctx, uuid.New())
		return err
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderRepository_SnapshotSurvivesCatalogChanges(t *testing.T) {
	resetTables(t)
	products := NewProductRepository(testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Flan", "Postres", "10")
	products.Create(ctx, product)
	order := submitTestOrder(t, repo, domain.Counter{}, domain.OrderLine{ProductID: product.ID, Quantity: 2})

	product.Price = decimal.NewFromInt(99)
	if err := products.Update(ctx, product); err != nil {
		t.Fatalf("failed to update product: %v", err)
	}

	stored, _ := repo.FindByID(ctx, order.ID)
	if !stored.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)) || !stored.Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("snapshot changed after price update: line %s total %s", stored.Lines[0].UnitPrice, stored.Total)
	}

	if err := products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}
	stored, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("order unreadable after product delete: %v", err)
	}
	if stored.Lines[0].ProductName != "" || !stored.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unexpected line after product delete: %+v", stored.Lines[0])
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	resetTables(t)
	products := NewProductRepository(testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Pizza", "Pizzas", "10")
	products.Create(ctx, product)
	order := submitTestOrder(t, repo, domain.Delivery{Phone: "1", Address: "x"},
		domain.OrderLine{ProductID: product.ID, Quantity: 1},
		domain.OrderLine{ProductID: product.ID, Quantity: 3},
	)

	if err := repo.Delete(ctx, order.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	for _, table := range []string{"orders", "order_lines", "delivery_orders"} {
		if n := countRows(t, table, order.ID); n != 0 {
			t.Errorf("expected no rows in %s, got %d", table, n)
		}
	}

	if err := repo.Delete(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
