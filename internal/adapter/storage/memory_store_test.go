package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/port"
)

var (
	_ port.PlacementStore   = (*MemoryStore)(nil)
	_ port.InventoryLedger  = (*MemoryInventory)(nil)
	_ port.OrderLedger      = (*MemoryOrders)(nil)
	_ port.DeliveryRegistry = (*MemoryDeliveries)(nil)
	_ port.UserRepository   = (*MemoryUsers)(nil)

	_ port.PlacementStore   = (*MySQLStore)(nil)
	_ port.InventoryLedger  = (*MySQLInventory)(nil)
	_ port.OrderLedger      = (*MySQLOrders)(nil)
	_ port.DeliveryRegistry = (*MySQLDeliveries)(nil)
	_ port.UserRepository   = (*MySQLUsers)(nil)
	_ port.StockGate        = (*RedisGate)(nil)
)

func TestMemoryInventory_SeedReserveRelease(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Inventory.Seed(ctx, 5, 14); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := s.Inventory.Seed(ctx, 5, 99); !errors.Is(err, domain.ErrAlreadySeeded) {
		t.Errorf("expected ErrAlreadySeeded, got: %v", err)
	}

	if err := s.Inventory.Reserve(ctx, 5, 4); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	count, err := s.Inventory.Get(ctx, 5)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if count != 10 {
		t.Errorf("expected count 10, got %d", count)
	}

	if err := s.Inventory.Reserve(ctx, 5, 11); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got: %v", err)
	}
	if err := s.Inventory.Reserve(ctx, 99, 1); !errors.Is(err, domain.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got: %v", err)
	}

	if err := s.Inventory.Release(ctx, 5, 4); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	count, _ = s.Inventory.Get(ctx, 5)
	if count != 14 {
		t.Errorf("expected count restored to 14, got %d", count)
	}
}

func TestMemoryOrders_CreateAndStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id1, err := s.Orders.Create(ctx, domain.Order{Section: "Pizza", Subsection: "Pepperoni", ItemID: 1, Status: domain.OrderStatusPlaced})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id2, err := s.Orders.Create(ctx, domain.Order{Section: "Sauces", Subsection: "Garlic", ItemID: 7, Status: domain.OrderStatusPlaced})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids must be monotonic, got %d then %d", id1, id2)
	}

	if err := s.Orders.UpdateStatus(ctx, id1, domain.OrderStatusCompleted); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if err := s.Orders.UpdateStatus(ctx, 999, domain.OrderStatusCompleted); !errors.Is(err, domain.ErrUnknownOrder) {
		t.Errorf("expected ErrUnknownOrder, got: %v", err)
	}

	orders, err := s.Orders.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != id1 || orders[1].ID != id2 {
		t.Error("orders must be listed ascending by id")
	}
	if orders[0].Status != domain.OrderStatusCompleted {
		t.Errorf("expected Completed, got %s", orders[0].Status)
	}
}

func TestMemoryDeliveries_UpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Deliveries.Upsert(ctx, 1, true); !errors.Is(err, domain.ErrUnknownOrder) {
		t.Errorf("expected ErrUnknownOrder for missing order, got: %v", err)
	}

	id, err := s.Orders.Create(ctx, domain.Order{Section: "Pizza", Subsection: "Meat", ItemID: 4, Status: domain.OrderStatusCompleted})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.Deliveries.Upsert(ctx, id, true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := s.Deliveries.Upsert(ctx, id, false); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	d, err := s.Deliveries.ByOrder(ctx, id)
	if err != nil {
		t.Fatalf("by order failed: %v", err)
	}
	if d == nil {
		t.Fatal("expected a delivery record")
	}
	if d.RequiresDelivery {
		t.Error("expected requires_delivery=false after overwrite")
	}
	if d.OrderID != id {
		t.Errorf("delivery keyed to order %d, want %d", d.OrderID, id)
	}
}

func TestMemoryStore_PlaceAtomicOnInsufficientStock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Inventory.Seed(ctx, 1, 0); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	delivery := true
	_, err := s.Place(ctx, port.Placement{
		Section:    "Pizza",
		Subsection: "Pepperoni",
		ItemID:     1,
		Status:     domain.OrderStatusCompleted,
		Reserve:    true,
		Delivery:   &delivery,
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	orders, _ := s.Orders.List(ctx)
	if len(orders) != 0 {
		t.Errorf("failed unit must leave no order, got %d", len(orders))
	}
	if len(s.deliveries) != 0 {
		t.Errorf("failed unit must leave no delivery, got %d", len(s.deliveries))
	}
}

func TestMemoryStore_PlaceConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seeded := 20
	totalRequests := 50
	if err := s.Inventory.Seed(ctx, 1, seeded); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var completed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Place(ctx, port.Placement{
				Section:    "Pizza",
				Subsection: "Pepperoni",
				ItemID:     1,
				Status:     domain.OrderStatusCompleted,
				Reserve:    true,
			})
			if err == nil {
				completed.Add(1)
			}
		}()
	}
	wg.Wait()

	if completed.Load() != int32(seeded) {
		t.Errorf("expected %d completed placements, got %d", seeded, completed.Load())
	}
	count, _ := s.Inventory.Get(ctx, 1)
	if count != 0 {
		t.Errorf("expected final count 0, got %d", count)
	}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Users.Create(ctx, domain.User{Username: "alice", PasswordHash: []byte("hash"), Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err = s.Users.Create(ctx, domain.User{Username: "alice", PasswordHash: []byte("hash"), Role: domain.RoleCustomer})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got: %v", err)
	}

	if err := s.Users.UpdateNickname(ctx, "alice", "ally"); err != nil {
		t.Fatalf("update nickname failed: %v", err)
	}
	u, err := s.Users.ByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("by username failed: %v", err)
	}
	if u.Nickname != "ally" {
		t.Errorf("expected nickname ally, got %q", u.Nickname)
	}

	if _, err := s.Users.ByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got: %v", err)
	}
}
