package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/port"
)

// MemoryStore is the in-memory counterpart of MySQLStore, used by tests.
// A single mutex makes every operation, including the whole placement unit,
// serializable.
type MemoryStore struct {
	mu sync.Mutex

	counts      map[int]int
	orders      []domain.Order
	nextOrderID int64

	deliveries     map[int64]domain.Delivery
	nextDeliveryID int64

	users      map[string]domain.User
	nextUserID int64

	Inventory  *MemoryInventory
	Orders     *MemoryOrders
	Deliveries *MemoryDeliveries
	Users      *MemoryUsers
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		counts:     make(map[int]int),
		deliveries: make(map[int64]domain.Delivery),
		users:      make(map[string]domain.User),
	}
	s.Inventory = &MemoryInventory{s: s}
	s.Orders = &MemoryOrders{s: s}
	s.Deliveries = &MemoryDeliveries{s: s}
	s.Users = &MemoryUsers{s: s}
	return s
}

func (s *MemoryStore) Place(ctx context.Context, p port.Placement) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Reserve {
		if err := s.reserve(p.ItemID, 1); err != nil {
			return 0, err
		}
	}

	id := s.insertOrder(p.Section, p.Subsection, p.ItemID, p.Status)

	if p.Delivery != nil {
		s.upsertDelivery(id, *p.Delivery)
	}

	return id, nil
}

func (s *MemoryStore) reserve(itemID, qty int) error {
	count, ok := s.counts[itemID]
	if !ok {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrUnknownItem)
	}
	if count < qty {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrInsufficientStock)
	}
	s.counts[itemID] = count - qty
	return nil
}

func (s *MemoryStore) insertOrder(section, subsection string, itemID int, status domain.OrderStatus) int64 {
	s.nextOrderID++
	s.orders = append(s.orders, domain.Order{
		ID:         s.nextOrderID,
		Section:    section,
		Subsection: subsection,
		ItemID:     itemID,
		Status:     status,
		CreatedAt:  time.Now(),
	})
	return s.nextOrderID
}

func (s *MemoryStore) upsertDelivery(orderID int64, requiresDelivery bool) {
	if d, ok := s.deliveries[orderID]; ok {
		d.RequiresDelivery = requiresDelivery
		s.deliveries[orderID] = d
		return
	}
	s.nextDeliveryID++
	s.deliveries[orderID] = domain.Delivery{
		ID:               s.nextDeliveryID,
		OrderID:          orderID,
		RequiresDelivery: requiresDelivery,
	}
}

func (s *MemoryStore) orderExists(orderID int64) bool {
	for _, o := range s.orders {
		if o.ID == orderID {
			return true
		}
	}
	return false
}

type MemoryInventory struct {
	s *MemoryStore
}

func (l *MemoryInventory) Get(ctx context.Context, itemID int) (int, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	count, ok := l.s.counts[itemID]
	if !ok {
		return 0, fmt.Errorf("item %d: %w", itemID, domain.ErrUnknownItem)
	}
	return count, nil
}

func (l *MemoryInventory) Reserve(ctx context.Context, itemID, qty int) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.reserve(itemID, qty)
}

func (l *MemoryInventory) Release(ctx context.Context, itemID, qty int) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	count, ok := l.s.counts[itemID]
	if !ok {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrUnknownItem)
	}
	l.s.counts[itemID] = count + qty
	return nil
}

func (l *MemoryInventory) Seed(ctx context.Context, itemID, count int) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if _, ok := l.s.counts[itemID]; ok {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrAlreadySeeded)
	}
	l.s.counts[itemID] = count
	return nil
}

func (l *MemoryInventory) List(ctx context.Context) ([]domain.ItemCount, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	ids := make([]int, 0, len(l.s.counts))
	for id := range l.s.counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	counts := make([]domain.ItemCount, 0, len(ids))
	for _, id := range ids {
		counts = append(counts, domain.ItemCount{ItemID: id, Count: l.s.counts[id]})
	}
	return counts, nil
}

type MemoryOrders struct {
	s *MemoryStore
}

func (l *MemoryOrders) Create(ctx context.Context, o domain.Order) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.insertOrder(o.Section, o.Subsection, o.ItemID, o.Status), nil
}

func (l *MemoryOrders) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	for i := range l.s.orders {
		if l.s.orders[i].ID == orderID {
			l.s.orders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("order %d: %w", orderID, domain.ErrUnknownOrder)
}

func (l *MemoryOrders) List(ctx context.Context) ([]domain.Order, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	// orders is append-only with monotonic ids, already ascending
	out := make([]domain.Order, len(l.s.orders))
	copy(out, l.s.orders)
	return out, nil
}

type MemoryDeliveries struct {
	s *MemoryStore
}

func (l *MemoryDeliveries) Upsert(ctx context.Context, orderID int64, requiresDelivery bool) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if !l.s.orderExists(orderID) {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrUnknownOrder)
	}
	l.s.upsertDelivery(orderID, requiresDelivery)
	return nil
}

func (l *MemoryDeliveries) ByOrder(ctx context.Context, orderID int64) (*domain.Delivery, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	d, ok := l.s.deliveries[orderID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

type MemoryUsers struct {
	s *MemoryStore
}

func (r *MemoryUsers) Create(ctx context.Context, u domain.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.Username]; ok {
		return 0, fmt.Errorf("user %q: %w", u.Username, domain.ErrUsernameTaken)
	}
	r.s.nextUserID++
	u.ID = r.s.nextUserID
	u.CreatedAt = time.Now()
	r.s.users[u.Username] = u
	return u.ID, nil
}

func (r *MemoryUsers) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrUnknownUser)
	}
	return &u, nil
}

func (r *MemoryUsers) UpdateNickname(ctx context.Context, username, nickname string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return fmt.Errorf("user %q: %w", username, domain.ErrUnknownUser)
	}
	u.Nickname = nickname
	r.s.users[username] = u
	return nil
}
