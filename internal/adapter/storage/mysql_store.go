package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/port"
)

const (
	mysqlErrDuplicateKey = 1062
	mysqlErrFKViolation  = 1452
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		password_hash VARBINARY(72) NOT NULL,
		nickname VARCHAR(64),
		role VARCHAR(16) NOT NULL DEFAULT 'customer',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS item_counts (
		item_id INT NOT NULL UNIQUE,
		count INT NOT NULL,
		CHECK (count >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		section VARCHAR(32) NOT NULL,
		subsection VARCHAR(64) NOT NULL,
		item INT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Placed',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL UNIQUE,
		requires_delivery BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (order_id) REFERENCES orders(id)
	)`,
}

// execer is satisfied by both *sql.DB and *sql.Tx so ledger operations can
// run standalone or inside a placement unit. Handles are scoped per
// operation; there is no shared cursor state.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQLStore owns all four tables and hands out one adapter per ledger.
// Place runs the whole placement unit in a single transaction.
type MySQLStore struct {
	db         *sql.DB
	Inventory  *MySQLInventory
	Orders     *MySQLOrders
	Deliveries *MySQLDeliveries
	Users      *MySQLUsers
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		db:         db,
		Inventory:  &MySQLInventory{db: db},
		Orders:     &MySQLOrders{db: db},
		Deliveries: &MySQLDeliveries{db: db},
		Users:      &MySQLUsers{db: db},
	}
}

func (s *MySQLStore) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Place executes reserve -> create -> upsert-or-skip as one transaction.
// Domain errors abort the unit untouched; driver errors come back wrapped as
// transient storage failures so the coordinator can retry the unit once.
func (s *MySQLStore) Place(ctx context.Context, p port.Placement) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.Storagef("begin tx", err)
	}
	defer tx.Rollback()

	if p.Reserve {
		if err := reserveStock(ctx, tx, p.ItemID, 1); err != nil {
			return 0, err
		}
	}

	id, err := insertOrder(ctx, tx, p.Section, p.Subsection, p.ItemID, p.Status)
	if err != nil {
		return 0, err
	}

	if p.Delivery != nil {
		if err := upsertDelivery(ctx, tx, id, *p.Delivery); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.Storagef("commit placement", err)
	}
	return id, nil
}

// MySQLInventory implements port.InventoryLedger over the item_counts table.
type MySQLInventory struct {
	db *sql.DB
}

func (l *MySQLInventory) Get(ctx context.Context, itemID int) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT count FROM item_counts WHERE item_id = ?`, itemID,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("item %d: %w", itemID, domain.ErrUnknownItem)
	}
	if err != nil {
		return 0, domain.Storagef("query item count", err)
	}
	return count, nil
}

func (l *MySQLInventory) Reserve(ctx context.Context, itemID, qty int) error {
	return reserveStock(ctx, l.db, itemID, qty)
}

func (l *MySQLInventory) Release(ctx context.Context, itemID, qty int) error {
	result, err := l.db.ExecContext(ctx,
		`UPDATE item_counts SET count = count + ? WHERE item_id = ?`,
		qty, itemID,
	)
	if err != nil {
		return domain.Storagef("release stock", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrUnknownItem)
	}
	return nil
}

func (l *MySQLInventory) Seed(ctx context.Context, itemID, count int) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO item_counts (item_id, count) VALUES (?, ?)`,
		itemID, count,
	)
	if isMySQLErr(err, mysqlErrDuplicateKey) {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrAlreadySeeded)
	}
	if err != nil {
		return domain.Storagef("seed stock", err)
	}
	return nil
}

func (l *MySQLInventory) List(ctx context.Context) ([]domain.ItemCount, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT item_id, count FROM item_counts ORDER BY item_id ASC`)
	if err != nil {
		return nil, domain.Storagef("query item counts", err)
	}
	defer rows.Close()

	var counts []domain.ItemCount
	for rows.Next() {
		var c domain.ItemCount
		if err := rows.Scan(&c.ItemID, &c.Count); err != nil {
			return nil, domain.Storagef("scan item count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storagef("iterate item counts", err)
	}
	return counts, nil
}

// The conditional decrement is the overselling guard: concurrent units
// against the same item serialize on the row lock and the count predicate
// never lets it go negative.
func reserveStock(ctx context.Context, ex execer, itemID, qty int) error {
	result, err := ex.ExecContext(ctx, `
		UPDATE item_counts
		SET count = count - ?
		WHERE item_id = ? AND count >= ?`,
		qty, itemID, qty,
	)
	if err != nil {
		return domain.Storagef("reserve stock", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either the item was never seeded or the decrement would have gone
		// negative; tell the caller which.
		var one int
		err := ex.QueryRowContext(ctx,
			`SELECT 1 FROM item_counts WHERE item_id = ?`, itemID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %d: %w", itemID, domain.ErrUnknownItem)
		}
		if err != nil {
			return domain.Storagef("check item", err)
		}
		return fmt.Errorf("item %d: %w", itemID, domain.ErrInsufficientStock)
	}
	return nil
}

// MySQLOrders implements port.OrderLedger over the orders table.
type MySQLOrders struct {
	db *sql.DB
}

func (l *MySQLOrders) Create(ctx context.Context, o domain.Order) (int64, error) {
	return insertOrder(ctx, l.db, o.Section, o.Subsection, o.ItemID, o.Status)
}

func insertOrder(ctx context.Context, ex execer, section, subsection string, itemID int, status domain.OrderStatus) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO orders (section, subsection, item, status) VALUES (?, ?, ?, ?)`,
		section, subsection, itemID, status,
	)
	if err != nil {
		return 0, domain.Storagef("insert order", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.Storagef("order id", err)
	}
	return id, nil
}

func (l *MySQLOrders) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	result, err := l.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	if err != nil {
		return domain.Storagef("update order status", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrUnknownOrder)
	}
	return nil
}

func (l *MySQLOrders) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, section, subsection, item, status, created_at
		FROM orders ORDER BY id ASC`)
	if err != nil {
		return nil, domain.Storagef("query orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Section, &o.Subsection, &o.ItemID, &o.Status, &o.CreatedAt); err != nil {
			return nil, domain.Storagef("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storagef("iterate orders", err)
	}
	return orders, nil
}

// MySQLDeliveries implements port.DeliveryRegistry over the deliveries table.
type MySQLDeliveries struct {
	db *sql.DB
}

func (l *MySQLDeliveries) Upsert(ctx context.Context, orderID int64, requiresDelivery bool) error {
	return upsertDelivery(ctx, l.db, orderID, requiresDelivery)
}

func upsertDelivery(ctx context.Context, ex execer, orderID int64, requiresDelivery bool) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO deliveries (order_id, requires_delivery) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE requires_delivery = VALUES(requires_delivery)`,
		orderID, requiresDelivery,
	)
	if isMySQLErr(err, mysqlErrFKViolation) {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrUnknownOrder)
	}
	if err != nil {
		return domain.Storagef("upsert delivery", err)
	}
	return nil
}

func (l *MySQLDeliveries) ByOrder(ctx context.Context, orderID int64) (*domain.Delivery, error) {
	var d domain.Delivery
	err := l.db.QueryRowContext(ctx,
		`SELECT id, order_id, requires_delivery FROM deliveries WHERE order_id = ?`,
		orderID,
	).Scan(&d.ID, &d.OrderID, &d.RequiresDelivery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Storagef("query delivery", err)
	}
	return &d, nil
}

// MySQLUsers implements port.UserRepository over the users table.
type MySQLUsers struct {
	db *sql.DB
}

func (r *MySQLUsers) Create(ctx context.Context, u domain.User) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, nickname, role) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, nullable(u.Nickname), u.Role,
	)
	if isMySQLErr(err, mysqlErrDuplicateKey) {
		return 0, fmt.Errorf("user %q: %w", u.Username, domain.ErrUsernameTaken)
	}
	if err != nil {
		return 0, domain.Storagef("insert user", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.Storagef("user id", err)
	}
	return id, nil
}

func (r *MySQLUsers) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	var nickname sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, nickname, role, created_at
		FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &nickname, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrUnknownUser)
	}
	if err != nil {
		return nil, domain.Storagef("query user", err)
	}
	u.Nickname = nickname.String
	return &u, nil
}

func (r *MySQLUsers) UpdateNickname(ctx context.Context, username, nickname string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET nickname = ? WHERE username = ?`, nickname, username)
	if err != nil {
		return domain.Storagef("update nickname", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %q: %w", username, domain.ErrUnknownUser)
	}
	return nil
}

func isMySQLErr(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
