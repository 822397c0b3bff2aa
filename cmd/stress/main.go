package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pizzeria/internal/adapter/storage"
	"pizzeria/internal/core/domain"
	"pizzeria/internal/core/service"
	"pizzeria/internal/port"
)

const (
	mysqlDSN      = "root:root@tcp(localhost:3306)/pizzeria?parseTime=true"
	redisAddr     = "localhost:6379"
	sectionID     = 1 // Pizza
	subsectionIdx = 1 // Pepperoni, item 1
	itemID        = 1
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	store := storage.NewMySQLStore(db)
	if err := store.InitSchema(ctx); err != nil {
		log.Fatalf("failed to init schema: %v", err)
	}

	// Reset the item under test to a known count.
	_, err = db.ExecContext(ctx, `
		INSERT INTO item_counts (item_id, count) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE count = VALUES(count)`, itemID, initialStock)
	if err != nil {
		log.Fatalf("failed to reset stock: %v", err)
	}

	var gate port.StockGate
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, running without stock gate: %v", err)
	} else {
		defer rdb.Close()
		redisGate := storage.NewRedisGate(rdb)
		if err := redisGate.SetStock(ctx, itemID, initialStock); err != nil {
			log.Fatalf("failed to set gate stock: %v", err)
		}
		gate = redisGate
	}

	coordinator := service.NewCoordinator(domain.DefaultCatalog(), store, gate, nil, nil)

	var completedCount atomic.Int32
	var soldOutCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := coordinator.PlaceOrder(ctx, service.PlacementRequest{
				RequestID:       uuid.New().String(),
				SectionID:       sectionID,
				SubsectionIndex: subsectionIdx,
				Confirm:         true,
			})
			switch {
			case err == nil:
				completedCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				log.Printf("placement failed: %v", err)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	completed := completedCount.Load()
	soldOut := soldOutCount.Load()

	fmt.Println("========== STRESS RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Completed:        %d\n", completed)
	fmt.Printf("Sold Out:         %d\n", soldOut)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("====================================")

	if completed == int32(initialStock) && soldOut == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: exactly %d orders completed, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d completed/%d rejected, got %d/%d\n",
			initialStock, totalRequests-initialStock, completed, soldOut)
	}

	final, err := store.Inventory.Get(ctx, itemID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", final)
	if final == 0 {
		fmt.Println("PASS: stock depleted to 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", final)
	}
}
