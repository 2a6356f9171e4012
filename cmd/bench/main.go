package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Gerador de carga para o orders-service: cria um produto com estoque finito,
// dispara pedidos concorrentes disputando esse estoque e confere no final que
// nenhuma unidade foi vendida além do disponível.

type orderResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	OrderItems []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"order_items"`
}

type productResponse struct {
	ID            string `json:"id"`
	AmountInStock int    `json:"amount_in_stock"`
}

type counters struct {
	mu           sync.Mutex
	ok           int
	outOfStock   int
	failures     int
	soldUnits    int
	statusCounts map[int]int
}

func (c *counters) record(status int, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusCounts[status]++
	switch status {
	case 200:
		c.ok++
		c.soldUnits += quantity
	case 422:
		c.outOfStock++
	default:
		c.failures++
	}
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "orders-service base URL")
	orders := flag.Int("orders", 50, "number of concurrent orders")
	stock := flag.Int("stock", 30, "initial stock of the contended product")
	quantity := flag.Int("quantity", 1, "quantity added per order")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10 * time.Second)

	var product productResponse
	resp, err := client.R().
		SetBody(map[string]any{"name": "bench product", "amount_in_stock": *stock}).
		SetResult(&product).
		Post("/api/products")
	if err != nil || resp.StatusCode() != 201 {
		log.Fatalf("❌ Failed to create bench product: status=%d err=%v", resp.StatusCode(), err)
	}
	log.Printf("✅ Bench product created: %s (stock=%d)", product.ID, product.AmountInStock)

	stats := &counters{statusCounts: map[int]int{}}
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < *orders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runOrder(client, product.ID, *quantity, stats)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	var final productResponse
	if _, err := client.R().SetResult(&final).Get("/api/products/" + product.ID); err != nil {
		log.Fatalf("❌ Failed to read final stock: %v", err)
	}

	fmt.Printf("\n===== bench summary =====\n")
	fmt.Printf("orders:          %d (quantity %d each)\n", *orders, *quantity)
	fmt.Printf("duration:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("add ok:          %d\n", stats.ok)
	fmt.Printf("out of stock:    %d\n", stats.outOfStock)
	fmt.Printf("failures:        %d\n", stats.failures)
	fmt.Printf("status counts:   %v\n", stats.statusCounts)
	fmt.Printf("initial stock:   %d\n", *stock)
	fmt.Printf("sold units:      %d\n", stats.soldUnits)
	fmt.Printf("final stock:     %d\n", final.AmountInStock)

	if stats.soldUnits+final.AmountInStock != *stock {
		log.Fatalf("❌ OVERSELL DETECTED: sold=%d final=%d initial=%d", stats.soldUnits, final.AmountInStock, *stock)
	}
	if final.AmountInStock < 0 {
		log.Fatalf("❌ NEGATIVE STOCK: %d", final.AmountInStock)
	}
	log.Printf("✅ Stock ledger consistent: sold + remaining == initial")
}

func runOrder(client *resty.Client, productID string, quantity int, stats *counters) {
	var order orderResponse
	resp, err := client.R().SetResult(&order).Post("/api/orders")
	if err != nil || resp.StatusCode() != 201 {
		stats.record(resp.StatusCode(), 0)
		return
	}

	resp, err = client.R().
		SetBody(map[string]any{"product_id": productID, "quantity": quantity}).
		Post("/api/orders/" + order.ID + "/items")
	if err != nil {
		stats.record(0, 0)
		return
	}
	stats.record(resp.StatusCode(), quantity)
	if resp.StatusCode() != 200 {
		return
	}

	// fecha o pedido para congelar a venda
	if _, err := client.R().Post("/api/orders/" + order.ID + "/cashout"); err != nil {
		log.Printf("⚠️ Cashout failed for order %s: %v", order.ID, err)
	}
}
