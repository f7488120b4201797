package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Bidhigya/TechGhar/internal/api"
	"github.com/Bidhigya/TechGhar/internal/cart"
	"github.com/Bidhigya/TechGhar/internal/checkout"
	"github.com/Bidhigya/TechGhar/internal/store"
)

type Config struct {
	APIURL    string
	APIToken  string
	RedisAddr string
	StateDir  string
	FreeAbove float64
	Fee       float64
}

func loadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	return &Config{
		APIURL:    getEnv("API_URL", "http://localhost:8080"),
		APIToken:  getEnv("API_TOKEN", ""),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		StateDir:  getEnv("STATE_DIR", ".techghar"),
		FreeAbove: getEnvFloat("SHIPPING_FREE_ABOVE", 20000),
		Fee:       getEnvFloat("SHIPPING_FEE", 150),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// newStore prefers Redis when configured and falls back to per-user files.
func newStore(cfg *Config) (store.Store, error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedisStore(client), nil
	}
	return store.NewFileStore(cfg.StateDir)
}

func main() {
	var (
		productID = flag.String("product", "", "product id to add to the cart")
		title     = flag.String("title", "", "product title")
		price     = flag.Float64("price", 0, "product unit price")
		port      = flag.String("port", "", "variant label")
		placeOrd  = flag.Bool("checkout", false, "place a cash-on-delivery order")
	)
	flag.Parse()

	cfg := loadConfig()

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	client := api.NewClient(cfg.APIURL, api.WithToken(func() string { return cfg.APIToken }))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	basket := cart.New(ctx, st, cart.ShippingPolicy{FreeAbove: cfg.FreeAbove, Fee: cfg.Fee})

	if *productID != "" {
		item := cart.Item{ID: *productID, Title: *title, Price: *price, Port: *port}
		if err = basket.AddItem(ctx, item); err != nil {
			log.Fatalf("add item: %v", err)
		}
	}

	for _, item := range basket.Items() {
		log.Printf("%s x%d @ %.2f (%s)", item.Title, item.Qty, item.Price, item.Port)
	}
	log.Printf("subtotal %.2f, shipping %.2f, grand total %.2f",
		basket.SubTotal(), basket.Shipping(), basket.GrandTotal())

	if !*placeOrd {
		return
	}

	orchestrator := checkout.NewOrchestrator(client, basket)
	billing := checkout.BillingDetails{
		Name:    getEnv("BILL_NAME", "Dev User"),
		Email:   getEnv("BILL_EMAIL", "dev@example.com"),
		Address: getEnv("BILL_ADDRESS", "Baneshwor"),
		City:    getEnv("BILL_CITY", "Kathmandu"),
		State:   getEnv("BILL_STATE", "Bagmati"),
		Zip:     getEnv("BILL_ZIP", "44600"),
		Mobile:  getEnv("BILL_MOBILE", "9800000000"),
	}

	orderID, err := orchestrator.PlaceOrder(ctx, billing, checkout.PaymentMethodCOD)
	if err != nil {
		log.Fatalf("place order: %v", err)
	}
	log.Printf("order placed: %s", orderID)
}
