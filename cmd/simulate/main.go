package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-orders/internal/config"
	"shop-orders/internal/currency"
	"shop-orders/internal/database"
	"shop-orders/internal/domain"
	"shop-orders/internal/infrastructure/payment"
	"shop-orders/internal/metrics"
	"shop-orders/internal/repo"
	"shop-orders/internal/service"
)

// simulate drives the full checkout flow against the configured database using
// the mock gateway: seed stock, initiate, pay, capture, then read back.
func main() {
	rounds := flag.Int("orders", 5, "number of checkouts to run")
	stock := flag.Int("stock", 3, "initial stock of the seeded product")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewPostgres(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	const secret = "simulate_secret"
	gateway := payment.NewMockGateway(secret)
	productRepo := repo.NewProductRepo(db)
	cartRepo := repo.NewCartRepo(db)
	orderRepo := repo.NewOrderRepo(db)
	orderService := service.NewOrderService(db, orderRepo, productRepo, cartRepo, repo.NewPaymentRepo(db),
		gateway, nil, zap.NewNop(), metrics.Nop(), service.Options{RequireSignature: true})

	product := &domain.Product{
		ID: uuid.New(), Title: "Handloom Dupatta", Price: 1499, TotalStock: *stock,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := productRepo.CreateProduct(ctx, db, product); err != nil {
		log.Fatal(err)
	}
	userID := uuid.New()

	fmt.Printf("--- STARTING SIMULATION (%d ORDERS, STOCK %d) ---\n", *rounds, *stock)
	for i := 0; i < *rounds; i++ {
		// 1. Cart
		cart := &domain.Cart{
			ID: uuid.New(), UserID: userID,
			Items:     []domain.CartLine{{ProductID: product.ID, Quantity: 1}},
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			log.Fatal(err)
		}
		if err := cartRepo.CreateCart(ctx, tx, cart); err != nil {
			_ = tx.Rollback()
			log.Fatal(err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatal(err)
		}

		// 2. Gateway order, paid by the "customer"
		gwOrder, err := orderService.CreateGatewayOrder(ctx, service.GatewayOrderInput{TotalAmount: product.Price})
		if err != nil {
			log.Printf("Create gateway order failed: %v", err)
			continue
		}
		gateway.MarkPaid(gwOrder.ID())
		paymentID := "pay_" + uuid.NewString()[:14]

		// 3. Capture
		fmt.Printf("[%d] Capturing %s for %s ... ", i+1, gwOrder.ID(), currency.FormatINR(product.Price))
		order, err := orderService.CapturePayment(ctx, service.CaptureInput{
			UserID: userID,
			CartID: cart.ID,
			CartItems: []domain.CartItem{
				{ProductID: product.ID, Title: product.Title, Quantity: 1, Price: product.Price},
			},
			AddressInfo:    domain.AddressInfo{Address: "7 Lake View", City: "Udaipur", Pincode: "313001", Phone: "9000000001"},
			TotalAmount:    product.Price,
			PaymentID:      paymentID,
			PaymentStatus:  "paid",
			PaymentMethod:  "razorpay",
			GatewayOrderID: gwOrder.ID(),
			Signature:      payment.Sign(secret, gwOrder.ID(), paymentID),
		})
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
		} else {
			fmt.Printf("SUCCESS order=%s\n", order.ID)
		}

		fresh, err := productRepo.FindById(ctx, product.ID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("    -> Stock left: %d\n", fresh.TotalStock)
		fmt.Println("---------------------------------------------------")
	}

	orders, err := orderService.ListOrdersByUser(ctx, userID)
	if err != nil {
		fmt.Printf("List orders: %v\n", err)
		return
	}
	var total float64
	for _, o := range orders {
		total += o.TotalAmount
	}
	fmt.Printf("%d orders saved, %s collected\n", len(orders), currency.FormatINR(total))
}
