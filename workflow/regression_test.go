package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"bitbucket.org/mmdatafocus/store_backend/workflow"
	"github.com/shopspring/decimal"
)

func setupIntegrationEnv(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "store_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := models.MigrateTable(); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	return ctx
}

func TestPurchaseReceiptPropagatesStock(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:      "Aviator Frame",
		Category:  "Frames",
		Type:      "Accessory",
		Brand:     "RayBorn",
		Stock:     0,
		CostPrice: decimal.NewFromInt(100),
		SellPrice: decimal.NewFromInt(180),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// Pending order: no stock movement yet.
	pending, err := workflow.SubmitPurchase(ctx, &models.NewPurchase{
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusPending,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 10, Price: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("SubmitPurchase pending: %v", err)
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 0 {
		t.Fatalf("stock after pending = %d, want 0", stock)
	}

	// Partial receipt: 4 of 10.
	received, err := workflow.SubmitPurchase(ctx, &models.NewPurchase{
		ID:       pending.ID,
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 10, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(4)},
		},
	})
	if err != nil {
		t.Fatalf("SubmitPurchase received: %v", err)
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 4 {
		t.Fatalf("stock after partial receipt = %d, want 4", stock)
	}
	if want := decimal.NewFromInt(400); !received.Amount.Equal(want) {
		t.Fatalf("amount after partial receipt = %s, want %s", received.Amount, want)
	}

	// Resubmitting the unchanged receipt moves nothing.
	if _, err := workflow.SubmitPurchase(ctx, &models.NewPurchase{
		ID:       pending.ID,
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 10, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(4)},
		},
	}); err != nil {
		t.Fatalf("SubmitPurchase resubmit: %v", err)
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 4 {
		t.Fatalf("stock after resubmit = %d, want 4 (idempotent)", stock)
	}

	// Top up the receipt to the full order.
	if _, err := workflow.SubmitPurchase(ctx, &models.NewPurchase{
		ID:       pending.ID,
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 10, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(10)},
		},
	}); err != nil {
		t.Fatalf("SubmitPurchase top-up: %v", err)
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 10 {
		t.Fatalf("stock after full receipt = %d, want 10", stock)
	}

	entries, err := models.GetStockHistories(ctx)
	if err != nil {
		t.Fatalf("GetStockHistories: %v", err)
	}
	sum := 0
	for _, e := range entries {
		if e.ProductName == product.Name {
			sum += e.StockAdjustment
		}
	}
	if sum != 10 {
		t.Fatalf("journal sum = %d, want 10", sum)
	}
}

func TestPurchaseReceiptFrozenAfterCompletion(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:      "Round Frame",
		Category:  "Frames",
		Stock:     0,
		CostPrice: decimal.NewFromInt(80),
		SellPrice: decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	purchase, err := workflow.SubmitPurchase(ctx, &models.NewPurchase{
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 5, Price: decimal.NewFromInt(80), ReceivedQty: utils.NewInt(5)},
		},
	})
	if err != nil {
		t.Fatalf("SubmitPurchase: %v", err)
	}

	// changing the ordered quantity after completion must be rejected
	_, err = workflow.SubmitPurchase(ctx, &models.NewPurchase{
		ID:       purchase.ID,
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 9, Price: decimal.NewFromInt(80), ReceivedQty: utils.NewInt(9)},
		},
	})
	if err == nil {
		t.Fatal("expected error editing ordered quantity of a completed purchase")
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 5 {
		t.Fatalf("stock after rejected edit = %d, want 5", stock)
	}

	// an update against an id that was never created reports not found,
	// not an input rejection
	_, err = workflow.SubmitPurchase(ctx, &models.NewPurchase{
		ID:       "no-such-purchase",
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusPending,
		Details: []models.NewPurchaseDetail{
			{ProductId: product.ID, Name: product.Name, Qty: 1, Price: decimal.NewFromInt(80)},
		},
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCheckoutSaleDecrementsStock(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:      "Reading Glasses",
		Category:  "Glasses",
		Stock:     10,
		CostPrice: decimal.NewFromInt(40),
		SellPrice: decimal.NewFromInt(90),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	sale, err := workflow.CheckoutSale(ctx, &models.NewSale{
		Customer: "Walk-in",
		Details: []models.NewSaleDetail{
			{ProductId: product.ID, ProductName: product.Name, ProductPrice: decimal.NewFromInt(90), Qty: 3},
		},
	})
	if err != nil {
		t.Fatalf("CheckoutSale: %v", err)
	}
	if want := decimal.NewFromInt(270); !sale.Amount.Equal(want) {
		t.Fatalf("sale amount = %s, want %s", sale.Amount, want)
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 7 {
		t.Fatalf("stock after checkout = %d, want 7", stock)
	}

	// oversell is rejected before anything is written
	if _, err := workflow.CheckoutSale(ctx, &models.NewSale{
		Customer: "Walk-in",
		Details: []models.NewSaleDetail{
			{ProductId: product.ID, ProductName: product.Name, ProductPrice: decimal.NewFromInt(90), Qty: 50},
		},
	}); err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if stock, _ := models.GetStockOf(ctx, product.ID); stock != 7 {
		t.Fatalf("stock after rejected checkout = %d, want 7", stock)
	}

	// a cart line for a product that does not exist is caught up front
	if _, err := workflow.CheckoutSale(ctx, &models.NewSale{
		Customer: "Walk-in",
		Details: []models.NewSaleDetail{
			{ProductId: 99999999, ProductName: "Ghost Frame", ProductPrice: decimal.NewFromInt(10), Qty: 1},
		},
	}); !utils.IsValidationError(err) {
		t.Fatalf("expected validation error for unknown product, got %v", err)
	}
	if _, err := models.GetStockOf(ctx, 99999999); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found for unknown product stock, got %v", err)
	}

	notifications, err := models.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(notifications) == 0 {
		t.Fatal("expected a notification for the completed sale")
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("store-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("store-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=store_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
