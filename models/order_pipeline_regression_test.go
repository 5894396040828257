package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/models"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

var allPermissionCodes = []string{
	models.PermissionCreateOrder,
	models.PermissionAcceptOrder,
	models.PermissionAdvanceOrder,
	models.PermissionAddOrderItems,
	models.PermissionRemoveOrderItem,
	models.PermissionRequestCancel,
	models.PermissionApproveCancel,
	models.PermissionPostPurchase,
	models.PermissionViewStock,
	models.PermissionRebuildStock,
}

// End-to-end pipeline: purchase batches blend the WAC, confirmation consumes
// atomically, late additions and removals post deltas, the cancellation
// protocol needs two parties, and the ledger replay matches the cached stock.
func TestOrderPipelineEndToEnd(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "resto_test")
	t.Setenv("AUTO_RESTOCK_ON_CANCEL", "")
	t.Setenv("STRICT_ORDER_IMMUTABLE", "")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := config.ClearRedis(context.Background()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	models.MigrateTable()

	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Waiter One")
	ctx = utils.SetPermissionCodesInContext(ctx, allPermissionCodes)

	company, err := models.CreateCompany(ctx, &models.NewCompany{
		Name:  "Test Kitchen",
		Email: "owner@kitchen.test",
	})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	companyId := company.ID.String()
	ctx = utils.SetCompanyIdInContext(ctx, companyId)
	ctx = utils.SetBranchIdInContext(ctx, company.PrimaryBranchId)

	// --- ingredient + purchases: 10 kg @ 500, then 5 kg @ 600 ---
	cheese, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:     "Cheese",
		Type:     models.IngredientTypeRaw,
		BaseUnit: "kg",
	})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	if _, err := models.PostPurchase(ctx, &models.NewPurchase{
		IngredientId: cheese.ID,
		Qty:          decimal.NewFromInt(10),
		UnitCost:     decimal.NewFromInt(500),
		Supplier:     "Dairy Co",
	}); err != nil {
		t.Fatalf("PostPurchase(1): %v", err)
	}
	if _, err := models.PostPurchase(ctx, &models.NewPurchase{
		IngredientId: cheese.ID,
		Qty:          decimal.NewFromInt(5),
		UnitCost:     decimal.NewFromInt(600),
		Supplier:     "Dairy Co",
	}); err != nil {
		t.Fatalf("PostPurchase(2): %v", err)
	}

	wantWac := decimal.RequireFromString("533.3333")
	stock, err := models.GetIngredientStock(ctx, cheese.ID)
	if err != nil {
		t.Fatalf("GetIngredientStock: %v", err)
	}
	if !stock.Balance.Equal(decimal.NewFromInt(15)) || !stock.WeightedAvgCost.Equal(wantWac) {
		t.Fatalf("after purchases: balance=%s wac=%s, want 15 / %s", stock.Balance, stock.WeightedAvgCost, wantWac)
	}

	// --- catalog: sandwich consumes 1 kg cheese per unit ---
	sandwich, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:  "Cheese Sandwich",
		Sku:   "SANDW-01",
		Price: decimal.NewFromInt(3000),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := models.UpsertRecipe(ctx, &models.NewRecipe{
		ProductId: sandwich.ID,
		Items: []models.NewRecipeItem{
			{IngredientId: cheese.ID, GrossQty: decimal.NewFromInt(1), MeasureUnit: "kg"},
		},
	}); err != nil {
		t.Fatalf("UpsertRecipe: %v", err)
	}

	// --- order 1: confirm-on-create consumes 2 kg ---
	order1, err := models.CreateOrder(ctx, &models.NewOrder{
		DeliveryContext: "table 4",
		Confirm:         true,
		Items:           []models.NewOrderItem{{ProductId: sandwich.ID, Qty: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder(order1): %v", err)
	}
	if order1.Status != models.OrderStatusConfirmed {
		t.Fatalf("order1 status = %s, want Confirmed", order1.Status)
	}
	if !order1.Total.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("order1 total = %s, want 6000", order1.Total)
	}
	assertBalance(t, ctx, cheese.ID, "13", wantWac)

	// --- late addition to a confirmed order consumes only the delta ---
	lateBatch := &models.NewOrderItems{
		RequestId: "late-round-1",
		Items:     []models.NewOrderItem{{ProductId: sandwich.ID, Qty: 1}},
	}
	order1, err = models.AddOrderItems(ctx, order1.ID, lateBatch)
	if err != nil {
		t.Fatalf("AddOrderItems: %v", err)
	}
	if len(order1.Items) != 2 || !order1.Total.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("after addition: %d items total %s, want 2 items total 9000", len(order1.Items), order1.Total)
	}
	assertBalance(t, ctx, cheese.ID, "12", wantWac)

	// --- replaying the same batch request is dropped wholesale ---
	replayed, err := models.AddOrderItems(ctx, order1.ID, lateBatch)
	if err != nil {
		t.Fatalf("AddOrderItems(replay): %v", err)
	}
	if len(replayed.Items) != 2 || !replayed.Total.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("after replay: %d items total %s, want 2 items total 9000", len(replayed.Items), replayed.Total)
	}
	assertBalance(t, ctx, cheese.ID, "12", wantWac)

	// --- removal re-credits what was actually consumed, ignoring a recipe
	// edited since the commit ---
	if _, err := models.UpsertRecipe(ctx, &models.NewRecipe{
		ProductId: sandwich.ID,
		Items: []models.NewRecipeItem{
			{IngredientId: cheese.ID, GrossQty: decimal.NewFromInt(2), MeasureUnit: "kg"},
		},
	}); err != nil {
		t.Fatalf("UpsertRecipe(edit): %v", err)
	}
	var addedItemId int
	for _, item := range order1.Items {
		if item.Qty == 1 {
			addedItemId = item.ID
		}
	}
	if addedItemId == 0 {
		t.Fatalf("added item not found in order1 items")
	}
	order1, err = models.RemoveOrderItem(ctx, order1.ID, addedItemId)
	if err != nil {
		t.Fatalf("RemoveOrderItem: %v", err)
	}
	if !order1.Total.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("order1 total after removal = %s, want 6000", order1.Total)
	}
	// the snapshot says 1 kg was consumed; the edited 2 kg recipe must not
	// inflate the re-credit
	assertBalance(t, ctx, cheese.ID, "13", wantWac)
	if _, err := models.UpsertRecipe(ctx, &models.NewRecipe{
		ProductId: sandwich.ID,
		Items: []models.NewRecipeItem{
			{IngredientId: cheese.ID, GrossQty: decimal.NewFromInt(1), MeasureUnit: "kg"},
		},
	}); err != nil {
		t.Fatalf("UpsertRecipe(restore): %v", err)
	}

	// --- order 2 drains stock down to 3 ---
	order2, err := models.CreateOrder(ctx, &models.NewOrder{
		Items: []models.NewOrderItem{{ProductId: sandwich.ID, Qty: 10}},
	})
	if err != nil {
		t.Fatalf("CreateOrder(order2): %v", err)
	}
	if order2.Status != models.OrderStatusPending {
		t.Fatalf("order2 status = %s, want Pending", order2.Status)
	}
	assertBalance(t, ctx, cheese.ID, "13", wantWac) // pending orders never touch stock

	order2, err = models.AdvanceOrderStatus(ctx, order2.ID, models.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("AdvanceOrderStatus(order2, Confirmed): %v", err)
	}
	assertBalance(t, ctx, cheese.ID, "3", wantWac)

	// re-confirming is a state conflict, not a double consumption
	if _, err := models.AdvanceOrderStatus(ctx, order2.ID, models.OrderStatusConfirmed); err == nil {
		t.Fatalf("re-confirm succeeded, want StateConflictError")
	} else {
		var conflict *models.StateConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("re-confirm error = %v, want StateConflictError", err)
		}
	}
	assertBalance(t, ctx, cheese.ID, "3", wantWac)

	// --- order 3 wants 5 with only 3 on hand: atomic rejection ---
	order3, err := models.CreateOrder(ctx, &models.NewOrder{
		Items: []models.NewOrderItem{{ProductId: sandwich.ID, Qty: 5}},
	})
	if err != nil {
		t.Fatalf("CreateOrder(order3): %v", err)
	}
	_, err = models.AdvanceOrderStatus(ctx, order3.ID, models.OrderStatusConfirmed)
	var shortfall *models.InsufficientStockError
	if !errors.As(err, &shortfall) {
		t.Fatalf("confirm(order3) error = %v, want InsufficientStockError", err)
	}
	if !shortfall.Available.Equal(decimal.NewFromInt(3)) || !shortfall.Requested.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("shortfall = available %s requested %s, want 3 / 5", shortfall.Available, shortfall.Requested)
	}
	order3, err = models.GetOrder(ctx, order3.ID)
	if err != nil {
		t.Fatalf("GetOrder(order3): %v", err)
	}
	if order3.Status != models.OrderStatusPending {
		t.Fatalf("order3 status = %s after failed confirm, want Pending", order3.Status)
	}
	assertBalance(t, ctx, cheese.ID, "3", wantWac)

	// --- two-party cancellation on order2 ---
	if _, err := models.RequestOrderCancellation(ctx, order2.ID, ""); err == nil {
		t.Fatalf("cancellation without reason succeeded, want ValidationError")
	}
	order2, err = models.RequestOrderCancellation(ctx, order2.ID, "guest left")
	if err != nil {
		t.Fatalf("RequestOrderCancellation: %v", err)
	}
	if order2.CancellationStatus != models.CancellationStatusRequested {
		t.Fatalf("cancellation status = %s, want Requested", order2.CancellationStatus)
	}

	// the requester cannot approve their own request
	if _, err := models.ResolveOrderCancellation(ctx, order2.ID, models.CancellationDecisionApprove); err == nil {
		t.Fatalf("self-approval succeeded, want PermissionDeniedError")
	} else {
		var denied *models.PermissionDeniedError
		if !errors.As(err, &denied) {
			t.Fatalf("self-approval error = %v, want PermissionDeniedError", err)
		}
	}

	managerCtx := utils.SetUserIdInContext(ctx, 2)
	order2, err = models.ResolveOrderCancellation(managerCtx, order2.ID, models.CancellationDecisionApprove)
	if err != nil {
		t.Fatalf("ResolveOrderCancellation: %v", err)
	}
	if order2.Status != models.OrderStatusCancelled || order2.CancellationStatus != models.CancellationStatusApproved {
		t.Fatalf("order2 = %s/%s, want Cancelled/Approved", order2.Status, order2.CancellationStatus)
	}
	// restock flag is off: consumed stock stays consumed
	assertBalance(t, ctx, cheese.ID, "3", wantWac)

	// a second decision on the same request is stale
	if _, err := models.ResolveOrderCancellation(managerCtx, order2.ID, models.CancellationDecisionApprove); err == nil {
		t.Fatalf("stale approval succeeded, want StateConflictError")
	}

	// --- ledger replay reproduces the cached balance and WAC ---
	db := config.GetDB()
	tx := db.Begin()
	rebuilt, err := models.RebuildIngredientStock(tx.WithContext(ctx), companyId, cheese.ID)
	if err != nil {
		tx.Rollback()
		t.Fatalf("RebuildIngredientStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit rebuild: %v", err)
	}
	if !rebuilt.Balance.Equal(decimal.NewFromInt(3)) || !rebuilt.WeightedAvgCost.Equal(wantWac) {
		t.Fatalf("rebuild = %s / %s, want 3 / %s", rebuilt.Balance, rebuilt.WeightedAvgCost, wantWac)
	}

	// --- costing reads the live WAC ---
	costing, err := models.GetProductCosting(ctx, sandwich.ID)
	if err != nil {
		t.Fatalf("GetProductCosting: %v", err)
	}
	if costing.CostBasis != models.CostBasisReal {
		t.Fatalf("cost basis = %s, want Real", costing.CostBasis)
	}
	if !costing.IngredientCost.Equal(wantWac) {
		t.Fatalf("sandwich cost = %s, want %s", costing.IngredientCost, wantWac)
	}

	// --- concurrent confirmations compete for scarce stock, never oversell ---
	flour, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:     "Flour",
		Type:     models.IngredientTypeRaw,
		BaseUnit: "kg",
	})
	if err != nil {
		t.Fatalf("CreateIngredient(flour): %v", err)
	}
	if _, err := models.PostPurchase(ctx, &models.NewPurchase{
		IngredientId: flour.ID,
		Qty:          decimal.NewFromInt(5),
		UnitCost:     decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("PostPurchase(flour): %v", err)
	}
	roti, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:  "Roti",
		Price: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateProduct(roti): %v", err)
	}
	if _, err := models.UpsertRecipe(ctx, &models.NewRecipe{
		ProductId: roti.ID,
		Items: []models.NewRecipeItem{
			{IngredientId: flour.ID, GrossQty: decimal.NewFromInt(1), MeasureUnit: "kg"},
		},
	}); err != nil {
		t.Fatalf("UpsertRecipe(roti): %v", err)
	}

	const competing = 8
	orderIds := make([]int, 0, competing)
	for i := 0; i < competing; i++ {
		order, err := models.CreateOrder(ctx, &models.NewOrder{
			Items: []models.NewOrderItem{{ProductId: roti.ID, Qty: 1}},
		})
		if err != nil {
			t.Fatalf("CreateOrder(competing %d): %v", i, err)
		}
		orderIds = append(orderIds, order.ID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	confirmed, rejected := 0, 0
	unexpected := make([]error, 0)
	for _, id := range orderIds {
		wg.Add(1)
		go func(orderId int) {
			defer wg.Done()
			for attempt := 0; attempt < 50; attempt++ {
				_, err := models.AdvanceOrderStatus(ctx, orderId, models.OrderStatusConfirmed)
				if err == nil {
					mu.Lock()
					confirmed++
					mu.Unlock()
					return
				}
				var short *models.InsufficientStockError
				if errors.As(err, &short) {
					mu.Lock()
					rejected++
					mu.Unlock()
					return
				}
				// posting-lock contention, back off and retry
				time.Sleep(20 * time.Millisecond)
			}
			mu.Lock()
			unexpected = append(unexpected, fmt.Errorf("order %d never resolved", orderId))
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	if len(unexpected) > 0 {
		t.Fatalf("concurrent confirmations: %v", unexpected)
	}
	if confirmed != 5 || rejected != 3 {
		t.Fatalf("concurrent confirmations: %d confirmed / %d rejected, want 5 / 3", confirmed, rejected)
	}
	assertBalance(t, ctx, flour.ID, "0", decimal.NewFromInt(100))
}

func assertBalance(t *testing.T, ctx context.Context, ingredientId int, wantBalance string, wantWac decimal.Decimal) {
	t.Helper()
	stock, err := models.GetIngredientStock(ctx, ingredientId)
	if err != nil {
		t.Fatalf("GetIngredientStock: %v", err)
	}
	if !stock.Balance.Equal(decimal.RequireFromString(wantBalance)) {
		t.Fatalf("balance = %s, want %s", stock.Balance, wantBalance)
	}
	if !stock.WeightedAvgCost.Equal(wantWac) {
		t.Fatalf("wac = %s, want %s", stock.WeightedAvgCost, wantWac)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("resto-test-redis-%d", time.Now().UnixNano())
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
	name := fmt.Sprintf("resto-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=resto_test",
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
