package service

import (
	"testing"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, *model.Profile, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	profileRepo := repository.NewProfileRepository(testDB)

	cartService := NewCartService(cartRepo, productRepo)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo, profileRepo, nil)

	user := &model.Profile{
		ID:       1,
		FullName: "Test User",
		Phone:    "0812345678",
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:     "อาหารแมวรสปลาทู",
		Slug:     "mackerel-cat-food",
		Price:    250,
		Stock:    10,
		IsActive: true,
	}
	testDB.Create(product)

	return orderService, cartService, user, product, testDB
}

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		ShippingAddress: model.ShippingAddress{
			Name:        "สมชาย ใจดี",
			Phone:       "0812345678",
			AddressLine: "99/1 ถนนสุขุมวิท",
			District:    "วัฒนา",
			Province:    "กรุงเทพมหานคร",
			PostalCode:  "10110",
		},
		PaymentMethod: model.PaymentMethodBankTransfer,
	}
}

func TestOrderService_CreateOrderFromCart_Success(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 3))

	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, float64(750), order.TotalAmount)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 3, order.OrderItems[0].Quantity)
	assert.Equal(t, float64(250), order.OrderItems[0].UnitPrice)

	// Snapshot carries the display data of the product at order time
	assert.Equal(t, product.Name, order.OrderItems[0].ProductSnapshot.Name)
	assert.Equal(t, product.Price, order.OrderItems[0].ProductSnapshot.Price)

	// The cart is emptied in the same transaction
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestOrderService_CreateOrderFromCart_MultipleItems(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	second := &model.Product{
		Name:     "ทรายแมว",
		Slug:     "cat-litter",
		Price:    120,
		Stock:    50,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(second).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))
	require.NoError(t, cartService.AddToCart(user.ID, second.ID, "", 1))

	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)
	assert.Equal(t, float64(2*250+120), order.TotalAmount)
	assert.Len(t, order.OrderItems, 2)
}

func TestOrderService_CreateOrderFromCart_EmptyCart(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	_, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestOrderService_CreateOrderFromCart_IncompleteAddress(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))

	input := validCheckoutInput()
	input.ShippingAddress.PostalCode = ""

	_, err := orderService.CreateOrderFromCart(user.ID, input)
	assert.ErrorIs(t, err, ErrIncompleteAddress)
}

func TestOrderService_CreateOrderFromCart_InvalidPaymentMethod(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))

	input := validCheckoutInput()
	input.PaymentMethod = "cash_on_delivery"

	_, err := orderService.CreateOrderFromCart(user.ID, input)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestOrderService_CreateOrderFromCart_NoStockGate(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 5))

	// Stock dropped below the cart quantity between add and checkout and the
	// product was deactivated. Stock and active flags only constrain cart
	// mutations; checkout sells whatever the cart holds.
	require.NoError(t, testDB.Model(product).
		Updates(map[string]interface{}{"stock": 2, "is_active": false}).Error)

	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 5, order.OrderItems[0].Quantity)
	assert.Equal(t, float64(5*250), order.TotalAmount)
}

func TestOrderService_CreateOrderFromCart_RollsBackOnItemInsertFailure(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))

	// Force the item insert inside the checkout transaction to fail
	require.NoError(t, testDB.Migrator().DropTable(&model.OrderItem{}))

	_, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.Error(t, err)

	// The whole unit rolled back: no order row exists and the cart survives
	var orderCount int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderService_CreateOrderFromCart_SnapshotSizeFallback(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	// Added without a size, then the product gains size options before
	// checkout. The snapshot falls back to the product's size string.
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	require.NoError(t, testDB.Model(product).Update("size", "S, M, L").Error)

	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "S, M, L", order.OrderItems[0].ProductSnapshot.Size)
}

func TestOrderService_ProductDeleteKeepsSnapshots(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	require.NoError(t, productRepo.Delete(product.ID))

	// Historical order data is untouched by catalog deletes
	got, err := orderService.GetOrderByID(user.ID, order.ID, false)
	require.NoError(t, err)
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, product.Name, got.OrderItems[0].ProductSnapshot.Name)
	assert.Equal(t, product.Price, got.OrderItems[0].ProductSnapshot.Price)
	assert.Equal(t, product.Price, got.OrderItems[0].UnitPrice)
	assert.Equal(t, 2, got.OrderItems[0].Quantity)
	assert.Equal(t, float64(2*250), got.TotalAmount)
}

func TestOrderService_CreateOrderFromCart_DoesNotDecrementStock(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 4))

	_, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	// Stock is advisory only; fulfillment adjusts it manually
	var reloaded model.Product
	require.NoError(t, testDB.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	other := &model.Profile{ID: 2, FullName: "Other User", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	// Owner sees the order
	got, err := orderService.GetOrderByID(user.ID, order.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another user gets not-found, not forbidden
	_, err = orderService.GetOrderByID(other.ID, order.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// An admin sees any order
	got, err = orderService.GetOrderByID(other.ID, order.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	_, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	orders, err := orderService.GetUserOrders(user.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_UpdateOrderStatus_ForwardStep(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	updated, err := orderService.UpdateOrderStatus(order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)

	updated, err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
}

func TestOrderService_UpdateOrderStatus_RejectsSkip(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	// pending -> shipped skips confirmed
	_, err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// backward moves are rejected too
	_, err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestOrderService_UpdateOrderStatus_Cancel(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	updated, err := orderService.UpdateOrderStatus(order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, updated.Status)

	// Cancelled is terminal
	_, err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestOrderService_UpdateOrderStatus_NotFound(t *testing.T) {
	orderService, _, _, _, _ := setupOrderServiceTest(t)

	_, err := orderService.UpdateOrderStatus(9999, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_AttachPaymentSlip(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	err = orderService.AttachPaymentSlip(user.ID, order.ID, "https://cdn.example.com/slips/1.jpg")
	assert.NoError(t, err)

	got, _ := orderService.GetOrderByID(user.ID, order.ID, false)
	assert.Equal(t, "https://cdn.example.com/slips/1.jpg", got.PaymentSlipURL)
}

func TestOrderService_AttachPaymentSlip_AfterConfirmation(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	_, err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	err = orderService.AttachPaymentSlip(user.ID, order.ID, "https://cdn.example.com/slips/late.jpg")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestOrderService_ListOrders_FilterByStatus(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	first, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))
	_, err = orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	_, err = orderService.UpdateOrderStatus(first.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	all, err := orderService.ListOrders("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := orderService.ListOrders(model.OrderStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = orderService.ListOrders("unknown")
	assert.Error(t, err)
}

func TestOrderService_GetDashboardStats(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))
	first, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	second, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	// Cancelled orders do not count toward revenue
	_, err = orderService.UpdateOrderStatus(second.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	stats, err := orderService.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, first.TotalAmount, stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.ActiveProducts)
	assert.Equal(t, int64(1), stats.TotalUsers)
}
