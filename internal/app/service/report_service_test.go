package service

import (
	"testing"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportServiceTest(t *testing.T) (ReportService, OrderService, CartService, *model.Profile, *model.Product) {
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
	reportService := NewReportService(orderService)

	user := &model.Profile{ID: 1, FullName: "Test User", Role: model.RoleUser}
	testDB.Create(user)

	product := &model.Product{
		Name:     "ขนมสุนัข",
		Slug:     "dog-treats",
		Price:    150,
		Stock:    40,
		IsActive: true,
	}
	testDB.Create(product)

	return reportService, orderService, cartService, user, product
}

func TestReportService_BuildOrdersWorkbook(t *testing.T) {
	reportService, orderService, cartService, user, product := setupReportServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)

	f, err := reportService.BuildOrdersWorkbook("")
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Order ID", header)

	status, err := f.GetCellValue("Orders", "I1")
	require.NoError(t, err)
	assert.Equal(t, "Status", status)

	customer, err := f.GetCellValue("Orders", "C2")
	require.NoError(t, err)
	assert.Equal(t, order.ShippingAddress.Name, customer)

	items, err := f.GetCellValue("Orders", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2", items)

	total, err := f.GetCellValue("Orders", "G2")
	require.NoError(t, err)
	assert.Equal(t, "300", total)

	orderStatus, err := f.GetCellValue("Orders", "I2")
	require.NoError(t, err)
	assert.Equal(t, "pending", orderStatus)
}

func TestReportService_BuildOrdersWorkbook_StatusFilter(t *testing.T) {
	reportService, orderService, cartService, user, product := setupReportServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	order, err := orderService.CreateOrderFromCart(user.ID, validCheckoutInput())
	require.NoError(t, err)
	_, err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	f, err := reportService.BuildOrdersWorkbook(model.OrderStatusPending)
	require.NoError(t, err)
	defer f.Close()

	// Headers only: no pending orders remain
	value, err := f.GetCellValue("Orders", "A2")
	require.NoError(t, err)
	assert.Empty(t, value)
}
