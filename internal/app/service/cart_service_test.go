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

func setupCartServiceTest(t *testing.T) (CartService, *model.Profile, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	// Create test user
	user := &model.Profile{
		ID:       1,
		FullName: "Test User",
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	// Create test product without size options
	product := &model.Product{
		Name:     "อาหารสุนัขรสไก่",
		Slug:     "chicken-dog-food",
		Price:    350,
		Stock:    10,
		IsActive: true,
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func createSizedProduct(t *testing.T, testDB *gorm.DB) *model.Product {
	product := &model.Product{
		Name:     "เสื้อสุนัข",
		Slug:     "dog-shirt",
		Price:    290,
		Stock:    20,
		Size:     "S, M, L",
		IsActive: true,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestCartService_GetUserCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Initially empty
	items, err := cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 0)

	// Add item
	err = cartService.AddToCart(user.ID, product.ID, "", 2)
	require.NoError(t, err)

	items, err = cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, "", 3)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, 9999, "", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_InactiveProduct(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	inactive := &model.Product{
		Name:     "สินค้าเลิกขาย",
		Slug:     "discontinued",
		Price:    100,
		Stock:    5,
		IsActive: false,
	}
	require.NoError(t, testDB.Create(inactive).Error)

	err := cartService.AddToCart(user.ID, inactive.ID, "", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, "", 100)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddToCart_MergesExistingRow(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))

	// Adding the same product again merges the quantities
	err := cartService.AddToCart(user.ID, product.ID, "", 3)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_AddToCart_MergeRespectsStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 8))

	// 8 + 3 exceeds the stock of 10
	err := cartService.AddToCart(user.ID, product.ID, "", 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddToCart_SizeRequired(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)
	sized := createSizedProduct(t, testDB)

	err := cartService.AddToCart(user.ID, sized.ID, "", 1)
	assert.ErrorIs(t, err, ErrSizeRequired)
}

func TestCartService_AddToCart_InvalidSize(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)
	sized := createSizedProduct(t, testDB)

	err := cartService.AddToCart(user.ID, sized.ID, "XXL", 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestCartService_AddToCart_SizeOnSizelessProduct(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, "M", 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestCartService_AddToCart_DifferentSizesStayDistinct(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)
	sized := createSizedProduct(t, testDB)

	require.NoError(t, cartService.AddToCart(user.ID, sized.ID, "S", 1))
	require.NoError(t, cartService.AddToCart(user.ID, sized.ID, "M", 2))

	// Same product and size merges; a different size gets its own row
	require.NoError(t, cartService.AddToCart(user.ID, sized.ID, "M", 1))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	quantities := map[string]int{}
	for _, item := range items {
		quantities[item.SelectedSize] = item.Quantity
	}
	assert.Equal(t, 1, quantities["S"])
	assert.Equal(t, 3, quantities["M"])
}

func TestCartService_UpdateCartItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 2))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	err := cartService.UpdateCartItem(user.ID, items[0].ID, 5)
	assert.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_UpdateCartItem_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	err := cartService.UpdateCartItem(user.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_OwnershipMismatch(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.Profile{ID: 2, FullName: "Other User", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	// Another user cannot touch the row; it reads as not found
	err := cartService.UpdateCartItem(other.ID, items[0].ID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	err := cartService.UpdateCartItem(user.ID, items[0].ID, 999)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	err := cartService.RemoveFromCart(user.ID, items[0].ID)
	assert.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)
	sized := createSizedProduct(t, testDB)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 1))
	require.NoError(t, cartService.AddToCart(user.ID, sized.ID, "S", 1))

	err := cartService.ClearCart(user.ID)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_GetCartCount_DatabaseFallback(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)
	sized := createSizedProduct(t, testDB)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, "", 3))
	require.NoError(t, cartService.AddToCart(user.ID, sized.ID, "L", 1))

	// No Redis in tests: the count comes straight from the database and
	// counts rows, not quantities.
	count, err := cartService.GetCartCount(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
