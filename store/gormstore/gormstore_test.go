package gormstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	clock time.Time
	ctx   context.Context
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	suite.clock = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	st, err := OpenSQLite(uuid.NewString(), WithClock(func() time.Time {
		suite.clock = suite.clock.Add(time.Second)
		return suite.clock
	}))
	require.NoError(suite.T(), err)

	suite.store = st
	suite.ctx = context.Background()
}

func (suite *StoreTestSuite) TearDownTest() {
	suite.store.Close()
}

func (suite *StoreTestSuite) createProduct(name, category string, price string, qty int) *models.Product {
	p := &models.Product{
		Name:          name,
		OriginalPrice: decimal.RequireFromString(price),
		Category:      category,
		CategorySlug:  models.Slugify(category),
		Quantity:      qty,
		Status:        models.ProductInStock,
	}
	require.NoError(suite.T(), suite.store.CreateProduct(suite.ctx, p))
	return p
}

func (suite *StoreTestSuite) addToCart(uid string, p *models.Product, qty int) *models.CartItem {
	item := &models.CartItem{ProductID: p.ID, Name: p.Name, Price: p.EffectivePrice(), Quantity: qty}
	require.NoError(suite.T(), suite.store.AddCartItem(suite.ctx, uid, item))
	return item
}

func (suite *StoreTestSuite) orderFromCart(uid string) *models.Order {
	items, err := suite.store.CartItems(suite.ctx, uid)
	require.NoError(suite.T(), err)
	order := &models.Order{
		OrderNumber:   fmt.Sprintf("ORD-%s-%d", uid, len(items)),
		UserID:        uid,
		CustomerName:  "Ama Mensah",
		CustomerEmail: "ama@example.com",
		CustomerPhone: "0240000000",
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	order.TotalAmount = order.ItemsTotal()
	return order
}

func (suite *StoreTestSuite) TestProductCRUD() {
	p := suite.createProduct("Rose Serum", "Skin Care", "45.50", 10)
	require.NotEmpty(suite.T(), p.ID)

	got, err := suite.store.GetProduct(suite.ctx, p.ID)
	require.NoError(suite.T(), err)
	require.True(suite.T(), got.OriginalPrice.Equal(decimal.RequireFromString("45.50")))

	got.Quantity = 3
	got.Status = models.ProductLowStock
	require.NoError(suite.T(), suite.store.UpdateProduct(suite.ctx, got))
	require.Equal(suite.T(), models.ProductLowStock, got.Status)
	require.True(suite.T(), got.UpdatedAt.After(got.CreatedAt))

	require.NoError(suite.T(), suite.store.DeleteProduct(suite.ctx, p.ID))
	_, err = suite.store.GetProduct(suite.ctx, p.ID)
	require.ErrorIs(suite.T(), err, store.ErrNotFound)
	require.ErrorIs(suite.T(), suite.store.DeleteProduct(suite.ctx, p.ID), store.ErrNotFound)
}

func (suite *StoreTestSuite) TestListProductsFiltersAndSorts() {
	suite.createProduct("Rose Serum", "Skin Care", "45.00", 10)
	cheap := suite.createProduct("Clay Mask", "Skin Care", "12.00", 10)
	suite.createProduct("Argan Oil", "Hair Care", "30.00", 10)
	cheap.DiscountedPrice = decimal.RequireFromString("9.99")
	require.NoError(suite.T(), suite.store.UpdateProduct(suite.ctx, cheap))

	res, err := suite.store.ListProducts(suite.ctx, models.ProductFilter{CategorySlug: "skin-care", Sort: models.SortPriceAsc})
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 2, res.Total)
	require.Equal(suite.T(), "Clay Mask", res.Items[0].Name)

	min := decimal.NewFromInt(10)
	res, err = suite.store.ListProducts(suite.ctx, models.ProductFilter{MinPrice: &min, Sort: models.SortPriceDesc})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), res.Items, 2)
	require.Equal(suite.T(), "Rose Serum", res.Items[0].Name)

	res, err = suite.store.ListProducts(suite.ctx, models.ProductFilter{Search: "ARGAN"})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), res.Items, 1)

	res, err = suite.store.ListProducts(suite.ctx, models.ProductFilter{Page: models.Page{Page: 2, Limit: 2}})
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 3, res.Total)
	require.Len(suite.T(), res.Items, 1)

	cats, err := suite.store.Categories(suite.ctx)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), []models.Category{
		{Name: "Hair Care", Slug: "hair-care", Count: 1},
		{Name: "Skin Care", Slug: "skin-care", Count: 2},
	}, cats)
}

func (suite *StoreTestSuite) TestCartItems() {
	p := suite.createProduct("Rose Serum", "Skin Care", "50.00", 10)
	item := suite.addToCart("u1", p, 1)

	found, err := suite.store.FindCartItemByProduct(suite.ctx, "u1", p.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), item.ID, found.ID)

	_, err = suite.store.FindCartItemByProduct(suite.ctx, "u2", p.ID)
	require.ErrorIs(suite.T(), err, store.ErrNotFound)

	updated, err := suite.store.SetCartQuantity(suite.ctx, "u1", item.ID, 4)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 4, updated.Quantity)

	_, err = suite.store.SetCartQuantity(suite.ctx, "u2", item.ID, 4)
	require.ErrorIs(suite.T(), err, store.ErrNotFound)

	require.NoError(suite.T(), suite.store.RemoveCartItem(suite.ctx, "u1", item.ID))
	require.ErrorIs(suite.T(), suite.store.RemoveCartItem(suite.ctx, "u1", item.ID), store.ErrNotFound)
}

func (suite *StoreTestSuite) TestRemoveFavoriteReportsDeletion() {
	fav := &models.Favorite{UserID: "u1", ProductID: "p1", Name: "Rose Serum"}
	require.NoError(suite.T(), suite.store.AddFavorite(suite.ctx, fav))

	removed, err := suite.store.RemoveFavorite(suite.ctx, "u1", fav.ID)
	require.NoError(suite.T(), err)
	require.True(suite.T(), removed)

	removed, err = suite.store.RemoveFavorite(suite.ctx, "u1", fav.ID)
	require.NoError(suite.T(), err)
	require.False(suite.T(), removed)
}

func (suite *StoreTestSuite) TestPlaceOrderDecrementsStockAndClearsCart() {
	serum := suite.createProduct("Rose Serum", "Skin Care", "50.00", 5)
	mask := suite.createProduct("Clay Mask", "Skin Care", "12.00", 1)
	suite.addToCart("u1", serum, 2)
	suite.addToCart("u1", mask, 1)

	placed, err := suite.store.PlaceOrder(suite.ctx, suite.orderFromCart("u1"))
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), placed.VerifyTotal())

	got, err := suite.store.GetOrder(suite.ctx, placed.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), got.Items, 2)
	require.True(suite.T(), got.TotalAmount.Equal(decimal.NewFromInt(112)))

	s, _ := suite.store.GetProduct(suite.ctx, serum.ID)
	require.Equal(suite.T(), 3, s.Quantity)
	m, _ := suite.store.GetProduct(suite.ctx, mask.ID)
	require.Equal(suite.T(), 0, m.Quantity)

	items, err := suite.store.CartItems(suite.ctx, "u1")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), items)
}

func (suite *StoreTestSuite) TestPlaceOrderInsufficientStockRollsBack() {
	serum := suite.createProduct("Rose Serum", "Skin Care", "50.00", 5)
	mask := suite.createProduct("Clay Mask", "Skin Care", "12.00", 1)
	suite.addToCart("u1", serum, 2)
	suite.addToCart("u1", mask, 3)

	_, err := suite.store.PlaceOrder(suite.ctx, suite.orderFromCart("u1"))
	require.ErrorIs(suite.T(), err, store.ErrInsufficientStock)

	s, _ := suite.store.GetProduct(suite.ctx, serum.ID)
	require.Equal(suite.T(), 5, s.Quantity)
	items, _ := suite.store.CartItems(suite.ctx, "u1")
	require.Len(suite.T(), items, 2)
	res, _ := suite.store.ListOrders(suite.ctx, models.OrderFilter{})
	require.Zero(suite.T(), res.Total)
}

func (suite *StoreTestSuite) TestPlaceOrderRejectsRepeatedPaymentRef() {
	serum := suite.createProduct("Rose Serum", "Skin Care", "50.00", 5)
	suite.addToCart("u1", serum, 1)
	ref := "TELR-123"
	first := suite.orderFromCart("u1")
	first.PaymentRef = &ref
	placed, err := suite.store.PlaceOrder(suite.ctx, first)
	require.NoError(suite.T(), err)

	suite.addToCart("u1", serum, 1)
	second := suite.orderFromCart("u1")
	second.OrderNumber = "ORD-other"
	second.PaymentRef = &ref
	existing, err := suite.store.PlaceOrder(suite.ctx, second)
	require.ErrorIs(suite.T(), err, store.ErrDuplicatePayment)
	require.Equal(suite.T(), placed.ID, existing.ID)

	s, _ := suite.store.GetProduct(suite.ctx, serum.ID)
	require.Equal(suite.T(), 4, s.Quantity)
}

func (suite *StoreTestSuite) TestPaymentRefUniqueViolationReportsDuplicate() {
	serum := suite.createProduct("Rose Serum", "Skin Care", "50.00", 5)
	suite.addToCart("u1", serum, 1)
	ref := "TELR-race"
	first := suite.orderFromCart("u1")
	first.PaymentRef = &ref
	placed, err := suite.store.PlaceOrder(suite.ctx, first)
	require.NoError(suite.T(), err)

	// A concurrent delivery that missed the lookup reaches the unique index.
	late := &models.Order{
		ID: uuid.NewString(), OrderNumber: "ORD-late", UserID: "u1", PaymentRef: &ref,
		Status: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPaid,
	}
	insertErr := suite.store.db.WithContext(suite.ctx).Create(late).Error
	require.ErrorIs(suite.T(), insertErr, gorm.ErrDuplicatedKey)

	existing, err := suite.store.placed(suite.ctx, late, &models.Order{}, insertErr)
	require.ErrorIs(suite.T(), err, store.ErrDuplicatePayment)
	require.Equal(suite.T(), placed.ID, existing.ID)
}

func (suite *StoreTestSuite) TestRecordOrderLeavesStockAndCart() {
	serum := suite.createProduct("Rose Serum", "Skin Care", "50.00", 1)
	suite.addToCart("u1", serum, 3)
	ref := "TELR-short"
	o := suite.orderFromCart("u1")
	o.PaymentRef = &ref
	o.Status = models.OrderStatusCancelled
	o.PaymentStatus = models.PaymentStatusPaid

	recorded, err := suite.store.RecordOrder(suite.ctx, o)
	require.NoError(suite.T(), err)

	s, _ := suite.store.GetProduct(suite.ctx, serum.ID)
	require.Equal(suite.T(), 1, s.Quantity)
	items, _ := suite.store.CartItems(suite.ctx, "u1")
	require.Len(suite.T(), items, 1)

	again := suite.orderFromCart("u1")
	again.OrderNumber = "ORD-again"
	again.PaymentRef = &ref
	existing, err := suite.store.PlaceOrder(suite.ctx, again)
	require.ErrorIs(suite.T(), err, store.ErrDuplicatePayment)
	require.Equal(suite.T(), recorded.ID, existing.ID)
	require.Equal(suite.T(), models.OrderStatusCancelled, existing.Status)
}

func (suite *StoreTestSuite) TestListOrdersFilters() {
	p := suite.createProduct("Rose Serum", "Skin Care", "10.00", 100)
	for i, email := range []string{"ama@example.com", "kofi@example.com", "esi@example.com"} {
		uid := fmt.Sprintf("u%d", i)
		suite.addToCart(uid, p, 1)
		o := suite.orderFromCart(uid)
		o.CustomerEmail = email
		_, err := suite.store.PlaceOrder(suite.ctx, o)
		require.NoError(suite.T(), err)
	}

	res, err := suite.store.ListOrders(suite.ctx, models.OrderFilter{Query: "KOFI"})
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 1, res.Total)
	require.Equal(suite.T(), "kofi@example.com", res.Items[0].CustomerEmail)

	res, err = suite.store.ListOrders(suite.ctx, models.OrderFilter{})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "esi@example.com", res.Items[0].CustomerEmail, "newest first")

	_, err = suite.store.UpdateOrderStatus(suite.ctx, res.Items[0].ID, models.OrderStatusPending, models.OrderStatusProcessing)
	require.NoError(suite.T(), err)
	res, err = suite.store.ListOrders(suite.ctx, models.OrderFilter{Status: models.OrderStatusProcessing})
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 1, res.Total)
}

func (suite *StoreTestSuite) TestUpdateOrderStatusCompareAndSet() {
	p := suite.createProduct("Rose Serum", "Skin Care", "10.00", 100)
	suite.addToCart("u1", p, 1)
	placed, err := suite.store.PlaceOrder(suite.ctx, suite.orderFromCart("u1"))
	require.NoError(suite.T(), err)

	updated, err := suite.store.UpdateOrderStatus(suite.ctx, placed.ID, models.OrderStatusPending, models.OrderStatusProcessing)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), models.OrderStatusProcessing, updated.Status)
	require.True(suite.T(), updated.UpdatedAt.After(placed.UpdatedAt))

	_, err = suite.store.UpdateOrderStatus(suite.ctx, placed.ID, models.OrderStatusPending, models.OrderStatusProcessing)
	require.ErrorIs(suite.T(), err, store.ErrConflict)

	_, err = suite.store.UpdateOrderStatus(suite.ctx, "missing", models.OrderStatusPending, models.OrderStatusProcessing)
	require.ErrorIs(suite.T(), err, store.ErrNotFound)
}

func (suite *StoreTestSuite) TestOrderStatsAndDelete() {
	p := suite.createProduct("Rose Serum", "Skin Care", "25.00", 100)
	suite.addToCart("u1", p, 2)
	paid, err := suite.store.PlaceOrder(suite.ctx, suite.orderFromCart("u1"))
	require.NoError(suite.T(), err)
	_, err = suite.store.UpdatePaymentStatus(suite.ctx, paid.ID, models.PaymentStatusPaid)
	require.NoError(suite.T(), err)

	suite.addToCart("u2", p, 1)
	_, err = suite.store.PlaceOrder(suite.ctx, suite.orderFromCart("u2"))
	require.NoError(suite.T(), err)

	stats, err := suite.store.OrderStats(suite.ctx)
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 2, stats.Total)
	require.EqualValues(suite.T(), 2, stats.ByStatus[models.OrderStatusPending])
	require.True(suite.T(), stats.Revenue.Equal(decimal.NewFromInt(50)), stats.Revenue.String())

	require.NoError(suite.T(), suite.store.DeleteOrder(suite.ctx, paid.ID))
	require.ErrorIs(suite.T(), suite.store.DeleteOrder(suite.ctx, paid.ID), store.ErrNotFound)

	var seen int
	require.NoError(suite.T(), suite.store.AllOrders(suite.ctx, func(models.Order) error {
		seen++
		return nil
	}))
	require.Equal(suite.T(), 1, seen)
}

func (suite *StoreTestSuite) TestBookingStatusCompareAndSet() {
	b := &models.Booking{UserID: "u1", Plan: "Skin consultation", Date: "2025-04-02", Time: "14:30", Amount: decimal.NewFromInt(60), Status: models.BookingPending}
	require.NoError(suite.T(), suite.store.CreateBooking(suite.ctx, b))

	got, err := suite.store.UpdateBookingStatus(suite.ctx, b.ID, models.BookingPending, models.BookingConfirmed)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), models.BookingConfirmed, got.Status)

	_, err = suite.store.UpdateBookingStatus(suite.ctx, b.ID, models.BookingPending, models.BookingCancelled)
	require.ErrorIs(suite.T(), err, store.ErrConflict)

	mine, err := suite.store.ListBookings(suite.ctx, "u1")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), mine, 1)
	others, err := suite.store.ListBookings(suite.ctx, "u2")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), others)
}

func (suite *StoreTestSuite) TestUpsertUserKeepsProfile() {
	u := &models.User{ID: "u1", Email: "ama@example.com", Role: models.RoleUser}
	require.NoError(suite.T(), suite.store.UpsertUser(suite.ctx, u))

	u.Name = "Ama"
	u.Phone = "0240000000"
	require.NoError(suite.T(), suite.store.UpdateUser(suite.ctx, u))

	require.NoError(suite.T(), suite.store.UpsertUser(suite.ctx, &models.User{ID: "u1", Email: "ama@new.example.com", Role: models.RoleAdmin}))
	got, err := suite.store.GetUser(suite.ctx, "u1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Ama", got.Name)
	require.Equal(suite.T(), "ama@new.example.com", got.Email)
	require.Equal(suite.T(), models.RoleAdmin, got.Role)

	page, err := suite.store.ListUsers(suite.ctx, models.Page{})
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 1, page.Total)
}
