package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/events"
	"github.com/junaidrashid-git/beauty-api/mocks"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/payment"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/junaidrashid-git/beauty-api/store/gormstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ServicesTestSuite struct {
	suite.Suite
	ctx       context.Context
	db        *gormstore.Store
	ctrl      *gomock.Controller
	publisher *mocks.MockPublisher
	gateway   *mocks.MockGateway

	cart      *CartService
	checkout  *CheckoutService
	tracker   *OrderTracker
	favorites *FavoriteService
	bookings  *BookingService
	catalog   *CatalogService
	users     *UserService

	uid string
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func (s *ServicesTestSuite) SetupTest() {
	s.ctx = context.Background()
	clock := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	db, err := gormstore.OpenSQLite(uuid.NewString(), gormstore.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	s.Require().NoError(err)
	s.db = db

	s.ctrl = gomock.NewController(s.T())
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.gateway = mocks.NewMockGateway(s.ctrl)

	s.cart = NewCartService(db, db)
	s.checkout = NewCheckoutService(db, db, s.gateway, s.publisher, "AED")
	s.tracker = NewOrderTracker(db, s.publisher)
	s.favorites = NewFavoriteService(db, db)
	s.bookings = NewBookingService(db)
	s.catalog = NewCatalogService(db)
	s.users = NewUserService(db)
	s.uid = "uid-" + uuid.NewString()[:8]
}

func (s *ServicesTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *ServicesTestSuite) product(price string, qty int) *models.Product {
	p, err := s.catalog.Create(s.ctx, ProductInput{
		Name:          "Rose Serum",
		Category:      "Skin Care",
		OriginalPrice: decimal.RequireFromString(price),
		Quantity:      qty,
	})
	s.Require().NoError(err)
	return p
}

func address() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName: "Sara", LastName: "Ali", Address: "1 Palm St", City: "Dubai",
		Country: "AE", Phone: "+971500000000", Email: "sara@example.com",
	}
}

func (s *ServicesTestSuite) TestCartTotalsScenario() {
	p := s.product("50.00", 10)

	item, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 2)
	s.Require().NoError(err)
	cart, err := s.cart.Cart(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal("100.00", cart.Total().StringFixed(2))

	_, err = s.cart.UpdateQuantity(s.ctx, s.uid, item.ID, 1)
	s.Require().NoError(err)
	cart, _ = s.cart.Cart(s.ctx, s.uid)
	s.Equal("150.00", cart.Total().StringFixed(2))

	_, err = s.cart.SetQuantity(s.ctx, s.uid, item.ID, 1)
	s.Require().NoError(err)
	got, err := s.cart.UpdateQuantity(s.ctx, s.uid, item.ID, -1)
	s.Require().ErrorIs(err, ErrBelowMinimum)
	s.Equal(1, got.Quantity)

	stored, err := s.db.GetCartItem(s.ctx, s.uid, item.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Quantity)
}

func (s *ServicesTestSuite) TestAddItemMergesLinesAndSnapshotsDiscount() {
	p, err := s.catalog.Create(s.ctx, ProductInput{
		Name: "Lipstick", OriginalPrice: decimal.NewFromInt(30), DiscountedPrice: decimal.NewFromInt(20), Quantity: 1,
	})
	s.Require().NoError(err)

	_, err = s.cart.AddItem(s.ctx, s.uid, p.ID, 0)
	s.Require().NoError(err)
	item, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 4)
	s.Require().NoError(err)
	s.Equal(5, item.Quantity)
	s.True(item.Price.Equal(decimal.NewFromInt(20)))

	cart, _ := s.cart.Cart(s.ctx, s.uid)
	s.Len(cart.Items, 1)

	_, err = s.cart.AddItem(s.ctx, s.uid, "missing", 1)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *ServicesTestSuite) TestQuantityCannotOverflow() {
	p := s.product("5.00", 10)
	item, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 1)
	s.Require().NoError(err)

	got, err := s.cart.AddItem(s.ctx, s.uid, p.ID, math.MaxInt)
	s.Require().ErrorIs(err, ErrValidation)
	s.Equal(1, got.Quantity)

	got, err = s.cart.UpdateQuantity(s.ctx, s.uid, item.ID, math.MaxInt)
	s.Require().ErrorIs(err, ErrValidation)
	s.Equal(1, got.Quantity)

	_, err = s.cart.SetQuantity(s.ctx, s.uid, item.ID, math.MinInt)
	s.Require().ErrorIs(err, ErrBelowMinimum)

	stored, err := s.db.GetCartItem(s.ctx, s.uid, item.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Quantity)
}

func (s *ServicesTestSuite) TestRemoveItemConfirmsDelete() {
	p := s.product("10", 1)
	item, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.cart.RemoveItem(s.ctx, s.uid, item.ID))
	s.ErrorIs(s.cart.RemoveItem(s.ctx, s.uid, item.ID), store.ErrNotFound)
}

func (s *ServicesTestSuite) TestPlaceOrderCashOnDelivery() {
	p := s.product("50.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 2)
	s.Require().NoError(err)

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e events.Event) error {
		s.Equal(events.OrderCreated, e.Type)
		return nil
	})

	o, err := s.checkout.PlaceOrder(s.ctx, CheckoutRequest{UserID: s.uid, ShippingAddress: address(), ShippingMethod: "standard"})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusPending, o.Status)
	s.Equal(models.PaymentStatusPending, o.PaymentStatus)
	s.Equal(PaymentCOD, o.PaymentMethod)
	s.Equal("Sara Ali", o.CustomerName)
	s.NoError(o.VerifyTotal())
	s.Equal("100.00", o.TotalAmount.StringFixed(2))

	fresh, _ := s.db.GetProduct(s.ctx, p.ID)
	s.Equal(3, fresh.Quantity)
	cart, _ := s.cart.Cart(s.ctx, s.uid)
	s.Empty(cart.Items)
}

func (s *ServicesTestSuite) TestPlaceOrderValidation() {
	addr := address()
	addr.City = ""
	_, err := s.checkout.PlaceOrder(s.ctx, CheckoutRequest{UserID: s.uid, ShippingAddress: addr})
	s.ErrorIs(err, ErrValidation)
	s.Contains(err.Error(), "city")

	_, err = s.checkout.PlaceOrder(s.ctx, CheckoutRequest{UserID: s.uid, ShippingAddress: address()})
	s.ErrorIs(err, ErrEmptyCart)
}

func (s *ServicesTestSuite) TestPlaceOrderRejectedPaymentCreatesNothing() {
	p := s.product("50.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 1)
	s.Require().NoError(err)

	_, err = s.checkout.PlaceOrder(s.ctx, CheckoutRequest{
		UserID: s.uid, ShippingAddress: address(),
		Payment: &payment.Confirmation{Ref: "r1", Status: models.PaymentStatusFailed},
	})
	s.ErrorIs(err, ErrPaymentRejected)

	stats, err := s.tracker.Stats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(0, stats.Total)
}

func (s *ServicesTestSuite) TestPlaceOrderInsufficientStockKeepsCart() {
	p := s.product("50.00", 1)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 3)
	s.Require().NoError(err)

	_, err = s.checkout.PlaceOrder(s.ctx, CheckoutRequest{UserID: s.uid, ShippingAddress: address()})
	s.ErrorIs(err, store.ErrInsufficientStock)

	cart, _ := s.cart.Cart(s.ctx, s.uid)
	s.Len(cart.Items, 1)
}

func (s *ServicesTestSuite) TestStartPayment() {
	p := s.product("40.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 2)
	s.Require().NoError(err)

	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req payment.Request) (payment.Session, error) {
		s.Equal("80.00", req.Amount.StringFixed(2))
		s.Equal("AED", req.Currency)
		uid, ok := UserFromCartID(req.CartID)
		s.True(ok)
		s.Equal(s.uid, uid)
		return payment.Session{Ref: "REF", URL: "https://pay.example/REF"}, nil
	})

	start, err := s.checkout.StartPayment(s.ctx, s.uid, payment.Customer{}, address())
	s.Require().NoError(err)
	s.Equal("REF", start.Session.Ref)
	s.Equal("80.00", start.Amount)
}

func (s *ServicesTestSuite) TestStartPaymentGatewayError() {
	p := s.product("40.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 1)
	s.Require().NoError(err)

	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(payment.Session{}, payment.ErrGateway)
	_, err = s.checkout.StartPayment(s.ctx, s.uid, payment.Customer{}, address())
	s.ErrorIs(err, payment.ErrGateway)
}

func (s *ServicesTestSuite) TestWebhookIsIdempotent() {
	p := s.product("25.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 2)
	s.Require().NoError(err)

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	advice := payment.Webhook{
		CartID: CartID(s.uid), Ref: "TX-1", Approved: true, Status: "A",
		Amount: decimal.NewFromInt(50), Method: "visa", Address: address(),
		Customer: payment.Customer{Name: "Sara Ali", Email: "sara@example.com"},
	}
	first, err := s.checkout.HandlePaymentWebhook(s.ctx, advice)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusProcessing, first.Status)
	s.Equal(models.PaymentStatusPaid, first.PaymentStatus)

	again, err := s.checkout.HandlePaymentWebhook(s.ctx, advice)
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)

	fresh, _ := s.db.GetProduct(s.ctx, p.ID)
	s.Equal(3, fresh.Quantity)
}

func (s *ServicesTestSuite) TestPaidWebhookWithShortStockIsRecorded() {
	p := s.product("25.00", 1)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 2)
	s.Require().NoError(err)

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	advice := payment.Webhook{
		CartID: CartID(s.uid), Ref: "TX-short", Approved: true, Status: "A",
		Amount: decimal.NewFromInt(50), Method: "visa", Address: address(),
	}
	first, err := s.checkout.HandlePaymentWebhook(s.ctx, advice)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, first.Status)
	s.Equal(models.PaymentStatusPaid, first.PaymentStatus)

	again, err := s.checkout.HandlePaymentWebhook(s.ctx, advice)
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)

	byRef, err := s.db.GetOrderByPaymentRef(s.ctx, "TX-short")
	s.Require().NoError(err)
	s.Equal(first.ID, byRef.ID)

	fresh, _ := s.db.GetProduct(s.ctx, p.ID)
	s.Equal(1, fresh.Quantity)
	cart, _ := s.cart.Cart(s.ctx, s.uid)
	s.Len(cart.Items, 1)
}

func (s *ServicesTestSuite) TestDeclinedWebhookCreatesNothing() {
	o, err := s.checkout.HandlePaymentWebhook(s.ctx, payment.Webhook{CartID: CartID(s.uid), Status: "D"})
	s.NoError(err)
	s.Nil(o)

	_, err = s.checkout.HandlePaymentWebhook(s.ctx, payment.Webhook{CartID: "nouser", Approved: true})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServicesTestSuite) placeOrder() *models.Order {
	p := s.product("50.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 1)
	s.Require().NoError(err)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	o, err := s.checkout.PlaceOrder(s.ctx, CheckoutRequest{UserID: s.uid, ShippingAddress: address()})
	s.Require().NoError(err)
	return o
}

func (s *ServicesTestSuite) TestAdvanceWalksForwardOneStep() {
	o := s.placeOrder()

	want := []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered}
	prev := o.UpdatedAt
	for _, status := range want {
		got, err := s.tracker.Advance(s.ctx, o.ID)
		s.Require().NoError(err)
		s.Equal(status, got.Status)
		s.True(got.UpdatedAt.After(prev))
		prev = got.UpdatedAt
	}

	_, err := s.tracker.Advance(s.ctx, o.ID)
	s.ErrorIs(err, ErrInvalidTransition)
	_, err = s.tracker.Cancel(s.ctx, o.ID)
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *ServicesTestSuite) TestCancelIsAbsorbing() {
	o := s.placeOrder()

	got, err := s.tracker.Apply(s.ctx, o.ID, models.ActionCancel)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, got.Status)
	s.Empty(got.Status.Actions())

	_, err = s.tracker.Advance(s.ctx, o.ID)
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.tracker.Apply(s.ctx, o.ID, "rewind")
	s.ErrorIs(err, ErrValidation)
}

func (s *ServicesTestSuite) TestPaymentStatusTrackingAndOwnership() {
	o := s.placeOrder()

	got, err := s.tracker.SetPaymentStatus(s.ctx, o.ID, models.PaymentStatusPaid)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusPaid, got.PaymentStatus)

	_, err = s.tracker.SetPaymentStatus(s.ctx, o.ID, "refunded")
	s.ErrorIs(err, ErrValidation)

	got, err = s.tracker.SetTracking(s.ctx, o.ID, " TRK-9 ")
	s.Require().NoError(err)
	s.Equal("TRK-9", got.TrackingNumber)

	_, err = s.tracker.GetForUser(s.ctx, "someone-else", o.ID)
	s.ErrorIs(err, store.ErrNotFound)
	mine, err := s.tracker.ListForUser(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Len(mine, 1)

	stats, err := s.tracker.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal("50.00", stats.Revenue.StringFixed(2))
}

func (s *ServicesTestSuite) TestAuditTotalsFlagsCorruptOrders() {
	o := s.placeOrder()
	mismatches, err := s.tracker.AuditTotals(s.ctx)
	s.Require().NoError(err)
	s.Empty(mismatches)

	s.Require().NoError(s.db.DB().Model(&models.Order{}).Where("id = ?", o.ID).Update("total_amount", "12.00").Error)
	mismatches, err = s.tracker.AuditTotals(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(mismatches, 1)
	s.Equal(o.ID, mismatches[0].OrderID)
	s.Equal("50.00", mismatches[0].ItemsTotal)
}

func (s *ServicesTestSuite) TestDeletePublishes() {
	o := s.placeOrder()
	s.Require().NoError(s.tracker.Delete(s.ctx, o.ID))
	_, err := s.tracker.Get(s.ctx, o.ID)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *ServicesTestSuite) TestPublishFailureDoesNotFailTransition() {
	p := s.product("50.00", 5)
	_, err := s.cart.AddItem(s.ctx, s.uid, p.ID, 1)
	s.Require().NoError(err)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down")).AnyTimes()

	o, err := s.checkout.PlaceOrder(s.ctx, CheckoutRequest{UserID: s.uid, ShippingAddress: address()})
	s.Require().NoError(err)
	_, err = s.tracker.Advance(s.ctx, o.ID)
	s.NoError(err)
}

func (s *ServicesTestSuite) TestFavoritesIdempotent() {
	p := s.product("15.00", 1)

	f1, err := s.favorites.Add(s.ctx, s.uid, p.ID)
	s.Require().NoError(err)
	f2, err := s.favorites.Add(s.ctx, s.uid, p.ID)
	s.Require().NoError(err)
	s.Equal(f1.ID, f2.ID)

	removed, err := s.favorites.Remove(s.ctx, s.uid, f1.ID)
	s.Require().NoError(err)
	s.True(removed)
	removed, err = s.favorites.Remove(s.ctx, s.uid, f1.ID)
	s.Require().NoError(err)
	s.False(removed)

	list, err := s.favorites.List(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServicesTestSuite) TestBookings() {
	_, err := s.bookings.Create(s.ctx, s.uid, BookingRequest{Plan: "Glow", Date: "2025-13-01", Time: "10:00"})
	s.ErrorIs(err, ErrValidation)

	b, err := s.bookings.Create(s.ctx, s.uid, BookingRequest{Plan: "Glow", Date: "2025-06-01", Time: "10:30", Amount: decimal.NewFromInt(200)})
	s.Require().NoError(err)
	s.Equal(models.BookingPending, b.Status)

	_, err = s.bookings.SetStatus(s.ctx, b.ID, models.BookingCompleted)
	s.ErrorIs(err, ErrInvalidTransition)

	b, err = s.bookings.SetStatus(s.ctx, b.ID, models.BookingConfirmed)
	s.Require().NoError(err)
	s.Equal(models.BookingConfirmed, b.Status)

	_, err = s.bookings.CancelForUser(s.ctx, "other", b.ID)
	s.ErrorIs(err, store.ErrNotFound)
	b, err = s.bookings.CancelForUser(s.ctx, s.uid, b.ID)
	s.Require().NoError(err)
	s.Equal(models.BookingCancelled, b.Status)

	all, err := s.bookings.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ServicesTestSuite) TestCatalogValidationAndSlug() {
	_, err := s.catalog.Create(s.ctx, ProductInput{Name: "X", OriginalPrice: decimal.Zero})
	s.ErrorIs(err, ErrValidation)
	_, err = s.catalog.Create(s.ctx, ProductInput{Name: "X", OriginalPrice: decimal.NewFromInt(1), Quantity: -1})
	s.ErrorIs(err, ErrValidation)
	_, err = s.catalog.Create(s.ctx, ProductInput{Name: "X", OriginalPrice: decimal.NewFromInt(1), Status: "sold"})
	s.ErrorIs(err, ErrValidation)

	p, err := s.catalog.Create(s.ctx, ProductInput{Name: "Crème", Category: "Soins du Visage", OriginalPrice: decimal.NewFromInt(9), Status: "low_stock"})
	s.Require().NoError(err)
	s.Equal("soins-du-visage", p.CategorySlug)
	s.Equal(models.ProductLowStock, p.Status)

	res, err := s.catalog.List(s.ctx, models.ProductFilter{CategorySlug: "Soins du Visage"})
	s.Require().NoError(err)
	s.EqualValues(1, res.Total)

	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(5)
	_, err = s.catalog.List(s.ctx, models.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServicesTestSuite) TestXLSXRoundTrip() {
	s.product("12.50", 4)
	s.product("30.00", 0)

	var buf bytes.Buffer
	s.Require().NoError(s.catalog.ExportXLSX(s.ctx, &buf))

	res, err := s.catalog.ImportXLSX(s.ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	s.Require().NoError(err)
	s.Equal(2, res.Updated)
	s.Zero(res.Created)
	s.Zero(res.Skipped)

	_, err = s.catalog.ImportXLSX(s.ctx, bytes.NewReader([]byte("nope")), 4)
	s.ErrorIs(err, ErrValidation)
}

func (s *ServicesTestSuite) TestUserProfile() {
	u, err := s.users.Sync(s.ctx, s.uid, "sara@example.com", "")
	s.Require().NoError(err)
	s.Equal(models.RoleUser, u.Role)

	u, err = s.users.UpdateProfile(s.ctx, s.uid, ProfileInput{Name: " Sara ", Address: address()})
	s.Require().NoError(err)
	s.Equal("Sara", u.Name)

	u, err = s.users.Sync(s.ctx, s.uid, "new@example.com", models.RoleAdmin)
	s.Require().NoError(err)
	s.Equal("Sara", u.Name)
	s.Equal(models.RoleAdmin, u.Role)
	s.Equal("new@example.com", u.Email)
}
