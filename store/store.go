// Package store declares the persistence contracts for the storefront. Adapters live in
// store/gormstore (relational) and store/docstore (Firestore).
package store

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/beauty-api/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record was modified concurrently")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicatePayment  = errors.New("payment reference already used by an order")
)

type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, f models.ProductFilter) (models.PageResult[models.Product], error)
	Categories(ctx context.Context) ([]models.Category, error)
}

// CartStore addresses items under users/{uid}/cart.
type CartStore interface {
	CartItems(ctx context.Context, uid string) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, uid, itemID string) (*models.CartItem, error)
	FindCartItemByProduct(ctx context.Context, uid, productID string) (*models.CartItem, error)
	AddCartItem(ctx context.Context, uid string, item *models.CartItem) error
	SetCartQuantity(ctx context.Context, uid, itemID string, qty int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, uid, itemID string) error
	ClearCart(ctx context.Context, uid string) error
}

type FavoriteStore interface {
	Favorites(ctx context.Context, uid string) ([]models.Favorite, error)
	FindFavoriteByProduct(ctx context.Context, uid, productID string) (*models.Favorite, error)
	AddFavorite(ctx context.Context, f *models.Favorite) error
	// RemoveFavorite reports whether a document was actually deleted.
	RemoveFavorite(ctx context.Context, uid, favoriteID string) (bool, error)
}

type OrderStore interface {
	// PlaceOrder decrements stock for every item, inserts the order and clears the owner's
	// cart as one unit. An order carrying a PaymentRef that is already stored yields
	// ErrDuplicatePayment together with the existing order.
	PlaceOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	// RecordOrder inserts o as given, leaving stock and the cart alone. The payment reference
	// guard is the same as PlaceOrder's.
	RecordOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	GetOrderByPaymentRef(ctx context.Context, ref string) (*models.Order, error)
	ListOrders(ctx context.Context, f models.OrderFilter) (models.PageResult[models.Order], error)
	ListUserOrders(ctx context.Context, uid string) ([]models.Order, error)
	// UpdateOrderStatus writes to only if the stored status is still from; ErrConflict otherwise.
	UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error)
	UpdateTracking(ctx context.Context, id, trackingNumber string) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	// AllOrders streams every order to fn, newest first; used by integrity audits.
	AllOrders(ctx context.Context, fn func(models.Order) error) error
	OrderStats(ctx context.Context) (models.OrderStats, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	// ListBookings returns every booking when uid is empty.
	ListBookings(ctx context.Context, uid string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type UserStore interface {
	UpsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, page models.Page) (models.PageResult[models.User], error)
}

type Store interface {
	ProductStore
	CartStore
	FavoriteStore
	OrderStore
	BookingStore
	UserStore
	Close() error
}
