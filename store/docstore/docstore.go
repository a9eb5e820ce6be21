// Package docstore implements store.Store on Cloud Firestore using the collection layout
// products, users/{uid}/cart, users/{uid}/favorites, orders and bookings.
package docstore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	colProducts    = "products"
	colUsers       = "users"
	colCart        = "cart"
	colFavorites   = "favorites"
	colOrders      = "orders"
	colBookings    = "bookings"
	colPaymentRefs = "paymentRefs"
)

type Store struct {
	client *firestore.Client
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(client *firestore.Client) *Store {
	return &Store{client: client, now: time.Now}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) cart(uid string) *firestore.CollectionRef {
	return s.client.Collection(colUsers).Doc(uid).Collection(colCart)
}

func (s *Store) favorites(uid string) *firestore.CollectionRef {
	return s.client.Collection(colUsers).Doc(uid).Collection(colFavorites)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func notFound(err error) error {
	if isNotFound(err) {
		return store.ErrNotFound
	}
	return err
}

func count(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("count aggregation returned no value")
	}
	return v.GetIntegerValue(), nil
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

func paginate[T any](items []T, page models.Page) models.PageResult[T] {
	page = page.Normalize()
	res := models.PageResult[T]{Items: []T{}, Total: int64(len(items)), Page: page.Page, Limit: page.Limit}
	start := page.Offset()
	if start >= len(items) {
		return res
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	res.Items = items[start:end]
	return res
}
