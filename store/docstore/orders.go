package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
)

// PlaceOrder runs in a Firestore transaction. A paymentRefs/{ref} document guards the payment
// reference so a redelivered confirmation finds the order it already produced.
func (s *Store) PlaceOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	return s.insertOrder(ctx, o, true)
}

// RecordOrder stores o under the same payment reference guard without touching stock or the
// cart.
func (s *Store) RecordOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	return s.insertOrder(ctx, o, false)
}

func (s *Store) insertOrder(ctx context.Context, o *models.Order, fulfil bool) (*models.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := s.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt

	orderRef := s.client.Collection(colOrders).Doc(o.ID)
	var existing *models.Order
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing = nil

		var refDoc *firestore.DocumentRef
		if o.PaymentRef != nil {
			refDoc = s.client.Collection(colPaymentRefs).Doc(*o.PaymentRef)
			snap, err := tx.Get(refDoc)
			if err == nil {
				orderID, _ := snap.DataAt("orderId")
				id, _ := orderID.(string)
				prev, err := tx.Get(s.client.Collection(colOrders).Doc(id))
				if err != nil {
					return err
				}
				var doc orderDoc
				if err := prev.DataTo(&doc); err != nil {
					return err
				}
				m := doc.model(prev.Ref.ID)
				existing = &m
				return store.ErrDuplicatePayment
			}
			if !isNotFound(err) {
				return err
			}
		}

		var (
			decrements []stockDecrement
			cartRefs   []*firestore.DocumentRef
		)
		if fulfil {
			var err error
			if decrements, err = s.checkStock(tx, o.Items); err != nil {
				return err
			}
			if cartRefs, err = tx.DocumentRefs(s.cart(o.UserID)).GetAll(); err != nil {
				return err
			}
		}

		for _, d := range decrements {
			if err := tx.Update(d.ref, []firestore.Update{
				{Path: "quantity", Value: firestore.Increment(-d.qty)},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		if err := tx.Create(orderRef, toOrderDoc(o)); err != nil {
			return err
		}
		if refDoc != nil {
			if err := tx.Create(refDoc, map[string]any{"orderId": o.ID}); err != nil {
				return err
			}
		}
		for _, ref := range cartRefs {
			if err := tx.Delete(ref); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrDuplicatePayment) {
		return existing, err
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// sumByProduct totals quantities per product id, keeping first-seen order.
func sumByProduct(items []models.OrderItem) ([]string, map[string]int) {
	wanted := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := wanted[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		wanted[item.ProductID] += item.Quantity
	}
	return order, wanted
}

type stockDecrement struct {
	ref *firestore.DocumentRef
	qty int
}

// checkStock reads each product once and compares its stock against the summed quantity of
// every line that references it.
func (s *Store) checkStock(tx *firestore.Transaction, items []models.OrderItem) ([]stockDecrement, error) {
	order, wanted := sumByProduct(items)
	decrements := make([]stockDecrement, 0, len(order))
	for _, id := range order {
		ref := s.client.Collection(colProducts).Doc(id)
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
			}
			return nil, err
		}
		var p productDoc
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		if p.Quantity < wanted[id] {
			return nil, fmt.Errorf("%w for %s: %d left, %d requested", store.ErrInsufficientStock, p.Name, p.Quantity, wanted[id])
		}
		decrements = append(decrements, stockDecrement{ref: ref, qty: wanted[id]})
	}
	return decrements, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	snap, err := s.client.Collection(colOrders).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return orderFromSnap(snap)
}

func (s *Store) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	snaps, err := s.client.CollectionGroup(colOrders).Where("orderNumber", "==", number).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	return orderFromSnap(snaps[0])
}

func (s *Store) GetOrderByPaymentRef(ctx context.Context, ref string) (*models.Order, error) {
	snap, err := s.client.Collection(colPaymentRefs).Doc(ref).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	id, _ := snap.Data()["orderId"].(string)
	return s.GetOrder(ctx, id)
}

func orderFromSnap(snap *firestore.DocumentSnapshot) (*models.Order, error) {
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	o := doc.model(snap.Ref.ID)
	return &o, nil
}

func ordersFromSnaps(snaps []*firestore.DocumentSnapshot) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(snaps))
	for _, snap := range snaps {
		o, err := orderFromSnap(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// ListOrders queries the orders collection group. Text search is applied in memory since
// Firestore has no substring match; without it paging is pushed to the query.
func (s *Store) ListOrders(ctx context.Context, f models.OrderFilter) (models.PageResult[models.Order], error) {
	page := f.Page.Normalize()
	q := s.client.CollectionGroup(colOrders).Query
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}

	needle := strings.ToLower(strings.TrimSpace(f.Query))
	if needle != "" {
		snaps, err := q.Documents(ctx).GetAll()
		if err != nil {
			return models.PageResult[models.Order]{}, err
		}
		all, err := ordersFromSnaps(snaps)
		if err != nil {
			return models.PageResult[models.Order]{}, err
		}
		matched := all[:0]
		for _, o := range all {
			if strings.Contains(strings.ToLower(o.OrderNumber), needle) ||
				strings.Contains(strings.ToLower(o.CustomerName), needle) ||
				strings.Contains(strings.ToLower(o.CustomerEmail), needle) ||
				strings.Contains(o.CustomerPhone, needle) {
				matched = append(matched, o)
			}
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		return paginate(matched, page), nil
	}

	total, err := count(ctx, q)
	if err != nil {
		return models.PageResult[models.Order]{}, err
	}
	snaps, err := q.OrderBy("createdAt", firestore.Desc).Offset(page.Offset()).Limit(page.Limit).Documents(ctx).GetAll()
	if err != nil {
		return models.PageResult[models.Order]{}, err
	}
	orders, err := ordersFromSnaps(snaps)
	if err != nil {
		return models.PageResult[models.Order]{}, err
	}
	return models.PageResult[models.Order]{Items: orders, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *Store) ListUserOrders(ctx context.Context, uid string) ([]models.Order, error) {
	snaps, err := s.client.Collection(colOrders).Where("userId", "==", uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	orders, err := ordersFromSnaps(snaps)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	ref := s.client.Collection(colOrders).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound(err)
		}
		current, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if current != string(from) {
			return store.ErrConflict
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updatedAt", Value: s.now()},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	return s.updateOrderFields(ctx, id, firestore.Update{Path: "paymentStatus", Value: string(status)})
}

func (s *Store) UpdateTracking(ctx context.Context, id, trackingNumber string) (*models.Order, error) {
	return s.updateOrderFields(ctx, id, firestore.Update{Path: "trackingNumber", Value: trackingNumber})
}

func (s *Store) updateOrderFields(ctx context.Context, id string, updates ...firestore.Update) (*models.Order, error) {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: s.now()})
	if _, err := s.client.Collection(colOrders).Doc(id).Update(ctx, updates); err != nil {
		return nil, notFound(err)
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	ref := s.client.Collection(colOrders).Doc(id)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound(err)
		}
		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if doc.PaymentRef != "" {
			if err := tx.Delete(s.client.Collection(colPaymentRefs).Doc(doc.PaymentRef)); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
}

func (s *Store) AllOrders(ctx context.Context, fn func(models.Order) error) error {
	iter := s.client.CollectionGroup(colOrders).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		o, err := orderFromSnap(snap)
		if err != nil {
			return err
		}
		if err := fn(*o); err != nil {
			return err
		}
	}
}

func (s *Store) OrderStats(ctx context.Context) (models.OrderStats, error) {
	stats := models.OrderStats{ByStatus: map[models.OrderStatus]int64{}, Revenue: decimal.Zero}
	err := s.AllOrders(ctx, func(o models.Order) error {
		stats.Total++
		stats.ByStatus[o.Status]++
		if o.PaymentStatus == models.PaymentStatusPaid && o.Status != models.OrderStatusCancelled {
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
		}
		return nil
	})
	return stats, err
}
