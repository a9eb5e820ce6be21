package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceOrder runs stock decrement, order insert and cart clearing in one transaction with
// the product rows locked.
func (s *Store) PlaceOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	now := s.stamp(o)
	var existing models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := paymentRefUnused(tx, o, &existing); err != nil {
			return err
		}

		for _, item := range o.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %s: %w", item.ProductID, store.ErrNotFound)
				}
				return err
			}
			if product.Quantity < item.Quantity {
				return fmt.Errorf("%w for %s: %d left, %d requested", store.ErrInsufficientStock, product.Name, product.Quantity, item.Quantity)
			}
			if err := adjustStock(tx, product.ID, -item.Quantity, now); err != nil {
				return err
			}
		}

		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", o.UserID).Delete(&models.CartItem{}).Error
	})
	return s.placed(ctx, o, &existing, err)
}

// RecordOrder inserts o without touching stock or the cart. The payment reference guard is
// the same as PlaceOrder's.
func (s *Store) RecordOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	s.stamp(o)
	var existing models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := paymentRefUnused(tx, o, &existing); err != nil {
			return err
		}
		return tx.Create(o).Error
	})
	return s.placed(ctx, o, &existing, err)
}

func (s *Store) stamp(o *models.Order) time.Time {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := s.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt
	return now
}

func paymentRefUnused(tx *gorm.DB, o *models.Order, existing *models.Order) error {
	if o.PaymentRef == nil {
		return nil
	}
	err := tx.Preload("Items").Where("payment_ref = ?", *o.PaymentRef).First(existing).Error
	if err == nil {
		return store.ErrDuplicatePayment
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// placed settles the outcome of an order insert. A concurrent insert of the same payment
// reference loses on the unique index and is reported like any other duplicate.
func (s *Store) placed(ctx context.Context, o, existing *models.Order, err error) (*models.Order, error) {
	if err != nil && o.PaymentRef != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		prev, lookupErr := s.GetOrderByPaymentRef(ctx, *o.PaymentRef)
		if lookupErr == nil {
			return prev, store.ErrDuplicatePayment
		}
	}
	if errors.Is(err, store.ErrDuplicatePayment) {
		return existing, err
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, "order_number = ?", number).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) GetOrderByPaymentRef(ctx context.Context, ref string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, "payment_ref = ?", ref).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, f models.OrderFilter) (models.PageResult[models.Order], error) {
	page := f.Page.Normalize()
	result := models.PageResult[models.Order]{Items: []models.Order{}, Page: page.Page, Limit: page.Limit}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR customer_phone LIKE ?",
			like, like, like, like,
		)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	err := query.Preload("Items").
		Order("created_at DESC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&result.Items).Error
	return result, err
}

func (s *Store) ListUserOrders(ctx context.Context, uid string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": s.now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetOrder(ctx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrConflict
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	return s.updateOrderFields(ctx, id, map[string]any{"payment_status": status})
}

func (s *Store) UpdateTracking(ctx context.Context, id, trackingNumber string) (*models.Order, error) {
	return s.updateOrderFields(ctx, id, map[string]any{"tracking_number": trackingNumber})
}

func (s *Store) updateOrderFields(ctx context.Context, id string, fields map[string]any) (*models.Order, error) {
	fields["updated_at"] = s.now()
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *Store) AllOrders(ctx context.Context, fn func(models.Order) error) error {
	var batch []models.Order
	return s.db.WithContext(ctx).Preload("Items").
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for _, o := range batch {
				if err := fn(o); err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func (s *Store) OrderStats(ctx context.Context) (models.OrderStats, error) {
	stats := models.OrderStats{ByStatus: map[models.OrderStatus]int64{}, Revenue: decimal.Zero}

	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.Total += r.Count
	}

	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ? AND status <> ?", models.PaymentStatusPaid, models.OrderStatusCancelled).
		Row().Scan(&stats.Revenue)
	return stats, err
}
