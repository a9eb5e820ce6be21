package docstore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

func (s *Store) CartItems(ctx context.Context, uid string) ([]models.CartItem, error) {
	snaps, err := s.cart(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	items := make([]models.CartItem, 0, len(snaps))
	for _, snap := range snaps {
		var doc cartItemDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc.model(uid, snap.Ref.ID))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	return items, nil
}

func (s *Store) GetCartItem(ctx context.Context, uid, itemID string) (*models.CartItem, error) {
	snap, err := s.cart(uid).Doc(itemID).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var doc cartItemDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	item := doc.model(uid, snap.Ref.ID)
	return &item, nil
}

func (s *Store) FindCartItemByProduct(ctx context.Context, uid, productID string) (*models.CartItem, error) {
	snaps, err := s.cart(uid).Where("productId", "==", productID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	var doc cartItemDoc
	if err := snaps[0].DataTo(&doc); err != nil {
		return nil, err
	}
	item := doc.model(uid, snaps[0].Ref.ID)
	return &item, nil
}

func (s *Store) AddCartItem(ctx context.Context, uid string, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := s.now()
	item.UserID = uid
	item.AddedAt, item.UpdatedAt = now, now
	_, err := s.cart(uid).Doc(item.ID).Create(ctx, cartItemDoc{
		ProductID: item.ProductID,
		Name:      item.Name,
		ImageURL:  item.ImageURL,
		Price:     item.Price.InexactFloat64(),
		Quantity:  item.Quantity,
		AddedAt:   now,
		UpdatedAt: now,
	})
	return err
}

func (s *Store) SetCartQuantity(ctx context.Context, uid, itemID string, qty int) (*models.CartItem, error) {
	_, err := s.cart(uid).Doc(itemID).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: qty},
		{Path: "updatedAt", Value: s.now()},
	})
	if err != nil {
		return nil, notFound(err)
	}
	return s.GetCartItem(ctx, uid, itemID)
}

func (s *Store) RemoveCartItem(ctx context.Context, uid, itemID string) error {
	ref := s.cart(uid).Doc(itemID)
	if _, err := ref.Get(ctx); err != nil {
		return notFound(err)
	}
	_, err := ref.Delete(ctx)
	return err
}

func (s *Store) ClearCart(ctx context.Context, uid string) error {
	refs, err := s.cart(uid).DocumentRefs(ctx).GetAll()
	if err != nil {
		return err
	}
	bw := s.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			return err
		}
	}
	bw.End()
	return nil
}

func (s *Store) Favorites(ctx context.Context, uid string) ([]models.Favorite, error) {
	snaps, err := s.favorites(uid).OrderBy("addedAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	favorites := make([]models.Favorite, 0, len(snaps))
	for _, snap := range snaps {
		var doc favoriteDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		favorites = append(favorites, doc.model(snap.Ref.ID))
	}
	return favorites, nil
}

func (s *Store) FindFavoriteByProduct(ctx context.Context, uid, productID string) (*models.Favorite, error) {
	snaps, err := s.favorites(uid).Where("productId", "==", productID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	var doc favoriteDoc
	if err := snaps[0].DataTo(&doc); err != nil {
		return nil, err
	}
	f := doc.model(snaps[0].Ref.ID)
	return &f, nil
}

func (s *Store) AddFavorite(ctx context.Context, f *models.Favorite) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.AddedAt = s.now()
	_, err := s.favorites(f.UserID).Doc(f.ID).Create(ctx, favoriteDoc{
		UserID:    f.UserID,
		ProductID: f.ProductID,
		Name:      f.Name,
		ImageURL:  f.ImageURL,
		Price:     f.Price.InexactFloat64(),
		Category:  f.Category,
		AddedAt:   f.AddedAt,
	})
	return err
}

func (s *Store) RemoveFavorite(ctx context.Context, uid, favoriteID string) (bool, error) {
	ref := s.favorites(uid).Doc(favoriteID)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return false, err
	}
	return true, nil
}
