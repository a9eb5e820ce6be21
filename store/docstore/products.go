package docstore

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	doc := toProductDoc(p)
	doc.UpdatedAt = now
	_, err := s.client.Collection(colProducts).Doc(p.ID).Create(ctx, doc)
	return err
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	snap, err := s.client.Collection(colProducts).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var doc productDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	p := doc.model(snap.Ref.ID)
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.client.Collection(colProducts).Doc(p.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: p.Name},
		{Path: "description", Value: p.Description},
		{Path: "originalPrice", Value: p.OriginalPrice.InexactFloat64()},
		{Path: "discountedPrice", Value: p.DiscountedPrice.InexactFloat64()},
		{Path: "category", Value: p.Category},
		{Path: "categorySlug", Value: p.CategorySlug},
		{Path: "quantity", Value: p.Quantity},
		{Path: "status", Value: string(p.Status)},
		{Path: "imageUrl", Value: p.ImageURL},
		{Path: "updatedAt", Value: s.now()},
	})
	if err != nil {
		return notFound(err)
	}
	fresh, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	ref := s.client.Collection(colProducts).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return notFound(err)
	}
	_, err := ref.Delete(ctx)
	return err
}

func (s *Store) allProducts(ctx context.Context, categorySlug string) ([]models.Product, error) {
	q := s.client.Collection(colProducts).Query
	if categorySlug != "" {
		q = q.Where("categorySlug", "==", categorySlug)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(snaps))
	for _, snap := range snaps {
		var doc productDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		products = append(products, doc.model(snap.Ref.ID))
	}
	return products, nil
}

// ListProducts narrows by category in the query and applies search, price bounds and
// ordering in memory; Firestore cannot match substrings or order by a derived price.
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) (models.PageResult[models.Product], error) {
	products, err := s.allProducts(ctx, f.CategorySlug)
	if err != nil {
		return models.PageResult[models.Product]{}, err
	}
	return paginate(filterProducts(products, f), f.Page), nil
}

func filterProducts(products []models.Product, f models.ProductFilter) []models.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := products[:0]
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		price := p.EffectivePrice()
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case models.SortPriceAsc:
			if !a.EffectivePrice().Equal(b.EffectivePrice()) {
				return a.EffectivePrice().LessThan(b.EffectivePrice())
			}
			return a.Name < b.Name
		case models.SortPriceDesc:
			if !a.EffectivePrice().Equal(b.EffectivePrice()) {
				return a.EffectivePrice().GreaterThan(b.EffectivePrice())
			}
			return a.Name < b.Name
		case models.SortName:
			return a.Name < b.Name
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	})
	return out
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	products, err := s.allProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	bySlug := map[string]*models.Category{}
	for _, p := range products {
		if p.CategorySlug == "" {
			continue
		}
		c, ok := bySlug[p.CategorySlug]
		if !ok {
			c = &models.Category{Name: p.Category, Slug: p.CategorySlug}
			bySlug[p.CategorySlug] = c
		}
		c.Count++
	}
	categories := make([]models.Category, 0, len(bySlug))
	for _, c := range bySlug {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}
