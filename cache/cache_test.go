package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store/gormstore"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProductCacheTestSuite struct {
	suite.Suite
	ctx   context.Context
	mr    *miniredis.Miniredis
	db    *gormstore.Store
	cache *ProductCache
}

func TestProductCacheTestSuite(t *testing.T) {
	suite.Run(t, new(ProductCacheTestSuite))
}

func (s *ProductCacheTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mr = miniredis.RunT(s.T())
	db, err := gormstore.OpenSQLite(uuid.NewString())
	s.Require().NoError(err)
	s.db = db
	rdb := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.cache = NewProductCache(db, rdb, time.Minute)
}

func (s *ProductCacheTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *ProductCacheTestSuite) seed(name string) *models.Product {
	p := &models.Product{Name: name, Category: "Skincare", CategorySlug: "skincare", OriginalPrice: decimal.NewFromInt(25), Quantity: 3, Status: models.ProductInStock}
	s.Require().NoError(s.cache.CreateProduct(s.ctx, p))
	return p
}

func (s *ProductCacheTestSuite) TestGetProductReadsThrough() {
	p := s.seed("Toner")

	got, err := s.cache.GetProduct(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Toner", got.Name)
	s.True(s.mr.Exists(productKey(p.ID)))

	// A change behind the cache's back stays invisible until invalidated.
	s.Require().NoError(s.db.DB().Model(&models.Product{}).Where("id = ?", p.ID).Update("name", "Renamed").Error)
	got, err = s.cache.GetProduct(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Toner", got.Name)

	s.cache.Invalidate(s.ctx, p.ID)
	got, err = s.cache.GetProduct(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
}

func (s *ProductCacheTestSuite) TestWritesRetireListings() {
	s.seed("Toner")
	res, err := s.cache.ListProducts(s.ctx, models.ProductFilter{})
	s.Require().NoError(err)
	s.EqualValues(1, res.Total)

	s.seed("Serum")
	res, err = s.cache.ListProducts(s.ctx, models.ProductFilter{})
	s.Require().NoError(err)
	s.EqualValues(2, res.Total)

	categories, err := s.cache.Categories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.EqualValues(2, categories[0].Count)
}

func (s *ProductCacheTestSuite) TestRedisOutageFallsThrough() {
	p := s.seed("Toner")
	s.mr.Close()

	got, err := s.cache.GetProduct(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)
}
