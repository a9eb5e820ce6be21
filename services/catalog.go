package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

type ProductInput struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Quantity        int             `json:"quantity"`
	Status          string          `json:"status"`
	ImageURL        string          `json:"imageUrl"`
}

type CatalogService struct {
	products store.ProductStore
}

func NewCatalogService(products store.ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) List(ctx context.Context, f models.ProductFilter) (models.PageResult[models.Product], error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return models.PageResult[models.Product]{}, invalid("minPrice is greater than maxPrice")
	}
	f.CategorySlug = models.Slugify(f.CategorySlug)
	return s.products.ListProducts(ctx, f)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.products.Categories(ctx)
}

func (in ProductInput) apply(p *models.Product) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("name is required")
	}
	if !in.OriginalPrice.IsPositive() {
		return invalid("originalPrice must be greater than 0")
	}
	if in.DiscountedPrice.IsNegative() {
		return invalid("discountedPrice cannot be negative")
	}
	if in.Quantity < 0 {
		return invalid("quantity cannot be negative")
	}
	status := models.ProductInStock
	if in.Status != "" {
		parsed, err := models.ParseProductStatus(in.Status)
		if err != nil {
			return invalid("%v: %q", err, in.Status)
		}
		status = parsed
	}

	category := strings.TrimSpace(in.Category)
	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Category = category
	p.CategorySlug = models.Slugify(category)
	p.OriginalPrice = in.OriginalPrice.Round(2)
	p.DiscountedPrice = in.DiscountedPrice.Round(2)
	p.Quantity = in.Quantity
	p.Status = status
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	return nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}

var sheetHeaders = []string{
	"ID", "Name", "Description", "Category", "OriginalPrice", "DiscountedPrice",
	"Quantity", "Status", "ImageURL", "CreatedAt", "UpdatedAt",
}

// ExportXLSX writes every product as one sheet in the layout ImportXLSX reads.
func (s *CatalogService) ExportXLSX(ctx context.Context, w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, h := range sheetHeaders {
		header.AddCell().SetString(h)
	}

	for page := 1; ; page++ {
		res, err := s.products.ListProducts(ctx, models.ProductFilter{Sort: models.SortName, Page: models.Page{Page: page, Limit: models.MaxPageSize}})
		if err != nil {
			return err
		}
		for _, p := range res.Items {
			row := sheet.AddRow()
			row.AddCell().SetString(p.ID)
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Description)
			row.AddCell().SetString(p.Category)
			row.AddCell().SetString(p.OriginalPrice.StringFixed(2))
			row.AddCell().SetString(p.DiscountedPrice.StringFixed(2))
			row.AddCell().SetInt(p.Quantity)
			row.AddCell().SetString(string(p.Status))
			row.AddCell().SetString(p.ImageURL)
			row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		if int64(page*res.Limit) >= res.Total || len(res.Items) == 0 {
			break
		}
	}
	return file.Write(w)
}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportXLSX upserts products from the first sheet. Rows with an ID that exists are updated,
// everything else is created; invalid rows are skipped and reported by row number.
func (s *CatalogService) ImportXLSX(ctx context.Context, r io.ReaderAt, size int64) (ImportResult, error) {
	var result ImportResult
	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return result, invalid("not a readable xlsx file")
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return result, invalid("sheet is empty or missing header row")
	}

	sheet := xlFile.Sheets[0]
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil {
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}
		if get(1) == "" && get(0) == "" {
			continue
		}

		in, err := rowInput(get)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		if id := get(0); id != "" {
			_, err := s.Update(ctx, id, in)
			if err == nil {
				result.Updated++
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
		}
		if _, err := s.Create(ctx, in); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}
	log.Info().Int("created", result.Created).Int("updated", result.Updated).Int("skipped", result.Skipped).
		Msg("product import finished")
	return result, nil
}

func rowInput(get func(int) string) (ProductInput, error) {
	in := ProductInput{
		Name:        get(1),
		Description: get(2),
		Category:    get(3),
		Status:      get(7),
		ImageURL:    get(8),
	}
	var err error
	if in.OriginalPrice, err = decimal.NewFromString(get(4)); err != nil {
		return in, fmt.Errorf("originalPrice %q", get(4))
	}
	if raw := get(5); raw != "" {
		if in.DiscountedPrice, err = decimal.NewFromString(raw); err != nil {
			return in, fmt.Errorf("discountedPrice %q", raw)
		}
	}
	if raw := get(6); raw != "" {
		qty, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, fmt.Errorf("quantity %q", raw)
		}
		in.Quantity = int(qty)
	}
	return in, nil
}
