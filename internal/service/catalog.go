package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/models"
)

const searchLimit = 50

type ProductInput struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Stock          *int             `json:"stock"`
	Image          string           `json:"image"`
	CategoryID     *uint            `json:"category_id"`
	BrandID        *uint            `json:"brand_id"`
	Specifications string           `json:"specifications"`
	Pros           string           `json:"pros"`
	Cons           string           `json:"cons"`
}

type CatalogService struct {
	db     *gorm.DB
	cache  CatalogCache
	index  ProductIndex
	images ImageStore
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) WithCache(c CatalogCache) *CatalogService {
	s.cache = c
	return s
}

func (s *CatalogService) WithIndex(i ProductIndex) *CatalogService {
	s.index = i
	return s
}

func (s *CatalogService) WithImages(st ImageStore) *CatalogService {
	s.images = st
	return s
}

// products selects products with their category and brand names joined in.
func (s *CatalogService) products(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, categories.name AS category_name, brands.name AS brand_name").
		Joins("LEFT JOIN categories ON categories.category_id = products.category_id").
		Joins("LEFT JOIN brands ON brands.brand_id = products.brand_id")
}

// --- Reads ---

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if s.cache != nil && s.cache.Get(ctx, cache.ProductsKey, &products) {
		return products, nil
	}

	if err := s.products(ctx).Order("products.product_id").Scan(&products).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cache.ProductsKey, products)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var products []models.Product
	if err := s.products(ctx).Where("products.product_id = ?", id).Limit(1).Scan(&products).Error; err != nil {
		return models.Product{}, err
	}
	if len(products) == 0 {
		return models.Product{}, notFound("product")
	}
	return products[0], nil
}

// ProductsByCategory returns an empty slice, never ErrNotFound, for unknown or empty categories.
func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	products := []models.Product{}
	err := s.products(ctx).Where("products.category_id = ?", categoryID).Order("products.name ASC").Scan(&products).Error
	return products, err
}

func (s *CatalogService) ProductsByBrand(ctx context.Context, brandID uint) ([]models.Product, error) {
	products := []models.Product{}
	err := s.products(ctx).Where("products.brand_id = ?", brandID).Order("products.name ASC").Scan(&products).Error
	return products, err
}

// Search asks the search index first and falls back to a LIKE query when it is absent or failing.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ValidationError("search query is required")
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, query, searchLimit)
		if err == nil {
			return s.productsInOrder(ctx, ids)
		}
		log.Printf("⚠️ Search index failed, falling back to SQL: %v", err)
	}

	pattern := "%" + strings.ToLower(query) + "%"
	products := []models.Product{}
	err := s.products(ctx).
		Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ? OR LOWER(brands.name) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("products.name ASC").
		Limit(searchLimit).
		Scan(&products).Error
	return products, err
}

func (s *CatalogService) productsInOrder(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := s.products(ctx).Where("products.product_id IN ?", ids).Scan(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if s.cache != nil && s.cache.Get(ctx, cache.CategoriesKey, &categories) {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cache.CategoriesKey, categories)
	}
	return categories, nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands := []models.Brand{}
	if s.cache != nil && s.cache.Get(ctx, cache.BrandsKey, &brands) {
		return brands, nil
	}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cache.BrandsKey, brands)
	}
	return brands, nil
}

// --- Product writes ---

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if in.CategoryID == nil || in.BrandID == nil {
		return models.Product{}, ValidationError("missing required fields: name, price, stock, category_id, brand_id")
	}
	p, err := s.validateProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Product{}, err
	}

	log.Printf("✅ Product %d created: %s", p.ID, p.Name)
	s.catalogChanged(ctx)
	s.reindex(p.ID)
	return p, nil
}

// UpdateProduct replaces every editable field, like the PUT it serves.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	var existing models.Product
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, notFound("product")
		}
		return models.Product{}, err
	}

	p, err := s.validateProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}

	err = s.db.WithContext(ctx).Model(&existing).Select(
		"Name", "Description", "Price", "Stock", "Image", "CategoryID", "BrandID", "Specifications", "Pros", "Cons",
	).Updates(p).Error
	if err != nil {
		return models.Product{}, err
	}

	s.catalogChanged(ctx)
	s.reindex(id)
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("product")
	}

	log.Printf("🗑️ Product %d deleted", id)
	s.catalogChanged(ctx)
	if s.index != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.index.Delete(ctx, id); err != nil {
				log.Printf("⚠️ Could not remove product %d from the index: %v", id, err)
			}
		}()
	}
	return nil
}

func (s *CatalogService) SetProductImage(ctx context.Context, id uint, filename string, r io.Reader, size int64) (string, error) {
	if s.images == nil {
		return "", newError(ErrUnavailable, "image storage is not configured")
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return "", err
	}

	url, err := s.images.PutProductImage(ctx, id, filename, r, size)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("product_id = ?", id).Update("image", url).Error; err != nil {
		return "", err
	}

	s.catalogChanged(ctx)
	s.reindex(id)
	return url, nil
}

func (s *CatalogService) validateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == nil || in.Stock == nil {
		return models.Product{}, ValidationError("missing required fields: name, price, stock, category_id, brand_id")
	}
	if in.Price.IsNegative() {
		return models.Product{}, ValidationError("price must not be negative")
	}
	if *in.Stock < 0 {
		return models.Product{}, ValidationError("stock must not be negative")
	}
	if in.CategoryID != nil {
		if err := s.mustExist(ctx, &models.Category{}, "category_id", *in.CategoryID, "category"); err != nil {
			return models.Product{}, err
		}
	}
	if in.BrandID != nil {
		if err := s.mustExist(ctx, &models.Brand{}, "brand_id", *in.BrandID, "brand"); err != nil {
			return models.Product{}, err
		}
	}

	return models.Product{
		Name:           name,
		Description:    in.Description,
		Price:          in.Price.Round(2),
		Stock:          *in.Stock,
		Image:          in.Image,
		CategoryID:     in.CategoryID,
		BrandID:        in.BrandID,
		Specifications: in.Specifications,
		Pros:           in.Pros,
		Cons:           in.Cons,
	}, nil
}

func (s *CatalogService) mustExist(ctx context.Context, model any, column string, id uint, what string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ValidationError("%s %d does not exist", what, id)
	}
	return nil
}

// --- Category & brand writes ---

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, ValidationError("category name is required")
	}
	c := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Category{}, err
	}
	s.catalogChanged(ctx)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, ValidationError("category name is required")
	}
	res := s.db.WithContext(ctx).Model(&models.Category{}).Where("category_id = ?", id).Update("name", name)
	if res.Error != nil {
		return models.Category{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Category{}, notFound("category")
	}
	s.catalogChanged(ctx)

	var c models.Category
	return c, s.db.WithContext(ctx).First(&c, id).Error
}

// DeleteCategory leaves its products in place with a null category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("category")
	}
	s.catalogChanged(ctx)
	return nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (models.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Brand{}, ValidationError("brand name is required")
	}
	b := models.Brand{Name: name}
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		return models.Brand{}, err
	}
	s.catalogChanged(ctx)
	return b, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, name string) (models.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Brand{}, ValidationError("brand name is required")
	}
	res := s.db.WithContext(ctx).Model(&models.Brand{}).Where("brand_id = ?", id).Update("name", name)
	if res.Error != nil {
		return models.Brand{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Brand{}, notFound("brand")
	}
	s.catalogChanged(ctx)

	var b models.Brand
	return b, s.db.WithContext(ctx).First(&b, id).Error
}

// DeleteBrand leaves its products in place with a null brand.
func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Brand{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("brand")
	}
	s.catalogChanged(ctx)
	return nil
}

// catalogChanged drops every cached listing; names are denormalised into the product list.
func (s *CatalogService) catalogChanged(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.ProductsKey, cache.CategoriesKey, cache.BrandsKey)
	}
}

// reindex pushes the product to the search index in the background.
func (s *CatalogService) reindex(id uint) {
	if s.index == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		p, err := s.GetProduct(ctx, id)
		if err != nil {
			log.Printf("⚠️ Could not load product %d for indexing: %v", id, err)
			return
		}
		if err := s.index.Index(ctx, p); err != nil {
			log.Printf("⚠️ Could not index product %d: %v", id, err)
		}
	}()
}
