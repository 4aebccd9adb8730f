package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// CatalogListKey caches the product listing.
const CatalogListKey = "catalog:products"

// ErrUnknownCategory is returned when a product names a missing category.
var ErrUnknownCategory = errors.New("catalog: unknown category")

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name        string
	CategoryID  uint
	Code        string
	Description string
	Price       decimal.Decimal
}

// Upload is an image sent with a product form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// CatalogService reads and writes products, their images and the cached
// listing.
type CatalogService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	cache      cache.Store
	ttl        time.Duration
	disk       storage.Disk
	uploadPath string
	events     *event.Dispatcher
}

func NewCatalogService(
	products *repositories.ProductRepository,
	categories *repositories.CategoryRepository,
	store cache.Store,
	ttl time.Duration,
	disk storage.Disk,
	uploadPath string,
	events *event.Dispatcher,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      store,
		ttl:        ttl,
		disk:       disk,
		uploadPath: uploadPath,
		events:     events,
	}
}

// List returns every product ordered by name, from the cache when warm.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return cache.Remember(ctx, s.cache, CatalogListKey, s.ttl, func() ([]models.Product, error) {
		return s.products.All(ctx)
	})
}

// Find returns one product or repositories.ErrNotFound.
func (s *CatalogService) Find(ctx context.Context, id uint) (models.Product, error) {
	return s.products.Find(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.ProductCategory, error) {
	return s.categories.All(ctx)
}

// ImageURL returns the public URL of a product image, or "" when it has none.
func (s *CatalogService) ImageURL(image string) string {
	if image == "" {
		return ""
	}
	return s.disk.URL(s.imagePath(image))
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput, img *Upload) (models.Product, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, err
	}

	p := models.Product{}
	apply(&p, in)
	if img != nil {
		p.Image = s.saveImage(ctx, p.Code, img)
	}

	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("catalog: create: %w", err)
	}
	s.changed(ctx, p.ID, "created")
	return p, nil
}

// Update overwrites a product. A new image, or dropImage, removes the old
// image file first.
func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput, img *Upload, dropImage bool) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, err
	}

	apply(&p, in)
	if (img != nil || dropImage) && p.Image != "" {
		s.deleteImage(ctx, p.Image)
		p.Image = ""
	}
	if img != nil {
		p.Image = s.saveImage(ctx, p.Code, img)
	}

	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("catalog: update %d: %w", id, err)
	}
	s.changed(ctx, p.ID, "updated")
	return p, nil
}

// Delete soft-deletes a product and removes its image file.
func (s *CatalogService) Delete(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return models.Product{}, err
	}
	if p.Image != "" {
		s.deleteImage(ctx, p.Image)
	}
	s.changed(ctx, p.ID, "deleted")
	return p, nil
}

func apply(p *models.Product, in ProductInput) {
	p.Name = in.Name
	p.CategoryID = in.CategoryID
	p.Code = in.Code
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.Category = models.ProductCategory{}
}

func (s *CatalogService) checkCategory(ctx context.Context, id uint) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("catalog: category lookup: %w", err)
	}
	if !ok {
		return ErrUnknownCategory
	}
	return nil
}

func (s *CatalogService) imagePath(name string) string {
	return path.Join(s.uploadPath, name)
}

// saveImage stores img as "{code}-{filename}" made path-safe and returns the
// stored name, or "" when nothing was stored.
func (s *CatalogService) saveImage(ctx context.Context, code string, img *Upload) string {
	name := storage.SafeName(code + "-" + img.Filename)
	if img.Filename == "" || name == "" {
		return ""
	}
	if err := s.disk.Put(ctx, s.imagePath(name), img.Body); err != nil {
		logger.WithCtx(ctx).Warn("catalog: image not saved", "file", name, "error", err)
		return ""
	}
	return name
}

func (s *CatalogService) deleteImage(ctx context.Context, name string) {
	if err := s.disk.Delete(ctx, s.imagePath(name)); err != nil {
		logger.WithCtx(ctx).Warn("catalog: image not deleted", "file", name, "error", err)
	}
}

func (s *CatalogService) changed(ctx context.Context, id uint, action string) {
	if err := s.cache.Delete(ctx, CatalogListKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog: listing cache not invalidated", "error", err)
	}
	s.events.Fire(event.ProductChanged, ProductChanged{ProductID: id, Action: action})
}

// ProductChanged is the payload of event.ProductChanged.
type ProductChanged struct {
	ProductID uint
	Action    string
}
