package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(ref string) error
}

type CatalogService struct {
	store  repository.Store
	images ImageStore
	log    *slog.Logger
}

func NewCatalogService(store repository.Store, images ImageStore, log *slog.Logger) *CatalogService {
	return &CatalogService{store: store, images: images, log: log}
}

func (s *CatalogService) List(ctx context.Context, p auth.Principal) ([]models.Product, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	var products []models.Product
	err := s.store.View(ctx, func(r repository.Repos) error {
		var err error
		products, err = r.Products.List(ctx)
		return err
	})
	return products, err
}

func (s *CatalogService) Get(ctx context.Context, p auth.Principal, id int64) (models.Product, error) {
	if err := requireUser(p); err != nil {
		return models.Product{}, err
	}
	var prod models.Product
	err := s.store.View(ctx, func(r repository.Repos) error {
		var err error
		prod, err = r.Products.GetByID(ctx, id)
		return notFound(err, "product", id)
	})
	return prod, err
}

// AddProduct stores the image, then the product. The image is removed again
// if the product cannot be saved.
func (s *CatalogService) AddProduct(ctx context.Context, p auth.Principal, in models.NewProduct, filename string, image io.Reader) (models.Product, error) {
	if err := requireManager(p); err != nil {
		return models.Product{}, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Product{}, err
	}
	if image == nil || filename == "" {
		return models.Product{}, models.Invalid("image", "required")
	}

	ref, err := s.images.Save(filename, image)
	if err != nil {
		return models.Product{}, err
	}

	prod := in.Product()
	prod.ImageRef = ref
	err = s.store.Update(ctx, func(r repository.Repos) error {
		return r.Products.Create(ctx, &prod)
	})
	if err != nil {
		if rmErr := s.images.Remove(ref); rmErr != nil {
			s.log.Warn("orphaned product image", "image", ref, "error", rmErr)
		}
		return models.Product{}, err
	}

	s.log.Info("product added", "product_id", prod.ID, "name", prod.Name, "manager_id", p.UserID)
	return prod, nil
}

// DeleteProduct removes the product and its cart entries. Historic order
// lines keep pointing at the deleted id.
func (s *CatalogService) DeleteProduct(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireManager(p); err != nil {
		return err
	}

	var ref string
	err := s.store.Update(ctx, func(r repository.Repos) error {
		prod, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "product", id)
		}
		ref = prod.ImageRef
		return notFound(r.Products.Delete(ctx, id), "product", id)
	})
	if err != nil {
		return err
	}

	if err := s.images.Remove(ref); err != nil {
		s.log.Warn("could not remove product image", "product_id", id, "image", ref, "error", err)
	}
	s.log.Info("product deleted", "product_id", id, "manager_id", p.UserID)
	return nil
}
