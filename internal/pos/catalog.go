package pos

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/catalog"
)

// AddProduct creates a product.
func (s *Service) AddProduct(ctx context.Context, in catalog.ProductInput) (bakery.Product, error) {
	var p bakery.Product
	err := s.mutate(ctx, "AddProduct", func(st *bakery.State) error {
		var err error
		p, err = catalog.AddProduct(st, in)
		return err
	}, attribute.String("product_id", in.ID))
	if err != nil {
		return bakery.Product{}, err
	}
	s.logger.Info("product added", slog.String("product_id", p.ID))
	return p, nil
}

// AddProductWithRecipe creates a product and its recipe together. A zero
// price is replaced by the suggested price at the configured markup.
func (s *Service) AddProductWithRecipe(ctx context.Context, in catalog.ProductInput, edges []catalog.EdgeInput) (bakery.Product, error) {
	var p bakery.Product
	err := s.mutate(ctx, "AddProductWithRecipe", func(st *bakery.State) error {
		var err error
		p, err = catalog.AddProductWithRecipe(st, in, edges, s.cfg.MarkupPct)
		return err
	}, attribute.String("product_id", in.ID))
	if err != nil {
		return bakery.Product{}, err
	}
	s.logger.Info("product added", slog.String("product_id", p.ID), slog.Int("recipe_lines", len(edges)), slog.String("price", p.Price.String()))
	return p, nil
}

// UpdateProduct rewrites a product.
func (s *Service) UpdateProduct(ctx context.Context, in catalog.ProductInput) (bakery.Product, error) {
	var p bakery.Product
	err := s.mutate(ctx, "UpdateProduct", func(st *bakery.State) error {
		var err error
		p, err = catalog.UpdateProduct(st, in)
		return err
	}, attribute.String("product_id", in.ID))
	if err != nil {
		return bakery.Product{}, err
	}
	s.logger.Info("product updated", slog.String("product_id", p.ID))
	return p, nil
}

// DeleteProduct removes a product and its recipe. Past order items keep
// referring to it.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	err := s.mutate(ctx, "DeleteProduct", func(st *bakery.State) error {
		return catalog.DeleteProduct(st, id)
	}, attribute.String("product_id", id))
	if err == nil {
		s.logger.Info("product deleted", slog.String("product_id", id))
	}
	return err
}

// AddMaterial creates a material.
func (s *Service) AddMaterial(ctx context.Context, in catalog.MaterialInput) (bakery.Material, error) {
	var m bakery.Material
	err := s.mutate(ctx, "AddMaterial", func(st *bakery.State) error {
		var err error
		m, err = catalog.AddMaterial(st, in)
		return err
	}, attribute.String("material_id", in.ID))
	if err != nil {
		return bakery.Material{}, err
	}
	s.logger.Info("material added", slog.String("material_id", m.ID))
	return m, nil
}

// RenameMaterial changes the name and unit of a material.
func (s *Service) RenameMaterial(ctx context.Context, id, name, unit string) (bakery.Material, error) {
	var m bakery.Material
	err := s.mutate(ctx, "RenameMaterial", func(st *bakery.State) error {
		var err error
		m, err = catalog.RenameMaterial(st, id, name, unit)
		return err
	}, attribute.String("material_id", id))
	return m, err
}

// DeleteMaterial removes a material no recipe uses.
func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	err := s.mutate(ctx, "DeleteMaterial", func(st *bakery.State) error {
		return catalog.DeleteMaterial(st, id)
	}, attribute.String("material_id", id))
	if err == nil {
		s.logger.Info("material deleted", slog.String("material_id", id))
	}
	return err
}

// SetRecipe replaces the bill of materials of a product.
func (s *Service) SetRecipe(ctx context.Context, productID string, edges []catalog.EdgeInput) ([]bakery.RecipeEdge, error) {
	var out []bakery.RecipeEdge
	err := s.mutate(ctx, "SetRecipe", func(st *bakery.State) error {
		var err error
		out, err = catalog.SetRecipe(st, productID, edges)
		return err
	}, attribute.String("product_id", productID))
	if err != nil {
		return nil, err
	}
	s.logger.Info("recipe replaced", slog.String("product_id", productID), slog.Int("lines", len(out)))
	return out, nil
}
