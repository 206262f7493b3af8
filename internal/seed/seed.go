// Package seed loads the admin account and the sample catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"farm-catalog/internal/auth"
	"farm-catalog/internal/models"
	"farm-catalog/internal/store"

	"go.uber.org/zap"
)

var ErrMissingAdmin = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must both be set")

func price(v float64) *float64 { return &v }

// SampleProducts is the starter catalog.
func SampleProducts() []*models.Product {
	return []*models.Product{
		models.NewProduct("Dorper Ram A", "Strong genetics, 2 years old.", models.CategoryRam, price(8000)),
		models.NewProduct("Dorper Ram B", "Healthy, well-conditioned.", models.CategoryRam, price(7800)),
		models.NewProduct("Pinto Beans - 50kg", "Fresh harvest.", models.CategoryBean, price(900)),
		models.NewProduct("Red Kidney Beans - 50kg", "Premium quality.", models.CategoryBean, price(950)),
	}
}

// Run upserts the admin account and inserts the sample products into an
// empty catalog. Running it twice changes nothing but the admin password.
func Run(ctx context.Context, st *store.Store, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		return ErrMissingAdmin
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin, err := st.UpsertAdmin(ctx, email, hash)
	if err != nil {
		return err
	}
	log.Info("Admin account ready", zap.String("email", admin.Email))

	n, err := st.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		log.Info("Products already seeded", zap.Int64("products", n))
		return nil
	}

	for _, p := range SampleProducts() {
		if err := st.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed %q: %w", p.Name, err)
		}
	}
	log.Info("Seeded sample products", zap.Int("products", len(SampleProducts())))
	return nil
}
