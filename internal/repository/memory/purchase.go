package memory

import (
	"context"
	"sync"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/repository"
)

type purchaseRepository struct {
	mu        sync.RWMutex
	purchases []entity.Purchase
}

// NewPurchaseRepository creates an empty in-memory purchase ledger.
func NewPurchaseRepository() repository.PurchaseRepository {
	return &purchaseRepository{}
}

func (r *purchaseRepository) Append(ctx context.Context, p entity.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purchases = append(r.purchases, p)
	return nil
}

func (r *purchaseRepository) FindAll(ctx context.Context) ([]entity.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	purchases := make([]entity.Purchase, len(r.purchases))
	copy(purchases, r.purchases)
	return purchases, nil
}
