package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/repository"
)

type carRepository struct {
	mu   sync.RWMutex
	cars []entity.Car
}

// NewCarRepository creates an empty in-memory CarRepository.
func NewCarRepository() repository.CarRepository {
	return &carRepository{}
}

func (r *carRepository) FindAll(ctx context.Context) ([]entity.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cars := make([]entity.Car, len(r.cars))
	copy(cars, r.cars)
	return cars, nil
}

func (r *carRepository) FindByID(ctx context.Context, id string) (entity.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return entity.Car{}, fmt.Errorf("car %s: %w", id, entity.ErrNotFound)
	}
	return r.cars[i], nil
}

func (r *carRepository) Add(ctx context.Context, car entity.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if car.ID == "" {
		return fmt.Errorf("car has no id")
	}
	if r.indexOf(car.ID) >= 0 {
		return fmt.Errorf("car %s already exists", car.ID)
	}
	r.cars = append(r.cars, car)
	return nil
}

func (r *carRepository) Update(ctx context.Context, car entity.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(car.ID)
	if i < 0 {
		return fmt.Errorf("car %s: %w", car.ID, entity.ErrNotFound)
	}
	r.cars[i] = car
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("car %s: %w", id, entity.ErrNotFound)
	}
	r.cars = append(r.cars[:i], r.cars[i+1:]...)
	return nil
}

func (r *carRepository) Seed(ctx context.Context, cars []entity.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.cars) > 0 {
		return nil // already seeded
	}
	r.cars = append(r.cars, cars...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *carRepository) indexOf(id string) int {
	for i, c := range r.cars {
		if c.ID == id {
			return i
		}
	}
	return -1
}
