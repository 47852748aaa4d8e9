package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/messaging"
	"github.com/egannguyen/go-car-showroom/internal/photo"
	"github.com/egannguyen/go-car-showroom/internal/repository"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// DefaultCars is the inventory a fresh showroom starts with.
func DefaultCars() []entity.Car {
	return []entity.Car{
		entity.NewCar("Toyota Camry", "25000", ""),
		entity.NewCar("Honda Civic", "22000", ""),
	}
}

// ShowroomService orchestrates the inventory store and purchase ledger.
type ShowroomService struct {
	carRepo      repository.CarRepository
	purchaseRepo repository.PurchaseRepository
	publisher    messaging.Publisher
	now          func() time.Time
}

func NewShowroomService(
	carRepo repository.CarRepository,
	purchaseRepo repository.PurchaseRepository,
	publisher messaging.Publisher,
) *ShowroomService {
	return &ShowroomService{
		carRepo:      carRepo,
		purchaseRepo: purchaseRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// Seed fills an empty inventory with cars.
func (s *ShowroomService) Seed(ctx context.Context, cars []entity.Car) error {
	if err := s.carRepo.Seed(ctx, cars); err != nil {
		return fmt.Errorf("failed to seed cars: %w", err)
	}
	return nil
}

// ListCars returns the inventory in insertion order.
func (s *ShowroomService) ListCars(ctx context.Context) ([]entity.Car, error) {
	return s.carRepo.FindAll(ctx)
}

// GetCar returns a single car or entity.ErrNotFound.
func (s *ShowroomService) GetCar(ctx context.Context, id string) (entity.Car, error) {
	return s.carRepo.FindByID(ctx, id)
}

// ListPurchases returns the ledger in purchase order.
func (s *ShowroomService) ListPurchases(ctx context.Context) ([]entity.Purchase, error) {
	return s.purchaseRepo.FindAll(ctx)
}

// AddCar lists a new Available car. The photo, if any, is awaited before the
// car is stored; a failed or cancelled photo leaves the inventory untouched.
func (s *ShowroomService) AddCar(ctx context.Context, cmd entity.AddCar, ph *photo.Future) (entity.Car, error) {
	if cmd.Model == "" || cmd.Price == "" {
		return entity.Car{}, entity.NewValidationError(entity.MsgFillAllFields)
	}

	ref, _, err := ph.Await(ctx)
	if err != nil {
		return entity.Car{}, fmt.Errorf("failed to capture photo: %w", err)
	}

	car := entity.NewCar(cmd.Model, cmd.Price, ref)
	if err := s.carRepo.Add(ctx, car); err != nil {
		return entity.Car{}, fmt.Errorf("failed to add car: %w", err)
	}

	slog.Info("🚗 Car added", "car_id", car.ID, "model", car.Model)
	s.publish(ctx, messaging.TopicCars, car.ID, entity.CarAdded{Car: car, AddedAt: s.now()})
	return car, nil
}

// EditCar overwrites model and price, and the photo only when a new one was
// supplied. Status and id never change here.
func (s *ShowroomService) EditCar(ctx context.Context, cmd entity.EditCar, ph *photo.Future) (entity.Car, error) {
	car, err := s.carRepo.FindByID(ctx, cmd.CarID)
	if err != nil {
		return entity.Car{}, err
	}

	ref, supplied, err := ph.Await(ctx)
	if err != nil {
		return entity.Car{}, fmt.Errorf("failed to capture photo: %w", err)
	}

	car.Model = cmd.Model
	car.Price = cmd.Price
	if supplied {
		car.Photo = ref
	}
	if err := s.carRepo.Update(ctx, car); err != nil {
		return entity.Car{}, fmt.Errorf("failed to update car: %w", err)
	}

	slog.Info("✏️ Car updated", "car_id", car.ID, "model", car.Model)
	s.publish(ctx, messaging.TopicCars, car.ID, entity.CarUpdated{Car: car, UpdatedAt: s.now()})
	return car, nil
}

// DeletePrompt is the confirmation question for deleting car.
func DeletePrompt(car entity.Car) string {
	return fmt.Sprintf("Do you want to delete %s?", car.Model)
}

// DeleteCar removes a car after confirm approves it. The boolean result is
// false when the user declined.
func (s *ShowroomService) DeleteCar(ctx context.Context, id string, confirm Confirmer) (entity.Car, bool, error) {
	car, err := s.carRepo.FindByID(ctx, id)
	if err != nil {
		return entity.Car{}, false, err
	}

	if confirm == nil {
		return car, false, &entity.ConfirmationError{Prompt: DeletePrompt(car)}
	}
	ok, err := confirm.Confirm(ctx, DeletePrompt(car))
	if err != nil {
		return car, false, err
	}
	if !ok {
		slog.Info("Delete cancelled", "car_id", car.ID)
		return car, false, nil
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		return car, false, err
	}

	slog.Info("🗑️ Car deleted", "car_id", car.ID, "model", car.Model)
	s.publish(ctx, messaging.TopicCars, car.ID, entity.CarDeleted{CarID: car.ID, Model: car.Model, DeletedAt: s.now()})
	return car, true, nil
}

// BuyCar records a purchase and marks the car Sold. Buying a car that is no
// longer Available fails with entity.ErrInvalidTransition.
func (s *ShowroomService) BuyCar(ctx context.Context, cmd entity.BuyCar) (entity.Purchase, error) {
	car, err := s.carRepo.FindByID(ctx, cmd.CarID)
	if err != nil {
		return entity.Purchase{}, err
	}
	if !car.IsAvailable() {
		return entity.Purchase{}, fmt.Errorf("buy %s: %w", car.Model, entity.ErrInvalidTransition)
	}

	if cmd.Name == "" || cmd.Email == "" {
		return entity.Purchase{}, entity.NewValidationError(entity.MsgFillAllFields)
	}
	method, err := entity.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return entity.Purchase{}, err
	}

	if err := car.MarkSold(); err != nil {
		return entity.Purchase{}, err
	}

	purchase := entity.Purchase{
		ID:            uuid.NewString(),
		CarID:         car.ID,
		Name:          cmd.Name,
		Email:         cmd.Email,
		CarModel:      car.Model,
		PaymentMethod: method,
		PurchasedAt:   s.now(),
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return entity.Purchase{}, fmt.Errorf("failed to mark car sold: %w", err)
	}
	if err := s.purchaseRepo.Append(ctx, purchase); err != nil {
		car.Status = entity.StatusAvailable
		if rbErr := s.carRepo.Update(ctx, car); rbErr != nil {
			slog.Error("Failed to restore car after ledger error", "car_id", car.ID, "err", rbErr)
		}
		return entity.Purchase{}, fmt.Errorf("failed to record purchase: %w", err)
	}

	slog.Info("✅ Car purchased", "car_id", car.ID, "model", car.Model, "payment", method)
	s.publish(ctx, messaging.TopicPurchases, purchase.ID, entity.CarPurchased{Purchase: purchase})
	return purchase, nil
}

// publish never fails the caller: the mutation already happened.
func (s *ShowroomService) publish(ctx context.Context, topic, key string, event entity.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, topic, key, event); err != nil {
		slog.Error("Failed to publish event", "type", event.EventType(), "key", key, "err", err)
	}
}
