package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/photo"
	"github.com/egannguyen/go-car-showroom/internal/repository"
	"github.com/egannguyen/go-car-showroom/internal/repository/memory"
)

type published struct {
	topic string
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, key: key, event: event})
	return p.err
}

type failingLedger struct {
	repository.PurchaseRepository
}

func (failingLedger) Append(context.Context, entity.Purchase) error {
	return errors.New("ledger offline")
}

func newTestService(t *testing.T) (*ShowroomService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewShowroomService(memory.NewCarRepository(), memory.NewPurchaseRepository(), pub)
	require.NoError(t, svc.Seed(context.Background(), DefaultCars()))
	return svc, pub
}

func carByModel(t *testing.T, svc *ShowroomService, model string) entity.Car {
	t.Helper()
	cars, err := svc.ListCars(context.Background())
	require.NoError(t, err)
	for _, c := range cars {
		if c.Model == model {
			return c
		}
	}
	t.Fatalf("car %q not found", model)
	return entity.Car{}
}

func TestSeed(t *testing.T) {
	svc, _ := newTestService(t)
	cars, err := svc.ListCars(context.Background())
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, "Toyota Camry", cars[0].Model)
	assert.Equal(t, "25000", cars[0].Price)
	assert.Equal(t, "Honda Civic", cars[1].Model)
	for _, c := range cars {
		assert.Equal(t, entity.StatusAvailable, c.Status)
	}
}

func TestAddCar(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t)

	car, err := svc.AddCar(ctx, entity.AddCar{Model: "Mazda 3", Price: "21000"}, photo.Resolved("data:image/png;base64,AA=="))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAvailable, car.Status)
	assert.Equal(t, "data:image/png;base64,AA==", car.Photo)

	cars, _ := svc.ListCars(ctx)
	require.Len(t, cars, 3)
	assert.Equal(t, car.ID, cars[2].ID)

	require.Len(t, pub.events, 1)
	assert.IsType(t, entity.CarAdded{}, pub.events[0].event)
}

func TestAddCarValidation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t)

	for _, cmd := range []entity.AddCar{
		{Model: "", Price: "1"},
		{Model: "Mazda", Price: ""},
		{},
	} {
		_, err := svc.AddCar(ctx, cmd, nil)
		assert.ErrorIs(t, err, entity.ErrValidation)
		assert.Equal(t, entity.MsgFillAllFields, entity.UserMessage(err))
	}

	cars, _ := svc.ListCars(ctx)
	assert.Len(t, cars, 2)
	assert.Empty(t, pub.events)
}

func TestAddCarAcceptsBlankButNonEmptyFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	car, err := svc.AddCar(ctx, entity.AddCar{Model: " ", Price: "100"}, nil)
	require.NoError(t, err)
	assert.Equal(t, " ", car.Model)

	cars, _ := svc.ListCars(ctx)
	assert.Len(t, cars, 3)
}

func TestAddCarPhotoFailureLeavesInventory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	failed := photo.Go(func() (string, error) { return "", errors.New("corrupt") })
	_, err := svc.AddCar(ctx, entity.AddCar{Model: "Mazda", Price: "1"}, failed)
	assert.Error(t, err)

	cars, _ := svc.ListCars(ctx)
	assert.Len(t, cars, 2)
}

func TestEditCar(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	updated, err := svc.EditCar(ctx, entity.EditCar{CarID: civic.ID, Model: "Civic Type R", Price: "40000"}, photo.Resolved("data:x"))
	require.NoError(t, err)
	assert.Equal(t, civic.ID, updated.ID)
	assert.Equal(t, "Civic Type R", updated.Model)
	assert.Equal(t, "data:x", updated.Photo)

	again, err := svc.EditCar(ctx, entity.EditCar{CarID: civic.ID, Model: "Civic", Price: "39000"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "data:x", again.Photo, "photo kept when none supplied")

	cars, _ := svc.ListCars(ctx)
	assert.Equal(t, civic.ID, cars[1].ID, "edit keeps position")
}

func TestEditCarKeepsStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	_, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io"})
	require.NoError(t, err)

	updated, err := svc.EditCar(ctx, entity.EditCar{CarID: civic.ID, Model: "Civic 2024", Price: "1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSold, updated.Status)

	purchases, _ := svc.ListPurchases(ctx)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Honda Civic", purchases[0].CarModel, "ledger keeps the model at purchase time")
}

func TestEditCarAcceptsEmptyFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	updated, err := svc.EditCar(ctx, entity.EditCar{CarID: civic.ID}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Model)
}

func TestEditCarNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.EditCar(context.Background(), entity.EditCar{CarID: "missing", Model: "x", Price: "1"}, nil)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDeleteCarConfirmation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t)
	camry := carByModel(t, svc, "Toyota Camry")

	_, deleted, err := svc.DeleteCar(ctx, camry.ID, nil)
	var ce *entity.ConfirmationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Do you want to delete Toyota Camry?", ce.Prompt)
	assert.False(t, deleted)

	var asked string
	decline := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		asked = prompt
		return false, nil
	})
	_, deleted, err = svc.DeleteCar(ctx, camry.ID, decline)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Do you want to delete Toyota Camry?", asked)

	cars, _ := svc.ListCars(ctx)
	assert.Len(t, cars, 2)
	assert.Empty(t, pub.events)

	accept := ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	_, deleted, err = svc.DeleteCar(ctx, camry.ID, accept)
	require.NoError(t, err)
	assert.True(t, deleted)

	cars, _ = svc.ListCars(ctx)
	require.Len(t, cars, 1)
	assert.Equal(t, "Honda Civic", cars[0].Model)
	require.Len(t, pub.events, 1)
	assert.IsType(t, entity.CarDeleted{}, pub.events[0].event)
}

func TestDeleteCarNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	accept := ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	_, _, err := svc.DeleteCar(context.Background(), "missing", accept)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestBuyCar(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	p, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io", PaymentMethod: "Paypal"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "Honda Civic", p.CarModel)
	assert.Equal(t, entity.PaymentPaypal, p.PaymentMethod)

	assert.Equal(t, entity.StatusSold, carByModel(t, svc, "Honda Civic").Status)
	purchases, _ := svc.ListPurchases(ctx)
	assert.Len(t, purchases, 1)
	require.Len(t, pub.events, 1)
	assert.IsType(t, entity.CarPurchased{}, pub.events[0].event)
}

func TestBuyCarTwiceFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	_, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io"})
	require.NoError(t, err)
	_, err = svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Bob", Email: "b@x.io"})
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	purchases, _ := svc.ListPurchases(ctx)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Alice", purchases[0].Name)
}

func TestBuyCarValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	for _, cmd := range []entity.BuyCar{
		{CarID: civic.ID, Name: "", Email: "a@x.io"},
		{CarID: civic.ID, Name: "Alice", Email: ""},
		{CarID: civic.ID},
	} {
		_, err := svc.BuyCar(ctx, cmd)
		assert.ErrorIs(t, err, entity.ErrValidation)
		assert.Equal(t, entity.MsgFillAllFields, entity.UserMessage(err))
	}
	_, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io", PaymentMethod: "Barter"})
	assert.ErrorIs(t, err, entity.ErrValidation)

	assert.Equal(t, entity.StatusAvailable, carByModel(t, svc, "Honda Civic").Status)
	purchases, _ := svc.ListPurchases(ctx)
	assert.Empty(t, purchases)
}

func TestBuyCarAcceptsBlankButNonEmptyFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	p, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: " ", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, " ", p.Name)
	assert.Equal(t, entity.StatusSold, carByModel(t, svc, "Honda Civic").Status)
}

func TestBuyCarDefaultsPaymentMethod(t *testing.T) {
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	p, err := svc.BuyCar(context.Background(), entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCreditCard, p.PaymentMethod)
}

func TestBuyCarLedgerFailureRestoresCar(t *testing.T) {
	ctx := context.Background()
	cars := memory.NewCarRepository()
	svc := NewShowroomService(cars, failingLedger{memory.NewPurchaseRepository()}, nil)
	require.NoError(t, svc.Seed(ctx, DefaultCars()))
	civic := carByModel(t, svc, "Honda Civic")

	_, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io"})
	assert.Error(t, err)
	assert.Equal(t, entity.StatusAvailable, carByModel(t, svc, "Honda Civic").Status)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t)
	pub.err = errors.New("broker down")

	_, err := svc.AddCar(ctx, entity.AddCar{Model: "Mazda", Price: "1"}, nil)
	require.NoError(t, err)
	cars, _ := svc.ListCars(ctx)
	assert.Len(t, cars, 3)
}

func TestDeleteKeepsPurchaseRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	civic := carByModel(t, svc, "Honda Civic")

	_, err := svc.BuyCar(ctx, entity.BuyCar{CarID: civic.ID, Name: "Alice", Email: "a@x.io"})
	require.NoError(t, err)
	accept := ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	_, _, err = svc.DeleteCar(ctx, civic.ID, accept)
	require.NoError(t, err)

	purchases, _ := svc.ListPurchases(ctx)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Honda Civic", purchases[0].CarModel)
}
