package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-car-showroom/internal/entity"
)

func TestCarRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCarRepository()

	camry := entity.NewCar("Toyota Camry", "25000", "")
	civic := entity.NewCar("Honda Civic", "22000", "")
	require.NoError(t, repo.Add(ctx, camry))
	require.NoError(t, repo.Add(ctx, civic))
	assert.Error(t, repo.Add(ctx, camry), "duplicate id")

	cars, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, camry.ID, cars[0].ID)
	assert.Equal(t, civic.ID, cars[1].ID)

	camry.Price = "24000"
	require.NoError(t, repo.Update(ctx, camry))
	got, err := repo.FindByID(ctx, camry.ID)
	require.NoError(t, err)
	assert.Equal(t, "24000", got.Price)

	cars, _ = repo.FindAll(ctx)
	assert.Equal(t, camry.ID, cars[0].ID, "update keeps position")

	require.NoError(t, repo.Delete(ctx, camry.ID))
	_, err = repo.FindByID(ctx, camry.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, camry.ID), entity.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, camry), entity.ErrNotFound)

	cars, _ = repo.FindAll(ctx)
	assert.Len(t, cars, 1)
}

func TestCarRepositoryFindAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewCarRepository()
	require.NoError(t, repo.Add(ctx, entity.NewCar("Civic", "22000", "")))

	cars, _ := repo.FindAll(ctx)
	cars[0].Model = "Changed"

	again, _ := repo.FindAll(ctx)
	assert.Equal(t, "Civic", again[0].Model)
}

func TestCarRepositorySeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewCarRepository()

	require.NoError(t, repo.Seed(ctx, []entity.Car{entity.NewCar("A", "1", "")}))
	require.NoError(t, repo.Seed(ctx, []entity.Car{entity.NewCar("B", "2", "")}))

	cars, _ := repo.FindAll(ctx)
	require.Len(t, cars, 1)
	assert.Equal(t, "A", cars[0].Model)
}

func TestPurchaseRepositoryAppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewPurchaseRepository()

	require.NoError(t, repo.Append(ctx, entity.Purchase{ID: "1", Name: "Alice", CarModel: "Civic"}))
	require.NoError(t, repo.Append(ctx, entity.Purchase{ID: "2", Name: "Bob", CarModel: "Camry"}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)
}

func TestPreferenceStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPreferenceStore()

	p, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Preference{Role: entity.RoleClient}, p)

	require.NoError(t, store.Save(ctx, entity.Preference{Role: entity.RoleAdmin, RoleSet: true}))
	p, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Preference{Role: entity.RoleAdmin, RoleSet: true}, p)
	assert.NoError(t, store.Close())
}
