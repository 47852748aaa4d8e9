package repository

import (
	"context"

	"github.com/egannguyen/go-car-showroom/internal/entity"
)

// CarRepository is the inventory store: an ordered collection of cars.
type CarRepository interface {
	FindAll(ctx context.Context) ([]entity.Car, error)
	// FindByID returns entity.ErrNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (entity.Car, error)
	Add(ctx context.Context, car entity.Car) error
	// Update replaces the stored car with the same id, keeping its position.
	Update(ctx context.Context, car entity.Car) error
	Delete(ctx context.Context, id string) error
	// Seed inserts initial cars if none exist.
	Seed(ctx context.Context, cars []entity.Car) error
}

// PurchaseRepository is the append-only purchase ledger.
type PurchaseRepository interface {
	Append(ctx context.Context, p entity.Purchase) error
	FindAll(ctx context.Context) ([]entity.Purchase, error)
}

// PreferenceStore persists the role preference across restarts.
type PreferenceStore interface {
	// Load returns the default preference (client, never set) when nothing
	// was saved yet.
	Load(ctx context.Context) (entity.Preference, error)
	Save(ctx context.Context, p entity.Preference) error
	Close() error
}

// Keys under which the preference is persisted.
const (
	KeyRole    = "role"
	KeyRoleSet = "roleSet"
)

// EncodePreference flattens a preference into its persisted key/value pairs.
func EncodePreference(p entity.Preference) map[string]string {
	kv := map[string]string{KeyRole: string(p.Role)}
	if p.RoleSet {
		kv[KeyRoleSet] = "1"
	} else {
		kv[KeyRoleSet] = ""
	}
	return kv
}

// DecodePreference is the inverse of EncodePreference. Missing or unknown
// values fall back to the defaults.
func DecodePreference(kv map[string]string) entity.Preference {
	p := entity.Preference{
		Role:    entity.Role(kv[KeyRole]),
		RoleSet: kv[KeyRoleSet] != "",
	}
	return p.Normalize()
}
