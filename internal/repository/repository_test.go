package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/egannguyen/go-car-showroom/internal/entity"
)

func TestPreferenceEncodeDecode(t *testing.T) {
	p := entity.Preference{Role: entity.RoleAdmin, RoleSet: true}
	kv := EncodePreference(p)

	assert.Equal(t, "admin", kv[KeyRole])
	assert.Equal(t, "1", kv[KeyRoleSet])
	assert.Equal(t, p, DecodePreference(kv))
}

func TestDecodePreferenceDefaults(t *testing.T) {
	assert.Equal(t, entity.Preference{Role: entity.RoleClient}, DecodePreference(nil))
	assert.Equal(t,
		entity.Preference{Role: entity.RoleClient, RoleSet: true},
		DecodePreference(map[string]string{KeyRole: "superuser", KeyRoleSet: "1"}),
	)
}
