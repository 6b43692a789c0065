package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitStatusDerivedFromTenantPresence(t *testing.T) {
	u := Unit{ID: 1, PropertyID: 1, Label: "101", Rent: 1200}
	assert.Equal(t, UnitStatusAvailable, u.Status())
	assert.False(t, u.Occupied())

	u.Tenant = &Tenant{ID: 2, UnitID: 1, Name: "João", CPF: "12345678900", LeaseStart: "2026-01-01"}
	assert.Equal(t, UnitStatusRented, u.Status())
	assert.True(t, u.Occupied())
}

func TestUnitStatusIgnoresDriftedStoredValue(t *testing.T) {
	// The stored column can lag behind tenant mutations; derivation must not
	// trust it in either direction.
	withTenant := Unit{
		RawStatus: UnitStatusAvailable,
		Tenant:    &Tenant{ID: 1, UnitID: 1, Name: "Ana", CPF: "987", LeaseStart: "2026-02-01"},
	}
	assert.Equal(t, UnitStatusRented, withTenant.Status())

	vacant := Unit{RawStatus: UnitStatusRented}
	assert.Equal(t, UnitStatusAvailable, vacant.Status())
}

func TestPropertyUnitByID(t *testing.T) {
	p := Property{Units: []Unit{{ID: 10}, {ID: 20}}}

	u, ok := p.UnitByID(20)
	assert.True(t, ok)
	assert.Equal(t, int64(20), u.ID)

	_, ok = p.UnitByID(99)
	assert.False(t, ok)
}
