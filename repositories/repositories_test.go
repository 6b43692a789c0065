package repositories_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/models"
	"github.com/imobly/go-core/testhelpers"
)

func TestLoginReturnsToken(t *testing.T) {
	h := testhelpers.NewTestHelper(t)

	token, err := h.Auth.Login(h.Ctx, dtos.LoginRequest{
		Email:    testhelpers.UserEmail,
		Password: testhelpers.UserPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	h := testhelpers.NewTestHelper(t)

	_, err := h.Auth.Login(h.Ctx, dtos.LoginRequest{
		Email:    testhelpers.UserEmail,
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apiclient.ErrAuthExpired)
}

func TestRegisterValidatesBeforeNetwork(t *testing.T) {
	h := testhelpers.NewTestHelper(t)

	_, err := h.Auth.Register(h.Ctx, dtos.RegisterRequest{Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Zero(t, h.Backend.CountRequests(http.MethodPost, "/api/auth/registro"))
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	h := testhelpers.NewTestHelper(t)

	_, err := h.Auth.Register(h.Ctx, dtos.RegisterRequest{
		Name:     "Maria Clone",
		Email:    testhelpers.UserEmail,
		Password: "outrasenha",
	})
	assert.ErrorIs(t, err, apiclient.ErrConflict)
}

func TestPropertyCRUD(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()

	created, err := h.Properties.Create(h.Ctx, dtos.PropertyCreateRequest{
		Name:    "Edifício A",
		Address: "Avenida Paulista 1000",
		City:    "São Paulo",
		State:   "SP",
		CEP:     "01310100",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	list, err := h.Properties.List(h.Ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Edifício A", list[0].Name)
	assert.Nil(t, list[0].Units, "list endpoint returns summaries")

	got, err := h.Properties.Get(h.Ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.NotNil(t, got.Units)

	updated, err := h.Properties.Update(h.Ctx, created.ID, dtos.PropertyCreateRequest{
		Name:    "Edifício A Renovado",
		Address: "Avenida Paulista 1000",
		City:    "São Paulo",
		State:   "SP",
	})
	require.NoError(t, err)
	assert.Equal(t, "Edifício A Renovado", updated.Name)

	require.NoError(t, h.Properties.Delete(h.Ctx, created.ID))
	_, err = h.Properties.Get(h.Ctx, created.ID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestPropertyCreateValidation(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()

	cases := []dtos.PropertyCreateRequest{
		{Address: "Rua X", City: "Santos", State: "SP"},          // missing name
		{Name: "P", City: "Santos", State: "SP"},                 // missing address
		{Name: "P", Address: "Rua X", State: "SP"},               // missing city
		{Name: "P", Address: "Rua X", City: "Santos"},            // missing state
		{Name: "P", Address: "Rua X", City: "Santos", State: "SPX"}, // 3-letter state
	}
	for _, req := range cases {
		_, err := h.Properties.Create(h.Ctx, req)
		assert.ErrorIs(t, err, apiclient.ErrValidation, "request %+v", req)
	}
	assert.Zero(t, h.Backend.CountRequests(http.MethodPost, "/api/imoveis"))
}

func TestUnitCreateRejectsNonPositiveRent(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Casa", "Rua A", "Santos", "SP", "")

	for _, rent := range []float64{0, -100} {
		_, err := h.Units.Create(h.Ctx, dtos.UnitCreateRequest{
			PropertyID: propID,
			Label:      "101",
			Rent:       rent,
		})
		assert.ErrorIs(t, err, apiclient.ErrValidation, "rent %v", rent)
	}
	assert.Zero(t, h.Backend.CountRequests(http.MethodPost, "/api/unidades"))
}

func TestUnitDuplicateLabelIsConflict(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Casa", "Rua A", "Santos", "SP", "")
	h.Backend.AddUnit(propID, "101", 1500)

	_, err := h.Units.Create(h.Ctx, dtos.UnitCreateRequest{
		PropertyID: propID,
		Label:      "101",
		Rent:       2000,
	})
	assert.ErrorIs(t, err, apiclient.ErrConflict)
}

func TestUnitDeleteNotFound(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()

	err := h.Units.Delete(h.Ctx, 424242)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestTenantCreateValidation(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()

	cases := []dtos.TenantCreateRequest{
		{UnitID: 1, CPF: "123", LeaseStart: "2026-01-01"},                       // missing name
		{UnitID: 1, Name: "João", LeaseStart: "2026-01-01"},                     // missing cpf
		{UnitID: 1, Name: "João", CPF: "123"},                                   // missing lease start
		{UnitID: 1, Name: "João", CPF: "123", LeaseStart: "01/01/2026"},         // wrong date shape
		{UnitID: 1, Name: "João", CPF: "123", LeaseStart: "2026-01-01", Email: "nope"}, // bad email
	}
	for _, req := range cases {
		_, err := h.Tenants.Create(h.Ctx, req)
		assert.ErrorIs(t, err, apiclient.ErrValidation, "request %+v", req)
	}
	assert.Zero(t, h.Backend.CountRequests(http.MethodPost, "/api/locatarios"))
}

func TestTenantCreateOnOccupiedUnitIsConflict(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Casa", "Rua A", "Santos", "SP", "")
	unitID := h.Backend.AddUnit(propID, "101", 1500)
	h.Backend.AddTenant(unitID, "João", "12345678900", "2026-01-01")

	_, err := h.Tenants.Create(h.Ctx, dtos.TenantCreateRequest{
		UnitID:     unitID,
		Name:       "Pedro",
		CPF:        "98765432100",
		LeaseStart: "2026-02-01",
	})
	assert.ErrorIs(t, err, apiclient.ErrConflict)
}

func TestTenantLifecycleUpdatesDerivedStatus(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Casa", "Rua A", "Santos", "SP", "")
	unitID := h.Backend.AddUnit(propID, "101", 1500)

	tenant, err := h.Tenants.Create(h.Ctx, dtos.TenantCreateRequest{
		UnitID:     unitID,
		Name:       "João",
		CPF:        "12345678900",
		Phone:      "11999990000",
		LeaseStart: "2026-01-01",
	})
	require.NoError(t, err)

	prop, err := h.Properties.Get(h.Ctx, propID)
	require.NoError(t, err)
	unit, ok := prop.UnitByID(unitID)
	require.True(t, ok)
	require.NotNil(t, unit.Tenant)
	assert.Equal(t, models.UnitStatusRented, unit.Status())

	require.NoError(t, h.Tenants.Delete(h.Ctx, tenant.ID))

	prop, err = h.Properties.Get(h.Ctx, propID)
	require.NoError(t, err)
	unit, ok = prop.UnitByID(unitID)
	require.True(t, ok)
	assert.Nil(t, unit.Tenant)
	assert.Equal(t, models.UnitStatusAvailable, unit.Status())
}
