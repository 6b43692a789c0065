package viewmodel_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/models"
	"github.com/imobly/go-core/repositories"
	"github.com/imobly/go-core/resolver"
	"github.com/imobly/go-core/testhelpers"
	"github.com/imobly/go-core/viewmodel"
)

func TestSelectLoadsDetail(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Edifício A", "Rua Augusta 100", "São Paulo", "SP", "")
	unitID := h.Backend.AddUnit(propID, "101", 1800)
	h.Backend.AddTenant(unitID, "João", "12345678900", "2026-01-01")

	require.NoError(t, h.VM.Refresh(h.Ctx))
	require.Len(t, h.VM.Properties(), 1)

	require.NoError(t, h.VM.Select(h.Ctx, propID))
	focused, ok := h.VM.Focused()
	require.True(t, ok)
	assert.Equal(t, "Edifício A", focused.Name)
	require.Len(t, focused.Units, 1)
	assert.Equal(t, models.UnitStatusRented, focused.Units[0].Status())
}

func TestDeleteLastUnitLeavesEmptyDetail(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Edifício A", "Rua Augusta 100", "São Paulo", "SP", "")
	unitID := h.Backend.AddUnit(propID, "101", 1800)
	h.Backend.AddTenant(unitID, "João", "12345678900", "2026-01-01")

	require.NoError(t, h.VM.Select(h.Ctx, propID))
	require.NoError(t, h.VM.DeleteUnit(h.Ctx, unitID))

	focused, ok := h.VM.Focused()
	require.True(t, ok)
	assert.Empty(t, focused.Units)
}

func TestDeleteFocusedPropertyClearsFocusAndList(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Edifício A", "Rua Augusta 100", "São Paulo", "SP", "")
	h.Backend.AddUnit(propID, "101", 1800)

	require.NoError(t, h.VM.Select(h.Ctx, propID))
	require.NoError(t, h.VM.DeleteProperty(h.Ctx, propID))

	_, ok := h.VM.Focused()
	assert.False(t, ok)
	_, ok = h.VM.FocusedID()
	assert.False(t, ok)
	assert.Empty(t, h.VM.Properties())
}

func TestDeleteUnfocusedPropertyKeepsFocus(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	keepID := h.Backend.AddProperty(h.UserID, "Mantido", "Rua A", "Santos", "SP", "")
	dropID := h.Backend.AddProperty(h.UserID, "Removido", "Rua B", "Santos", "SP", "")

	require.NoError(t, h.VM.Select(h.Ctx, keepID))
	require.NoError(t, h.VM.DeleteProperty(h.Ctx, dropID))

	id, ok := h.VM.FocusedID()
	require.True(t, ok)
	assert.Equal(t, keepID, id)
	require.Len(t, h.VM.Properties(), 1)
	assert.Equal(t, "Mantido", h.VM.Properties()[0].Name)
}

func TestCreateTenantRefusedLocallyForOccupiedUnit(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Edifício A", "Rua Augusta 100", "São Paulo", "SP", "")
	unitID := h.Backend.AddUnit(propID, "101", 1800)
	h.Backend.AddTenant(unitID, "João", "12345678900", "2026-01-01")

	require.NoError(t, h.VM.Select(h.Ctx, propID))

	before := h.Backend.CountRequests(http.MethodPost, "/api/locatarios")
	_, err := h.VM.CreateTenant(h.Ctx, dtos.TenantCreateRequest{
		UnitID:     unitID,
		Name:       "Pedro",
		CPF:        "98765432100",
		LeaseStart: "2026-02-01",
	})
	assert.ErrorIs(t, err, apiclient.ErrConflict)
	assert.Equal(t, before, h.Backend.CountRequests(http.MethodPost, "/api/locatarios"),
		"occupied unit must be refused before any network call")
}

func TestFocusedNotFoundFallsBackToList(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	propID := h.Backend.AddProperty(h.UserID, "Edifício A", "Rua Augusta 100", "São Paulo", "SP", "")

	require.NoError(t, h.VM.Select(h.Ctx, propID))

	// The property vanishes behind the client's back (another device).
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/imoveis/%d", h.Backend.URL(), propID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+h.Backend.IssueToken(testhelpers.UserEmail))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	err = h.VM.Select(h.Ctx, propID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
	_, ok := h.VM.Focused()
	assert.False(t, ok)
	_, ok = h.VM.FocusedID()
	assert.False(t, ok)
}

func TestCreatePropertyWithResolvedCEPSubmitsVerbatim(t *testing.T) {
	h := testhelpers.NewTestHelper(t)
	h.Login()
	h.Backend.AddCEP("01310100", "Avenida Paulista", "São Paulo", "SP")

	r := resolver.New(h.API)
	draft := resolver.AddressDraft{}
	outcome, err := r.Submit(h.Ctx, "01310-100", &draft)
	require.NoError(t, err)
	require.Equal(t, resolver.OutcomeApplied, outcome)

	_, err = h.VM.CreateProperty(h.Ctx, dtos.PropertyCreateRequest{
		Name:    "Edifício Paulista",
		Address: draft.Address,
		City:    draft.City,
		State:   draft.State,
		CEP:     draft.CEP,
	})
	require.NoError(t, err)

	var body dtos.PropertyCreateRequest
	for _, rec := range h.Backend.Requests() {
		if rec.Method == http.MethodPost && rec.Path == "/api/imoveis" {
			require.NoError(t, json.Unmarshal(rec.Body, &body))
		}
	}
	assert.Equal(t, "Avenida Paulista", body.Address)
	assert.Equal(t, "São Paulo", body.City)
	assert.Equal(t, "SP", body.State)
	assert.Equal(t, "01310100", body.CEP)
}

/* ------------------------------------------------------------------
   Stale-refresh guard
------------------------------------------------------------------ */

// gatedPropertyRepo lets a test stall Get responses per property id.
type gatedPropertyRepo struct {
	repositories.PropertyRepository

	mu    sync.Mutex
	gates map[int64]chan struct{}
	props map[int64]*models.Property
}

func newGatedPropertyRepo() *gatedPropertyRepo {
	return &gatedPropertyRepo{
		gates: make(map[int64]chan struct{}),
		props: make(map[int64]*models.Property),
	}
}

func (g *gatedPropertyRepo) add(p models.Property) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.props[p.ID] = &p
}

func (g *gatedPropertyRepo) hold(id int64) func() {
	gate := make(chan struct{})
	g.mu.Lock()
	g.gates[id] = gate
	g.mu.Unlock()
	return func() { close(gate) }
}

func (g *gatedPropertyRepo) List(_ context.Context) ([]models.Property, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Property, 0, len(g.props))
	for _, p := range g.props {
		out = append(out, *p)
	}
	return out, nil
}

func (g *gatedPropertyRepo) Get(_ context.Context, id int64) (*models.Property, error) {
	g.mu.Lock()
	gate := g.gates[id]
	p := g.props[id]
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if p == nil {
		return nil, apiclient.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func TestStaleDetailRefreshIsDiscarded(t *testing.T) {
	repo := newGatedPropertyRepo()
	repo.add(models.Property{ID: 1, Name: "Lento"})
	repo.add(models.Property{ID: 2, Name: "Rápido"})

	vm := viewmodel.NewPortfolioViewModel(repo, nil, nil)

	release := repo.hold(1)
	done := make(chan error, 1)
	go func() { done <- vm.Select(context.Background(), 1) }()

	// Give the first select time to get in flight, then move focus on.
	require.Eventually(t, func() bool {
		id, ok := vm.FocusedID()
		return ok && id == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, vm.Select(context.Background(), 2))

	release()
	require.NoError(t, <-done)

	focused, ok := vm.Focused()
	require.True(t, ok)
	assert.Equal(t, "Rápido", focused.Name, "stale response for property 1 must not win")
	id, _ := vm.FocusedID()
	assert.Equal(t, int64(2), id)
}
