package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/models"
	"github.com/imobly/go-core/repositories"
	"github.com/imobly/go-core/utils"
)

// PortfolioViewModel keeps the flat property list and one focused property
// detail consistent with the backend across mutations. Both presentation
// layers render straight from its snapshots.
//
// The model never patches nested collections locally: every mutation waits
// for the backend's acknowledgement and then re-fetches whatever that
// mutation could have changed, so server-derived fields (unit status, the
// delete cascade) can never drift.
type PortfolioViewModel struct {
	properties repositories.PropertyRepository
	units      repositories.UnitRepository
	tenants    repositories.TenantRepository

	// OnChange, when set, runs after every applied state change. Views use
	// it to re-render; it must not call back into the view model.
	OnChange func()

	mu        sync.Mutex
	list      []models.Property
	focusedID int64
	focused   *models.Property
}

func NewPortfolioViewModel(
	properties repositories.PropertyRepository,
	units repositories.UnitRepository,
	tenants repositories.TenantRepository,
) *PortfolioViewModel {
	return &PortfolioViewModel{
		properties: properties,
		units:      units,
		tenants:    tenants,
	}
}

/* ------------------------------------------------------------------
   Snapshots
------------------------------------------------------------------ */

// Properties returns the current flat list.
func (vm *PortfolioViewModel) Properties() []models.Property {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]models.Property, len(vm.list))
	copy(out, vm.list)
	return out
}

// Focused returns the detail view's property, if one is selected and loaded.
func (vm *PortfolioViewModel) Focused() (*models.Property, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.focused == nil {
		return nil, false
	}
	cp := *vm.focused
	cp.Units = make([]models.Unit, len(vm.focused.Units))
	copy(cp.Units, vm.focused.Units)
	return &cp, true
}

// FocusedID returns the selected property id, or false when unfocused.
func (vm *PortfolioViewModel) FocusedID() (int64, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.focusedID, vm.focusedID != 0
}

/* ------------------------------------------------------------------
   Focus transitions
------------------------------------------------------------------ */

// Refresh re-fetches the flat property list.
func (vm *PortfolioViewModel) Refresh(ctx context.Context) error {
	list, err := vm.properties.List(ctx)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.list = list
	vm.mu.Unlock()
	vm.changed()
	return nil
}

// Select focuses a property and loads its detail.
func (vm *PortfolioViewModel) Select(ctx context.Context, id int64) error {
	vm.mu.Lock()
	vm.focusedID = id
	vm.focused = nil
	vm.mu.Unlock()
	vm.changed()

	return vm.loadDetail(ctx, id)
}

// ClearSelection drops the focus; only the list remains relevant.
func (vm *PortfolioViewModel) ClearSelection() {
	vm.mu.Lock()
	vm.focusedID = 0
	vm.focused = nil
	vm.mu.Unlock()
	vm.changed()
}

// loadDetail fetches one property and applies the result only if that id is
// still the focus when the response lands. A stale response for a property
// the user has already navigated away from is discarded whole.
func (vm *PortfolioViewModel) loadDetail(ctx context.Context, id int64) error {
	prop, err := vm.properties.Get(ctx, id)

	vm.mu.Lock()
	if vm.focusedID != id {
		vm.mu.Unlock()
		utils.Logger.Debugf("Discarding stale detail refresh for property %d", id)
		return nil
	}

	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			// Vanished server-side; fall back to the list.
			vm.focusedID = 0
			vm.focused = nil
			vm.mu.Unlock()
			vm.changed()
			return err
		}
		vm.mu.Unlock()
		return err
	}

	vm.focused = prop
	vm.mu.Unlock()
	vm.changed()
	return nil
}

// refreshFocused reloads the detail view after a nested mutation.
func (vm *PortfolioViewModel) refreshFocused(ctx context.Context) error {
	vm.mu.Lock()
	id := vm.focusedID
	vm.mu.Unlock()
	if id == 0 {
		return nil
	}
	return vm.loadDetail(ctx, id)
}

/* ------------------------------------------------------------------
   Property mutations
------------------------------------------------------------------ */

func (vm *PortfolioViewModel) CreateProperty(ctx context.Context, req dtos.PropertyCreateRequest) (*models.Property, error) {
	created, err := vm.properties.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := vm.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (vm *PortfolioViewModel) UpdateProperty(ctx context.Context, id int64, req dtos.PropertyCreateRequest) (*models.Property, error) {
	updated, err := vm.properties.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := vm.Refresh(ctx); err != nil {
		return updated, err
	}
	vm.mu.Lock()
	focused := vm.focusedID == id
	vm.mu.Unlock()
	if focused {
		if err := vm.refreshFocused(ctx); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func (vm *PortfolioViewModel) DeleteProperty(ctx context.Context, id int64) error {
	if err := vm.properties.Delete(ctx, id); err != nil {
		return err
	}

	vm.mu.Lock()
	if vm.focusedID == id {
		vm.focusedID = 0
		vm.focused = nil
	}
	vm.mu.Unlock()
	vm.changed()

	return vm.Refresh(ctx)
}

/* ------------------------------------------------------------------
   Unit mutations
------------------------------------------------------------------ */

func (vm *PortfolioViewModel) CreateUnit(ctx context.Context, req dtos.UnitCreateRequest) (*models.Unit, error) {
	created, err := vm.units.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := vm.refreshFocused(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (vm *PortfolioViewModel) UpdateUnit(ctx context.Context, id int64, req dtos.UnitUpdateRequest) (*models.Unit, error) {
	updated, err := vm.units.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := vm.refreshFocused(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (vm *PortfolioViewModel) DeleteUnit(ctx context.Context, id int64) error {
	if err := vm.units.Delete(ctx, id); err != nil {
		return err
	}
	return vm.refreshFocused(ctx)
}

/* ------------------------------------------------------------------
   Tenant mutations
------------------------------------------------------------------ */

func (vm *PortfolioViewModel) CreateTenant(ctx context.Context, req dtos.TenantCreateRequest) (*models.Tenant, error) {
	// Occupancy is read off the unit's own tenant field, never a cached
	// flag. If the focused snapshot already shows a tenant there, refuse
	// before going to the network.
	vm.mu.Lock()
	if vm.focused != nil {
		if unit, ok := vm.focused.UnitByID(req.UnitID); ok && unit.Occupied() {
			vm.mu.Unlock()
			return nil, fmt.Errorf("%w: unit %d already has a tenant", apiclient.ErrConflict, req.UnitID)
		}
	}
	vm.mu.Unlock()

	created, err := vm.tenants.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := vm.refreshFocused(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (vm *PortfolioViewModel) UpdateTenant(ctx context.Context, id int64, req dtos.TenantUpdateRequest) (*models.Tenant, error) {
	updated, err := vm.tenants.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := vm.refreshFocused(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (vm *PortfolioViewModel) DeleteTenant(ctx context.Context, id int64) error {
	if err := vm.tenants.Delete(ctx, id); err != nil {
		return err
	}
	return vm.refreshFocused(ctx)
}

func (vm *PortfolioViewModel) changed() {
	if vm.OnChange != nil {
		vm.OnChange()
	}
}
