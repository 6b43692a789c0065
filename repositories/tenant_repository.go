package repositories

import (
	"context"
	"strconv"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type TenantRepository interface {
	// Create attaches a tenant to an unoccupied unit. The backend rejects
	// an occupied one with a conflict; callers only offer this operation
	// for units whose Tenant field is nil.
	Create(ctx context.Context, req dtos.TenantCreateRequest) (*models.Tenant, error)

	Update(ctx context.Context, id int64, req dtos.TenantUpdateRequest) (*models.Tenant, error)
	Delete(ctx context.Context, id int64) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type tenantRepo struct {
	api *apiclient.Client
}

func NewTenantRepository(api *apiclient.Client) TenantRepository {
	return &tenantRepo{api: api}
}

func (r *tenantRepo) Create(ctx context.Context, req dtos.TenantCreateRequest) (*models.Tenant, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var out models.Tenant
	if err := r.api.Post(ctx, routeTenants, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tenantRepo) Update(ctx context.Context, id int64, req dtos.TenantUpdateRequest) (*models.Tenant, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var out models.Tenant
	if err := r.api.Put(ctx, routeTenants+"/"+strconv.FormatInt(id, 10), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tenantRepo) Delete(ctx context.Context, id int64) error {
	var ack dtos.MessageResponse
	return r.api.Delete(ctx, routeTenants+"/"+strconv.FormatInt(id, 10), &ack)
}
