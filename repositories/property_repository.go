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

type PropertyRepository interface {
	// List returns property summaries without nested units.
	List(ctx context.Context) ([]models.Property, error)

	// Get returns one property with its units and their tenants.
	Get(ctx context.Context, id int64) (*models.Property, error)

	Create(ctx context.Context, req dtos.PropertyCreateRequest) (*models.Property, error)
	Update(ctx context.Context, id int64, req dtos.PropertyCreateRequest) (*models.Property, error)

	// Delete removes the property. The cascade to units and tenants is
	// server-authoritative; callers re-fetch instead of assuming it.
	Delete(ctx context.Context, id int64) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	api *apiclient.Client
}

func NewPropertyRepository(api *apiclient.Client) PropertyRepository {
	return &propertyRepo{api: api}
}

func (r *propertyRepo) List(ctx context.Context) ([]models.Property, error) {
	var out []models.Property
	if err := r.api.Get(ctx, routeProperties, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *propertyRepo) Get(ctx context.Context, id int64) (*models.Property, error) {
	var out models.Property
	if err := r.api.Get(ctx, routeProperties+"/"+strconv.FormatInt(id, 10), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *propertyRepo) Create(ctx context.Context, req dtos.PropertyCreateRequest) (*models.Property, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var out models.Property
	if err := r.api.Post(ctx, routeProperties, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *propertyRepo) Update(ctx context.Context, id int64, req dtos.PropertyCreateRequest) (*models.Property, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var out models.Property
	if err := r.api.Put(ctx, routeProperties+"/"+strconv.FormatInt(id, 10), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *propertyRepo) Delete(ctx context.Context, id int64) error {
	var ack dtos.MessageResponse
	return r.api.Delete(ctx, routeProperties+"/"+strconv.FormatInt(id, 10), &ack)
}
