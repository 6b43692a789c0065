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

type UnitRepository interface {
	Create(ctx context.Context, req dtos.UnitCreateRequest) (*models.Unit, error)
	Update(ctx context.Context, id int64, req dtos.UnitUpdateRequest) (*models.Unit, error)

	// Delete removes the unit and, server-side, its tenant with it.
	Delete(ctx context.Context, id int64) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type unitRepo struct {
	api *apiclient.Client
}

func NewUnitRepository(api *apiclient.Client) UnitRepository {
	return &unitRepo{api: api}
}

func (r *unitRepo) Create(ctx context.Context, req dtos.UnitCreateRequest) (*models.Unit, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var out models.Unit
	if err := r.api.Post(ctx, routeUnits, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *unitRepo) Update(ctx context.Context, id int64, req dtos.UnitUpdateRequest) (*models.Unit, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var out models.Unit
	if err := r.api.Put(ctx, routeUnits+"/"+strconv.FormatInt(id, 10), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *unitRepo) Delete(ctx context.Context, id int64) error {
	var ack dtos.MessageResponse
	return r.api.Delete(ctx, routeUnits+"/"+strconv.FormatInt(id, 10), &ack)
}
