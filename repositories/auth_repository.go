package repositories

import (
	"context"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type AuthRepository interface {
	// Login exchanges credentials for a bearer token. It does not touch the
	// session; the caller decides what to do with the token.
	Login(ctx context.Context, req dtos.LoginRequest) (string, error)

	Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.RegisteredUser, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type authRepo struct {
	api *apiclient.Client
}

func NewAuthRepository(api *apiclient.Client) AuthRepository {
	return &authRepo{api: api}
}

func (r *authRepo) Login(ctx context.Context, req dtos.LoginRequest) (string, error) {
	if err := checkPayload(req); err != nil {
		return "", err
	}

	var resp dtos.LoginResponse
	if err := r.api.Post(ctx, routeLogin, req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (r *authRepo) Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.RegisteredUser, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var user dtos.RegisteredUser
	if err := r.api.Post(ctx, routeRegister, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
