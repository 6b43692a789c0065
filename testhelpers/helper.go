package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/repositories"
	"github.com/imobly/go-core/session"
	"github.com/imobly/go-core/storage"
	"github.com/imobly/go-core/viewmodel"
)

// Default seeded credentials.
const (
	UserName     = "Maria Silva"
	UserEmail    = "maria@example.com"
	UserPassword = "senha123"
)

// TestHelper wires the whole client stack against a fresh FakeBackend, the
// way both apps wire it at startup. Every test gets its own backend and its
// own in-memory store.
type TestHelper struct {
	T       *testing.T
	Ctx     context.Context
	Backend *FakeBackend
	Store   *storage.MemStore
	Session *session.Manager
	API     *apiclient.Client

	UserID int64

	Auth       repositories.AuthRepository
	Properties repositories.PropertyRepository
	Units      repositories.UnitRepository
	Tenants    repositories.TenantRepository
	VM         *viewmodel.PortfolioViewModel
}

func NewTestHelper(t *testing.T) *TestHelper {
	h := &TestHelper{
		T:       t,
		Ctx:     context.Background(),
		Backend: NewFakeBackend(),
		Store:   storage.NewMemStore(),
	}
	t.Cleanup(h.Backend.Close)

	h.UserID = h.Backend.AddUser(UserName, UserEmail, UserPassword)
	h.Session = session.NewManager(h.Store)

	api, err := apiclient.New(apiclient.Config{
		BaseURL:       h.Backend.URL(),
		Timeout:       5 * time.Second,
		Tokens:        h.Session,
		OnAuthFailure: h.Session.Invalidate,
	})
	require.NoError(t, err)
	h.API = api

	h.Auth = repositories.NewAuthRepository(api)
	h.Properties = repositories.NewPropertyRepository(api)
	h.Units = repositories.NewUnitRepository(api)
	h.Tenants = repositories.NewTenantRepository(api)
	h.VM = viewmodel.NewPortfolioViewModel(h.Properties, h.Units, h.Tenants)
	return h
}

// Login authenticates the seeded user and establishes the session.
func (h *TestHelper) Login() {
	token, err := h.Auth.Login(h.Ctx, dtos.LoginRequest{
		Email:    UserEmail,
		Password: UserPassword,
	})
	require.NoError(h.T, err)
	require.NoError(h.T, h.Session.Login(token))
}
