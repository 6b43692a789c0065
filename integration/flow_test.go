package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/repositories"
	"github.com/imobly/go-core/session"
	"github.com/imobly/go-core/storage"
	"github.com/imobly/go-core/testhelpers"
	"github.com/imobly/go-core/viewmodel"
)

// buildStack wires the client core over a durable store the way the apps do
// at startup: restore first, then hand the session to the facade.
func buildStack(t *testing.T, backend *testhelpers.FakeBackend, dir string) (*session.Manager, *viewmodel.PortfolioViewModel, repositories.AuthRepository) {
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	sess := session.NewManager(store)
	require.NoError(t, sess.Restore())

	api, err := apiclient.New(apiclient.Config{
		BaseURL:       backend.URL(),
		Timeout:       5 * time.Second,
		Tokens:        sess,
		OnAuthFailure: sess.Invalidate,
	})
	require.NoError(t, err)

	vm := viewmodel.NewPortfolioViewModel(
		repositories.NewPropertyRepository(api),
		repositories.NewUnitRepository(api),
		repositories.NewTenantRepository(api),
	)
	return sess, vm, repositories.NewAuthRepository(api)
}

func TestLoginBrowseDeleteFlow(t *testing.T) {
	backend := testhelpers.NewFakeBackend()
	defer backend.Close()
	ctx := context.Background()

	userID := backend.AddUser("Maria Silva", "maria@example.com", "senha123")
	propID := backend.AddProperty(userID, "Edifício A", "Rua Augusta 100", "São Paulo", "SP", "01310100")
	unitID := backend.AddUnit(propID, "101", 1800)

	dir := t.TempDir()
	sess, vm, auth := buildStack(t, backend, dir)

	token, err := auth.Login(ctx, dtos.LoginRequest{Email: "maria@example.com", Password: "senha123"})
	require.NoError(t, err)
	require.NoError(t, sess.Login(token))

	require.NoError(t, vm.Refresh(ctx))
	list := vm.Properties()
	require.Len(t, list, 1)
	assert.Equal(t, "Edifício A", list[0].Name)

	require.NoError(t, vm.Select(ctx, propID))
	focused, ok := vm.Focused()
	require.True(t, ok)
	require.Len(t, focused.Units, 1)

	require.NoError(t, vm.DeleteUnit(ctx, unitID))
	focused, ok = vm.Focused()
	require.True(t, ok)
	assert.Empty(t, focused.Units)
}

func TestRestartRestoresSessionUntilBackendSaysOtherwise(t *testing.T) {
	backend := testhelpers.NewFakeBackend()
	defer backend.Close()
	ctx := context.Background()

	backend.AddUser("Maria Silva", "maria@example.com", "senha123")
	dir := t.TempDir()

	sess, _, auth := buildStack(t, backend, dir)
	token, err := auth.Login(ctx, dtos.LoginRequest{Email: "maria@example.com", Password: "senha123"})
	require.NoError(t, err)
	require.NoError(t, sess.Login(token))

	// "Restart": a fresh stack over the same state dir comes up
	// authenticated without asking the backend.
	sess2, vm2, _ := buildStack(t, backend, dir)
	assert.True(t, sess2.Authenticated())

	// The token works, so nothing happens to the session.
	require.NoError(t, vm2.Refresh(ctx))
	assert.True(t, sess2.Authenticated())

	// When the backend stops honoring the token, the first failing call
	// forces logout and purges the stored token.
	backend.ForceResponses(401, 1)
	err = vm2.Refresh(ctx)
	assert.ErrorIs(t, err, apiclient.ErrAuthExpired)
	assert.False(t, sess2.Authenticated())

	sess3, _, _ := buildStack(t, backend, dir)
	assert.False(t, sess3.Authenticated(), "purged token must not resurrect on restart")
}
