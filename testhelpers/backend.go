package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/imobly/go-core/models"
)

const signingKey = "test-secret-key"

// RequestRecord is one observed request, kept for assertions.
type RequestRecord struct {
	Method string
	Path   string
	Body   []byte
}

type user struct {
	id           int64
	name         string
	email        string
	passwordHash string
}

// FakeBackend is an in-memory stand-in for the rental API, faithful to its
// observable behavior: FastAPI-style `{"detail": ...}` errors, bearer auth,
// cascade on delete, and the stored unit status written as a side effect of
// tenant mutations.
type FakeBackend struct {
	mu sync.Mutex

	users      map[string]*user
	properties map[int64]*models.Property
	units      map[int64]*models.Unit
	tenants    map[int64]*models.Tenant
	cepTable   map[string]cepEntry
	nextID     int64

	requests    []RequestRecord
	forcedCode  int
	forcedCount int

	server *httptest.Server
}

type cepEntry struct {
	Address string
	City    string
	State   string
}

// NewFakeBackend starts the server with the same CORS posture as the real
// backend (allow everything). Call Close when done.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		users:      make(map[string]*user),
		properties: make(map[int64]*models.Property),
		units:      make(map[int64]*models.Unit),
		tenants:    make(map[int64]*models.Tenant),
		cepTable:   make(map[string]cepEntry),
	}

	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/api/auth/login", b.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/registro", b.handleRegister).Methods(http.MethodPost)

	r.HandleFunc("/api/imoveis/buscar-cep/{cep}", b.handleCEP).Methods(http.MethodGet)
	r.HandleFunc("/api/imoveis", b.auth(b.handleListProperties)).Methods(http.MethodGet)
	r.HandleFunc("/api/imoveis", b.auth(b.handleCreateProperty)).Methods(http.MethodPost)
	r.HandleFunc("/api/imoveis/{id}", b.auth(b.handleGetProperty)).Methods(http.MethodGet)
	r.HandleFunc("/api/imoveis/{id}", b.auth(b.handleUpdateProperty)).Methods(http.MethodPut)
	r.HandleFunc("/api/imoveis/{id}", b.auth(b.handleDeleteProperty)).Methods(http.MethodDelete)

	r.HandleFunc("/api/unidades", b.auth(b.handleCreateUnit)).Methods(http.MethodPost)
	r.HandleFunc("/api/unidades/{id}", b.auth(b.handleUpdateUnit)).Methods(http.MethodPut)
	r.HandleFunc("/api/unidades/{id}", b.auth(b.handleDeleteUnit)).Methods(http.MethodDelete)

	r.HandleFunc("/api/locatarios", b.auth(b.handleCreateTenant)).Methods(http.MethodPost)
	r.HandleFunc("/api/locatarios/{id}", b.auth(b.handleUpdateTenant)).Methods(http.MethodPut)
	r.HandleFunc("/api/locatarios/{id}", b.auth(b.handleDeleteTenant)).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	b.server = httptest.NewServer(c.Handler(r))
	return b
}

func (b *FakeBackend) URL() string {
	return b.server.URL
}

func (b *FakeBackend) Close() {
	b.server.Close()
}

/* ------------------------------------------------------------------
   Seeding and inspection
------------------------------------------------------------------ */

// AddUser registers an account with a bcrypt-hashed password.
func (b *FakeBackend) AddUser(name, email, password string) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.users[email] = &user{
		id:           b.nextID,
		name:         name,
		email:        email,
		passwordHash: string(hash),
	}
	return b.nextID
}

// AddProperty seeds a property owned by the given user.
func (b *FakeBackend) AddProperty(ownerID int64, name, address, city, state, cep string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.properties[b.nextID] = &models.Property{
		ID:      b.nextID,
		OwnerID: ownerID,
		Name:    name,
		Address: address,
		City:    city,
		State:   state,
		CEP:     cep,
	}
	return b.nextID
}

// AddUnit seeds a unit under an existing property.
func (b *FakeBackend) AddUnit(propertyID int64, label string, rent float64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.units[b.nextID] = &models.Unit{
		ID:         b.nextID,
		PropertyID: propertyID,
		Label:      label,
		Rent:       rent,
		RawStatus:  models.UnitStatusAvailable,
	}
	return b.nextID
}

// AddTenant seeds a tenant into a unit and flips its stored status, the way
// the real backend does.
func (b *FakeBackend) AddTenant(unitID int64, name, cpf, leaseStart string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.tenants[b.nextID] = &models.Tenant{
		ID:         b.nextID,
		UnitID:     unitID,
		Name:       name,
		CPF:        cpf,
		LeaseStart: leaseStart,
	}
	if u, ok := b.units[unitID]; ok {
		u.RawStatus = models.UnitStatusRented
	}
	return b.nextID
}

// AddCEP seeds the postal-code directory.
func (b *FakeBackend) AddCEP(code, address, city, state string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cepTable[code] = cepEntry{Address: address, City: city, State: state}
}

// Requests returns every request observed so far.
func (b *FakeBackend) Requests() []RequestRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RequestRecord, len(b.requests))
	copy(out, b.requests)
	return out
}

// CountRequests counts observed requests matching method and path.
func (b *FakeBackend) CountRequests(method, path string) int {
	n := 0
	for _, rec := range b.Requests() {
		if rec.Method == method && rec.Path == path {
			n++
		}
	}
	return n
}

// ForceResponses makes the next n requests answer with the given status
// before any routing happens. Used to simulate expired tokens and outages.
func (b *FakeBackend) ForceResponses(status, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forcedCode = status
	b.forcedCount = n
}

// IssueToken mints a token for seeded users, bypassing the login endpoint.
func (b *FakeBackend) IssueToken(email string) string {
	return b.issueToken(email)
}

/* ------------------------------------------------------------------
   Middleware
------------------------------------------------------------------ */

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := readBody(r)

		b.mu.Lock()
		b.requests = append(b.requests, RequestRecord{Method: r.Method, Path: r.URL.Path, Body: body})
		forced := 0
		if b.forcedCount > 0 {
			forced = b.forcedCode
			b.forcedCount--
		}
		b.mu.Unlock()

		if forced != 0 {
			respondDetail(w, forced, "forced response")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) auth(next func(http.ResponseWriter, *http.Request, *user)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
			return []byte(signingKey), nil
		})
		if err != nil || !token.Valid {
			respondDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		claims, _ := token.Claims.(jwt.MapClaims)
		email, _ := claims["sub"].(string)

		b.mu.Lock()
		u := b.users[email]
		b.mu.Unlock()
		if u == nil {
			respondDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r, u)
	}
}

func (b *FakeBackend) issueToken(email string) string {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		panic(err)
	}
	return signed
}
