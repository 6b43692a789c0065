package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/models"
	"github.com/imobly/go-core/resolver"
)

/* ------------------------------------------------------------------
   Auth
------------------------------------------------------------------ */

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	u := b.users[req.Email]
	b.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(req.Password)) != nil {
		respondDetail(w, http.StatusUnauthorized, "Email ou senha incorretos")
		return
	}

	respondJSON(w, http.StatusOK, dtos.LoginResponse{
		AccessToken: b.issueToken(u.email),
		TokenType:   "bearer",
	})
}

func (b *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	if _, exists := b.users[req.Email]; exists {
		b.mu.Unlock()
		respondDetail(w, http.StatusBadRequest, "Email já cadastrado")
		return
	}
	b.mu.Unlock()

	id := b.AddUser(req.Name, req.Email, req.Password)
	respondJSON(w, http.StatusOK, dtos.RegisteredUser{ID: id, Name: req.Name, Email: req.Email})
}

/* ------------------------------------------------------------------
   CEP directory
------------------------------------------------------------------ */

func (b *FakeBackend) handleCEP(w http.ResponseWriter, r *http.Request) {
	code := resolver.NormalizeCEP(mux.Vars(r)["cep"])

	b.mu.Lock()
	entry, ok := b.cepTable[code]
	b.mu.Unlock()

	if !ok {
		respondDetail(w, http.StatusNotFound, "CEP não encontrado")
		return
	}
	respondJSON(w, http.StatusOK, dtos.CEPResult{
		Address: entry.Address,
		City:    entry.City,
		State:   entry.State,
		CEP:     code,
	})
}

/* ------------------------------------------------------------------
   Properties
------------------------------------------------------------------ */

func (b *FakeBackend) handleListProperties(w http.ResponseWriter, _ *http.Request, u *user) {
	b.mu.Lock()
	out := make([]models.Property, 0)
	for _, p := range b.properties {
		if p.OwnerID != u.id {
			continue
		}
		cp := *p
		cp.Units = nil // list endpoint returns summaries
		out = append(out, cp)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	respondJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) handleGetProperty(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.properties[id]
	if !ok || p.OwnerID != u.id {
		respondDetail(w, http.StatusNotFound, "Imóvel não encontrado")
		return
	}
	respondJSON(w, http.StatusOK, b.detailLocked(p))
}

func (b *FakeBackend) handleCreateProperty(w http.ResponseWriter, r *http.Request, u *user) {
	var req dtos.PropertyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	if req.Name == "" || req.Address == "" || req.City == "" || req.State == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "field required")
		return
	}

	b.mu.Lock()
	b.nextID++
	p := &models.Property{
		ID:      b.nextID,
		OwnerID: u.id,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		CEP:     req.CEP,
	}
	b.properties[p.ID] = p
	cp := *p
	b.mu.Unlock()

	respondJSON(w, http.StatusOK, cp)
}

func (b *FakeBackend) handleUpdateProperty(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)
	var req dtos.PropertyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.properties[id]
	if !ok || p.OwnerID != u.id {
		respondDetail(w, http.StatusNotFound, "Imóvel não encontrado")
		return
	}
	p.Name, p.Address, p.City, p.State, p.CEP = req.Name, req.Address, req.City, req.State, req.CEP
	respondJSON(w, http.StatusOK, *p)
}

func (b *FakeBackend) handleDeleteProperty(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.properties[id]
	if !ok || p.OwnerID != u.id {
		respondDetail(w, http.StatusNotFound, "Imóvel não encontrado")
		return
	}

	// Server-side cascade: units and their tenants go with the property.
	for uid, unit := range b.units {
		if unit.PropertyID != id {
			continue
		}
		for tid, t := range b.tenants {
			if t.UnitID == uid {
				delete(b.tenants, tid)
			}
		}
		delete(b.units, uid)
	}
	delete(b.properties, id)

	respondJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Imóvel deletado com sucesso"})
}

/* ------------------------------------------------------------------
   Units
------------------------------------------------------------------ */

func (b *FakeBackend) handleCreateUnit(w http.ResponseWriter, r *http.Request, u *user) {
	var req dtos.UnitCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.properties[req.PropertyID]
	if !ok || p.OwnerID != u.id {
		respondDetail(w, http.StatusForbidden, "Você não tem permissão para acessar este imóvel")
		return
	}
	for _, existing := range b.units {
		if existing.PropertyID == req.PropertyID && existing.Label == req.Label {
			respondDetail(w, http.StatusBadRequest, "Já existe uma unidade com este número neste imóvel")
			return
		}
	}

	b.nextID++
	unit := &models.Unit{
		ID:         b.nextID,
		PropertyID: req.PropertyID,
		Label:      req.Label,
		Rent:       req.Rent,
		RawStatus:  models.UnitStatusAvailable,
	}
	b.units[unit.ID] = unit
	respondJSON(w, http.StatusOK, *unit)
}

func (b *FakeBackend) handleUpdateUnit(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)
	var req dtos.UnitUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	unit := b.ownedUnitLocked(id, u)
	if unit == nil {
		respondDetail(w, http.StatusNotFound, "Unidade não encontrada")
		return
	}
	unit.Label, unit.Rent = req.Label, req.Rent
	respondJSON(w, http.StatusOK, *unit)
}

func (b *FakeBackend) handleDeleteUnit(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	unit := b.ownedUnitLocked(id, u)
	if unit == nil {
		respondDetail(w, http.StatusNotFound, "Unidade não encontrada")
		return
	}
	for tid, t := range b.tenants {
		if t.UnitID == id {
			delete(b.tenants, tid)
		}
	}
	delete(b.units, id)
	respondJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Unidade deletada com sucesso"})
}

/* ------------------------------------------------------------------
   Tenants
------------------------------------------------------------------ */

func (b *FakeBackend) handleCreateTenant(w http.ResponseWriter, r *http.Request, u *user) {
	var req dtos.TenantCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	unit := b.ownedUnitLocked(req.UnitID, u)
	if unit == nil {
		respondDetail(w, http.StatusForbidden, "Você não tem permissão para acessar esta unidade")
		return
	}
	for _, t := range b.tenants {
		if t.UnitID == req.UnitID {
			respondDetail(w, http.StatusBadRequest, "Esta unidade já possui um locatário")
			return
		}
	}

	b.nextID++
	tenant := &models.Tenant{
		ID:         b.nextID,
		UnitID:     req.UnitID,
		Name:       req.Name,
		CPF:        req.CPF,
		Phone:      req.Phone,
		Email:      req.Email,
		LeaseStart: req.LeaseStart,
		LeaseEnd:   req.LeaseEnd,
	}
	b.tenants[tenant.ID] = tenant
	unit.RawStatus = models.UnitStatusRented

	respondJSON(w, http.StatusOK, *tenant)
}

func (b *FakeBackend) handleUpdateTenant(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)
	var req dtos.TenantUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tenant := b.ownedTenantLocked(id, u)
	if tenant == nil {
		respondDetail(w, http.StatusNotFound, "Locatário não encontrado")
		return
	}
	tenant.Name, tenant.CPF = req.Name, req.CPF
	tenant.Phone, tenant.Email = req.Phone, req.Email
	tenant.LeaseStart, tenant.LeaseEnd = req.LeaseStart, req.LeaseEnd
	respondJSON(w, http.StatusOK, *tenant)
}

func (b *FakeBackend) handleDeleteTenant(w http.ResponseWriter, r *http.Request, u *user) {
	id := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	tenant := b.ownedTenantLocked(id, u)
	if tenant == nil {
		respondDetail(w, http.StatusNotFound, "Locatário não encontrado")
		return
	}
	if unit, ok := b.units[tenant.UnitID]; ok {
		unit.RawStatus = models.UnitStatusAvailable
	}
	delete(b.tenants, id)
	respondJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Locatário removido com sucesso"})
}

/* ------------------------------------------------------------------
   Internals
------------------------------------------------------------------ */

func (b *FakeBackend) detailLocked(p *models.Property) models.Property {
	cp := *p
	cp.Units = make([]models.Unit, 0)
	for _, unit := range b.units {
		if unit.PropertyID != p.ID {
			continue
		}
		uc := *unit
		for _, t := range b.tenants {
			if t.UnitID == unit.ID {
				tc := *t
				uc.Tenant = &tc
				break
			}
		}
		cp.Units = append(cp.Units, uc)
	}
	sort.Slice(cp.Units, func(i, j int) bool { return cp.Units[i].ID < cp.Units[j].ID })
	return cp
}

func (b *FakeBackend) ownedUnitLocked(id int64, u *user) *models.Unit {
	unit, ok := b.units[id]
	if !ok {
		return nil
	}
	p, ok := b.properties[unit.PropertyID]
	if !ok || p.OwnerID != u.id {
		return nil
	}
	return unit
}

func (b *FakeBackend) ownedTenantLocked(id int64, u *user) *models.Tenant {
	tenant, ok := b.tenants[id]
	if !ok {
		return nil
	}
	if b.ownedUnitLocked(tenant.UnitID, u) == nil {
		return nil
	}
	return tenant
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	raw, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
