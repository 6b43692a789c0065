package models

// Unit status values as the backend stores them.
const (
	UnitStatusRented    = "alugado"
	UnitStatusAvailable = "disponivel"
)

// Unit represents a single rentable space inside a property.
type Unit struct {
	ID         int64   `json:"id"`
	PropertyID int64   `json:"imovel_id"`
	Label      string  `json:"numero"`
	Rent       float64 `json:"valor_aluguel"`
	Tenant     *Tenant `json:"locatario,omitempty"`

	// RawStatus is whatever the backend persisted. It is decoded for
	// completeness but must never drive rendering decisions; use Status().
	RawStatus string `json:"status,omitempty"`
}

// Status derives the unit's state from tenant presence. The stored status
// column can drift (it is written as a side effect of tenant mutations), so
// the presence of Tenant is the only source of truth on the client.
func (u *Unit) Status() string {
	if u.Tenant != nil {
		return UnitStatusRented
	}
	return UnitStatusAvailable
}

// Occupied reports whether the unit currently has a tenant attached.
func (u *Unit) Occupied() bool {
	return u.Tenant != nil
}
