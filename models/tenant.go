package models

// Tenant is the person currently leasing a unit. A unit holds at most one
// tenant at a time; the backend rejects a second one with a conflict.
// Lease dates travel as YYYY-MM-DD strings on the wire.
type Tenant struct {
	ID         int64  `json:"id"`
	UnitID     int64  `json:"unidade_id"`
	Name       string `json:"nome"`
	CPF        string `json:"cpf"`
	Phone      string `json:"telefone,omitempty"`
	Email      string `json:"email,omitempty"`
	LeaseStart string `json:"data_inicio_contrato"`
	LeaseEnd   string `json:"data_fim_contrato,omitempty"`
}
