package dtos

// PropertyCreateRequest is the body of POST /api/imoveis. The same shape is
// accepted by PUT /api/imoveis/{id}.
type PropertyCreateRequest struct {
	Name    string `json:"nome" validate:"required"`
	Address string `json:"endereco" validate:"required"`
	City    string `json:"cidade" validate:"required"`
	State   string `json:"estado" validate:"required,len=2"`
	CEP     string `json:"cep,omitempty" validate:"omitempty,len=8,numeric"`
}

// UnitCreateRequest is the body of POST /api/unidades. The backend derives
// nothing from Status; rent must be strictly positive.
type UnitCreateRequest struct {
	PropertyID int64   `json:"imovel_id" validate:"required"`
	Label      string  `json:"numero" validate:"required"`
	Rent       float64 `json:"valor_aluguel" validate:"required,gt=0"`
}

// UnitUpdateRequest is the body of PUT /api/unidades/{id}. The parent
// property of a unit is immutable, so it carries no property id.
type UnitUpdateRequest struct {
	Label string  `json:"numero" validate:"required"`
	Rent  float64 `json:"valor_aluguel" validate:"required,gt=0"`
}

// TenantCreateRequest is the body of POST /api/locatarios. Lease dates are
// YYYY-MM-DD strings; only structural checks are applied to the CPF.
type TenantCreateRequest struct {
	UnitID     int64  `json:"unidade_id" validate:"required"`
	Name       string `json:"nome" validate:"required"`
	CPF        string `json:"cpf" validate:"required"`
	Phone      string `json:"telefone,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	LeaseStart string `json:"data_inicio_contrato" validate:"required,datetime=2006-01-02"`
	LeaseEnd   string `json:"data_fim_contrato,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// TenantUpdateRequest is the body of PUT /api/locatarios/{id}.
type TenantUpdateRequest struct {
	Name       string `json:"nome" validate:"required"`
	CPF        string `json:"cpf" validate:"required"`
	Phone      string `json:"telefone,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	LeaseStart string `json:"data_inicio_contrato" validate:"required,datetime=2006-01-02"`
	LeaseEnd   string `json:"data_fim_contrato,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CEPResult is the payload of GET /api/imoveis/buscar-cep/{cep}.
type CEPResult struct {
	Address string `json:"endereco"`
	City    string `json:"cidade"`
	State   string `json:"estado"`
	CEP     string `json:"cep"`
}

// MessageResponse is the backend's generic acknowledgement for deletes.
type MessageResponse struct {
	Message string `json:"message"`
}
