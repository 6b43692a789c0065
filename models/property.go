package models

// Property is a managed real-estate asset containing rentable units.
// List endpoints return it without Units; the detail endpoint nests them.
type Property struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"usuario_id,omitempty"`
	Name    string `json:"nome"`
	Address string `json:"endereco"`
	City    string `json:"cidade"`
	State   string `json:"estado"`
	CEP     string `json:"cep,omitempty"`
	Units   []Unit `json:"unidades,omitempty"`
}

// UnitByID returns the nested unit with the given id, if present.
func (p *Property) UnitByID(id int64) (*Unit, bool) {
	for i := range p.Units {
		if p.Units[i].ID == id {
			return &p.Units[i], true
		}
	}
	return nil, false
}
