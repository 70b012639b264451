package models

import "time"

// Property representa um imóvel fracionado em unidades de propriedade.
type Property struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Location     string    `db:"location" json:"location"`
	TotalSupply  int64     `db:"total_supply" json:"total_supply"`   // Quantidade máxima de unidades, fixada na criação
	PricePerUnit int64     `db:"price_per_unit" json:"price_per_unit"` // Preço em lamports por unidade
	IsActive     bool      `db:"is_active" json:"is_active"`
	Admin        string    `db:"admin" json:"admin"` // Investidor que registrou o imóvel
	IssuedUnits  int64     `db:"issued_units" json:"issued_units"`
	ProposalSeq  int64     `db:"proposal_seq" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Holding representa o saldo de unidades de um investidor em um imóvel.
type Holding struct {
	PropertyID int64  `db:"property_id" json:"property_id"`
	InvestorID string `db:"investor_id" json:"investor_id"`
	Balance    int64  `db:"balance" json:"balance"`
}

// RevenuePool acumula a receita depositada de um imóvel.
// RevenuePerUnit é o acumulador que viabiliza a liquidação preguiçosa:
// depósitos nunca tocam o estado por investidor.
type RevenuePool struct {
	PropertyID     int64     `db:"property_id" json:"property_id"`
	TotalRevenue   int64     `db:"total_revenue" json:"total_revenue"`
	RevenuePerUnit int64     `db:"revenue_per_unit" json:"revenue_per_unit"`
	LastUpdate     time.Time `db:"last_update" json:"last_update"`
}

// Claim guarda o ponto de liquidação de um investidor em um imóvel.
// SettledPerUnit nunca ultrapassa o RevenuePerUnit do pool correspondente.
type Claim struct {
	PropertyID     int64     `db:"property_id" json:"property_id"`
	InvestorID     string    `db:"investor_id" json:"investor_id"`
	SettledPerUnit int64     `db:"settled_per_unit" json:"settled_per_unit"`
	LastClaimAt    time.Time `db:"last_claim_at" json:"last_claim_at"`
}
