package models

import "time"

// Proposal representa uma proposta de governança de um imóvel.
// O ID é sequencial por imóvel, começando em 0.
type Proposal struct {
	PropertyID  int64     `db:"property_id" json:"property_id"`
	ProposalID  int64     `db:"proposal_id" json:"proposal_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Creator     string    `db:"creator" json:"creator"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	YesVotes    int64     `db:"yes_votes" json:"yes_votes"`
	NoVotes     int64     `db:"no_votes" json:"no_votes"`
	IsExecuted  bool      `db:"is_executed" json:"is_executed"`
}

// Vote registra o voto de um investidor em uma proposta. Um investidor pode
// trocar o próprio voto; o peso antigo é removido da contagem anterior antes
// de o peso novo entrar na contagem escolhida.
type Vote struct {
	PropertyID int64  `db:"property_id" json:"property_id"`
	ProposalID int64  `db:"proposal_id" json:"proposal_id"`
	Voter      string `db:"voter" json:"voter"`
	Support    bool   `db:"support" json:"support"`
	Weight     int64  `db:"weight" json:"weight"`
}
