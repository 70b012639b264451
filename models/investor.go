package models

import "time"

// Investor representa um usuário da plataforma com carteira Solana associada.
type Investor struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	SolanaPubKey string    `db:"solana_pubkey" json:"solana_pubkey"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
