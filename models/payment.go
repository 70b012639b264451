package models

import "time"

// Tipos de movimentação registrados na tabela de pagamentos.
const (
	PaymentKindPurchase = "purchase" // entrada: compra de unidades
	PaymentKindDeposit  = "deposit"  // entrada: depósito de receita
	PaymentKindWithdraw = "withdraw" // saída: saque de receita
)

// Status de confirmação de um pagamento na Solana.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// Payment registra uma movimentação de valor entre um investidor e a conta
// custodial. A fonte de verdade é a blockchain; o listener reconcilia o
// status a partir das confirmações.
type Payment struct {
	ID          string    `db:"id" json:"id"`
	PropertyID  int64     `db:"property_id" json:"property_id"`
	InvestorID  string    `db:"investor_id" json:"investor_id"`
	Kind        string    `db:"kind" json:"kind"`
	Amount      int64     `db:"amount" json:"amount"` // Em lamports
	TxSignature string    `db:"tx_signature" json:"tx_signature"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
