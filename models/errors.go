package models

import "errors"

// Erros de negócio retornados pelos serviços. Todos são síncronos e
// não-retentáveis: cada um indica violação de entrada ou de política, nunca
// falha transitória, e nenhum deixa estado parcial para trás.
var (
	ErrUnauthorized         = errors.New("não autorizado")
	ErrNotFound             = errors.New("registro não encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInactiveProperty     = errors.New("imóvel desativado")
	ErrInsufficientBalance  = errors.New("saldo de unidades insuficiente")
	ErrInsufficientCapacity = errors.New("oferta de unidades esgotada")
	ErrNoIncomeAvailable    = errors.New("nenhuma receita disponível para saque")
	ErrVotingEnded          = errors.New("janela de votação encerrada")
	ErrVotingInProgress     = errors.New("votação ainda em andamento")
	ErrAlreadyExecuted      = errors.New("proposta já executada")
	ErrProposalFailed       = errors.New("proposta sem quórum ou sem maioria")
)
