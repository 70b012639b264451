package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/services"
)

func newGovernanceService(store *MockStore) *services.GovernanceService {
	s := services.NewGovernanceService(store, zap.NewNop().Sugar(), nil)
	s.Now = func() time.Time { return testTime }
	return s
}

func openProposal() models.Proposal {
	return models.Proposal{
		PropertyID: 1,
		ProposalID: 0,
		Title:      "Reformar a fachada",
		Creator:    "investor-1",
		StartAt:    testTime.Add(-time.Hour),
		EndAt:      testTime.Add(time.Hour),
	}
}

// TestSubmit verifica a submissão: id sequencial por imóvel e janela
// [agora, agora+duração).
func TestSubmit(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	property := activeProperty()
	property.ProposalSeq = 3
	updated := property
	updated.ProposalSeq = 4

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(property, true, nil).Once()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-1").
		Return(models.Holding{PropertyID: 1, InvestorID: "investor-1", Balance: 5}, true, nil).Once()
	mockStore.On("UpdateProperty", mock.Anything, updated).Return(nil).Once()
	mockStore.On("CreateProposal", mock.Anything, models.Proposal{
		PropertyID:  1,
		ProposalID:  3,
		Title:       "Reformar a fachada",
		Description: "Pintura e revisão elétrica",
		Category:    "manutenção",
		Creator:     "investor-1",
		StartAt:     testTime,
		EndAt:       testTime.Add(48 * time.Hour),
	}).Return(nil).Once()

	proposalID, err := service.Submit(context.Background(), 1,
		"Reformar a fachada", "Pintura e revisão elétrica", 48*time.Hour, "manutenção", "investor-1")

	assert.Nil(t, err)
	assert.Equal(t, int64(3), proposalID)
	mockStore.AssertExpectations(t)
}

// TestSubmitBelowThreshold verifica o piso de 5% da oferta: com oferta 100,
// 4 unidades não bastam e 5 bastam.
func TestSubmitBelowThreshold(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-1").
		Return(models.Holding{PropertyID: 1, InvestorID: "investor-1", Balance: 4}, true, nil).Once()

	_, err := service.Submit(context.Background(), 1,
		"Reformar a fachada", "", 48*time.Hour, "manutenção", "investor-1")

	assert.ErrorIs(t, err, models.ErrInsufficientBalance)
	mockStore.AssertNotCalled(t, "CreateProposal", mock.Anything, mock.Anything)
}

// TestSubmitInvalidInput verifica duração zero e título vazio.
func TestSubmitInvalidInput(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Twice()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-1").
		Return(models.Holding{PropertyID: 1, InvestorID: "investor-1", Balance: 10}, true, nil).Twice()

	_, err := service.Submit(context.Background(), 1, "Reformar a fachada", "", 0, "manutenção", "investor-1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = service.Submit(context.Background(), 1, "", "", 48*time.Hour, "manutenção", "investor-1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// TestCastVote verifica o primeiro voto de um investidor.
func TestCastVote(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	updated := proposal
	updated.YesVotes = 12

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-2").
		Return(models.Holding{PropertyID: 1, InvestorID: "investor-2", Balance: 12}, true, nil).Once()
	mockStore.On("GetVote", mock.Anything, int64(1), int64(0), "investor-2").
		Return(models.Vote{}, false, nil).Once()
	mockStore.On("SaveVote", mock.Anything, models.Vote{
		PropertyID: 1, ProposalID: 0, Voter: "investor-2", Support: true, Weight: 12,
	}).Return(nil).Once()
	mockStore.On("UpdateProposal", mock.Anything, updated).Return(nil).Once()

	err := service.CastVote(context.Background(), 1, 0, true, "investor-2")

	assert.Nil(t, err)
	mockStore.AssertExpectations(t)
}

// TestCastVoteRetraction verifica a troca de voto: o peso antigo sai da
// contagem anterior antes de o saldo ATUAL entrar na nova — o saldo pode ter
// mudado desde o primeiro voto.
func TestCastVoteRetraction(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	proposal.YesVotes = 10
	proposal.NoVotes = 5
	updated := proposal
	updated.YesVotes = 0  // voto anterior de 10 retirado do "sim"
	updated.NoVotes = 17  // saldo atual de 12 entra no "não"

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-2").
		Return(models.Holding{PropertyID: 1, InvestorID: "investor-2", Balance: 12}, true, nil).Once()
	mockStore.On("GetVote", mock.Anything, int64(1), int64(0), "investor-2").
		Return(models.Vote{PropertyID: 1, ProposalID: 0, Voter: "investor-2", Support: true, Weight: 10}, true, nil).Once()
	mockStore.On("SaveVote", mock.Anything, models.Vote{
		PropertyID: 1, ProposalID: 0, Voter: "investor-2", Support: false, Weight: 12,
	}).Return(nil).Once()
	mockStore.On("UpdateProposal", mock.Anything, updated).Return(nil).Once()

	err := service.CastVote(context.Background(), 1, 0, false, "investor-2")

	assert.Nil(t, err)
	mockStore.AssertExpectations(t)
}

// TestCastVoteWithoutUnits verifica que quem não tem unidades não vota.
func TestCastVoteWithoutUnits(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(openProposal(), true, nil).Once()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-9").Return(models.Holding{}, false, nil).Once()

	err := service.CastVote(context.Background(), 1, 0, true, "investor-9")

	assert.ErrorIs(t, err, models.ErrInsufficientBalance)
}

// TestCastVoteEnded verifica a rejeição de voto após o fim da janela.
func TestCastVoteEnded(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	proposal.EndAt = testTime // janela meio-aberta: voto em EndAt já é tarde

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()
	mockStore.On("GetHolding", mock.Anything, int64(1), "investor-2").
		Return(models.Holding{PropertyID: 1, InvestorID: "investor-2", Balance: 12}, true, nil).Once()

	err := service.CastVote(context.Background(), 1, 0, true, "investor-2")

	assert.ErrorIs(t, err, models.ErrVotingEnded)
}

// TestExecuteBeforeEnd verifica a execução com a votação em andamento.
func TestExecuteBeforeEnd(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	proposal.YesVotes = 10
	proposal.NoVotes = 5

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()

	err := service.Execute(context.Background(), 1, 0, "investor-1")

	assert.ErrorIs(t, err, models.ErrVotingInProgress)
}

// TestExecute verifica a execução aprovada: com oferta 100, quórum 15 >= 10 e
// maioria 10 > 5; a repetição falha com AlreadyExecuted.
func TestExecute(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	proposal.EndAt = testTime.Add(-time.Minute)
	proposal.YesVotes = 10
	proposal.NoVotes = 5
	executed := proposal
	executed.IsExecuted = true

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Twice()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()
	mockStore.On("UpdateProposal", mock.Anything, executed).Return(nil).Once()

	err := service.Execute(context.Background(), 1, 0, "investor-1")
	assert.Nil(t, err)

	// Segunda execução: a proposta já está executada.
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(executed, true, nil).Once()
	err = service.Execute(context.Background(), 1, 0, "investor-1")
	assert.ErrorIs(t, err, models.ErrAlreadyExecuted)

	mockStore.AssertExpectations(t)
}

// TestExecuteWithoutQuorum verifica a trava de quórum de 10% da oferta.
func TestExecuteWithoutQuorum(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	proposal.EndAt = testTime.Add(-time.Minute)
	proposal.YesVotes = 6
	proposal.NoVotes = 3 // 9 < 100/10

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()

	err := service.Execute(context.Background(), 1, 0, "investor-1")

	assert.ErrorIs(t, err, models.ErrProposalFailed)
	mockStore.AssertNotCalled(t, "UpdateProposal", mock.Anything, mock.Anything)
}

// TestExecuteWithoutMajority verifica a exigência de maioria estrita: empate
// não executa, mesmo com quórum.
func TestExecuteWithoutMajority(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	proposal := openProposal()
	proposal.EndAt = testTime.Add(-time.Minute)
	proposal.YesVotes = 8
	proposal.NoVotes = 8

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(activeProperty(), true, nil).Once()
	mockStore.On("GetProposal", mock.Anything, int64(1), int64(0)).Return(proposal, true, nil).Once()

	err := service.Execute(context.Background(), 1, 0, "investor-1")

	assert.ErrorIs(t, err, models.ErrProposalFailed)
}

// TestExecuteInactiveProperty verifica a execução em imóvel desativado.
func TestExecuteInactiveProperty(t *testing.T) {
	mockStore := new(MockStore)
	service := newGovernanceService(mockStore)

	property := activeProperty()
	property.IsActive = false
	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(property, true, nil).Once()

	err := service.Execute(context.Background(), 1, 0, "investor-1")

	assert.ErrorIs(t, err, models.ErrInactiveProperty)
}
