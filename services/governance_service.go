package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/metrics"
	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/storage"
)

// Frações da oferta total usadas pela governança.
const (
	submitThresholdDivisor = 20 // proponente precisa de >= total_supply/20 unidades (5%)
	quorumDivisor          = 10 // execução exige yes+no >= total_supply/10 (10%)
)

// GovernanceService conduz o ciclo de propostas por imóvel: submissão por
// quem detém ao menos 5% da oferta, votação ponderada pelo saldo com direito
// a troca de voto, e execução travada por quórum e maioria estrita.
type GovernanceService struct {
	Store   storage.Store
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewGovernanceService(store storage.Store, log *zap.SugaredLogger, m *metrics.Metrics) *GovernanceService {
	return &GovernanceService{Store: store, Log: log, Metrics: m, Now: time.Now}
}

// Submit cria uma proposta com janela de votação [agora, agora+duration).
// O id é sequencial por imóvel, começando em 0, avançado na mesma transação.
func (s *GovernanceService) Submit(ctx context.Context, propertyID int64, title, description string, duration time.Duration, category, caller string) (proposalID int64, err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "submit", start)(err) }()

	err = s.Store.Transact(ctx, func(st storage.Store) error {
		p, found, err := st.GetPropertyForUpdate(ctx, propertyID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}
		if !p.IsActive {
			return models.ErrInactiveProperty
		}

		holding, _, err := st.GetHolding(ctx, propertyID, caller)
		if err != nil {
			return err
		}
		if holding.Balance < p.TotalSupply/submitThresholdDivisor {
			return models.ErrInsufficientBalance
		}
		if duration <= 0 || title == "" {
			return models.ErrInvalidInput
		}

		proposalID = p.ProposalSeq
		p.ProposalSeq++
		if err := st.UpdateProperty(ctx, p); err != nil {
			return err
		}

		return st.CreateProposal(ctx, models.Proposal{
			PropertyID:  propertyID,
			ProposalID:  proposalID,
			Title:       title,
			Description: description,
			Category:    category,
			Creator:     caller,
			StartAt:     start,
			EndAt:       start.Add(duration),
		})
	})
	if err != nil {
		return 0, err
	}

	s.Log.Infow("proposta submetida",
		"property_id", propertyID, "proposal_id", proposalID, "creator", caller)
	return proposalID, nil
}

// CastVote registra (ou troca) o voto do investidor. Na troca, o peso antigo
// sai da contagem em que estava antes de o saldo ATUAL do investidor entrar
// na contagem escolhida; o registro de voto é sobrescrito.
func (s *GovernanceService) CastVote(ctx context.Context, propertyID, proposalID int64, support bool, caller string) (err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "cast_vote", start)(err) }()

	err = s.Store.Transact(ctx, func(st storage.Store) error {
		p, found, err := st.GetPropertyForUpdate(ctx, propertyID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}
		if !p.IsActive {
			return models.ErrInactiveProperty
		}

		proposal, found, err := st.GetProposal(ctx, propertyID, proposalID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}

		holding, _, err := st.GetHolding(ctx, propertyID, caller)
		if err != nil {
			return err
		}
		if holding.Balance == 0 {
			return models.ErrInsufficientBalance
		}
		if !start.Before(proposal.EndAt) {
			return models.ErrVotingEnded
		}
		if proposal.IsExecuted {
			return models.ErrAlreadyExecuted
		}

		previous, hasVoted, err := st.GetVote(ctx, propertyID, proposalID, caller)
		if err != nil {
			return err
		}
		if hasVoted {
			if previous.Support {
				proposal.YesVotes -= previous.Weight
			} else {
				proposal.NoVotes -= previous.Weight
			}
		}

		weight := holding.Balance
		if support {
			proposal.YesVotes += weight
		} else {
			proposal.NoVotes += weight
		}

		if err := st.SaveVote(ctx, models.Vote{
			PropertyID: propertyID,
			ProposalID: proposalID,
			Voter:      caller,
			Support:    support,
			Weight:     weight,
		}); err != nil {
			return err
		}
		return st.UpdateProposal(ctx, proposal)
	})
	if err != nil {
		return err
	}

	s.Log.Infow("voto registrado",
		"property_id", propertyID, "proposal_id", proposalID, "voter", caller, "support", support)
	return nil
}

// Execute marca a proposta como executada quando a janela fechou, o quórum de
// 10% da oferta foi alcançado e os votos a favor superam os contra. A
// execução é apenas um sinal de autorização registrado; nenhum efeito
// adicional é aplicado aqui.
func (s *GovernanceService) Execute(ctx context.Context, propertyID, proposalID int64, caller string) (err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "execute", start)(err) }()

	err = s.Store.Transact(ctx, func(st storage.Store) error {
		p, found, err := st.GetPropertyForUpdate(ctx, propertyID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}
		if !p.IsActive {
			return models.ErrInactiveProperty
		}

		proposal, found, err := st.GetProposal(ctx, propertyID, proposalID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}
		if start.Before(proposal.EndAt) {
			return models.ErrVotingInProgress
		}
		if proposal.IsExecuted {
			return models.ErrAlreadyExecuted
		}
		if proposal.YesVotes+proposal.NoVotes < p.TotalSupply/quorumDivisor {
			return models.ErrProposalFailed
		}
		if proposal.YesVotes <= proposal.NoVotes {
			return models.ErrProposalFailed
		}

		proposal.IsExecuted = true
		return st.UpdateProposal(ctx, proposal)
	})
	if err != nil {
		return err
	}

	s.Log.Infow("proposta executada",
		"property_id", propertyID, "proposal_id", proposalID, "caller", caller)
	return nil
}

// GetProposal busca uma proposta pelo par (imóvel, proposta).
func (s *GovernanceService) GetProposal(ctx context.Context, propertyID, proposalID int64) (models.Proposal, bool, error) {
	return s.Store.GetProposal(ctx, propertyID, proposalID)
}
