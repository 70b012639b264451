package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/metrics"
	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/storage"
)

// TokenService mantém o ledger de unidades: saldo por investidor e contador
// de unidades emitidas por imóvel. Invariante: para todo imóvel,
// soma(saldos) == issued_units <= total_supply.
type TokenService struct {
	Store   storage.Store
	Gateway PaymentGateway
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewTokenService(store storage.Store, gateway PaymentGateway, log *zap.SugaredLogger, m *metrics.Metrics) *TokenService {
	return &TokenService{Store: store, Gateway: gateway, Log: log, Metrics: m, Now: time.Now}
}

// Purchase compra unidades de um imóvel. A cobrança na Solana acontece dentro
// da operação: se falhar, nada é gravado. Na primeira compra do investidor o
// ponto de liquidação é fixado no acumulador atual do pool, para que ele não
// reivindique receita distribuída antes de possuir unidades. Quem já possui
// unidades e compra mais mantém o ponto antigo.
func (s *TokenService) Purchase(ctx context.Context, propertyID, amount int64, buyerID, signedTxBase64 string) (units int64, err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "purchase", start)(err) }()

	var cost int64
	var txSignature string
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
		if amount <= 0 {
			return models.ErrInvalidInput
		}
		if p.IssuedUnits+amount > p.TotalSupply {
			return models.ErrInsufficientCapacity
		}
		if amount > math.MaxInt64/p.PricePerUnit {
			return fmt.Errorf("%w: custo da compra estoura o limite", models.ErrInvalidInput)
		}
		cost = amount * p.PricePerUnit

		if _, found, err = st.GetInvestor(ctx, buyerID); err != nil {
			return err
		} else if !found {
			return fmt.Errorf("%w: investidor %s", models.ErrNotFound, buyerID)
		}

		// Cobrança embutida na transação: falha aqui reverte tudo.
		txSignature, err = s.Gateway.SubmitCollect(ctx, signedTxBase64)
		if err != nil {
			return fmt.Errorf("falha na cobrança: %w", err)
		}

		holding, hasHolding, err := st.GetHolding(ctx, propertyID, buyerID)
		if err != nil {
			return err
		}
		if !hasHolding {
			holding = models.Holding{PropertyID: propertyID, InvestorID: buyerID}
		}

		if holding.Balance == 0 {
			pool, _, err := st.GetPool(ctx, propertyID)
			if err != nil {
				return err
			}
			if err := st.SaveClaim(ctx, models.Claim{
				PropertyID:     propertyID,
				InvestorID:     buyerID,
				SettledPerUnit: pool.RevenuePerUnit,
				LastClaimAt:    start,
			}); err != nil {
				return err
			}
		}

		holding.Balance += amount
		if err := st.SaveHolding(ctx, holding); err != nil {
			return err
		}

		p.IssuedUnits += amount
		if err := st.UpdateProperty(ctx, p); err != nil {
			return err
		}

		return st.SavePayment(ctx, models.Payment{
			ID:          uuid.New().String(),
			PropertyID:  propertyID,
			InvestorID:  buyerID,
			Kind:        models.PaymentKindPurchase,
			Amount:      cost,
			TxSignature: txSignature,
			Status:      models.PaymentStatusPending,
			CreatedAt:   start,
		})
	})
	if err != nil {
		return 0, err
	}

	if s.Metrics != nil {
		s.Metrics.PaymentsTotal.WithLabelValues(models.PaymentKindPurchase, models.PaymentStatusPending).Inc()
	}
	s.Log.Infow("compra de unidades concluída",
		"property_id", propertyID, "buyer", buyerID, "units", amount, "cost", cost, "signature", txSignature)
	return amount, nil
}

// BalanceOf informa o saldo de unidades de um investidor; zero quando não há registro.
func (s *TokenService) BalanceOf(ctx context.Context, propertyID int64, investorID string) (int64, error) {
	holding, found, err := s.Store.GetHolding(ctx, propertyID, investorID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return holding.Balance, nil
}

// PrepareCollect monta a transação de cobrança que o investidor assinará no
// cliente antes de chamar Purchase ou Deposit.
func (s *TokenService) PrepareCollect(ctx context.Context, investorID string, lamports int64) (string, error) {
	if lamports <= 0 {
		return "", models.ErrInvalidInput
	}
	inv, found, err := s.Store.GetInvestor(ctx, investorID)
	if err != nil {
		return "", err
	}
	if !found || inv.SolanaPubKey == "" {
		return "", fmt.Errorf("%w: investidor sem carteira Solana", models.ErrNotFound)
	}
	return s.Gateway.PrepareCollect(ctx, inv.SolanaPubKey, lamports)
}
