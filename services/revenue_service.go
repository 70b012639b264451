package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/metrics"
	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/storage"
)

// RevenueService acumula receita depositada e liquida saques de forma
// preguiçosa: o depósito só avança o acumulador revenue_per_unit; o estado
// por investidor é reconciliado apenas no saque ou na consulta, o que mantém
// o depósito O(1) independente do número de investidores.
type RevenueService struct {
	Store   storage.Store
	Gateway PaymentGateway
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewRevenueService(store storage.Store, gateway PaymentGateway, log *zap.SugaredLogger, m *metrics.Metrics) *RevenueService {
	return &RevenueService{Store: store, Gateway: gateway, Log: log, Metrics: m, Now: time.Now}
}

// Deposit credita receita ao pool do imóvel. Somente o administrador do
// próprio imóvel pode depositar. O incremento usa divisão inteira truncada:
// o resto não é rateado e permanece na conta custodial.
func (s *RevenueService) Deposit(ctx context.Context, propertyID, amount int64, caller, signedTxBase64 string) (deposited int64, err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "deposit", start)(err) }()

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
		if caller != p.Admin {
			return models.ErrUnauthorized
		}
		if amount <= 0 {
			return models.ErrInvalidInput
		}

		// O administrador precisa existir como investidor antes de a cobrança
		// sair: o registro do pagamento referencia a tabela de investidores.
		if _, found, err = st.GetInvestor(ctx, caller); err != nil {
			return err
		} else if !found {
			return fmt.Errorf("%w: investidor %s", models.ErrNotFound, caller)
		}

		txSignature, err = s.Gateway.SubmitCollect(ctx, signedTxBase64)
		if err != nil {
			return fmt.Errorf("falha na cobrança do depósito: %w", err)
		}

		pool, found, err := st.GetPool(ctx, propertyID)
		if err != nil {
			return err
		}
		if !found {
			pool = models.RevenuePool{PropertyID: propertyID}
		}

		var increment int64
		if p.IssuedUnits > 0 {
			increment = amount / p.IssuedUnits
		}
		pool.TotalRevenue += amount
		pool.RevenuePerUnit += increment
		pool.LastUpdate = start
		if err := st.SavePool(ctx, pool); err != nil {
			return err
		}

		return st.SavePayment(ctx, models.Payment{
			ID:          uuid.New().String(),
			PropertyID:  propertyID,
			InvestorID:  caller,
			Kind:        models.PaymentKindDeposit,
			Amount:      amount,
			TxSignature: txSignature,
			Status:      models.PaymentStatusPending,
			CreatedAt:   start,
		})
	})
	if err != nil {
		return 0, err
	}

	if s.Metrics != nil {
		s.Metrics.PaymentsTotal.WithLabelValues(models.PaymentKindDeposit, models.PaymentStatusPending).Inc()
	}
	s.Log.Infow("receita depositada",
		"property_id", propertyID, "amount", amount, "signature", txSignature)
	return amount, nil
}

// Claimable calcula quanto um investidor pode sacar:
// saldo * (revenue_per_unit - settled_per_unit). Zero quando o imóvel ou o
// pool não existem. Nunca altera estado.
func (s *RevenueService) Claimable(ctx context.Context, propertyID int64, investorID string) (int64, error) {
	if _, found, err := s.Store.GetProperty(ctx, propertyID); err != nil {
		return 0, err
	} else if !found {
		return 0, nil
	}
	pool, found, err := s.Store.GetPool(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	holding, found, err := s.Store.GetHolding(ctx, propertyID, investorID)
	if err != nil {
		return 0, err
	}
	if !found || holding.Balance == 0 {
		return 0, nil
	}
	claim, _, err := s.Store.GetClaim(ctx, propertyID, investorID)
	if err != nil {
		return 0, err
	}
	return holding.Balance * (pool.RevenuePerUnit - claim.SettledPerUnit), nil
}

// Withdraw liquida integralmente a receita pendente do investidor e dispara o
// pagamento na Solana. A liquidação é confirmada no banco ANTES de a
// transferência de saída ser emitida, impedindo saque duplicado por
// reentrância; se o pagamento falhar depois disso, o registro na tabela de
// pagamentos fica marcado como failed para reconciliação.
func (s *RevenueService) Withdraw(ctx context.Context, propertyID int64, caller string) (amount int64, err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "withdraw", start)(err) }()

	var payee models.Investor
	paymentID := uuid.New().String()
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

		payee, found, err = st.GetInvestor(ctx, caller)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: investidor %s", models.ErrNotFound, caller)
		}

		holding, found, err := st.GetHolding(ctx, propertyID, caller)
		if err != nil {
			return err
		}
		if !found || holding.Balance == 0 {
			return models.ErrInsufficientBalance
		}

		pool, _, err := st.GetPool(ctx, propertyID)
		if err != nil {
			return err
		}
		claim, _, err := st.GetClaim(ctx, propertyID, caller)
		if err != nil {
			return err
		}

		amount = holding.Balance * (pool.RevenuePerUnit - claim.SettledPerUnit)
		if amount == 0 {
			return models.ErrNoIncomeAvailable
		}

		// Liquidação integral: o ponto do investidor alcança o acumulador.
		claim.PropertyID = propertyID
		claim.InvestorID = caller
		claim.SettledPerUnit = pool.RevenuePerUnit
		claim.LastClaimAt = start
		if err := st.SaveClaim(ctx, claim); err != nil {
			return err
		}

		return st.SavePayment(ctx, models.Payment{
			ID:         paymentID,
			PropertyID: propertyID,
			InvestorID: caller,
			Kind:       models.PaymentKindWithdraw,
			Amount:     amount,
			Status:     models.PaymentStatusPending,
			CreatedAt:  start,
		})
	})
	if err != nil {
		return 0, err
	}

	// A liquidação já está durável; só agora o valor sai da custodial.
	txSignature, payErr := s.Gateway.Payout(ctx, payee.SolanaPubKey, amount)
	if payErr != nil {
		if markErr := s.Store.SetPaymentResult(ctx, paymentID, "", models.PaymentStatusFailed); markErr != nil {
			s.Log.Errorw("falha ao marcar pagamento como failed", "payment_id", paymentID, "err", markErr)
		}
		if s.Metrics != nil {
			s.Metrics.PaymentsTotal.WithLabelValues(models.PaymentKindWithdraw, models.PaymentStatusFailed).Inc()
		}
		return 0, fmt.Errorf("liquidação gravada, mas o pagamento falhou: %w", payErr)
	}
	if err := s.Store.SetPaymentResult(ctx, paymentID, txSignature, models.PaymentStatusPending); err != nil {
		s.Log.Errorw("falha ao gravar assinatura do pagamento", "payment_id", paymentID, "err", err)
	}

	if s.Metrics != nil {
		s.Metrics.PaymentsTotal.WithLabelValues(models.PaymentKindWithdraw, models.PaymentStatusPending).Inc()
	}
	s.Log.Infow("saque de receita concluído",
		"property_id", propertyID, "investor", caller, "amount", amount, "signature", txSignature)
	return amount, nil
}
