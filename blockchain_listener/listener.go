package blockchain_listener

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/metrics"
	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/storage"
)

// PaymentListener escuta a conta custodial na Solana para reconciliar o
// status dos pagamentos registrados. A fonte de verdade é a blockchain: o
// ledger grava pagamentos como pending e o listener os confirma (ou marca
// como failed) conforme as transações são finalizadas.
type PaymentListener struct {
	RPCClient *rpc.Client
	WSURL     string
	Store     storage.Store
	Custodial solana.PublicKey
	Log       *zap.SugaredLogger
	Metrics   *metrics.Metrics
}

// NewPaymentListener cria uma nova instância do listener.
func NewPaymentListener(rpcEndpoint, wsEndpoint string, store storage.Store, custodial solana.PublicKey, log *zap.SugaredLogger, m *metrics.Metrics) *PaymentListener {
	return &PaymentListener{
		RPCClient: rpc.New(rpcEndpoint),
		WSURL:     wsEndpoint,
		Store:     store,
		Custodial: custodial,
		Log:       log,
		Metrics:   m,
	}
}

// StartListening inicia a escuta por transações que mencionem a conta
// custodial, reconectando em caso de erro, até o contexto ser cancelado.
func (l *PaymentListener) StartListening(ctx context.Context) {
	l.Log.Info("Iniciando listener de pagamentos da blockchain...")

	for ctx.Err() == nil {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.Log.Errorw("listener interrompido, reconectando", "err", err)
			time.Sleep(5 * time.Second)
		}
	}
}

func (l *PaymentListener) listen(ctx context.Context) error {
	wsClient, err := ws.Connect(ctx, l.WSURL)
	if err != nil {
		return err
	}
	defer wsClient.Close()

	sub, err := wsClient.LogsSubscribeMentions(l.Custodial, rpc.CommitmentFinalized)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		got, err := sub.Recv(ctx)
		if err != nil {
			return err
		}
		l.processResult(ctx, got)
	}
}

// processResult reconcilia um pagamento a partir do resultado finalizado.
func (l *PaymentListener) processResult(ctx context.Context, got *ws.LogResult) {
	signature := got.Value.Signature.String()

	status := models.PaymentStatusConfirmed
	if got.Value.Err != nil {
		status = models.PaymentStatusFailed
		l.Log.Warnw("transação falhou na Solana", "signature", signature, "err", got.Value.Err)
	}

	if err := l.Store.UpdatePaymentStatus(ctx, signature, status); err != nil {
		l.Log.Errorw("falha ao reconciliar pagamento", "signature", signature, "err", err)
		return
	}

	if l.Metrics != nil {
		l.Metrics.PaymentsTotal.WithLabelValues("reconciled", status).Inc()
	}
	l.Log.Infow("pagamento reconciliado", "signature", signature, "status", status)
}
