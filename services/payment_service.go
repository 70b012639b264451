package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// PaymentGateway é o colaborador externo de transferência de valor. Cada
// chamada é atômica do ponto de vista do ledger: ou o valor se move por
// inteiro, ou a operação que a envolve é revertida.
type PaymentGateway interface {
	// PrepareCollect constrói uma transferência do investidor para a conta
	// custodial e a devolve serializada em Base64 para assinatura no cliente.
	PrepareCollect(ctx context.Context, fromPubKey string, lamports int64) (string, error)
	// SubmitCollect envia uma transferência já assinada pelo investidor.
	SubmitCollect(ctx context.Context, signedTxBase64 string) (string, error)
	// Payout transfere lamports da conta custodial para o investidor.
	Payout(ctx context.Context, toPubKey string, lamports int64) (string, error)
}

// SolanaPaymentService implementa PaymentGateway sobre a rede Solana usando
// transferências do system program. A carteira custodial paga as taxas de
// rede e assina os saques.
type SolanaPaymentService struct {
	RPCClient *rpc.Client
	Custodial solana.PrivateKey
	log       *zap.SugaredLogger
}

// NewSolanaPaymentService cria o serviço a partir do endpoint RPC e da chave
// privada custodial em Base58.
func NewSolanaPaymentService(rpcEndpoint, custodialKeyBase58 string, log *zap.SugaredLogger) (*SolanaPaymentService, error) {
	custodial, err := solana.PrivateKeyFromBase58(custodialKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada custodial: %w", err)
	}
	return &SolanaPaymentService{
		RPCClient: rpc.New(rpcEndpoint),
		Custodial: custodial,
		log:       log,
	}, nil
}

// CustodialPubKey expõe a chave pública da conta custodial (usada pelo listener).
func (s *SolanaPaymentService) CustodialPubKey() solana.PublicKey {
	return s.Custodial.PublicKey()
}

// PrepareCollect constrói a transação de cobrança, mas NÃO a assina com a
// chave do investidor; a custodial assina apenas como pagadora de taxas e o
// investidor completa a assinatura no frontend.
func (s *SolanaPaymentService) PrepareCollect(ctx context.Context, fromPubKey string, lamports int64) (string, error) {
	from, err := solana.PublicKeyFromBase58(fromPubKey)
	if err != nil {
		return "", fmt.Errorf("chave pública do investidor inválida: %w", err)
	}

	resp, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		uint64(lamports),
		from,
		s.Custodial.PublicKey(),
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.Custodial.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao criar transação de cobrança: %w", err)
	}

	// A custodial PRECISA assinar, pois é a pagadora das taxas.
	// O investidor assinará no frontend.
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.Custodial.PublicKey()) {
			return &s.Custodial
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("falha ao assinar transação pela custodial: %w", err)
	}

	serializedTx, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("falha ao serializar transação: %w", err)
	}

	return base64.StdEncoding.EncodeToString(serializedTx), nil
}

// SubmitCollect recebe a transação assinada pelo investidor e a envia para a rede.
func (s *SolanaPaymentService) SubmitCollect(ctx context.Context, signedTxBase64 string) (string, error) {
	signedTxBytes, err := base64.StdEncoding.DecodeString(signedTxBase64)
	if err != nil {
		return "", fmt.Errorf("falha ao decodificar transação assinada: %w", err)
	}

	tx, err := solana.TransactionFromBytes(signedTxBytes)
	if err != nil {
		return "", fmt.Errorf("falha ao deserializar transação: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("falha ao enviar transação assinada: %w", err)
	}
	s.log.Infow("cobrança enviada para a Solana", "signature", txID.String())

	return txID.String(), nil
}

// Payout transfere lamports da conta custodial para o investidor, assinando
// integralmente com a chave custodial.
func (s *SolanaPaymentService) Payout(ctx context.Context, toPubKey string, lamports int64) (string, error) {
	to, err := solana.PublicKeyFromBase58(toPubKey)
	if err != nil {
		return "", fmt.Errorf("chave pública do investidor inválida: %w", err)
	}

	resp, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		uint64(lamports),
		s.Custodial.PublicKey(),
		to,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.Custodial.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao criar transação de saque: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.Custodial.PublicKey()) {
			return &s.Custodial
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("falha ao assinar transação de saque: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("falha ao enviar transação de saque: %w", err)
	}
	s.log.Infow("saque enviado para a Solana", "signature", txID.String())

	return txID.String(), nil
}
