package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config reúne a configuração do serviço, carregada do ambiente.
type Config struct {
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8080"`
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	SolanaRPCURL string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	SolanaWSURL  string `envconfig:"SOLANA_WS_URL" default:"wss://api.devnet.solana.com"`
	// Chave privada (Base58) da carteira custodial que recebe compras e
	// depósitos e assina os saques.
	CustodialKey string `envconfig:"CUSTODIAL_KEY" required:"true"`
	// Identidade do administrador global, único autorizado a registrar imóveis.
	AdminID string `envconfig:"ADMIN_ID" required:"true"`
}

// Load carrega a configuração a partir das variáveis de ambiente.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("pedacin", &cfg); err != nil {
		return Config{}, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	return cfg, nil
}
