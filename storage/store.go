package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ferreirogomes/pedacin/models"
)

// Store é a interface de persistência consumida pelos serviços. Transact
// executa fn dentro de uma única transação: toda operação pública do ledger
// roda inteira em uma transação, com o registro do imóvel travado via
// SELECT ... FOR UPDATE, serializando escritores concorrentes por imóvel.
type Store interface {
	Transact(ctx context.Context, fn func(Store) error) error

	SaveInvestor(ctx context.Context, inv models.Investor) error
	GetInvestor(ctx context.Context, id string) (models.Investor, bool, error)

	CreateProperty(ctx context.Context, p models.Property) (int64, error)
	GetProperty(ctx context.Context, id int64) (models.Property, bool, error)
	GetPropertyForUpdate(ctx context.Context, id int64) (models.Property, bool, error)
	UpdateProperty(ctx context.Context, p models.Property) error
	CountProperties(ctx context.Context) (int64, error)

	GetHolding(ctx context.Context, propertyID int64, investorID string) (models.Holding, bool, error)
	SaveHolding(ctx context.Context, h models.Holding) error

	GetPool(ctx context.Context, propertyID int64) (models.RevenuePool, bool, error)
	SavePool(ctx context.Context, pool models.RevenuePool) error

	GetClaim(ctx context.Context, propertyID int64, investorID string) (models.Claim, bool, error)
	SaveClaim(ctx context.Context, c models.Claim) error

	CreateProposal(ctx context.Context, p models.Proposal) error
	GetProposal(ctx context.Context, propertyID, proposalID int64) (models.Proposal, bool, error)
	UpdateProposal(ctx context.Context, p models.Proposal) error

	GetVote(ctx context.Context, propertyID, proposalID int64, voter string) (models.Vote, bool, error)
	SaveVote(ctx context.Context, v models.Vote) error

	SavePayment(ctx context.Context, pay models.Payment) error
	SetPaymentResult(ctx context.Context, id, txSignature, status string) error
	UpdatePaymentStatus(ctx context.Context, txSignature, status string) error
}

// conn implementa as consultas sobre uma conexão ou transação sqlx.
type conn struct {
	ext sqlx.ExtContext
}

// txStore é um Store limitado a uma transação já aberta.
type txStore struct {
	conn
	tx *sqlx.Tx
}

// Transact abre uma transação e executa fn dentro dela.
func (d *DB) Transact(ctx context.Context, fn func(Store) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	s := &txStore{conn: conn{ext: tx}, tx: tx}
	if err := fn(s); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.Errorw("falha ao reverter transação", "err", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}
	return nil
}

// Transact em um txStore reutiliza a transação corrente.
func (s *txStore) Transact(_ context.Context, fn func(Store) error) error {
	return fn(s)
}

func (c conn) SaveInvestor(ctx context.Context, inv models.Investor) error {
	query := `INSERT INTO investors (id, name, email, solana_pubkey, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = $2, email = $3, solana_pubkey = $4`
	_, err := c.ext.ExecContext(ctx, query, inv.ID, inv.Name, inv.Email, inv.SolanaPubKey, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar investidor: %w", err)
	}
	return nil
}

func (c conn) GetInvestor(ctx context.Context, id string) (models.Investor, bool, error) {
	var inv models.Investor
	err := sqlx.GetContext(ctx, c.ext, &inv, `SELECT * FROM investors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Investor{}, false, nil
	}
	if err != nil {
		return models.Investor{}, false, fmt.Errorf("falha ao buscar investidor: %w", err)
	}
	return inv, true, nil
}

func (c conn) CreateProperty(ctx context.Context, p models.Property) (int64, error) {
	query := `INSERT INTO properties
		(name, location, total_supply, price_per_unit, is_active, admin, issued_units, proposal_seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	var id int64
	err := sqlx.GetContext(ctx, c.ext, &id, query,
		p.Name, p.Location, p.TotalSupply, p.PricePerUnit, p.IsActive, p.Admin, p.IssuedUnits, p.ProposalSeq, p.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("falha ao criar imóvel: %w", err)
	}
	return id, nil
}

func (c conn) GetProperty(ctx context.Context, id int64) (models.Property, bool, error) {
	return c.getProperty(ctx, id, `SELECT * FROM properties WHERE id = $1`)
}

// GetPropertyForUpdate trava o registro do imóvel até o fim da transação.
func (c conn) GetPropertyForUpdate(ctx context.Context, id int64) (models.Property, bool, error) {
	return c.getProperty(ctx, id, `SELECT * FROM properties WHERE id = $1 FOR UPDATE`)
}

func (c conn) getProperty(ctx context.Context, id int64, query string) (models.Property, bool, error) {
	var p models.Property
	err := sqlx.GetContext(ctx, c.ext, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, false, nil
	}
	if err != nil {
		return models.Property{}, false, fmt.Errorf("falha ao buscar imóvel: %w", err)
	}
	return p, true, nil
}

func (c conn) UpdateProperty(ctx context.Context, p models.Property) error {
	query := `UPDATE properties
		SET is_active = $1, issued_units = $2, proposal_seq = $3
		WHERE id = $4`
	_, err := c.ext.ExecContext(ctx, query, p.IsActive, p.IssuedUnits, p.ProposalSeq, p.ID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar imóvel: %w", err)
	}
	return nil
}

func (c conn) CountProperties(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, c.ext, &n, `SELECT COUNT(*) FROM properties`); err != nil {
		return 0, fmt.Errorf("falha ao contar imóveis: %w", err)
	}
	return n, nil
}

func (c conn) GetHolding(ctx context.Context, propertyID int64, investorID string) (models.Holding, bool, error) {
	var h models.Holding
	query := `SELECT * FROM holdings WHERE property_id = $1 AND investor_id = $2`
	err := sqlx.GetContext(ctx, c.ext, &h, query, propertyID, investorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Holding{}, false, nil
	}
	if err != nil {
		return models.Holding{}, false, fmt.Errorf("falha ao buscar saldo: %w", err)
	}
	return h, true, nil
}

func (c conn) SaveHolding(ctx context.Context, h models.Holding) error {
	query := `INSERT INTO holdings (property_id, investor_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (property_id, investor_id) DO UPDATE SET balance = $3`
	_, err := c.ext.ExecContext(ctx, query, h.PropertyID, h.InvestorID, h.Balance)
	if err != nil {
		return fmt.Errorf("falha ao salvar saldo: %w", err)
	}
	return nil
}

func (c conn) GetPool(ctx context.Context, propertyID int64) (models.RevenuePool, bool, error) {
	var pool models.RevenuePool
	err := sqlx.GetContext(ctx, c.ext, &pool, `SELECT * FROM revenue_pools WHERE property_id = $1`, propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RevenuePool{}, false, nil
	}
	if err != nil {
		return models.RevenuePool{}, false, fmt.Errorf("falha ao buscar pool de receita: %w", err)
	}
	return pool, true, nil
}

func (c conn) SavePool(ctx context.Context, pool models.RevenuePool) error {
	query := `INSERT INTO revenue_pools (property_id, total_revenue, revenue_per_unit, last_update)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (property_id) DO UPDATE SET total_revenue = $2, revenue_per_unit = $3, last_update = $4`
	_, err := c.ext.ExecContext(ctx, query, pool.PropertyID, pool.TotalRevenue, pool.RevenuePerUnit, pool.LastUpdate)
	if err != nil {
		return fmt.Errorf("falha ao salvar pool de receita: %w", err)
	}
	return nil
}

func (c conn) GetClaim(ctx context.Context, propertyID int64, investorID string) (models.Claim, bool, error) {
	var cl models.Claim
	query := `SELECT * FROM claims WHERE property_id = $1 AND investor_id = $2`
	err := sqlx.GetContext(ctx, c.ext, &cl, query, propertyID, investorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Claim{}, false, nil
	}
	if err != nil {
		return models.Claim{}, false, fmt.Errorf("falha ao buscar liquidação: %w", err)
	}
	return cl, true, nil
}

func (c conn) SaveClaim(ctx context.Context, cl models.Claim) error {
	query := `INSERT INTO claims (property_id, investor_id, settled_per_unit, last_claim_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (property_id, investor_id) DO UPDATE SET settled_per_unit = $3, last_claim_at = $4`
	_, err := c.ext.ExecContext(ctx, query, cl.PropertyID, cl.InvestorID, cl.SettledPerUnit, cl.LastClaimAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar liquidação: %w", err)
	}
	return nil
}

func (c conn) CreateProposal(ctx context.Context, p models.Proposal) error {
	query := `INSERT INTO proposals
		(property_id, proposal_id, title, description, category, creator, start_at, end_at, yes_votes, no_votes, is_executed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := c.ext.ExecContext(ctx, query,
		p.PropertyID, p.ProposalID, p.Title, p.Description, p.Category, p.Creator,
		p.StartAt, p.EndAt, p.YesVotes, p.NoVotes, p.IsExecuted)
	if err != nil {
		return fmt.Errorf("falha ao criar proposta: %w", err)
	}
	return nil
}

func (c conn) GetProposal(ctx context.Context, propertyID, proposalID int64) (models.Proposal, bool, error) {
	var p models.Proposal
	query := `SELECT * FROM proposals WHERE property_id = $1 AND proposal_id = $2`
	err := sqlx.GetContext(ctx, c.ext, &p, query, propertyID, proposalID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Proposal{}, false, nil
	}
	if err != nil {
		return models.Proposal{}, false, fmt.Errorf("falha ao buscar proposta: %w", err)
	}
	return p, true, nil
}

func (c conn) UpdateProposal(ctx context.Context, p models.Proposal) error {
	query := `UPDATE proposals
		SET yes_votes = $1, no_votes = $2, is_executed = $3
		WHERE property_id = $4 AND proposal_id = $5`
	_, err := c.ext.ExecContext(ctx, query, p.YesVotes, p.NoVotes, p.IsExecuted, p.PropertyID, p.ProposalID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar proposta: %w", err)
	}
	return nil
}

func (c conn) GetVote(ctx context.Context, propertyID, proposalID int64, voter string) (models.Vote, bool, error) {
	var v models.Vote
	query := `SELECT * FROM votes WHERE property_id = $1 AND proposal_id = $2 AND voter = $3`
	err := sqlx.GetContext(ctx, c.ext, &v, query, propertyID, proposalID, voter)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("falha ao buscar voto: %w", err)
	}
	return v, true, nil
}

func (c conn) SaveVote(ctx context.Context, v models.Vote) error {
	query := `INSERT INTO votes (property_id, proposal_id, voter, support, weight)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (property_id, proposal_id, voter) DO UPDATE SET support = $4, weight = $5`
	_, err := c.ext.ExecContext(ctx, query, v.PropertyID, v.ProposalID, v.Voter, v.Support, v.Weight)
	if err != nil {
		return fmt.Errorf("falha ao salvar voto: %w", err)
	}
	return nil
}

func (c conn) SavePayment(ctx context.Context, pay models.Payment) error {
	query := `INSERT INTO payments
		(id, property_id, investor_id, kind, amount, tx_signature, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := c.ext.ExecContext(ctx, query,
		pay.ID, pay.PropertyID, pay.InvestorID, pay.Kind, pay.Amount, pay.TxSignature, pay.Status, pay.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao registrar pagamento: %w", err)
	}
	return nil
}

// SetPaymentResult grava a assinatura e o status de um pagamento já registrado.
func (c conn) SetPaymentResult(ctx context.Context, id, txSignature, status string) error {
	query := `UPDATE payments SET tx_signature = $1, status = $2 WHERE id = $3`
	_, err := c.ext.ExecContext(ctx, query, txSignature, status, id)
	if err != nil {
		return fmt.Errorf("falha ao atualizar pagamento: %w", err)
	}
	return nil
}

// UpdatePaymentStatus é usado pelo listener para reconciliar confirmações.
func (c conn) UpdatePaymentStatus(ctx context.Context, txSignature, status string) error {
	query := `UPDATE payments SET status = $1 WHERE tx_signature = $2`
	_, err := c.ext.ExecContext(ctx, query, status, txSignature)
	if err != nil {
		return fmt.Errorf("falha ao atualizar status do pagamento: %w", err)
	}
	return nil
}
