package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/storage"
)

// MockStore é uma implementação mock de storage.Store para testes de unidade.
type MockStore struct {
	mock.Mock
}

// Transact executa fn sobre a própria mock, sem transação real: os testes de
// unidade exercitam a lógica dos serviços, não o banco.
func (m *MockStore) Transact(_ context.Context, fn func(storage.Store) error) error {
	return fn(m)
}

func (m *MockStore) SaveInvestor(ctx context.Context, inv models.Investor) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockStore) GetInvestor(ctx context.Context, id string) (models.Investor, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Investor), args.Bool(1), args.Error(2)
}
func (m *MockStore) CreateProperty(ctx context.Context, p models.Property) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStore) GetProperty(ctx context.Context, id int64) (models.Property, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Property), args.Bool(1), args.Error(2)
}
func (m *MockStore) GetPropertyForUpdate(ctx context.Context, id int64) (models.Property, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Property), args.Bool(1), args.Error(2)
}
func (m *MockStore) UpdateProperty(ctx context.Context, p models.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockStore) CountProperties(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStore) GetHolding(ctx context.Context, propertyID int64, investorID string) (models.Holding, bool, error) {
	args := m.Called(ctx, propertyID, investorID)
	return args.Get(0).(models.Holding), args.Bool(1), args.Error(2)
}
func (m *MockStore) SaveHolding(ctx context.Context, h models.Holding) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}
func (m *MockStore) GetPool(ctx context.Context, propertyID int64) (models.RevenuePool, bool, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(models.RevenuePool), args.Bool(1), args.Error(2)
}
func (m *MockStore) SavePool(ctx context.Context, pool models.RevenuePool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}
func (m *MockStore) GetClaim(ctx context.Context, propertyID int64, investorID string) (models.Claim, bool, error) {
	args := m.Called(ctx, propertyID, investorID)
	return args.Get(0).(models.Claim), args.Bool(1), args.Error(2)
}
func (m *MockStore) SaveClaim(ctx context.Context, c models.Claim) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockStore) CreateProposal(ctx context.Context, p models.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockStore) GetProposal(ctx context.Context, propertyID, proposalID int64) (models.Proposal, bool, error) {
	args := m.Called(ctx, propertyID, proposalID)
	return args.Get(0).(models.Proposal), args.Bool(1), args.Error(2)
}
func (m *MockStore) UpdateProposal(ctx context.Context, p models.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockStore) GetVote(ctx context.Context, propertyID, proposalID int64, voter string) (models.Vote, bool, error) {
	args := m.Called(ctx, propertyID, proposalID, voter)
	return args.Get(0).(models.Vote), args.Bool(1), args.Error(2)
}
func (m *MockStore) SaveVote(ctx context.Context, v models.Vote) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockStore) SavePayment(ctx context.Context, pay models.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}
func (m *MockStore) SetPaymentResult(ctx context.Context, id, txSignature, status string) error {
	args := m.Called(ctx, id, txSignature, status)
	return args.Error(0)
}
func (m *MockStore) UpdatePaymentStatus(ctx context.Context, txSignature, status string) error {
	args := m.Called(ctx, txSignature, status)
	return args.Error(0)
}

// MockPaymentGateway é uma implementação mock de services.PaymentGateway.
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) PrepareCollect(ctx context.Context, fromPubKey string, lamports int64) (string, error) {
	args := m.Called(ctx, fromPubKey, lamports)
	return args.String(0), args.Error(1)
}
func (m *MockPaymentGateway) SubmitCollect(ctx context.Context, signedTxBase64 string) (string, error) {
	args := m.Called(ctx, signedTxBase64)
	return args.String(0), args.Error(1)
}
func (m *MockPaymentGateway) Payout(ctx context.Context, toPubKey string, lamports int64) (string, error) {
	args := m.Called(ctx, toPubKey, lamports)
	return args.String(0), args.Error(1)
}
