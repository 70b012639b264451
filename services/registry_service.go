package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/metrics"
	"github.com/ferreirogomes/pedacin/models"
	"github.com/ferreirogomes/pedacin/storage"
)

// RegistryService administra o cadastro de imóveis fracionados.
type RegistryService struct {
	Store   storage.Store
	AdminID string // Administrador global, único autorizado a registrar imóveis
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewRegistryService(store storage.Store, adminID string, log *zap.SugaredLogger, m *metrics.Metrics) *RegistryService {
	return &RegistryService{Store: store, AdminID: adminID, Log: log, Metrics: m, Now: time.Now}
}

// Register cadastra um novo imóvel ativo, com oferta e preço fixos, e
// inicializa o pool de receita zerado. O id é sequencial, gerado pelo banco
// na mesma transação do insert.
func (s *RegistryService) Register(ctx context.Context, name, location string, totalSupply, pricePerUnit int64, caller string) (id int64, err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "register", start)(err) }()

	if caller != s.AdminID {
		return 0, models.ErrUnauthorized
	}
	if totalSupply <= 0 || pricePerUnit <= 0 || name == "" || location == "" {
		return 0, models.ErrInvalidInput
	}

	now := start
	err = s.Store.Transact(ctx, func(st storage.Store) error {
		id, err = st.CreateProperty(ctx, models.Property{
			Name:         name,
			Location:     location,
			TotalSupply:  totalSupply,
			PricePerUnit: pricePerUnit,
			IsActive:     true,
			Admin:        caller,
			IssuedUnits:  0,
			ProposalSeq:  0,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		return st.SavePool(ctx, models.RevenuePool{
			PropertyID: id,
			LastUpdate: now,
		})
	})
	if err != nil {
		return 0, err
	}

	s.Log.Infow("imóvel registrado", "id", id, "name", name, "total_supply", totalSupply)
	return id, nil
}

// Get busca um imóvel pelo id.
func (s *RegistryService) Get(ctx context.Context, id int64) (models.Property, bool, error) {
	return s.Store.GetProperty(ctx, id)
}

// Count informa quantos imóveis já foram registrados.
func (s *RegistryService) Count(ctx context.Context) (int64, error) {
	return s.Store.CountProperties(ctx)
}

// Deactivate desativa um imóvel em definitivo; não há caminho de reativação.
// Pode ser chamado pelo administrador global ou pelo administrador do imóvel.
func (s *RegistryService) Deactivate(ctx context.Context, id int64, caller string) (err error) {
	start := s.Now()
	defer func() { observe(s.Metrics, "deactivate", start)(err) }()

	err = s.Store.Transact(ctx, func(st storage.Store) error {
		p, found, err := st.GetPropertyForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}
		if caller != s.AdminID && caller != p.Admin {
			return models.ErrUnauthorized
		}
		p.IsActive = false
		return st.UpdateProperty(ctx, p)
	})
	if err != nil {
		return err
	}

	s.Log.Infow("imóvel desativado", "id", id, "caller", caller)
	return nil
}
