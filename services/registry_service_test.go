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

var testTime = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newRegistryService(store *MockStore) *services.RegistryService {
	s := services.NewRegistryService(store, "admin-global", zap.NewNop().Sugar(), nil)
	s.Now = func() time.Time { return testTime }
	return s
}

// TestRegister verifica o cadastro de um imóvel e a criação do pool zerado.
func TestRegister(t *testing.T) {
	mockStore := new(MockStore)
	service := newRegistryService(mockStore)

	expected := models.Property{
		Name:         "Edifício Ipê",
		Location:     "Belo Horizonte",
		TotalSupply:  100,
		PricePerUnit: 10,
		IsActive:     true,
		Admin:        "admin-global",
		CreatedAt:    testTime,
	}
	mockStore.On("CreateProperty", mock.Anything, expected).Return(int64(1), nil).Once()
	mockStore.On("SavePool", mock.Anything, models.RevenuePool{PropertyID: 1, LastUpdate: testTime}).Return(nil).Once()

	id, err := service.Register(context.Background(), "Edifício Ipê", "Belo Horizonte", 100, 10, "admin-global")

	assert.Nil(t, err)
	assert.Equal(t, int64(1), id)
	mockStore.AssertExpectations(t)
}

// TestRegisterUnauthorized verifica que apenas o administrador global registra imóveis.
func TestRegisterUnauthorized(t *testing.T) {
	mockStore := new(MockStore)
	service := newRegistryService(mockStore)

	_, err := service.Register(context.Background(), "Edifício Ipê", "Belo Horizonte", 100, 10, "investor-1")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	mockStore.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything)
}

// TestRegisterInvalidInput verifica as validações de oferta, preço e textos.
func TestRegisterInvalidInput(t *testing.T) {
	mockStore := new(MockStore)
	service := newRegistryService(mockStore)
	ctx := context.Background()

	_, err := service.Register(ctx, "Edifício Ipê", "Belo Horizonte", 0, 10, "admin-global")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = service.Register(ctx, "Edifício Ipê", "Belo Horizonte", 100, 0, "admin-global")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = service.Register(ctx, "", "Belo Horizonte", 100, 10, "admin-global")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = service.Register(ctx, "Edifício Ipê", "", 100, 10, "admin-global")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	mockStore.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything)
}

// TestDeactivate verifica a desativação pelo administrador do imóvel.
func TestDeactivate(t *testing.T) {
	mockStore := new(MockStore)
	service := newRegistryService(mockStore)

	active := models.Property{ID: 1, Admin: "investor-1", IsActive: true, TotalSupply: 100, PricePerUnit: 10}
	deactivated := active
	deactivated.IsActive = false

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(active, true, nil).Once()
	mockStore.On("UpdateProperty", mock.Anything, deactivated).Return(nil).Once()

	err := service.Deactivate(context.Background(), 1, "investor-1")

	assert.Nil(t, err)
	mockStore.AssertExpectations(t)
}

// TestDeactivateUnauthorized verifica que terceiros não desativam o imóvel.
func TestDeactivateUnauthorized(t *testing.T) {
	mockStore := new(MockStore)
	service := newRegistryService(mockStore)

	active := models.Property{ID: 1, Admin: "investor-1", IsActive: true}
	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(1)).Return(active, true, nil).Once()

	err := service.Deactivate(context.Background(), 1, "investor-2")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	mockStore.AssertNotCalled(t, "UpdateProperty", mock.Anything, mock.Anything)
}

// TestDeactivateNotFound verifica a desativação de imóvel inexistente.
func TestDeactivateNotFound(t *testing.T) {
	mockStore := new(MockStore)
	service := newRegistryService(mockStore)

	mockStore.On("GetPropertyForUpdate", mock.Anything, int64(9)).Return(models.Property{}, false, nil).Once()

	err := service.Deactivate(context.Background(), 9, "admin-global")

	assert.ErrorIs(t, err, models.ErrNotFound)
}
