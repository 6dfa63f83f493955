package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

func TestErrorf_ConservaTipoYMensaje(t *testing.T) {
	err := domain.Errorf(domain.ErrInsufficientStock, "faltan %d unidades de %s", 3, "P-100")
	wrapped := fmt.Errorf("asignar: %w", err)

	assert.True(t, errors.Is(wrapped, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(wrapped, domain.ErrNotFound))
	assert.Equal(t, "faltan 3 unidades de P-100", domain.Message(wrapped))
}

func TestMessage_ErrorBase(t *testing.T) {
	assert.Equal(t, domain.ErrLockContended.Error(), domain.Message(domain.ErrLockContended))
}
