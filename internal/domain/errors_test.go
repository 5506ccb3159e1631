package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retiros-api/internal/domain"
)

func TestTaxonomia_ErrorsIsPorCategoria(t *testing.T) {
	cause := errors.New("connection refused")

	cases := []struct {
		name   string
		err    error
		target error
	}{
		{"validación", domain.NewValidationError("no hay distribuidor seleccionado"), domain.ErrValidation},
		{"fondos", &domain.InsufficientFundsError{Required: decimal.NewFromInt(10), Available: decimal.Zero}, domain.ErrInsufficientFunds},
		{"red", &domain.NetworkError{Op: "upsertCart", Err: cause}, domain.ErrNetwork},
		{"parcial", &domain.PartialCommitError{WithdrawalID: "w-1", Err: cause}, domain.ErrPartialCommit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("submit: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.target)
		})
	}
}

func TestNetworkError_DesenvuelveCausa(t *testing.T) {
	cause := errors.New("timeout")
	err := &domain.NetworkError{Op: "getCart", Status: 502, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestPartialCommitError_NoEsValidacion(t *testing.T) {
	err := &domain.PartialCommitError{WithdrawalID: "w-9", Err: errors.New("boom")}

	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "w-9")
}

func TestInsufficientFundsError_MensajeConDosDecimales(t *testing.T) {
	err := &domain.InsufficientFundsError{Required: decimal.RequireFromString("70"), Available: decimal.RequireFromString("12.5")}

	assert.Equal(t, "fondos insuficientes: requerido 70.00, disponible 12.50", err.Error())
}
