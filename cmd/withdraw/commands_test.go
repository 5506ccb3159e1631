package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

func TestParseQuantities(t *testing.T) {
	got, err := parseQuantities([]string{"0=2", "2=1", "0=1"})

	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 3, 2: 1}, got)
}

func TestParseQuantities_FormatoInvalido(t *testing.T) {
	for _, arg := range []string{"2", "a=1", "1=x"} {
		_, err := parseQuantities([]string{arg})
		assert.Error(t, err, arg)
	}
}

func TestSource_PedidoDirecto(t *testing.T) {
	assert.Equal(t, "Pedido directo", source(entity.AllocationKey{ProductCode: "P1"}))
	assert.Equal(t, "D2", source(entity.AllocationKey{ProductCode: "P1", OwnerCode: "D2", ExpiryDate: "2025-01-01"}))
}
