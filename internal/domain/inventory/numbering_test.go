package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

func TestNextDocumentNumber(t *testing.T) {
	assert.Equal(t, "PO-2026-0001", inventory.NextDocumentNumber(inventory.PrefixPurchaseOrder, 2026, nil))

	existing := []string{"PO-2026-0001", "PO-2026-0007", "PO-2025-0042", "TR-2026-0099", "basura"}
	assert.Equal(t, "PO-2026-0008", inventory.NextDocumentNumber(inventory.PrefixPurchaseOrder, 2026, existing),
		"huecos permitidos; sigue al máximo del año y prefijo")
	assert.Equal(t, "TR-2026-0100", inventory.NextDocumentNumber(inventory.PrefixTransfer, 2026, existing))
}

func TestParseDocumentNumber(t *testing.T) {
	prefix, year, seq, ok := inventory.ParseDocumentNumber("TR-2026-12345")
	assert.True(t, ok)
	assert.Equal(t, "TR", prefix)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 12345, seq)

	_, _, _, ok = inventory.ParseDocumentNumber("PO-2026")
	assert.False(t, ok)
	_, _, _, ok = inventory.ParseDocumentNumber("PO-AAAA-0001")
	assert.False(t, ok)
}
