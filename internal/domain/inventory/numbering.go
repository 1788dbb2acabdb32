package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefijos de documentos numerados.
const (
	PrefixPurchaseOrder = "PO"
	PrefixTransfer      = "TR"
)

// FormatDocumentNumber PREFIJO-AAAA-NNNN.
func FormatDocumentNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// ParseDocumentNumber separa PREFIJO-AAAA-NNNN. ok=false si el formato no coincide.
func ParseDocumentNumber(number string) (prefix string, year, seq int, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return "", 0, 0, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, false
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 0 {
		return "", 0, 0, false
	}
	return parts[0], year, seq, true
}

// NextDocumentNumber = 1 + máximo consecutivo existente del prefijo en el año.
// Se permiten huecos; nunca se reutiliza un número.
func NextDocumentNumber(prefix string, year int, existing []string) string {
	maxSeq := 0
	for _, n := range existing {
		p, y, seq, ok := ParseDocumentNumber(n)
		if !ok || p != prefix || y != year {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatDocumentNumber(prefix, year, maxSeq+1)
}
