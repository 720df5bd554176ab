package lib

import (
	"crypto/rand"
	"fmt"
	"time"
)

const invoiceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInvoiceNumber returns a number like INV-202610-7KQ2M. The month prefix
// keeps numbers roughly sortable; the suffix is random, so callers retry on a
// unique violation.
func GenerateInvoiceNumber(now time.Time) (string, error) {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate invoice number: %w", err)
	}
	for i := range suffix {
		suffix[i] = invoiceChars[int(suffix[i])%len(invoiceChars)]
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("200601"), suffix), nil
}
