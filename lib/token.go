package lib

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateSKU builds a SKU from the first letters of name and a random suffix,
// e.g. "CHL-7Q2K" for "Chlorine tablets".
func GenerateSKU(name string, suffixLength int) (string, error) {
	namePart := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.ToUpper(name))
	if len(namePart) > 3 {
		namePart = namePart[:3]
	}
	if namePart == "" {
		namePart = "ITM"
	}

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, suffixLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}

	return fmt.Sprintf("%s-%s", namePart, string(b)), nil
}
