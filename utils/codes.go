package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns n random characters from an unambiguous A-Z/2-9 alphabet.
// rand.Int keeps the draw free of modulo bias.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateReferenceCode returns a booking reference like "K7QM-2XHD".
func GenerateReferenceCode() (string, error) {
	raw, err := GenerateCode(8)
	if err != nil {
		return "", err
	}
	return raw[:4] + "-" + raw[4:], nil
}
