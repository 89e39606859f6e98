// Package scanner simulates barcode and QR scanning. No decoding happens
// anywhere in this package: every "detected" code is drawn from a random
// number generator. The randomness is kept behind this package boundary so
// it cannot be mistaken for a real decoder.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	ErrEmptyCode   = errors.New("code is empty")
	ErrUnknownKind = errors.New("unknown code kind")
)

// CodeKind selects the code format to simulate
type CodeKind string

const (
	KindBarcode CodeKind = "barcode" // 12-digit
	KindEAN     CodeKind = "ean"     // 13-digit European Article Number
)

const (
	barcodeMin = 100_000_000_000     // 10^11
	eanMin     = 1_000_000_000_000   // 10^12
)

// GenerateCode produces a pseudo-random numeric code of the fixed digit
// length for kind: 12 digits for barcode, 13 for EAN.
func GenerateCode(kind CodeKind) (string, error) {
	switch kind {
	case KindBarcode:
		return strconv.FormatInt(rand.Int64N(9*barcodeMin)+barcodeMin, 10), nil
	case KindEAN:
		return strconv.FormatInt(rand.Int64N(9*eanMin)+eanMin, 10), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// SubmitManualCode accepts a manually typed code. Whitespace is trimmed and
// an empty submission is rejected. No digit-count or checksum validation is
// performed, the trimmed text is returned verbatim.
func SubmitManualCode(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyCode
	}
	return trimmed, nil
}

// DecodeImage pretends to decode a barcode from an uploaded image. The image
// content is read and discarded; the returned code is random. This is a
// non-functional simulation stand-in, not a decoder.
func DecodeImage(r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return GenerateCode(KindBarcode)
}
