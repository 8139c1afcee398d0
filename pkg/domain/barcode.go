package domain

import (
	"strings"

	"medscan/pkg/serrors"
)

// BarcodeCode is a validated EAN-8 or EAN-13 barcode. Values are only obtained
// through ParseBarcode, so holding one means the digits were checked.
type BarcodeCode string

// BarcodeFormat names the symbology of a barcode.
type BarcodeFormat string

const (
	// FormatEAN8 is the 8 digit EAN symbology.
	FormatEAN8 BarcodeFormat = "EAN-8"
	// FormatEAN13 is the 13 digit EAN symbology.
	FormatEAN13 BarcodeFormat = "EAN-13"
)

// ParseBarcode validates raw scanner output. Surrounding whitespace is ignored;
// anything other than exactly 8 or 13 ASCII digits is a validation error.
// The GS1 check digit is not enforced, see HasValidCheckDigit.
func ParseBarcode(raw string) (BarcodeCode, error) {
	code := strings.TrimSpace(raw)
	if len(code) != 8 && len(code) != 13 {
		return "", serrors.With(serrors.ErrValidation, "barcode must have 8 or 13 digits, got %d characters", len(code))
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", serrors.With(serrors.ErrValidation, "barcode must contain digits only")
		}
	}

	return BarcodeCode(code), nil
}

// Format reports the symbology inferred from the code length.
func (b BarcodeCode) Format() BarcodeFormat {
	if len(b) == 8 {
		return FormatEAN8
	}

	return FormatEAN13
}

// HasValidCheckDigit reports whether the last digit matches the GS1 mod-10
// checksum of the preceding digits.
func (b BarcodeCode) HasValidCheckDigit() bool {
	if len(b) != 8 && len(b) != 13 {
		return false
	}

	sum := 0
	body := b[:len(b)-1]
	// weights alternate 3,1 starting from the digit next to the check digit
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if (len(body)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10

	return int(b[len(b)-1]-'0') == check
}

func (b BarcodeCode) String() string { return string(b) }
