// Package promptpay builds EMVCo merchant-presented QR payloads for the
// Thai PromptPay rail. The payload string is returned to clients, which
// render it as a QR image themselves.
package promptpay

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTarget = errors.New("promptpay target must be a Thai phone number or a 13-digit national id")

const (
	idPayloadFormat       = "00"
	idPointOfInitiation   = "01"
	idMerchantAccountInfo = "29"
	idCurrency            = "53"
	idAmount              = "54"
	idCountry             = "58"
	idCRC                 = "63"

	payloadFormatEMV = "01"
	// 11 = static (reusable), 12 = dynamic (single payment with amount).
	initiationStatic  = "11"
	initiationDynamic = "12"

	promptPayAID = "A000000677010111"
	currencyTHB  = "764"
	countryTH    = "TH"
)

// BuildPayload assembles the payload for a transfer to target. Target is
// either a Thai phone number ("0812345678", with or without dashes) or a
// 13-digit national id. A zero amount produces a static QR the payer fills
// in themselves.
func BuildPayload(target string, amount float64) (string, error) {
	account, err := formatTarget(target)
	if err != nil {
		return "", err
	}
	if amount < 0 {
		return "", fmt.Errorf("amount must not be negative: %f", amount)
	}

	initiation := initiationStatic
	if amount > 0 {
		initiation = initiationDynamic
	}

	var b strings.Builder
	b.WriteString(tlv(idPayloadFormat, payloadFormatEMV))
	b.WriteString(tlv(idPointOfInitiation, initiation))
	b.WriteString(tlv(idMerchantAccountInfo, tlv("00", promptPayAID)+account))
	b.WriteString(tlv(idCurrency, currencyTHB))
	if amount > 0 {
		b.WriteString(tlv(idAmount, fmt.Sprintf("%.2f", amount)))
	}
	b.WriteString(tlv(idCountry, countryTH))

	// The CRC covers everything up to and including its own id and length.
	payload := b.String() + idCRC + "04"
	return payload + fmt.Sprintf("%04X", crc16(payload)), nil
}

// formatTarget normalizes the proxy value into its TLV form: phone numbers
// become sub-field 01 as 0066 plus the number without its leading zero,
// national ids become sub-field 02 verbatim.
func formatTarget(target string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, target)

	switch {
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		return tlv("01", "0066"+digits[1:]), nil
	case len(digits) == 13:
		return tlv("02", digits), nil
	default:
		return "", ErrInvalidTarget
	}
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), the checksum EMV
// QR payloads carry in field 63.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
