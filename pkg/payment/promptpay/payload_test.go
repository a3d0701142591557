package promptpay

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_PhoneNumber(t *testing.T) {
	payload, err := BuildPayload("0812345678", 150.50)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payload, "000201"), "payload format indicator first")
	assert.Contains(t, payload, "010212", "dynamic initiation when amount is set")
	assert.Contains(t, payload, "A000000677010111")
	assert.Contains(t, payload, "0066812345678", "leading zero replaced by country code")
	assert.Contains(t, payload, "5303764")
	assert.Contains(t, payload, "5406150.50")
	assert.Contains(t, payload, "5802TH")
}

func TestBuildPayload_PhoneNumberWithDashes(t *testing.T) {
	plain, err := BuildPayload("0812345678", 0)
	require.NoError(t, err)

	dashed, err := BuildPayload("081-234-5678", 0)
	require.NoError(t, err)

	assert.Equal(t, plain, dashed)
}

func TestBuildPayload_NationalID(t *testing.T) {
	payload, err := BuildPayload("1234567890123", 0)
	require.NoError(t, err)

	assert.Contains(t, payload, "02131234567890123", "national id carried verbatim in sub-field 02")
}

func TestBuildPayload_StaticWhenNoAmount(t *testing.T) {
	payload, err := BuildPayload("0812345678", 0)
	require.NoError(t, err)

	assert.Contains(t, payload, "010211", "static initiation without amount")
	assert.Contains(t, payload, "53037645802TH", "currency directly followed by country: no amount field")
}

func TestBuildPayload_CRCTrailer(t *testing.T) {
	payload, err := BuildPayload("0812345678", 99)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(payload), 8)
	body := payload[:len(payload)-4]
	crc := payload[len(payload)-4:]

	assert.True(t, strings.HasSuffix(body, "6304"), "CRC field id and length precede the checksum")
	assert.Equal(t, fmt.Sprintf("%04X", crc16(body)), crc)
	assert.Equal(t, strings.ToUpper(crc), crc, "checksum is uppercase hex")
}

func TestBuildPayload_InvalidTargets(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"Empty", ""},
		{"Too short", "08123"},
		{"Phone without leading zero", "8123456789"},
		{"Fourteen digits", "12345678901234"},
		{"Letters only", "not-a-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPayload(tt.target, 100)
			assert.ErrorIs(t, err, ErrInvalidTarget)
		})
	}
}

func TestBuildPayload_NegativeAmount(t *testing.T) {
	_, err := BuildPayload("0812345678", -1)
	assert.Error(t, err)
}

func TestCRC16_KnownVector(t *testing.T) {
	// CRC-16/CCITT-FALSE check value for "123456789".
	assert.Equal(t, uint16(0x29B1), crc16("123456789"))
}
