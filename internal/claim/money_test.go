package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyStringHasSixFractionalDigits(t *testing.T) {
	m := NewMoney(1234.5)
	assert.Equal(t, "1234.500000", m.String())
}

func TestMoneyChargeHasTwoFractionalDigits(t *testing.T) {
	m := NewMoney(1234.5)
	assert.Equal(t, "1234.50", m.Charge())
}

func TestMoneyCents(t *testing.T) {
	m := NewMoney(12.34)
	assert.Equal(t, int64(1234), m.Cents())
}

func TestParseMoneyRoundTrip(t *testing.T) {
	m, err := ParseMoney("42.125")
	require.NoError(t, err)
	assert.InDelta(t, 42.125, m.Float64(), 0.000001)
}

func TestParseMoneyEmptyStringIsZero(t *testing.T) {
	m, err := ParseMoney("")
	require.NoError(t, err)
	assert.Equal(t, "0.000000", m.String())
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	_, err := ParseMoney("not-a-number")
	assert.Error(t, err)
}
