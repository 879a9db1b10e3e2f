package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"45.50", 4550},
		{"120", 12000},
		{"0.01", 1},
		{"45.500", 4550},
	}
	for _, c := range cases {
		got, err := ParseMoney(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseMoney_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.005", "NaN", "Inf", "99999999999999999999999"} {
		_, err := ParseMoney(in)
		assert.Error(t, err, in)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money(4550))
	require.NoError(t, err)
	assert.Equal(t, `"45.50"`, string(b))

	var fromNumber, fromString Money
	require.NoError(t, json.Unmarshal([]byte(`120.5`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"120.50"`), &fromString))
	assert.Equal(t, Money(12050), fromNumber)
	assert.Equal(t, fromNumber, fromString)
}

func TestMoneyJSON_RejectsMalformed(t *testing.T) {
	for _, in := range []string{`"45.50`, `45.50"`, `""`, `"abc"`, `true`, `{}`, `"45.555"`} {
		var m Money
		assert.Error(t, m.UnmarshalJSON([]byte(in)), in)
	}

	var m Money = 99
	require.NoError(t, m.UnmarshalJSON([]byte(`null`)))
	assert.Zero(t, m)

	require.NoError(t, m.UnmarshalJSON([]byte(`45.5`)))
	assert.Equal(t, Money(4550), m)

	var body struct {
		Amount Money `json:"amount"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"amount":""}`), &body))
}
