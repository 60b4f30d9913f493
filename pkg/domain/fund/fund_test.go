package fund

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPct = Percentages{
	CapitalBase: decimal.NewFromInt(40),
	PrizeFund:   decimal.NewFromInt(40),
	NetProfit:   decimal.NewFromInt(20),
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name                      string
		income                    string
		capital, prize, netProfit string
	}{
		{"round", "1000", "400", "400", "200"},
		{"zero", "0", "0", "0", "0"},
		{"cents", "123.45", "49.38", "49.38", "24.69"},
		{"truncation", "0.01", "0", "0", "0.01"},
		{"odd", "333.33", "133.33", "133.33", "66.67"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			income := decimal.RequireFromString(tc.income)
			c, p, n, err := Split(income, defaultPct)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.capital).Equal(c), "capital %s", c)
			assert.True(t, decimal.RequireFromString(tc.prize).Equal(p), "prize %s", p)
			assert.True(t, decimal.RequireFromString(tc.netProfit).Equal(n), "net %s", n)
			assert.True(t, income.Equal(c.Add(p).Add(n)))
		})
	}
}

func TestSplit_Negative(t *testing.T) {
	_, _, _, err := Split(decimal.NewFromInt(-1), defaultPct)
	assert.ErrorIs(t, err, ErrNegativeIncome)
}

func TestPercentagesValidate(t *testing.T) {
	assert.NoError(t, defaultPct.Validate())

	bad := Percentages{
		CapitalBase: decimal.NewFromInt(50),
		PrizeFund:   decimal.NewFromInt(40),
		NetProfit:   decimal.NewFromInt(20),
	}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPercentages)

	neg := Percentages{
		CapitalBase: decimal.NewFromInt(110),
		PrizeFund:   decimal.NewFromInt(-10),
		NetProfit:   decimal.Zero,
	}
	assert.ErrorIs(t, neg.Validate(), ErrInvalidPercentages)
}

func TestNew(t *testing.T) {
	ws := time.Date(2025, 1, 6, 13, 45, 0, 0, time.UTC)
	f, err := New(ws, decimal.NewFromInt(1000), defaultPct)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), f.WeekStart)
	assert.Equal(t, int64(400), f.PrizePoints())
	assert.Nil(t, f.LotteryID)
}
