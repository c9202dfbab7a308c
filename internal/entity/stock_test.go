package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceApply(t *testing.T) {
	base := Balance{TotalQty: 10, DelhiQty: 6, SouthQty: 4}

	tests := []struct {
		name      string
		balance   Balance
		godown    Godown
		qty       float64
		direction string
		want      Balance
		wantErr   bool
	}{
		{
			name: "in delhi", balance: base, godown: GodownDelhi, qty: 5, direction: StockIn,
			want: Balance{TotalQty: 15, DelhiQty: 11, SouthQty: 4},
		},
		{
			name: "in south", balance: base, godown: GodownSouth, qty: 2.5, direction: StockIn,
			want: Balance{TotalQty: 12.5, DelhiQty: 6, SouthQty: 6.5},
		},
		{
			name: "out delhi", balance: base, godown: GodownDelhi, qty: 6, direction: StockOut,
			want: Balance{TotalQty: 4, DelhiQty: 0, SouthQty: 4},
		},
		{
			name: "out south to zero", balance: base, godown: GodownSouth, qty: 4, direction: StockOut,
			want: Balance{TotalQty: 6, DelhiQty: 6, SouthQty: 0},
		},
		{
			name: "out exceeds godown", balance: base, godown: GodownSouth, qty: 5, direction: StockOut,
			wantErr: true,
		},
		{
			name: "out from empty", balance: Balance{}, godown: GodownDelhi, qty: 1, direction: StockOut,
			wantErr: true,
		},
		{
			name: "zero qty rejected", balance: base, godown: GodownDelhi, qty: 0, direction: StockIn,
			wantErr: true,
		},
		{
			name: "negative qty rejected", balance: base, godown: GodownDelhi, qty: -3, direction: StockIn,
			wantErr: true,
		},
		{
			name: "unknown godown rejected", balance: base, godown: Godown("EAST"), qty: 1, direction: StockIn,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.balance.Apply(tt.godown, tt.qty, tt.direction)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBalanceApplyDoesNotMutateReceiver(t *testing.T) {
	base := Balance{TotalQty: 10, DelhiQty: 6, SouthQty: 4}
	_, err := base.Apply(GodownDelhi, 3, StockOut)
	assert.NoError(t, err)
	assert.Equal(t, Balance{TotalQty: 10, DelhiQty: 6, SouthQty: 4}, base)
}

func TestBalanceAvailable(t *testing.T) {
	b := Balance{TotalQty: 10, DelhiQty: 7, SouthQty: 3}
	assert.Equal(t, 7.0, b.Available(GodownDelhi))
	assert.Equal(t, 3.0, b.Available(GodownSouth))
}
