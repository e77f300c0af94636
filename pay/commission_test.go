package pay_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/pay"
)

func TestRookieCommission_Tiers(t *testing.T) {
	cases := []struct {
		box2 int
		want int64
	}{
		{0, 0},
		{1, 0},
		{2, 25},
		{3, 40},
		{4, 70},
		{5, 85},
		{6, 120},
		{7, 135},
		{8, 175},
		{9, 190},
		{10, 235},
	}
	for _, c := range cases {
		got := pay.RookieCommission(c.box2)
		assert.True(t, got.Equal(decimal.NewFromInt(c.want)),
			"box2=%d: want %d, got %s", c.box2, c.want, got)
	}
}

func TestRookieCommission_AboveTenContinuesLinearly(t *testing.T) {
	assert.True(t, pay.RookieCommission(11).Equal(decimal.NewFromInt(250)))
	assert.True(t, pay.RookieCommission(12).Equal(decimal.NewFromInt(265)))
	assert.True(t, pay.RookieCommission(20).Equal(decimal.NewFromInt(385)))
}

func TestRookieCommission_NegativeTreatedAsZero(t *testing.T) {
	assert.True(t, pay.RookieCommission(-3).IsZero())
}
