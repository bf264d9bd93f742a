package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{
		Quantity: 4,
		Price:    decimal.RequireFromString("9.99"),
	}
	require.True(t, item.LineTotal().Equal(decimal.RequireFromString("39.96")))
}

func TestOrderCalculateTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 4, Price: decimal.RequireFromString("9.99")},
			{Quantity: 2, Price: decimal.RequireFromString("2.50")},
		},
	}
	require.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("44.96")))

	empty := Order{}
	require.True(t, empty.CalculateTotal().Equal(decimal.Zero))
}
