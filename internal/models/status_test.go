package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		require.True(t, s.Valid(), "%s", s)
	}

	require.False(t, OrderStatus("REFUNDED").Valid())
	require.False(t, OrderStatus("pending").Valid())
	require.False(t, OrderStatus("").Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending:   {OrderStatusConfirmed: true, OrderStatusCancelled: true},
		OrderStatusConfirmed: {OrderStatusShipped: true, OrderStatusCancelled: true},
		OrderStatusShipped:   {OrderStatusDelivered: true},
		OrderStatusDelivered: {OrderStatusCancelled: true},
		OrderStatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			require.Equal(t, allowed[from][to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestOrderStatusNoSelfTransitions(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		require.False(t, s.CanTransitionTo(s), "%s", s)
	}
}
