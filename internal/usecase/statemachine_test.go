package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

func TestMachineCheck(t *testing.T) {
	t.Parallel()
	m := NewMachine(map[string][]string{
		"a": {"b"},
		"b": {},
	})

	require.True(t, m.Can("a", "b"))
	require.False(t, m.Can("b", "a"))
	require.False(t, m.Can("a", "a"))
	require.False(t, m.Can("x", "a"))

	require.NoError(t, m.Check("a", "b"))
	require.ErrorIs(t, m.Check("b", "a"), domain.ErrInvalidTransition)
}

func TestMachineNextReturnsCopy(t *testing.T) {
	t.Parallel()
	m := NewMachine(map[string][]string{"a": {"b", "c"}})

	next := m.Next("a")
	require.Equal(t, []string{"b", "c"}, next)
	next[0] = "mutated"
	require.Equal(t, []string{"b", "c"}, m.Next("a"))
}

func TestOrderGraph(t *testing.T) {
	t.Parallel()

	allowed := map[[2]string]bool{
		{domain.OrderStatusPending, domain.OrderStatusPreparing}:   true,
		{domain.OrderStatusPending, domain.OrderStatusCancelled}:   true,
		{domain.OrderStatusPreparing, domain.OrderStatusShipped}:   true,
		{domain.OrderStatusPreparing, domain.OrderStatusCancelled}: true,
		{domain.OrderStatusShipped, domain.OrderStatusCompleted}:   true,
	}
	for _, from := range domain.OrderStatuses {
		for _, to := range domain.OrderStatuses {
			require.Equal(t, allowed[[2]string{from, to}], orderMachine.Can(from, to), "%s -> %s", from, to)
		}
	}
}

func TestShipmentGraphTerminalStates(t *testing.T) {
	t.Parallel()

	for _, to := range domain.ShipmentStatuses {
		require.False(t, shipmentMachine.Can(domain.ShipmentStatusReturned, to), "returned -> %s", to)
		require.False(t, shipmentMachine.Can(domain.ShipmentStatusCanceled, to), "canceled -> %s", to)
	}

	require.True(t, shipmentMachine.Can(domain.ShipmentStatusPending, domain.ShipmentStatusShipped))
	require.True(t, shipmentMachine.Can(domain.ShipmentStatusPacked, domain.ShipmentStatusShipped))
	require.True(t, shipmentMachine.Can(domain.ShipmentStatusDelivered, domain.ShipmentStatusReturned))
	require.False(t, shipmentMachine.Can(domain.ShipmentStatusShipped, domain.ShipmentStatusPacked))
	require.False(t, shipmentMachine.Can(domain.ShipmentStatusShipped, domain.ShipmentStatusCanceled))
}
