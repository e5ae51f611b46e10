package usecase

import (
	"fmt"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

// Machine is a constructed-once, read-only state graph shared by the order
// and shipment lifecycles. Guards beyond graph membership live in the
// usecases that own the entities.
type Machine[S comparable] struct {
	transitions map[S][]S
}

func NewMachine[S comparable](table map[S][]S) *Machine[S] {
	transitions := make(map[S][]S, len(table))
	for from, next := range table {
		transitions[from] = append([]S(nil), next...)
	}
	return &Machine[S]{transitions: transitions}
}

// Can reports whether from -> to is in the graph.
func (m *Machine[S]) Can(from, to S) bool {
	for _, s := range m.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns ErrInvalidTransition unless from -> to is in the graph.
func (m *Machine[S]) Check(from, to S) error {
	if !m.Can(from, to) {
		return fmt.Errorf("%w: %v -> %v", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// Next returns a copy of the allowed next states from the given state.
func (m *Machine[S]) Next(from S) []S {
	return append([]S(nil), m.transitions[from]...)
}

// orderMachine is the order lifecycle graph. Completed and cancelled are
// terminal.
var orderMachine = NewMachine(map[string][]string{
	domain.OrderStatusPending:   {domain.OrderStatusPreparing, domain.OrderStatusCancelled},
	domain.OrderStatusPreparing: {domain.OrderStatusShipped, domain.OrderStatusCancelled},
	domain.OrderStatusShipped:   {domain.OrderStatusCompleted},
	domain.OrderStatusCompleted: {},
	domain.OrderStatusCancelled: {},
})

// shipmentMachine is the shipment lifecycle graph. Returned and canceled are
// terminal.
var shipmentMachine = NewMachine(map[string][]string{
	domain.ShipmentStatusPending:        {domain.ShipmentStatusPacked, domain.ShipmentStatusCanceled, domain.ShipmentStatusShipped},
	domain.ShipmentStatusPacked:         {domain.ShipmentStatusShipped, domain.ShipmentStatusCanceled},
	domain.ShipmentStatusShipped:        {domain.ShipmentStatusInTransit, domain.ShipmentStatusReturned, domain.ShipmentStatusDelivered},
	domain.ShipmentStatusInTransit:      {domain.ShipmentStatusOutForDelivery, domain.ShipmentStatusReturned, domain.ShipmentStatusDelivered},
	domain.ShipmentStatusOutForDelivery: {domain.ShipmentStatusDelivered, domain.ShipmentStatusReturned},
	domain.ShipmentStatusDelivered:      {domain.ShipmentStatusReturned},
	domain.ShipmentStatusReturned:       {},
	domain.ShipmentStatusCanceled:       {},
})

// OrderTransitions exposes the order graph for enum/config endpoints.
func OrderTransitions(from string) []string { return orderMachine.Next(from) }

// ShipmentTransitions exposes the shipment graph for enum/config endpoints.
func ShipmentTransitions(from string) []string { return shipmentMachine.Next(from) }
