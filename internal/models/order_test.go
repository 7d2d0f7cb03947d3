package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDelivered(t *testing.T) {
	assert.False(t, (&Order{OrderStatus: OrderStatusProcessing}).IsDelivered())
	assert.False(t, (&Order{OrderStatus: OrderStatusShipped}).IsDelivered())
	assert.True(t, (&Order{OrderStatus: OrderStatusDelivered}).IsDelivered())
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusProcessing))
	assert.True(t, ValidOrderStatus(OrderStatusShipped))
	assert.True(t, ValidOrderStatus(OrderStatusDelivered))

	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("delivered"))
	assert.False(t, ValidOrderStatus("Annulée"))
}
