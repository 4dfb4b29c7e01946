package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stockIncreasedType = "inventory.stock_increased"

func TestEventSerializerRegister(t *testing.T) {
	s := NewEventSerializer()
	assert.False(t, s.IsRegistered(stockIncreasedType))

	s.Register(stockIncreasedType, &stockEvent{})
	assert.True(t, s.IsRegistered(stockIncreasedType))
}

func TestEventSerializerRegisteredTypes(t *testing.T) {
	s := NewEventSerializer()
	s.Register("sale.completed", &stockEvent{})
	s.Register("sale.voided", &stockEvent{})

	types := s.RegisteredTypes()
	assert.ElementsMatch(t, []string{"sale.completed", "sale.voided"}, types)
}

func TestEventSerializerRoundTrip(t *testing.T) {
	s := NewEventSerializer()
	s.Register(stockIncreasedType, &stockEvent{})

	original := newStockEvent(stockIncreasedType)
	data, err := s.Serialize(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RICE-5KG")

	restored, err := s.Deserialize(stockIncreasedType, data)
	require.NoError(t, err)

	typed, ok := restored.(*stockEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), typed.EventID())
	assert.Equal(t, original.SKU, typed.SKU)
	assert.Equal(t, original.Quantity, typed.Quantity)
}

func TestEventSerializerUnknownType(t *testing.T) {
	s := NewEventSerializer()
	_, err := s.Deserialize("never.registered", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializerInvalidJSON(t *testing.T) {
	s := NewEventSerializer()
	s.Register(stockIncreasedType, &stockEvent{})

	_, err := s.Deserialize(stockIncreasedType, []byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}
