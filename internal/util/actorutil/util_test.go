package actorutil

import (
	"testing"

	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/mqtt"

	"github.com/stretchr/testify/assert"
)

func TestParsedSelectCommand(t *testing.T) {

	assert := assert.New(t)

	req := ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "consumption_currency",
		Command:  mqtt.COMMAND_SELECT,
		Payload:  "EUR",
	})
	sel, ok := req.(domain.SelectOptionRequest)
	assert.True(ok, "select request")
	assert.Equal("consumption_currency", sel.EntityId)
	assert.Equal("EUR", sel.Option)
}

func TestParsedUnknownCommand(t *testing.T) {

	req := ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "heating",
		Command:  "switch",
		Payload:  "on",
	})
	assert.Nil(t, req)
}
