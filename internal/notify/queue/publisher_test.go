package queue

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahub/site/internal/domain"
)

func TestEncode(t *testing.T) {
	now := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)
	lead := domain.Lead{ID: "lead-1", Name: "Jane", Status: domain.LeadNew, Notes: []domain.Note{}}

	msg, err := Encode(lead, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "lead-1", msg.MessageId)

	var got LeadCreated
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "lead.created", got.Event)
	assert.Equal(t, "Jane", got.Lead.Name)
	assert.True(t, got.SentAt.Equal(now))
}
