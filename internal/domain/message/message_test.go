package message

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	sessionID, senderID := uuid.New(), uuid.New()

	m, err := New(sessionID, senderID, "hello")
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), m.ID.Version())
	assert.Equal(t, sessionID, m.SessionID)
	assert.Equal(t, senderID, m.SenderID)
	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())
	assert.Equal(t, m.CreatedAt, m.CreatedAt.Truncate(time.Millisecond))
}

func TestNew_Validation(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		sessionID uuid.UUID
		senderID  uuid.UUID
		content   string
		want      error
	}{
		{"missing session", uuid.Nil, id, "x", ErrMissingSession},
		{"missing sender", id, uuid.Nil, "x", ErrMissingSender},
		{"empty content", id, id, "", ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sessionID, tt.senderID, tt.content)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew_IDsSortInCreationOrder(t *testing.T) {
	sessionID, senderID := uuid.New(), uuid.New()

	prev, err := New(sessionID, senderID, "0")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		next, err := New(sessionID, senderID, "n")
		require.NoError(t, err)
		assert.Less(t, prev.ID.String(), next.ID.String())
		prev = next
	}
}
