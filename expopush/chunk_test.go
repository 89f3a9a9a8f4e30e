package expopush

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-expo-push/pkg/message"
)

func makeMessages(t *testing.T, n int) []message.PushMessage {
	t.Helper()
	msgs := make([]message.PushMessage, 0, n)
	for i := 0; i < n; i++ {
		token, err := message.ParseToken(fmt.Sprintf("ExpoPushToken[device-%d]", i))
		require.NoError(t, err)
		msgs = append(msgs, *message.NewMessage(token))
	}
	return msgs
}

func TestChunkMessages(t *testing.T) {
	t.Run("Empty input yields no chunks", func(t *testing.T) {
		assert.Empty(t, chunkMessages(nil, 100))
		assert.Empty(t, chunkMessages([]message.PushMessage{}, 2))
	})

	t.Run("Ten messages in chunks of two", func(t *testing.T) {
		msgs := makeMessages(t, 10)
		chunks := chunkMessages(msgs, 2)

		require.Len(t, chunks, 5)
		for _, chunk := range chunks {
			assert.Len(t, chunk, 2)
		}
	})

	t.Run("Final chunk may be shorter", func(t *testing.T) {
		msgs := makeMessages(t, 5)
		chunks := chunkMessages(msgs, 2)

		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 2)
		assert.Len(t, chunks[1], 2)
		assert.Len(t, chunks[2], 1)
	})

	t.Run("Concatenation reproduces order", func(t *testing.T) {
		msgs := makeMessages(t, 7)
		chunks := chunkMessages(msgs, 3)

		var flattened []message.PushMessage
		for _, chunk := range chunks {
			flattened = append(flattened, chunk...)
		}
		require.Len(t, flattened, len(msgs))
		for i := range msgs {
			assert.Equal(t, msgs[i].To.String(), flattened[i].To.String())
		}
	})

	t.Run("Chunk count is the ceiling of n over k", func(t *testing.T) {
		for _, tc := range []struct{ n, k, want int }{
			{1, 1, 1},
			{1, 100, 1},
			{100, 100, 1},
			{101, 100, 2},
			{10, 3, 4},
		} {
			chunks := chunkMessages(makeMessages(t, tc.n), tc.k)
			assert.Len(t, chunks, tc.want, "n=%d k=%d", tc.n, tc.k)
		}
	})
}
