package expopush

import "github.com/tinywideclouds/go-expo-push/pkg/message"

// DefaultChunkSize matches the documented server-side ceiling of 100
// messages per request.
const DefaultChunkSize = 100

// chunkMessages splits msgs into order-preserving subslices of at most size
// messages. The final chunk may be shorter and an empty input yields no
// chunks. size is validated to be positive at Client construction, so the
// loop here cannot spin.
func chunkMessages(msgs []message.PushMessage, size int) [][]message.PushMessage {
	if len(msgs) == 0 {
		return nil
	}
	chunks := make([][]message.PushMessage, 0, (len(msgs)+size-1)/size)
	for size < len(msgs) {
		chunks = append(chunks, msgs[:size])
		msgs = msgs[size:]
	}
	return append(chunks, msgs)
}
