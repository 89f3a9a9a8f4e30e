package expopush

import "fmt"

// ServerError reports a non-2xx response from the push service. The whole
// chunk fails atomically; no tickets are produced for it. The client never
// retries: backoff and resubmission belong to the caller.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("push service returned status %d: %s", e.StatusCode, body)
}

// TicketCountError reports a response whose ticket array length does not
// match the submitted chunk. The server contract promises exactly one ticket
// per message in submission order; on a mismatch the positional correlation
// is unusable, so the chunk fails rather than being silently truncated.
type TicketCountError struct {
	Want, Got int
}

func (e *TicketCountError) Error() string {
	return fmt.Sprintf("push service returned %d tickets for a chunk of %d messages", e.Got, e.Want)
}
