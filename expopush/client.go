// Package expopush is a client for the Expo push notification service.
//
// It batches messages into server-sized chunks, optionally gzips the request
// bodies, and decodes the two-stage ticket/receipt protocol the service uses
// to report asynchronous delivery outcomes. The client holds no mutable
// state beyond its construction-time configuration, performs no retries and
// caches nothing; every failure surfaces once, to the caller.
package expopush

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/tinywideclouds/go-expo-push/pkg/message"
	"github.com/tinywideclouds/go-expo-push/pkg/ticket"
)

// Public Expo endpoints.
const (
	DefaultURL        = "https://exp.host/--/api/v2/push/send"
	DefaultReceiptURL = "https://exp.host/--/api/v2/push/getReceipts"
)

// HTTPDoer is the subset of http.Client the client uses. It allows tests to
// inject a double without standing up a real transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the construction-time settings for a Client.
type Config struct {
	// URL and ReceiptURL override the public Expo endpoints.
	URL        string
	ReceiptURL string

	// AccessToken is sent as a bearer credential when enhanced push
	// security is enabled for the project. Empty means no Authorization
	// header.
	AccessToken string

	// ChunkSize caps how many messages go into one request. Zero selects
	// DefaultChunkSize. Values above the server ceiling are allowed but the
	// service is likely to reject such requests; the failure is surfaced,
	// not retried.
	ChunkSize int

	Gzip GzipPolicy

	// HTTPClient overrides the transport. Nil means a default http.Client.
	HTTPClient HTTPDoer
}

// Client talks to the push service. Configuration is fixed at construction,
// so a single Client is safe for concurrent use.
type Client struct {
	url         string
	receiptURL  string
	accessToken string
	chunkSize   int
	gzip        GzipPolicy
	httpClient  HTTPDoer
	logger      *slog.Logger
}

// New validates cfg, applies defaults and returns a ready Client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}
	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	sendURL := cfg.URL
	if sendURL == "" {
		sendURL = DefaultURL
	}
	if _, err := url.ParseRequestURI(sendURL); err != nil {
		return nil, fmt.Errorf("invalid push URL %q: %w", sendURL, err)
	}
	receiptURL := cfg.ReceiptURL
	if receiptURL == "" {
		receiptURL = DefaultReceiptURL
	}
	if _, err := url.ParseRequestURI(receiptURL); err != nil {
		return nil, fmt.Errorf("invalid receipt URL %q: %w", receiptURL, err)
	}

	gz := cfg.Gzip
	if gz.Mode == "" {
		gz = DefaultGzipPolicy()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		url:         sendURL,
		receiptURL:  receiptURL,
		accessToken: cfg.AccessToken,
		chunkSize:   chunkSize,
		gzip:        gz,
		httpClient:  httpClient,
		logger:      logger.With("component", "ExpoPushClient"),
	}
	if chunkSize > DefaultChunkSize {
		c.logger.Warn("Chunk size exceeds the server ceiling, requests may be rejected", "chunk_size", chunkSize)
	}
	return c, nil
}

// SendMessages submits msgs in submission order, one request per chunk, and
// returns exactly one ticket per message in the same order. Chunks are sent
// sequentially; the first failed chunk aborts the whole call and tickets
// from earlier chunks are discarded. An empty input performs no requests.
func (c *Client) SendMessages(ctx context.Context, msgs []message.PushMessage) ([]ticket.PushTicket, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	chunks := chunkMessages(msgs, c.chunkSize)
	tickets := make([]ticket.PushTicket, 0, len(msgs))
	for i, chunk := range chunks {
		got, err := c.sendChunk(ctx, i, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		tickets = append(tickets, got...)
	}
	return tickets, nil
}

// SendMessage submits a single message and unwraps its ticket.
func (c *Client) SendMessage(ctx context.Context, msg message.PushMessage) (ticket.PushTicket, error) {
	tickets, err := c.SendMessages(ctx, []message.PushMessage{msg})
	if err != nil {
		return ticket.PushTicket{}, err
	}
	return tickets[0], nil
}

type sendResponse struct {
	Data []ticket.PushTicket `json:"data"`
}

func (c *Client) sendChunk(ctx context.Context, index int, chunk []message.PushMessage) ([]ticket.PushTicket, error) {
	dispatchID := uuid.NewString()
	started := time.Now()

	var decoded sendResponse
	compressed, err := c.post(ctx, c.url, chunk, &decoded)
	if err != nil {
		return nil, err
	}
	if len(decoded.Data) != len(chunk) {
		return nil, &TicketCountError{Want: len(chunk), Got: len(decoded.Data)}
	}

	c.logger.Debug("Chunk dispatched",
		"dispatch_id", dispatchID,
		"chunk", index,
		"messages", len(chunk),
		"gzip", compressed,
		"duration", time.Since(started),
	)
	return decoded.Data, nil
}

// post serializes payload, applies the gzip policy, issues one POST and
// decodes the response into dest. It reports whether the body was
// compressed. The request carries ctx, so cancellation aborts it in flight;
// the response body is closed on every path.
func (c *Client) post(ctx context.Context, target string, payload any, dest any) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal request body: %w", err)
	}

	compressed := c.gzip.compress(len(body))
	if compressed {
		if body, err = gzipBody(body); err != nil {
			return true, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return compressed, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")
	if compressed {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return compressed, fmt.Errorf("push request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return compressed, decodeResponse(resp, dest)
}

// decodeResponse undoes any content encoding the server applied and decodes
// the JSON payload into dest. Setting Accept-Encoding explicitly disables
// the transparent decompression in net/http, so it is handled here.
func decodeResponse(resp *http.Response, dest any) error {
	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("decode gzip response: %w", err)
		}
		defer func() { _ = zr.Close() }()
		reader = zr
	case "deflate":
		fr := flate.NewReader(resp.Body)
		defer func() { _ = fr.Close() }()
		reader = fr
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(reader, 4096))
		return &ServerError{StatusCode: resp.StatusCode, Body: body}
	}
	if err := json.NewDecoder(reader).Decode(dest); err != nil {
		return fmt.Errorf("decode push service response: %w", err)
	}
	return nil
}
