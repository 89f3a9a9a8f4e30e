package expopush

import (
	"context"
	"time"

	"github.com/tinywideclouds/go-expo-push/pkg/message"
	"github.com/tinywideclouds/go-expo-push/pkg/ticket"
)

type receiptRequest struct {
	IDs []ticket.ReceiptID `json:"ids"`
}

type receiptResponse struct {
	Data map[ticket.ReceiptID]ticket.PushReceipt `json:"data"`
}

// GetReceipts fetches the deferred delivery outcomes for previously issued
// ticket ids. Ids the service has not resolved yet are simply absent from
// the result; the caller polls again later. An error receipt is a normal,
// successfully decoded result. An empty id list performs no request.
func (c *Client) GetReceipts(ctx context.Context, ids []ticket.ReceiptID) (map[ticket.ReceiptID]ticket.PushReceipt, error) {
	if len(ids) == 0 {
		return map[ticket.ReceiptID]ticket.PushReceipt{}, nil
	}

	var decoded receiptResponse
	if _, err := c.post(ctx, c.receiptURL, receiptRequest{IDs: ids}, &decoded); err != nil {
		return nil, err
	}
	if decoded.Data == nil {
		decoded.Data = map[ticket.ReceiptID]ticket.PushReceipt{}
	}

	c.logger.Debug("Receipts fetched", "requested", len(ids), "resolved", len(decoded.Data))
	return decoded.Data, nil
}

// SendMessagesWithReceipts sends msgs, waits for the service to settle the
// accepted tickets and performs a single receipt poll for them. The wait is
// cancellable through ctx. Tickets are returned in submission order either
// way; ids the service has not resolved within the wait are absent from the
// receipt map, so callers needing certainty keep polling GetReceipts.
func (c *Client) SendMessagesWithReceipts(
	ctx context.Context,
	msgs []message.PushMessage,
	wait time.Duration,
) ([]ticket.PushTicket, map[ticket.ReceiptID]ticket.PushReceipt, error) {
	tickets, err := c.SendMessages(ctx, msgs)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]ticket.ReceiptID, 0, len(tickets))
	for _, t := range tickets {
		if t.Ok() {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return tickets, map[ticket.ReceiptID]ticket.PushReceipt{}, nil
	}

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return tickets, nil, ctx.Err()
		case <-timer.C:
		}
	}

	receipts, err := c.GetReceipts(ctx, ids)
	if err != nil {
		return tickets, nil, err
	}
	return tickets, receipts, nil
}
