package ticket_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-expo-push/pkg/ticket"
)

func TestPushTicketDecoding(t *testing.T) {
	t.Run("Success - ok ticket carries the receipt id", func(t *testing.T) {
		var tk ticket.PushTicket
		require.NoError(t, json.Unmarshal([]byte(`{"status":"ok","id":"XXXX-XXXX"}`), &tk))

		assert.True(t, tk.Ok())
		assert.Equal(t, ticket.ReceiptID("XXXX-XXXX"), tk.ID)
		assert.Empty(t, tk.Message)
		assert.Nil(t, tk.Details)
	})

	t.Run("Success - error ticket with a known cause", func(t *testing.T) {
		raw := `{"status":"error","message":"device gone","details":{"error":"DeviceNotRegistered"}}`
		var tk ticket.PushTicket
		require.NoError(t, json.Unmarshal([]byte(raw), &tk))

		assert.False(t, tk.Ok())
		assert.Equal(t, "device gone", tk.Message)
		require.NotNil(t, tk.Details)
		assert.Equal(t, ticket.CauseDeviceNotRegistered, tk.Details.Cause)
		assert.JSONEq(t, `{"error":"DeviceNotRegistered"}`, string(tk.Details.Raw))
	})

	t.Run("Success - unrecognised cause is preserved, not rejected", func(t *testing.T) {
		raw := `{"status":"error","message":"oops","details":{"error":"SomethingBrandNew","hint":42}}`
		var tk ticket.PushTicket
		require.NoError(t, json.Unmarshal([]byte(raw), &tk))

		require.NotNil(t, tk.Details)
		assert.Empty(t, tk.Details.Cause)
		assert.JSONEq(t, `{"error":"SomethingBrandNew","hint":42}`, string(tk.Details.Raw))
	})

	t.Run("Success - non-object details are preserved too", func(t *testing.T) {
		raw := `{"status":"error","message":"oops","details":["weird","shape"]}`
		var tk ticket.PushTicket
		require.NoError(t, json.Unmarshal([]byte(raw), &tk))

		require.NotNil(t, tk.Details)
		assert.Empty(t, tk.Details.Cause)
		assert.JSONEq(t, `["weird","shape"]`, string(tk.Details.Raw))
	})

	t.Run("Failure - unknown status tag", func(t *testing.T) {
		var tk ticket.PushTicket
		err := json.Unmarshal([]byte(`{"status":"pending","id":"x"}`), &tk)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pending")
	})

	t.Run("Null details stay nil", func(t *testing.T) {
		var tk ticket.PushTicket
		require.NoError(t, json.Unmarshal([]byte(`{"status":"error","message":"m","details":null}`), &tk))
		assert.Nil(t, tk.Details)
	})
}

func TestPushReceiptDecoding(t *testing.T) {
	t.Run("Success - mapping keyed by receipt id", func(t *testing.T) {
		raw := `{
			"aaaa": {"status":"ok"},
			"bbbb": {"status":"error","message":"rate","details":{"error":"MessageRateExceeded"}}
		}`
		var receipts map[ticket.ReceiptID]ticket.PushReceipt
		require.NoError(t, json.Unmarshal([]byte(raw), &receipts))

		require.Len(t, receipts, 2)
		assert.True(t, receipts["aaaa"].Ok())

		failed := receipts["bbbb"]
		assert.False(t, failed.Ok())
		require.NotNil(t, failed.Details)
		assert.Equal(t, ticket.CauseMessageRateExceeded, failed.Details.Cause)
	})

	t.Run("Failure - unknown status tag", func(t *testing.T) {
		var r ticket.PushReceipt
		err := json.Unmarshal([]byte(`{"status":"queued"}`), &r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queued")
	})
}

func TestTicketEncoding(t *testing.T) {
	t.Run("Ok ticket renders status and id", func(t *testing.T) {
		tk := ticket.PushTicket{Status: ticket.StatusOK, ID: "XXXX"}
		raw, err := json.Marshal(tk)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"ok","id":"XXXX"}`, string(raw))
	})

	t.Run("Error ticket renders the original details", func(t *testing.T) {
		var tk ticket.PushTicket
		input := `{"status":"error","message":"oops","details":{"error":"MessageTooBig"}}`
		require.NoError(t, json.Unmarshal([]byte(input), &tk))

		raw, err := json.Marshal(tk)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(raw))
	})
}
