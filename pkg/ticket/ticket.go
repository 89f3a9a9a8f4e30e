// Package ticket models the two-stage delivery acknowledgment protocol of
// the Expo push service: a synchronous PushTicket per submitted message,
// then a deferred PushReceipt per accepted ticket, correlated by ReceiptID.
package ticket

import (
	"encoding/json"
	"fmt"
)

// Status tags every ticket and receipt returned by the service. Any other
// tag value is a protocol violation and fails decoding; new status values
// must be modelled here before they can be accepted.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ReceiptID is the server-issued correlation key for an accepted message.
// It is comparable, so it serves directly as the key of the bulk receipt
// query result.
type ReceiptID string

// ErrorCause enumerates the delivery failure causes this client recognises.
type ErrorCause string

const (
	CauseDeviceNotRegistered ErrorCause = "DeviceNotRegistered"
	CauseInvalidCredentials  ErrorCause = "InvalidCredentials"
	CauseMessageTooBig       ErrorCause = "MessageTooBig"
	CauseMessageRateExceeded ErrorCause = "MessageRateExceeded"
)

// ErrorDetails carries the structured failure details attached to an error
// ticket or receipt. Cause is set when the payload matches a known cause;
// Raw always holds the original value, so causes the server introduces after
// this code was written are preserved rather than rejected.
type ErrorDetails struct {
	Cause ErrorCause
	Raw   json.RawMessage
}

// UnmarshalJSON never fails: detail shapes we do not recognise degrade to a
// Raw-only value. Forward compatibility with server-side additions is the
// whole point of this type.
func (d *ErrorDetails) UnmarshalJSON(b []byte) error {
	d.Raw = append(json.RawMessage(nil), b...)
	d.Cause = ""

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil
	}
	switch c := ErrorCause(probe.Error); c {
	case CauseDeviceNotRegistered, CauseInvalidCredentials, CauseMessageTooBig, CauseMessageRateExceeded:
		d.Cause = c
	}
	return nil
}

func (d ErrorDetails) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("null"), nil
	}
	return d.Raw, nil
}

// PushTicket is the immediate, synchronous acknowledgment for one submitted
// message. An ok ticket carries the ReceiptID used to query the deferred
// delivery outcome later; an error ticket carries the failure message and
// optional details. A ticket with StatusError is a normal, successfully
// decoded result, not a call-level failure.
type PushTicket struct {
	Status  Status
	ID      ReceiptID // set when Status is StatusOK
	Message string    // set when Status is StatusError
	Details *ErrorDetails
}

// Ok reports whether the message was accepted for delivery.
func (t PushTicket) Ok() bool { return t.Status == StatusOK }

type wireTicket struct {
	Status  Status        `json:"status"`
	ID      ReceiptID     `json:"id,omitempty"`
	Message string        `json:"message,omitempty"`
	Details *ErrorDetails `json:"details,omitempty"`
}

func (t *PushTicket) UnmarshalJSON(b []byte) error {
	var w wireTicket
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Status {
	case StatusOK, StatusError:
	default:
		return fmt.Errorf("unrecognised ticket status %q", w.Status)
	}
	*t = PushTicket{Status: w.Status, ID: w.ID, Message: w.Message, Details: w.Details}
	return nil
}

func (t PushTicket) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTicket{Status: t.Status, ID: t.ID, Message: t.Message, Details: t.Details})
}

// PushReceipt is the deferred, final delivery outcome for a previously
// ticketed message. It uses the same ok/error tagging as tickets but carries
// no id; the caller already knows it as the key of the receipt map.
type PushReceipt struct {
	Status  Status
	Message string
	Details *ErrorDetails
}

// Ok reports whether the message was delivered.
func (r PushReceipt) Ok() bool { return r.Status == StatusOK }

type wireReceipt struct {
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Details *ErrorDetails `json:"details,omitempty"`
}

func (r *PushReceipt) UnmarshalJSON(b []byte) error {
	var w wireReceipt
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Status {
	case StatusOK, StatusError:
	default:
		return fmt.Errorf("unrecognised receipt status %q", w.Status)
	}
	*r = PushReceipt{Status: w.Status, Message: w.Message, Details: w.Details}
	return nil
}

func (r PushReceipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireReceipt{Status: r.Status, Message: r.Message, Details: r.Details})
}
