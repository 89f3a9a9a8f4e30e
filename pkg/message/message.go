// Package message contains the public domain model for the Expo push
// service: the validated recipient token and the notification message.
package message

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Token prefixes recognised by the push service.
const (
	prefixExponent = "ExponentPushToken["
	prefixExpo     = "ExpoPushToken["
)

// TokenFormatError reports a recipient identifier that does not look like an
// Expo push token. The rejected input is retained for diagnostics.
type TokenFormatError struct {
	Input string
}

func (e *TokenFormatError) Error() string {
	return fmt.Sprintf("expected format `ExpoPushToken[xxx]` or `ExponentPushToken[xxx]` but given %q", e.Input)
}

// PushToken is an opaque recipient identifier issued by Expo to one device
// install. The zero value is invalid; obtain a PushToken through ParseToken
// or by decoding JSON, both of which validate the format.
type PushToken struct {
	raw string
}

// ParseToken validates s as an Expo push token. Only the prefix and the
// closing bracket are checked; the bracketed content is opaque to us, which
// mirrors the loose contract of the push service itself.
func ParseToken(s string) (PushToken, error) {
	if (strings.HasPrefix(s, prefixExponent) || strings.HasPrefix(s, prefixExpo)) && strings.HasSuffix(s, "]") {
		return PushToken{raw: s}, nil
	}
	return PushToken{}, &TokenFormatError{Input: s}
}

func (t PushToken) String() string { return t.raw }

func (t PushToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

func (t *PushToken) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseToken(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Priority is the delivery priority of a message. Leave it empty to use the
// platform default, which is "normal" on Android and "high" on iOS. See the
// Expo documentation on message format for the platform-specific behaviour.
type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
)

// ParsePriority maps a CLI or config string onto a Priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityDefault, PriorityNormal, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q (want default, normal or high)", s)
}

// Sound selects the sound played on delivery. The service currently only
// supports the device default; leave the field empty to play no sound.
type Sound string

const SoundDefault Sound = "default"

// ParseSound maps a CLI or config string onto a Sound.
func ParseSound(s string) (Sound, error) {
	if Sound(s) == SoundDefault {
		return SoundDefault, nil
	}
	return "", fmt.Errorf("unknown sound %q (want default)", s)
}

// PushMessage is one notification addressed to a single device, modelled
// after the Expo message format.
//
// Every field except To is optional. Unset optional fields are omitted from
// the wire form entirely, never sent as null. The numeric fields are pointers
// so an explicit zero (badge 0 clears the app badge) still reaches the wire
// while an unset field does not.
//
// Messages are plain value objects: build one with NewMessage, fill the
// optional fields, and hand it to the client. The client never mutates it.
type PushMessage struct {
	To PushToken `json:"to"`

	// Data is an arbitrary JSON-serializable payload delivered alongside
	// the notification.
	Data any `json:"data,omitempty"`

	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`

	Sound Sound `json:"sound,omitempty"`

	// TTL is the number of seconds the service may retain the message for
	// redelivery. Expiration is an absolute unix timestamp; the server
	// prefers it over TTL when both are set.
	TTL        *uint `json:"ttl,omitempty"`
	Expiration *uint `json:"expiration,omitempty"`

	Priority Priority `json:"priority,omitempty"`
	Badge    *uint    `json:"badge,omitempty"`
}

// NewMessage builds a message with only the recipient set.
func NewMessage(to PushToken) *PushMessage {
	return &PushMessage{To: to}
}

// Uint is a convenience for filling the optional numeric fields.
func Uint(v uint) *uint { return &v }
