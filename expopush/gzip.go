package expopush

import (
	"bytes"
	"compress/gzip"
	"fmt"
)

// GzipMode selects when a serialized chunk body is compressed before
// transmission.
type GzipMode string

const (
	// GzipThreshold compresses only bodies larger than the policy threshold.
	GzipThreshold GzipMode = "threshold"
	GzipNever     GzipMode = "never"
	GzipAlways    GzipMode = "always"
)

// DefaultGzipThreshold is the body size in bytes above which the threshold
// policy compresses.
const DefaultGzipThreshold = 1024

// ParseGzipMode maps a config string onto a GzipMode.
func ParseGzipMode(s string) (GzipMode, error) {
	switch m := GzipMode(s); m {
	case GzipThreshold, GzipNever, GzipAlways:
		return m, nil
	}
	return "", fmt.Errorf("unknown gzip mode %q (want threshold, never or always)", s)
}

// GzipPolicy decides, once per chunk, whether the serialized body is gzipped.
// The decision is always made on the uncompressed body size.
type GzipPolicy struct {
	Mode GzipMode
	// Threshold applies to GzipThreshold mode; zero or negative means
	// DefaultGzipThreshold.
	Threshold int
}

// DefaultGzipPolicy compresses bodies above DefaultGzipThreshold bytes.
func DefaultGzipPolicy() GzipPolicy {
	return GzipPolicy{Mode: GzipThreshold, Threshold: DefaultGzipThreshold}
}

func (p GzipPolicy) compress(size int) bool {
	switch p.Mode {
	case GzipNever:
		return false
	case GzipAlways:
		return true
	default:
		threshold := p.Threshold
		if threshold <= 0 {
			threshold = DefaultGzipThreshold
		}
		return size > threshold
	}
}

// gzipBody compresses body for transmission. A codec failure fails the
// dispatch; there is no silent fallback to the uncompressed form.
func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("gzip request body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip request body: %w", err)
	}
	return buf.Bytes(), nil
}
