// Package sse decodes the Server-Sent-Events subset spoken by LLM
// streaming endpoints: data lines terminated by an optional [DONE]
// sentinel. Comment lines, event names, ids and retry directives are
// skipped rather than interpreted.
package sse

import (
	"bufio"
	"bytes"
	"io"
)

var (
	dataPrefix   = []byte("data:")
	doneSentinel = []byte("[DONE]")
)

// Decoder splits a response body into data frames, one line at a time.
// It buffers no more than a single line ahead of the caller.
type Decoder struct {
	r    *bufio.Reader
	done bool
}

// NewDecoder wraps a response body.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the payload of the next data frame. It reports io.EOF
// both for the [DONE] sentinel and for a body that simply ends, which
// the caller treats as the same clean termination. Once the sentinel
// has been seen no further bytes are read from the underlying reader.
func (d *Decoder) Next() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}
	for {
		raw, err := d.r.ReadBytes('\n')
		line := bytes.TrimRight(raw, "\r\n")

		if len(line) > 0 && line[0] != ':' && bytes.HasPrefix(line, dataPrefix) {
			payload := bytes.TrimLeft(line[len(dataPrefix):], " ")
			switch {
			case len(payload) == 0:
				// "data:" with nothing behind it
			case bytes.Equal(payload, doneSentinel):
				d.done = true
				return nil, io.EOF
			default:
				return payload, nil
			}
		}

		if err == io.EOF {
			d.done = true
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
	}
}
