// Package json exposes encoding/json-compatible helpers backed by sonic.
package json

import (
	"io"

	"github.com/bytedance/sonic"
)

var (
	// Marshal serializes v into JSON bytes.
	Marshal = sonic.Marshal
	// Unmarshal parses JSON bytes into v.
	Unmarshal = sonic.Unmarshal
	// MarshalIndent pretty-prints v as JSON.
	MarshalIndent = sonic.MarshalIndent
)

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) sonic.Decoder { return sonic.ConfigDefault.NewDecoder(r) }

// NewEncoder returns a streaming encoder writing to w.
func NewEncoder(w io.Writer) sonic.Encoder { return sonic.ConfigDefault.NewEncoder(w) }
