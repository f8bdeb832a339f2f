// Package codec serializes engine state for transport and reload survival:
// msgpack (Date- and blob-safe) or JSON payloads, split into fixed-size
// string chunks that reassemble losslessly by in-order concatenation.
package codec

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the wire encoding for transit payloads.
type Format int

const (
	// FormatMsgpack supports time.Time and binary blobs natively.
	FormatMsgpack Format = iota
	// FormatJSON is for payloads restricted to plain JSON values.
	FormatJSON
)

// DefaultChunkSize fits comfortably into a single request field.
const DefaultChunkSize = 1 << 20

// Transit encodes values into ordered string chunks and back. The zero value
// uses msgpack and DefaultChunkSize.
type Transit struct {
	Format    Format
	ChunkSize int
}

func (t Transit) chunkSize() int {
	if t.ChunkSize > 0 {
		return t.ChunkSize
	}
	return DefaultChunkSize
}

// Encode serializes v and splits the base64 text into chunks. Every chunk
// carries its index before a ':' separator so reordered or missing chunks
// are detected at decode time instead of corrupting silently.
func (t Transit) Encode(v any) ([]string, error) {
	var raw []byte
	var err error
	switch t.Format {
	case FormatJSON:
		raw, err = gojson.Marshal(v)
	default:
		raw, err = msgpack.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: encode: %w", err)
	}
	text := base64.StdEncoding.EncodeToString(raw)
	size := t.chunkSize()
	chunks := make([]string, 0, len(text)/size+1)
	for i := 0; ; i++ {
		n := min(size, len(text))
		chunks = append(chunks, strconv.Itoa(i)+":"+text[:n])
		text = text[n:]
		if len(text) == 0 {
			break
		}
	}
	return chunks, nil
}

// Decode reassembles chunks in index order and deserializes into v.
func (t Transit) Decode(chunks []string, v any) error {
	parts := make([]string, len(chunks))
	seen := make([]bool, len(chunks))
	for _, c := range chunks {
		sep := strings.IndexByte(c, ':')
		if sep < 0 {
			return fmt.Errorf("codec: chunk missing index header")
		}
		i, err := strconv.Atoi(c[:sep])
		if err != nil || i < 0 || i >= len(chunks) {
			return fmt.Errorf("codec: bad chunk index %q", c[:sep])
		}
		if seen[i] {
			return fmt.Errorf("codec: duplicate chunk %d", i)
		}
		seen[i] = true
		parts[i] = c[sep+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.Join(parts, ""))
	if err != nil {
		return fmt.Errorf("codec: decode: %w", err)
	}
	switch t.Format {
	case FormatJSON:
		if err := gojson.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("codec: decode: %w", err)
		}
	default:
		if err := msgpack.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("codec: decode: %w", err)
		}
	}
	return nil
}
