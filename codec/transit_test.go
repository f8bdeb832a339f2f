package codec_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/reoring/formstate/codec"
)

type payload struct {
	Name string   `msgpack:"name" json:"name"`
	Tags []string `msgpack:"tags" json:"tags"`
}

func TestTransit_RoundTrip(t *testing.T) {
	for _, f := range []codec.Format{codec.FormatMsgpack, codec.FormatJSON} {
		tr := codec.Transit{Format: f}
		chunks, err := tr.Encode(payload{Name: "a", Tags: []string{"x", "y"}})
		if err != nil {
			t.Fatalf("format %v: encode: %v", f, err)
		}
		var got payload
		if err := tr.Decode(chunks, &got); err != nil {
			t.Fatalf("format %v: decode: %v", f, err)
		}
		if got.Name != "a" || len(got.Tags) != 2 || got.Tags[1] != "y" {
			t.Fatalf("format %v: got %+v", f, got)
		}
	}
}

func TestTransit_SplitsAndReassembles(t *testing.T) {
	tr := codec.Transit{ChunkSize: 8}
	chunks, err := tr.Encode(payload{Name: strings.Repeat("long", 16)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !strings.HasPrefix(c, strconv.Itoa(i)+":") {
			t.Fatalf("chunk %d missing index header: %q", i, c)
		}
	}
	var got payload
	if err := tr.Decode(chunks, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != strings.Repeat("long", 16) {
		t.Fatalf("payload corrupted across chunks")
	}
}

func TestTransit_DecodeToleratesReordering(t *testing.T) {
	tr := codec.Transit{ChunkSize: 8}
	chunks, err := tr.Encode(payload{Name: strings.Repeat("abc", 20)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	shuffled := make([]string, len(chunks))
	for i, c := range chunks {
		shuffled[len(chunks)-1-i] = c
	}
	var got payload
	if err := tr.Decode(shuffled, &got); err != nil {
		t.Fatalf("decode reordered: %v", err)
	}
	if got.Name != strings.Repeat("abc", 20) {
		t.Fatalf("payload corrupted by reordering")
	}
}

func TestTransit_DecodeRejectsBadChunks(t *testing.T) {
	tr := codec.Transit{}
	chunks, err := tr.Encode(payload{Name: "x"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cases := map[string][]string{
		"missing header":  {"no-separator-here"},
		"bad index":       {"nope:" + chunks[0]},
		"out of range":    {"5:" + chunks[0][2:]},
		"duplicate index": {chunks[0], chunks[0]},
	}
	for name, cs := range cases {
		var got payload
		if err := tr.Decode(cs, &got); err == nil {
			t.Fatalf("%s: decode accepted corrupt input", name)
		}
	}
}
