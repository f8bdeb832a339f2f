package formstate

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/reoring/formstate/codec"
)

// Snapshot is a plain-data capture of engine state, sufficient to fully
// reconstruct a form across a full page reload.
type Snapshot struct {
	ID      string `msgpack:"id"`
	Data    *Node  `msgpack:"data"`
	Errors  *Node  `msgpack:"errors"`
	Tainted *Node  `msgpack:"tainted"`
	Message any    `msgpack:"message"`
}

// Capture returns a snapshot of the form's current state.
func (f *Form) Capture() *Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &Snapshot{
		ID:      f.id,
		Data:    f.data.Clone(),
		Errors:  f.errors.Clone(),
		Tainted: f.taint.State().Clone(),
		Message: f.message,
	}
}

// Restore rebuilds engine state from a snapshot. The restored data becomes
// the clean baseline; the captured tainted tree is installed over it so
// taint history survives the reload.
func (f *Form) Restore(s *Snapshot) {
	f.mu.Lock()
	f.data = s.Data.Clone()
	f.taint.SetClean(s.Data)
	f.taint.RestoreState(s.Tainted)
	if s.Errors != nil {
		f.errors = s.Errors.Clone()
	} else {
		f.errors = Mapping()
	}
	f.message = s.Message
	data, tainted, errs := f.data, f.taint.State().Clone(), f.errors.Clone()
	f.mu.Unlock()
	f.notify(TreeData, data)
	f.notify(TreeClean, data)
	f.notify(TreeTainted, tainted)
	f.notify(TreeErrors, errs)
}

// MarshalChunks serializes the snapshot through t. Snapshots always travel
// as msgpack regardless of t.Format: node trees carry time.Time, binary and
// undefined-vs-absent distinctions JSON cannot express.
func (s *Snapshot) MarshalChunks(t codec.Transit) ([]string, error) {
	t.Format = codec.FormatMsgpack
	return t.Encode(s)
}

// SnapshotFromChunks reassembles a snapshot produced by MarshalChunks.
func SnapshotFromChunks(t codec.Transit, chunks []string) (*Snapshot, error) {
	t.Format = codec.FormatMsgpack
	var s Snapshot
	if err := t.Decode(chunks, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// msgpack wire tags for Node variants.
const (
	wireUndefined = 0
	wireScalar    = 1
	wireMapping   = 2
	wireSequence  = 3
	wireFile      = 4
)

var (
	_ msgpack.CustomEncoder = (*Node)(nil)
	_ msgpack.CustomDecoder = (*Node)(nil)
)

// EncodeMsgpack writes the node as a small tagged array. File scalars get
// their own tag so decoding restores a *File rather than a generic mapping;
// pointer identity does not survive the wire, matching the reference-equal
// comparison rule (a restored file is a different file).
func (n *Node) EncodeMsgpack(enc *msgpack.Encoder) error {
	if n == nil {
		return enc.EncodeNil()
	}
	switch n.kind {
	case KindUndefined:
		if err := enc.EncodeArrayLen(1); err != nil {
			return err
		}
		return enc.EncodeInt(wireUndefined)
	case KindScalar:
		if f, ok := n.scalar.(*File); ok {
			if err := enc.EncodeArrayLen(3); err != nil {
				return err
			}
			if err := enc.EncodeInt(wireFile); err != nil {
				return err
			}
			if err := enc.EncodeString(f.Name); err != nil {
				return err
			}
			return enc.EncodeBytes(f.Data)
		}
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeInt(wireScalar); err != nil {
			return err
		}
		return enc.Encode(n.scalar)
	case KindMapping:
		if err := enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := enc.EncodeInt(wireMapping); err != nil {
			return err
		}
		if err := enc.Encode(n.keys); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(n.keys)); err != nil {
			return err
		}
		for _, k := range n.keys {
			if err := n.fields[k].EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindSequence:
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeInt(wireSequence); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(n.items)); err != nil {
			return err
		}
		for _, it := range n.items {
			if err := it.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("formstate: unknown node kind %d", n.kind)
}

// DecodeMsgpack is the inverse of EncodeMsgpack.
func (n *Node) DecodeMsgpack(dec *msgpack.Decoder) error {
	if _, err := dec.DecodeArrayLen(); err != nil {
		return err
	}
	tag, err := dec.DecodeInt()
	if err != nil {
		return err
	}
	switch tag {
	case wireUndefined:
		*n = Node{kind: KindUndefined}
		return nil
	case wireScalar:
		v, err := dec.DecodeInterface()
		if err != nil {
			return err
		}
		*n = *Scalar(v)
		return nil
	case wireFile:
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		data, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		*n = *Scalar(&File{Name: name, Data: data})
		return nil
	case wireMapping:
		var keys []string
		if err := dec.Decode(&keys); err != nil {
			return err
		}
		cnt, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		out := Mapping()
		for i := 0; i < cnt && i < len(keys); i++ {
			child, err := decodeChild(dec)
			if err != nil {
				return err
			}
			out.Set(keys[i], child)
		}
		*n = *out
		return nil
	case wireSequence:
		cnt, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		out := Sequence()
		for i := 0; i < cnt; i++ {
			child, err := decodeChild(dec)
			if err != nil {
				return err
			}
			out.Append(child)
		}
		*n = *out
		return nil
	}
	return fmt.Errorf("formstate: unknown node wire tag %d", tag)
}

// decodeChild handles the nil placeholder absent sequence slots encode to.
func decodeChild(dec *msgpack.Decoder) (*Node, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	if code == 0xc0 { // msgpack nil
		if err := dec.DecodeNil(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	child := &Node{}
	if err := child.DecodeMsgpack(dec); err != nil {
		return nil, err
	}
	return child, nil
}
