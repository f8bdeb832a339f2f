package formstate

import (
	"strconv"
	"strings"
)

// Segment is a single key of a Path: either a mapping field name or a
// sequence index. The zero value is the empty field name.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// FieldSegment returns a mapping-key segment. Purely numeric names are
// normalized to index segments so that "0" and 0 address the same key.
func FieldSegment(name string) Segment {
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && name == strconv.Itoa(n) {
		return Segment{index: n, isIndex: true}
	}
	return Segment{name: name}
}

// IndexSegment returns a sequence-index segment.
func IndexSegment(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses a sequence element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Index returns the sequence index. Only meaningful when IsIndex is true.
func (s Segment) Index() int { return s.index }

// Key returns the segment as a mapping key string. Index segments render in
// decimal form, which is how they are stored in taint and error trees.
func (s Segment) Key() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.name
}

// Equal reports segment equality. Numeric keys compare by value, not by
// string form.
func (s Segment) Equal(o Segment) bool {
	if s.isIndex != o.isIndex {
		return false
	}
	if s.isIndex {
		return s.index == o.index
	}
	return s.name == o.name
}

// Path is the ordered key sequence uniquely addressing one leaf or subtree of
// a data tree. Two paths are equal iff their segments are equal element-wise.
type Path []Segment

// SplitPath parses a dotted/bracketed path string into a Path. Both "tags[1]"
// and "tags.1" produce the same two-segment path.
func SplitPath(s string) Path {
	if s == "" {
		return nil
	}
	var p Path
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		p = append(p, FieldSegment(buf.String()))
		buf.Reset()
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				// unterminated bracket: treat the remainder as a literal key
				buf.WriteString(s[i:])
				i = len(s)
				break
			}
			p = append(p, FieldSegment(s[i+1:i+end]))
			i += end
		default:
			buf.WriteByte(c)
		}
	}
	flush()
	return p
}

// String renders the path in canonical form: segments joined with ".",
// numeric segments in bracket form ("tags[1].name"). SplitPath round-trips
// any string produced here.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.name)
	}
	return b.String()
}

// Field appends a mapping-key segment, returning a new Path.
func (p Path) Field(name string) Path {
	return append(p.Clone(), FieldSegment(name))
}

// Index appends a sequence-index segment, returning a new Path.
func (p Path) Index(i int) Path {
	return append(p.Clone(), IndexSegment(i))
}

// Clone returns a copy that shares no backing storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports element-wise path equality.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Parent returns the path with its last segment removed. The parent of an
// empty path is the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final segment. Only meaningful for non-empty paths.
func (p Path) Last() Segment {
	if len(p) == 0 {
		return Segment{}
	}
	return p[len(p)-1]
}

// HasPrefix reports whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if !p[i].Equal(prefix[i]) {
			return false
		}
	}
	return true
}
