package querygate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GenerationError wraps a failure to generate request content. It keeps
// the offending input so callers can log what could not be encoded.
type GenerationError struct {
	Input any
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate [%v]: %v", e.Input, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type frameKind byte

const (
	frameObject frameKind = iota
	frameArray
)

type frame struct {
	kind frameKind
	n    int // elements written so far
}

// ContentBuilder is an ordered, streaming JSON writer. Fields render in
// the order they are written, so the same write sequence always produces
// byte-identical output. The first error latches; all later writes are
// no-ops and Bytes reports it.
type ContentBuilder struct {
	buf        bytes.Buffer
	stack      []frame
	pendingKey bool
	err        error
}

// NewContent creates an empty ContentBuilder.
func NewContent() *ContentBuilder {
	return &ContentBuilder{}
}

// StartObject opens a JSON object.
func (b *ContentBuilder) StartObject() *ContentBuilder {
	if b.prefixValue() {
		b.buf.WriteByte('{')
		b.stack = append(b.stack, frame{kind: frameObject})
	}
	return b
}

// EndObject closes the current object.
func (b *ContentBuilder) EndObject() *ContentBuilder {
	if b.pop(frameObject) {
		b.buf.WriteByte('}')
	}
	return b
}

// StartArray opens a JSON array.
func (b *ContentBuilder) StartArray() *ContentBuilder {
	if b.prefixValue() {
		b.buf.WriteByte('[')
		b.stack = append(b.stack, frame{kind: frameArray})
	}
	return b
}

// EndArray closes the current array.
func (b *ContentBuilder) EndArray() *ContentBuilder {
	if b.pop(frameArray) {
		b.buf.WriteByte(']')
	}
	return b
}

// Key writes a field name inside the current object. The next value,
// object, or array written becomes the field's value.
func (b *ContentBuilder) Key(name string) *ContentBuilder {
	if b.err != nil {
		return b
	}
	top := b.top()
	if top == nil || top.kind != frameObject || b.pendingKey {
		b.fail(name, fmt.Errorf("field %q written outside an object", name))
		return b
	}
	if top.n > 0 {
		b.buf.WriteByte(',')
	}
	top.n++
	b.writeJSON(name)
	b.buf.WriteByte(':')
	b.pendingKey = true
	return b
}

// Field writes a name/value pair inside the current object.
func (b *ContentBuilder) Field(name string, v any) *ContentBuilder {
	return b.Key(name).Value(v)
}

// Value writes a single JSON value, either as the pending field's value
// or as the next array element.
func (b *ContentBuilder) Value(v any) *ContentBuilder {
	if b.prefixValue() {
		b.writeJSON(v)
	}
	return b
}

// RawValue writes pre-rendered JSON verbatim. The bytes are not
// reinterpreted or validated.
func (b *ContentBuilder) RawValue(raw []byte) *ContentBuilder {
	if b.prefixValue() {
		b.buf.Write(raw)
	}
	return b
}

// Map writes all entries of m as fields of the current object, in the
// deterministic (sorted) order encoding/json gives map keys.
func (b *ContentBuilder) Map(m map[string]any) *ContentBuilder {
	if b.err != nil {
		return b
	}
	enc, err := json.Marshal(m)
	if err != nil {
		b.fail(m, err)
		return b
	}
	top := b.top()
	if top == nil || top.kind != frameObject || b.pendingKey {
		b.fail(m, fmt.Errorf("map must be written inside an object"))
		return b
	}
	if len(m) == 0 {
		return b
	}
	if top.n > 0 {
		b.buf.WriteByte(',')
	}
	top.n += len(m)
	b.buf.Write(enc[1 : len(enc)-1]) // strip the braces, keep the fields
	return b
}

// Err returns the first error encountered, if any.
func (b *ContentBuilder) Err() error { return b.err }

// Bytes returns the rendered document. It fails if an error latched or
// an object or array is still open.
func (b *ContentBuilder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 || b.pendingKey {
		return nil, &GenerationError{Input: b.buf.String(), Err: fmt.Errorf("unclosed object or array")}
	}
	return b.buf.Bytes(), nil
}

func (b *ContentBuilder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

// prefixValue prepares the buffer for the next value: it consumes a
// pending key or writes the array separator. Reports whether writing may
// proceed.
func (b *ContentBuilder) prefixValue() bool {
	if b.err != nil {
		return false
	}
	if b.pendingKey {
		b.pendingKey = false
		return true
	}
	top := b.top()
	if top == nil {
		// Root value.
		if b.buf.Len() > 0 {
			b.fail(nil, fmt.Errorf("more than one root value"))
			return false
		}
		return true
	}
	if top.kind == frameObject {
		b.fail(nil, fmt.Errorf("value written inside an object without a field name"))
		return false
	}
	if top.n > 0 {
		b.buf.WriteByte(',')
	}
	top.n++
	return true
}

func (b *ContentBuilder) pop(kind frameKind) bool {
	if b.err != nil {
		return false
	}
	top := b.top()
	if top == nil || top.kind != kind || b.pendingKey {
		b.fail(nil, fmt.Errorf("mismatched close"))
		return false
	}
	b.stack = b.stack[:len(b.stack)-1]
	return true
}

func (b *ContentBuilder) writeJSON(v any) {
	enc, err := json.Marshal(v)
	if err != nil {
		b.fail(v, err)
		return
	}
	b.buf.Write(enc)
}

func (b *ContentBuilder) fail(input any, err error) {
	if b.err == nil {
		b.err = &GenerationError{Input: input, Err: err}
	}
}
