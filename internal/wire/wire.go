// Package wire implements the length-prefixed binary primitives shared
// by request codecs. All integers are big-endian; byte and string
// payloads are prefixed with a uint32 length, optional values with a
// single presence byte, and sequences with a uint32 count.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxChunk bounds any single length or count read from the stream. A
// corrupt or hostile prefix must not drive allocation.
const maxChunk = 1 << 28

// Writer writes wire primitives to an underlying stream.
type Writer struct {
	w io.Writer
	b [8]byte
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteUint32 writes a fixed-width uint32.
func (w *Writer) WriteUint32(v uint32) error {
	binary.BigEndian.PutUint32(w.b[:4], v)
	if _, err := w.w.Write(w.b[:4]); err != nil {
		return fmt.Errorf("wire: write uint32: %w", err)
	}
	return nil
}

// WriteUint64 writes a fixed-width uint64.
func (w *Writer) WriteUint64(v uint64) error {
	binary.BigEndian.PutUint64(w.b[:8], v)
	if _, err := w.w.Write(w.b[:8]); err != nil {
		return fmt.Errorf("wire: write uint64: %w", err)
	}
	return nil
}

// WriteBytes writes a length-prefixed byte sequence.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.WriteUint32(uint32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("wire: write bytes: %w", err)
	}
	return nil
}

// WriteString writes a length-prefixed string.
func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

// WriteOptionalString writes a presence byte followed by the value when
// s is non-empty. An empty string is encoded as absent.
func (w *Writer) WriteOptionalString(s string) error {
	if s == "" {
		return w.writeByte(0)
	}
	if err := w.writeByte(1); err != nil {
		return err
	}
	return w.WriteString(s)
}

// WriteStringSlice writes a counted sequence of length-prefixed strings.
func (w *Writer) WriteStringSlice(ss []string) error {
	if err := w.WriteUint32(uint32(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeByte(b byte) error {
	w.b[0] = b
	if _, err := w.w.Write(w.b[:1]); err != nil {
		return fmt.Errorf("wire: write byte: %w", err)
	}
	return nil
}

// Reader reads wire primitives from an underlying stream.
type Reader struct {
	r io.Reader
	b [8]byte
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadUint32 reads a fixed-width uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if _, err := io.ReadFull(r.r, r.b[:4]); err != nil {
		return 0, fmt.Errorf("wire: read uint32: %w", err)
	}
	return binary.BigEndian.Uint32(r.b[:4]), nil
}

// ReadUint64 reads a fixed-width uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if _, err := io.ReadFull(r.r, r.b[:8]); err != nil {
		return 0, fmt.Errorf("wire: read uint64: %w", err)
	}
	return binary.BigEndian.Uint64(r.b[:8]), nil
}

// ReadBytes reads a length-prefixed byte sequence. A zero length yields
// an empty, non-nil slice.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n > maxChunk {
		return nil, fmt.Errorf("wire: byte sequence length %d exceeds limit", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("wire: read %d bytes: %w", n, err)
	}
	return b, nil
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadOptionalString reads a presence byte and, when set, the value.
// "" is returned for an absent value.
func (r *Reader) ReadOptionalString() (string, error) {
	if _, err := io.ReadFull(r.r, r.b[:1]); err != nil {
		return "", fmt.Errorf("wire: read presence flag: %w", err)
	}
	switch r.b[0] {
	case 0:
		return "", nil
	case 1:
		return r.ReadString()
	default:
		return "", fmt.Errorf("wire: invalid presence flag %d", r.b[0])
	}
}

// ReadStringSlice reads a counted sequence of length-prefixed strings.
// A zero count yields a nil slice.
func (r *Reader) ReadStringSlice() ([]string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n > maxChunk {
		return nil, fmt.Errorf("wire: sequence count %d exceeds limit", n)
	}
	if n == 0 {
		return nil, nil
	}
	ss := make([]string, n)
	for i := range ss {
		if ss[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return ss, nil
}
