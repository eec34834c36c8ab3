package querygate

import (
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/querygate/internal/wire"
)

// Encode writes the request's internal transport form. The layout is
// fixed across protocol versions: the shared replication fields first
// (timeout, indices), then the source bytes, the optional routing value,
// and the types sequence.
func (r *DeleteByQueryRequest) Encode(w io.Writer) error {
	ww := wire.NewWriter(w)
	if err := r.base.writeTo(ww); err != nil {
		return err
	}
	if err := ww.WriteBytes(r.source); err != nil {
		return fmt.Errorf("encode source: %w", err)
	}
	if err := ww.WriteOptionalString(r.routing); err != nil {
		return fmt.Errorf("encode routing: %w", err)
	}
	if err := ww.WriteStringSlice(r.types); err != nil {
		return fmt.Errorf("encode types: %w", err)
	}
	return nil
}

// DecodeDeleteByQuery reads a request from its internal transport form.
// The decoded request always owns its source buffer.
func DecodeDeleteByQuery(rd io.Reader) (*DeleteByQueryRequest, error) {
	rr := wire.NewReader(rd)
	req := &DeleteByQueryRequest{own: Owned}
	if err := req.base.readFrom(rr); err != nil {
		return nil, err
	}
	var err error
	if req.source, err = rr.ReadBytes(); err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}
	if req.routing, err = rr.ReadOptionalString(); err != nil {
		return nil, fmt.Errorf("decode routing: %w", err)
	}
	if req.types, err = rr.ReadStringSlice(); err != nil {
		return nil, fmt.Errorf("decode types: %w", err)
	}
	return req, nil
}

func (b *replicationBase) writeTo(w *wire.Writer) error {
	if err := w.WriteUint64(uint64(b.timeout)); err != nil {
		return fmt.Errorf("encode timeout: %w", err)
	}
	if err := w.WriteStringSlice(b.indices); err != nil {
		return fmt.Errorf("encode indices: %w", err)
	}
	return nil
}

func (b *replicationBase) readFrom(r *wire.Reader) error {
	timeout, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("decode timeout: %w", err)
	}
	b.timeout = time.Duration(timeout)
	if b.indices, err = r.ReadStringSlice(); err != nil {
		return fmt.Errorf("decode indices: %w", err)
	}
	return nil
}
