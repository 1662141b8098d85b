package rankselect

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/rankselect/blobstore"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/persistence"
)

// Words returns a copy of the indexed vector.
func (x *Index) Words() []uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.impl.(index.Exporter).AppendWords(make([]uint64, 0, x.impl.Len()/64))
}

// Save writes a snapshot of the index to store under name, compressed with
// the codec chosen by WithCompression.
func (x *Index) Save(ctx context.Context, store blobstore.BlobStore, name string) error {
	snap := &persistence.Snapshot{
		Kind:        x.kind,
		K:           x.K(),
		Compression: x.opts.compression,
		Words:       x.Words(),
	}

	var buf bytes.Buffer
	_, err := persistence.Encode(&buf, snap)
	if err == nil {
		err = x.opts.resources.WaitIO(ctx, buf.Len())
	}
	if err == nil {
		err = store.Put(ctx, name, buf.Bytes())
	}
	if err != nil {
		err = fmt.Errorf("save %s: %w", name, err)
	}
	x.opts.logger.LogSnapshot(ctx, name, buf.Len(), err)
	return translateError(err)
}

// Load reads a snapshot and rebuilds the index it describes. The kind and k
// stored in the snapshot win over WithK.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)

	x, err := load(ctx, store, name, o, optFns)
	if err != nil {
		o.logger.LogLoad(ctx, name, index.KindUnknown, 0, err)
		return nil, err
	}
	o.logger.LogLoad(ctx, name, x.Kind(), x.Len(), nil)
	return x, nil
}

func load(ctx context.Context, store blobstore.BlobStore, name string, o options, optFns []Option) (*Index, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer blob.Close()

	if err := o.resources.WaitIO(ctx, int(blob.Size())); err != nil {
		return nil, err
	}
	// Mapped blobs are decoded in place; Unmarshal copies the words out
	// before the deferred Close unmaps them.
	var data []byte
	if m, ok := blob.(blobstore.Mappable); ok {
		data, err = m.Bytes()
	} else {
		data, err = blobstore.ReadBlob(ctx, blob)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	snap, err := persistence.Unmarshal(data)
	if err != nil {
		return nil, translateSnapshotError(name, err)
	}

	opts := append(append([]Option{}, optFns...), WithCompression(snap.Compression))
	if snap.Kind == KindSpaceEfficient {
		opts = append(opts, WithK(snap.K))
	}
	return New(snap.Kind, snap.Words, opts...)
}
