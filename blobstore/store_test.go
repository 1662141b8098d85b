package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vfs "github.com/hupe1980/rankselect/internal/fs"
)

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	data := []byte("RSNP snapshot payload for rank select")

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := store.Create(ctx, "snap/a.rsnp")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.NoError(t, w.Sync())
			require.NoError(t, w.Close())

			blob, err := store.Open(ctx, "snap/a.rsnp")
			require.NoError(t, err)
			defer blob.Close()
			require.Equal(t, int64(len(data)), blob.Size())

			buf := make([]byte, 8)
			n, err = blob.ReadAt(ctx, buf, 5)
			require.NoError(t, err)
			require.Equal(t, 8, n)
			assert.Equal(t, "snapshot", string(buf))

			rr, err := blob.ReadRange(ctx, 14, 7)
			require.NoError(t, err)
			got, err := io.ReadAll(rr)
			require.NoError(t, err)
			require.NoError(t, rr.Close())
			assert.Equal(t, "payload", string(got))

			n, err = blob.ReadAt(ctx, make([]byte, 10), int64(len(data)-3))
			assert.Equal(t, 3, n)
			assert.Equal(t, io.EOF, err)

			all, err := ReadAll(ctx, store, "snap/a.rsnp")
			require.NoError(t, err)
			assert.Equal(t, data, all)
		})
	}
}

func TestBlobStore_PutListDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "fixtures/Test01.in", []byte("1\nR 1\n")))
			require.NoError(t, store.Put(ctx, "fixtures/Test00.in", []byte("0\n")))
			require.NoError(t, store.Put(ctx, "other.bin", []byte{1}))

			names, err := store.List(ctx, "fixtures/")
			require.NoError(t, err)
			assert.Equal(t, []string{"fixtures/Test00.in", "fixtures/Test01.in"}, names)

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, store.Put(ctx, "other.bin", []byte{2, 3}))
			got, err := ReadAll(ctx, store, "other.bin")
			require.NoError(t, err)
			assert.Equal(t, []byte{2, 3}, got)

			require.NoError(t, store.Delete(ctx, "other.bin"))
			require.NoError(t, store.Delete(ctx, "other.bin"))

			_, err = store.Open(ctx, "other.bin")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte{1, 2, 3}
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 9

	got, err := ReadAll(ctx, store, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestBlobStore_ReadRangeOutlivesBlob(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "a.rsnp", []byte("RSNP snapshot payload")))

			blob, err := store.Open(ctx, "a.rsnp")
			require.NoError(t, err)
			rr, err := blob.ReadRange(ctx, 14, 7)
			require.NoError(t, err)
			require.NoError(t, blob.Close())

			got, err := io.ReadAll(rr)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(got))

			_, err = blob.ReadAt(ctx, make([]byte, 4), 0)
			assert.Error(t, err)
			_, err = blob.ReadRange(ctx, 0, 4)
			assert.Error(t, err)
		})
	}
}

func TestBlobStore_WriteAfterClose(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := store.Create(ctx, "a.rsnp")
			require.NoError(t, err)
			_, err = w.Write([]byte("RSNP"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.ErrorIs(t, w.Close(), os.ErrClosed)
			_, err = w.Write([]byte("more"))
			assert.Error(t, err)

			got, err := ReadAll(ctx, store, "a.rsnp")
			require.NoError(t, err)
			assert.Equal(t, "RSNP", string(got))
		})
	}
}

func TestMemoryStore_OpenBlobSurvivesOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "x", []byte("old")))

	blob, err := store.Open(ctx, "x")
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, store.Put(ctx, "x", []byte("new")))
	require.NoError(t, store.Delete(ctx, "x"))

	got, err := ReadBlob(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	_, err = store.Open(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_AtomicCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewLocalStore(dir)

	w, err := store.Create(ctx, "pending.rsnp")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	// Not visible before Close, and the temp file is hidden from List.
	_, err = os.Stat(filepath.Join(dir, "pending.rsnp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), os.ErrClosed)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pending.rsnp"}, names)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "empty", nil))

	got, err := ReadAll(ctx, store, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_FailedWritesLeaveNothing(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		fault vfs.Fault
	}{
		{"write", vfs.Fault{FailAfterBytes: 4}},
		{"sync", vfs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"close", vfs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"rename", vfs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ffs := vfs.NewFaultyFS(nil)
			ffs.AddRule(".tmp-", tt.fault)
			store := NewLocalStore(dir, WithFileSystem(ffs))

			err := store.Put(ctx, "a.rsnp", []byte("0123456789"))
			require.ErrorIs(t, err, vfs.ErrInjected)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "temporary file left behind")

			_, err = store.Open(ctx, "a.rsnp")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLocalStore_FailedOverwriteKeepsOld(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, NewLocalStore(dir).Put(ctx, "a.rsnp", []byte("old")))

	ffs := vfs.NewFaultyFS(nil)
	ffs.AddRule(".tmp-", vfs.Fault{FailAfterBytes: -1, FailOnSync: true})
	err := NewLocalStore(dir, WithFileSystem(ffs)).Put(ctx, "a.rsnp", []byte("new"))
	require.Error(t, err)

	got, err := ReadAll(ctx, NewLocalStore(dir), "a.rsnp")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}
