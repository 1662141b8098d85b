// Package fs publishes snapshot files atomically and lets tests inject
// failures into that path.
//
// CreateAtomic stages writes in a hidden ".<name>.tmp-*" sibling and renames
// it over the destination on Close:
//
//	f, err := fs.CreateAtomic(fs.Default, "snaps/bits.rsnp", 0o644)
//	...
//	if _, err := f.Write(data); err != nil {
//	    _ = f.Abort()
//	}
//	err = f.Close()
//
// Tests wrap [Default] in a [FaultyFS] to fail writes, syncs, closes or
// renames of matching paths:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(fs.TempMarker, fs.Fault{FailAfterBytes: -1, FailOnSync: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Operations take no context: local file calls are not interruptible.
package fs
