// Package s3 stores snapshots in Amazon S3.
//
//	store, err := s3.New(ctx, "my-bucket", "rankselect/")
//	if err != nil { ... }
//	err = idx.Save(ctx, store, "bits.rsnp")
//
// Reads use ranged GETs; writes go through the S3 upload manager, which
// switches to multipart uploads for snapshots larger than one part.
package s3
