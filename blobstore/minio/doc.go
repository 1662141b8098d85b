// Package minio stores snapshots on MinIO or any S3-compatible server
// (Ceph, Garage, SeaweedFS) through the MinIO client.
//
//	store, err := minio.New("localhost:9000", "minioadmin", "minioadmin", "snapshots", "rankselect/", false)
//	if err != nil { ... }
//	err = idx.Save(ctx, store, "bits.rsnp")
//
// Unlike the s3 package it needs no AWS configuration, which suits
// air-gapped benchmark hosts.
package minio
