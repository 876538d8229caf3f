// Package s3 uploads files to S3-compatible object storage.
//
// It is used by `nodeinit ship-logs` to publish the output of the
// background init scripts, which is otherwise only visible on the leader's
// disk. Any endpoint speaking the S3 API works (AWS, GCS interoperability,
// MinIO, Hetzner Object Storage).
package s3
