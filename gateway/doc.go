// Package gateway provides the object store implementations behind s3types.Gateway.
//
// Two backends are available: AWS, built on aws-sdk-go-v2 and suitable for Amazon
// S3 and most S3-compatible services, and Minio, built on minio-go for deployments
// that already standardise on the MinIO client. Both bind a single bucket, never
// retry on their own beyond what the underlying SDK does, and report every failure
// as an *errors.Error matching errors.ErrGateway.
package gateway
