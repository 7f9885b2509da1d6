package main

import (
	"context"
	"fmt"
	"path"

	"dagger/resumini/internal/dagger"
)

// bucketCreds are the S3-compatible credentials shared by every publish step.
type bucketCreds struct {
	endpoint        *dagger.Secret
	bucket          *dagger.Secret
	accessKeyId     *dagger.Secret
	secretAccessKey *dagger.Secret
}

// publish syncs a directory of release artifacts to the bucket under
// resumini/<prefix>.
func (t *Resumini) publish(
	ctx context.Context,
	artifacts *dagger.Directory,
	prefix string,
	creds bucketCreds,
) error {
	bucketName, err := creds.bucket.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket name: %w", err)
	}

	endpointUrl, err := creds.endpoint.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket endpoint: %w", err)
	}

	destination := fmt.Sprintf("s3://%s", path.Join(bucketName, "resumini", prefix))

	_, err = dag.Container().
		From("amazon/aws-cli:latest").
		WithSecretVariable("AWS_ACCESS_KEY_ID", creds.accessKeyId).
		WithSecretVariable("AWS_SECRET_ACCESS_KEY", creds.secretAccessKey).
		WithEnvVariable("AWS_DEFAULT_REGION", "auto").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{
			"aws", "s3", "sync", ".",
			destination,
			"--endpoint-url", endpointUrl,
			"--delete",
		}).
		Sync(ctx)
	if err != nil {
		return fmt.Errorf("publishing %s: %w", prefix, err)
	}

	return nil
}

// withChecksums adds a SHA256SUMS file covering both resumini binaries of
// every architecture in the build directory.
func (t *Resumini) withChecksums(artifacts *dagger.Directory) *dagger.Directory {
	sums := dag.Container().
		From("debian:bookworm-slim").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{
			"sh", "-c",
			"sha256sum linux/*/resumini linux/*/resuminiapi > SHA256SUMS",
		}).
		File("/artifacts/SHA256SUMS")

	return artifacts.WithFile("SHA256SUMS", sums)
}

// Release builds versioned resumini and resuminiapi binaries with checksums
// and publishes them under both the version and "latest".
func (t *Resumini) Release(
	ctx context.Context,

	// Version string (e.g., "v1.0.0")
	version string,

	// Git commit SHA
	commit string,

	// Bucket endpoint URL
	endpoint *dagger.Secret,

	// Bucket name
	bucket *dagger.Secret,

	// Bucket access key ID
	accessKeyId *dagger.Secret,

	// Bucket secret access key
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	creds := bucketCreds{
		endpoint:        endpoint,
		bucket:          bucket,
		accessKeyId:     accessKeyId,
		secretAccessKey: secretAccessKey,
	}

	artifacts := t.withChecksums(t.BuildRelease(ctx, version, commit))

	for _, prefix := range []string{version, "latest"} {
		if err := t.publish(ctx, artifacts, prefix, creds); err != nil {
			return artifacts, err
		}
	}

	return artifacts, nil
}

// Nightly builds the current commit and publishes it under "nightly".
func (t *Resumini) Nightly(
	ctx context.Context,

	// Git commit SHA
	commit string,

	// Bucket endpoint URL
	endpoint *dagger.Secret,

	// Bucket name
	bucket *dagger.Secret,

	// Bucket access key ID
	accessKeyId *dagger.Secret,

	// Bucket secret access key
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	artifacts := t.withChecksums(t.BuildRelease(ctx, "nightly", commit))

	err := t.publish(ctx, artifacts, "nightly", bucketCreds{
		endpoint:        endpoint,
		bucket:          bucket,
		accessKeyId:     accessKeyId,
		secretAccessKey: secretAccessKey,
	})
	return artifacts, err
}
