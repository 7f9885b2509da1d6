// Resumini CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/resumini/internal/dagger"
)

// Resumini is the main module for the Resumini CI/CD pipeline
type Resumini struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Resumini CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Resumini {
	return &Resumini{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with gcc,
// libsqlite3-dev, CGO enabled, and the project source mounted. An optional
// platform selects the container architecture.
//
// It is the shared foundation for tests, builds, and linting.
func (t *Resumini) goContainer(platform ...dagger.Platform) *dagger.Container {
	opts := dagger.ContainerOpts{}
	if len(platform) > 0 {
		opts.Platform = platform[0]
	}

	return dag.Container(opts).
		From("golang:1.25-bookworm").
		WithExec([]string{"apt-get", "update"}).
		WithExec([]string{"apt-get", "install", "-y", "gcc", "libsqlite3-dev"}).
		WithEnvVariable("CGO_ENABLED", "1").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", t.Source)
}

// Test runs the resumini unit tests via "go test"
func (t *Resumini) Test(ctx context.Context) (string, error) {
	return t.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
