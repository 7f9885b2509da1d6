package main

import (
	"fmt"
	"strings"
	"time"

	"context"

	"dagger/resumini/internal/dagger"
)

// Build and return directory of go binaries
//
// sqlite-vec is linked through cgo, so binaries are built natively for each
// linux architecture on the cgo-enabled Debian container.
func (t *Resumini) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	// define build matrix
	goarches := []string{"amd64", "arm64"}

	// create empty directory to put build artifacts
	outputs := dag.Directory()

	for _, goarch := range goarches {
		// create directory for each architecture
		path := fmt.Sprintf("linux/%s/", goarch)

		// build artifact
		build := t.goContainer(dagger.Platform("linux/"+goarch)).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/resumini"}).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/resuminiapi"})

		// add build to outputs
		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	// return build directory
	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (t *Resumini) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now()

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/papercomputeco/resumini/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/papercomputeco/resumini/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/papercomputeco/resumini/pkg/utils.Buildtime=%s'", buildtime),
	}

	return t.Build(ctx, strings.Join(ldflags, " "))
}
