package main

import (
	"context"
	"fmt"
)

// CheckVet runs "go vet" over every resumini package. sqlite-vec needs cgo,
// so it runs on the shared cgo container.
//
// +check
func (t *Resumini) CheckVet(ctx context.Context) (string, error) {
	out, err := t.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
	if err != nil {
		return "", fmt.Errorf("go vet failed: %w", err)
	}
	return out, nil
}

// CheckFmt fails when any package in the module is not gofmt clean.
//
// +check
func (t *Resumini) CheckFmt(ctx context.Context) (string, error) {
	out, err := t.goContainer().
		WithExec([]string{
			"sh", "-c",
			`files=$(gofmt -l $(go list -f '{{.Dir}}' ./...)); ` +
				`if [ -n "$files" ]; then echo "$files"; exit 1; fi`,
		}).
		Stdout(ctx)
	if err != nil {
		return "", fmt.Errorf("gofmt found unformatted files: %w", err)
	}
	return out, nil
}
