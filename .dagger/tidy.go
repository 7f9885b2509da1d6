package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/resumini/internal/dagger"
)

// CheckGoModTidy runs "go mod tidy" against a snapshot of go.mod and go.sum
// and fails when tidy would change either file. A missing go.sum counts as
// an empty one.
//
// +check
func (t *Resumini) CheckGoModTidy(ctx context.Context) (string, error) {
	out, err := t.goContainer().
		WithExec([]string{
			"sh", "-c",
			"touch go.sum && cp go.mod /tmp/go.mod.HEAD && cp go.sum /tmp/go.sum.HEAD",
		}).
		WithExec([]string{"go", "mod", "tidy"}).
		WithExec([]string{
			"sh", "-c",
			"diff -u /tmp/go.mod.HEAD go.mod && diff -u /tmp/go.sum.HEAD go.sum",
		}).
		Stdout(ctx)

	var e *dagger.ExecError
	if errors.As(err, &e) {
		return "", fmt.Errorf(
			"resumini modules are not tidy: run 'go mod tidy' and commit go.mod and go.sum\n\n%s",
			e.Stdout,
		)
	} else if err != nil {
		return "", fmt.Errorf("running go mod tidy: %w", err)
	}

	return fmt.Sprintf("go.mod and go.sum are tidy: %s", out), nil
}

// Verify checks the downloaded module cache against go.sum.
func (t *Resumini) Verify(ctx context.Context) (string, error) {
	return t.goContainer().
		WithExec([]string{"go", "mod", "verify"}).
		Stdout(ctx)
}
