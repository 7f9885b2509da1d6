package artifactutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/resumini/pkg/artifact"
	"github.com/papercomputeco/resumini/pkg/artifact/local"
	"github.com/papercomputeco/resumini/pkg/artifact/s3"
)

type NewStoreOpts struct {
	// ProviderType is "local", "s3", "r2", or "none".
	ProviderType string

	// Target is the directory for local, the bucket for s3.
	Target    string
	Endpoint  string
	AccountID string
	Region    string
	AccessKey string
	SecretKey string
	Logger    *slog.Logger
}

// NewStore builds the configured artifact store. A "none" provider returns a
// nil store, which callers treat as artifact storage being disabled.
func NewStore(ctx context.Context, o *NewStoreOpts) (artifact.Store, error) {
	switch o.ProviderType {
	case "none", "":
		return nil, nil
	case "local":
		return local.NewStore(local.Config{Dir: o.Target}, o.Logger)
	case "s3", "r2":
		return s3.NewStore(ctx, s3.Config{
			Bucket:    o.Target,
			Endpoint:  o.Endpoint,
			AccountID: o.AccountID,
			Region:    o.Region,
			AccessKey: o.AccessKey,
			SecretKey: o.SecretKey,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported artifact provider: %s", o.ProviderType)
	}
}
