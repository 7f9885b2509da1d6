package vectorutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/resumini/pkg/vector"
	"github.com/papercomputeco/resumini/pkg/vector/memory"
	"github.com/papercomputeco/resumini/pkg/vector/qdrant"
	"github.com/papercomputeco/resumini/pkg/vector/sqlitevec"
)

type NewVectorStoreOpts struct {
	// ProviderType is one of "memory", "sqlite", or "qdrant".
	ProviderType string

	// Target is the sqlite database path or the qdrant host:port.
	Target     string
	APIKey     string
	Collection string
	Dimensions uint
	MaxVectors int
	Logger     *slog.Logger
}

func NewVectorStore(ctx context.Context, o *NewVectorStoreOpts) (vector.Store, error) {
	switch o.ProviderType {
	case "memory", "":
		return memory.NewStore(memory.Config{
			Dimensions: int(o.Dimensions),
			MaxVectors: o.MaxVectors,
		}, o.Logger)
	case "sqlite", "sqlitevec":
		return sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
			MaxVectors: o.MaxVectors,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewStore(ctx, qdrant.Config{
			Target:     o.Target,
			APIKey:     o.APIKey,
			Collection: o.Collection,
			Dimensions: o.Dimensions,
			MaxVectors: o.MaxVectors,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
