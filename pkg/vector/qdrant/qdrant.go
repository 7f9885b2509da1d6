// Package qdrant provides a vector.Store backed by a Qdrant collection.
package qdrant

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/papercomputeco/resumini/pkg/vector"
)

const (
	// DefaultCollection is the collection chunks are written to.
	DefaultCollection = "resumini_chunks"

	// DefaultPort is Qdrant's gRPC port.
	DefaultPort = 6334

	textKey = "text"
)

// Client is the subset of *qdrant.Client the store needs.
type Client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
	Close() error
}

// Config holds configuration for the Qdrant store.
type Config struct {
	// Target is "host:port" of the gRPC endpoint. A bare host uses DefaultPort.
	Target     string
	APIKey     string
	UseTLS     bool
	Collection string

	// Dimensions is the vector size of the collection. Required.
	Dimensions uint

	// MaxVectors caps the number of stored vectors. Zero means unbounded.
	MaxVectors int
}

// Store implements vector.Store on a Qdrant collection. Point IDs are the
// chunks' insertion indices and vectors are compared with Euclid distance.
type Store struct {
	mu         sync.Mutex
	client     Client
	collection string
	dims       int
	max        int
	logger     *slog.Logger
}

// NewStore connects to Qdrant and ensures the collection exists.
func NewStore(ctx context.Context, c Config, logger *slog.Logger) (*Store, error) {
	host, port, err := splitTarget(c.Target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant at %s: %v", vector.ErrConnection, c.Target, err)
	}

	s, err := NewStoreWithClient(ctx, client, c, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithClient builds a store on an existing client.
func NewStoreWithClient(ctx context.Context, client Client, c Config, logger *slog.Logger) (*Store, error) {
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant store requires a vector dimension")
	}
	if c.MaxVectors < 0 {
		return nil, fmt.Errorf("max vectors cannot be negative: %d", c.MaxVectors)
	}

	collection := c.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	exists, err := client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: checking collection %s: %v", vector.ErrConnection, collection, err)
	}
	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(c.Dimensions),
				Distance: qdrant.Distance_Euclid,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("creating collection %s: %w", collection, err)
		}
		logger.Info("created qdrant collection", "collection", collection, "dimensions", c.Dimensions)
	}

	return &Store{
		client:     client,
		collection: collection,
		dims:       int(c.Dimensions),
		max:        c.MaxVectors,
		logger:     logger,
	}, nil
}

func splitTarget(target string) (string, int, error) {
	if target == "" {
		return "localhost", DefaultPort, nil
	}
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return target, DefaultPort, nil //nolint:nilerr // bare host
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}
	return host, port, nil
}

// Add upserts the batch with IDs continuing from the current count.
func (s *Store) Add(ctx context.Context, vectors [][]float32, texts []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.count(ctx)
	if err != nil {
		return 0, err
	}
	if len(vectors) == 0 && len(texts) == 0 {
		return count, nil
	}
	if _, err := vector.ValidateAdd(s.dims, vectors, texts); err != nil {
		return count, err
	}
	if s.max > 0 && count+len(vectors) > s.max {
		return count, fmt.Errorf("%w: holding %d, adding %d, max %d",
			vector.ErrCapacityExceeded, count, len(vectors), s.max)
	}

	points := make([]*qdrant.PointStruct, len(vectors))
	for i, v := range vectors {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(count + i)),
			Vectors: qdrant.NewVectors(v...),
			Payload: qdrant.NewValueMap(map[string]any{textKey: texts[i]}),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return count, fmt.Errorf("upserting %d points: %w", len(points), err)
	}

	total := count + len(vectors)
	s.logger.Debug("added chunks to qdrant",
		"collection", s.collection,
		"added", len(vectors),
		"total", total,
	)
	return total, nil
}

// Search runs an exact query over every point in the collection and ranks
// the hits by squared L2 distance, breaking ties by insertion index. The
// whole collection is requested so that Qdrant never chooses which of several
// equally distant points survive the limit.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]vector.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, vector.ErrNotReady
	}
	if len(query) != s.dims {
		return nil, &vector.DimensionError{Expected: s.dims, Got: len(query), Position: -1}
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", vector.ErrInvalidK, k)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(count)),
		Params:         &qdrant.SearchParams{Exact: qdrant.PtrOf(true)},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.collection, err)
	}

	results := make([]vector.Result, 0, len(points))
	for _, p := range points {
		results = append(results, vector.Result{
			Index:    int(p.GetId().GetNum()),
			Text:     p.GetPayload()[textKey].GetStringValue(),
			Distance: distance(query, p),
		})
	}

	slices.SortStableFunc(results, func(a, b vector.Result) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	return results[:min(k, len(results))], nil
}

// distance recomputes the squared distance from the returned vector. Points
// without a vector fall back to squaring Qdrant's Euclid score.
func distance(query []float32, p *qdrant.ScoredPoint) float64 {
	v := p.GetVectors().GetVector()
	data := v.GetDense().GetData()
	if len(data) == 0 {
		data = v.GetData() //nolint:staticcheck // older servers only fill Data
	}
	if len(data) == len(query) {
		return vector.SquaredL2(query, data)
	}
	d := float64(p.GetScore())
	return d * d
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count(ctx)
}

func (s *Store) count(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting points: %v", vector.ErrConnection, err)
	}
	return int(n), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ vector.Store = (*Store)(nil)
