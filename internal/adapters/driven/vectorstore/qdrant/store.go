// Package qdrant provides a vector store adapter for a Qdrant server,
// spoken to over gRPC with the official Go client.
package qdrant

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const (
	// DefaultTimeout bounds each call.
	DefaultTimeout = 60 * time.Second

	// restPort is the port Qdrant serves REST on. URLs copied from the
	// dashboard carry it, so it is swapped for the gRPC port.
	restPort = 6333
	grpcPort = 6334
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL locates the server, e.g. https://xyz.cloud.qdrant.io:6333 (required).
	// An https scheme turns on TLS.
	URL string

	// APIKey is sent with every call when set. Self-hosted servers
	// usually run without one.
	APIKey string

	// Timeout is the per-call timeout (default: 60s).
	Timeout time.Duration
}

// Store talks to a Qdrant server. The connection is opened on first use.
type Store struct {
	cfg     qdrant.Config
	timeout time.Duration

	once    sync.Once
	client  *qdrant.Client
	openErr error
}

// NewStore validates cfg and creates the store. No connection is made.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: vector.url", domain.ErrMissingConfig)
	}
	clientCfg, err := clientConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	clientCfg.APIKey = cfg.APIKey
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{cfg: clientCfg, timeout: cfg.Timeout}, nil
}

// clientConfig turns a server URL into the client's host, port and TLS
// settings.
func clientConfig(raw string) (qdrant.Config, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return qdrant.Config{}, fmt.Errorf("%w: vector.url %q: want scheme://host[:port]", domain.ErrInvalidInput, raw)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return qdrant.Config{}, fmt.Errorf("%w: vector.url %q: scheme must be http or https", domain.ErrInvalidInput, raw)
	}

	port := grpcPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return qdrant.Config{}, fmt.Errorf("%w: vector.url %q: port %q", domain.ErrInvalidInput, raw, p)
		}
		if n != restPort {
			port = n
		}
	}

	return qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		UseTLS: u.Scheme == "https",
	}, nil
}

// Address returns the host:port the store dials.
func (s *Store) Address() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

func (s *Store) conn() (*qdrant.Client, error) {
	s.once.Do(func() {
		cfg := s.cfg
		s.client, s.openErr = qdrant.NewClient(&cfg)
		if s.openErr != nil {
			s.openErr = fmt.Errorf("%w: qdrant %s: %v", domain.ErrVectorStoreUnavailable, s.Address(), s.openErr)
			return
		}
		logger.Debug("qdrant: connected to %s (tls=%t)", s.Address(), s.cfg.UseTLS)
	})
	return s.client, s.openErr
}

// ListCollections returns the names of all collections on the server.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	client, err := s.conn()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := client.ListCollections(ctx)
	if err != nil {
		return nil, mapError("list collections", err)
	}
	return names, nil
}

// CreateCollection creates a collection with the given vector size and distance.
func (s *Store) CreateCollection(ctx context.Context, spec domain.CollectionSpec) error {
	if spec.Name == "" || spec.VectorSize <= 0 {
		return fmt.Errorf("%w: collection needs a name and a positive vector size", domain.ErrInvalidInput)
	}
	if spec.Distance == "" {
		spec.Distance = domain.DistanceCosine
	}
	distance, ok := toDistance(spec.Distance)
	if !ok {
		return fmt.Errorf("%w: distance %q", domain.ErrUnsupportedType, spec.Distance)
	}

	client, err := s.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.VectorSize),
			Distance: distance,
		}),
	})
	if err != nil {
		return mapError(fmt.Sprintf("create collection %q", spec.Name), err)
	}
	logger.Debug("qdrant: created collection %s (%d, %s)", spec.Name, spec.VectorSize, spec.Distance)
	return nil
}

// Upsert writes points and waits until the server has applied them.
func (s *Store) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	client, err := s.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	structs := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		structs[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: toPayload(p.Payload),
		}
	}

	wait := true
	_, err = client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         structs,
	})
	if err != nil {
		return mapError(fmt.Sprintf("upsert %d points into %q", len(points), collection), err)
	}
	return nil
}

// GetCollection returns the collection shape and point count.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	client, err := s.conn()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, mapError(fmt.Sprintf("get collection %q", name), err)
	}

	params := result.GetConfig().GetParams().GetVectorsConfig().GetParams()
	return &domain.CollectionInfo{
		Name:       name,
		VectorSize: int(params.GetSize()),
		Distance:   fromDistance(params.GetDistance()),
		PointCount: int(result.GetPointsCount()),
	}, nil
}

// Ping checks the server is reachable and the API key is accepted.
func (s *Store) Ping(ctx context.Context) error {
	client, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: qdrant %s: %v", domain.ErrVectorStoreUnavailable, s.Address(), status.Convert(err).Message())
	}
	return nil
}

// Close releases the connection, if one was opened.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// mapError translates a gRPC status into a domain error, keeping the
// server's message.
func mapError(op string, err error) error {
	st := status.Convert(err)
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, st.Message())
	case codes.Unavailable, codes.Unauthenticated, codes.PermissionDenied, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %s (%s)", op, domain.ErrVectorStoreUnavailable, st.Message(), st.Code())
	default:
		return fmt.Errorf("%s: qdrant error: %s (%s)", op, st.Message(), st.Code())
	}
}

func toDistance(d domain.Distance) (qdrant.Distance, bool) {
	switch d {
	case domain.DistanceCosine:
		return qdrant.Distance_Cosine, true
	case domain.DistanceDot:
		return qdrant.Distance_Dot, true
	case domain.DistanceEuclidean:
		return qdrant.Distance_Euclid, true
	default:
		return qdrant.Distance_UnknownDistance, false
	}
}

func fromDistance(d qdrant.Distance) domain.Distance {
	switch d {
	case qdrant.Distance_Cosine:
		return domain.DistanceCosine
	case qdrant.Distance_Dot:
		return domain.DistanceDot
	case qdrant.Distance_Euclid:
		return domain.DistanceEuclidean
	default:
		return domain.Distance(d.String())
	}
}

// toPayload builds the point payload. Field names match Payload.Map.
func toPayload(p domain.Payload) map[string]*qdrant.Value {
	tags := make([]*qdrant.Value, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = stringValue(tag)
	}

	return map[string]*qdrant.Value{
		"chunk_id":       stringValue(p.ChunkID),
		"scenario_title": stringValue(p.ScenarioTitle),
		"category":       stringValue(p.Category),
		"chunk_index":    intValue(p.ChunkIndex),
		"total_chunks":   intValue(p.TotalChunks),
		"content":        stringValue(p.Content),
		"tags":           {Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: tags}}},
	}
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func intValue(n int) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(n)}}
}
