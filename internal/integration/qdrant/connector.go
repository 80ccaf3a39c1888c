package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Payload keys of an indexed point. Retrieval-side code reconstructs
// chunks from these, so they are part of the index contract.
const (
	payloadDocID      = "docId"
	payloadFilename   = "filename"
	payloadChunkIndex = "chunkIndex"
	payloadContent    = "content"
)

// Connector is the gRPC client for the Qdrant vector index.
type Connector struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	timeout     time.Duration
	logger      *zap.Logger
}

func NewConnector(cfg config.QdrantConfig, logger *zap.Logger) (*Connector, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}

	return &Connector{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Collection,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// callCtx bounds one RPC with the configured timeout.
func (c *Connector) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func (c *Connector) Close() error {
	return c.conn.Close()
}

// EnsureCollection creates the collection if it does not exist. Vector
// size and cosine distance are fixed at creation time; a dimension change
// requires recreating the collection.
func (c *Connector) EnsureCollection(ctx context.Context, dimension int) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	list, err := c.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: list collections: %v", entity.ErrVectorStoreFailed, err)
	}

	for _, col := range list.GetCollections() {
		if col.GetName() == c.collection {
			return nil
		}
	}

	_, err = c.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: c.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %v", entity.ErrVectorStoreFailed, err)
	}

	c.logger.Info("collection created",
		zap.String("collection", c.collection),
		zap.Int("dimension", dimension),
	)
	return nil
}

// Upsert writes all points in one batched call.
func (c *Connector) Upsert(ctx context.Context, points []entity.IndexedPoint) error {
	if len(points) == 0 {
		return nil
	}

	upsertPoints := make([]*qdrantclient.PointStruct, 0, len(points))
	for _, p := range points {
		upsertPoints = append(upsertPoints, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Num{Num: p.ID},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: p.Vector},
				},
			},
			Payload: chunkToPayload(p.Payload),
		})
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	wait := true
	_, err := c.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: c.collection,
		Points:         upsertPoints,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert points: %v", entity.ErrVectorStoreFailed, err)
	}

	ctxzap.Debug(ctx, "points upserted",
		zap.String("collection", c.collection),
		zap.Int("point_count", len(points)),
	)
	return nil
}

// Search returns the top-limit nearest neighbors, scoped to documentID
// when it is non-empty.
func (c *Connector) Search(ctx context.Context, vector []float32, limit int, documentID string) ([]entity.ScoredChunk, error) {
	req := &qdrantclient.SearchPoints{
		CollectionName: c.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	}

	if documentID != "" {
		req.Filter = &qdrantclient.Filter{
			Must: []*qdrantclient.Condition{
				{
					ConditionOneOf: &qdrantclient.Condition_Field{
						Field: &qdrantclient.FieldCondition{
							Key: payloadDocID,
							Match: &qdrantclient.Match{
								MatchValue: &qdrantclient.Match_Keyword{Keyword: documentID},
							},
						},
					},
				},
			},
		}
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: search points: %v", entity.ErrVectorStoreFailed, err)
	}

	results := make([]entity.ScoredChunk, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		results = append(results, entity.ScoredChunk{
			Chunk: chunkFromPayload(point.GetPayload()),
			Score: point.GetScore(),
		})
	}

	return results, nil
}

func chunkToPayload(chunk entity.Chunk) map[string]*qdrantclient.Value {
	return map[string]*qdrantclient.Value{
		payloadDocID:      {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.DocumentID}},
		payloadFilename:   {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.Filename}},
		payloadChunkIndex: {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(chunk.Index)}},
		payloadContent:    {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.Content}},
	}
}

func chunkFromPayload(payload map[string]*qdrantclient.Value) entity.Chunk {
	chunk := entity.Chunk{}
	if v, ok := payload[payloadDocID]; ok {
		chunk.DocumentID = v.GetStringValue()
	}
	if v, ok := payload[payloadFilename]; ok {
		chunk.Filename = v.GetStringValue()
	}
	if v, ok := payload[payloadChunkIndex]; ok {
		chunk.Index = int(v.GetIntegerValue())
	}
	if v, ok := payload[payloadContent]; ok {
		chunk.Content = v.GetStringValue()
	}
	return chunk
}
