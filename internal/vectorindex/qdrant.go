package vectorindex

import (
	"context"
	"fmt"

	"github.com/muhammadolammi/outreachworker/internal/embed"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// documentKey is the payload key holding the document text. Every other
// payload key is returned as metadata.
const documentKey = "document"

type pointsClient interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Count(ctx context.Context, in *pb.CountPoints, opts ...grpc.CallOption) (*pb.CountResponse, error)
}

type collectionsClient interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// QdrantCollection keeps a collection in a Qdrant server. The Qdrant
// collection is created on the first Add, once the vector size is known.
type QdrantCollection struct {
	conn        *grpc.ClientConn
	points      pointsClient
	collections collectionsClient
	name        string
	embed       embed.Func
	exists      bool
}

// QdrantOpener dials addr for every opened collection.
func QdrantOpener(addr string, fn embed.Func) Opener {
	return func(ctx context.Context, name string) (Collection, error) {
		c, err := OpenQdrant(ctx, addr, name, fn)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// OpenQdrant connects to Qdrant at the given gRPC address and attaches to name.
func OpenQdrant(ctx context.Context, addr, name string, fn embed.Func) (*QdrantCollection, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("vectorindex: dial qdrant %s: %w", addr, err)
	}
	c := newQdrant(pb.NewPointsClient(conn), pb.NewCollectionsClient(conn), name, fn)
	c.conn = conn
	if err := c.refresh(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func newQdrant(points pointsClient, collections collectionsClient, name string, fn embed.Func) *QdrantCollection {
	return &QdrantCollection{
		points:      points,
		collections: collections,
		name:        name,
		embed:       fn,
	}
}

func (q *QdrantCollection) refresh(ctx context.Context) error {
	list, err := q.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("vectorindex: list collections: %w", err)
	}
	q.exists = false
	for _, c := range list.GetCollections() {
		if c.GetName() == q.name {
			q.exists = true
			break
		}
	}
	return nil
}

func (q *QdrantCollection) Name() string { return q.name }

// Count returns the exact number of points in the collection.
func (q *QdrantCollection) Count(ctx context.Context) (int, error) {
	if !q.exists {
		return 0, nil
	}
	exact := true
	resp, err := q.points.Count(ctx, &pb.CountPoints{
		CollectionName: q.name,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("vectorindex: count %s: %w", q.name, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

func (q *QdrantCollection) create(ctx context.Context, dims int) error {
	_, err := q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("vectorindex: create collection %s: %w", q.name, err)
	}
	q.exists = true
	return nil
}

// Add embeds docs and upserts them as points.
func (q *QdrantCollection) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	points := make([]*pb.PointStruct, len(docs))
	for i, d := range docs {
		vec, err := q.embed(ctx, d.Content)
		if err != nil {
			return fmt.Errorf("vectorindex: embed document %s: %w", d.ID, err)
		}
		if !q.exists {
			if err := q.create(ctx, len(vec)); err != nil {
				return err
			}
		}

		payload := make(map[string]*pb.Value, len(d.Metadata)+1)
		for k, v := range d.Metadata {
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
		}
		payload[documentKey] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: d.Content}}

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: d.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vec},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.name,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("vectorindex: upsert %d points: %w", len(docs), err)
	}
	return nil
}

// Query performs a k-NN search for text.
func (q *QdrantCollection) Query(ctx context.Context, text string, n int) ([]Result, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if n <= 0 || !q.exists {
		return nil, nil
	}
	vec, err := q.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: embed query: %w", err)
	}

	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.name,
		Vector:         vec,
		Limit:          uint64(n),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search %s: %w", q.name, err)
	}

	results := make([]Result, len(resp.GetResult()))
	for i, p := range resp.GetResult() {
		r := Result{
			ID:         p.GetId().GetUuid(),
			Similarity: p.GetScore(),
			Metadata:   make(map[string]string),
		}
		for k, v := range p.GetPayload() {
			if k == documentKey {
				r.Content = v.GetStringValue()
				continue
			}
			r.Metadata[k] = v.GetStringValue()
		}
		results[i] = r
	}
	return results, nil
}

// Clear deletes the Qdrant collection. The next Add recreates it.
func (q *QdrantCollection) Clear(ctx context.Context) error {
	if !q.exists {
		return nil
	}
	_, err := q.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: q.name,
	})
	if err != nil {
		return fmt.Errorf("vectorindex: delete collection %s: %w", q.name, err)
	}
	q.exists = false
	return nil
}

// Close closes the underlying gRPC connection.
func (q *QdrantCollection) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}
