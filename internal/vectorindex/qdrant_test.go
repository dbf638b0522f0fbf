package vectorindex

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/muhammadolammi/outreachworker/internal/embed"
)

type mockPoints struct {
	upserted   *pb.UpsertPoints
	upsertErr  error
	searched   *pb.SearchPoints
	searchResp *pb.SearchResponse
	searchErr  error
	countResp  *pb.CountResponse
	countErr   error
}

func (m *mockPoints) Upsert(_ context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.upserted = in
	return &pb.PointsOperationResponse{}, m.upsertErr
}

func (m *mockPoints) Search(_ context.Context, in *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	m.searched = in
	return m.searchResp, m.searchErr
}

func (m *mockPoints) Count(_ context.Context, _ *pb.CountPoints, _ ...grpc.CallOption) (*pb.CountResponse, error) {
	return m.countResp, m.countErr
}

type mockCollections struct {
	listResp *pb.ListCollectionsResponse
	listErr  error
	created  *pb.CreateCollection
	deleted  *pb.DeleteCollection
}

func (m *mockCollections) List(_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	return m.listResp, m.listErr
}

func (m *mockCollections) Create(_ context.Context, in *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	m.created = in
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func (m *mockCollections) Delete(_ context.Context, in *pb.DeleteCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	m.deleted = in
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func strVal(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func TestQdrant_MissingCollectionCountsZero(t *testing.T) {
	ctx := context.Background()
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{}}
	q := newQdrant(&mockPoints{countErr: errors.New("must not be called")}, cols, "portfolio", embed.Hashing(8))
	require.NoError(t, q.refresh(ctx))

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	res, err := q.Query(ctx, "Go", 2)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NoError(t, q.Close())
}

func TestQdrant_ExistingCollectionCounts(t *testing.T) {
	ctx := context.Background()
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{
		Collections: []*pb.CollectionDescription{{Name: "other"}, {Name: "portfolio"}},
	}}
	pts := &mockPoints{countResp: &pb.CountResponse{Result: &pb.CountResult{Count: 4}}}
	q := newQdrant(pts, cols, "portfolio", embed.Hashing(8))
	require.NoError(t, q.refresh(ctx))

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestQdrant_ListError(t *testing.T) {
	cols := &mockCollections{listErr: errors.New("unavailable")}
	q := newQdrant(&mockPoints{}, cols, "portfolio", embed.Hashing(8))
	assert.Error(t, q.refresh(context.Background()))
}

func TestQdrant_AddCreatesCollectionLazily(t *testing.T) {
	ctx := context.Background()
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{}}
	pts := &mockPoints{}
	q := newQdrant(pts, cols, "portfolio", embed.Hashing(16))
	require.NoError(t, q.refresh(ctx))

	err := q.Add(ctx, []Document{{
		ID:       "6f1c5a1e-8f43-4a4b-9a61-0d1f3f3c2b10",
		Content:  "Go, gRPC",
		Metadata: map[string]string{"link": "http://a"},
	}})
	require.NoError(t, err)

	require.NotNil(t, cols.created)
	assert.Equal(t, "portfolio", cols.created.GetCollectionName())
	assert.Equal(t, uint64(16), cols.created.GetVectorsConfig().GetParams().GetSize())
	assert.Equal(t, pb.Distance_Cosine, cols.created.GetVectorsConfig().GetParams().GetDistance())

	require.NotNil(t, pts.upserted)
	require.Len(t, pts.upserted.GetPoints(), 1)
	p := pts.upserted.GetPoints()[0]
	assert.Equal(t, "6f1c5a1e-8f43-4a4b-9a61-0d1f3f3c2b10", p.GetId().GetUuid())
	assert.Equal(t, "Go, gRPC", p.GetPayload()[documentKey].GetStringValue())
	assert.Equal(t, "http://a", p.GetPayload()["link"].GetStringValue())
}

func TestQdrant_QueryMapsPayload(t *testing.T) {
	ctx := context.Background()
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{
		Collections: []*pb.CollectionDescription{{Name: "portfolio"}},
	}}
	pts := &mockPoints{searchResp: &pb.SearchResponse{Result: []*pb.ScoredPoint{{
		Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "id-1"}},
		Score: 0.9,
		Payload: map[string]*pb.Value{
			documentKey: strVal("React, Node.js"),
			"link":      strVal("http://x"),
		},
	}}}}
	q := newQdrant(pts, cols, "portfolio", embed.Hashing(8))
	require.NoError(t, q.refresh(ctx))

	res, err := q.Query(ctx, "React", 3)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "id-1", res[0].ID)
	assert.Equal(t, "React, Node.js", res[0].Content)
	assert.Equal(t, map[string]string{"link": "http://x"}, res[0].Metadata)
	assert.Equal(t, float32(0.9), res[0].Similarity)
	assert.Equal(t, uint64(3), pts.searched.GetLimit())
}

func TestQdrant_ClearDeletesCollection(t *testing.T) {
	ctx := context.Background()
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{
		Collections: []*pb.CollectionDescription{{Name: "portfolio"}},
	}}
	q := newQdrant(&mockPoints{}, cols, "portfolio", embed.Hashing(8))
	require.NoError(t, q.refresh(ctx))

	require.NoError(t, q.Clear(ctx))
	require.NotNil(t, cols.deleted)
	assert.Equal(t, "portfolio", cols.deleted.GetCollectionName())

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
