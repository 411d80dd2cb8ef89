package semantic

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

// --- mocks ---

type mockPoints struct {
	upsertResp *pb.PointsOperationResponse
	upsertErr  error
	searchResp *pb.SearchResponse
	searchErr  error
	lastUpsert *pb.UpsertPoints
	lastSearch *pb.SearchPoints
}

func (m *mockPoints) Upsert(_ context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.lastUpsert = in
	return m.upsertResp, m.upsertErr
}

func (m *mockPoints) Search(_ context.Context, in *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	m.lastSearch = in
	return m.searchResp, m.searchErr
}

type mockCollections struct {
	listResp   *pb.ListCollectionsResponse
	listErr    error
	createResp *pb.CollectionOperationResponse
	createErr  error
	created    *pb.CreateCollection
}

func (m *mockCollections) List(_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	return m.listResp, m.listErr
}

func (m *mockCollections) Create(_ context.Context, in *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	m.created = in
	return m.createResp, m.createErr
}

// --- tests ---

func TestClose_NilConn(t *testing.T) {
	vs := NewWithClients(&mockPoints{}, &mockCollections{}, "test")
	if err := vs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestEnsureCollection_AlreadyExists(t *testing.T) {
	cols := &mockCollections{
		listResp: &pb.ListCollectionsResponse{
			Collections: []*pb.CollectionDescription{{Name: "vendor_profiles"}},
		},
	}
	vs := NewWithClients(&mockPoints{}, cols, "vendor_profiles")
	if err := vs.EnsureCollection(context.Background(), 768); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.created != nil {
		t.Error("expected no create call for existing collection")
	}
}

func TestEnsureCollection_Creates(t *testing.T) {
	cols := &mockCollections{
		listResp:   &pb.ListCollectionsResponse{Collections: []*pb.CollectionDescription{}},
		createResp: &pb.CollectionOperationResponse{Result: true},
	}
	vs := NewWithClients(&mockPoints{}, cols, "vendor_profiles")
	if err := vs.EnsureCollection(context.Background(), 768); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.created == nil {
		t.Fatal("expected a create call")
	}
	if got := cols.created.GetVectorsConfig().GetParams().GetSize(); got != 768 {
		t.Errorf("expected dims 768, got %d", got)
	}
}

func TestEnsureCollection_ListError(t *testing.T) {
	cols := &mockCollections{listErr: errors.New("boom")}
	vs := NewWithClients(&mockPoints{}, cols, "vendor_profiles")
	if err := vs.EnsureCollection(context.Background(), 768); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpsert_BuildsPayload(t *testing.T) {
	pts := &mockPoints{upsertResp: &pb.PointsOperationResponse{}}
	vs := NewWithClients(pts, &mockCollections{}, "vendor_profiles")

	err := vs.Upsert(context.Background(), VendorPoint{
		ID:        "11111111-2222-3333-4444-555555555555",
		Embedding: []float32{0.1, 0.2},
		Document:  "Raw Content: fresh vegetables in Indiranagar",
		Name:      "Green Basket",
		Location:  "Indiranagar",
		Category:  "grocery",
		Contact:   "wa:+919900112233",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pts.lastUpsert == nil || len(pts.lastUpsert.GetPoints()) != 1 {
		t.Fatal("expected exactly one point")
	}
	p := pts.lastUpsert.GetPoints()[0]
	if p.GetId().GetUuid() != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("unexpected id %s", p.GetId().GetUuid())
	}
	if got := p.GetPayload()["name"].GetStringValue(); got != "Green Basket" {
		t.Errorf("unexpected name payload %q", got)
	}
	if got := p.GetPayload()["document"].GetStringValue(); got == "" {
		t.Error("expected document payload")
	}
}

func TestUpsert_RejectsEmptyIDOrDocument(t *testing.T) {
	vs := NewWithClients(&mockPoints{}, &mockCollections{}, "vendor_profiles")
	if err := vs.Upsert(context.Background(), VendorPoint{Document: "x"}); err == nil {
		t.Error("expected error for empty id")
	}
	if err := vs.Upsert(context.Background(), VendorPoint{ID: "a"}); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestSearch_MapsHitsInOrder(t *testing.T) {
	pts := &mockPoints{
		searchResp: &pb.SearchResponse{
			Result: []*pb.ScoredPoint{
				{
					Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "v1"}},
					Score: 0.92,
					Payload: map[string]*pb.Value{
						"document": stringValue("doc one"),
						"name":     stringValue("Alpha Traders"),
						"location": stringValue("Bangalore"),
						"category": stringValue("hardware"),
						"contact":  stringValue("c1"),
					},
				},
				{
					Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "v2"}},
					Score: 0.71,
					Payload: map[string]*pb.Value{
						"document": stringValue("doc two"),
						"name":     stringValue("Beta Stores"),
					},
				},
			},
		},
	}
	vs := NewWithClients(pts, &mockCollections{}, "vendor_profiles")

	hits, err := vs.Search(context.Background(), []float32{0.3, 0.4}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "v1" || hits[1].ID != "v2" {
		t.Errorf("index order not preserved: %s, %s", hits[0].ID, hits[1].ID)
	}
	if hits[0].Name != "Alpha Traders" || hits[0].Location != "Bangalore" {
		t.Errorf("payload not mapped: %+v", hits[0])
	}
	if hits[0].Score != 0.92 {
		t.Errorf("score not passed through: %f", hits[0].Score)
	}
	if pts.lastSearch.GetLimit() != 3 {
		t.Errorf("expected limit 3, got %d", pts.lastSearch.GetLimit())
	}
}

func TestSearch_Error(t *testing.T) {
	pts := &mockPoints{searchErr: errors.New("qdrant down")}
	vs := NewWithClients(pts, &mockCollections{}, "vendor_profiles")
	if _, err := vs.Search(context.Background(), []float32{0.1}, 3); err == nil {
		t.Fatal("expected error to propagate")
	}
}
