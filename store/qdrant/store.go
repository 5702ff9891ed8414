// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/poiesic/stratify/core"
	"github.com/poiesic/stratify/store"
)

// Store is a store.VectorStore backed by a Qdrant instance over gRPC.
// Each namespace maps to a Qdrant collection of the same name.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
}

// New connects to Qdrant at the given gRPC address.
func New(addr string) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureNamespace creates the collection backing the namespace if it does
// not already exist. Vectors are indexed with cosine distance.
func (s *Store) EnsureNamespace(ctx context.Context, namespace string, dims int) error {
	if namespace == "" {
		return store.ErrNamespaceRequired
	}

	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == namespace {
			return nil
		}
	}

	slog.Info("creating collection", "namespace", namespace, "dims", dims)
	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: namespace,
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
		return fmt.Errorf("qdrant: create collection %s: %w", namespace, err)
	}
	return nil
}

// Upsert stores records into the namespace's collection. Record IDs must be
// UUIDs; re-upserting an existing ID overwrites the stored point.
func (s *Store) Upsert(ctx context.Context, records []store.Record, namespace string) error {
	if namespace == "" {
		return store.ErrNamespaceRequired
	}
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		if len(r.Vector) == 0 {
			return fmt.Errorf("qdrant: record %s: %w", r.ID, store.ErrEmptyVector)
		}

		payload := make(map[string]*pb.Value, len(r.Payload))
		for k, val := range r.Payload {
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: val}}
		}

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: r.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Vector},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: namespace,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %d points into %s: %w", len(records), namespace, err)
	}
	return nil
}

// DeleteByDocID removes every point in the namespace whose doc_id payload
// field matches. Deleting a doc_id with no points is a no-op.
func (s *Store) DeleteByDocID(ctx context.Context, docID string, namespace string) error {
	if namespace == "" {
		return store.ErrNamespaceRequired
	}

	wait := true
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: namespace,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{
					Must: []*pb.Condition{
						fieldMatch(core.MetaDocID, docID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete doc %s from %s: %w", docID, namespace, err)
	}
	return nil
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}
