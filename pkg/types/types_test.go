package types

import (
	"testing"
	"time"
)

func TestNodeValidation(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{
			name: "valid node",
			node: Node{
				ID:       "inflammation",
				Label:    "Inflammation",
				Category: CategoryBiologicalProcess,
			},
			wantErr: nil,
		},
		{
			name: "empty id",
			node: Node{
				ID:    "",
				Label: "Inflammation",
			},
			wantErr: ErrEmptyNodeID,
		},
		{
			name: "empty label",
			node: Node{
				ID:    "inflammation",
				Label: "",
			},
			wantErr: ErrEmptyLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if err != tt.wantErr {
				t.Errorf("Node.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{
			name: "valid edge",
			edge: Edge{
				SourceNodeID:     "inflammation",
				TargetNodeID:     "hemodynamics",
				RelationshipType: RelAssociatedWith,
				Confidence:       0.8,
			},
			wantErr: nil,
		},
		{
			name: "missing endpoint",
			edge: Edge{
				SourceNodeID:     "inflammation",
				TargetNodeID:     "",
				RelationshipType: RelAssociatedWith,
			},
			wantErr: ErrEmptyNodeID,
		},
		{
			name: "self loop",
			edge: Edge{
				SourceNodeID:     "inflammation",
				TargetNodeID:     "inflammation",
				RelationshipType: RelAssociatedWith,
			},
			wantErr: ErrSelfLoop,
		},
		{
			name: "empty relationship type",
			edge: Edge{
				SourceNodeID: "inflammation",
				TargetNodeID: "hemodynamics",
			},
			wantErr: ErrEmptyRelationship,
		},
		{
			name: "confidence out of range",
			edge: Edge{
				SourceNodeID:     "inflammation",
				TargetNodeID:     "hemodynamics",
				RelationshipType: RelAssociatedWith,
				Confidence:       1.2,
			},
			wantErr: ErrInvalidConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edge.Validate()
			if err != tt.wantErr {
				t.Errorf("Edge.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeSourceIDs(t *testing.T) {
	now := time.Now()
	edge := Edge{
		SourceNodeID:     "a",
		TargetNodeID:     "b",
		RelationshipType: RelInfluences,
		Evidence: []Evidence{
			{SourceID: "12345", Sentence: "first", RetrievedAt: now},
			{SourceID: "67890", RetrievedAt: now},
			{SourceID: "12345", Sentence: "duplicate pmid", RetrievedAt: now},
			{SourceID: "", RetrievedAt: now},
		},
	}

	ids := edge.SourceIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct source ids, got %d: %v", len(ids), ids)
	}
	if ids[0] != "12345" || ids[1] != "67890" {
		t.Errorf("expected first-seen order [12345 67890], got %v", ids)
	}
}
