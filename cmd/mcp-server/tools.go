package main

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/soundprediction/medgraph/pkg/literature"
)

// Tool request/response types

// SearchPubMedRequest represents literature search parameters
type SearchPubMedRequest struct {
	Query        string `json:"query"`
	MaxResults   int    `json:"max_results,omitempty"`
	FullTextOnly bool   `json:"full_text_only,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// SearchUMLSRequest represents a term resolution request
type SearchUMLSRequest struct {
	Term string `json:"term"`
}

// GetConceptRequest represents a CUI lookup request
type GetConceptRequest struct {
	CUI string `json:"cui"`
}

// BuildQueryRequest represents query construction parameters
type BuildQueryRequest struct {
	Text        string `json:"text"`
	UseConcepts bool   `json:"use_concepts,omitempty"`
}

// GetGraphSummaryRequest takes no parameters
type GetGraphSummaryRequest struct{}

// ExpandGraphRequest represents expansion parameters
type ExpandGraphRequest struct {
	Cycles int `json:"cycles,omitempty"`
}

// SaveGraphRequest represents a persistence request
type SaveGraphRequest struct {
	Path string `json:"path"`
}

// ToolResponse is a generic response wrapper
type ToolResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func toolError(format string, args ...interface{}) *ToolResponse {
	return &ToolResponse{Success: false, Error: fmt.Sprintf(format, args...)}
}

// SearchPubMedTool runs a boolean query against PubMed and returns article
// metadata ordered by relevance.
func (s *MCPServer) SearchPubMedTool(ctx *ai.ToolContext, input *SearchPubMedRequest) (*ToolResponse, error) {
	if input.Query == "" {
		return toolError("Query is required"), nil
	}

	opts := literature.SearchOptions{
		MaxResults:   input.MaxResults,
		FullTextOnly: input.FullTextOnly,
	}
	if input.StartDate != "" || input.EndDate != "" {
		opts.Dates = &literature.DateRange{Start: input.StartDate, End: input.EndDate}
	}

	articles, err := s.client.SearchLiterature(context.Background(), input.Query, opts)
	if err != nil {
		s.logger.Error("PubMed search failed", "error", err)
		return toolError("PubMed search failed: %v", err), nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d articles", len(articles)),
		Data: map[string]interface{}{
			"articles": articles,
		},
	}, nil
}

// SearchUMLSTool resolves a free-text term to ranked UMLS concepts.
func (s *MCPServer) SearchUMLSTool(ctx *ai.ToolContext, input *SearchUMLSRequest) (*ToolResponse, error) {
	if input.Term == "" {
		return toolError("Term is required"), nil
	}

	concepts, err := s.client.ResolveConcept(context.Background(), input.Term)
	if err != nil {
		s.logger.Error("UMLS search failed", "term", input.Term, "error", err)
		return toolError("UMLS search failed: %v", err), nil
	}

	if len(concepts) == 0 {
		return &ToolResponse{
			Success: true,
			Message: "No concepts found above the similarity threshold",
			Data: map[string]interface{}{
				"concepts": []interface{}{},
			},
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d concepts", len(concepts)),
		Data: map[string]interface{}{
			"concepts": concepts,
		},
	}, nil
}

// GetUMLSConceptTool looks up a single concept by CUI.
func (s *MCPServer) GetUMLSConceptTool(ctx *ai.ToolContext, input *GetConceptRequest) (*ToolResponse, error) {
	if input.CUI == "" {
		return toolError("CUI is required"), nil
	}

	concept, err := s.client.LookupConcept(context.Background(), input.CUI)
	if err != nil {
		s.logger.Error("UMLS lookup failed", "cui", input.CUI, "error", err)
		return toolError("UMLS lookup failed: %v", err), nil
	}

	return &ToolResponse{
		Success: true,
		Data:    concept,
	}, nil
}

// BuildQueryTool builds a boolean PubMed query from free text.
func (s *MCPServer) BuildQueryTool(ctx *ai.ToolContext, input *BuildQueryRequest) (*ToolResponse, error) {
	if input.Text == "" {
		return toolError("Text is required"), nil
	}

	result, err := s.client.BuildQuery(context.Background(), input.Text, input.UseConcepts)
	if err != nil {
		s.logger.Error("Query construction failed", "error", err)
		return toolError("Query construction failed: %v", err), nil
	}

	return &ToolResponse{
		Success: true,
		Data:    result,
	}, nil
}

// GetGraphSummaryTool returns counts and breakdowns for the current session.
func (s *MCPServer) GetGraphSummaryTool(ctx *ai.ToolContext, input *GetGraphSummaryRequest) (*ToolResponse, error) {
	return &ToolResponse{
		Success: true,
		Data: map[string]interface{}{
			"session_id": s.client.SessionID(),
			"summary":    s.client.Summary(),
		},
	}, nil
}

// ExpandGraphTool runs expansion cycles and returns per-cycle reports.
// With Cycles <= 0 it runs until the configured maximum or exhaustion.
func (s *MCPServer) ExpandGraphTool(ctx *ai.ToolContext, input *ExpandGraphRequest) (*ToolResponse, error) {
	var reports interface{}
	var err error

	if input.Cycles <= 0 {
		reports, err = s.client.Expand(context.Background())
	} else {
		var collected []interface{}
		for i := 0; i < input.Cycles; i++ {
			report, cycleErr := s.client.ExpandCycle(context.Background())
			if cycleErr != nil {
				err = cycleErr
				break
			}
			collected = append(collected, report)
			if report.Exhausted {
				break
			}
		}
		reports = collected
	}
	if err != nil {
		s.logger.Error("Expansion failed", "error", err)
		return toolError("Expansion failed: %v", err), nil
	}

	summary := s.client.Summary()
	s.logger.Info("Expansion finished", "nodes", summary.NodeCount, "edges", summary.EdgeCount)
	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Graph now holds %d nodes and %d edges", summary.NodeCount, summary.EdgeCount),
		Data: map[string]interface{}{
			"reports": reports,
			"summary": summary,
		},
	}, nil
}

// SaveGraphTool writes the current graph to a JSON file.
func (s *MCPServer) SaveGraphTool(ctx *ai.ToolContext, input *SaveGraphRequest) (*ToolResponse, error) {
	if input.Path == "" {
		return toolError("Path is required"), nil
	}

	if err := s.client.Save(input.Path); err != nil {
		s.logger.Error("Failed to save graph", "path", input.Path, "error", err)
		return toolError("Failed to save graph: %v", err), nil
	}

	s.logger.Info("Graph saved", "path", input.Path)
	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Graph saved to %s", input.Path),
	}, nil
}
