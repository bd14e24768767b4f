package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KNQuoc/cedar-docs-mcp/internal/searcher"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleSearchDocs handles the search_docs tool invocation
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	// An empty query is not an error: it yields an empty result set so
	// agent callers never have to branch on a fault.
	query, _ := args["query"].(string)

	limit := getIntDefault(args, "limit", searcher.DefaultLimit)
	useSemantic := getBoolDefault(args, "use_semantic", true)

	docType, err := parseDocType(getStringDefault(args, "doc_type", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid doc_type", map[string]interface{}{
			"param":   "doc_type",
			"allowed": []string{string(types.DocTypeCedar), string(types.DocTypeMastra)},
		})
	}

	resp, err := s.searcher.Search(ctx, searcher.Request{
		Query:       query,
		Limit:       limit,
		UseSemantic: useSemantic,
		DocType:     docType,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"query":       query,
		"docType":     resp.DocType,
		"searchMode":  resp.Mode,
		"resultCount": len(resp.Results),
		"results":     resp.Results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDescribeIndex handles the describe_index tool invocation
func (s *Server) handleDescribeIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	docType, err := parseDocType(getStringDefault(args, "doc_type", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid doc_type", map[string]interface{}{
			"param":   "doc_type",
			"allowed": []string{string(types.DocTypeCedar), string(types.DocTypeMastra)},
		})
	}

	response := map[string]interface{}{
		"semanticSearchAvailable": s.searcher.SemanticAvailable(),
	}
	if docType != "" {
		response[string(docType)] = s.searcher.Describe(docType)
	} else {
		response[string(types.DocTypeCedar)] = s.searcher.Describe(types.DocTypeCedar)
		response[string(types.DocTypeMastra)] = s.searcher.Describe(types.DocTypeMastra)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// parseDocType validates an optional doc_type argument. Empty means
// auto-detect.
func parseDocType(raw string) (types.DocType, error) {
	switch types.DocType(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return "", nil
	case types.DocTypeCedar:
		return types.DocTypeCedar, nil
	case types.DocTypeMastra:
		return types.DocTypeMastra, nil
	default:
		return "", fmt.Errorf("unknown doc type %q", raw)
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
