package index

import (
	_ "embed"

	"github.com/KNQuoc/cedar-docs-mcp/internal/chunker"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

// Built-in corpus excerpts guarantee the engine can answer with zero
// external configuration.

//go:embed builtin/cedar.md
var builtinCedar []byte

//go:embed builtin/mastra.md
var builtinMastra []byte

// BuiltinSource returns the embedded corpus for a doc type.
func BuiltinSource(docType types.DocType) Source {
	if docType == types.DocTypeMastra {
		return Source{
			Name:   "builtin/mastra.md",
			Format: chunker.FormatHeadingText,
			Data:   builtinMastra,
		}
	}
	return Source{
		Name:   "builtin/cedar.md",
		Format: chunker.FormatHeadingText,
		Data:   builtinCedar,
	}
}
