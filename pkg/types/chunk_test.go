package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChunk() DocumentChunk {
	return DocumentChunk{
		Source:      "cedar.md",
		Heading:     "Voice Setup",
		Content:     "Use the voice button.",
		StartOffset: 10,
		EndOffset:   31,
		StartLine:   3,
		EndLine:     3,
	}
}

func TestChunkValidate(t *testing.T) {
	c := validChunk()
	require.NoError(t, c.Validate())
}

func TestChunkValidateEmptyContent(t *testing.T) {
	c := validChunk()
	c.Content = ""
	assert.ErrorIs(t, c.Validate(), ErrEmptyContent)
}

func TestChunkValidateSpan(t *testing.T) {
	c := validChunk()
	c.EndOffset = c.StartOffset
	assert.ErrorIs(t, c.Validate(), ErrInvalidSpan)

	c = validChunk()
	c.StartOffset = -1
	assert.ErrorIs(t, c.Validate(), ErrInvalidSpan)
}

func TestChunkValidateLineRange(t *testing.T) {
	c := validChunk()
	c.StartLine = 0
	assert.Error(t, c.Validate())

	c = validChunk()
	c.EndLine = c.StartLine - 1
	assert.Error(t, c.Validate())
}
