package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriteByteLineRuns(t *testing.T) {
	c := NewChunk()
	c.WriteByte(1, 10)
	c.WriteByte(2, 10)
	c.WriteByte(3, 11)

	assert.Equal(t, 10, c.LineFor(0))
	assert.Equal(t, 10, c.LineFor(1))
	assert.Equal(t, 11, c.LineFor(2))
}

func TestChunkWriteConstantShortAndLong(t *testing.T) {
	c := NewChunk()
	c.WriteConstant(Number(1), 1)
	require.Len(t, c.Code, 2)
	assert.Equal(t, byte(OP_CONST), c.Code[0])

	for i := 0; i < 300; i++ {
		c.AddConstant(Number(float64(i)))
	}
	// The 301st constant (index 300) no longer fits in one byte.
	before := c.Count()
	c.WriteIndexOp(300, 1, OP_CONST, OP_CONST_LONG)
	assert.Equal(t, byte(OP_CONST_LONG), c.Code[before])
	assert.Equal(t, before+4, c.Count())
}

func TestChunkGetConstantOutOfRange(t *testing.T) {
	c := NewChunk()
	assert.True(t, c.GetConstant(5).IsNil())
}
