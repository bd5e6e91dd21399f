package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPacket(t *testing.T) {
	p := NewPacket(map[string]any{"k": "v"})
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Empty(t, p.TraceID)

	q := NewPacket("other")
	assert.NotEqual(t, p.ID, q.ID)
}

func TestWithTraceIsACopy(t *testing.T) {
	p := NewPacket(1)
	stamped := p.WithTrace("t-1")

	assert.Equal(t, "t-1", stamped.TraceID)
	assert.Empty(t, p.TraceID, "the original packet stays untouched")
	assert.Equal(t, p.ID, stamped.ID)
}

func TestResultTagging(t *testing.T) {
	ok := OK(map[string]DataPacket{"out": NewPacket(1)})
	assert.False(t, ok.Failed())
	assert.Nil(t, ok.Err())
	assert.Len(t, ok.Outputs(), 1)

	empty := OK(nil)
	assert.False(t, empty.Failed())
	assert.Empty(t, empty.Outputs())

	var zero Result
	assert.False(t, zero.Failed(), "a zero Result is a silent success")

	failed := Fail(ErrorPacket{Code: "bad_input", Message: "nope"})
	assert.True(t, failed.Failed())
	require.NotNil(t, failed.Err())
	assert.Equal(t, "bad_input", failed.Err().Code)
	assert.Nil(t, failed.Outputs(), "failed results expose no outputs")
}

func TestNewErrorPacket(t *testing.T) {
	p := NewErrorPacket(CodeUnhandledException, "boom", "n1", "t1")
	assert.Equal(t, CodeUnhandledException, p.Code)
	assert.Equal(t, "n1", p.NodeID)
	assert.Equal(t, "t1", p.TraceID)
	assert.False(t, p.Timestamp.IsZero())
	assert.False(t, p.Recoverable)
}
