package requestid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx, id := New(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	got, ok := Lookup(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestLookup(t *testing.T) {
	_, ok := Lookup(context.Background())
	assert.False(t, ok)

	_, ok = Lookup(WithRequestID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := Lookup(WithRequestID(context.Background(), "inv-1"))
	assert.True(t, ok)
	assert.Equal(t, "inv-1", id)
}
