package reconcile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	batches := Chunk(items, 20)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 20)
	assert.Len(t, batches[1], 20)
	assert.Len(t, batches[2], 5)
	assert.Equal(t, 0, batches[0][0])
	assert.Equal(t, 44, batches[2][4])

	assert.Nil(t, Chunk([]int{}, 20))
	assert.Len(t, Chunk(items, 0), 3, "Zero size falls back to the default")
	assert.Len(t, Chunk(items[:20], 20), 1)
}

func TestApplyPlan_CreateBatches(t *testing.T) {
	adapter := &mockMutator{}
	sources := make([]SourceItem, 45)
	for i := range sources {
		sources[i] = src(fmt.Sprintf("SKU%02d", i), "x")
	}
	adapter.sources = sources

	adapter.On("CreateBatch", mock.Anything, mock.Anything).Return(nil, nil)

	spec := &Spec{Adapter: adapter, BatchSize: 20}
	opts := DefaultOptions()
	opts.VerifyBeforeCreate = false

	plan, err := ReconcileWithPlan(context.Background(), spec, opts)
	require.NoError(t, err)
	require.Equal(t, 45, plan.Summary.Creates)

	res, err := ApplyPlan(context.Background(), spec, plan, opts)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 20, 5}, adapter.createdSizes, "Batches issued in order")
	assert.Equal(t, 45, res.Created)
	assert.Equal(t, 3, res.Batches)
	adapter.AssertNumberOfCalls(t, "CreateBatch", 3)
}
