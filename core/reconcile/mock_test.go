package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
)

// item is the record type used by the test adapter on both sides.
type item struct {
	key string
	id  string
	val string
}

// mockAdapter is a simple test adapter.
type mockAdapter struct {
	sources        []SourceItem
	targets        []TargetItem
	normalizeErrs  map[string]error
	sourceLoadFunc func(context.Context) ([]SourceItem, error)
	targetLoadFunc func(context.Context) ([]TargetItem, error)
}

func (m *mockAdapter) Name() string {
	return "mock"
}

func (m *mockAdapter) LoadSources(ctx context.Context) ([]SourceItem, error) {
	if m.sourceLoadFunc != nil {
		return m.sourceLoadFunc(ctx)
	}
	return m.sources, nil
}

func (m *mockAdapter) LoadTargets(ctx context.Context) ([]TargetItem, error) {
	if m.targetLoadFunc != nil {
		return m.targetLoadFunc(ctx)
	}
	return m.targets, nil
}

func (m *mockAdapter) SourceKey(s SourceItem) string {
	return s.(item).key
}

func (m *mockAdapter) TargetKey(t TargetItem) string {
	return t.(item).key
}

func (m *mockAdapter) TargetID(t TargetItem) string {
	return t.(item).id
}

func (m *mockAdapter) Normalize(s SourceItem) (Payload, error) {
	it := s.(item)
	if err, ok := m.normalizeErrs[it.key]; ok {
		return nil, err
	}
	return it, nil
}

func (m *mockAdapter) ResolveName(p Payload) string {
	return "name-" + p.(item).key
}

func (m *mockAdapter) CompareFields(p Payload, t TargetItem) []string {
	src, dst := p.(item), t.(item)
	if src.val != dst.val {
		return []string{fmt.Sprintf("val: src=%s dst=%s", src.val, dst.val)}
	}
	return []string{}
}

// mockMutator is an adapter that records mutations through testify's mock.
type mockMutator struct {
	mockAdapter
	mock.Mock

	mu           sync.Mutex
	createdSizes []int
}

func (m *mockMutator) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockMutator) CreateBatch(ctx context.Context, actions []Action) (BatchOutcome, error) {
	m.mu.Lock()
	m.createdSizes = append(m.createdSizes, len(actions))
	m.mu.Unlock()
	return m.outcome(m.Called(ctx, actions), actions)
}

func (m *mockMutator) UpdateBatch(ctx context.Context, actions []Action) (BatchOutcome, error) {
	return m.outcome(m.Called(ctx, actions), actions)
}

// outcome returns the configured outcome, or every action succeeded when the
// expectation returns nil.
func (m *mockMutator) outcome(args mock.Arguments, actions []Action) (BatchOutcome, error) {
	if o, ok := args.Get(0).(BatchOutcome); ok {
		return o, args.Error(1)
	}
	if args.Error(1) != nil {
		return BatchOutcome{}, args.Error(1)
	}
	return BatchOutcome{Succeeded: len(actions)}, nil
}

func (m *mockMutator) Delete(ctx context.Context, targetID string) error {
	args := m.Called(ctx, targetID)
	return args.Error(0)
}

// mockQuerier adds key lookups to the test adapter.
type mockQuerier struct {
	mockAdapter
	queried []string
}

func (m *mockQuerier) QueryTargets(ctx context.Context, key string) ([]TargetItem, error) {
	m.queried = append(m.queried, key)
	var out []TargetItem
	for _, t := range m.targets {
		if t.(item).key == key {
			out = append(out, t)
		}
	}
	return out, nil
}

func src(key, val string) SourceItem {
	return item{key: key, val: val}
}

func dst(key, id, val string) TargetItem {
	return item{key: key, id: id, val: val}
}
