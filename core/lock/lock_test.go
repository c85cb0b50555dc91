package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCommands struct {
	mock.Mock
}

func (m *mockCommands) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewBoolResult(args.Bool(0), args.Error(1))
}

func (m *mockCommands) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	called := m.Called(ctx, script, keys, args)
	return redis.NewCmdResult(called.Get(0), called.Error(1))
}

func (m *mockCommands) Close() error {
	return m.Called().Error(0)
}

func TestRedisLocker_Acquire(t *testing.T) {
	tests := []struct {
		name      string
		ok        bool
		err       error
		expectErr error
	}{
		{name: "Free", ok: true},
		{name: "Held", ok: false, expectErr: ErrLocked},
		{name: "Redis down", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockCommands{}
			client.On("SetNX", mock.Anything, "autosync:run", "run-1", 10*time.Minute).Return(tt.ok, tt.err)

			l := NewRedisLocker(client, "autosync:run", 10*time.Minute)
			err := l.Acquire(context.Background(), "run-1")

			switch {
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
			case tt.err != nil:
				assert.ErrorContains(t, err, "connection refused")
				assert.NotErrorIs(t, err, ErrLocked)
			default:
				assert.NoError(t, err)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestRedisLocker_Release(t *testing.T) {
	client := &mockCommands{}
	client.On("Eval", mock.Anything, releaseScript, []string{"autosync:run"}, []interface{}{"run-1"}).Return(int64(1), nil)
	client.On("Eval", mock.Anything, releaseScript, []string{"autosync:run"}, []interface{}{"run-2"}).Return(nil, errors.New("timeout"))

	l := NewRedisLocker(client, "autosync:run", 0)
	assert.Equal(t, time.Hour, l.ttl)

	require.NoError(t, l.Release(context.Background(), "run-1"))
	assert.ErrorContains(t, l.Release(context.Background(), "run-2"), "timeout")
}

func TestNew_WithoutURL(t *testing.T) {
	l, err := New(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, NopLocker{}, l)
	assert.NoError(t, l.Acquire(context.Background(), "x"))
	assert.NoError(t, l.Release(context.Background(), "x"))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), Config{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "invalid lock url")
}

func TestRedisLocker_Close(t *testing.T) {
	client := &mockCommands{}
	client.On("Close").Return(nil).Once()

	l := NewRedisLocker(client, "autosync:run", time.Minute)
	require.NoError(t, l.Close())
	client.AssertExpectations(t)

	assert.NoError(t, NopLocker{}.Close())
}
