package vault

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSplitMount(t *testing.T) {
	tests := []struct {
		in, mount, rel string
	}{
		{"secret/app/db", "secret", "app/db"},
		{"/secret/app/", "secret", "app"},
		{"secret", "secret", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		mount, rel := splitMount(tt.in)
		require.Equal(t, tt.mount, mount, tt.in)
		require.Equal(t, tt.rel, rel, tt.in)
	}
}

func TestGetKV_RejectsEmptyArguments(t *testing.T) {
	c := &Client{cache: map[string]cached{}}

	_, err := c.GetKV(context.Background(), "", "key", 0)
	require.Error(t, err)
	_, err = c.GetKV(context.Background(), "secret/app", "", 0)
	require.Error(t, err)
}

func TestGetKV_ServesFromCache(t *testing.T) {
	c := &Client{cache: map[string]cached{
		"secret/app#key": {val: "cached-value", exp: time.Now().Add(time.Minute)},
	}}

	// api is nil, so reaching Vault would panic.
	got, err := c.GetKV(context.Background(), "secret/app", "key", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached-value", got)
}

func TestLazy_ConstructionErrorIsSticky(t *testing.T) {
	calls := 0
	l := NewLazy(context.Background(), zap.NewNop().Sugar())
	l.newFn = func(context.Context, *zap.SugaredLogger) (*Client, error) {
		calls++
		return nil, errors.New("no vault here")
	}

	require.False(t, l.Started())
	for range 3 {
		_, err := l.GetKV(context.Background(), "secret/app", "key", 0)
		require.EqualError(t, err, "no vault here")
	}
	require.Equal(t, 1, calls)
	require.False(t, l.Started())
}

func TestLazy_DelegatesToClient(t *testing.T) {
	l := NewLazy(context.Background(), nil)
	l.newFn = func(context.Context, *zap.SugaredLogger) (*Client, error) {
		return &Client{cache: map[string]cached{
			"secret/app#key": {val: "v", exp: time.Now().Add(time.Hour)},
		}}, nil
	}

	got, err := l.GetKV(context.Background(), "secret/app", "key", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "v", got)
	require.True(t, l.Started())
}

func TestLazy_StartedDuringFirstUse(t *testing.T) {
	l := NewLazy(context.Background(), nil)
	l.newFn = func(context.Context, *zap.SugaredLogger) (*Client, error) {
		return &Client{cache: map[string]cached{
			"secret/app#key": {val: "v", exp: time.Now().Add(time.Hour)},
		}}, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := l.GetKV(context.Background(), "secret/app", "key", time.Hour)
			require.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_ = l.Started()
		}()
	}
	wg.Wait()
	require.True(t, l.Started())
}
