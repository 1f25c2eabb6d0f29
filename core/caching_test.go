package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var cacheSince = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestCachedCommitLog_NoStore(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetCommitLog", ctx, "/repo", cacheSince).Return([]byte("raw"), nil).Once()

	mgr := new(iocache.MockCacheManager)
	mgr.On("GetActivityStore").Return(nil)

	out, err := CachedCommitLog(client, mgr)(ctx, "/repo", cacheSince)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), out)
	client.AssertExpectations(t)

	// A nil manager behaves the same way
	client.On("GetCommitLog", ctx, "/repo", cacheSince).Return([]byte("raw"), nil).Once()
	out, err = CachedCommitLog(client, nil)(ctx, "/repo", cacheSince)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), out)
}

func TestCachedCommitLog_Hit(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetRepoHash", ctx, "/repo").Return("abc123", nil)

	store := new(iocache.MockCacheStore)
	store.On("Get", mock.AnythingOfType("string")).
		Return([]byte("cached"), currentCacheVersion, time.Now().Unix(), nil)

	mgr := new(iocache.MockCacheManager)
	mgr.On("GetActivityStore").Return(store)

	out, err := CachedCommitLog(client, mgr)(ctx, "/repo", cacheSince)
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), out)
	client.AssertNotCalled(t, "GetCommitLog", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedCommitLog_MissStores(t *testing.T) {
	tests := []struct {
		name    string
		version int
		ts      int64
		err     error
	}{
		{name: "not found", err: errors.New("not found")},
		{name: "old version", version: currentCacheVersion + 1, ts: time.Now().Unix()},
		{name: "stale entry", version: currentCacheVersion, ts: time.Now().Add(-48 * time.Hour).Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := new(contract.MockGitClient)
			client.On("GetRepoHash", ctx, "/repo").Return("abc123", nil)
			client.On("GetCommitLog", ctx, "/repo", cacheSince).Return([]byte("fresh"), nil).Once()

			store := new(iocache.MockCacheStore)
			store.On("Get", mock.AnythingOfType("string")).Return([]byte(nil), tt.version, tt.ts, tt.err)
			store.On("Set", mock.AnythingOfType("string"), []byte("fresh"), currentCacheVersion, mock.AnythingOfType("int64")).
				Return(nil).Once()

			mgr := new(iocache.MockCacheManager)
			mgr.On("GetActivityStore").Return(store)

			out, err := CachedCommitLog(client, mgr)(ctx, "/repo", cacheSince)
			require.NoError(t, err)
			assert.Equal(t, []byte("fresh"), out)
			client.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestCachedCommitLog_QueryError(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetRepoHash", ctx, "/repo").Return("", errors.New("no head"))
	client.On("GetCommitLog", ctx, "/repo", cacheSince).Return([]byte(nil), errors.New("not a git repository"))

	store := new(iocache.MockCacheStore)
	store.On("Get", mock.AnythingOfType("string")).Return([]byte(nil), 0, int64(0), errors.New("not found"))

	mgr := new(iocache.MockCacheManager)
	mgr.On("GetActivityStore").Return(store)

	_, err := CachedCommitLog(client, mgr)(ctx, "/repo", cacheSince)
	assert.Error(t, err)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateCacheKey(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetRepoHash", ctx, "/repo").Return("abc123", nil)
	client.On("GetRepoHash", ctx, "/other").Return("abc123", nil)

	key := generateCacheKey(ctx, client, "/repo", cacheSince)
	assert.Len(t, key, 64)
	assert.Equal(t, key, generateCacheKey(ctx, client, "/repo", cacheSince.Add(2*time.Hour)), "same day shares a key")
	assert.NotEqual(t, key, generateCacheKey(ctx, client, "/repo", cacheSince.AddDate(0, 0, -1)))
	assert.NotEqual(t, key, generateCacheKey(ctx, client, "/other", cacheSince))
}
