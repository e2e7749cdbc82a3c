package codestore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/application/auth"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	code, err := auth.NewPendingCode("123456", time.Now().Add(5*time.Minute))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "+57300", code))
	got, err := s.Get(ctx, "+57300")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Matches("123456"))

	require.NoError(t, s.Delete(ctx, "+57300"))
	got, err = s.Get(ctx, "+57300")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ExpiredKeptDuringRetention(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "+57300", auth.PendingCode{ExpiresAt: now.Add(-time.Minute)}))
	got, err := s.Get(ctx, "+57300")
	require.NoError(t, err)
	require.NotNil(t, got, "vencido hace poco: sigue visible para reportar 'vencido'")

	now = now.Add(Retention + time.Minute)
	got, err = s.Get(ctx, "+57300")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_PutPurgesStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", auth.PendingCode{ExpiresAt: now}))
	now = now.Add(time.Hour)
	require.NoError(t, s.Put(ctx, "b", auth.PendingCode{ExpiresAt: now.Add(5 * time.Minute)}))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ConcurrentLastWriterWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put(ctx, "+57300", auth.PendingCode{ExpiresAt: exp})
			_, _ = s.Get(ctx, "+57300")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
