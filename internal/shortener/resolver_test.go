package shortener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shortref/internal/shortener"
	"github.com/serroba/shortref/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errMock = errors.New("mock error")

// failingStore is a Store returning configured errors.
type failingStore struct {
	putErr    error
	getErr    error
	keyForErr error
}

func (f *failingStore) Put(_ context.Context, _ shortener.Code, _ string) error {
	return f.putErr
}

func (f *failingStore) Get(_ context.Context, _ shortener.Code) (string, error) {
	return "", f.getErr
}

func (f *failingStore) KeyFor(_ context.Context, _ string) (shortener.Code, error) {
	return "", f.keyForErr
}

type recordingTracker struct {
	err      error
	recorded []shortener.Access
}

func (r *recordingTracker) Record(_ context.Context, _ shortener.Code, access shortener.Access) error {
	r.recorded = append(r.recorded, access)

	return r.err
}

func TestResolver_Resolve(t *testing.T) {
	access := &shortener.Access{
		At:        time.Now(),
		Referrer:  "sample.com",
		UserAgent: "mozilla",
	}

	t.Run("returns stored url", func(t *testing.T) {
		resolver := shortener.NewResolver(seededStore(t), nil, zap.NewNop())

		url, err := resolver.Resolve(context.Background(), "4kgjc", nil)

		require.NoError(t, err)
		assert.Equal(t, "http://a.com", url)
	})

	t.Run("unknown code fails with ErrNotExists", func(t *testing.T) {
		s, _ := store.NewMemoryStore(nil)
		resolver := shortener.NewResolver(s, nil, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), "xxxxx", nil)

		assert.ErrorIs(t, err, shortener.ErrNotExists)
	})

	t.Run("wraps other store errors", func(t *testing.T) {
		resolver := shortener.NewResolver(&failingStore{getErr: errMock}, nil, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), "4kgjc", nil)

		require.ErrorIs(t, err, errMock)
		assert.NotErrorIs(t, err, shortener.ErrNotExists)
	})

	t.Run("records access keyed by code", func(t *testing.T) {
		tracker := &recordingTracker{}
		resolver := shortener.NewResolver(seededStore(t), tracker, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), "4kgjc", access)

		require.NoError(t, err)
		require.Len(t, tracker.recorded, 1)
		assert.Equal(t, shortener.Code("4kgjc"), tracker.recorded[0].Code)
		assert.Equal(t, "sample.com", tracker.recorded[0].Referrer)
	})

	t.Run("skips tracking without access", func(t *testing.T) {
		tracker := &recordingTracker{}
		resolver := shortener.NewResolver(seededStore(t), tracker, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), "4kgjc", nil)

		require.NoError(t, err)
		assert.Empty(t, tracker.recorded)
	})

	t.Run("tracker failure does not fail resolution", func(t *testing.T) {
		tracker := &recordingTracker{err: errMock}
		resolver := shortener.NewResolver(seededStore(t), tracker, zap.NewNop())

		url, err := resolver.Resolve(context.Background(), "4kgjc", access)

		require.NoError(t, err)
		assert.Equal(t, "http://a.com", url)
	})

	t.Run("unknown codes are still tracked", func(t *testing.T) {
		tracker := &recordingTracker{}
		resolver := shortener.NewResolver(seededStore(t), tracker, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), "xxxxx", access)

		assert.ErrorIs(t, err, shortener.ErrNotExists)
		assert.Len(t, tracker.recorded, 1)
	})
}
