package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratifyhq/ratify/internal/db"
)

// fakeStore keys ratings by (user, item) in memory.
type fakeStore struct {
	rows    map[string]*db.Rating
	getErr  error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*db.Rating)}
}

func (f *fakeStore) Get(_ context.Context, userID, itemID string) (*db.Rating, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	row, ok := f.rows[userID+"/"+itemID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return row, nil
}

func (f *fakeStore) Upsert(_ context.Context, row *db.Rating) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[row.UserID+"/"+row.ItemID] = row
	return nil
}

func TestLoadWithoutExistingReview(t *testing.T) {
	svc := New(newFakeStore())

	form, err := svc.Load(context.Background(), "user1", "track1")
	require.NoError(t, err)

	assert.Equal(t, ModeCreate, form.Mode)
	assert.Equal(t, DefaultStars, form.Stars)
	assert.Nil(t, form.Existing)
}

func TestLoadWithExistingReview(t *testing.T) {
	store := newFakeStore()
	store.rows["user1/track1"] = &db.Rating{
		UserID: "user1",
		ItemID: "track1",
		Rating: 8,
		Review: "solid",
	}
	svc := New(store)

	form, err := svc.Load(context.Background(), "user1", "track1")
	require.NoError(t, err)

	assert.Equal(t, ModeEdit, form.Mode)
	assert.Equal(t, 4.0, form.Stars)
	assert.Equal(t, "solid", form.Review)
	require.NotNil(t, form.Existing)
	assert.Equal(t, 8, form.Existing.Rating)
}

func TestLoadStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	svc := New(store)

	_, err := svc.Load(context.Background(), "user1", "track1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, db.ErrNotFound)
}

func TestSubmitCreatesThenEdits(t *testing.T) {
	store := newFakeStore()
	svc := New(store)
	ctx := context.Background()

	// First submission behaves as a create.
	saved, err := svc.Submit(ctx, "user1", "track1", 4, "great track")
	require.NoError(t, err)
	assert.Equal(t, 8, saved.Rating)
	assert.Equal(t, "great track", saved.Review)

	// Own-review detection after create.
	form, err := svc.Load(ctx, "user1", "track1")
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, form.Mode)
	assert.Equal(t, 8, form.Existing.Rating)

	// Second submission replaces rather than duplicating.
	saved, err = svc.Submit(ctx, "user1", "track1", 1.5, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Rating)
	assert.Len(t, store.rows, 1)
}

func TestSubmitClampsStars(t *testing.T) {
	tests := []struct {
		name  string
		stars float64
		want  int
	}{
		{"zero stars stores minimum", 0, 1},
		{"over five stores maximum", 6, 10},
		{"half star", 0.5, 1},
		{"five stars", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(newFakeStore())
			saved, err := svc.Submit(context.Background(), "u", "i", tt.stars, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, saved.Rating)
		})
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("write failed")
	svc := New(store)

	_, err := svc.Submit(context.Background(), "u", "i", 3, "text")
	require.Error(t, err)
}
