package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratifyhq/ratify/internal/db"
)

type fakeFriends struct {
	ids []string
	err error
}

func (f *fakeFriends) Friends(context.Context, string) ([]string, error) {
	return f.ids, f.err
}

// fakeActivity serves canned entries per user with optional per-user delay,
// to exercise completion-order independence.
type fakeActivity struct {
	entries map[string][]db.ActivityEntry
	errs    map[string]error
	delays  map[string]time.Duration
}

func (f *fakeActivity) ListForUser(_ context.Context, userID string) ([]db.ActivityEntry, error) {
	if d, ok := f.delays[userID]; ok {
		time.Sleep(d)
	}
	if err, ok := f.errs[userID]; ok {
		return nil, err
	}
	return f.entries[userID], nil
}

func entry(userID, itemID string, at time.Time) db.ActivityEntry {
	return db.ActivityEntry{
		Type:        "song",
		ItemID:      itemID,
		Rating:      8,
		CreatedAt:   at,
		UserID:      userID,
		DisplayName: "user " + userID,
	}
}

func TestForUserMergesAndSortsDescending(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	// The friend holding the newest entry responds slowest, so ordering
	// cannot come from completion order.
	activity := &fakeActivity{
		entries: map[string][]db.ActivityEntry{
			"f1": {entry("f1", "track-a", t1)},
			"f2": {entry("f2", "track-b", t2)},
			"f3": {entry("f3", "track-c", t3)},
		},
		delays: map[string]time.Duration{
			"f3": 30 * time.Millisecond,
			"f2": 10 * time.Millisecond,
		},
	}
	svc := New(&fakeFriends{ids: []string{"f1", "f2", "f3"}}, activity, nil)

	feed, err := svc.ForUser(context.Background(), "me")
	require.NoError(t, err)

	require.Len(t, feed.Entries, 3)
	assert.Equal(t, "track-c", feed.Entries[0].ItemID)
	assert.Equal(t, "track-b", feed.Entries[1].ItemID)
	assert.Equal(t, "track-a", feed.Entries[2].ItemID)
	assert.Len(t, feed.Friends, 3)
}

func TestForUserDropsFailingFriend(t *testing.T) {
	now := time.Now()
	activity := &fakeActivity{
		entries: map[string][]db.ActivityEntry{
			"ok": {entry("ok", "track-a", now)},
		},
		errs: map[string]error{
			"broken": errors.New("connection reset"),
		},
	}
	svc := New(&fakeFriends{ids: []string{"ok", "broken"}}, activity, nil)

	feed, err := svc.ForUser(context.Background(), "me")
	require.NoError(t, err)

	assert.Len(t, feed.Entries, 1)
	require.Len(t, feed.Friends, 1)
	assert.Equal(t, "ok", feed.Friends[0].ID)
}

func TestForUserOmitsFriendsWithoutRatings(t *testing.T) {
	now := time.Now()
	activity := &fakeActivity{
		entries: map[string][]db.ActivityEntry{
			"active": {entry("active", "track-a", now)},
			"silent": {},
		},
	}
	svc := New(&fakeFriends{ids: []string{"active", "silent"}}, activity, nil)

	feed, err := svc.ForUser(context.Background(), "me")
	require.NoError(t, err)

	require.Len(t, feed.Friends, 1)
	assert.Equal(t, "active", feed.Friends[0].ID)
}

func TestForUserEmptyFriendList(t *testing.T) {
	svc := New(&fakeFriends{}, &fakeActivity{}, nil)

	feed, err := svc.ForUser(context.Background(), "me")
	require.NoError(t, err)
	assert.Empty(t, feed.Entries)
	assert.Empty(t, feed.Friends)
}

func TestForUserFriendListFailure(t *testing.T) {
	svc := New(&fakeFriends{err: errors.New("db down")}, &fakeActivity{}, nil)

	_, err := svc.ForUser(context.Background(), "me")
	require.Error(t, err)
}
