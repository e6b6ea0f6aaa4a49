package web

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeRefresher struct {
	refreshed *oauth2.Token
	err       error
	calls     int
}

func (f *fakeRefresher) RefreshToken(_ context.Context, _ *oauth2.Token) (*oauth2.Token, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.refreshed, nil
}

type fakeTokenUpdater struct {
	sessionID    string
	accessToken  string
	refreshToken string
	expiry       time.Time
	err          error
	calls        int
}

func (f *fakeTokenUpdater) UpdateToken(_ context.Context, id, accessToken, refreshToken string, expiry time.Time) error {
	f.calls++
	f.sessionID = id
	f.accessToken = accessToken
	f.refreshToken = refreshToken
	f.expiry = expiry
	return f.err
}

func expiredToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}
}

func TestRefreshIfExpiredValidTokenUntouched(t *testing.T) {
	refresher := &fakeRefresher{}
	updater := &fakeTokenUpdater{}
	token := &oauth2.Token{
		AccessToken:  "fresh-access",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(time.Hour),
	}

	got := refreshIfExpired(context.Background(), refresher, updater, "sess-1", token)

	assert.Same(t, token, got)
	assert.Zero(t, refresher.calls)
	assert.Zero(t, updater.calls)
}

func TestRefreshIfExpiredRefreshesAndPersists(t *testing.T) {
	newExpiry := time.Now().Add(time.Hour)
	refresher := &fakeRefresher{refreshed: &oauth2.Token{
		AccessToken:  "new-access",
		RefreshToken: "refresh-2",
		Expiry:       newExpiry,
	}}
	updater := &fakeTokenUpdater{}

	got := refreshIfExpired(context.Background(), refresher, updater, "sess-1", expiredToken())

	require.NotNil(t, got)
	assert.Equal(t, "new-access", got.AccessToken)
	assert.Equal(t, 1, updater.calls)
	assert.Equal(t, "sess-1", updater.sessionID)
	assert.Equal(t, "new-access", updater.accessToken)
	assert.Equal(t, "refresh-2", updater.refreshToken)
	assert.Equal(t, newExpiry, updater.expiry)
}

func TestRefreshIfExpiredKeepsOldRefreshToken(t *testing.T) {
	// The provider may renew the access token without issuing a new
	// refresh token.
	refresher := &fakeRefresher{refreshed: &oauth2.Token{
		AccessToken: "new-access",
		Expiry:      time.Now().Add(time.Hour),
	}}
	updater := &fakeTokenUpdater{}

	got := refreshIfExpired(context.Background(), refresher, updater, "sess-1", expiredToken())

	require.NotNil(t, got)
	assert.Equal(t, "refresh-1", got.RefreshToken)
	assert.Equal(t, "refresh-1", updater.refreshToken)
}

func TestRefreshIfExpiredFailureEndsSession(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("invalid_grant")}
	updater := &fakeTokenUpdater{}

	got := refreshIfExpired(context.Background(), refresher, updater, "sess-1", expiredToken())

	assert.Nil(t, got)
	assert.Zero(t, updater.calls)
}

func TestRefreshIfExpiredNoRefresherPassesThrough(t *testing.T) {
	token := expiredToken()

	got := refreshIfExpired(context.Background(), nil, &fakeTokenUpdater{}, "sess-1", token)

	// Without a refresher the oauth2 transport handles renewal per request.
	assert.Same(t, token, got)
}

type fakeSweeper struct {
	calls chan struct{}
	n     int64
	err   error
}

func (f *fakeSweeper) DeleteExpired(context.Context) (int64, error) {
	f.calls <- struct{}{}
	return f.n, f.err
}

func TestSweepSessionsRunsImmediatelyAndOnTick(t *testing.T) {
	sweeper := &fakeSweeper{calls: make(chan struct{}, 16), n: 3}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweepSessions(ctx, sweeper, 5*time.Millisecond, slog.Default())

	for i := 0; i < 3; i++ {
		select {
		case <-sweeper.calls:
		case <-time.After(time.Second):
			t.Fatalf("sweep %d did not run", i+1)
		}
	}
}

func TestSweepSessionsSurvivesErrors(t *testing.T) {
	sweeper := &fakeSweeper{calls: make(chan struct{}, 16), err: errors.New("connection reset")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweepSessions(ctx, sweeper, 5*time.Millisecond, slog.Default())

	// A failing sweep must not stop the loop.
	for i := 0; i < 2; i++ {
		select {
		case <-sweeper.calls:
		case <-time.After(time.Second):
			t.Fatalf("sweep %d did not run", i+1)
		}
	}
}
