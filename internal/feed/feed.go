// Package feed aggregates friends' rating activity into one merged timeline.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ratifyhq/ratify/internal/db"
)

// FriendSource lists a user's friend ids. *db.UserRepository satisfies it.
type FriendSource interface {
	Friends(ctx context.Context, userID string) ([]string, error)
}

// ActivitySource lists one user's merged ratings. *db.ActivityRepository
// satisfies it.
type ActivitySource interface {
	ListForUser(ctx context.Context, userID string) ([]db.ActivityEntry, error)
}

// Friend is a feed sidebar entry. Only friends with at least one rating
// appear.
type Friend struct {
	ID              string
	DisplayName     string
	ProfileImageURL string
}

// Activity is the aggregated friend feed: the merged entries newest-first
// plus the friends that contributed to them.
type Activity struct {
	Friends []Friend
	Entries []db.ActivityEntry
}

// Service fans out per-friend activity queries and merges the results.
type Service struct {
	friends  FriendSource
	activity ActivitySource
	logger   *slog.Logger
}

// New creates a feed service.
func New(friends FriendSource, activity ActivitySource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{friends: friends, activity: activity, logger: logger}
}

// ForUser builds the friend activity feed for the caller. One query is
// issued per friend concurrently and all are joined before merging; a
// failing friend is logged and dropped, never failing the aggregate.
// Friends without ratings are omitted from the sidebar list.
func (s *Service) ForUser(ctx context.Context, userID string) (*Activity, error) {
	friendIDs, err := s.friends.Friends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	results := make([][]db.ActivityEntry, len(friendIDs))
	var wg sync.WaitGroup
	for i, friendID := range friendIDs {
		wg.Add(1)
		go func(i int, friendID string) {
			defer wg.Done()
			entries, err := s.activity.ListForUser(ctx, friendID)
			if err != nil {
				s.logger.Warn("dropping friend from feed",
					slog.String("friend_id", friendID),
					slog.String("error", err.Error()))
				return
			}
			results[i] = entries
		}(i, friendID)
	}
	wg.Wait()

	activity := &Activity{}
	for _, entries := range results {
		if len(entries) == 0 {
			continue
		}
		first := entries[0]
		activity.Friends = append(activity.Friends, Friend{
			ID:              first.UserID,
			DisplayName:     first.DisplayName,
			ProfileImageURL: first.ProfileImageURL,
		})
		activity.Entries = append(activity.Entries, entries...)
	}

	sort.SliceStable(activity.Entries, func(i, j int) bool {
		return activity.Entries[i].CreatedAt.After(activity.Entries[j].CreatedAt)
	})

	return activity, nil
}
