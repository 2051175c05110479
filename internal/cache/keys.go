package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PoemKeyPrefix     = "poem:%d"
	UserKeyPrefix     = "user:%s"
	PoemListKeyPrefix = "poems:%s:%d"
)

const (
	PoemTTL     = 10 * time.Minute
	UserTTL     = 5 * time.Minute
	PoemListTTL = 1 * time.Minute
)

func PoemKey(poemID uint) string {
	return fmt.Sprintf(PoemKeyPrefix, poemID)
}

func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, username)
}

// PoemListKey identifies one page of a poem listing. The filter string
// encodes the active filter, e.g. "all", "user:bob", "likes:<user id>" or
// "search:rain".
func PoemListKey(filter string, page int) string {
	return fmt.Sprintf(PoemListKeyPrefix, filter, page)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePoem(ctx context.Context, poemID uint) {
	Invalidate(ctx, PoemKey(poemID))
}

func InvalidateUser(ctx context.Context, username string) {
	Invalidate(ctx, UserKey(username))
}

// InvalidateLists drops every cached listing page. Any write to a poem,
// comment or like can change listing contents, so pages are flushed
// wholesale rather than tracked per filter.
func InvalidateLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "poems:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
