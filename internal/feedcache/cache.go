package feedcache

import (
	"sync"
	"time"
)

// Kind identifies a feed ordering
type Kind string

const (
	KindDefault Kind = "default"
	KindRecent  Kind = "recent"
	KindLiked   Kind = "liked"
)

// Post is the cached shape of an annoyance as the API returns it.
type Post struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	AuthorUsername string    `json:"author_username"`
	ImageURL       string    `json:"image_url"`
	LikeCount      int       `json:"like_count"`
	CommentCount   int       `json:"comment_count"`
	IsLiked        bool      `json:"is_liked"`
	CreatedAt      time.Time `json:"created_at"`
}

type feedState struct {
	ids     []uint
	pages   int
	hasMore bool
}

// Cache is a normalized store for feed pages. Each post lives exactly once
// in the entity table; feed kinds hold ordered ID lists referencing it, so a
// mutation to a post is visible in every feed that contains it.
type Cache struct {
	mu       sync.RWMutex
	pageSize int
	posts    map[uint]*Post
	feeds    map[Kind]*feedState
}

// Snapshot is an opaque copy of the cache state, taken before an optimistic
// mutation so a failed request can roll back exactly.
type Snapshot struct {
	posts map[uint]Post
	feeds map[Kind]feedState
}

// New creates an empty cache. pageSize is the fixed page size used for
// offset arithmetic; it must match the limit sent to the API.
func New(pageSize int) *Cache {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Cache{
		pageSize: pageSize,
		posts:    make(map[uint]*Post),
		feeds:    make(map[Kind]*feedState),
	}
}

// AppendPage stores a fetched page at the end of a feed. Posts replace any
// cached entity with the same ID; IDs already present in the feed's index
// are not re-appended, so a shifted page cannot duplicate entries.
func (c *Cache) AppendPage(kind Kind, posts []Post, hasMore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	feed := c.feed(kind)
	seen := make(map[uint]bool, len(feed.ids))
	for _, id := range feed.ids {
		seen[id] = true
	}

	for i := range posts {
		post := posts[i]
		c.posts[post.ID] = &post
		if !seen[post.ID] {
			feed.ids = append(feed.ids, post.ID)
		}
	}

	feed.pages++
	feed.hasMore = hasMore
}

// NextOffset returns the offset to request for the feed's next page
func (c *Cache) NextOffset(kind Kind) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	feed, ok := c.feeds[kind]
	if !ok {
		return 0
	}
	return feed.pages * c.pageSize
}

// HasMore reports whether the server indicated more pages for the feed.
// Feeds never fetched report true so the first fetch happens.
func (c *Cache) HasMore(kind Kind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	feed, ok := c.feeds[kind]
	if !ok {
		return true
	}
	return feed.hasMore
}

// Posts returns the feed's posts in index order
func (c *Cache) Posts(kind Kind) []Post {
	c.mu.RLock()
	defer c.mu.RUnlock()

	feed, ok := c.feeds[kind]
	if !ok {
		return nil
	}

	out := make([]Post, 0, len(feed.ids))
	for _, id := range feed.ids {
		if post, ok := c.posts[id]; ok {
			out = append(out, *post)
		}
	}
	return out
}

// Get returns a single cached post by ID
func (c *Cache) Get(id uint) (Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	post, ok := c.posts[id]
	if !ok {
		return Post{}, false
	}
	return *post, true
}

// Snapshot copies the full cache state. Cheap at client scale: a few pages
// of posts at most.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		posts: make(map[uint]Post, len(c.posts)),
		feeds: make(map[Kind]feedState, len(c.feeds)),
	}
	for id, post := range c.posts {
		snap.posts[id] = *post
	}
	for kind, feed := range c.feeds {
		ids := make([]uint, len(feed.ids))
		copy(ids, feed.ids)
		snap.feeds[kind] = feedState{ids: ids, pages: feed.pages, hasMore: feed.hasMore}
	}
	return snap
}

// Restore replaces the cache state with a snapshot
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.posts = make(map[uint]*Post, len(snap.posts))
	for id, post := range snap.posts {
		p := post
		c.posts[id] = &p
	}
	c.feeds = make(map[Kind]*feedState, len(snap.feeds))
	for kind, feed := range snap.feeds {
		ids := make([]uint, len(feed.ids))
		copy(ids, feed.ids)
		c.feeds[kind] = &feedState{ids: ids, pages: feed.pages, hasMore: feed.hasMore}
	}
}

// ToggleLike flips the post's liked state and adjusts its like count. The
// change shows up in every feed containing the post. Returns the new liked
// state, or false ok when the post is not cached.
func (c *Cache) ToggleLike(id uint) (liked, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	post, exists := c.posts[id]
	if !exists {
		return false, false
	}

	post.IsLiked = !post.IsLiked
	if post.IsLiked {
		post.LikeCount++
	} else if post.LikeCount > 0 {
		post.LikeCount--
	}
	return post.IsLiked, true
}

// SetLikeState reconciles a post with the server's authoritative response
func (c *Cache) SetLikeState(id uint, liked bool, likeCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if post, ok := c.posts[id]; ok {
		post.IsLiked = liked
		post.LikeCount = likeCount
	}
}

// IncrementCommentCount bumps a post's comment count after the server
// accepted a comment. Comments themselves are never cached optimistically.
func (c *Cache) IncrementCommentCount(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if post, ok := c.posts[id]; ok {
		post.CommentCount++
	}
}

// Remove deletes a post from the entity table and from every feed index.
// Called only after the server confirmed the delete.
func (c *Cache) Remove(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.posts, id)
	for _, feed := range c.feeds {
		for i, feedID := range feed.ids {
			if feedID == id {
				feed.ids = append(feed.ids[:i], feed.ids[i+1:]...)
				break
			}
		}
	}
}

// InvalidateAll drops everything. Used after creating a post: the ranking
// service decides where new posts land, so guessing an insert position
// would show a feed the server never produced.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.posts = make(map[uint]*Post)
	c.feeds = make(map[Kind]*feedState)
}

// Len returns the number of cached posts
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

func (c *Cache) feed(kind Kind) *feedState {
	feed, ok := c.feeds[kind]
	if !ok {
		feed = &feedState{}
		c.feeds[kind] = feed
	}
	return feed
}
