package feed

import (
	"path/filepath"
	"testing"
	"time"

	"chirp/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T) (*Engine, *storage.Repository, *fixedClock) {
	t.Helper()
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	repo := storage.NewRepository(clock, zap.NewNop().Sugar())
	return NewEngine(repo, zap.NewNop().Sugar()), repo, clock
}

func register(t *testing.T, repo *storage.Repository, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := repo.Register(name, "pw")
		require.NoError(t, err)
	}
}

func TestCompose_NewestFirstAcrossAuthors(t *testing.T) {
	engine, repo, clock := newTestEngine(t)
	register(t, repo, "alice", "bob")
	require.NoError(t, repo.Follow("bob", "alice"))

	// alice posts id 1 (oldest) and, later, id 3; bob posts id 2 in
	// between but newest by timestamp.
	_, err := repo.CreatePost("alice", "alice old")
	require.NoError(t, err)
	clock.advance(2 * time.Minute)
	_, err = repo.CreatePost("alice", "alice new")
	require.NoError(t, err)
	clock.advance(time.Minute)
	_, err = repo.CreatePost("bob", "bob newest")
	require.NoError(t, err)

	feed, err := engine.Compose("bob")
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, int64(3), feed[0].ID)
	assert.Equal(t, int64(2), feed[1].ID)
	assert.Equal(t, int64(1), feed[2].ID)
}

func TestCompose_SpecScenario(t *testing.T) {
	// bob follows alice; alice owns posts 1 (older) and 3 (newer); bob
	// owns post 2, newest by timestamp. Expected order: [2, 3, 1].
	engine, repo, clock := newTestEngine(t)
	register(t, repo, "alice", "bob")
	require.NoError(t, repo.Follow("bob", "alice"))

	_, err := repo.CreatePost("alice", "post 1")
	require.NoError(t, err)
	clock.advance(time.Minute)
	_, err = repo.CreatePost("bob", "post 2") // id 2
	require.NoError(t, err)
	clock.advance(-30 * time.Second) // id 3 is newer than 1, older than 2
	_, err = repo.CreatePost("alice", "post 3")
	require.NoError(t, err)

	feed, err := engine.Compose("bob")
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, int64(2), feed[0].ID)
	assert.Equal(t, int64(3), feed[1].ID)
	assert.Equal(t, int64(1), feed[2].ID)
}

func TestCompose_TiesBreakByDescendingID(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	register(t, repo, "alice", "bob")
	require.NoError(t, repo.Follow("bob", "alice"))

	// Same timestamp for every post: the clock never advances.
	for i := 0; i < 3; i++ {
		_, err := repo.CreatePost("alice", "tied")
		require.NoError(t, err)
	}
	_, err := repo.CreatePost("bob", "tied too")
	require.NoError(t, err)

	feed, err := engine.Compose("bob")
	require.NoError(t, err)
	require.Len(t, feed, 4)
	assert.Equal(t, []int64{4, 3, 2, 1}, []int64{feed[0].ID, feed[1].ID, feed[2].ID, feed[3].ID})
}

func TestCompose_EmptyFeedIsNotAnError(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	register(t, repo, "alice")

	feed, err := engine.Compose("alice")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCompose_OwnPostsWithoutFollows(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	register(t, repo, "alice")

	_, err := repo.CreatePost("alice", "mine")
	require.NoError(t, err)

	feed, err := engine.Compose("alice")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "mine", feed[0].Text)
}

func TestCompose_UnknownUser(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Compose("ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestCompose_UnfollowedAuthorDisappears(t *testing.T) {
	engine, repo, clock := newTestEngine(t)
	register(t, repo, "alice", "bob")
	require.NoError(t, repo.Follow("bob", "alice"))
	_, err := repo.CreatePost("alice", "hers")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = repo.CreatePost("bob", "his")
	require.NoError(t, err)

	require.NoError(t, repo.Unfollow("bob", "alice"))

	feed, err := engine.Compose("bob")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "his", feed[0].Text)
}

func TestCompose_DanglingFollowSkipped(t *testing.T) {
	// Craft a snapshot whose following set references a user that does
	// not exist; composition must skip it silently.
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := storage.NewSnapshotStore(filepath.Join(t.TempDir(), "chirp.snapshot"), zap.NewNop().Sugar())
	snap := &storage.Snapshot{
		Version:    storage.SnapshotVersion,
		NextPostID: 2,
		Users: []storage.UserRecord{{
			Username:  "bob",
			Password:  "pw",
			Name:      "bob",
			Following: []string{"ghost"},
			PostIDs:   []int64{1},
		}},
		Posts: []storage.PostRecord{{
			ID: 1, Author: "bob", Text: "mine", CreatedAt: clock.Now(),
		}},
	}
	require.NoError(t, store.Save(snap))

	repo := storage.Open(store, clock, zap.NewNop().Sugar())
	engine := NewEngine(repo, zap.NewNop().Sugar())

	feed, err := engine.Compose("bob")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "mine", feed[0].Text)

	// The dangling target never contributes to derived counts either.
	assert.Equal(t, 0, repo.CountFollowers("ghost"))
}

func TestSearchUsers(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	register(t, repo, "alice", "bob", "carol")
	require.NoError(t, repo.UpdateProfile("bob", "Ali Baba", ""))

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"MatchesUsernameAndDisplayName", "Ali", []string{"bob"}},
		{"MatchesUsername", "ali", []string{"alice"}},
		{"CaseSensitive", "ALICE", nil},
		{"MultipleOrderedByUsername", "o", []string{"bob", "carol"}},
		{"NoMatches", "zzz", nil},
		{"EmptyTermMatchesAll", "", []string{"alice", "bob", "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, u := range engine.SearchUsers(tt.term) {
				got = append(got, u.Username)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInbox_GroupedBySender(t *testing.T) {
	engine, repo, clock := newTestEngine(t)
	register(t, repo, "alice", "bob", "carol")

	require.NoError(t, repo.SendMessage("carol", "bob", "from carol"))
	clock.advance(time.Second)
	require.NoError(t, repo.SendMessage("alice", "bob", "from alice 1"))
	clock.advance(time.Second)
	require.NoError(t, repo.SendMessage("alice", "bob", "from alice 2"))

	groups, err := engine.Inbox("bob")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Groups ordered by sender; messages in receipt order within a group.
	assert.Equal(t, "alice", groups[0].Sender)
	require.Len(t, groups[0].Messages, 2)
	assert.Equal(t, "from alice 1", groups[0].Messages[0].Text)
	assert.Equal(t, "from alice 2", groups[0].Messages[1].Text)
	assert.Equal(t, "carol", groups[1].Sender)
}

func TestInbox_Empty(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	register(t, repo, "alice")

	groups, err := engine.Inbox("alice")
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = engine.Inbox("ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestProfile(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	register(t, repo, "alice", "bob", "carol")
	require.NoError(t, repo.UpdateProfile("alice", "Alice Example", "Hello!"))
	require.NoError(t, repo.Follow("bob", "alice"))
	require.NoError(t, repo.Follow("carol", "alice"))
	require.NoError(t, repo.Follow("alice", "bob"))
	_, err := repo.CreatePost("alice", "hi")
	require.NoError(t, err)

	profile, err := engine.Profile("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, profile.Followers)
	assert.Equal(t,
		"Alice Example (alice)\nBio: Hello!\nFollowers: 2  Following: 1  Posts: 1",
		profile.Render())

	_, err = engine.Profile("ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
