package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"chirp/core"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// SnapshotVersion is the current snapshot schema version. Snapshots written
// by an unknown newer version are rejected on load so a schema change can
// never be half-read into memory.
const SnapshotVersion = 1

// Snapshot is the serialized form of the whole aggregate. Posts appear
// exactly once, in the global index; users reference them by id so the load
// path can rebuild the shared identity between an author's post sequence and
// the index.
type Snapshot struct {
	Version    int          `msgpack:"version"`
	SavedAt    time.Time    `msgpack:"saved_at"`
	NextPostID int64        `msgpack:"next_post_id"`
	Users      []UserRecord `msgpack:"users"`
	Posts      []PostRecord `msgpack:"posts"`
}

// UserRecord is the serialized form of a user. Inbox messages are flattened
// into one list ordered by sender, then receipt order within a sender.
type UserRecord struct {
	Username  string          `msgpack:"username"`
	Password  string          `msgpack:"password"`
	Name      string          `msgpack:"name"`
	Bio       string          `msgpack:"bio"`
	Following []string        `msgpack:"following"`
	PostIDs   []int64         `msgpack:"post_ids"`
	Inbox     []MessageRecord `msgpack:"inbox"`
}

// PostRecord is the serialized form of a post with its embedded comments and
// like set.
type PostRecord struct {
	ID        int64           `msgpack:"id"`
	Author    string          `msgpack:"author"`
	Text      string          `msgpack:"text"`
	CreatedAt time.Time       `msgpack:"created_at"`
	Likes     []string        `msgpack:"likes"`
	Comments  []CommentRecord `msgpack:"comments"`
}

// CommentRecord is the serialized form of a comment.
type CommentRecord struct {
	From string    `msgpack:"from"`
	Text string    `msgpack:"text"`
	At   time.Time `msgpack:"at"`
}

// MessageRecord is the serialized form of a direct message.
type MessageRecord struct {
	ID   string    `msgpack:"id"`
	From string    `msgpack:"from"`
	To   string    `msgpack:"to"`
	Text string    `msgpack:"text"`
	At   time.Time `msgpack:"at"`
}

// emptySnapshot is what a fresh install or an unreadable file loads as.
func emptySnapshot() *Snapshot {
	return &Snapshot{Version: SnapshotVersion, NextPostID: 1}
}

// SnapshotStore persists snapshots to a single file, replacing it whole on
// every save. There is no incremental persistence and no transaction log.
type SnapshotStore struct {
	path   string
	logger *zap.SugaredLogger
}

// NewSnapshotStore creates a store writing to path.
func NewSnapshotStore(path string, logger *zap.SugaredLogger) *SnapshotStore {
	return &SnapshotStore{path: path, logger: logger}
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save encodes the snapshot and replaces the file atomically: the bytes go
// to a temp file in the same directory, get synced, and are renamed over the
// previous snapshot. A crash mid-write can never corrupt the file the next
// Load reads.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	snap.Version = SnapshotVersion
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	s.logger.Debugw("snapshot saved", "path", s.path, "bytes", len(data))
	return nil
}

// Load reads the snapshot file. A missing file is not an error: it yields an
// empty snapshot, the state of a fresh install. Decode failures and
// unknown newer versions are returned to the caller, which is expected to
// fall back to an empty repository rather than abort.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptySnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, supported up to %d", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	return &snap, nil
}

// Open loads the snapshot at store's path and builds a repository wired to
// persist back to the same store. An unreadable snapshot is reported and the
// process proceeds with an empty repository instead of aborting startup.
func Open(store *SnapshotStore, clock core.Clock, logger *zap.SugaredLogger) *Repository {
	snap, err := store.Load()
	if err != nil {
		logger.Errorw("snapshot load failed, starting with empty repository",
			"path", store.Path(), "error", err)
		snap = emptySnapshot()
	}

	repo := NewRepository(clock, logger)
	repo.restore(snap)
	repo.persister = store
	return repo
}

// buildSnapshot captures the aggregate into its serialized form. Callers
// must hold at least the read lock. Sets are emitted in sorted order and the
// inbox sender buckets in sorted sender order so identical states always
// produce identical snapshots.
func (r *Repository) buildSnapshot() *Snapshot {
	snap := &Snapshot{
		Version:    SnapshotVersion,
		SavedAt:    r.clock.Now(),
		NextPostID: r.nextPostID,
	}

	postIDs := make([]int64, 0, len(r.posts))
	for id := range r.posts {
		postIDs = append(postIDs, id)
	}
	sort.Slice(postIDs, func(i, j int) bool { return postIDs[i] < postIDs[j] })
	for _, id := range postIDs {
		snap.Posts = append(snap.Posts, encodePost(r.posts[id]))
	}

	usernames := make([]string, 0, len(r.users))
	for name := range r.users {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)
	for _, name := range usernames {
		snap.Users = append(snap.Users, encodeUser(r.users[name]))
	}

	return snap
}

func encodePost(p *core.Post) PostRecord {
	rec := PostRecord{
		ID:        p.ID,
		Author:    p.Author,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
	}
	for username := range p.Likes {
		rec.Likes = append(rec.Likes, username)
	}
	sort.Strings(rec.Likes)
	for _, c := range p.Comments {
		rec.Comments = append(rec.Comments, CommentRecord{From: c.From, Text: c.Text, At: c.At})
	}
	return rec
}

func encodeUser(u *core.User) UserRecord {
	rec := UserRecord{
		Username: u.Username,
		Password: u.Password,
		Name:     u.Name,
		Bio:      u.Bio,
	}
	for target := range u.Following {
		rec.Following = append(rec.Following, target)
	}
	sort.Strings(rec.Following)

	for _, p := range u.Posts {
		rec.PostIDs = append(rec.PostIDs, p.ID)
	}

	senders := make([]string, 0, len(u.Inbox))
	for sender := range u.Inbox {
		senders = append(senders, sender)
	}
	sort.Strings(senders)
	for _, sender := range senders {
		for _, m := range u.Inbox[sender] {
			rec.Inbox = append(rec.Inbox, MessageRecord{
				ID: m.ID, From: m.From, To: m.To, Text: m.Text, At: m.At,
			})
		}
	}

	return rec
}

// restore rebuilds the in-memory aggregate from a snapshot. Posts are
// materialized once from the global index; user post sequences point at
// those same objects. The id counter is clamped to at least 1 and to above
// the highest restored id, so a corrupted counter can never reissue an id.
func (r *Repository) restore(snap *Snapshot) {
	r.nextPostID = snap.NextPostID
	if r.nextPostID < 1 {
		r.nextPostID = 1
	}

	for i := range snap.Posts {
		rec := &snap.Posts[i]
		p := core.NewPost(rec.ID, rec.Author, rec.Text, rec.CreatedAt)
		for _, username := range rec.Likes {
			p.Like(username)
		}
		for _, c := range rec.Comments {
			p.AddComment(core.NewComment(c.From, c.Text, c.At))
		}
		r.posts[rec.ID] = p
		if rec.ID >= r.nextPostID {
			r.nextPostID = rec.ID + 1
		}
	}

	for i := range snap.Users {
		rec := &snap.Users[i]
		u := core.NewUser(rec.Username, rec.Password)
		u.Name = rec.Name
		u.Bio = rec.Bio
		for _, target := range rec.Following {
			u.Following[target] = struct{}{}
		}
		for _, id := range rec.PostIDs {
			p, exists := r.posts[id]
			if !exists {
				r.logger.Warnw("snapshot references missing post, skipping",
					"username", rec.Username, "post_id", id)
				continue
			}
			u.Posts = append(u.Posts, p)
		}
		for _, m := range rec.Inbox {
			u.Receive(&core.Message{ID: m.ID, From: m.From, To: m.To, Text: m.Text, At: m.At})
		}
		r.users[rec.Username] = u
	}
}
