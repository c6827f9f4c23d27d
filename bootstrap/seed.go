package bootstrap

import (
	"chirp/storage"

	"go.uber.org/zap"
)

// SeedDemo populates an empty repository with the demo accounts so a fresh
// install has something to look at: alice/pass and bob/123, one post each.
// Callers gate this on the repository being empty.
func SeedDemo(repo *storage.Repository, sugar *zap.SugaredLogger) error {
	if _, err := repo.Register("alice", "pass"); err != nil {
		return err
	}
	if err := repo.UpdateProfile("alice", "Alice Example", "Hello! I'm Alice."); err != nil {
		return err
	}

	if _, err := repo.Register("bob", "123"); err != nil {
		return err
	}
	if err := repo.UpdateProfile("bob", "Bob Example", "Bob here :)"); err != nil {
		return err
	}

	if _, err := repo.CreatePost("alice", "Welcome to the demo social app!"); err != nil {
		return err
	}
	if _, err := repo.CreatePost("bob", "This is Bob's first post."); err != nil {
		return err
	}

	sugar.Info("Demo users created: alice/pass, bob/123")
	return nil
}
