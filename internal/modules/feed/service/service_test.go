package service

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/slackstats/workstats/internal/modules/snapshot/domain"
	"github.com/slackstats/workstats/internal/modules/snapshot/repository"
	snapshotService "github.com/slackstats/workstats/internal/modules/snapshot/service"
)

func newTestFeed(t *testing.T) (*Service, repository.Repository) {
	t.Helper()
	repo, err := repository.NewSQLiteStorage(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("opening snapshot storage: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return New(snapshotService.New(repo)), repo
}

func TestGenerateEmpty(t *testing.T) {
	feed, _ := newTestFeed(t)

	got, err := feed.Generate("http://localhost:8080")
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("empty storage produced %d items, want 0", len(got.Items))
	}
	if _, err := got.ToRss(); err != nil {
		t.Errorf("empty feed failed to render: %v", err)
	}
}

func TestGenerateItems(t *testing.T) {
	feed, repo := newTestFeed(t)

	base := time.Now().UTC()
	snapshots := []*domain.Snapshot{
		{ID: "s1", ChannelLabel: "C1", TotalMessages: 5, Blocks: []byte("[]"), CreatedAt: base.Add(-time.Hour)},
		{ID: "s2", ChannelLabel: "", TotalMessages: 9, Blocks: []byte("[]"), CreatedAt: base},
	}
	for _, snapshot := range snapshots {
		if err := repo.Save(snapshot); err != nil {
			t.Fatalf("Save(%s) unexpected error: %v", snapshot.ID, err)
		}
	}

	got, err := feed.Generate("http://localhost:8080")
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("Generate() produced %d items, want 2", len(got.Items))
	}

	// Newest first, with the merged report labeled for all channels
	if got.Items[0].Id != "s2" {
		t.Errorf("first item = %s, want s2", got.Items[0].Id)
	}
	if !strings.Contains(got.Items[0].Title, "all channels") {
		t.Errorf("merged report title = %q, want all-channels label", got.Items[0].Title)
	}
	if !strings.Contains(got.Items[1].Description, "5 messages") {
		t.Errorf("item description = %q, want message count", got.Items[1].Description)
	}

	rss, err := got.ToRss()
	if err != nil {
		t.Fatalf("ToRss() unexpected error: %v", err)
	}
	if !strings.Contains(rss, "Workspace Usage Reports") {
		t.Errorf("rendered RSS missing feed title")
	}
}
