package shrinetips

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

const ringText = `Rarity: Rare
Doom Loop
Coral Ring
--------
Item Level: 80
--------
+22 to maximum Life
--------
+31 to maximum Life
Nonsense line
`

func newTestStore(t *testing.T) *catalogue.Store {
	t.Helper()
	s := &catalogue.Store{}
	_, err := s.Rebuild(kb.Arr(kb.Int(4), kb.Arr(kb.Str("Gloom Shrine"), kb.Str("$2Life"), kb.Str("+# to maximum Life"))))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func writeItems(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWatcher_ClassifiesExistingItems(t *testing.T) {
	path := writeItems(t, ringText+"\n")

	watcher, err := NewWatcherWithOptions(
		WithFile(path),
		WithStore(newTestStore(t)),
		WithFromStart(true),
		WithPolling(true),
		WithIncludeText(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case res := <-results:
		if res.Tip.Name != "Doom Loop" {
			t.Errorf("got name %q, want %q", res.Tip.Name, "Doom Loop")
		}
		if res.Version != 4 {
			t.Errorf("got version %d, want 4", res.Version)
		}
		if len(res.Groups) != 2 {
			t.Fatalf("got %d groups, want 2: %+v", len(res.Groups), res.Groups)
		}
		if got := res.Groups[0].Lines; len(got) != 1 || got[0] != "+31 to maximum Life" {
			t.Errorf("got effect lines %q", got)
		}
		if !res.Groups[1].Unknown || res.Groups[1].Lines[0] != "Nonsense line" {
			t.Errorf("got unknown group %+v", res.Groups[1])
		}
		if res.Text == "" {
			t.Error("expected item text with WithIncludeText")
		}
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-ctx.Done():
		t.Fatal("timeout waiting for result")
	}
}

func TestWatcher_BlankLineDoesNotEndItem(t *testing.T) {
	path := writeItems(t, "Rarity: Rare\nDoom Loop\n\nCoral Ring\n--------\n+31 to maximum Life\n")

	watcher, err := NewWatcherWithOptions(
		WithFile(path),
		WithStore(newTestStore(t)),
		WithFromStart(true),
		WithPolling(true),
		WithFlushDelay(50*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case res := <-results:
		if res.Tip.Name != "Doom Loop" || res.Tip.Base != "Coral Ring" {
			t.Errorf("got name %q base %q", res.Tip.Name, res.Tip.Base)
		}
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-ctx.Done():
		t.Fatal("timeout waiting for result")
	}
}

func TestWatcher_FlushesTrailingItemWhenIdle(t *testing.T) {
	// Nothing follows the item, so it is emitted after the flush delay.
	path := writeItems(t, ringText)

	watcher, err := NewWatcherWithOptions(
		WithFile(path),
		WithStore(newTestStore(t)),
		WithFromStart(true),
		WithPolling(true),
		WithFlushDelay(50*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, _, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case res := <-results:
		if res.Tip.Base != "Coral Ring" {
			t.Errorf("got base %q", res.Tip.Base)
		}
		if res.Text != "" {
			t.Error("text should be empty without WithIncludeText")
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for result")
	}
}

func TestWatcher_RarityFilterAndNonItems(t *testing.T) {
	content := "just some notes\n\n" +
		"Rarity: Unique\nStar of Wraeclast\nRuby Amulet\n--------\n+30 to maximum Life\n\n" +
		ringText + "\n"
	path := writeItems(t, content)

	watcher, err := NewWatcherWithOptions(
		WithFile(path),
		WithStore(newTestStore(t)),
		WithRarities("rare", "magic"),
		WithFromStart(true),
		WithPolling(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	checkParseErr := func(err error) {
		t.Helper()
		var werr *WatchError
		if !errors.As(err, &werr) || werr.Op != WatchOpParse || !errors.Is(err, ErrNotTooltip) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var gotParseErr bool
	for {
		select {
		case res := <-results:
			if res.Tip.Rarity != "rare" {
				t.Errorf("got rarity %q, want only rare items", res.Tip.Rarity)
			}
			// The non-item text was queued before the result was sent.
			if !gotParseErr {
				select {
				case err := <-errs:
					checkParseErr(err)
				default:
					t.Error("expected the non-item text to be reported")
				}
			}
			return
		case err := <-errs:
			checkParseErr(err)
			gotParseErr = true
		case <-ctx.Done():
			t.Fatal("timeout waiting for result")
		}
	}
}

func TestWatcher_MissingFile(t *testing.T) {
	watcher, err := NewWatcherWithOptions(WithFile(filepath.Join(t.TempDir(), "missing.txt")))
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	results, errs, err := watcher.Watch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		var werr *WatchError
		if !errors.As(err, &werr) || werr.Op != WatchOpTail {
			t.Errorf("got %v, want tail WatchError", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for error")
	}

	if _, ok := <-results; ok {
		t.Error("results channel should be closed")
	}
}

func TestWatcher_Lifecycle(t *testing.T) {
	if _, err := NewWatcherWithOptions(); !errors.Is(err, ErrNoFile) {
		t.Errorf("got %v, want ErrNoFile", err)
	}
	if _, err := NewWatcherWithOptions(WithFile("x"), WithFlushDelay(0)); err == nil {
		t.Error("expected error for zero flush delay")
	}

	path := writeItems(t, "")
	watcher, err := NewWatcherWithOptions(WithFile(path), WithPolling(true))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, _, err := watcher.Watch(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := watcher.Watch(ctx); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Watch() = %v, want ErrAlreadyWatching", err)
	}

	if err := watcher.Close(); err != nil {
		t.Fatal(err)
	}
	if err := watcher.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, _, err := watcher.Watch(ctx); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close = %v, want ErrWatcherClosed", err)
	}
}
