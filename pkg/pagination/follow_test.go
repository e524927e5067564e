package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// pagesFrom serves a fixed url→page table and records every requested url.
func pagesFrom(table map[string]*Page[string], requested *[]string) FetcherFunc[string] {
	return func(ctx context.Context, url string) (*Page[string], error) {
		*requested = append(*requested, url)
		page, ok := table[url]
		if !ok {
			return nil, errors.New("unexpected url " + url)
		}
		return page, nil
	}
}

func TestFollow(t *testing.T) {
	tests := []struct {
		name      string
		table     map[string]*Page[string]
		first     []string
		next      string
		want      []string
		wantFetch []string
	}{
		{
			name:  "single page job is a no-op",
			first: []string{"A"},
			next:  "",
			want:  []string{"A"},
		},
		{
			name: "two pages in arrival order",
			table: map[string]*Page[string]{
				"https://api.test/v2/crawl/1?skip=2": {Data: []string{"C"}},
			},
			first:     []string{"A", "B"},
			next:      "https://api.test/v2/crawl/1?skip=2",
			want:      []string{"A", "B", "C"},
			wantFetch: []string{"https://api.test/v2/crawl/1?skip=2"},
		},
		{
			name: "empty page still advances",
			table: map[string]*Page[string]{
				"u2": {Data: nil, Next: "u3"},
				"u3": {Data: []string{"D", "E"}},
			},
			first:     []string{"A"},
			next:      "u2",
			want:      []string{"A", "D", "E"},
			wantFetch: []string{"u2", "u3"},
		},
		{
			name: "duplicates are kept",
			table: map[string]*Page[string]{
				"u2": {Data: []string{"A"}},
			},
			first:     []string{"A"},
			next:      "u2",
			want:      []string{"A", "A"},
			wantFetch: []string{"u2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requested []string
			got, err := Follow[string](context.Background(), pagesFrom(tt.table, &requested), tt.next, tt.first)
			if err != nil {
				t.Fatalf("Follow() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Follow() data mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantFetch, requested); diff != "" {
				t.Errorf("fetched urls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFollow_CursorLoop(t *testing.T) {
	var requested []string
	table := map[string]*Page[string]{
		"u2": {Data: []string{"B"}, Next: "u3"},
		"u3": {Data: []string{"C"}, Next: "u2"},
	}

	got, err := Follow[string](context.Background(), pagesFrom(table, &requested), "u2", []string{"A"})
	if !errors.Is(err, ErrCursorLoop) {
		t.Fatalf("Follow() error = %v, want ErrCursorLoop", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, got); diff != "" {
		t.Errorf("data gathered before loop mismatch (-want +got):\n%s", diff)
	}
	if len(requested) != 2 {
		t.Errorf("fetched %d pages, want 2", len(requested))
	}
}

func TestFollow_FetchError(t *testing.T) {
	boom := errors.New("connection reset")
	f := FetcherFunc[string](func(ctx context.Context, url string) (*Page[string], error) {
		return nil, boom
	})

	_, err := Follow[string](context.Background(), f, "u2", nil)
	if !errors.Is(err, boom) {
		t.Errorf("Follow() error = %v, want %v", err, boom)
	}
}

func TestFollow_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	f := FetcherFunc[string](func(ctx context.Context, url string) (*Page[string], error) {
		calls++
		return &Page[string]{}, nil
	})

	_, err := Follow[string](ctx, f, "u2", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Follow() error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("fetcher called %d times after cancel", calls)
	}
}
