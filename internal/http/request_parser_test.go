package http

import (
	"net/url"
	"testing"
	"time"

	"spendview/internal/core"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    core.Filter
		wantErr bool
	}{
		{
			name:  "empty query",
			query: url.Values{},
			want:  core.Filter{},
		},
		{
			name:  "date range",
			query: url.Values{"from": {"2025-01-01"}, "to": {"2025-03-31"}},
			want: core.Filter{
				From: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "categories normalized",
			query: url.Values{"category": {" Groceries ", "DINING", ""}},
			want:  core.Filter{Categories: []string{"groceries", "dining"}},
		},
		{
			name:    "bad from date",
			query:   url.Values{"from": {"01/02/2025"}},
			wantErr: true,
		},
		{
			name:    "to before from",
			query:   url.Values{"from": {"2025-03-01"}, "to": {"2025-01-01"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilter: %v", err)
			}
			if !got.From.Equal(tt.want.From) || !got.To.Equal(tt.want.To) {
				t.Errorf("dates = %v..%v, want %v..%v", got.From, got.To, tt.want.From, tt.want.To)
			}
			if len(got.Categories) != len(tt.want.Categories) {
				t.Fatalf("categories = %v, want %v", got.Categories, tt.want.Categories)
			}
			for i := range got.Categories {
				if got.Categories[i] != tt.want.Categories[i] {
					t.Errorf("categories[%d] = %q, want %q", i, got.Categories[i], tt.want.Categories[i])
				}
			}
		})
	}
}

func TestFilterCacheKey(t *testing.T) {
	a := core.Filter{
		From:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Categories: []string{"b", "a"},
	}
	b := core.Filter{
		From:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Categories: []string{"a", "b"},
	}
	if filterCacheKey(a) != filterCacheKey(b) {
		t.Error("category order should not change the cache key")
	}
	if filterCacheKey(a) == filterCacheKey(core.Filter{}) {
		t.Error("distinct filters share a cache key")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  admin\x00\x01  "); got != "admin" {
		t.Errorf("sanitizeInput = %q, want admin", got)
	}
}
