package extract

import (
	"reflect"
	"testing"
)

func TestURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single link",
			text: "check this out https://example.com/article",
			want: []string{"https://example.com/article"},
		},
		{
			name: "plain http",
			text: "old site http://example.org",
			want: []string{"http://example.org"},
		},
		{
			name: "multiple links in order",
			text: "first https://a.com then https://b.org done",
			want: []string{"https://a.com", "https://b.org"},
		},
		{
			name: "duplicates preserved",
			text: "https://same.com and again https://same.com",
			want: []string{"https://same.com", "https://same.com"},
		},
		{
			name: "percent escapes",
			text: "https://example.com/a%20b",
			want: []string{"https://example.com/a%20b"},
		},
		{
			name: "no links",
			text: "just a plain message",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "scheme without host is not a link",
			text: "https:// is how links start",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := URLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("URLs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
