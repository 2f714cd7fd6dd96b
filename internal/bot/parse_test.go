package bot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseIndexList(t *testing.T) {
	tests := []struct {
		name string
		args []string
		size int
		want []int
	}{
		{
			name: "single token",
			args: []string{"0,2,1"},
			size: 4,
			want: []int{0, 2, 1},
		},
		{
			name: "spaces after commas split across tokens",
			args: []string{"0,", "2,", "3"},
			size: 4,
			want: []int{0, 2, 3},
		},
		{
			name: "out of range dropped",
			args: []string{"0,4,-1,2"},
			size: 3,
			want: []int{0, 2},
		},
		{
			name: "duplicates collapse keeping first position",
			args: []string{"1,1,0,1"},
			size: 2,
			want: []int{1, 0},
		},
		{
			name: "garbage dropped",
			args: []string{"a,0,b,,1"},
			size: 2,
			want: []int{0, 1},
		},
		{
			name: "nothing valid",
			args: []string{"x,y"},
			size: 5,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseIndexList(tt.args, tt.size)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseIndexList mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	if n, ok := parseIndex("2", 3); !ok || n != 2 {
		t.Errorf("Expected (2, true), got (%d, %v)", n, ok)
	}
	if _, ok := parseIndex("3", 3); ok {
		t.Error("Index equal to size must be rejected")
	}
	if _, ok := parseIndex("-1", 3); ok {
		t.Error("Negative index must be rejected")
	}
	if _, ok := parseIndex("abc", 3); ok {
		t.Error("Non-numeric index must be rejected")
	}
}

func TestParseRoleRef(t *testing.T) {
	id, ok := parseRoleRef("<@&123456789012345678>")
	if !ok || id.String() != "123456789012345678" {
		t.Errorf("Mention parse failed: (%v, %v)", id, ok)
	}

	id, ok = parseRoleRef("123456789012345678")
	if !ok || id.String() != "123456789012345678" {
		t.Errorf("Raw id parse failed: (%v, %v)", id, ok)
	}

	if _, ok := parseRoleRef("@everyone"); ok {
		t.Error("Non-snowflake input must be rejected")
	}
}

func TestParseEmojiRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<:blob:123456789012345678>", "123456789012345678"},
		{"<a:party:123456789012345678>", "123456789012345678"},
		{"🔥", "🔥"},
		{"<:broken>", ""},
		{"<:name:notanid>", ""},
	}
	for _, tt := range tests {
		if got := parseEmojiRef(tt.in); got != tt.want {
			t.Errorf("parseEmojiRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
