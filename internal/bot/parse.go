package bot

import (
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// parseIndexList parses a comma-separated list of positional indexes
// ("1,2,3" or "1, 2, 3"), drops anything non-numeric or out of [0, size),
// and removes duplicates while preserving order.
func parseIndexList(args []string, size int) []int {
	joined := strings.Join(args, "")
	var out []int
	seen := make(map[int]struct{})
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n >= size {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// parseIndex parses a single positional index and range-checks it.
func parseIndex(arg string, size int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 || n >= size {
		return 0, false
	}
	return n, true
}

// parseRoleRef extracts a role id from a mention (<@&123>) or a raw id.
func parseRoleRef(arg string) (snowflake.ID, bool) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<@&") && strings.HasSuffix(arg, ">") {
		arg = arg[3 : len(arg)-1]
	}
	id, err := snowflake.Parse(arg)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseEmojiRef extracts the stored emoji key from a custom emoji tag
// (<:name:123> or <a:name:123>) or returns a unicode emoji as-is.
func parseEmojiRef(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">") {
		parts := strings.Split(arg[1:len(arg)-1], ":")
		if len(parts) == 3 {
			if _, err := snowflake.Parse(parts[2]); err == nil {
				return parts[2]
			}
		}
		return ""
	}
	return arg
}
