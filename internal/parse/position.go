package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

const formattingPrefix = '§'

var queueLabel = regexp.MustCompile(`Position in queue: (\d+)`)

// ChatPosition reads the position from the second "extra" component of a
// JSON chat message, the shape used by the queue server's status lines.
func ChatPosition(message string) (int, bool) {
	if !sonic.ValidString(message) {
		return 0, false
	}

	node, err := sonic.GetFromString(message, "extra", 1, "text")
	if err != nil {
		return 0, false
	}

	switch node.TypeSafe() {
	case ast.V_STRING:
		text, err := node.String()
		if err != nil {
			return 0, false
		}
		return parsePosition(text)
	case ast.V_NUMBER:
		n, err := node.Int64()
		if err != nil || n < 0 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// HeaderPosition finds "Position in queue: N" in a tab-list header. The
// header may be a JSON chat component or plain text; formatting codes are
// stripped before matching.
func HeaderPosition(header string) (int, bool) {
	match := queueLabel.FindStringSubmatch(StripFormatting(headerText(header)))
	if match == nil {
		return 0, false
	}
	return parsePosition(match[1])
}

// StripFormatting removes "§x" formatting codes.
func StripFormatting(s string) string {
	if !strings.ContainsRune(s, formattingPrefix) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	skip := false
	for _, r := range s {
		switch {
		case skip:
			skip = false
		case r == formattingPrefix:
			skip = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func headerText(header string) string {
	var component any
	if err := sonic.UnmarshalString(header, &component); err != nil {
		// Not a chat component: match the raw header text.
		return header
	}

	var b strings.Builder
	flatten(component, &b)
	return b.String()
}

// flatten concatenates the text of a chat component and its extras.
func flatten(component any, b *strings.Builder) {
	switch c := component.(type) {
	case string:
		b.WriteString(c)
	case []any:
		for _, child := range c {
			flatten(child, b)
		}
	case map[string]any:
		if text, ok := c["text"].(string); ok {
			b.WriteString(text)
		}
		if extra, ok := c["extra"].([]any); ok {
			flatten(extra, b)
		}
	}
}

func parsePosition(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
