package toolcall

import (
	"regexp"
	"strings"
)

var quoteNormalizer = strings.NewReplacer(
	"\r\n", "\n", "\r", "\n",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
	"‘", "'", "’", "'",
)

// toolJSON matches '{' followed by "action":"<known id>" and then lazily up to
// the next closing brace, plus any closing braces right after it. It does not
// need balanced JSON.
var toolJSON = regexp.MustCompile(
	`\{\s*(?:[-*•]\s*)*"action"\s*:\s*"(?:` + knownIDs() + `)"[\s\S]*?\}(?:\s*\})*`,
)

var (
	emptyFence    = regexp.MustCompile("```[A-Za-z0-9_-]*\\s*```")
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \\t]*(?:\\n|$)")
	trailingFence = regexp.MustCompile("(?:^|\\n)[ \\t]*```$")

	bulletOnlyLine = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]*(?:\n|$)`)
	trailingSpace  = regexp.MustCompile(`[ \t]+\n`)
	spaceRun       = regexp.MustCompile(`[ \t]{2,}`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
)

func knownIDs() string {
	ids := make([]string, len(FullSet))
	for i, id := range FullSet {
		ids[i] = regexp.QuoteMeta(string(id))
	}
	return strings.Join(ids, "|")
}

// Strip removes every tool-call JSON fragment from a reply before it is shown
// to a user, together with code fences and bullets the removal leaves behind.
// Removal is lossy on purpose: surrounding prose may lose a few characters.
// If nothing but JSON was there, the trimmed original is returned so the user
// never gets an empty message. Strip(Strip(x)) == Strip(x).
func Strip(reply string) string {
	original := strings.TrimSpace(reply)
	if !strings.Contains(original, "action") {
		return original
	}

	text := quoteNormalizer.Replace(original)
	for {
		next, removed := removeToolJSON(text)
		if removed {
			next = removeOrphanFences(next)
		}
		next = tidy(next)
		if next == text {
			break
		}
		text = next
	}

	if text == "" {
		return original
	}
	return text
}

// ContainsToolJSON reports whether text still holds something Strip would remove.
func ContainsToolJSON(text string) bool {
	text = quoteNormalizer.Replace(text)
	if toolJSON.MatchString(text) {
		return true
	}
	_, _, ok := embeddedAction(text)
	return ok
}

// removeToolJSON drops well-formed action objects whole first, whatever keys
// follow "params", then lets the regex take malformed leftovers.
func removeToolJSON(text string) (string, bool) {
	out := text
	for {
		start, end, ok := embeddedAction(out)
		if !ok {
			break
		}
		out = out[:start] + out[end:]
	}
	out = toolJSON.ReplaceAllString(out, "")
	return out, out != text
}

func embeddedAction(text string) (int, int, bool) {
	if !strings.Contains(text, `"action"`) {
		return 0, 0, false
	}
	start, end, found := 0, 0, false
	eachObject(text, func(s, e int) bool {
		if _, ok := FullSet.decode([]byte(text[s:e])); ok {
			start, end, found = s, e, true
			return true
		}
		return false
	})
	return start, end, found
}

func removeOrphanFences(text string) string {
	for {
		next := emptyFence.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = trailingFence.ReplaceAllString(text, "")
	return text
}

func tidy(text string) string {
	text = bulletOnlyLine.ReplaceAllString(text, "")
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
