package toolcall

import "strings"

// Parse extracts a tool action from a model reply using the full action set.
func Parse(raw string) (Action, bool) {
	return FullSet.Parse(raw)
}

// Parse extracts the action a model reply asks for. A reply that is only the
// JSON object takes the fast path; otherwise embedded objects are tried from
// the last '{' backwards. Unknown actions count as no action.
func (s ActionSet) Parse(raw string) (Action, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}

	if a, ok := s.decode([]byte(text)); ok {
		return a, true
	}

	if !strings.Contains(text, `"action"`) {
		return nil, false
	}

	var found Action
	eachObject(text, func(start, end int) bool {
		if a, ok := s.decode([]byte(text[start:end])); ok {
			found = a
			return true
		}
		return false
	})
	return found, found != nil
}

// LooksLikeToolJSON reports whether a reply that Parse rejected was still an
// attempt at a tool call: it opens with '{' (optionally inside a code fence)
// and mentions "action".
func LooksLikeToolJSON(raw string) bool {
	text := strings.TrimSpace(raw)
	text = strings.TrimSpace(leadingFence.ReplaceAllString(text, ""))
	return strings.HasPrefix(text, "{") && strings.Contains(text, "action")
}

// eachObject walks brace-balanced {...} spans of text, starting from the last
// '{' and moving left. fn receives [start, end) and stops the walk by
// returning true.
func eachObject(text string, fn func(start, end int) bool) {
	for start := strings.LastIndexByte(text, '{'); start >= 0; start = strings.LastIndexByte(text[:start], '{') {
		end := closingBrace(text, start)
		if end < 0 {
			continue
		}
		if fn(start, end+1) {
			return
		}
	}
}

func closingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
