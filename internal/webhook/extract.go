package webhook

import "strings"

// firstNonNilMap returns the value of the first key in keys whose value in
// m is itself a map, per spec §4.11 step 5 "message = payload.message | payload.data |
// payload.inline_message (first non-null)".
func firstNonNilMap(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if nested, ok := v.(map[string]any); ok {
				return nested, true
			}
		}
	}
	return map[string]any{}, false
}

// stringField reads field directly off m, or off a nested map at
// m[nestedKey] when nestedKey is non-empty (e.g. chat.id, sender.id).
func stringField(m map[string]any, nestedKey, field string) string {
	target := m
	if nestedKey != "" {
		if nested, ok := m[nestedKey].(map[string]any); ok {
			target = nested
		} else {
			return ""
		}
	}
	s, _ := target[field].(string)
	return s
}

func stringTop(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstCommandToken returns the first "/"-prefixed word, lowercased,
// stripped of its leading slash (spec §4.11 step 7).
func firstCommandToken(text string) (token string, rest string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", "", false
	}
	return strings.ToLower(fields[0]), strings.Join(fields[1:], " "), true
}

func containsAny(text string, substrs ...string) bool {
	lower := strings.ToLower(text)
	for _, s := range substrs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
