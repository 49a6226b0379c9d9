package core

import "strings"

// ResolveColumn picks the header that best matches one of synonyms.
//
// Exact matches on normalized text are tried first, synonym by synonym.
// Only when no synonym matches exactly does a second pass accept the first
// header (in header order) whose normalized form contains a synonym.
// Returns false when neither pass matches.
func ResolveColumn(headers []string, synonyms []string) (string, bool) {
	type entry struct {
		key    string
		header string
	}

	byKey := make(map[string]string, len(headers))
	ordered := make([]entry, 0, len(headers))
	for _, h := range headers {
		key := Normalize(h)
		if _, seen := byKey[key]; seen {
			continue
		}
		byKey[key] = h
		ordered = append(ordered, entry{key: key, header: h})
	}

	for _, syn := range synonyms {
		if h, ok := byKey[Normalize(syn)]; ok {
			return h, true
		}
	}

	for _, syn := range synonyms {
		norm := Normalize(syn)
		if norm == "" {
			continue
		}
		for _, e := range ordered {
			if strings.Contains(e.key, norm) {
				return e.header, true
			}
		}
	}

	return "", false
}

// ResolveField resolves a logical field against headers using its synonyms.
func ResolveField(headers []string, field Field) (string, bool) {
	list, ok := synonyms[field]
	if !ok {
		return "", false
	}
	return ResolveColumn(headers, list)
}
