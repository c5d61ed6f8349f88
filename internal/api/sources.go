package api

// SourceReference is a typed view of the loosely-shaped source objects the
// chat stream delivers. Field precedence, in order of preference:
//
//	Document:   "source", "filename"         (default "Unknown Document")
//	Page:       "page"                       (default 0, meaning unknown)
//	Confidence: "relevance_score", "confidence" (default 0)
//	Content:    "content", "text"            (default "No content available")
type SourceReference struct {
	Document   string
	Page       int
	Confidence float64
	Content    string
}

// MapSources converts raw stream source payloads into SourceReferences
func MapSources(raw []map[string]any) []SourceReference {
	refs := make([]SourceReference, 0, len(raw))
	for _, src := range raw {
		refs = append(refs, SourceReference{
			Document:   stringField(src, "Unknown Document", "source", "filename"),
			Page:       intField(src, "page"),
			Confidence: floatField(src, "relevance_score", "confidence"),
			Content:    stringField(src, "No content available", "content", "text"),
		})
	}
	return refs
}

func stringField(m map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func floatField(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			if v != 0 {
				return v
			}
		case int:
			if v != 0 {
				return float64(v)
			}
		}
	}
	return 0
}

func intField(m map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}
