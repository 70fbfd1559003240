package judge

import "strings"

// languageIDs maps supported language names to Judge0 language ids.
var languageIDs = map[string]int{
	"python":     92,
	"java":       91,
	"javascript": 93,
	"cpp":        54,
	"c":          50,
}

// LanguageID resolves a language name to its Judge0 id. Unknown names fall
// back to Python rather than failing the batch.
func LanguageID(language string) int {
	if id, ok := languageIDs[strings.ToLower(language)]; ok {
		return id
	}
	return languageIDs["python"]
}
