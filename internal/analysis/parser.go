package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kiranshivaraju/verta/pkg/models"
)

// RawExcerptLimit caps how many characters of an unparseable reply are kept.
const RawExcerptLimit = 1000

// fencePattern matches a reply that opens with ``` and an optional language tag.
// The closing marker is optional since truncated replies often lose it.
var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?(.*?)(?:\\s*```)?$")

var requiredFields = []string{
	"file_info",
	"segments",
	"engagement_score",
	"meeting_summary",
	"action_items",
	"improvement_suggestions",
}

// StripFences trims text and removes a surrounding code fence if present.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	return t
}

// Parse decodes a model reply into an AnalysisResult.
// Any failure, including schema violations, is returned as a *ParseFailure.
func Parse(raw string) (*models.AnalysisResult, error) {
	body := []byte(StripFences(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, parseFailure(raw, err)
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, parseFailure(raw, fmt.Errorf("missing field %q", name))
		}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, parseFailure(raw, err)
	}
	if err := result.Validate(); err != nil {
		return nil, parseFailure(raw, err)
	}
	result.Normalize()
	return &result, nil
}

func parseFailure(raw string, cause error) *ParseFailure {
	return &ParseFailure{Excerpt: Excerpt(raw), Cause: cause}
}

// Excerpt returns at most RawExcerptLimit characters of the trimmed text,
// never splitting a multi-byte character.
func Excerpt(raw string) string {
	s := strings.TrimSpace(raw)
	if utf8.RuneCountInString(s) <= RawExcerptLimit {
		return s
	}
	n := 0
	for i := range s {
		if n == RawExcerptLimit {
			return s[:i]
		}
		n++
	}
	return s
}
