package service

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSONPattern matches the first ```json ... ``` block, non-greedy so
// only one block is captured even when several are present.
var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParseResult separates a model reply into prose and an optional structured
// payload.
type ParseResult struct {
	Text string
	JSON interface{}
}

// ParseReply scans raw for an embedded fenced JSON block.
//
// With no block the reply is returned verbatim. With a well-formed block the
// decoded value is returned alongside the reply minus the block. A block whose
// interior fails to decode is ignored entirely and the reply passes through
// untouched; a corrupt fence must never fail the request.
func ParseReply(raw string) ParseResult {
	match := fencedJSONPattern.FindStringSubmatchIndex(raw)
	if match == nil {
		return ParseResult{Text: raw}
	}

	interior := raw[match[2]:match[3]]

	var decoded interface{}
	if err := json.Unmarshal([]byte(interior), &decoded); err != nil {
		return ParseResult{Text: raw}
	}

	text := strings.TrimSpace(raw[:match[0]] + raw[match[1]:])
	return ParseResult{Text: text, JSON: decoded}
}
