package surface

import (
	"regexp"
	"strings"
)

// lineCommentMarker introduces a Solidity line comment.
const lineCommentMarker = "//"

var (
	// blockCommentPattern matches a documentation block comment anchored at
	// the end of the joined buffer. Anchoring at the end matters: earlier
	// comments in the scanned window belong to a previous declaration.
	blockCommentPattern = regexp.MustCompile(`(?s)/\*\*(.+?)\*/$`)
	// decorationPattern is the leading asterisk decoration on block-comment
	// interior lines.
	decorationPattern = regexp.MustCompile(`^\s*\*\s*`)
	// lineMarkerPattern matches one or more repeated line-comment markers.
	lineMarkerPattern = regexp.MustCompile(`//+`)
	// tagPattern finds a NatSpec tag at the start of a line.
	tagPattern = regexp.MustCompile(`\n@([a-z]+)`)
	// anyTagPattern matches a NatSpec tag anywhere in a line.
	anyTagPattern = regexp.MustCompile(`@[a-z]+`)
)

// CleanCommentBlock strips one comment region from a run of raw source
// lines: either a block comment anchored at the end of the run, or the
// trailing contiguous set of line comments. Lines that are not part of that
// trailing comment are dropped. An empty result means no documentation was
// found, which is a valid outcome rather than an error.
func CleanCommentBlock(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, s := range lines {
		if t := strings.TrimSpace(s); t != "" {
			kept = append(kept, t)
		}
	}
	buffer := strings.Join(kept, "\n")

	var cleaned []string
	if m := blockCommentPattern.FindStringSubmatch(buffer); m != nil {
		for _, s := range strings.Split(m[1], "\n") {
			if s == "" {
				continue
			}
			cleaned = append(cleaned, strings.TrimSpace(decorationPattern.ReplaceAllString(s, "")))
		}
	} else {
		// Scan backward from the last line to collect the contiguous block
		// of line comments directly before the declaration.
		var reversed []string
		for i := len(kept) - 1; i >= 0; i-- {
			if !strings.HasPrefix(kept[i], lineCommentMarker) {
				break
			}
			reversed = append(reversed, strings.TrimSpace(lineMarkerPattern.ReplaceAllString(kept[i], "")))
		}
		for i := len(reversed) - 1; i >= 0; i-- {
			cleaned = append(cleaned, reversed[i])
		}
	}

	final := cleaned[:0]
	for _, s := range cleaned {
		if t := strings.TrimSpace(s); t != "" {
			final = append(final, t)
		}
	}
	return final
}

// splitInlineRemark splits a declaration line on the line-comment marker.
// The remark exists only when splitting yields exactly two parts.
func splitInlineRemark(line string) string {
	parts := lineMarkerPattern.Split(line, -1)
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// ParamDoc is one documented parameter from a @param tag.
type ParamDoc struct {
	Name string
	Text string
}

// DeclarationComment is the parsed documentation of an object declaration.
// Tags holds every NatSpec tag found, with repeated tags accumulated
// newline-separated; Params is the per-parameter breakdown of the param tag
// in source order.
type DeclarationComment struct {
	Tags        map[string]string
	Params      []ParamDoc
	FullComment string
	Description string
}

// Empty reports whether no comment was found at all.
func (c DeclarationComment) Empty() bool {
	return c.FullComment == "" && len(c.Tags) == 0
}

// ParamNames returns the documented parameter names in source order.
func (c DeclarationComment) ParamNames() []string {
	if len(c.Params) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		names = append(names, p.Name)
	}
	return names
}

// ParseDeclarationComment cleans and interprets the raw source lines above
// an object declaration. The window may contain unrelated code; only the
// trailing comment region is kept. Absence of a comment returns the zero
// value, not an error.
func ParseDeclarationComment(linesRaw []string) DeclarationComment {
	var c DeclarationComment

	lines := CleanCommentBlock(linesRaw)
	if len(lines) == 0 {
		return c
	}
	text := strings.Join(lines, "\n")

	// Collect tag/value pairs. A leading newline lets a tag on the first
	// line match; repeated tags (one @param per parameter) accumulate
	// newline-separated.
	matches := tagPattern.FindAllStringSubmatchIndex("\n"+text, -1)
	if len(matches) > 0 {
		c.Tags = make(map[string]string, len(matches))
		padded := "\n" + text
		for i, m := range matches {
			tag := padded[m[2]:m[3]]
			end := len(padded)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			value := strings.TrimSpace(strings.ReplaceAll(padded[m[1]:end], "\n", " "))
			if prev, ok := c.Tags[tag]; ok {
				c.Tags[tag] = prev + "\n" + value
			} else {
				c.Tags[tag] = value
			}
		}
	}

	// Break the accumulated param tag into name/description pairs.
	if params := c.Tags["param"]; params != "" {
		for _, entry := range strings.Split(params, "\n") {
			name, text, _ := strings.Cut(entry, " ")
			c.Params = append(c.Params, ParamDoc{Name: name, Text: strings.TrimSpace(text)})
		}
	}

	c.FullComment = text
	c.Description = deriveDescription(c)

	return c
}

// deriveDescription picks the one-line summary by tag priority, falling back
// to the text before the first period of the full comment.
func deriveDescription(c DeclarationComment) string {
	for _, tag := range []string{"title", "notice", "dev", "return"} {
		if v, ok := c.Tags[tag]; ok {
			return v
		}
	}
	head, _, _ := strings.Cut(c.FullComment, ".")
	return head
}

// ParameterComment is the parsed documentation of a single parameter line:
// any comment directly above the declaration plus a trailing inline remark
// on the declaration line itself.
type ParameterComment struct {
	FullComment   string
	Description   string
	InlineComment string
}

// Empty reports whether no comment was found at all.
func (c ParameterComment) Empty() bool {
	return c.FullComment == ""
}

// ParseTrailingComment cleans and interprets raw source lines whose final
// entry is the parameter declaration line. Preceding lines may hold a block
// or line comment; the declaration line may carry an inline remark after
// the code.
func ParseTrailingComment(linesRaw []string) ParameterComment {
	var c ParameterComment
	if len(linesRaw) == 0 {
		return c
	}

	declLine := linesRaw[len(linesRaw)-1]
	working := CleanCommentBlock(linesRaw[:len(linesRaw)-1])
	if inline := strings.TrimSpace(splitInlineRemark(declLine)); inline != "" {
		working = append(working, inline)
	}
	if len(working) == 0 {
		return c
	}

	// Parameters rarely carry NatSpec tags; when one slips in, only the
	// text after the last tag counts toward the summary.
	noTags := make([]string, len(working))
	for i, s := range working {
		pieces := anyTagPattern.Split(s, -1)
		noTags[i] = strings.TrimSpace(pieces[len(pieces)-1])
	}

	last := working[len(working)-1]
	hasInline := strings.Contains(declLine, last)
	switch {
	case hasInline && len(working) == 1:
		c.Description = last
		c.InlineComment = last
	case hasInline:
		c.Description = strings.Join(noTags[:len(noTags)-1], " ")
		c.InlineComment = noTags[len(noTags)-1]
	default:
		c.Description = strings.Join(noTags, " ")
	}
	c.FullComment = strings.Join(working, "\n")

	return c
}
