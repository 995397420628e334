package surface

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/metagov/dao-governance-surfaces/internal/solidity"
)

// CommentMismatchError reports a @param tag whose parameter name has no
// matching record on the documented object. It flags a drift between the
// comment and the code, and is surfaced per object without aborting the
// file.
type CommentMismatchError struct {
	Object    string
	Parameter string
}

func (e *CommentMismatchError) Error() string {
	return fmt.Sprintf("comment on %q documents parameter %q, which is not declared", e.Object, e.Parameter)
}

// objectCommentWindow computes the raw-line window scanned for an object's
// documentation: from the end of the previous declaration's span up to the
// line before this declaration. When spans overlap or arrive out of order,
// the window falls back to the previous declaration's start rather than
// inverting.
func objectCommentWindow(prev solidity.Span, span solidity.Span) (start, end int) {
	end = span.Start - 1
	start = prev.End
	if start > end {
		start = prev.Start
	}
	return start, end
}

// window slices source lines [start, end), clamping out-of-range bounds to
// an empty result. lines is 0-indexed while record line numbers are
// 1-indexed, so window(lines, a, b) covers source lines a+1 through b.
func window(lines []string, start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return lines[start:end]
}

// AssociateComments locates and parses the documentation comment for every
// object and parameter record, writing the results onto the records in
// place. The raw source lines must be those the syntax tree was parsed
// from. Comment/parameter mismatches are returned without interrupting the
// pass.
func AssociateComments(lines []string, s *Surface, logger hclog.Logger) []error {
	var mismatches []error

	// Object pass: the scan window for each declaration is bounded by the
	// previous declaration's span, starting from a sentinel that means
	// "start of file".
	prev := solidity.Span{}
	for i, obj := range s.Objects {
		start, end := objectCommentWindow(prev, obj.Span)
		comment := ParseDeclarationComment(window(lines, start, end))
		prev = obj.Span
		if comment.Empty() {
			continue
		}

		obj.Title = comment.Tags["title"]
		obj.Notice = comment.Tags["notice"]
		obj.Dev = comment.Tags["dev"]
		obj.Return = comment.Tags["return"]
		obj.Params = comment.ParamNames()
		obj.FullComment = comment.FullComment
		obj.Description = comment.Description

		for _, doc := range comment.Params {
			param := s.findParameter(i, doc.Name)
			if param == nil {
				err := &CommentMismatchError{Object: obj.ObjectName, Parameter: doc.Name}
				logger.Warn("comment documents an undeclared parameter", "object", obj.ObjectName, "parameter", doc.Name)
				mismatches = append(mismatches, err)
				continue
			}
			param.Description = doc.Text
		}
	}

	// Parameter pass: a separate cursor walks parameter declaration lines.
	// The window reaches back to the previous parameter's line, biased two
	// lines early to catch a comment sitting directly above without a blank
	// separator, and includes the declaration line itself for the inline
	// remark. Values already set by the object pass are never overwritten.
	cursor := 0
	for _, param := range s.Parameters {
		end := param.LineNumber
		start := cursor
		if end-2 < start {
			start = end - 2
		}
		comment := ParseTrailingComment(window(lines, start, end))
		cursor = end
		if comment.Empty() {
			continue
		}

		if param.FullComment == "" {
			param.FullComment = comment.FullComment
		}
		if param.Description == "" {
			param.Description = comment.Description
		}
		if param.InlineComment == "" {
			param.InlineComment = comment.InlineComment
		}
	}

	return mismatches
}

// SuppressDuplicateComments clears a parameter's comment fields when they
// duplicate its parent object's. A parent comment that documents parameters
// with @param tags already covers its children, so any child-level full
// comment is treated as redundant; the description check is independent of
// the full-comment check.
func SuppressDuplicateComments(s *Surface) {
	for _, param := range s.Parameters {
		parent := s.Parent(param)
		if param.FullComment == parent.FullComment || strings.Contains(parent.FullComment, "@param") {
			param.FullComment = ""
		}
		if param.Description == parent.Description {
			param.Description = ""
		}
	}
}
