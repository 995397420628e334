// Package export writes extracted surfaces to CSV tables, one for objects
// and one for parameters, with provenance columns tying every row back to
// the repository and file it came from.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/metagov/dao-governance-surfaces/internal/surface"
)

// Provenance identifies where a row was extracted from.
type Provenance struct {
	FileURL       string
	Project       string
	RepoVersion   string
	RepoURL       string
	RepoUpdatedAt string
}

// ObjectRow is one object record plus its keyword coding and provenance.
type ObjectRow struct {
	*surface.ObjectRecord
	Categories []string
	Topics     []string
	Provenance
}

// ParameterRow is one parameter record plus provenance.
type ParameterRow struct {
	*surface.ParameterRecord
	Provenance
}

var objectHeader = []string{
	"id", "contract", "object_type", "object_name",
	"line_start", "line_end", "visibility",
	"inheritance", "modifiers", "values",
	"title", "notice", "dev", "param", "return",
	"description", "full_comment",
	"coding_categories", "coding_topics",
	"url", "project", "repo_version", "repo_url", "repo_updated_at",
}

var parameterHeader = []string{
	"id", "parameter_name", "object_name", "contract",
	"line_number", "visibility", "parameter_type", "type_category",
	"initial_value",
	"description", "inline_comment", "full_comment",
	"url", "project", "repo_version", "repo_url", "repo_updated_at",
}

func (r *ObjectRow) fields() []string {
	return []string{
		r.ID, r.Contract, r.ObjectType, r.ObjectName,
		strconv.Itoa(r.Span.Start), strconv.Itoa(r.Span.End), r.Visibility,
		joinList(r.Inheritance), joinList(r.Modifiers), joinList(r.EnumValues),
		r.Title, r.Notice, r.Dev, joinList(r.Params), r.Return,
		r.Description, r.FullComment,
		joinList(r.Categories), joinList(r.Topics),
		r.FileURL, r.Project, r.RepoVersion, r.RepoURL, r.RepoUpdatedAt,
	}
}

func (r *ParameterRow) fields() []string {
	return []string{
		r.ID, r.ParameterName, r.ObjectName, r.Contract,
		strconv.Itoa(r.LineNumber), r.Visibility, r.ParameterType, r.TypeCategory,
		r.InitialValue,
		r.Description, r.InlineComment, r.FullComment,
		r.FileURL, r.Project, r.RepoVersion, r.RepoURL, r.RepoUpdatedAt,
	}
}

// joinList flattens a list column into a single CSV cell.
func joinList(values []string) string {
	return strings.Join(values, ", ")
}

// WriteObjectsCSV writes the objects table to path.
func WriteObjectsCSV(path string, rows []ObjectRow) error {
	records := make([][]string, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].fields())
	}
	return writeCSV(path, objectHeader, records)
}

// WriteParametersCSV writes the parameters table to path.
func WriteParametersCSV(path string, rows []ParameterRow) error {
	records := make([][]string, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].fields())
	}
	return writeCSV(path, parameterHeader, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV rows to %q: %w", path, err)
	}
	return nil
}
