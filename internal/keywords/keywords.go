// Package keywords tags extracted objects with topical categories by
// matching configured keyword and topic lists against names and
// descriptions.
package keywords

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/metagov/dao-governance-surfaces/internal/surface"
)

// Category is one coding category: Keywords mark an object as belonging to
// the category, Topics refine what the object does within it.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Topics   []string `yaml:"topics"`
}

// Coding is an ordered set of categories. Order is preserved from the
// config file so results are deterministic.
type Coding struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCoding returns the built-in governance coding scheme, used when no
// keyword config file is supplied.
func DefaultCoding() *Coding {
	return &Coding{Categories: []Category{
		{
			Name:     "proposal",
			Keywords: []string{"Proposal", "Propose"},
			Topics:   []string{"create", "modify", "execute", "extend", "cancel"},
		},
		{
			Name:     "membership",
			Keywords: []string{"Member", "Role"},
			Topics:   []string{"permission", "responsibility", "right", "allow", "require", "forbid", "authorize"},
		},
		{
			Name:     "voting",
			Keywords: []string{"Vote", "Voting", "Ballot"},
			Topics:   []string{"cast", "delegate", "change", "tally", "compute", "referendum"},
		},
		{
			Name:     "dispute_resolution",
			Keywords: []string{"Dispute", "Adjudication", "Arbitrator"},
			Topics:   []string{"juror", "jury", "evidence", "ruling", "appeal", "create", "compute", "execute", "reward", "penalty", "sortition"},
		},
		{
			Name:     "reputation",
			Keywords: []string{"Reputation"},
			Topics:   []string{"reward", "penalty", "penalize"},
		},
		{
			Name:     "election",
			Keywords: []string{"Elect", "Candidate"},
		},
	}}
}

// Load reads a coding scheme from a YAML file.
func Load(path string) (*Coding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword config: %w", err)
	}
	var coding Coding
	if err := yaml.Unmarshal(data, &coding); err != nil {
		return nil, fmt.Errorf("failed to decode keyword config %q: %w", path, err)
	}
	if len(coding.Categories) == 0 {
		return nil, fmt.Errorf("keyword config %q defines no categories", path)
	}
	return &coding, nil
}

func (c *Coding) category(name string) *Category {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i]
		}
	}
	return nil
}

// matchTerm reports whether a term matches the string. The plain form is a
// case-insensitive substring check. The camelCase form, used for identifier
// names, is a case-sensitive substring check plus an underscore-tolerant
// lowercase prefix check, so that `voteCount` matches "Vote" while `invoke`
// does not.
func matchTerm(s, term string, camelCase bool) bool {
	if camelCase {
		return strings.Contains(s, term) ||
			strings.HasPrefix(strings.ToLower(strings.Trim(s, "_")), strings.ToLower(term))
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

// MatchCategories returns the names of every category with a keyword
// matching s, in coding order.
func (c *Coding) MatchCategories(s string, camelCase bool) []string {
	if s == "" {
		return nil
	}
	var names []string
	for _, cat := range c.Categories {
		for _, kw := range cat.Keywords {
			if matchTerm(s, kw, camelCase) {
				names = append(names, cat.Name)
				break
			}
		}
	}
	return names
}

// MatchTopics returns the topics of the named category that match s.
func (c *Coding) MatchTopics(s, categoryName string, camelCase bool) []string {
	cat := c.category(categoryName)
	if cat == nil || s == "" {
		return nil
	}
	var topics []string
	for _, topic := range cat.Topics {
		if topic == "" {
			continue
		}
		if matchTerm(s, topic, camelCase) {
			topics = append(topics, topic)
		}
	}
	return topics
}

// CodeObject returns the categories found in an object's name, its
// description, and its parameters' names and descriptions, deduplicated in
// first-match order.
func (c *Coding) CodeObject(obj *surface.ObjectRecord, params []*surface.ParameterRecord) []string {
	var found []string
	found = append(found, c.MatchCategories(obj.ObjectName, true)...)
	found = append(found, c.MatchCategories(obj.Description, false)...)
	for _, p := range params {
		found = append(found, c.MatchCategories(p.ParameterName, true)...)
		found = append(found, c.MatchCategories(p.Description, false)...)
	}
	return dedup(found)
}

// CodeTopics returns the topics found for each of the object's categories,
// scanning the same fields as CodeObject.
func (c *Coding) CodeTopics(obj *surface.ObjectRecord, categories []string, params []*surface.ParameterRecord) []string {
	var found []string
	for _, cat := range categories {
		found = append(found, c.MatchTopics(obj.ObjectName, cat, true)...)
		found = append(found, c.MatchTopics(obj.Description, cat, false)...)
		for _, p := range params {
			found = append(found, c.MatchTopics(p.ParameterName, cat, true)...)
			found = append(found, c.MatchTopics(p.Description, cat, false)...)
		}
	}
	return dedup(found)
}

func dedup(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
