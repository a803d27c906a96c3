package rewrite

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Rule maps a path pattern to a query template. Patterns are matched against
// the request path without its leading slash and are anchored at the start.
// Query templates reference capture groups as $matches[n].
type Rule struct {
	Pattern string `json:"pattern"`
	Query   string `json:"query"`
}

// Table is an ordered set of rules keyed by pattern.
type Table struct {
	rules    []Rule
	index    map[string]int
	compiled []*regexp.Regexp
}

// NewTable builds a table from rules, keeping the first rule for a repeated pattern.
func NewTable(rules ...Rule) *Table {
	t := &Table{index: make(map[string]int, len(rules))}
	for _, rule := range rules {
		t.Add(rule.Pattern, rule.Query)
	}
	return t
}

// Add appends a rule and reports true, or leaves the table untouched and
// reports false when pattern is already present.
func (t *Table) Add(pattern, query string) bool {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, exists := t.index[pattern]; exists {
		return false
	}
	t.index[pattern] = len(t.rules)
	t.rules = append(t.rules, Rule{Pattern: pattern, Query: query})
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		re = nil
	}
	t.compiled = append(t.compiled, re)
	return true
}

// Merge returns a new table holding every rule of t followed by the rules of
// other whose pattern t does not already have. Neither input is modified.
func (t *Table) Merge(other *Table) *Table {
	merged := t.Clone()
	if other == nil {
		return merged
	}
	for _, rule := range other.rules {
		merged.Add(rule.Pattern, rule.Query)
	}
	return merged
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable()
	}
	clone := &Table{
		rules:    append([]Rule(nil), t.rules...),
		index:    make(map[string]int, len(t.index)),
		compiled: append([]*regexp.Regexp(nil), t.compiled...),
	}
	for pattern, position := range t.index {
		clone.index[pattern] = position
	}
	return clone
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns a copy of the rules in order.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	return append([]Rule(nil), t.rules...)
}

// Query returns the template stored for pattern.
func (t *Table) Query(pattern string) (string, bool) {
	if t == nil {
		return "", false
	}
	position, ok := t.index[pattern]
	if !ok {
		return "", false
	}
	return t.rules[position].Query, true
}

// Match is the outcome of matching a path against the table.
type Match struct {
	Rule   Rule
	Query  string
	Values url.Values
}

// Match returns the first rule matching path, with its query template
// expanded. Rules whose pattern does not compile never match.
func (t *Table) Match(path string) (Match, bool) {
	if t == nil {
		return Match{}, false
	}
	request := strings.TrimPrefix(path, "/")
	for i, re := range t.compiled {
		if re == nil {
			continue
		}
		groups := re.FindStringSubmatch(request)
		if groups == nil {
			continue
		}
		query := Expand(t.rules[i].Query, groups)
		return Match{
			Rule:   t.rules[i],
			Query:  query,
			Values: ParseQuery(query),
		}, true
	}
	return Match{}, false
}

var matchRef = regexp.MustCompile(`\$matches\[(\d+)\]`)

// Expand replaces $matches[n] in template with groups[n]. Missing groups
// expand to an empty string.
func Expand(template string, groups []string) string {
	return matchRef.ReplaceAllStringFunc(template, func(ref string) string {
		n, err := strconv.Atoi(matchRef.FindStringSubmatch(ref)[1])
		if err != nil || n >= len(groups) {
			return ""
		}
		return groups[n]
	})
}

// ParseQuery returns the query variables of an expanded template such as
// "index.php?post_type=landing_page&name=my-page".
func ParseQuery(query string) url.Values {
	if _, after, found := strings.Cut(query, "?"); found {
		query = after
	}
	// Malformed pairs are dropped; ParseQuery still returns the valid ones.
	values, _ := url.ParseQuery(query)
	return values
}
