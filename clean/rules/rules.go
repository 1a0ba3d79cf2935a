// Package rules implements the deterministic name-normalization rule
// language used when the AI cleaner is unavailable. Rules are plain
// text, one statement per line:
//
//	strip match "\\([0-9]+\\)"     # drop parenthesized pack counts
//	strip prefix "* "
//	replace " X " with " × "
//	collapse spaces
//	trim
//
// A parsed set applies its rules in file order, so the transform is
// fully deterministic.
package rules

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[a-z]+`},
	})

	fileParser = participle.MustBuild[ruleFile](
		participle.Lexer(ruleLexer),
		participle.Elide("Whitespace", "Newline", "Comment"),
		participle.Unquote("String"),
	)
)

type ruleFile struct {
	Stmts []*stmt `parser:"@@*"`
}

type stmt struct {
	Pos      lexer.Position `parser:""`
	Strip    *stripStmt     `parser:"  @@"`
	Replace  *replaceStmt   `parser:"| @@"`
	Collapse bool           `parser:"| @'collapse' 'spaces'"`
	Trim     bool           `parser:"| @'trim'"`
}

type stripStmt struct {
	Kind    string `parser:"'strip' @('prefix' | 'suffix' | 'match')"`
	Pattern string `parser:"@String"`
}

type replaceStmt struct {
	From string `parser:"'replace' @String"`
	To   string `parser:"'with' @String"`
}

// Set is a compiled, ordered rule list.
type Set struct {
	rules []func(string) string
}

// Parse reads and compiles a rule file.
func Parse(r io.Reader) (*Set, error) {
	file, err := fileParser.Parse("rules", r)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return compile(file)
}

// ParseString compiles rules from a string.
func ParseString(src string) (*Set, error) {
	return Parse(strings.NewReader(src))
}

// MustParse compiles a rule source known at build time.
func MustParse(src string) *Set {
	set, err := ParseString(src)
	if err != nil {
		panic(err)
	}
	return set
}

func compile(file *ruleFile) (*Set, error) {
	set := &Set{}
	for _, s := range file.Stmts {
		switch {
		case s.Strip != nil:
			st := s.Strip
			switch st.Kind {
			case "prefix":
				p := st.Pattern
				set.rules = append(set.rules, func(in string) string { return strings.TrimPrefix(in, p) })
			case "suffix":
				p := st.Pattern
				set.rules = append(set.rules, func(in string) string { return strings.TrimSuffix(in, p) })
			case "match":
				re, err := regexp.Compile(st.Pattern)
				if err != nil {
					return nil, fmt.Errorf("rules: %s: bad pattern %q: %w", s.Pos, st.Pattern, err)
				}
				set.rules = append(set.rules, func(in string) string { return re.ReplaceAllString(in, "") })
			}
		case s.Replace != nil:
			from, to := s.Replace.From, s.Replace.To
			set.rules = append(set.rules, func(in string) string { return strings.ReplaceAll(in, from, to) })
		case s.Collapse:
			set.rules = append(set.rules, collapseSpaces)
		case s.Trim:
			set.rules = append(set.rules, strings.TrimSpace)
		}
	}
	return set, nil
}

var spaceRun = regexp.MustCompile(`\s{2,}`)

func collapseSpaces(in string) string {
	return spaceRun.ReplaceAllString(in, " ")
}

// Apply runs every rule in order.
func (s *Set) Apply(name string) string {
	for _, rule := range s.rules {
		name = rule(name)
	}
	return name
}

// Len reports the number of compiled rules.
func (s *Set) Len() int { return len(s.rules) }
