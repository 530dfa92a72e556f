package corosync

import (
	"context"
	"strings"

	ast "github.com/honeybbq/corosyncconf/pkg/ast/corosync"
	"github.com/honeybbq/corosyncconf/pkg/cserrors"
)

// Parser converts corosync.conf text into a section tree.
//
// The grammar is line based: `name: value` is an attribute, `name {` opens
// a section, `}` closes the innermost open section, blank lines and lines
// starting with `#` are ignored. Nesting depth is unrestricted; semantic
// structure (which sections mean what) is the facade's business.
type Parser struct{}

// NewParser 构造 Parser。
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements renderer.Parser. On failure no partial tree is returned
// and the error carries one of three distinct kinds: KindMissingClosingBrace
// when input ends inside a section, KindUnexpectedClosingBrace for a stray
// `}`, KindParse for any other malformed line.
func (p *Parser) Parse(ctx context.Context, text string) (*ast.Section, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root := ast.NewRoot()
	current := root

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue

		case line == "}":
			if current.IsRoot() {
				return nil, cserrors.Newf(
					cserrors.KindUnexpectedClosingBrace,
					"unexpected closing brace",
				)
			}
			current = current.Parent()

		case strings.HasSuffix(line, "{"):
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			if name == "" {
				return nil, cserrors.Newf(cserrors.KindParse, "unnamed section: %q", line)
			}
			section := ast.NewSection(name)
			current.AddSection(section)
			current = section

		case strings.Contains(line, ":"):
			name, value, _ := strings.Cut(line, ":")
			current.AddAttribute(strings.TrimSpace(name), strings.TrimSpace(value))

		default:
			return nil, cserrors.Newf(cserrors.KindParse, "malformed line: %q", line)
		}
	}

	if !current.IsRoot() {
		return nil, cserrors.Newf(cserrors.KindMissingClosingBrace, "missing closing brace")
	}
	return root, nil
}
