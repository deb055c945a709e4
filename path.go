package relational

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Path parses a path expression into a relation:
//
//	comment.post[5]                           comments of post 5
//	comment.post(author)                      comments with their post and its author
//	category(id=8).category                   category 8 with its parent category
//	comment.post.post_category.category[2]    comments of posts in category 2
//
// A step is a table name, optionally followed by arguments in
// parentheses and a key in brackets. An argument is either col=value, a
// predicate on the step table, or a path joined as a child of the step.
// Values are integers, quoted strings, true, false or null; any other
// bare word is a string.
func (m *Mapper) Path(expr string) (*Relation, error) {
	p := &pathParser{m: m, expr: expr}
	r, err := p.path()
	if err != nil {
		return nil, err
	}
	if p.skip(); p.pos < len(p.expr) {
		return nil, p.errorf("unexpected %q", p.expr[p.pos])
	}
	return r, nil
}

type pathParser struct {
	m    *Mapper
	expr string
	pos  int
}

func (p *pathParser) errorf(format string, args ...any) error {
	return &PathError{Expr: p.expr, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *pathParser) skip() {
	for p.pos < len(p.expr) && p.expr[p.pos] == ' ' {
		p.pos++
	}
}

func (p *pathParser) peek() byte {
	p.skip()
	if p.pos < len(p.expr) {
		return p.expr[p.pos]
	}
	return 0
}

// path parses steps joined by dots into a chain from a new root.
func (p *pathParser) path() (*Relation, error) {
	var r *Relation
	for {
		name := p.ident()
		if name == "" {
			return nil, p.errorf("table name expected")
		}
		var args []any
		if p.peek() == '(' {
			p.pos++
			var err error
			if args, err = p.args(); err != nil {
				return nil, err
			}
		}
		if r == nil {
			r = p.m.Table(name, args...)
		} else {
			r = r.Join(name, args...)
		}
		if p.peek() == '[' {
			p.pos++
			key, err := p.value()
			if err != nil {
				return nil, err
			}
			if p.peek() != ']' {
				return nil, p.errorf("] expected")
			}
			p.pos++
			r = r.Key(key)
		}
		if p.peek() != '.' {
			return r, nil
		}
		p.pos++
	}
}

func (p *pathParser) args() ([]any, error) {
	var args []any
	if p.peek() == ')' {
		p.pos++
		return args, nil
	}
	for {
		start := p.pos
		name := p.ident()
		if name == "" {
			return nil, p.errorf("column or table name expected")
		}
		if p.peek() == '=' {
			p.pos++
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			args = append(args, Cond{name: v})
		} else {
			p.pos = start
			g, err := p.path()
			if err != nil {
				return nil, err
			}
			args = append(args, g)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, p.errorf(", or ) expected")
		}
	}
}

func (p *pathParser) ident() string {
	p.skip()
	start := p.pos
	for p.pos < len(p.expr) {
		c := rune(p.expr[p.pos])
		if c != '_' && !unicode.IsLetter(c) && !(p.pos > start && unicode.IsDigit(c)) {
			break
		}
		p.pos++
	}
	return p.expr[start:p.pos]
}

func (p *pathParser) value() (any, error) {
	p.skip()
	if p.pos >= len(p.expr) {
		return nil, p.errorf("value expected")
	}
	if c := p.expr[p.pos]; c == '"' || c == '\'' {
		end := p.pos + 1
		for end < len(p.expr) && p.expr[end] != c {
			if p.expr[end] == '\\' {
				end++
			}
			end++
		}
		if end >= len(p.expr) {
			return nil, p.errorf("unterminated string")
		}
		lit := p.expr[p.pos : end+1]
		if c == '\'' {
			lit = `"` + strings.ReplaceAll(lit[1:len(lit)-1], `"`, `\"`) + `"`
		}
		s, err := strconv.Unquote(lit)
		if err != nil {
			return nil, p.errorf("invalid string %s", p.expr[p.pos:end+1])
		}
		p.pos = end + 1
		return s, nil
	}
	start := p.pos
	for p.pos < len(p.expr) && !strings.ContainsRune(",)] ", rune(p.expr[p.pos])) {
		p.pos++
	}
	word := p.expr[start:p.pos]
	if word == "" {
		return nil, p.errorf("value expected")
	}
	switch word {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return f, nil
	}
	return word, nil
}
