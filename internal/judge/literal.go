package judge

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// parseLiteral parses a Python-style value literal (None, True, numbers,
// quoted strings, lists, tuples, sets, dicts) into JSON-compatible Go
// values. It is a closed grammar over primitives and collections; names
// other than None/True/False are rejected, so no expression ever evaluates.
func parseLiteral(s string) (interface{}, error) {
	p := &literalParser{input: s}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing data at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *literalParser) value() (interface{}, error) {
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch {
	case c == '[':
		return p.sequence('[', ']')
	case c == '(':
		return p.sequence('(', ')')
	case c == '{':
		return p.braced()
	case c == '\'' || c == '"':
		return p.quoted(c)
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.name()
	}
}

func (p *literalParser) name() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
			continue
		}
		break
	}
	switch p.input[start:p.pos] {
	case "None", "null":
		return nil, nil
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	}
	return nil, fmt.Errorf("unknown name at offset %d", start)
}

func (p *literalParser) number() (interface{}, error) {
	start := p.pos
	if c, _ := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && isFloat {
			p.pos++
			continue
		}
		break
	}
	text := p.input[start:p.pos]
	if !isFloat {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", text)
	}
	return f, nil
}

func (p *literalParser) quoted(quote byte) (interface{}, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated escape")
			}
			switch p.input[p.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(p.input[p.pos])
			default:
				b.WriteByte('\\')
				b.WriteByte(p.input[p.pos])
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

// sequence parses [..] lists and (..) tuples, both into arrays.
func (p *literalParser) sequence(open, close byte) (interface{}, error) {
	p.pos++ // open
	items := []interface{}{}
	p.skipSpace()
	if c, ok := p.peek(); ok && c == close {
		p.pos++
		return items, nil
	}
	for {
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated sequence")
		}
		if c == ',' {
			p.pos++
			p.skipSpace()
			// trailing comma, e.g. single-element tuple
			if c2, ok2 := p.peek(); ok2 && c2 == close {
				p.pos++
				return items, nil
			}
			continue
		}
		if c == close {
			p.pos++
			return items, nil
		}
		return nil, fmt.Errorf("unexpected %q in sequence", c)
	}
}

// braced parses {..}: a dict when the first element is followed by a colon,
// otherwise a set (returned as an array, order preserved).
func (p *literalParser) braced() (interface{}, error) {
	p.pos++ // '{'
	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return map[string]interface{}{}, nil
	}

	first, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unterminated braces")
	}

	if c == ':' {
		dict := map[string]interface{}{}
		key := first
		for {
			p.pos++ // ':'
			p.skipSpace()
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			dict[literalKey(key)] = v
			p.skipSpace()
			c, ok = p.peek()
			if !ok {
				return nil, fmt.Errorf("unterminated dict")
			}
			if c == '}' {
				p.pos++
				return dict, nil
			}
			if c != ',' {
				return nil, fmt.Errorf("unexpected %q in dict", c)
			}
			p.pos++
			p.skipSpace()
			if c2, ok2 := p.peek(); ok2 && c2 == '}' {
				p.pos++
				return dict, nil
			}
			key, err = p.value()
			if err != nil {
				return nil, err
			}
			p.skipSpace()
			if c, ok = p.peek(); !ok || c != ':' {
				return nil, fmt.Errorf("expected ':' in dict")
			}
		}
	}

	// set literal
	items := []interface{}{first}
	for {
		if c == '}' {
			p.pos++
			return items, nil
		}
		if c != ',' {
			return nil, fmt.Errorf("unexpected %q in set", c)
		}
		p.pos++
		p.skipSpace()
		if c2, ok2 := p.peek(); ok2 && c2 == '}' {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if c, ok = p.peek(); !ok {
			return nil, fmt.Errorf("unterminated set")
		}
	}
}

// literalKey stringifies a dict key the way json.dumps does for non-string
// keys (numbers and booleans become their textual form).
func literalKey(k interface{}) string {
	switch v := k.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
