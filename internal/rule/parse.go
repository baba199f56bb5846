package rule

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseError reports a malformed rule.
type ParseError struct {
	Source  string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid rule %q: %s", e.Source, e.Message)
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokPipe
	tokStar
	tokPlus
	tokCaret
	tokDollar
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokListRef
	tokCaptureRef
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func lex(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '|':
			tokens = append(tokens, token{tokPipe, "|"})
			i++
		case r == '*':
			tokens = append(tokens, token{tokStar, "*"})
			i++
		case r == '+':
			tokens = append(tokens, token{tokPlus, "+"})
			i++
		case r == '^':
			tokens = append(tokens, token{tokCaret, "^"})
			i++
		case r == '$':
			tokens = append(tokens, token{tokDollar, "$"})
			i++
		case r == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case r == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++
		case r == '[':
			tokens = append(tokens, token{tokLBracket, "["})
			i++
		case r == ']':
			tokens = append(tokens, token{tokRBracket, "]"})
			i++
		case r == '{' || r == '<':
			close, kind := '}', tokListRef
			if r == '<' {
				close, kind = '>', tokCaptureRef
			}
			j := i + 1
			for j < len(runes) && runes[j] != close {
				j++
			}
			if j == len(runes) {
				return nil, fmt.Errorf("missing closing %q", close)
			}
			name := strings.TrimSpace(string(runes[i+1 : j]))
			if name == "" {
				return nil, fmt.Errorf("empty reference %c%c", r, close)
			}
			tokens = append(tokens, token{kind, name})
			i = j + 1
		case r == '}' || r == '>':
			return nil, fmt.Errorf("unexpected %q", r)
		default:
			j := i
			for j < len(runes) && !strings.ContainsRune("|*+^$()[]{}<> \t\n", runes[j]) {
				j++
			}
			tokens = append(tokens, token{tokWord, string(runes[i:j])})
			i = j
		}
	}
	tokens = append(tokens, token{tokEOF, ""})
	return tokens, nil
}

type parser struct {
	src    string
	tokens []token
	pos    int
}

// Parse parses the surface syntax of a rule into its AST.
func Parse(src string) (Node, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, &ParseError{Source: src, Message: err.Error()}
	}
	p := &parser{src: src, tokens: tokens}
	node, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return node, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Source: p.src, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseChoice() (Node, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	alts := []Node{first}
	for p.peek().kind == tokPipe {
		p.next()
		alt, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return &Choice{Alts: alts}, nil
}

func (p *parser) parseSeq() (Node, error) {
	var items []Node
	for {
		t := p.peek()
		if t.kind == tokEOF || t.kind == tokPipe || t.kind == tokRParen || t.kind == tokRBracket {
			break
		}
		item, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	switch len(items) {
	case 0:
		return nil, p.errorf("empty rule")
	case 1:
		return items[0], nil
	default:
		return &Seq{Items: items}, nil
	}
}

func (p *parser) parseTerm() (Node, error) {
	item, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	// Postfix repetition binds tighter than sequencing.
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			item = &Repeat{Item: item}
		case tokPlus:
			p.next()
			item = &Repeat1{Item: item}
		default:
			return item, nil
		}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokWord:
		return &Word{Text: t.text}, nil
	case tokListRef:
		return &ListRef{Name: t.text}, nil
	case tokCaptureRef:
		return &CaptureRef{Name: t.text}, nil
	case tokCaret:
		return &StartAnchor{}, nil
	case tokDollar:
		return &EndAnchor{}, nil
	case tokLParen:
		inner, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, p.errorf("missing closing parenthesis")
		}
		return &Paren{Item: inner}, nil
	case tokLBracket:
		inner, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRBracket {
			return nil, p.errorf("missing closing bracket")
		}
		return &Optional{Item: inner}, nil
	default:
		return nil, p.errorf("unexpected %q", t.text)
	}
}
