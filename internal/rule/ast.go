package rule

import (
	"fmt"
	"strings"
)

// Node is the closed union of rule AST node kinds. The matcher and the
// formatter switch exhaustively over these types.
type Node interface {
	isNode()
}

// Word matches one literal token.
type Word struct {
	Text string
}

// Seq matches its items in order.
type Seq struct {
	Items []Node
}

// Choice matches any one of its alternatives.
type Choice struct {
	Alts []Node
}

// Optional matches its item zero or one times.
type Optional struct {
	Item Node
}

// Repeat matches its item zero or more times.
type Repeat struct {
	Item Node
}

// Repeat1 matches its item one or more times.
type Repeat1 struct {
	Item Node
}

// Paren groups a sub-rule; it matches exactly what its item matches.
type Paren struct {
	Item Node
}

// StartAnchor matches only at the first token.
type StartAnchor struct{}

// EndAnchor matches only after the last token.
type EndAnchor struct{}

// ListRef matches any alternative of the named list.
type ListRef struct {
	Name string
}

// CaptureRef matches the named capture's own rule.
type CaptureRef struct {
	Name string
}

func (*Word) isNode()        {}
func (*Seq) isNode()         {}
func (*Choice) isNode()      {}
func (*Optional) isNode()    {}
func (*Repeat) isNode()      {}
func (*Repeat1) isNode()     {}
func (*Paren) isNode()       {}
func (*StartAnchor) isNode() {}
func (*EndAnchor) isNode()   {}
func (*ListRef) isNode()     {}
func (*CaptureRef) isNode()  {}

// Format renders a rule back to its surface syntax.
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Word:
		b.WriteString(n.Text)
	case *Seq:
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			format(b, item)
		}
	case *Choice:
		for i, alt := range n.Alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			format(b, alt)
		}
	case *Optional:
		b.WriteByte('[')
		format(b, n.Item)
		b.WriteByte(']')
	case *Repeat:
		format(b, n.Item)
		b.WriteByte('*')
	case *Repeat1:
		format(b, n.Item)
		b.WriteByte('+')
	case *Paren:
		b.WriteByte('(')
		format(b, n.Item)
		b.WriteByte(')')
	case *StartAnchor:
		b.WriteByte('^')
	case *EndAnchor:
		b.WriteByte('$')
	case *ListRef:
		fmt.Fprintf(b, "{%s}", n.Name)
	case *CaptureRef:
		fmt.Fprintf(b, "<%s>", n.Name)
	default:
		panic(fmt.Sprintf("unhandled rule node %T", n))
	}
}
