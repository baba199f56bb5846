package script

import (
	"fmt"
	"strings"
)

// Desc is the closed union of description shapes. A nil Desc means "nothing
// to say" (sleeps, comments, undocumented actions).
type Desc interface {
	isDesc()
	// Lines renders the description as finished lines. It never fails.
	Lines() []string
}

// Value is a single-line fragment that may be combined inline with other
// fragments or interpolated into a template.
type Value struct {
	Text string
}

// Step is one finished line that cannot be interpolated.
type Step struct {
	Text string
}

// Steps is an ordered sequence of finished lines.
type Steps struct {
	Steps []Step
}

// Template is a Value-like fragment still containing named holes of the form
// <param>. Applying it substitutes each hole with an argument's text.
type Template struct {
	Text   string
	Params []string
}

func (*Value) isDesc()    {}
func (*Step) isDesc()     {}
func (*Steps) isDesc()    {}
func (*Template) isDesc() {}

func (v *Value) Lines() []string    { return []string{v.Text} }
func (s *Step) Lines() []string     { return []string{s.Text} }
func (t *Template) Lines() []string { return []string{t.Text} }

func (s *Steps) Lines() []string {
	lines := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		lines[i] = step.Text
	}
	return lines
}

// InvalidInterpolation reports an attempt to use a multi-line description
// where a single-line fragment is required.
type InvalidInterpolation struct {
	Argument Desc
	Template *Template
}

func (e *InvalidInterpolation) Error() string {
	msg := fmt.Sprintf("cannot interpolate %s", describeShape(e.Argument))
	if e.Template != nil {
		msg += fmt.Sprintf(" into template %q", e.Template.Text)
	}
	return msg
}

func describeShape(d Desc) string {
	switch d := d.(type) {
	case nil:
		return "nothing"
	case *Value:
		return fmt.Sprintf("value %q", d.Text)
	case *Step:
		return fmt.Sprintf("step %q", d.Text)
	case *Steps:
		return fmt.Sprintf("%d steps", len(d.Steps))
	case *Template:
		return fmt.Sprintf("template %q", d.Text)
	default:
		return fmt.Sprintf("%T", d)
	}
}

// Inline renders a description as a single-line fragment. Rendering Steps
// inline is invalid: the caller must fall back to another rendering.
func Inline(d Desc) (string, error) {
	switch d := d.(type) {
	case nil:
		return "", nil
	case *Value:
		return d.Text, nil
	case *Step:
		return d.Text, nil
	case *Template:
		return d.Text, nil
	default:
		return "", &InvalidInterpolation{Argument: d}
	}
}

// AsSteps lifts any description to a sequence of steps.
func AsSteps(d Desc) *Steps {
	switch d := d.(type) {
	case nil:
		return &Steps{}
	case *Value:
		return &Steps{Steps: []Step{{Text: d.Text}}}
	case *Step:
		return &Steps{Steps: []Step{*d}}
	case *Steps:
		return d
	case *Template:
		return &Steps{Steps: []Step{{Text: d.Text}}}
	default:
		panic(fmt.Sprintf("unhandled description %T", d))
	}
}

// AndThen combines two descriptions: two Values join into one fragment,
// anything else concatenates as steps. Nil operands pass the other through.
func AndThen(d1, d2 Desc) Desc {
	if d1 == nil {
		return d2
	}
	if d2 == nil {
		return d1
	}
	v1, ok1 := d1.(*Value)
	v2, ok2 := d2.(*Value)
	if ok1 && ok2 {
		return &Value{Text: v1.Text + " " + v2.Text}
	}
	return &Steps{Steps: append(append([]Step{}, AsSteps(d1).Steps...), AsSteps(d2).Steps...)}
}

// Concat folds descriptions left to right with AndThen.
func Concat(descs ...Desc) Desc {
	var ret Desc
	for _, d := range descs {
		ret = AndThen(ret, d)
	}
	return ret
}

// Apply substitutes the template's holes with the given argument fragments,
// in order, and yields the finished steps. A non-Value argument cannot be
// interpolated.
func (t *Template) Apply(args []Desc) (Desc, error) {
	text := t.Text
	for i, name := range t.Params {
		if i >= len(args) {
			break
		}
		value, ok := args[i].(*Value)
		if !ok {
			return nil, &InvalidInterpolation{Argument: args[i], Template: t}
		}
		text = strings.ReplaceAll(text, "<"+name+">", value.Text)
	}
	lines := strings.Split(text, "\n")
	steps := make([]Step, 0, len(lines))
	for _, line := range lines {
		steps = append(steps, Step{Text: line})
	}
	if len(steps) == 1 {
		return &Step{Text: steps[0].Text}, nil
	}
	return &Steps{Steps: steps}, nil
}
