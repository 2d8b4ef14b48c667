package command

import (
	"strings"
)

const helpIndent = "  "

// FormatUsage renders a single usage line from the node's own flags.
func (c *Command) FormatUsage(prog string) string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(prog)
	for _, spec := range c.arguments {
		b.WriteString(" [")
		b.WriteString(spec.usageToken())
		b.WriteString("]")
	}
	if len(c.childNames) > 0 {
		b.WriteString(" [command] ...")
	}
	return b.String()
}

// FormatHelp renders the node's full help: usage line, summary, an OPTIONS
// block for its own flags, and a COMMANDS block collected from the subtree.
// A descendant contributes a block only when it carries a summary or flags of
// its own; bare namespace nodes are traversed but not listed.
func (c *Command) FormatHelp(prog string) string {
	var blocks []string
	blocks = append(blocks, c.FormatUsage(prog))

	if c.Help != "" {
		blocks = append(blocks, c.Help)
	}
	if len(c.arguments) > 0 {
		blocks = append(blocks, "OPTIONS:\n"+c.formatOptions(helpIndent))
	}

	var sub []string
	for _, name := range c.childNames {
		c.children[name].subHelp(prog+" "+name, &sub)
	}
	if len(sub) > 0 {
		blocks = append(blocks, "COMMANDS:\n"+strings.Join(sub, "\n\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// subHelp appends this node's help block, if it qualifies, then recurses into
// children in registration order. path is the dotted program name from the
// root down to this node.
func (c *Command) subHelp(path string, out *[]string) {
	if c.Help != "" || len(c.arguments) > 0 {
		var lines []string
		lines = append(lines, helpIndent+c.FormatUsage(path))
		if c.Help != "" {
			lines = append(lines, helpIndent+helpIndent+c.Help)
		}
		if len(c.arguments) > 0 {
			lines = append(lines, c.formatOptions(helpIndent+helpIndent))
		}
		*out = append(*out, strings.Join(lines, "\n"))
	}
	for _, name := range c.childNames {
		c.children[name].subHelp(path+" "+name, out)
	}
}

func (c *Command) formatOptions(indent string) string {
	type row struct {
		left, help string
	}
	rows := make([]row, 0, len(c.arguments))
	width := 0
	for _, spec := range c.arguments {
		left := strings.Join(spec.Names, ", ")
		if spec.takesValue() {
			left += " " + spec.metavar()
		}
		if len(left) > width {
			width = len(left)
		}
		rows = append(rows, row{left: left, help: spec.Help})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		line := indent + r.left
		if r.help != "" {
			line += strings.Repeat(" ", width-len(r.left)+2) + r.help
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// usageToken renders one flag's usage fragment, e.g. "-v" or "--config FILES".
func (s *ArgumentSpec) usageToken() string {
	name := s.Names[0]
	if s.takesValue() {
		return name + " " + s.metavar()
	}
	return name
}
