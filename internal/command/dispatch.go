package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ExitRequest is the terminal outcome of a dispatch that must not run a
// command: a flag syntax error or unrecognized sub-command (Code 1), or a
// help/version request (Code 0). Output is the text to print before exiting.
type ExitRequest struct {
	Code   int
	Output string
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Dispatch recursively parses argv against the command tree rooted at c.
//
// Each level builds a transient flag set from the node's own specs and parses
// up to the first positional token; that token selects the child to recurse
// into with the remaining arguments. An empty remainder makes the node
// terminal: override maps are folded root to leaf, later levels winning, and
// the populated Result is returned.
//
// The returned error, when non-nil, is always an *ExitRequest.
func (c *Command) Dispatch(argv []string, prog string) (*Result, error) {
	return c.dispatch(argv, newResult(), make(map[string]any), prog)
}

func (c *Command) dispatch(args []string, res *Result, overrides map[string]any, prog string) (*Result, error) {
	for key, value := range c.overrides {
		overrides[key] = value
	}

	state := &parseState{}
	fs := c.buildFlagSet(res, state)
	if err := c.applyDefaults(res); err != nil {
		return nil, &ExitRequest{Code: 1, Output: c.FormatUsage(prog) + "\n\n" + err.Error()}
	}

	err := fs.Parse(args)
	if state.help {
		return nil, &ExitRequest{Code: 0, Output: c.FormatHelp(prog)}
	}
	if state.version {
		return nil, &ExitRequest{Code: 0, Output: c.Version}
	}
	if err != nil {
		msg := err.Error()
		if errors.Is(err, pflag.ErrHelp) {
			// No help flag is declared on this node, so treat the request
			// like any other unknown flag.
			msg = "unknown flag: --help"
		}
		return nil, &ExitRequest{Code: 1, Output: c.FormatUsage(prog) + "\n\n" + msg}
	}

	rest := fs.Args()
	if len(rest) == 0 {
		for key, value := range overrides {
			res.values[key] = value
		}
		res.Command = c
		return res, nil
	}

	name := rest[0]
	child, ok := c.children[name]
	if !ok {
		output := c.FormatUsage(prog) + "\n\n" + "unrecognized command: " + name
		return nil, &ExitRequest{Code: 1, Output: output}
	}
	return child.dispatch(rest[1:], res, overrides, prog+" "+name)
}

type parseState struct {
	help    bool
	version bool
}

func (c *Command) buildFlagSet(res *Result, state *parseState) *pflag.FlagSet {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	// The first positional token and everything after it belong to the next
	// tree level, never to this node's flags.
	fs.SetInterspersed(false)

	for _, spec := range c.arguments {
		name, shorthand := spec.flagNames()
		value := &flagValue{spec: spec, res: res, state: state}
		flag := fs.VarPF(value, name, shorthand, spec.Help)
		if !spec.takesValue() {
			flag.NoOptDefVal = "true"
		}
	}
	return fs
}

func (c *Command) applyDefaults(res *Result) error {
	for _, spec := range c.arguments {
		if spec.Dest == "" {
			continue
		}
		if _, ok := res.values[spec.Dest]; ok {
			continue
		}
		switch {
		case spec.Default != nil:
			value := spec.Default
			if raw, isString := value.(string); isString && spec.Convert != nil {
				converted, err := spec.Convert(raw)
				if err != nil {
					return fmt.Errorf("invalid default for %s: %w", spec.displayName(), err)
				}
				value = converted
			}
			res.values[spec.Dest] = value
		case spec.Action == Count:
			res.values[spec.Dest] = 0
		case spec.Action == StoreTrue:
			res.values[spec.Dest] = false
		}
	}
	return nil
}

// flagNames splits the spec's aliases into a pflag long name and shorthand.
func (s *ArgumentSpec) flagNames() (name, shorthand string) {
	for _, alias := range s.Names {
		trimmed := strings.TrimLeft(alias, "-")
		if strings.HasPrefix(alias, "--") {
			if name == "" {
				name = trimmed
			}
		} else if len(trimmed) == 1 && shorthand == "" {
			shorthand = trimmed
		}
	}
	if name == "" {
		name = shorthand
	}
	return name, shorthand
}

func (s *ArgumentSpec) displayName() string {
	if len(s.Names) == 0 {
		return "(unnamed)"
	}
	return s.Names[len(s.Names)-1]
}

func (s *ArgumentSpec) takesValue() bool {
	switch s.Action {
	case Store, Append:
		return true
	default:
		return false
	}
}

func (s *ArgumentSpec) metavar() string {
	if s.Metavar != "" {
		return s.Metavar
	}
	return strings.ToUpper(s.Dest)
}

// flagValue adapts one ArgumentSpec to the pflag.Value interface. pflag calls
// Set once per occurrence, which is what Count and Append rely on.
type flagValue struct {
	spec  *ArgumentSpec
	res   *Result
	state *parseState
}

func (v *flagValue) Set(raw string) error {
	switch v.spec.Action {
	case Help:
		v.state.help = true
		return nil
	case Version:
		v.state.version = true
		return nil
	case StoreTrue:
		v.res.values[v.spec.Dest] = true
		return nil
	case StoreConst:
		v.res.values[v.spec.Dest] = v.spec.Const
		return nil
	case Count:
		current, _ := v.res.values[v.spec.Dest].(int)
		v.res.values[v.spec.Dest] = current + 1
		return nil
	}

	value := any(raw)
	if v.spec.Convert != nil {
		converted, err := v.spec.Convert(raw)
		if err != nil {
			return err
		}
		value = converted
	}
	if v.spec.Action == Append {
		list, _ := v.res.values[v.spec.Dest].([]any)
		v.res.values[v.spec.Dest] = append(list, value)
		return nil
	}
	v.res.values[v.spec.Dest] = value
	return nil
}

func (v *flagValue) String() string { return "" }

func (v *flagValue) Type() string {
	if v.spec.takesValue() {
		return "string"
	}
	return "bool"
}
