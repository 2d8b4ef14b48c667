// Package command implements the cadenza command tree: declarative flag
// specs, nested sub-commands with per-node result overrides, recursive
// dispatch, and usage/help rendering.
//
// Each node parses only its own flags; the unconsumed tail of the argument
// vector selects a child to recurse into. Parse failures, help requests, and
// unrecognized sub-commands surface as ExitRequest values so the entry point
// owns all printing and process exits.
package command

import (
	"context"
)

// Action describes what parsing a flag does to the result.
type Action int

const (
	// Store writes the (optionally converted) flag value to Dest.
	Store Action = iota
	// StoreTrue writes true to Dest when the flag is present.
	StoreTrue
	// StoreConst writes Const to Dest when the flag is present.
	StoreConst
	// Count increments the integer at Dest once per occurrence.
	Count
	// Append accumulates converted values into a slice at Dest.
	Append
	// Help aborts dispatch with the node's full help text and exit code 0.
	Help
	// Version aborts dispatch with the version line and exit code 0.
	Version
)

// Converter turns a raw flag argument into a typed value. A returned error
// fails parsing with a message naming the offending input.
type Converter func(raw string) (any, error)

// ArgumentSpec declares a single flag on a command node.
type ArgumentSpec struct {
	// Names holds the flag aliases as written, e.g. "-v", "--verbose".
	// At least one is required.
	Names []string
	// Action defaults to Store.
	Action Action
	// Dest is the result key the flag writes. Unused for Help and Version.
	Dest string
	// Convert, when set, is applied to every raw value (and to a string
	// Default) before storing.
	Convert Converter
	// Default seeds Dest before parsing when the key is not already set.
	Default any
	// Const is the value written by StoreConst.
	Const any
	// Metavar names the flag's value in usage text. Defaults to the
	// upper-cased Dest.
	Metavar string
	// Help is the flag's help text.
	Help string
}

// RunFunc is the behavior of a resolved terminal command. The returned code
// becomes the process exit status.
type RunFunc func(ctx context.Context, res *Result) int

// Command is one node of the command tree. It owns its flags, its children,
// and a set of result overrides applied after parsing. Nodes are built once
// at startup and are read-only during dispatch.
type Command struct {
	// Help is the node's summary shown in help output. A child with no
	// summary and no flags of its own contributes no block to its parent's
	// COMMANDS listing.
	Help string
	// Version is the line printed by a Version action. Only meaningful on
	// nodes that declare one.
	Version string
	// Run is invoked by the entry point once dispatch resolves to this node.
	Run RunFunc

	arguments  []*ArgumentSpec
	childNames []string
	children   map[string]*Command
	overrides  map[string]any
}

// New returns an empty command node.
func New() *Command {
	return &Command{children: make(map[string]*Command)}
}

// AddArgument appends a flag spec to the node. Flags are local to the node
// and are not inherited by children. Two specs sharing a Dest silently
// follow last-parsed-wins semantics.
func (c *Command) AddArgument(spec *ArgumentSpec) {
	c.arguments = append(c.arguments, spec)
}

// AddChild registers a sub-command. Re-registering a name replaces the node
// but keeps its original position in help listings.
func (c *Command) AddChild(name string, child *Command) {
	if _, exists := c.children[name]; !exists {
		c.childNames = append(c.childNames, name)
	}
	c.children[name] = child
}

// Set merges overrides into the node's override table. Overrides are forced
// onto the parsed result after flag parsing, later calls winning on the same
// key.
func (c *Command) Set(overrides map[string]any) {
	if c.overrides == nil {
		c.overrides = make(map[string]any, len(overrides))
	}
	for key, value := range overrides {
		c.overrides[key] = value
	}
}

// Child returns the registered child with the given name, if any.
func (c *Command) Child(name string) (*Command, bool) {
	child, ok := c.children[name]
	return child, ok
}

// Result is the outcome of a successful dispatch: the parsed destination
// values and the terminal node that resolved the parse. It is immutable once
// Dispatch returns.
type Result struct {
	// Command is the terminal node.
	Command *Command

	values map[string]any
}

func newResult() *Result {
	return &Result{values: make(map[string]any)}
}

// Value returns the raw value stored at dest.
func (r *Result) Value(dest string) (any, bool) {
	v, ok := r.values[dest]
	return v, ok
}

// Bool returns the boolean at dest, or false.
func (r *Result) Bool(dest string) bool {
	v, _ := r.values[dest].(bool)
	return v
}

// Int returns the integer at dest, or 0.
func (r *Result) Int(dest string) int {
	v, _ := r.values[dest].(int)
	return v
}

// String returns the string at dest, or "".
func (r *Result) String(dest string) string {
	v, _ := r.values[dest].(string)
	return v
}

// Strings returns the string slice at dest, or nil.
func (r *Result) Strings(dest string) []string {
	v, _ := r.values[dest].([]string)
	return v
}

// Slice returns the accumulated Append values at dest, or nil.
func (r *Result) Slice(dest string) []any {
	v, _ := r.values[dest].([]any)
	return v
}
