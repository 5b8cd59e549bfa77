package script

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileError reports a script file that failed the pre-invocation sanity
// check. A script that does not compile is never invoked.
type CompileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying compiler error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Env carries the three bindings every script receives: the client, the
// remaining positional arguments, and the flattened configuration.
type Env struct {
	Client *Client
	Args   []string
	Config map[string]interface{}
}

// bindings maps the environment to the identifiers scripts use.
func (e *Env) bindings() map[string]interface{} {
	return map[string]interface{}{
		"client": e.Client,
		"args":   e.Args,
		"config": e.Config,
	}
}

// sampleBindings is the typed environment used at compile time. Compilation
// against it is the sanity check: method calls on the client and accesses to
// args/config are type-checked before the script ever runs.
func sampleBindings() map[string]interface{} {
	return map[string]interface{}{
		"client": &Client{},
		"args":   []string{},
		"config": map[string]interface{}{},
	}
}

// Script is a compiled, invocable script file.
type Script struct {
	Name   string
	Path   string
	Source string

	program *vm.Program
}

// Compile reads and compiles a discovered script file.
func Compile(entry Entry) (*Script, error) {
	source, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", entry.Path, err)
	}

	program, err := expr.Compile(string(source), expr.Env(sampleBindings()))
	if err != nil {
		return nil, &CompileError{Path: entry.Path, Err: err}
	}

	return &Script{
		Name:    entry.Name,
		Path:    entry.Path,
		Source:  string(source),
		program: program,
	}, nil
}

// Run invokes the script with the given environment and returns whatever the
// expression evaluates to. API call failures inside the script propagate as
// the error return.
func (s *Script) Run(env *Env) (interface{}, error) {
	out, err := expr.Run(s.program, env.bindings())
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", s.Name, err)
	}

	return out, nil
}
