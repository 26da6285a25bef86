package driver

import (
	"strings"
	"time"
)

// Default flag spellings understood by the runtime.
const (
	DefaultLoadFlag = "-l"
	DefaultInitFlag = "-q"
	DefaultEvalFlag = "-e"
)

// ExprPlaceholder marks where a probe template receives the test expression.
const ExprPlaceholder = "{expr}"

// Default probe templates. The storage probe prints a storage record for the
// evaluation of the wrapped expression; the timing probe prints elapsed
// microseconds.
const (
	DefaultStorageProbe = "(mu:%sdelta (:lambda () {expr}) :nil)"
	DefaultTimingProbe  = "(mu:%tdelta (:lambda () {expr}) :nil)"
)

// RuntimeInvocationConfig declares how to launch the runtime for a namespace.
//
// It replaces per-namespace branching with data: everything that differs
// between namespaces (preloaded files, init forms, extra flags) is a field.
type RuntimeInvocationConfig struct {
	// Executable is the runtime binary path (resolved via PATH if bare).
	Executable string `json:"executable"`

	// Preload lists files loaded before evaluation, each passed as LoadFlag+path.
	Preload []string `json:"preload,omitempty"`

	// Init lists forms evaluated quietly before evaluation, each passed as
	// InitFlag+form.
	Init []string `json:"init,omitempty"`

	// Flags are passed through verbatim after preloads and init forms.
	Flags []string `json:"flags,omitempty"`

	LoadFlag string `json:"load_flag,omitempty"`
	InitFlag string `json:"init_flag,omitempty"`
	EvalFlag string `json:"eval_flag,omitempty"`

	// Dir is the child's working directory. Empty means the current directory.
	Dir string `json:"dir,omitempty"`

	// Env holds extra KEY=value pairs appended to the inherited environment.
	Env []string `json:"env,omitempty"`

	// Timeout bounds each child. Zero waits indefinitely.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Args returns the argument vector for evaluating expr:
// preload flags, init flags, pass-through flags, then the eval flag.
func (c RuntimeInvocationConfig) Args(expr string) []string {
	args := make([]string, 0, len(c.Preload)+len(c.Init)+len(c.Flags)+1)
	for _, path := range c.Preload {
		args = append(args, or(c.LoadFlag, DefaultLoadFlag)+path)
	}
	for _, form := range c.Init {
		args = append(args, or(c.InitFlag, DefaultInitFlag)+form)
	}
	args = append(args, c.Flags...)
	args = append(args, or(c.EvalFlag, DefaultEvalFlag)+expr)
	return args
}

// Validate checks the config is launchable.
func (c RuntimeInvocationConfig) Validate() error {
	if strings.TrimSpace(c.Executable) == "" {
		return &InvocationError{Field: "executable", Message: "must not be empty"}
	}
	if c.Timeout < 0 {
		return &InvocationError{Field: "timeout", Message: "must not be negative"}
	}
	for _, kv := range c.Env {
		if !strings.Contains(kv, "=") {
			return &InvocationError{Field: "env", Message: "entry " + kv + " is not KEY=value"}
		}
	}
	return nil
}

// Probe is a template wrapping a test expression.
type Probe string

// Expand substitutes expr for every placeholder in the template.
func (p Probe) Expand(expr string) string {
	return strings.ReplaceAll(string(p), ExprPlaceholder, expr)
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
