package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/driver"
)

// Config is the complete harness configuration.
type Config struct {
	Runtime    RuntimeConfig              `json:"runtime" yaml:"runtime" toml:"runtime"`
	Namespaces map[string]NamespaceConfig `json:"namespaces,omitempty" yaml:"namespaces" toml:"namespaces"`
	Perf       PerfConfig                 `json:"perf" yaml:"perf" toml:"perf"`
	Thresholds aggregate.Thresholds       `json:"thresholds" yaml:"thresholds" toml:"thresholds"`
	Store      StoreConfig                `json:"store" yaml:"store" toml:"store"`
}

// RuntimeConfig describes the runtime launch shared by every namespace.
type RuntimeConfig struct {
	Executable string   `json:"executable" yaml:"executable" toml:"executable"`
	Flags      []string `json:"flags,omitempty" yaml:"flags" toml:"flags"`
	LoadFlag   string   `json:"load_flag,omitempty" yaml:"load_flag" toml:"load_flag"`
	InitFlag   string   `json:"init_flag,omitempty" yaml:"init_flag" toml:"init_flag"`
	EvalFlag   string   `json:"eval_flag,omitempty" yaml:"eval_flag" toml:"eval_flag"`
	Dir        string   `json:"dir,omitempty" yaml:"dir" toml:"dir"`
	Env        []string `json:"env,omitempty" yaml:"env" toml:"env"`
	Timeout    Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout"`
}

// NamespaceConfig holds what differs when launching for one namespace.
// A nil Flags inherits the runtime flags; an empty list clears them.
type NamespaceConfig struct {
	Preload []string `json:"preload,omitempty" yaml:"preload" toml:"preload"`
	Init    []string `json:"init,omitempty" yaml:"init" toml:"init"`
	Flags   []string `json:"flags,omitempty" yaml:"flags" toml:"flags"`
}

// PerfConfig configures profiling runs.
type PerfConfig struct {
	Preload      []string `json:"preload,omitempty" yaml:"preload" toml:"preload"`
	StorageProbe string   `json:"storage_probe,omitempty" yaml:"storage_probe" toml:"storage_probe"`
	TimingProbe  string   `json:"timing_probe,omitempty" yaml:"timing_probe" toml:"timing_probe"`
	Repeat       int      `json:"repeat,omitempty" yaml:"repeat" toml:"repeat"`
}

// StoreConfig locates the run store. An empty Path disables storing.
type StoreConfig struct {
	Path string `json:"path,omitempty" yaml:"path" toml:"path"`
}

// Default returns the configuration matching the stock runtime layout:
// ../dist/mu-shell -p -e<expr>, with the prelude namespace preloading and
// initializing the prelude.
func Default() Config {
	return Config{
		Runtime: RuntimeConfig{
			Executable: "../dist/mu-shell",
			Flags:      []string{"-p"},
		},
		Namespaces: map[string]NamespaceConfig{
			"prelude": {
				Preload: []string{"../dist/prelude.l"},
				Init:    []string{"(prelude:%init-ns)"},
			},
		},
		Perf: PerfConfig{
			Preload:      []string{"./perf.l"},
			StorageProbe: driver.DefaultStorageProbe,
			TimingProbe:  driver.DefaultTimingProbe,
			Repeat:       3,
		},
		Thresholds: aggregate.DefaultThresholds(),
	}
}

// Invocation resolves the runtime launch for namespace.
func (c Config) Invocation(namespace string) driver.RuntimeInvocationConfig {
	inv := driver.RuntimeInvocationConfig{
		Executable: c.Runtime.Executable,
		Flags:      c.Runtime.Flags,
		LoadFlag:   c.Runtime.LoadFlag,
		InitFlag:   c.Runtime.InitFlag,
		EvalFlag:   c.Runtime.EvalFlag,
		Dir:        c.Runtime.Dir,
		Env:        c.Runtime.Env,
		Timeout:    time.Duration(c.Runtime.Timeout),
	}
	if ns, ok := c.Namespaces[namespace]; ok {
		inv.Preload = ns.Preload
		inv.Init = ns.Init
		if ns.Flags != nil {
			inv.Flags = ns.Flags
		}
	}
	return inv
}

// PerfInvocation resolves the runtime launch for profiling namespace: the
// namespace launch with the perf preloads appended.
func (c Config) PerfInvocation(namespace string) driver.RuntimeInvocationConfig {
	inv := c.Invocation(namespace)
	preload := make([]string, 0, len(inv.Preload)+len(c.Perf.Preload))
	preload = append(preload, inv.Preload...)
	inv.Preload = append(preload, c.Perf.Preload...)
	return inv
}

// DriverOptions returns the driver options implied by the perf section.
func (c Config) DriverOptions() []driver.Option {
	return []driver.Option{driver.WithProbes(c.Perf.StorageProbe, c.Perf.TimingProbe)}
}

// FieldError reports an invalid configuration value.
type FieldError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

// Validate returns the first problem found, with its field path.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Runtime.Executable) == "" {
		return &FieldError{Path: "runtime.executable", Message: "must not be empty"}
	}
	if c.Runtime.Timeout < 0 {
		return &FieldError{Path: "runtime.timeout", Message: "must not be negative"}
	}
	for _, kv := range c.Runtime.Env {
		if !strings.Contains(kv, "=") {
			return &FieldError{Path: "runtime.env", Message: fmt.Sprintf("%q is not KEY=value", kv)}
		}
	}
	for name := range c.Namespaces {
		if strings.TrimSpace(name) == "" {
			return &FieldError{Path: "namespaces", Message: "namespace name must not be empty"}
		}
	}
	if c.Perf.Repeat < 1 {
		return &FieldError{Path: "perf.repeat", Message: "must be at least 1"}
	}
	if !strings.Contains(c.Perf.StorageProbe, driver.ExprPlaceholder) {
		return &FieldError{Path: "perf.storage_probe", Message: "must contain " + driver.ExprPlaceholder}
	}
	if !strings.Contains(c.Perf.TimingProbe, driver.ExprPlaceholder) {
		return &FieldError{Path: "perf.timing_probe", Message: "must contain " + driver.ExprPlaceholder}
	}
	if err := c.Thresholds.Validate(); err != nil {
		return &FieldError{Path: "thresholds", Message: err.Error()}
	}
	return nil
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
