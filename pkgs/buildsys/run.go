package buildsys

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Runner starts an external tool in dir and waits for it. An empty dir
// means the current directory. A nil error means the process exited with
// code zero.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, dir, name string, args ...string) error

func (f RunnerFunc) Run(ctx context.Context, dir, name string, args ...string) error {
	return f(ctx, dir, name, args...)
}

// ExecRunner runs tools with os/exec. Standard error is merged into Output,
// which defaults to os.Stdout. Env entries override the inherited process
// environment.
type ExecRunner struct {
	Output io.Writer
	Env    map[string]string
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out := r.Output
	if out == nil {
		out = os.Stdout
	}
	cmd.Stdout = out
	cmd.Stderr = out
	if len(r.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), r.Env)
	}
	return cmd.Run()
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
