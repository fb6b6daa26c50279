package process

import (
	"maps"
	"slices"
	"strings"
)

// Env maps environment variable names to values. Keys are unique; a later
// assignment of the same key replaces the earlier one.
type Env map[string]string

// ParseLine splits a KEY=VALUE line at the first '='. Lines without an '='
// at offset one or later are rejected, so keys are never empty.
func ParseLine(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx < 1 {
		return "", "", false
	}

	return line[:idx], line[idx+1:], true
}

// EnvFromList converts os.Environ-style entries into an Env.
func EnvFromList(list []string) Env {
	env := make(Env, len(list))

	for _, entry := range list {
		if key, value, ok := ParseLine(entry); ok {
			env[key] = value
		}
	}

	return env
}

// Clone returns an independent copy. Cloning a nil Env yields an empty one.
func (e Env) Clone() Env {
	if e == nil {
		return Env{}
	}

	return maps.Clone(e)
}

// Get returns the value for key, or "" when absent.
func (e Env) Get(key string) string {
	return e[key]
}

// Merge returns a copy of e with every entry of overrides applied on top.
func (e Env) Merge(overrides Env) Env {
	out := e.Clone()
	maps.Copy(out, overrides)

	return out
}

// Without returns a copy of e with the named keys removed.
func (e Env) Without(keys ...string) Env {
	out := e.Clone()
	for _, key := range keys {
		delete(out, key)
	}

	return out
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// List renders the environment as sorted KEY=VALUE entries for exec.Cmd.Env.
func (e Env) List() []string {
	list := make([]string, 0, len(e))
	for _, key := range e.Keys() {
		list = append(list, key+"="+e[key])
	}

	return list
}
