package tool

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// envPrefix is prepended to the uppercased binary name to form the
// per-tool override variable, e.g. RAY_BIN_FFMPEG.
const envPrefix = "RAY_BIN_"

// NotFoundError reports a binary that could not be resolved anywhere.
// Distinct from an unsupported input type, which is a skip.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("binary %q not found", e.Name)
}

// EnvNotFoundError reports an env override pointing at a path that does
// not exist. This is an operator configuration mistake and is not silently
// ignored in favor of the system search.
type EnvNotFoundError struct {
	Var  string
	Path string
}

func (e *EnvNotFoundError) Error() string {
	return fmt.Sprintf("binary %q (from %s) not found", e.Path, e.Var)
}

// Cache resolves binary names to paths and remembers the answers for the
// rest of the run. It is owned by the batch driver and passed by reference;
// there is no process-wide singleton. Not goroutine-safe: jobs run strictly
// sequentially.
type Cache struct {
	binaries map[string]string
	// Overrides maps binary names to configured paths, checked before the
	// environment. Populated from the config file.
	Overrides map[string]string
}

// NewCache returns an empty resolution cache.
func NewCache() *Cache {
	return &Cache{binaries: make(map[string]string)}
}

// Resolve returns the path for a binary name, consulting (in order) the
// in-run cache, configured overrides, the RAY_BIN_<NAME> environment
// variable, and finally the system search path.
func (c *Cache) Resolve(name string) (string, error) {
	if path, ok := c.binaries[name]; ok {
		return path, nil
	}

	path, err := c.probe(name)
	if err != nil {
		return "", err
	}
	c.binaries[name] = path
	return path, nil
}

func (c *Cache) probe(name string) (string, error) {
	if path, ok := c.Overrides[name]; ok && path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", &EnvNotFoundError{Var: "config override", Path: path}
		}
		return path, nil
	}

	envVar := envPrefix + strings.ToUpper(name)
	if path := os.Getenv(envVar); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", &EnvNotFoundError{Var: envVar, Path: path}
		}
		return path, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", &NotFoundError{Name: name}
	}
	return path, nil
}
