// Package config reads settings of the overload generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sirkon/go-union/internal/collect"
	"github.com/sirkon/go-union/internal/generator"
	"github.com/sirkon/go-union/internal/render"
)

// DefaultFile is looked up in the working directory when no file is given explicitly
const DefaultFile = ".go-union.toml"

// Config generator settings
type Config struct {
	UnionPackage string `toml:"union_package"`
	Directive    string `toml:"directive"`
	FileSuffix   string `toml:"file_suffix"`
	Workers      int    `toml:"workers"`
	Rounds       int    `toml:"rounds"`
	Prune        bool   `toml:"prune"`
}

// Default returns settings used when nothing is configured
func Default() Config {
	return Config{
		UnionPackage: collect.DefaultUnionPackage,
		Directive:    collect.DefaultDirective,
		FileSuffix:   render.DefaultFileSuffix,
		Rounds:       2,
	}
}

// Load reads settings from path over defaults. Empty path means DefaultFile, which is allowed to be missing.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings are usable
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.UnionPackage) == "":
		return errors.New("union_package must not be empty")
	case strings.TrimSpace(c.Directive) == "" || strings.ContainsAny(c.Directive, " \t"):
		return fmt.Errorf("invalid directive %q", c.Directive)
	case c.FileSuffix == "" || strings.ContainsAny(c.FileSuffix, `/\ `):
		return fmt.Errorf("invalid file_suffix %q", c.FileSuffix)
	case constrained(c.FileSuffix):
		return fmt.Errorf("invalid file_suffix %q: the go tool would treat generated files as tests or platform specific", c.FileSuffix)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	case c.Rounds < 1:
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	return nil
}

// Generator converts settings into the generator configuration
func (c Config) Generator() generator.Config {
	return generator.Config{
		UnionPackage: c.UnionPackage,
		Directive:    c.Directive,
		FileSuffix:   c.FileSuffix,
		Workers:      c.Workers,
		Rounds:       c.Rounds,
		Prune:        c.Prune,
	}
}

// constrained checks if the last element of suffix is _test or a build constraint the go tool derives
// from file names.
func constrained(suffix string) bool {
	i := strings.LastIndex(suffix, "_")
	if i < 0 {
		return false
	}
	last := suffix[i+1:]
	if last == "test" {
		return true
	}
	_, goos := knownOS[last]
	_, goarch := knownArch[last]
	return goos || goarch
}

// lists of go/build
var (
	knownOS = set(
		"aix", "android", "darwin", "dragonfly", "freebsd", "hurd", "illumos", "ios", "js", "linux",
		"nacl", "netbsd", "openbsd", "plan9", "solaris", "wasip1", "windows", "zos",
	)
	knownArch = set(
		"386", "amd64", "amd64p32", "arm", "armbe", "arm64", "arm64be", "loong64", "mips", "mipsle",
		"mips64", "mips64le", "mips64p32", "mips64p32le", "ppc", "ppc64", "ppc64le", "riscv", "riscv64",
		"s390", "s390x", "sparc", "sparc64", "wasm",
	)
)

func set(items ...string) map[string]struct{} {
	res := make(map[string]struct{}, len(items))
	for _, item := range items {
		res[item] = struct{}{}
	}
	return res
}
