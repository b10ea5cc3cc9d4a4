package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "union.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %s", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
union_package = "example.com/sum"
file_suffix   = "_gen"
workers       = 3
prune         = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := Default()
	want.UnionPackage = "example.com/sum"
	want.FileSuffix = "_gen"
	want.Workers = 3
	want.Prune = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}

	gen := cfg.Generator()
	if gen.UnionPackage != "example.com/sum" || gen.Workers != 3 || gen.Rounds != 2 || !gen.Prune {
		t.Fatalf("unexpected generator config %+v", gen)
	}
}

func TestLoadDefaultMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file must not be an error: %s", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadFailure(t *testing.T) {
	f := func(content, wantErr string) {
		t.Helper()

		_, err := Load(writeConfig(t, content))
		if err == nil {
			t.Fatalf("expecting error for %q", content)
		}
		if !strings.Contains(err.Error(), wantErr) {
			t.Fatalf("unexpected error %q; must contain %q", err, wantErr)
		}
	}

	f(`workers = "many"`, "failed to parse TOML")
	f(`prnue = true`, "unknown keys prnue")
	f(`union_package = ""`, "union_package must not be empty")
	f(`directive = "union overload"`, "invalid directive")
	f(`file_suffix = "a/b"`, "invalid file_suffix")
	f(`file_suffix = "_test"`, "invalid file_suffix")
	f(`file_suffix = "_gen_test"`, "invalid file_suffix")
	f(`file_suffix = "_linux"`, "invalid file_suffix")
	f(`file_suffix = "_gen_amd64"`, "invalid file_suffix")
	f(`workers = -1`, "workers must not be negative")
	f(`rounds = 0`, "rounds must be positive")

	// only the last element constrains a file
	if _, err := Load(writeConfig(t, `file_suffix = "_linux_gen"`)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("explicitly named file must exist")
	}
}
