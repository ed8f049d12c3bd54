package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/geobuffer/pkg/cache"
	gio "github.com/matzehuels/geobuffer/pkg/io"
)

// isolate points the config and cache directories at temporary dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// run executes the CLI with args and returns what the command wrote to its
// output stream.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"buffer", "graph", "batch", "serve", "config", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestBufferFlags(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	cmd, _, _ := root.Find([]string{"buffer"})
	for _, flag := range []string{"distance", "quad-segs", "cap", "join", "mitre-limit", "single-sided",
		"precision", "format", "output", "no-cache", "refresh", "wkt"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("buffer flag --%s missing", flag)
		}
	}
	if f := cmd.Flags().ShorthandLookup("d"); f == nil || f.Name != "distance" {
		t.Error("-d should be the shorthand for --distance")
	}
}

func TestBufferCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "out")
	_, err := run(t, "buffer", "--wkt", "LINESTRING (0 0, 10 0)", "-d", "1", "--cap", "flat",
		"-f", "wkt,geojson", "-o", base, "--no-cache")
	if err != nil {
		t.Fatalf("buffer error = %v", err)
	}

	wkt, err := os.ReadFile(base + ".wkt")
	if err != nil {
		t.Fatalf("read wkt output: %v", err)
	}
	if !strings.HasPrefix(string(wkt), "POLYGON ((") {
		t.Errorf("wkt = %s", wkt)
	}
	g, err := gio.ImportFile(base + ".geojson")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if g.Type().String() != "Polygon" {
		t.Errorf("geojson type = %s, want Polygon", g.Type())
	}
}

func TestBufferCommandInputFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "site.wkt")
	if err := os.WriteFile(in, []byte("POINT (0 0)"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "buffer", in, "-d", "1", "-f", "wkt,svg"); err != nil {
		t.Fatalf("buffer error = %v", err)
	}
	for _, name := range []string{"site.buffered.wkt", "site.buffered.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
}

func TestBufferCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing distance", []string{"buffer", "--wkt", "POINT (0 0)"}},
		{"bad format", []string{"buffer", "--wkt", "POINT (0 0)", "-d", "1", "-f", "gif"}},
		{"bad cap", []string{"buffer", "--wkt", "POINT (0 0)", "-d", "1", "--cap", "pointy"}},
		{"missing file", []string{"buffer", filepath.Join(os.TempDir(), "does-not-exist.wkt"), "-d", "1"}},
		{"input and wkt", []string{"buffer", "a.wkt", "--wkt", "POINT (0 0)", "-d", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "graph.dot")
	if _, err := run(t, "graph", "--wkt", "POLYGON ((0 0, 4 0, 4 4, 0 4, 0 0))", "-d", "1", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("graph error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("graph output = %.40s", data)
	}
}

func TestBatchCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "sites.geojson")
	fc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":1,"properties":{"name":"a"},"geometry":{"type":"Point","coordinates":[0,0]}},
		{"type":"Feature","id":2,"properties":{"name":"b"},"geometry":{"type":"Point","coordinates":[10,0]}},
		{"type":"Feature","id":3,"properties":{"name":"c"},"geometry":{"type":"LineString","coordinates":[[0,5],[10,5]]}}
	]}`
	if err := os.WriteFile(in, []byte(fc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "batch", in, "-d", "1", "--concurrency", "2"); err != nil {
		t.Fatalf("batch error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sites.buffered.geojson"))
	if err != nil {
		t.Fatal(err)
	}
	features, err := gio.ReadFeatures(data)
	if err != nil {
		t.Fatalf("ReadFeatures() error = %v", err)
	}
	if len(features) != 3 {
		t.Fatalf("features = %d, want 3", len(features))
	}
	if features[2].Properties["name"] != "c" {
		t.Errorf("feature order or properties lost: %v", features[2].Properties)
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, "config.toml")

	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, err := run(t, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run(t, "config", "init"); err == nil {
		t.Error("second config init should fail without --force")
	}
	if _, err := run(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	out, err = run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, section := range []string{"[buffer]", "[cache]", "[server]", "[batch]"} {
		if !strings.Contains(out, section) {
			t.Errorf("config show output missing %s:\n%s", section, out)
		}
	}
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[buffer]\nquadrant_segments = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "quadrant_segments = 3") {
		t.Errorf("config show did not use --config:\n%s", out)
	}

	if _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config", "show"); err == nil {
		t.Error("missing --config file should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error = %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "entry", []byte("POINT (0 0)"), 0); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "entry"); ok {
		t.Error("entry still cached after cache clear")
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
