package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"explicit output", "out/result.svg", "in.wkt", "out/result"},
		{"output without ext", "out/result", "in.wkt", "out/result"},
		{"input file", "", "data/roads.wkt", "data/roads"},
		{"stdin", "", "", appName},
		{"url", "", "https://example.com/data/parks.geojson?v=2", "parks"},
		{"url without file", "", "https://example.com/", appName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		output string
		single bool
		want   string
	}{
		{"single with output", "svg", "a.wkt", "pic.svg", true, "pic.svg"},
		{"multiple with output", "svg", "a.wkt", "pic", false, "pic.svg"},
		{"derived from input", "wkt", "a.wkt", "", false, "a.buffered.wkt"},
		{"derived from stdin", "png", "", "", false, appName + ".buffered.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.format, tt.input, tt.output, tt.single); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArtifactWriterStdout(t *testing.T) {
	var buf bytes.Buffer
	paths, err := artifactWriter{stdout: &buf}.write(
		map[string][]byte{"wkt": []byte("POLYGON EMPTY")}, []string{"wkt"}, "a.wkt", "")
	if err != nil {
		t.Fatalf("write() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("paths = %v, want none", paths)
	}
	if buf.String() != "POLYGON EMPTY" {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestArtifactWriterFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "result")
	artifacts := map[string][]byte{
		"wkt": []byte("POLYGON EMPTY"),
		"svg": []byte("<svg/>"),
	}
	paths, err := artifactWriter{stdout: &bytes.Buffer{}}.write(artifacts, []string{"wkt", "svg"}, "", base)
	if err != nil {
		t.Fatalf("write() error = %v", err)
	}
	want := []string{base + ".wkt", base + ".svg"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		format := filepath.Ext(p)[1:]
		if !bytes.Equal(data, artifacts[format]) {
			t.Errorf("%s = %q, want %q", p, data, artifacts[format])
		}
	}
}

func TestWritesToStdout(t *testing.T) {
	if !writesToStdout([]string{"wkt"}, "") {
		t.Error("single format without output should go to stdout")
	}
	if writesToStdout([]string{"wkt"}, "a.wkt") {
		t.Error("explicit output should not go to stdout")
	}
	if writesToStdout([]string{"wkt", "svg"}, "") {
		t.Error("multiple formats should not go to stdout")
	}
}
