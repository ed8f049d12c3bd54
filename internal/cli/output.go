package cli

import (
	"io"
	"os"

	"github.com/matzehuels/geobuffer/pkg/errors"
)

// outputSuffix is inserted before the extension of derived output paths so
// results never overwrite their input.
const outputSuffix = ".buffered"

// artifactWriter writes rendered artifacts to files or stdout.
type artifactWriter struct {
	stdout io.Writer
}

// write stores artifacts in the order of formats and returns the paths it
// wrote. A single format without an output path goes to stdout. A single
// format with an output path is written there verbatim. Otherwise each format
// is written next to the base path with its own extension.
func (w artifactWriter) write(artifacts map[string][]byte, formats []string, name, output string) ([]string, error) {
	if len(formats) == 1 && output == "" {
		_, err := w.stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		path := outputPath(format, name, output, len(formats) == 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath returns the file a format is written to.
func outputPath(format, name, output string, single bool) string {
	if single && output != "" {
		return output
	}
	base := basePath(output, name)
	if output == "" {
		base += outputSuffix
	}
	return base + "." + format
}

// writesToStdout reports whether the artifacts of a run go to stdout, in
// which case status output is suppressed.
func writesToStdout(formats []string, output string) bool {
	return len(formats) == 1 && output == ""
}
