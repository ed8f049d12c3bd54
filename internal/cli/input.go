package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/fetch"
)

// stdinName is the input argument that reads from standard input.
const stdinName = "-"

// input is a geometry document and the name used to derive output paths.
type input struct {
	data []byte
	name string // file path, URL, or "" for stdin and --wkt
}

// readInput reads the geometry argument of a command. wkt, when non-empty,
// is used verbatim instead of arg. URLs are fetched through c, and "-" reads
// from stdin.
func readInput(ctx context.Context, arg, wkt string, c cache.Cache, refresh bool) (input, error) {
	logger := loggerFromContext(ctx)
	switch {
	case wkt != "":
		if arg != "" {
			return input{}, errors.New(errors.ErrCodeInvalidInput, "pass either an input argument or --wkt, not both")
		}
		return input{data: []byte(wkt)}, nil
	case arg == "" || arg == stdinName:
		logger.Debug("reading stdin")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return input{data: data}, nil
	case isURL(arg):
		logger.Debug("fetching input", "url", arg)
		data, err := fetch.NewClient(c, nil, fetch.DefaultTTL, nil).Get(ctx, arg, refresh)
		if err != nil {
			return input{}, err
		}
		return input{data: data, name: arg}, nil
	default:
		data, err := os.ReadFile(arg)
		if os.IsNotExist(err) {
			return input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", arg)
		}
		if err != nil {
			return input{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", arg)
		}
		return input{data: data, name: arg}, nil
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// basePath returns the output path without extension: output if set,
// otherwise the input path with its extension removed, otherwise appName.
// URL inputs use the last path element.
func basePath(output, name string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if name == "" {
		return appName
	}
	if isURL(name) {
		name = name[strings.LastIndex(name, "/")+1:]
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
		if name == "" {
			return appName
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
