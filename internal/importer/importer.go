package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"
)

// ParseFile dispatches on the file extension to the right statement parser.
func ParseFile(path string, reader io.Reader) ([]model.MatchCandidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(reader)
	case ".ofx", ".qfx":
		return ParseOFX(reader)
	default:
		return nil, fmt.Errorf("%w: unsupported statement format %q", common.ErrInvalidInput, filepath.Ext(path))
	}
}
