package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inodb/trinotate-split/internal/trinotate"
	"github.com/inodb/trinotate-split/internal/tsv"
)

// Output file suffixes appended to the prefix.
const (
	BlastSuffix = "_blast.tsv"
	GOSuffix    = "_go.tsv"
)

// Paths returns the absolute BLAST and GO table paths for an output prefix.
func Paths(prefix string) (blast, goPath string, err error) {
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return "", "", fmt.Errorf("resolve output prefix: %w", err)
	}
	return abs + BlastSuffix, abs + GOSuffix, nil
}

// FileSplitWriter is a SplitWriter backed by the two table files of a prefix.
type FileSplitWriter struct {
	*SplitWriter
	BlastPath string
	GOPath    string
	blastFile *os.File
	goFile    *os.File
}

// CreateFiles creates (or truncates) <prefix>_blast.tsv and <prefix>_go.tsv.
func CreateFiles(prefix string, h *tsv.Header, cols trinotate.Columns) (*FileSplitWriter, error) {
	blastPath, goPath, err := Paths(prefix)
	if err != nil {
		return nil, err
	}

	blastFile, err := os.Create(blastPath)
	if err != nil {
		return nil, fmt.Errorf("create blast output: %w", err)
	}
	goFile, err := os.Create(goPath)
	if err != nil {
		blastFile.Close()
		return nil, fmt.Errorf("create go output: %w", err)
	}

	return &FileSplitWriter{
		SplitWriter: NewSplitWriter(blastFile, goFile, h, cols),
		BlastPath:   blastPath,
		GOPath:      goPath,
		blastFile:   blastFile,
		goFile:      goFile,
	}, nil
}

// Close closes both files. Flush first to write buffered rows.
func (fw *FileSplitWriter) Close() error {
	errBlast := fw.blastFile.Close()
	errGO := fw.goFile.Close()
	if errBlast != nil {
		return errBlast
	}
	return errGO
}
