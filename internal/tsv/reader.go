// Package tsv provides tab-separated record reading and writing without quote processing.
package tsv

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader reads header-keyed records from a tab-separated file.
// The first non-empty line is the header. Lines beginning with '#' are data,
// since Trinotate names its first column "#gene_id".
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	header     *Header
}

// Open creates a reader for the given path.
// Supports plain and gzipped files; "-" reads from stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tsv file: %w", err)
	}

	r := &Reader{file: file}

	buf := bufio.NewReader(file)
	magic, err := buf.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(buf)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = buf
	}

	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// NewReader creates a reader from an io.Reader.
func NewReader(rd io.Reader) (*Reader, error) {
	r := &Reader{reader: bufio.NewReader(rd)}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	for {
		line, err := r.readLine()
		if err != nil {
			if err == io.EOF {
				return &ParseError{Line: r.lineNumber, Message: "no header line found"}
			}
			return fmt.Errorf("read header: %w", err)
		}
		if line == "" {
			continue
		}
		r.header = NewHeader(strings.Split(line, "\t"))
		return nil
	}
}

// readLine returns the next line without its terminator. A final line
// without a trailing newline is returned before io.EOF.
func (r *Reader) readLine() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	r.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.readLine()
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != r.header.Len() {
			return nil, &ParseError{
				Line:    r.lineNumber,
				Message: fmt.Sprintf("expected %d columns, found %d", r.header.Len(), len(fields)),
			}
		}
		return &Record{header: r.header, values: fields}, nil
	}
}

// Header returns the parsed header.
func (r *Reader) Header() *Header {
	return r.header
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError represents an error during TSV parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tsv parse error at line %d: %s", e.Line, e.Message)
}
