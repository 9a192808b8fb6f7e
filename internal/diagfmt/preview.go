package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mojes/internal/source"
)

// SourceLines returns the lines of an annotated source file.
type SourceLines interface {
	Lines(file string) ([]string, bool)
}

// DiskSource reads source files on demand and keeps them.
type DiskSource struct {
	mu    sync.Mutex
	base  string
	files map[string][]string
}

// NewDiskSource resolves relative paths against base.
func NewDiskSource(base string) *DiskSource {
	return &DiskSource{base: base, files: make(map[string][]string)}
}

func (s *DiskSource) Lines(file string) ([]string, bool) {
	if file == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if lines, ok := s.files[file]; ok {
		return lines, lines != nil
	}
	path := file
	if !filepath.IsAbs(path) && s.base != "" {
		path = filepath.Join(s.base, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		// запоминаем промах, чтобы не читать файл повторно
		s.files[file] = nil
		return nil, false
	}
	lines := splitLines(string(data))
	s.files[file] = lines
	return lines, true
}

// MapSource serves sources from memory, keyed by file name.
type MapSource map[string]string

func (m MapSource) Lines(file string) ([]string, bool) {
	text, ok := m[file]
	if !ok {
		return nil, false
	}
	return splitLines(text), true
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

type previewLine struct {
	num  int
	text string
}

// previewFor returns the lines around pos, or nil when the source is not
// available or pos has no line.
func previewFor(src SourceLines, pos source.Pos, context int) []previewLine {
	if src == nil || !pos.IsValid() {
		return nil
	}
	lines, ok := src.Lines(pos.File)
	if !ok {
		return nil
	}
	line := int(pos.Line)
	if line > len(lines) {
		return nil
	}
	context = max(context, 0)
	from := max(line-context, 1)
	to := min(line+context, len(lines))
	out := make([]previewLine, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, previewLine{num: n, text: strings.ReplaceAll(lines[n-1], "\t", "    ")})
	}
	return out
}

func formatPath(file string, mode PathMode, base string) string {
	if file == "" {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(file); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if base != "" {
			if rel, err := filepath.Rel(base, file); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(file)
	}
	return source.NormalizePath(file)
}

func formatPos(pos source.Pos, mode PathMode, base string) string {
	pos.File = formatPath(pos.File, mode, base)
	return pos.String()
}
