package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/source"
)

// Input is one decoded function document.
type Input struct {
	Path   string
	Format hir.WireFormat
	Funcs  []*hir.Func
	Digest Digest    // хеш содержимого файла
	Bag    *diag.Bag // IO-диагностики этого файла
}

// Failed reports whether the document could not be used.
func (in Input) Failed() bool { return in.Bag != nil && in.Bag.HasErrors() }

// ListInputs expands paths into the ordered list of documents to load.
// Directories are walked for *.json, *.yaml, *.yml and *.msgpack files in
// lexical order; files named explicitly keep their position. Duplicates are
// dropped.
func ListInputs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if seen[clean] {
			return
		}
		seen[clean] = true
		out = append(out, clean)
	}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", p, err)
		}
		if !st.IsDir() {
			add(p)
			continue
		}
		var files []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ferr := hir.WireFormatFromPath(path); ferr == nil {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		// Сортируем для детерминированного порядка регистрации
		sort.Strings(files)
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

// LoadInputs reads and decodes files in parallel. Results keep the order of
// files; a file that cannot be read or decoded yields an Input whose Bag
// carries the IO diagnostic. The returned error is only set on cancellation.
func LoadInputs(ctx context.Context, files []string, maxDiagnostics, jobs int) ([]Input, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]Input, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = loadInput(path, maxDiagnostics)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func loadInput(path string, maxDiagnostics int) Input {
	in := Input{Path: path, Bag: diag.NewBag(maxDiagnostics)}
	rep := diag.BagReporter{Bag: in.Bag}
	at := source.Pos{File: path}

	format, err := hir.WireFormatFromPath(path)
	if err != nil {
		diag.ReportError(rep, diag.IOLoadFileError, "", at, err.Error()).Emit()
		return in
	}
	in.Format = format

	data, err := os.ReadFile(path)
	if err != nil {
		diag.ReportError(rep, diag.IOLoadFileError, "", at, "failed to load file: "+err.Error()).Emit()
		return in
	}
	in.Digest = digestBytes(data)

	funcs, err := hir.Decode(data, format)
	if err != nil {
		diag.ReportError(rep, diag.IODecodeError, "", at, err.Error()).Emit()
		Logger().Debug("decode failed", zap.String("path", path), zap.Error(err))
		return in
	}
	for _, fn := range funcs {
		// позиции без файла относим к документу
		if fn.Pos.File == "" {
			fn.Pos.File = path
		}
	}
	in.Funcs = funcs
	Logger().Debug("input loaded",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Int("functions", len(funcs)))
	return in
}
