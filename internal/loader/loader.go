// Package loader reads recipe datapacks from disk.
//
// A pack root contains data/<namespace>/ directories:
//
//	data/<ns>/tags/items/**/*.json   item tags, id ns:<relative path>
//	data/<ns>/recipes/**/*.json      one recipe per file, id ns:<relative path>
//	data/<ns>/recipes/**/*.cue       recipe: [name]: {...}, id ns:<name>
//
// Tags load first so recipe ingredients can resolve them. Recipe files
// parse concurrently; the result is always sorted by recipe id.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
	"github.com/roach88/extremecraft/internal/serializer"
)

// Mode controls how errors are handled during pack loading.
type Mode int

const (
	// FailFast stops on the first error encountered.
	FailFast Mode = iota
	// CollectAll collects all errors before returning.
	CollectAll
)

// Pack-level error codes.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeScanError = "E002" // Directory scan error
	ErrCodeNoFiles   = "E003" // No recipe files found
	ErrCodeReadError = "E004" // File read error
	ErrCodeNotFound  = "E005" // Path not found
	ErrCodeCUEError  = "E006" // CUE compile or export failed
	ErrCodeTagError  = "E007" // Item tag file invalid
)

// PackError is an error that is not tied to a single recipe.
type PackError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *PackError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PackError) Unwrap() error { return e.Err }

// Options configures Load.
type Options struct {
	Mode Mode

	// Serializers builds the serializer registry once tags are known.
	// Nil uses serializer.Default.
	Serializers func(tags ingredient.TagSource) *serializer.Registry

	// Concurrency bounds parallel file parsing. Zero uses GOMAXPROCS.
	Concurrency int
}

// Skipped records a recipe whose type has no registered serializer.
type Skipped struct {
	ID   item.ID
	Type item.ID
	Path string
}

// Result is a loaded pack.
type Result struct {
	Recipes     []recipe.Recipe
	Tags        ingredient.TagTable
	Serializers *serializer.Registry
	Skipped     []Skipped
	FileCount   int
}

// recipeFile is one file under a recipes directory.
type recipeFile struct {
	namespace string
	rel       string // slash-separated, relative to the recipes dir
	path      string
}

// parsed is the outcome of one recipe definition.
type parsed struct {
	id      item.ID
	path    string
	recipe  recipe.Recipe
	skipped *Skipped
	err     error
}

// Load reads the pack at root. A nil Result means the pack could not be
// read at all; otherwise Result holds every recipe that loaded and the
// returned errors describe the ones that did not.
func Load(ctx context.Context, root string, opts Options) (*Result, []error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []error{&PackError{Code: ErrCodeNotFound, Path: root, Message: "pack directory not found"}}
	}
	if err != nil {
		return nil, []error{&PackError{Code: ErrCodeNotFound, Path: root, Message: "error accessing pack directory", Err: err}}
	}
	if !info.IsDir() {
		return nil, []error{&PackError{Code: ErrCodeNotFound, Path: root, Message: "not a directory"}}
	}

	dataDir := filepath.Join(root, "data")
	namespaces, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, []error{&PackError{Code: ErrCodeNotFound, Path: dataDir, Message: "pack has no data directory", Err: err}}
	}

	var errs []error
	tags := ingredient.NewTagTable()
	var files []recipeFile

	for _, entry := range namespaces {
		if !entry.IsDir() {
			continue
		}
		ns := entry.Name()
		nsDir := filepath.Join(dataDir, ns)

		tagErrs := loadTags(tags, ns, filepath.Join(nsDir, "tags", "items"))
		errs = append(errs, tagErrs...)
		if len(errs) > 0 && opts.Mode == FailFast {
			return nil, errs[:1]
		}

		found, err := findRecipeFiles(ns, filepath.Join(nsDir, "recipes"))
		if err != nil {
			errs = append(errs, &PackError{Code: ErrCodeScanError, Path: nsDir, Message: "error scanning recipes", Err: err})
			if opts.Mode == FailFast {
				return nil, errs
			}
			continue
		}
		files = append(files, found...)
	}

	if err := tags.Resolve(); err != nil {
		errs = append(errs, &PackError{Code: ErrCodeTagError, Message: "unresolvable item tags", Err: err})
		if opts.Mode == FailFast {
			return nil, errs
		}
	}

	if len(files) == 0 {
		errs = append(errs, &PackError{Code: ErrCodeNoFiles, Path: root, Message: "no recipe files found"})
		return nil, errs
	}
	slices.SortFunc(files, func(a, b recipeFile) int { return strings.Compare(a.path, b.path) })

	newSerializers := opts.Serializers
	if newSerializers == nil {
		newSerializers = func(t ingredient.TagSource) *serializer.Registry { return serializer.Default(t) }
	}
	serializers := newSerializers(tags)

	outcomes, err := parseAll(ctx, files, serializers, opts.Concurrency)
	if err != nil {
		return nil, append(errs, err)
	}

	result := &Result{
		Tags:        tags,
		Serializers: serializers,
		FileCount:   len(files),
	}

	seen := make(map[item.ID]string)
	for _, p := range outcomes {
		switch {
		case p.err != nil:
			errs = append(errs, p.err)
		case p.skipped != nil:
			slog.Debug("skipping recipe with unregistered type",
				"recipe", p.skipped.ID.String(),
				"type", p.skipped.Type.String(),
				"path", p.skipped.Path)
			result.Skipped = append(result.Skipped, *p.skipped)
			continue
		default:
			if first, dup := seen[p.id]; dup {
				errs = append(errs, &serializer.LoadError{
					Code:    serializer.ErrCodeDuplicateRecipe,
					Recipe:  p.id,
					Message: fmt.Sprintf("defined in both %s and %s", first, p.path),
				})
				break
			}
			seen[p.id] = p.path
			result.Recipes = append(result.Recipes, p.recipe)
			continue
		}
		if opts.Mode == FailFast {
			errs = errs[:1]
			break
		}
	}

	slices.SortFunc(result.Recipes, func(a, b recipe.Recipe) int { return a.ID().Compare(b.ID()) })

	slog.Debug("pack loaded",
		"root", root,
		"files", len(files),
		"recipes", len(result.Recipes),
		"skipped", len(result.Skipped),
		"errors", len(errs))
	return result, errs
}

// parseAll parses every file and returns the outcomes in file order.
func parseAll(ctx context.Context, files []recipeFile, serializers *serializer.Registry, limit int) ([]parsed, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([][]parsed, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(f, serializers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []parsed
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func parseFile(f recipeFile, serializers *serializer.Registry) []parsed {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return []parsed{{path: f.path, err: &PackError{Code: ErrCodeReadError, Path: f.path, Message: "error reading file", Err: err}}}
	}

	if path.Ext(f.rel) == ".cue" {
		defs, err := exportCUE(f.path, data)
		if err != nil {
			return []parsed{{path: f.path, err: err}}
		}
		out := make([]parsed, 0, len(defs))
		for _, d := range defs {
			id, err := item.ParseID(f.namespace + ":" + d.name)
			if err != nil {
				out = append(out, parsed{path: f.path, err: &PackError{Code: ErrCodeCUEError, Path: f.path, Message: fmt.Sprintf("recipe %q: invalid name", d.name), Err: err}})
				continue
			}
			out = append(out, decode(id, f.path, d.json, serializers))
		}
		return out
	}

	id, err := item.ParseID(f.namespace + ":" + strings.TrimSuffix(f.rel, path.Ext(f.rel)))
	if err != nil {
		return []parsed{{path: f.path, err: &PackError{Code: ErrCodeScanError, Path: f.path, Message: "file name is not a valid recipe id", Err: err}}}
	}
	return []parsed{decode(id, f.path, data, serializers)}
}

func decode(id item.ID, file string, data []byte, serializers *serializer.Registry) parsed {
	kind, err := serializer.TypeOf(id, data)
	if err != nil {
		return parsed{id: id, path: file, err: err}
	}
	if _, ok := serializers.Get(kind); !ok {
		return parsed{id: id, path: file, skipped: &Skipped{ID: id, Type: kind, Path: file}}
	}
	r, err := serializers.FromJSON(id, data)
	if err != nil {
		return parsed{id: id, path: file, err: err}
	}
	return parsed{id: id, path: file, recipe: r}
}

// findRecipeFiles lists .json and .cue files below dir. A missing dir
// yields no files.
func findRecipeFiles(ns, dir string) ([]recipeFile, error) {
	var files []recipeFile
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".json" && ext != ".cue" {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, recipeFile{namespace: ns, rel: filepath.ToSlash(rel), path: p})
		return nil
	})
	return files, err
}
