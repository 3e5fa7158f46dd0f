package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/item"
)

// loadTags reads every item tag file below dir into tags. Tag ids are
// ns:<path relative to dir, without extension>. A missing dir is not an
// error.
func loadTags(tags ingredient.TagTable, ns, dir string) []error {
	var errs []error
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".json")
		tag, err := item.ParseID(ns + ":" + name)
		if err != nil {
			errs = append(errs, &PackError{Code: ErrCodeTagError, Path: p, Message: "file name is not a valid tag id", Err: err})
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			errs = append(errs, &PackError{Code: ErrCodeReadError, Path: p, Message: "error reading file", Err: err})
			return nil
		}
		if err := tags.AddJSON(tag, data); err != nil {
			errs = append(errs, &PackError{Code: ErrCodeTagError, Path: p, Message: fmt.Sprintf("invalid tag %s", tag), Err: err})
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, &PackError{Code: ErrCodeScanError, Path: dir, Message: "error scanning tags", Err: walkErr})
	}
	return errs
}
