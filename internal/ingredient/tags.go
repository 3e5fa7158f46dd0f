package ingredient

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/extremecraft/internal/item"
)

// ErrUnknownTag is returned when an ingredient references a tag that the
// tag source does not know.
var ErrUnknownTag = errors.New("unknown item tag")

// TagSource resolves item tags to their member items.
type TagSource interface {
	TagItems(tag item.ID) ([]item.ID, bool)
}

// NoTags is a TagSource that knows no tags.
var NoTags TagSource = TagTable{}

type tagEntry struct {
	id       item.ID
	isTag    bool
	required bool
}

// TagTable holds item tag definitions. Entries may reference other tags
// ("#ns:path"); references are expanded on lookup.
//
// A TagTable is built single-threaded and is safe for concurrent reads
// once building is done.
type TagTable map[item.ID][]tagEntry

// NewTagTable creates an empty table.
func NewTagTable() TagTable {
	return TagTable{}
}

// AddItems appends items to a tag, creating it if needed.
func (t TagTable) AddItems(tag item.ID, ids ...item.ID) {
	entries := t[tag]
	for _, id := range ids {
		entries = append(entries, tagEntry{id: id, required: true})
	}
	t[tag] = entries
}

// AddReference appends a reference to another tag.
func (t TagTable) AddReference(tag, ref item.ID, required bool) {
	t[tag] = append(t[tag], tagEntry{id: ref, isTag: true, required: required})
}

// tagFile is the on-disk tag definition format.
type tagFile struct {
	Replace bool              `json:"replace"`
	Values  []json.RawMessage `json:"values"`
}

// tagValueObject is the long form of a tag value entry.
type tagValueObject struct {
	ID       string `json:"id"`
	Required *bool  `json:"required"`
}

// AddJSON merges a tag definition file into the table. With "replace"
// set, earlier entries for the tag are dropped.
func (t TagTable) AddJSON(tag item.ID, data []byte) error {
	var f tagFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("tag %s: %w", tag, err)
	}
	if f.Values == nil {
		return fmt.Errorf("tag %s: missing values array", tag)
	}

	if f.Replace {
		t[tag] = nil
	}
	if _, ok := t[tag]; !ok {
		t[tag] = nil
	}

	for i, raw := range f.Values {
		ref := tagValueObject{}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			ref.ID = s
		} else if err := json.Unmarshal(raw, &ref); err != nil || ref.ID == "" {
			return fmt.Errorf("tag %s: values[%d]: expected string or {\"id\": ...}", tag, i)
		}

		required := ref.Required == nil || *ref.Required
		if rest, isTag := strings.CutPrefix(ref.ID, "#"); isTag {
			id, err := item.ParseID(rest)
			if err != nil {
				return fmt.Errorf("tag %s: values[%d]: %w", tag, i, err)
			}
			t.AddReference(tag, id, required)
			continue
		}

		id, err := item.ParseID(ref.ID)
		if err != nil {
			return fmt.Errorf("tag %s: values[%d]: %w", tag, i, err)
		}
		t[tag] = append(t[tag], tagEntry{id: id, required: required})
	}
	return nil
}

// TagItems returns the flattened, de-duplicated members of a tag in
// definition order. It reports false for unknown tags and tags that fail
// to resolve.
func (t TagTable) TagItems(tag item.ID) ([]item.ID, bool) {
	if _, ok := t[tag]; !ok {
		return nil, false
	}
	ids, err := t.resolve(tag, nil)
	if err != nil {
		return nil, false
	}
	return ids, true
}

// Resolve checks every tag for cycles and missing required references.
func (t TagTable) Resolve() error {
	tags := make([]item.ID, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	slices.SortFunc(tags, item.ID.Compare)

	var errs []error
	for _, tag := range tags {
		if _, err := t.resolve(tag, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tags returns all tag ids in sorted order.
func (t TagTable) Tags() []item.ID {
	tags := make([]item.ID, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	slices.SortFunc(tags, item.ID.Compare)
	return tags
}

func (t TagTable) resolve(tag item.ID, path []item.ID) ([]item.ID, error) {
	if slices.Contains(path, tag) {
		return nil, fmt.Errorf("tag %s: reference cycle via %s", path[0], tag)
	}
	path = append(path, tag)

	var out []item.ID
	seen := map[item.ID]bool{}
	add := func(id item.ID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, e := range t[tag] {
		if !e.isTag {
			add(e.id)
			continue
		}
		if _, ok := t[e.id]; !ok {
			if e.required {
				return nil, fmt.Errorf("tag %s: references missing tag #%s", tag, e.id)
			}
			continue
		}
		members, err := t.resolve(e.id, path)
		if err != nil {
			return nil, err
		}
		for _, id := range members {
			add(id)
		}
	}
	return out, nil
}
