package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
	"github.com/roach88/extremecraft/internal/wire"
)

// ErrUnregisteredType is returned when a recipe names a serializer type
// that is not registered.
var ErrUnregisteredType = errors.New("unregistered recipe type")

// Serializer converts one recipe kind between JSON, the wire and memory.
type Serializer interface {
	FromJSON(id item.ID, data []byte) (recipe.Recipe, error)
	FromNetwork(id item.ID, b *wire.Buffer) (recipe.Recipe, error)
	ToNetwork(b *wire.Buffer, r recipe.Recipe) error
}

// Registry maps serializer type IDs to serializers.
type Registry struct {
	mu    sync.RWMutex
	kinds map[item.ID]Serializer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[item.ID]Serializer)}
}

// Default returns a registry with the shapeless extreme serializer
// registered under its type ID.
func Default(tags ingredient.TagSource) *Registry {
	r := NewRegistry()
	// Cannot fail on an empty registry.
	_ = r.Register(recipe.ShapelessExtremeSerializerID, ShapelessExtreme{Tags: tags})
	return r
}

// Register adds a serializer. Registering the same type twice is an error.
func (r *Registry) Register(kind item.ID, s Serializer) error {
	if s == nil {
		return fmt.Errorf("serializer %s: nil serializer", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kind]; exists {
		return fmt.Errorf("serializer %s already registered", kind)
	}
	r.kinds[kind] = s
	return nil
}

// Get returns the serializer for kind.
func (r *Registry) Get(kind item.ID) (Serializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.kinds[kind]
	return s, ok
}

// Kinds returns the registered type IDs in sorted order.
func (r *Registry) Kinds() []item.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]item.ID, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	slices.SortFunc(out, item.ID.Compare)
	return out
}

// TypeOf reads the "type" field of a recipe definition.
func TypeOf(id item.ID, data []byte) (item.ID, error) {
	obj, err := decodeObject(id, data)
	if err != nil {
		return item.ID{}, err
	}
	raw, ok := obj["type"]
	if !ok {
		return item.ID{}, loadError(ErrCodeBadType, id, "type", "missing required field", nil)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return item.ID{}, loadError(ErrCodeBadType, id, "type", "expected a string", nil)
	}
	kind, err := item.ParseID(s)
	if err != nil {
		return item.ID{}, loadError(ErrCodeBadType, id, "type", "invalid type", err)
	}
	return kind, nil
}

// FromJSON dispatches a recipe definition to the serializer named by
// its "type" field. Unknown types yield a *LoadError wrapping
// ErrUnregisteredType.
func (r *Registry) FromJSON(id item.ID, data []byte) (recipe.Recipe, error) {
	kind, err := TypeOf(id, data)
	if err != nil {
		return nil, err
	}
	s, ok := r.Get(kind)
	if !ok {
		return nil, loadError(ErrCodeBadType, id, "type", kind.String(), ErrUnregisteredType)
	}
	return s.FromJSON(id, data)
}
