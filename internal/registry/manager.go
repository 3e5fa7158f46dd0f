// Package registry holds the live set of recipes and answers crafting
// lookups against it.
//
// A Manager is safe for concurrent use. Replace swaps the whole recipe
// set atomically, which is how a datapack reload is applied while other
// goroutines keep matching.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/roach88/extremecraft/internal/inventory"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheCleanup = 10 * time.Minute
)

// Manager maps recipe ids to recipes.
type Manager struct {
	mu         sync.RWMutex
	byID       map[item.ID]recipe.Recipe
	sorted     []recipe.Recipe
	reloadID   uuid.UUID
	reloadIDs  ReloadIDGenerator
	remainders item.Remainders

	// matches maps a grid fingerprint to the id of the recipe that last
	// matched it.
	matches *cache.Cache
}

// ReloadIDGenerator produces the id assigned on each Replace.
type ReloadIDGenerator interface {
	Generate() uuid.UUID
}

// RandomReloadIDs generates random (version 4) reload ids.
type RandomReloadIDs struct{}

// Generate returns a new random uuid.
func (RandomReloadIDs) Generate() uuid.UUID { return uuid.New() }

// Option configures a Manager.
type Option func(*Manager)

// WithRemainders sets the crafting remainder table used for recipes
// without their own transformers.
func WithRemainders(r item.Remainders) Option {
	return func(m *Manager) { m.remainders = r }
}

// WithCacheTTL sets how long a cached match stays valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.matches = cache.New(ttl, 2*ttl) }
}

// WithReloadIDs sets the reload id source. Tests use a deterministic one.
func WithReloadIDs(g ReloadIDGenerator) Option {
	return func(m *Manager) { m.reloadIDs = g }
}

// New creates an empty manager using item.DefaultRemainders.
func New(opts ...Option) *Manager {
	m := &Manager{
		byID:       make(map[item.ID]recipe.Recipe),
		reloadIDs:  RandomReloadIDs{},
		remainders: item.DefaultRemainders(),
		matches:    cache.New(defaultCacheTTL, defaultCacheCleanup),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Replace discards every registered recipe and installs recipes. It
// returns the new reload id. Duplicate ids are rejected and leave the
// manager unchanged.
func (m *Manager) Replace(recipes []recipe.Recipe) (uuid.UUID, error) {
	byID := make(map[item.ID]recipe.Recipe, len(recipes))
	for _, r := range recipes {
		if _, dup := byID[r.ID()]; dup {
			return uuid.Nil, fmt.Errorf("duplicate recipe id %s", r.ID())
		}
		byID[r.ID()] = r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = byID
	m.rebuildLocked()
	m.reloadID = m.reloadIDs.Generate()
	m.matches.Flush()

	reloadsTotal.Inc()
	slog.Info("recipe registry reloaded",
		"reload_id", m.reloadID.String(),
		"recipes", len(m.sorted))
	return m.reloadID, nil
}

// Add registers one recipe.
func (m *Manager) Add(r recipe.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[r.ID()]; dup {
		return fmt.Errorf("duplicate recipe id %s", r.ID())
	}
	m.byID[r.ID()] = r
	m.rebuildLocked()
	m.matches.Flush()
	return nil
}

// Clear removes every recipe.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[item.ID]recipe.Recipe)
	m.rebuildLocked()
	m.reloadID = uuid.Nil
	m.matches.Flush()
}

func (m *Manager) rebuildLocked() {
	sorted := make([]recipe.Recipe, 0, len(m.byID))
	for _, r := range m.byID {
		sorted = append(sorted, r)
	}
	slices.SortFunc(sorted, func(a, b recipe.Recipe) int { return a.ID().Compare(b.ID()) })
	m.sorted = sorted
	recipesLoaded.Set(float64(len(sorted)))
}

// Get returns the recipe with the given id.
func (m *Manager) Get(id item.ID) (recipe.Recipe, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	return r, ok
}

// Recipes returns all recipes sorted by id.
func (m *Manager) Recipes() []recipe.Recipe {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sorted)
}

// Len returns the number of registered recipes.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sorted)
}

// ReloadID identifies the current recipe set. It is uuid.Nil before the
// first Replace and after Clear.
func (m *Manager) ReloadID() uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reloadID
}

// Remainders returns the manager's crafting remainder table.
func (m *Manager) Remainders() item.Remainders {
	return m.remainders
}

// FindMatch returns the first recipe, in id order, that fits the grid
// dimensions and matches its contents.
func (m *Manager) FindMatch(c inventory.CraftingContainer) (recipe.Recipe, bool) {
	matchAttempts.Inc()
	key := fingerprint(c)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if cached, ok := m.matches.Get(key); ok {
		if r, ok := m.byID[cached.(item.ID)]; ok && fits(r, c) {
			matchCacheHits.Inc()
			matchHits.Inc()
			return r, true
		}
		m.matches.Delete(key)
	}

	for _, r := range m.sorted {
		if fits(r, c) {
			m.matches.SetDefault(key, r.ID())
			matchHits.Inc()
			slog.Debug("recipe matched", "recipe", r.ID().String(), "width", c.Width(), "height", c.Height())
			return r, true
		}
	}
	return nil, false
}

func fits(r recipe.Recipe, c inventory.CraftingContainer) bool {
	return r.CanCraftInDimensions(c.Width(), c.Height()) && r.Matches(c)
}

// CraftResult is the outcome of a successful craft.
type CraftResult struct {
	Recipe    recipe.Recipe
	Output    item.Stack
	Remaining []item.Stack
}

// Craft finds the matching recipe and computes its output and the items
// left in the grid. The grid itself is not modified.
func (m *Manager) Craft(c inventory.CraftingContainer) (CraftResult, bool) {
	r, ok := m.FindMatch(c)
	if !ok {
		return CraftResult{}, false
	}
	return CraftResult{
		Recipe:    r,
		Output:    r.Assemble(c),
		Remaining: m.RemainingItems(r, c),
	}, true
}

// RemainingItems returns what r leaves in each slot of c, using the
// manager's remainder table for slots r does not configure itself.
func (m *Manager) RemainingItems(r recipe.Recipe, c inventory.Container) []item.Stack {
	return r.RemainingItemsWith(c, recipe.RemainderFrom(m.remainders))
}

// fingerprint identifies a grid for shapeless matching: its dimensions
// and the multiset of non-empty stacks, ignoring slot positions and
// counts.
func fingerprint(c inventory.CraftingContainer) string {
	stacks := inventory.NonEmpty(c)
	parts := make([]string, len(stacks))
	for i, s := range stacks {
		parts[i] = s.WithCount(1).String()
	}
	slices.Sort(parts)

	var b strings.Builder
	b.WriteString(strconv.Itoa(c.Width()))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(c.Height()))
	for _, p := range parts {
		b.WriteByte('|')
		b.WriteString(p)
	}
	return b.String()
}
