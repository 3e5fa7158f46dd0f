package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRecipe   = "extremecraft/recipe/v1"
	DomainSnapshot = "extremecraft/snapshot/v1"
)

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + part + 0x00 + part ...).
// The null separators keep part boundaries unambiguous.
func hashWithDomain(domain string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RecipeHash identifies a recipe by its serializer, id and payload.
func RecipeHash(serializer, id string, payload []byte) string {
	return hashWithDomain(DomainRecipe, []byte(serializer), []byte(id), payload)
}

// SnapshotHash identifies an ordered list of recipe hashes.
func SnapshotHash(recipeHashes []string) string {
	parts := make([][]byte, len(recipeHashes))
	for i, h := range recipeHashes {
		parts[i] = []byte(h)
	}
	return hashWithDomain(DomainSnapshot, parts...)
}
