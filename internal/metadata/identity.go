package metadata

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NamespaceFileKey is the UUID namespace for fallback file keys, derived
// from "rootmodel/file-key/v1" under the URL namespace.
var NamespaceFileKey = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rootmodel/file-key/v1"))

// GenerateFallbackKey derives a stable key from a file path.
//
// Examples:
//   - "./Plates/13_05_2018.rsml" → uuid_v5(ns, "plates/13_05_2018.rsml")
//   - `plates\13_05_2018.RSML`  → same key
func GenerateFallbackKey(path string) uuid.UUID {
	return uuid.NewSHA1(NamespaceFileKey, []byte(normalizePath(path)))
}

// normalizePath lowercases, converts to forward slashes and strips a leading "./".
func normalizePath(path string) string {
	normalized := strings.ToLower(filepath.ToSlash(strings.ReplaceAll(path, `\`, "/")))
	return strings.TrimPrefix(normalized, "./")
}
