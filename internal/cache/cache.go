// Package cache stores rendered case outputs keyed by the dictionary
// fingerprint and the case input, so re-running a batch with unchanged
// inputs skips the engine. A dictionary edit changes every key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CaseKey generates a cache key from the dictionary fingerprint and the
// case input. The context fields and input type are part of the key because
// they flow into the output (IHC block, narrative header, provenance);
// input_id is deliberately excluded and rewritten on hit.
func CaseKey(dictFingerprint string, input model.CaseInput) string {
	h := sha256.New()
	for _, part := range []string{
		dictFingerprint,
		string(input.InputType),
		input.Context.CaseID,
		input.Context.SpecimenID,
		input.Context.PanelHint,
		input.RawText,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "ihcstruct:v1:" + hex.EncodeToString(h.Sum(nil))
}
