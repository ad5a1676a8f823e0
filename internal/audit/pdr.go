// Package audit records Process Decision Records and render history for
// worker command overrides.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fentz26/celery-worker-patch/internal/store"
)

// Actions recorded by the Recorder.
const (
	ActionConfigLoaded    = "config.loaded"
	ActionCommandRendered = "command.rendered"
)

// Recorder writes decision records and render rows to a store. It
// satisfies host.Recorder.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new recorder.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// ConfigLoaded records the configuration dispatched to the plugins.
func (r *Recorder) ConfigLoaded(config map[string]any) error {
	_, err := r.store.WritePDR(ActionConfigLoaded, HashInputs(config), "success", fmt.Sprintf("%d keys", len(config)))
	return err
}

// CommandRendered records a rendered worker command and the configuration
// it was built from.
func (r *Recorder) CommandRendered(role string, tokens []string, config map[string]any) error {
	hash := HashInputs(config)
	if _, err := r.store.RecordRender(role, tokens, hash); err != nil {
		return err
	}
	inputs := map[string]interface{}{"role": role, "config": hash}
	_, err := r.store.WritePDR(ActionCommandRendered, HashInputs(inputs), "success", role)
	return err
}

// HashInputs creates a SHA256 hash of the inputs for reproducibility. Map
// keys are sorted by encoding/json, so equal mappings hash equally.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
