// Package auth implements static API key authentication for the Ganymede
// service surface. Keys come from configuration; JIRA credentials are a
// separate concern handled by the jira client itself.
package auth

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"mercator-hq/ganymede/pkg/config"
)

// KeyInfo describes one configured API key.
type KeyInfo struct {
	// Key is the secret value presented by clients.
	Key string

	// Name identifies the client in logs. Never the key itself.
	Name string

	// Enabled allows a key to be parked without removing it from config.
	Enabled bool
}

// Validator validates API keys against the configured set.
type Validator struct {
	mu   sync.RWMutex
	keys map[string]*KeyInfo
}

// NewValidator creates a validator from the auth configuration.
func NewValidator(cfg *config.AuthConfig) *Validator {
	keys := make(map[string]*KeyInfo, len(cfg.Keys))
	for _, k := range cfg.Keys {
		keys[k.Key] = &KeyInfo{Key: k.Key, Name: k.Name, Enabled: k.Enabled}
	}
	return &Validator{keys: keys}
}

// Validate checks the given key and returns its info.
func (v *Validator) Validate(key string) (*KeyInfo, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for stored, info := range v.keys {
		if subtle.ConstantTimeCompare([]byte(stored), []byte(key)) == 1 {
			if !info.Enabled {
				return nil, fmt.Errorf("API key disabled")
			}
			return info, nil
		}
	}
	return nil, fmt.Errorf("invalid API key")
}

// Replace swaps the configured key set, for config reloads.
func (v *Validator) Replace(cfg *config.AuthConfig) {
	keys := make(map[string]*KeyInfo, len(cfg.Keys))
	for _, k := range cfg.Keys {
		keys[k.Key] = &KeyInfo{Key: k.Key, Name: k.Name, Enabled: k.Enabled}
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
}
