package jira

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Logical field names used by domain operations. The cache maps these to the
// instance's customfield IDs.
const (
	FieldStoryPoints = "story_points"
	FieldEpicLink    = "epic_link"
	FieldEpicName    = "epic_name"
)

// fieldEntry is one immutable cache generation: the fetch timestamp and the
// complete logical-name -> customfield-ID map built from it. Entries are
// replaced wholesale, never mutated.
type fieldEntry struct {
	fetchedAt time.Time
	fields    map[string]string
}

// fieldCache resolves the configured custom-field display names to JIRA's
// internal field IDs via GET /rest/api/3/field, memoized with a TTL.
//
// Reads are lock-free (atomic pointer load). A refresh builds the new map
// fully before swapping it in, so readers never observe a half-built map.
// There is deliberately no single-flight: two operations racing on an
// expired entry both fetch, and the last write wins with equivalent content.
type fieldCache struct {
	client *Client
	names  FieldNames
	ttl    time.Duration
	now    func() time.Time

	entry atomic.Pointer[fieldEntry]
}

func newFieldCache(client *Client, cfg Config) *fieldCache {
	return &fieldCache{
		client: client,
		names:  cfg.Fields,
		ttl:    cfg.FieldCacheTTL,
		now:    time.Now,
	}
}

// get returns the current field map, fetching from JIRA when no entry exists
// or the TTL has expired.
func (fc *fieldCache) get(ctx context.Context) (map[string]string, error) {
	if entry := fc.entry.Load(); entry != nil && fc.now().Sub(entry.fetchedAt) < fc.ttl {
		fc.observe(true)
		return entry.fields, nil
	}
	fc.observe(false)
	return fc.refresh(ctx)
}

// refresh unconditionally fetches the field list and swaps in a new cache
// entry. Display names are matched case-insensitively and exactly; logical
// names whose display name is absent upstream are omitted from the map.
func (fc *fieldCache) refresh(ctx context.Context) (map[string]string, error) {
	resp, err := fc.client.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   apiRoot + "/field",
	})
	if err != nil {
		return nil, err
	}

	var upstream []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := resp.Decode(&upstream); err != nil {
		return nil, err
	}

	wanted := map[string]string{
		strings.ToLower(fc.names.StoryPoints): FieldStoryPoints,
		strings.ToLower(fc.names.EpicLink):    FieldEpicLink,
		strings.ToLower(fc.names.EpicName):    FieldEpicName,
	}

	fields := make(map[string]string, len(wanted))
	for _, f := range upstream {
		if logical, ok := wanted[strings.ToLower(f.Name)]; ok {
			fields[logical] = f.ID
		}
	}

	fc.entry.Store(&fieldEntry{fetchedAt: fc.now(), fields: fields})
	return fields, nil
}

// require returns the field ID for a logical name, failing with a config
// error when the upstream instance has no field matching the configured
// display name.
func (fc *fieldCache) require(ctx context.Context, logical string) (string, error) {
	fields, err := fc.get(ctx)
	if err != nil {
		return "", err
	}
	id, ok := fields[logical]
	if !ok {
		return "", configError("field mapping not found: %s", logical)
	}
	return id, nil
}

func (fc *fieldCache) observe(hit bool) {
	if fc.client.observer != nil {
		fc.client.observer.FieldCache(hit)
	}
}
