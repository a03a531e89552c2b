// Package brief defines the report object returned by the brief generation
// service and the derived lookups the renderers need.
package brief

import (
	"encoding/json"
	"sort"
)

// Report is the root object of a generated brief. It is replaced wholesale on
// every load; renderers treat it as read-only.
type Report struct {
	WatchlistID   string         `json:"watchlist_id,omitempty"`
	WatchlistName string         `json:"watchlist_name,omitempty"`
	IsEmpty       bool           `json:"is_empty,omitempty"`
	StartDate     string         `json:"start_date,omitempty"`
	EndDate       string         `json:"end_date,omitempty"`
	Novelty       bool           `json:"novelty"`
	ReportTitle   string         `json:"report_title,omitempty"`
	Introduction  string         `json:"introduction,omitempty"`
	EntityReports []EntityReport `json:"entity_reports,omitempty"`
	SourceMeta    SourceMap      `json:"source_metadata,omitempty"`
}

// EntityReport covers one company. The novelty pipeline fills kept, discarded
// and compared_with; older reports carry a flat content list instead.
type EntityReport struct {
	EntityID   string                `json:"entity_id"`
	EntityInfo map[string]any        `json:"entity_info,omitempty"`
	Content    []BulletPoint         `json:"content,omitempty"`
	Kept       []BulletPoint         `json:"kept,omitempty"`
	Discarded  []DiscardedBullet     `json:"discarded,omitempty"`
	Compared   []ComparedBulletPoint `json:"compared_with,omitempty"`
}

// BulletPoint is one atomic claim with its backing source ids. A referenced
// id may be absent from the report's source metadata; that is expected, not
// corruption.
type BulletPoint struct {
	BulletPoint string   `json:"bullet_point"`
	Sources     []string `json:"sources,omitempty"`
}

// DiscardedBullet is a bullet point removed by novelty filtering, annotated
// with the closest prior sentence it matched.
type DiscardedBullet struct {
	BulletPoint
	ComparisonSimilarity *float64 `json:"comparison_similarity,omitempty"`
	ComparisonSentence   string   `json:"comparison_sentence,omitempty"`
}

// ComparedBulletPoint is a sentence carried over from an earlier brief for
// novelty comparison. It never carries sources.
type ComparedBulletPoint struct {
	BulletPoint  string `json:"bullet_point"`
	CreationDate string `json:"creation_date,omitempty"`
}

// SourceMetadata describes one document chunk backing a bullet point. Every
// field is optional.
type SourceMetadata struct {
	Text          string   `json:"text,omitempty"`
	Headline      string   `json:"headline,omitempty"`
	Timestamp     string   `json:"ts,omitempty"`
	SourceName    string   `json:"source_name,omitempty"`
	SourceKey     string   `json:"source_key,omitempty"`
	URL           string   `json:"url,omitempty"`
	SourceRank    *int     `json:"source_rank,omitempty"`
	DocumentScope string   `json:"document_scope,omitempty"`
	Language      string   `json:"language,omitempty"`
	DocumentID    string   `json:"document_id,omitempty"`
	ChunkID       *int     `json:"chunk_id,omitempty"`
	Entities      []string `json:"rp_entities,omitempty"`
}

// SourceMap maps source ids to their metadata. The backend serializes it
// either as a plain object or wrapped in a {"root": {...}} envelope; both
// decode to the same map.
type SourceMap map[string]SourceMetadata

func (m *SourceMap) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Root map[string]SourceMetadata `json:"root"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Root != nil {
		*m = envelope.Root
		return nil
	}
	var direct map[string]SourceMetadata
	if err := json.Unmarshal(data, &direct); err != nil {
		return err
	}
	*m = direct
	return nil
}

// Entity returns the entity report with the given id.
func (r *Report) Entity(entityID string) (*EntityReport, bool) {
	for i := range r.EntityReports {
		if r.EntityReports[i].EntityID == entityID {
			return &r.EntityReports[i], true
		}
	}
	return nil, false
}

// InfoString reads a scalar entity_info field as a string, returning "" when
// absent or not string-shaped.
func (e *EntityReport) InfoString(key string) string {
	v, ok := e.EntityInfo[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Name returns the display name of the entity, falling back to its id.
func (e *EntityReport) Name() string {
	if name := e.InfoString("name"); name != "" {
		return name
	}
	return e.EntityID
}

// BulletCount is the badge count shown next to a company: the legacy flat
// content list when present, else the novelty bins combined.
func (e *EntityReport) BulletCount() int {
	if len(e.Content) > 0 {
		return len(e.Content)
	}
	return len(e.Kept) + len(e.Discarded) + len(e.Compared)
}

// MetadataStats summarizes referential integrity between bullet-point source
// ids and the report's source metadata.
type MetadataStats struct {
	TotalSources int
	MissingCount int
	MissingIDs   []string
}

// MissingPercent is the share of referenced source ids without metadata,
// in [0, 100].
func (s MetadataStats) MissingPercent() float64 {
	if s.TotalSources == 0 {
		return 0
	}
	return float64(s.MissingCount) / float64(s.TotalSources) * 100
}

// MetadataStats counts the distinct source ids referenced by kept and
// discarded bullets across all entities, and how many of them are absent
// from the metadata map. Compared-with bullets are excluded: they come from
// a previous brief run and were never expected to carry current metadata.
func (r *Report) MetadataStats() MetadataStats {
	seen := map[string]struct{}{}
	for _, entity := range r.EntityReports {
		for _, bp := range entity.Kept {
			for _, id := range bp.Sources {
				seen[id] = struct{}{}
			}
		}
		for _, bp := range entity.Discarded {
			for _, id := range bp.Sources {
				seen[id] = struct{}{}
			}
		}
	}
	stats := MetadataStats{TotalSources: len(seen)}
	for id := range seen {
		if _, ok := r.SourceMeta[id]; !ok {
			stats.MissingIDs = append(stats.MissingIDs, id)
		}
	}
	sort.Strings(stats.MissingIDs)
	stats.MissingCount = len(stats.MissingIDs)
	return stats
}

// HasDetails reports whether the metadata carries anything beyond its text
// and headline, i.e. whether a details panel is worth showing.
func (s *SourceMetadata) HasDetails() bool {
	return s.Timestamp != "" || s.SourceName != "" || s.SourceKey != "" ||
		s.SourceRank != nil || s.DocumentID != "" || s.ChunkID != nil
}
