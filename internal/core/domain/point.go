package domain

// Point is the unit of storage and transfer to a vector collection.
type Point struct {
	// ID is positive, unique within a run and equal to position + 1.
	ID uint64 `json:"id"`

	// Vector is the chunk's embedding.
	Vector []float32 `json:"vector"`

	// Payload is the non-vector metadata used for filtering and display.
	Payload Payload `json:"payload"`
}

// Payload is the metadata attached to a point.
type Payload struct {
	ChunkID       string   `json:"chunk_id"`
	ScenarioTitle string   `json:"scenario_title"`
	Category      string   `json:"category"`
	ChunkIndex    int      `json:"chunk_index"`
	TotalChunks   int      `json:"total_chunks"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
}

// Map returns the payload as a generic map, for backends that store
// schemaless payloads.
func (p Payload) Map() map[string]any {
	tags := make([]any, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t
	}
	return map[string]any{
		"chunk_id":       p.ChunkID,
		"scenario_title": p.ScenarioTitle,
		"category":       p.Category,
		"chunk_index":    p.ChunkIndex,
		"total_chunks":   p.TotalChunks,
		"content":        p.Content,
		"tags":           tags,
	}
}
