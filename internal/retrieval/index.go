package retrieval

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/KaramelBytes/tablerag-cli/internal/corpus"
	"github.com/KaramelBytes/tablerag-cli/internal/utils"
)

// Record is one indexed document: its corpus position, narrative text,
// metadata and embedding vector.
type Record struct {
	DocID    int               `json:"doc_id"`
	DocType  string            `json:"doc_type"`
	DocHash  string            `json:"doc_hash,omitempty"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Vector   []float32         `json:"vector"`
}

type Index struct {
	Records []Record  `json:"records"`
	Meta    IndexMeta `json:"meta"`
}

type IndexMeta struct {
	IndexVersion int       `json:"index_version"`
	EmbedModel   string    `json:"embed_model"`
	EmbedDim     int       `json:"embed_dim"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (idx *Index) Save(path string) error {
	if idx == nil {
		return fmt.Errorf("nil index")
	}
	return utils.WriteJSON(path, idx)
}

func Load(path string) (*Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, err
	}
	if idx.Meta.IndexVersion == 0 {
		idx.Meta.IndexVersion = 1
	}
	return &idx, nil
}

// CosineSim computes cosine similarity between two vectors. Returns 0 if
// dimensions mismatch or either vector is zero.
func CosineSim(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var na, nb float64
	for i := range a {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// BuildIndex embeds every corpus document and assembles a fresh index.
// Documents are embedded whole: they are synthesized at retrieval-friendly
// size, so there is no chunking step. Records keep corpus order, which makes
// the index deterministic for a fixed corpus and embedder.
func BuildIndex(ctx context.Context, emb Embedder, docs []corpus.Document, embedModel string) (*Index, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vecs, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vecs), len(docs))
	}

	now := time.Now()
	idx := &Index{
		Records: make([]Record, len(docs)),
		Meta: IndexMeta{
			IndexVersion: 1,
			EmbedModel:   embedModel,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	for i, d := range docs {
		sum := sha1.Sum([]byte(d.Content))
		idx.Records[i] = Record{
			DocID:    i,
			DocType:  d.Type(),
			DocHash:  fmt.Sprintf("%x", sum[:]),
			Content:  d.Content,
			Metadata: d.Metadata,
			Vector:   vecs[i],
		}
	}
	if len(vecs[0]) > 0 {
		idx.Meta.EmbedDim = len(vecs[0])
	}
	return idx, nil
}

// Search returns top-k records above the minScore threshold, sorted by
// descending score. Ties keep corpus order.
func (idx *Index) Search(query []float32, topK int, minScore float64) []Record {
	type scored struct {
		rec   Record
		score float64
	}
	scoredRecs := make([]scored, 0, len(idx.Records))
	for _, r := range idx.Records {
		s := CosineSim(query, r.Vector)
		if s >= minScore {
			scoredRecs = append(scoredRecs, scored{rec: r, score: s})
		}
	}
	sort.SliceStable(scoredRecs, func(i, j int) bool { return scoredRecs[i].score > scoredRecs[j].score })
	if topK > 0 && len(scoredRecs) > topK {
		scoredRecs = scoredRecs[:topK]
	}
	out := make([]Record, len(scoredRecs))
	for i, s := range scoredRecs {
		out[i] = s.rec
	}
	return out
}
