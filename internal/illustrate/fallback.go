package illustrate

import (
	"fmt"
	"hash/fnv"
)

// FallbackImageURL synthesizes a placeholder cover image reference when no
// photo could be found. The seed is a pure function of the article id, so
// the same article always renders the same placeholder across runs.
func FallbackImageURL(articleID string) string {
	h := fnv.New32a()
	h.Write([]byte(articleID))
	seed := h.Sum32() % 1000
	return fmt.Sprintf("https://picsum.photos/seed/%d/400/300", seed)
}
