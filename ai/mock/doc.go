// Package mock provides test double implementations of the ai interfaces.
//
// MockEmbedder allows tests to run without an external embedding service and
// enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vectors, err := embedder.EmbedTexts(ctx, []string{"a", "b"})
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("simulated provider failure")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// Default behavior returns deterministic vectors derived from a hash of the
// input text, so equal inputs always embed to equal vectors.
package mock
