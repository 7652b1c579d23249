// Copyright 2025 Textloom
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tmc/langchaingo/textsplitter"
)

// Strategy names registered by default.
const (
	StrategyRecursive = "recursive"
	StrategyToken     = "token"
	StrategyCharacter = "character"

	// DefaultStrategy is used when an unrecognized strategy name is requested.
	DefaultStrategy = StrategyRecursive
)

// Chunker splits text into bounded, overlapping segments using a named
// strategy. Splitting is deterministic for identical input and strategy.
// Safe for concurrent use.
type Chunker struct {
	mu        sync.RWMutex
	splitters map[string]textsplitter.TextSplitter
}

// NewChunker creates a chunker with the built-in strategies registered.
func NewChunker() *Chunker {
	return &Chunker{
		splitters: map[string]textsplitter.TextSplitter{
			StrategyRecursive: textsplitter.NewRecursiveCharacter(
				textsplitter.WithChunkSize(500),
				textsplitter.WithChunkOverlap(50),
				textsplitter.WithSeparators([]string{"\n\n", "\n", "。", ".", " ", ""}),
			),
			StrategyToken: textsplitter.NewTokenSplitter(
				textsplitter.WithChunkSize(400),
				textsplitter.WithChunkOverlap(40),
			),
			// Newline-bounded splitting, the closest langchaingo equivalent of a
			// plain character splitter.
			StrategyCharacter: textsplitter.NewRecursiveCharacter(
				textsplitter.WithChunkSize(600),
				textsplitter.WithChunkOverlap(60),
				textsplitter.WithSeparators([]string{"\n"}),
			),
		},
	}
}

// Chunk splits text using the named strategy. Unknown strategy names fall
// back to DefaultStrategy rather than failing.
func (c *Chunker) Chunk(text, strategy string) ([]string, error) {
	c.mu.RLock()
	splitter, ok := c.splitters[strategy]
	if !ok {
		splitter = c.splitters[DefaultStrategy]
	}
	c.mu.RUnlock()

	segments, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting text with strategy %q: %w", strategy, err)
	}
	return segments, nil
}

// Register adds a custom splitter under the given name. Registering an
// existing name replaces the previous splitter.
func (c *Chunker) Register(name string, splitter textsplitter.TextSplitter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.splitters[name] = splitter
}

// Strategies returns the registered strategy names, sorted.
func (c *Chunker) Strategies() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.splitters))
	for name := range c.splitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
