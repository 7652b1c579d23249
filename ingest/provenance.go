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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/textloom/faqvec/storage"
)

// Resolver maps copyright holder names and source URLs to their record ids,
// creating records on first sight. Resolution is idempotent: lookup first,
// insert on miss, and on a duplicate-key conflict re-lookup the record a
// concurrent writer must have created.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger uses slog.Default().
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger.With("component", "provenance")}
}

// ResolveHolder returns the id of the copyright holder with the given name,
// inserting it if absent.
func (r *Resolver) ResolveHolder(ctx context.Context, sess storage.Session, name string) (int64, error) {
	return r.resolve(ctx, "copyright holder", name,
		func() (int64, error) { return sess.FindCopyrightHolder(ctx, name) },
		func() (int64, error) { return sess.InsertCopyrightHolder(ctx, name) },
	)
}

// ResolveSource returns the id of the source with the given url, inserting it
// under holderID if absent.
func (r *Resolver) ResolveSource(ctx context.Context, sess storage.Session, holderID int64, url string) (int64, error) {
	return r.resolve(ctx, "source", url,
		func() (int64, error) { return sess.FindSource(ctx, url) },
		func() (int64, error) { return sess.InsertSource(ctx, holderID, url) },
	)
}

func (r *Resolver) resolve(ctx context.Context, kind, key string, find, insert func() (int64, error)) (int64, error) {
	id, err := find()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("looking up %s: %w", kind, err)
	}

	id, err = insert()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, fmt.Errorf("inserting %s: %w", kind, err)
	}

	// Someone else won the insert race; the record must exist now.
	r.logger.Debug("recovering from duplicate-key conflict", "kind", kind, "key", key)
	id, err = find()
	if errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("%w: %s %q", ErrProvenanceInvariant, kind, key)
	}
	if err != nil {
		return 0, fmt.Errorf("re-looking up %s: %w", kind, err)
	}
	return id, nil
}
