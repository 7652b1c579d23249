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


package core

import "fmt"

// ValidateRow validates a dataset Row according to domain rules.
//
// Validation rules:
//   - Copyright must not be empty (it names the holder record)
//   - URL must not be empty (it keys the source record)
//   - Question must not be empty (it becomes chunk 0)
//
// NOT validated:
//   - Answer (an empty answer simply produces zero answer chunks)
func ValidateRow(row *Row) error {
	if row == nil {
		return fmt.Errorf("%w: row is nil", ErrInvalidRow)
	}

	if row.Copyright == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRow, ErrEmptyCopyright)
	}

	if row.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRow, ErrEmptyURL)
	}

	if row.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRow, ErrEmptyQuestion)
	}

	return nil
}
