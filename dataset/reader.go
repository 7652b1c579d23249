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


package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/textloom/faqvec/core"
)

// maxLineBytes bounds a single NDJSON line. Answers can be long documents.
const maxLineBytes = 4 * 1024 * 1024

// rowDocument mirrors the dataset's on-disk field names, which mix cases.
type rowDocument struct {
	Copyright string `json:"copyright"`
	URL       string `json:"url"`
	Question  string `json:"Question"`
	Answer    string `json:"Answer"`
}

// ReadFile reads up to limit rows from an NDJSON dataset file. A limit of
// zero or less reads every row. Blank lines are skipped; a malformed line
// fails the whole read since it signals input corruption rather than a bad
// record.
func ReadFile(path string, limit int) ([]*core.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	rows, err := Read(f, limit)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// Read reads up to limit rows of NDJSON from r.
func Read(r io.Reader, limit int) ([]*core.Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var rows []*core.Row
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var doc rowDocument
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		rows = append(rows, &core.Row{
			Copyright: doc.Copyright,
			URL:       doc.URL,
			Question:  doc.Question,
			Answer:    doc.Answer,
		})
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning input: %w", err)
	}
	return rows, nil
}
