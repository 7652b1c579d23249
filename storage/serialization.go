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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MarshalVector serializes an embedding vector for the chunks.embedding BLOB
// column: a varint length followed by fixed-width float32s.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	if len(vector) > 0 {
		size += len(vector) * raw.Float32.Size(vector[0])
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vector), buf)
	for _, f := range vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative vector length %d", ErrSerializationFailed, length)
	}
	if length*4 > len(data)-n {
		return nil, fmt.Errorf("%w: vector of %d floats in %d bytes", ErrTruncatedData, length, len(data)-n)
	}

	vector := make([]float32, length)
	for i := range vector {
		f, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: float %d: %w", ErrSerializationFailed, i, err)
		}
		vector[i] = f
		n += m
	}
	return vector, nil
}
