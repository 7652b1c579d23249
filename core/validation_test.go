package core

import (
	"errors"
	"testing"
)

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name    string
		row     *Row
		wantErr error
	}{
		{
			name: "valid row",
			row: &Row{
				Copyright: "Acme",
				URL:       "https://example.com/faq/1",
				Question:  "What is this?",
				Answer:    "A thing.",
			},
			wantErr: nil,
		},
		{
			name: "valid row with empty answer",
			row: &Row{
				Copyright: "Acme",
				URL:       "https://example.com/faq/2",
				Question:  "What is this?",
			},
			wantErr: nil,
		},
		{
			name:    "nil row",
			row:     nil,
			wantErr: ErrInvalidRow,
		},
		{
			name: "missing copyright",
			row: &Row{
				URL:      "https://example.com/faq/3",
				Question: "What is this?",
			},
			wantErr: ErrEmptyCopyright,
		},
		{
			name: "missing url",
			row: &Row{
				Copyright: "Acme",
				Question:  "What is this?",
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "missing question",
			row: &Row{
				Copyright: "Acme",
				URL:       "https://example.com/faq/4",
			},
			wantErr: ErrEmptyQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRow(tt.row)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if tt.row != nil && !errors.Is(err, ErrInvalidRow) {
				t.Fatalf("error should wrap ErrInvalidRow: %v", err)
			}
		})
	}
}
