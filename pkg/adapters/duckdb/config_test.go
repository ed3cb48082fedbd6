package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		want    *Params
		wantErr bool
	}{
		{
			name:  "nil options returns empty struct",
			input: nil,
			want:  &Params{},
		},
		{
			name:  "extensions list",
			input: map[string]string{"extensions": "json,icu"},
			want:  &Params{Extensions: []string{"json", "icu"}},
		},
		{
			name:  "threads and memory",
			input: map[string]string{"threads": "4", "memory_limit": "2GB", "other": "x"},
			want:  &Params{Threads: 4, MemoryLimit: "2GB"},
		},
		{
			name:    "bad threads",
			input:   map[string]string{"threads": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_SetupStatements(t *testing.T) {
	p := &Params{Extensions: []string{"icu"}, Threads: 2, MemoryLimit: "1GB"}
	assert.Equal(t, []string{
		"INSTALL icu",
		"LOAD icu",
		"SET threads = 2",
		"SET memory_limit = '1GB'",
	}, p.setupStatements())

	assert.Empty(t, (&Params{}).setupStatements())
}
