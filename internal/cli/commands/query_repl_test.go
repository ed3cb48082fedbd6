package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/pkg/adapters/sqlite"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	db := sqlite.New(nil)
	require.NoError(t, db.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	t.Cleanup(func() { _ = db.Close() })

	tbl := core.NewTable("qry_revenue_per_state", "customer_state", "Revenue")
	tbl.Rows = [][]any{{"SP", 500.0}, {"RJ", 200.0}}
	tbl.InferColumnTypes()
	require.NoError(t, db.WriteTable(ctx, tbl))

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	return &replSession{ctx: ctx, db: db, out: out, errOut: errOut, format: "csv"}, out, errOut
}

func TestReplSession_Statements(t *testing.T) {
	s, out, errOut := newTestSession(t)

	quit, pending := s.handle("SELECT customer_state")
	assert.False(t, quit)
	assert.True(t, pending)

	_, pending = s.handle("")
	assert.True(t, pending, "blank lines keep the statement open")

	quit, pending = s.handle("FROM qry_revenue_per_state ORDER BY Revenue DESC;")
	assert.False(t, quit)
	assert.False(t, pending)
	assert.Equal(t, "customer_state\nSP\nRJ\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	s.handle("SELECT * FROM missing;")
	assert.Contains(t, errOut.String(), "Error:")
	assert.Empty(t, out.String())
}

func TestReplSession_Reset(t *testing.T) {
	s, out, _ := newTestSession(t)

	s.handle("SELECT nonsense")
	s.reset()
	s.handle("SELECT 1 AS one;")
	assert.Equal(t, "one\n1\n", out.String())
}

func TestReplSession_DotCommands(t *testing.T) {
	tests := []struct {
		line       string
		wantQuit   bool
		wantOut    string
		wantErr    string
		wantFormat string
	}{
		{line: ".quit", wantQuit: true},
		{line: ".EXIT", wantQuit: true},
		{line: ".help", wantOut: ".schema <table>"},
		{line: ".tables qry_", wantOut: "qry_revenue_per_state\n"},
		{line: ".schema qry_revenue_per_state", wantOut: "customer_state"},
		{line: ".schema", wantErr: "Usage: .schema <table>"},
		{line: ".schema nope", wantErr: "Error:"},
		{line: ".format", wantOut: "csv\n"},
		{line: ".format json", wantFormat: "json"},
		{line: ".format xml", wantErr: "unknown format", wantFormat: "csv"},
		{line: ".bogus", wantErr: "Unknown command: .bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, out, errOut := newTestSession(t)

			quit, pending := s.handle(tt.line)
			assert.Equal(t, tt.wantQuit, quit)
			assert.False(t, pending)
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			} else {
				assert.Empty(t, errOut.String())
			}
			if tt.wantFormat != "" {
				assert.Equal(t, tt.wantFormat, s.format)
			}
		})
	}
}

func TestTableCompleter(t *testing.T) {
	s, _, _ := newTestSession(t)

	c := tableCompleter(context.Background(), s.db)
	got, length := c.Do([]rune("qry_rev"), len("qry_rev"))
	require.Len(t, got, 1)
	assert.Equal(t, "enue_per_state ", string(got[0]))
	assert.Equal(t, len("qry_rev"), length)
}
