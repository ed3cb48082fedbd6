package extract

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/internal/testutil"
)

func newExtractor(t *testing.T, datasetDir, holidaysURL string) *Extractor {
	t.Helper()
	cfg := &config.PipelineConfig{
		DatasetDir: datasetDir,
		Holidays:   &config.HolidaysConfig{URL: holidaysURL},
	}
	config.ApplyDefaults(cfg)
	return New(cfg, testutil.NewTestLogger(t))
}

func TestExtractor_Extract(t *testing.T) {
	dir := testutil.WriteDataset(t)
	srv := testutil.NewHolidayServer(t, http.StatusOK, testutil.HolidaysJSON)

	tables, err := newExtractor(t, dir, srv.URL).Extract(context.Background())
	require.NoError(t, err)

	var got []string
	for name := range tables {
		got = append(got, name)
	}
	sort.Strings(got)

	var want []string
	for _, s := range config.DefaultSources() {
		want = append(want, s.Table)
	}
	want = append(want, config.HolidaysTable)
	sort.Strings(want)

	assert.Equal(t, want, got)
	assert.Equal(t, "/2017/BR", srv.Path())
	assert.Equal(t, 3, tables["olist_orders"].Len())
	assert.Equal(t, 2, tables[config.HolidaysTable].Len())
}

func TestExtractor_MissingFileAbortsExtraction(t *testing.T) {
	dir := testutil.WriteDataset(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "olist_sellers_dataset.csv")))
	srv := testutil.NewHolidayServer(t, http.StatusOK, testutil.HolidaysJSON)

	tables, err := newExtractor(t, dir, srv.URL).Extract(context.Background())
	require.ErrorIs(t, err, ErrSourceMissing)
	assert.Nil(t, tables)
	assert.Zero(t, srv.Requests.Load(), "holidays must not be fetched after a failed read")
}

func TestExtractor_HolidayFailure(t *testing.T) {
	dir := testutil.WriteDataset(t)
	srv := testutil.NewHolidayServer(t, http.StatusInternalServerError, `boom`)

	tables, err := newExtractor(t, dir, srv.URL).Extract(context.Background())
	require.ErrorIs(t, err, ErrHolidayFetch)
	assert.Nil(t, tables)
}

func TestExtractor_CustomYear(t *testing.T) {
	dir := testutil.WriteDataset(t)
	srv := testutil.NewHolidayServer(t, http.StatusOK, `[]`)

	e := newExtractor(t, dir, srv.URL)
	e.HolidayYear = 2018

	_, err := e.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/2018/BR", srv.Path())
}

func TestExtractor_CancelledContext(t *testing.T) {
	dir := testutil.WriteDataset(t)
	srv := testutil.NewHolidayServer(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newExtractor(t, dir, srv.URL).Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
