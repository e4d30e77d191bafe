package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.entries)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceRecordsMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)

	var out []string
	hit, err := svc.Get(context.Background(), "roster:lecture:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "roster:lecture:1", []string{"a"}, 0))
	hit, err = svc.Get(context.Background(), "roster:lecture:1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, out)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
}

func TestCacheServiceGetError(t *testing.T) {
	repo := newMemoryCache()
	repo.getErr = errors.New("redis down")
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestMetricsServiceRosterFetches(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordRosterFetch(FetchOutcomeOK)
	metrics.RecordRosterFetch(FetchOutcomeStale)
	metrics.RecordRosterFetch(FetchOutcomeStale)
	metrics.SetDialogSessions(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.rosterFetches.WithLabelValues(FetchOutcomeStale)))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.dialogSessions))

	var nilMetrics *MetricsService
	assert.NotPanics(t, func() {
		nilMetrics.RecordRosterFetch(FetchOutcomeOK)
		nilMetrics.ObserveDBQuery("q", time.Millisecond)
	})
}
