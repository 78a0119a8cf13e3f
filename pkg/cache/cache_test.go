package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackmap/stackmap/pkg/cache"
	"github.com/stackmap/stackmap/pkg/catalog"
	pkgerrors "github.com/stackmap/stackmap/pkg/errors"
)

func TestSessionMemoizesFirstFetch(t *testing.T) {
	sess := cache.NewSession()
	calls := 0
	fetch := func(context.Context) ([]catalog.Metric, error) {
		calls++
		return []catalog.Metric{{ID: "m-1", Name: "error-rate"}}, nil
	}

	for i := 0; i < 3; i++ {
		metrics, err := sess.Metrics(context.Background(), fetch)
		require.NoError(t, err)
		assert.Len(t, metrics, 1)
	}
	assert.Equal(t, 1, calls)
}

func TestSessionInvalidateForcesRefetch(t *testing.T) {
	sess := cache.NewSession()
	calls := 0
	fetch := func(context.Context) ([]catalog.Component, error) {
		calls++
		return []catalog.Component{{ID: "comp-1", Name: "payments-api"}}, nil
	}

	_, err := sess.Components(context.Background(), fetch)
	require.NoError(t, err)
	sess.Invalidate(catalog.KindComponent)
	_, err = sess.Components(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSessionInvalidateIsPerKind(t *testing.T) {
	sess := cache.NewSession()
	metricCalls, scorecardCalls := 0, 0

	fetchMetrics := func(context.Context) ([]catalog.Metric, error) {
		metricCalls++
		return nil, nil
	}
	fetchScorecards := func(context.Context) ([]catalog.Scorecard, error) {
		scorecardCalls++
		return nil, nil
	}

	_, _ = sess.Metrics(context.Background(), fetchMetrics)
	_, _ = sess.Scorecards(context.Background(), fetchScorecards)
	sess.Invalidate(catalog.KindMetric)
	_, _ = sess.Metrics(context.Background(), fetchMetrics)
	_, _ = sess.Scorecards(context.Background(), fetchScorecards)

	assert.Equal(t, 2, metricCalls)
	assert.Equal(t, 1, scorecardCalls)
}

func TestSessionDoesNotMemoizeFailures(t *testing.T) {
	sess := cache.NewSession()
	calls := 0
	fetch := func(context.Context) ([]catalog.Scorecard, error) {
		calls++
		if calls == 1 {
			return nil, pkgerrors.NewRemoteUnavailableError("ListScorecards", "boom", nil)
		}
		return []catalog.Scorecard{{Name: "prod-readiness"}}, nil
	}

	_, err := sess.Scorecards(context.Background(), fetch)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRemoteUnavailable(err))

	scorecards, err := sess.Scorecards(context.Background(), fetch)
	require.NoError(t, err)
	assert.Len(t, scorecards, 1)
	assert.Equal(t, 2, calls)
}

func TestSessionMemoizesEmptyCollections(t *testing.T) {
	sess := cache.NewSession()
	calls := 0
	fetch := func(context.Context) ([]catalog.Component, error) {
		calls++
		return []catalog.Component{}, nil
	}

	_, _ = sess.Components(context.Background(), fetch)
	_, _ = sess.Components(context.Background(), fetch)
	assert.Equal(t, 1, calls, "legitimately empty is distinct from failed")
}

func TestSessionReset(t *testing.T) {
	sess := cache.NewSession()
	calls := 0
	fetch := func(context.Context) ([]catalog.Metric, error) {
		calls++
		return nil, nil
	}
	_, _ = sess.Metrics(context.Background(), fetch)
	sess.Reset()
	_, _ = sess.Metrics(context.Background(), fetch)
	assert.Equal(t, 2, calls)
}
