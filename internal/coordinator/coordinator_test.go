package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyzer/internal/cancellation"
	"stockanalyzer/internal/stock"
	"stockanalyzer/internal/testutil"
)

func newHandle(t *testing.T) *cancellation.Handle {
	t.Helper()
	ctrl := cancellation.NewController(context.Background())
	h, ok := ctrl.Start()
	require.True(t, ok)
	t.Cleanup(func() { ctrl.Release(h) })
	return h
}

func tickersOf(records []stock.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Ticker
	}
	return out
}

func TestNew(t *testing.T) {
	c := New(&testutil.MockService{})
	assert.Equal(t, DefaultDeadline, c.Deadline())

	c = New(&testutil.MockService{}, WithDeadline(500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, c.Deadline())

	c = New(&testutil.MockService{}, WithDeadline(0))
	assert.Equal(t, DefaultDeadline, c.Deadline())
}

func TestFetchAll_FlattensInSubmissionOrder(t *testing.T) {
	// The slowest ticker is submitted first; its records must still lead.
	svc := testutil.NewMockService(map[string]testutil.Response{
		"A": {Records: testutil.Records("A", 2), Delay: 60 * time.Millisecond},
		"B": {Records: testutil.Records("B", 3), Delay: 20 * time.Millisecond},
		"C": {Records: testutil.Records("C", 1)},
	})

	records, err := New(svc).FetchAll(newHandle(t), []string{"A", "B", "C"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "A", "B", "B", "B", "C"}, tickersOf(records))
	assert.Equal(t, int64(0), records[2].Volume)
	assert.Equal(t, int64(2), records[4].Volume)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, svc.Calls())
}

func TestFetchAll_RunsConcurrently(t *testing.T) {
	svc := testutil.NewMockService(map[string]testutil.Response{
		"A": {Records: testutil.Records("A", 1), Delay: 100 * time.Millisecond},
		"B": {Records: testutil.Records("B", 1), Delay: 100 * time.Millisecond},
		"C": {Records: testutil.Records("C", 1), Delay: 100 * time.Millisecond},
	})

	start := time.Now()
	records, err := New(svc).FetchAll(newHandle(t), []string{"A", "B", "C"})
	duration := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Less(t, duration, 250*time.Millisecond, "fetches likely ran sequentially")
}

func TestFetchAll_TimeoutDiscardsEverything(t *testing.T) {
	svc := testutil.NewMockService(map[string]testutil.Response{
		"FAST": {Records: testutil.Records("FAST", 5)},
		"SLOW": {Records: testutil.Records("SLOW", 5), Delay: 5 * time.Second},
	})
	h := newHandle(t)

	start := time.Now()
	records, err := New(svc, WithDeadline(50*time.Millisecond)).FetchAll(h, []string{"FAST", "SLOW"})
	duration := time.Since(start)

	assert.Nil(t, records)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Deadline)
	assert.Equal(t, []string{"SLOW"}, timeoutErr.Pending, "only unfinished fetches are pending")
	assert.Contains(t, err.Error(), "timeout")
	assert.NotContains(t, err.Error(), "FAST")

	assert.True(t, h.Cancelled(), "deadline cancels the operation")
	assert.Less(t, duration, time.Second)
}

func TestFetchAll_OneFailureFailsBatch(t *testing.T) {
	failure := errors.New("upstream unavailable")
	svc := testutil.NewMockService(map[string]testutil.Response{
		"A": {Records: testutil.Records("A", 2)},
		"B": {Err: failure},
		"C": {Records: testutil.Records("C", 2)},
	})

	records, err := New(svc).FetchAll(newHandle(t), []string{"A", "B", "C"})
	assert.Nil(t, records)

	var aggErr *AggregateFetchError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, "B", aggErr.Ticker)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, "fetch B: upstream unavailable", err.Error())
}

func TestFetchAll_FailureCancelsSiblings(t *testing.T) {
	svc := testutil.NewMockService(map[string]testutil.Response{
		"BAD":  {Err: errors.New("nope")},
		"SLOW": {Records: testutil.Records("SLOW", 1), Delay: 5 * time.Second},
	})

	start := time.Now()
	_, err := New(svc, WithDeadline(3*time.Second)).FetchAll(newHandle(t), []string{"SLOW", "BAD"})

	var aggErr *AggregateFetchError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, "BAD", aggErr.Ticker)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchAll_NoTickers(t *testing.T) {
	records, err := New(&testutil.MockService{}).FetchAll(newHandle(t), nil)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrNoTickers)
}

func TestFetchAll_EmptyTickerResultIsSuccess(t *testing.T) {
	svc := testutil.NewMockService(map[string]testutil.Response{
		"A": {Records: nil},
		"B": {Records: testutil.Records("B", 1)},
	})

	records, err := New(svc).FetchAll(newHandle(t), []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, tickersOf(records))
}

func TestFetchAll_PanicBecomesFailure(t *testing.T) {
	svc := &testutil.MockService{
		FetchFunc: func(ctx context.Context, ticker string) ([]stock.Record, error) {
			panic("nil map")
		},
	}

	_, err := New(svc).FetchAll(newHandle(t), []string{"A"})

	var aggErr *AggregateFetchError
	require.ErrorAs(t, err, &aggErr)
	assert.Contains(t, err.Error(), "fetch panicked: nil map")
}
