package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mutest/internal/testutil"
)

func TestTime_AveragesSamples(t *testing.T) {
	rt := testutil.SequenceRuntime(t,
		testutil.Response{Stdout: "10"},
		testutil.Response{Stdout: "20"},
		testutil.Response{Stdout: "30"},
	)
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	r, err := d.Time(context.Background(), testCase("(+ 1 2)", ""), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, r.Samples)
	require.NotNil(t, r.Elapsed)
	assert.Equal(t, 20*time.Microsecond, *r.Elapsed)
}

func TestTime_SkipsInvalidSamples(t *testing.T) {
	rt := testutil.SequenceRuntime(t,
		testutil.Response{Stdout: "10"},
		testutil.Response{Stdout: "not-a-number"},
		testutil.Response{Stderr: "boom", Exit: 2},
		testutil.Response{Stdout: "30"},
	)
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	r, err := d.Time(context.Background(), testCase("x", ""), 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 30}, r.Samples)
	require.NotNil(t, r.Elapsed)
	assert.Equal(t, 20*time.Microsecond, *r.Elapsed)
}

func TestTime_NoValidSamplesIsUndefined(t *testing.T) {
	rt := testutil.SequenceRuntime(t, testutil.Response{Stderr: "unbound symbol", Exit: 1})
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	r, err := d.Time(context.Background(), testCase("x", ""), 2)
	require.NoError(t, err)
	assert.Nil(t, r.Elapsed)
	assert.Empty(t, r.Samples)
	assert.Equal(t, 1, r.ExitStatus)
	assert.Equal(t, "unbound symbol", r.Error)
}

func TestTime_UsesTimingProbe(t *testing.T) {
	rt := testutil.WriteRuntime(t, `for last; do :; done; case "$last" in "-e(tick (+ 1 2))") echo 7;; *) exit 3;; esac`)
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt}, WithProbes("", "(tick {expr})"))

	r, err := d.Time(context.Background(), testCase("(+ 1 2)", ""), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, r.Samples)
}

func TestTime_RejectsZeroRepeat(t *testing.T) {
	rt := testutil.SequenceRuntime(t, testutil.Response{Stdout: "1"})
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	_, err := d.Time(context.Background(), testCase("x", ""), 0)
	assert.Error(t, err)
}

func TestParseTiming(t *testing.T) {
	n, err := ParseTiming(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = ParseTiming("4.2")
	assert.Error(t, err)
	_, err = ParseTiming("-1")
	assert.Error(t, err)
}
