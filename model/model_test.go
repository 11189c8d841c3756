package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/streamcache"
	"github.com/calvinalkan/streamcache/model"
)

func Test_Models_Return_Error_When_Options_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		options streamcache.Options
	}{
		{
			name:    "NegativeInitialCapacity",
			options: streamcache.Options{InitialCapacity: -1},
		},
		{
			name:    "NegativeMaxCapacity",
			options: streamcache.Options{MaxCapacity: -1},
		},
		{
			name:    "NegativeAcceptanceWindow",
			options: streamcache.Options{AcceptanceWindow: -1},
		},
		{
			name:    "MaxCapacityBelowInitial",
			options: streamcache.Options{InitialCapacity: 1024, MaxCapacity: 512},
		},
		{
			name:    "WindowBelowMaxCapacity",
			options: streamcache.Options{InitialCapacity: 64, MaxCapacity: 256, AcceptanceWindow: 128},
		},
		{
			name:    "WindowAboveLimit",
			options: streamcache.Options{AcceptanceWindow: 1 << 31},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, sendErr := model.NewSend(0, testCase.options)
			require.ErrorIs(t, sendErr, streamcache.ErrInvalidInput, "NewSend should reject invalid options")

			_, recvErr := model.NewRecv(0, testCase.options)
			require.ErrorIs(t, recvErr, streamcache.ErrInvalidInput, "NewRecv should reject invalid options")
		})
	}
}

func Test_ModelSend_Retains_And_Invalidates_In_Order(t *testing.T) {
	t.Parallel()

	send, err := model.NewSend(100, streamcache.Options{})
	require.NoError(t, err, "NewSend should accept default options")

	require.NoError(t, send.Append([]byte("hello")))
	require.NoError(t, send.Append([]byte("world")))

	assert.Equal(t, 10, send.Len(), "model should retain all appended bytes")
	assert.Equal(t, uint32(100), send.Sequence(), "append should not move the base")

	got, err := send.Get(7)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]byte("hellowo"), got), "peek mismatch")

	send.InvalidateTo(103)
	assert.Equal(t, uint32(103), send.Sequence())
	assert.Empty(t, cmp.Diff([]byte("loworld"), send.GetAll()), "invalidation should drop the front")

	_, err = send.Get(8)
	require.ErrorIs(t, err, streamcache.ErrInsufficientData, "peek past retained bytes should fail")
}

func Test_ModelSend_Ignores_Invalidation_Outside_Window(t *testing.T) {
	t.Parallel()

	send, err := model.NewSend(0, streamcache.Options{InitialCapacity: 64, MaxCapacity: 256, AcceptanceWindow: 256})
	require.NoError(t, err)

	require.NoError(t, send.Append([]byte("abc")))
	send.InvalidateTo(257)

	assert.Equal(t, uint32(0), send.Sequence(), "out-of-window invalidation must not move the base")
	assert.Equal(t, 3, send.Len(), "out-of-window invalidation must not drop bytes")
}

func Test_ModelSend_Returns_ErrFull_When_Growth_Capped(t *testing.T) {
	t.Parallel()

	send, err := model.NewSend(0, streamcache.Options{InitialCapacity: 4, MaxCapacity: 8, AcceptanceWindow: 8})
	require.NoError(t, err)

	require.NoError(t, send.Append([]byte("12345")), "growth to 8 should cover 5 bytes")
	require.ErrorIs(t, send.Append([]byte("6789")), streamcache.ErrFull, "9 bytes exceed max capacity 8")

	assert.Equal(t, 5, send.Len(), "failed append must not change state")
	assert.Empty(t, cmp.Diff([]byte("12345"), send.GetAll()))
}

func Test_ModelRecv_Releases_Contiguous_Run_When_Gap_Filled(t *testing.T) {
	t.Parallel()

	recv, err := model.NewRecv(0, streamcache.Options{})
	require.NoError(t, err, "NewRecv should accept default options")

	released, err := recv.Append(5, []byte("world"))
	require.NoError(t, err)
	assert.Nil(t, released, "a write ahead of the release point must not release")

	released, err = recv.Append(0, []byte("hello"))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]byte("helloworld"), released), "filling the gap should release everything")
	assert.Equal(t, uint32(10), recv.Sequence())
}

func Test_ModelRecv_Releases_Across_Sequence_Wrap(t *testing.T) {
	t.Parallel()

	start := uint32(0xFFFFFFFD) // 3 bytes before the wrap
	recv, err := model.NewRecv(start, streamcache.Options{})
	require.NoError(t, err)

	released, err := recv.Append(start, []byte("abcdef"))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]byte("abcdef"), released))
	assert.Equal(t, uint32(3), recv.Sequence(), "release point should wrap through zero")
}

func Test_ModelRecv_Ignores_Fragment_Outside_Window(t *testing.T) {
	t.Parallel()

	recv, err := model.NewRecv(0, streamcache.Options{InitialCapacity: 64, MaxCapacity: 256, AcceptanceWindow: 256})
	require.NoError(t, err)

	released, err := recv.Append(300, []byte("x"))
	require.NoError(t, err)
	assert.Nil(t, released)
	assert.Equal(t, uint32(0), recv.Sequence())

	// A duplicate of already-released data computes a near-2^32 forward
	// distance and is ignored the same way.
	released, err = recv.Append(0, []byte("ab"))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]byte("ab"), released))

	released, err = recv.Append(0, []byte("ab"))
	require.NoError(t, err)
	assert.Nil(t, released, "duplicate of released data must be ignored")
	assert.Equal(t, uint32(2), recv.Sequence())
}

func Test_ModelRecv_Reports_Saturated_Remaining_Size(t *testing.T) {
	t.Parallel()

	recv, err := model.NewRecv(0, streamcache.Options{})
	require.NoError(t, err)

	// 64 KiB free saturates the 16-bit hint by one byte.
	assert.Equal(t, uint16(0xFFFF), recv.RemainingSize())

	_, err = recv.Append(2, []byte("cd"))
	require.NoError(t, err)
	assert.Equal(t, uint16(65536-4), recv.RemainingSize(), "span covers the gap and the write")
}
