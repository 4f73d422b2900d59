package paged

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendLogRoundTrip(t *testing.T) {
	log, err := NewAppendLog(NewAllocator())
	require.NoError(t, err)
	defer log.Close()

	off1, err := log.Append([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 0, off1)

	off2, err := log.Append([]byte("defgh"))
	require.NoError(t, err)
	require.Equal(t, 3, off2)

	require.Equal(t, "abc", string(log.At(off1, 3)))
	require.Equal(t, "defgh", string(log.At(off2, 5)))
	require.Equal(t, 8, log.Len())
}

func TestAppendLogGrowsAcrossInitialCap(t *testing.T) {
	log, err := NewAppendLog(NewAllocator())
	require.NoError(t, err)
	defer log.Close()

	big := make([]byte, initialAppendLogCap*3)
	for i := range big {
		big[i] = byte(i)
	}

	off, err := log.Append(big)
	require.NoError(t, err)
	require.Equal(t, 0, off)
	require.Equal(t, big, log.At(off, len(big)))
}

func TestAppendLogReservePatchLater(t *testing.T) {
	log, err := NewAppendLog(NewAllocator())
	require.NoError(t, err)
	defer log.Close()

	headerOff, header, err := log.Reserve(4)
	require.NoError(t, err)

	payloadOff, err := log.Append([]byte("xyz"))
	require.NoError(t, err)

	// Patch the header now that we know where the payload landed.
	header[0] = byte(payloadOff)
	require.Equal(t, byte(payloadOff), log.At(headerOff, 4)[0])
}
