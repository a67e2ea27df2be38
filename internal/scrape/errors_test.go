package scrape

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNavErrorClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want NavCause
	}{
		{"dns error type", &net.DNSError{Err: "no such host", Name: "gone.example", IsNotFound: true}, CauseNoSuchHost},
		{"wrapped conn reset", fmt.Errorf("read tcp: %w", syscall.ECONNRESET), CauseConnReset},
		{"context deadline", context.DeadlineExceeded, CauseTimeout},
		{"browser dns string", errors.New("page load error net::ERR_NAME_NOT_RESOLVED"), CauseNoSuchHost},
		{"browser reset string", errors.New("page load error net::ERR_CONNECTION_RESET"), CauseConnReset},
		{"browser timeout string", errors.New("page load error net::ERR_TIMED_OUT"), CauseTimeout},
		{"anything else", errors.New("selector not found"), CauseUnknown},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, NewNavError("https://x.example", tc.err).Cause)
		})
	}
}

func TestNavErrorDescribe(t *testing.T) {
	t.Parallel()

	e := NewNavError("https://gone.example", errors.New("net::ERR_NAME_NOT_RESOLVED"))
	require.Equal(t, "Error accessing https://gone.example: link is not accessible.", e.Describe())

	e = NewNavError("https://slow.example", context.DeadlineExceeded)
	require.Equal(t, "Error accessing https://slow.example: connection timed out.", e.Describe())
}

func TestNavErrorUnwraps(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	wrapped := NewNavError("https://x.example", inner)
	require.ErrorIs(t, wrapped, inner)
}

func TestJobErrorUnwraps(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := &JobError{Job: "query:cafes", Err: inner}
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "query:cafes")
}
