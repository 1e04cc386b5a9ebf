package feed

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type msg struct {
	ID   string
	Body string
	At   time.Time
}

var fixed = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newMsgList() *List[msg] {
	return NewList[msg](
		WithStamp[msg](func(m msg, id string, at time.Time) msg {
			m.ID, m.At = id, at
			return m
		}),
		WithClock[msg](func() time.Time { return fixed }),
	)
}

func values(items []Item[msg]) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value.Body)
	}
	return out
}

func TestAppendVisibleImmediately(t *testing.T) {
	l := newMsgList()
	l.Replace([]msg{{ID: "1", Body: "hello"}})

	id := l.Append(msg{Body: "mine"})
	require.True(t, strings.HasPrefix(id, LocalPrefix))

	items := l.Items()
	require.Len(t, items, 2)
	last := items[1]
	assert.True(t, last.Local())
	assert.Equal(t, StatusPending, last.Status)
	assert.Equal(t, id, last.Value.ID)
	assert.Equal(t, fixed, last.Value.At)
}

func TestReplaceIsWholesale(t *testing.T) {
	l := newMsgList()
	responses := [][]msg{
		{{ID: "1", Body: "a"}, {ID: "2", Body: "b"}},
		{{ID: "3", Body: "c"}},
		{},
	}
	for i, resp := range responses {
		l.Replace(resp)
		if diff := cmp.Diff(resp, l.Server()); diff != "" {
			t.Errorf("after poll %d (-want +got):\n%s", i+1, diff)
		}
	}
	assert.Empty(t, l.Items())
	assert.True(t, l.Loaded())
}

func TestConfirmedDroppedOnReplace(t *testing.T) {
	l := newMsgList()
	id := l.Append(msg{Body: "sent"})
	require.True(t, l.Confirm(id))

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, StatusConfirmed, items[0].Status)

	l.Replace([]msg{{ID: "srv-9", Body: "sent"}})
	got := l.Items()
	require.Len(t, got, 1)
	assert.False(t, got[0].Local(), "server copy supersedes the confirmed local one")
}

func TestPendingAndFailedSurviveReplace(t *testing.T) {
	l := newMsgList()
	pending := l.Append(msg{Body: "in flight"})
	failed := l.Append(msg{Body: "lost"})
	boom := errors.New("503")
	require.True(t, l.Fail(failed, boom))

	l.Replace([]msg{{ID: "1", Body: "server"}})

	if diff := cmp.Diff([]string{"server", "in flight", "lost"}, values(l.Items())); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}
	items := l.Items()
	assert.Equal(t, pending, items[1].LocalID)
	assert.Equal(t, StatusFailed, items[2].Status)
	assert.ErrorIs(t, items[2].Err, boom)

	p, f := l.Counts()
	assert.Equal(t, 1, p)
	assert.Equal(t, 1, f)
}

func TestRetryAndDismiss(t *testing.T) {
	l := newMsgList()
	id := l.Append(msg{Body: "again"})

	_, ok := l.Retry(id)
	assert.False(t, ok, "pending records cannot be retried")

	l.Fail(id, errors.New("timeout"))
	v, ok := l.Retry(id)
	require.True(t, ok)
	assert.Equal(t, "again", v.Body)
	assert.Equal(t, StatusPending, l.Items()[0].Status)
	assert.Nil(t, l.Items()[0].Err)

	assert.True(t, l.Dismiss(id))
	assert.False(t, l.Dismiss(id))
	assert.Empty(t, l.Items())

	assert.False(t, l.Confirm("local-missing"))
	assert.False(t, l.Fail("local-missing", nil))
}

func TestReplaceCopiesInput(t *testing.T) {
	l := newMsgList()
	in := []msg{{ID: "1", Body: "a"}}
	l.Replace(in)
	in[0].Body = "mutated"
	assert.Equal(t, "a", l.Server()[0].Body)
}

func TestReset(t *testing.T) {
	l := newMsgList()
	l.Replace([]msg{{ID: "1"}})
	l.Append(msg{Body: "x"})
	l.Reset()
	assert.Empty(t, l.Items())
	assert.False(t, l.Loaded())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "confirmed", StatusConfirmed.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
