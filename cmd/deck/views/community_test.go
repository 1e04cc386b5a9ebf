package views

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"careerdeck/internal/feed"
	"careerdeck/internal/poll"
	"careerdeck/internal/store"
	"careerdeck/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// channelsJSON is the channel list as the community backend serves it.
// Ids and names differ; channels are addressed by name.
const channelsJSON = `[
  {"id": "1", "name": "general", "category": "Lounge"},
  {"id": "2", "name": "go", "category": "Languages"}
]`

// chatServer is a minimal community backend speaking the frontend's wire
// format: messages carry "user", "content" and a display "time".
type chatServer struct {
	mu       sync.Mutex
	messages map[string][]map[string]any
	sent     []map[string]string
	failPost atomic.Bool
	posts    atomic.Int32
}

func newChatServer() *chatServer {
	return &chatServer{messages: map[string][]map[string]any{
		"general": {{"id": "1", "user": "Lin", "avatar": "", "role": "Mentor", "content": "welcome", "time": "10:30:00 AM", "type": "text", "channel": "general"}},
		"go":      {{"id": "2", "user": "Sam", "avatar": "", "role": "Member", "content": "gophers", "time": "10:31:00 AM", "type": "text", "channel": "go"}},
	}}
}

func (s *chatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/community/channels":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(channelsJSON))
	case r.Method == http.MethodPost && r.URL.Path == "/community/messages":
		s.posts.Add(1)
		if s.failPost.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		s.mu.Lock()
		s.sent = append(s.sent, in)
		ch := in["channel"]
		if _, ok := s.messages[ch]; !ok {
			s.mu.Unlock()
			http.Error(w, "unknown channel", http.StatusNotFound)
			return
		}
		s.messages[ch] = append(s.messages[ch], map[string]any{
			"id": "srv-" + in["content"], "user": "You", "content": in["content"],
			"time": "10:32:00 AM", "type": in["type"], "channel": ch,
		})
		s.mu.Unlock()
		writeJSON(w, map[string]string{"status": "ok"})
	case strings.HasPrefix(r.URL.Path, "/community/messages/"):
		ch := strings.TrimPrefix(r.URL.Path, "/community/messages/")
		s.mu.Lock()
		msgs, ok := s.messages[ch]
		msgs = append([]map[string]any(nil), msgs...)
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, msgs)
	default:
		http.NotFound(w, r)
	}
}

func (s *chatServer) Sent() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.sent...)
}

func newCommunity(t *testing.T, srv *chatServer) (CommunityPage, *Deps) {
	t.Helper()
	deps := newTestDeps(t, srv)
	m := NewCommunityPage(deps)
	t.Cleanup(m.Close)
	m.SetBounds(0, 1, 100, 30)

	chs, err := deps.Client.Channels(deps.ctx())
	require.NoError(t, err)
	m, _ = m.Update(channelsLoadedMsg{channels: chs})
	require.Equal(t, "general", m.Channel())
	return m, deps
}

func typeAndSend(t *testing.T, m CommunityPage, body string) (CommunityPage, messageSentMsg) {
	t.Helper()
	m.input.SetValue(body)
	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd, "enter should issue a send")
	return m, run(t, cmd).(messageSentMsg)
}

func TestCommunityAppendsBeforeResponse(t *testing.T) {
	srv := newChatServer()
	m, _ := newCommunity(t, srv)

	m.input.SetValue("hello there")
	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)

	items := m.Messages()
	require.Len(t, items, 1)
	assert.True(t, items[0].Local())
	assert.Equal(t, feed.StatusPending, items[0].Status)
	assert.Equal(t, "hello there", items[0].Value.Body)
	assert.Equal(t, testNow.Local().Format(MessageTimeLayout), items[0].Value.Time)
	assert.Empty(t, m.input.Value(), "composer clears on send")
	assert.Zero(t, srv.posts.Load(), "request not issued until the command runs")
	assert.Contains(t, m.renderMessages(), "sending")
}

func TestCommunityReconcileReplacesConfirmedSend(t *testing.T) {
	srv := newChatServer()
	m, _ := newCommunity(t, srv)

	m, sent := typeAndSend(t, m, "hello")
	require.NoError(t, sent.err)
	m, _ = m.Update(sent)

	items := m.Messages()
	require.Len(t, items, 1)
	assert.Equal(t, feed.StatusConfirmed, items[0].Status)

	m, _ = m.Update(nextResult(t, m.poller))
	items = m.Messages()
	require.Len(t, items, 2, "server copy replaces the confirmed local record")
	assert.Equal(t, "welcome", items[0].Value.Body)
	assert.Equal(t, "hello", items[1].Value.Body)
	assert.Equal(t, "10:32:00 AM", items[1].Value.Time)
	for _, it := range items {
		assert.False(t, it.Local())
	}
	assert.Equal(t, []map[string]string{{"channel": "general", "content": "hello", "type": "text"}}, srv.Sent())

	cached, err := m.deps.Local.CachedMessages("general")
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestCommunityFailedSendRetry(t *testing.T) {
	srv := newChatServer()
	srv.failPost.Store(true)
	m, _ := newCommunity(t, srv)

	m, sent := typeAndSend(t, m, "flaky")
	require.Error(t, sent.err)
	m, cmd := m.Update(sent)
	st, ok := findStatus(t, cmd)
	require.True(t, ok)
	assert.True(t, st.err)

	items := m.Messages()
	require.Len(t, items, 1)
	assert.Equal(t, feed.StatusFailed, items[0].Status)
	assert.Contains(t, m.renderMessages(), "not sent")

	srv.failPost.Store(false)
	m, cmd = m.Update(key("ctrl+r"))
	require.NotNil(t, cmd)
	assert.Equal(t, feed.StatusPending, m.Messages()[0].Status)

	m, _ = m.Update(run(t, cmd))
	assert.Equal(t, feed.StatusConfirmed, m.Messages()[0].Status)
	assert.EqualValues(t, 2, srv.posts.Load())
}

func TestCommunityDismissFailed(t *testing.T) {
	srv := newChatServer()
	srv.failPost.Store(true)
	m, _ := newCommunity(t, srv)

	m, sent := typeAndSend(t, m, "gone")
	m, _ = m.Update(sent)
	require.Len(t, m.Messages(), 1)

	m, _ = m.Update(key("ctrl+d"))
	assert.Empty(t, m.Messages())
}

func TestCommunityFailedSurvivesReconcile(t *testing.T) {
	srv := newChatServer()
	srv.failPost.Store(true)
	m, _ := newCommunity(t, srv)

	m, sent := typeAndSend(t, m, "stuck")
	m, _ = m.Update(sent)
	m, _ = m.Update(nextResult(t, m.poller))

	items := m.Messages()
	require.Len(t, items, 2)
	assert.Equal(t, "welcome", items[0].Value.Body)
	assert.True(t, items[1].Local())
	assert.Equal(t, feed.StatusFailed, items[1].Status)
}

func TestCommunityRejectsStaleResults(t *testing.T) {
	srv := newChatServer()
	m, _ := newCommunity(t, srv)

	m, _ = m.Update(nextResult(t, m.poller))
	require.Len(t, m.Messages(), 1)

	m, _ = m.Update(poll.Result[[]types.Message]{
		Poller: "community", Key: "go", Seq: 1000,
		Value: []types.Message{{ID: "x", Body: "wrong channel"}},
	})
	m, _ = m.Update(poll.Result[[]types.Message]{
		Poller: "community", Key: "general", Seq: 1,
		Value: []types.Message{{ID: "y", Body: "older than the channel switch"}},
	})
	require.Len(t, m.Messages(), 1)
	assert.Equal(t, "welcome", m.Messages()[0].Value.Body)
}

func TestCommunityChannelSwitchResets(t *testing.T) {
	srv := newChatServer()
	m, deps := newCommunity(t, srv)

	m, _ = m.Update(nextResult(t, m.poller))
	m.selectChannel("go")
	assert.Equal(t, "go", m.Channel())
	assert.Empty(t, m.Messages())
	assert.Equal(t, "go", deps.Local.GetString(store.KeyLastChannel, ""))

	m, _ = m.Update(nextResult(t, m.poller))
	require.Len(t, m.Messages(), 1)
	assert.Equal(t, "gophers", m.Messages()[0].Value.Body)
}

func TestCommunityRestoresLastChannel(t *testing.T) {
	srv := newChatServer()
	deps := newTestDeps(t, srv)
	require.NoError(t, deps.Local.Set(store.KeyLastChannel, "go"))

	m := NewCommunityPage(deps)
	t.Cleanup(m.Close)
	chs, err := deps.Client.Channels(deps.ctx())
	require.NoError(t, err)
	m, _ = m.Update(channelsLoadedMsg{channels: chs})
	assert.Equal(t, "go", m.Channel())
}

func TestCommunityEmptyBodyIgnored(t *testing.T) {
	srv := newChatServer()
	m, _ := newCommunity(t, srv)

	m.input.SetValue("   ")
	m, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Messages())
}

func TestCommunityResizeKeysPersist(t *testing.T) {
	srv := newChatServer()
	m, _ := newCommunity(t, srv)

	before := m.split.Ratio()
	m, _ = m.Update(key("ctrl+right"))
	assert.InDelta(t, before+0.05, m.split.Ratio(), 1e-9)
	last, ok := m.persist.Last()
	assert.True(t, ok)
	assert.InDelta(t, m.split.Ratio(), last, 1e-9)
}

func TestCommunityAddressesChannelsByName(t *testing.T) {
	srv := newChatServer()
	m, deps := newCommunity(t, srv)

	r := nextResult(t, m.poller)
	assert.Equal(t, "general", r.Key)
	m, _ = m.Update(r)
	require.Len(t, m.Messages(), 1)
	assert.Equal(t, "Lin", m.Messages()[0].Value.Author)
	assert.Equal(t, "10:30:00 AM", m.Messages()[0].Value.Time)
	assert.Contains(t, m.renderMessages(), "10:30:00 AM")

	m, sent := typeAndSend(t, m, "hi")
	require.NoError(t, sent.err)
	assert.Equal(t, []map[string]string{{"channel": "general", "content": "hi", "type": "text"}}, srv.Sent())

	m.selectChannel("go")
	assert.Equal(t, "go", deps.Local.GetString(store.KeyLastChannel, ""))
	cached, err := deps.Local.CachedMessages("general")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "10:30:00 AM", cached[0].Time)
}

func TestCommunityRendersCodeAndFileMessages(t *testing.T) {
	srv := newChatServer()
	srv.messages["general"] = append(srv.messages["general"],
		map[string]any{"id": "3", "user": "Kim", "content": "x := 1", "time": "10:40:00 AM", "type": "code", "language": "go", "channel": "general"},
		map[string]any{"id": "4", "user": "Kim", "content": "notes.pdf", "size": "2 MB", "time": "10:41:00 AM", "type": "file", "channel": "general"},
	)
	m, _ := newCommunity(t, srv)
	m, _ = m.Update(nextResult(t, m.poller))

	out := m.renderMessages()
	assert.Contains(t, out, "[go] x := 1")
	assert.Contains(t, out, "notes.pdf (2 MB)")
}
