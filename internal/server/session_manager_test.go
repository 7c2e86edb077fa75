package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	sm := NewSessionManager()
	t.Cleanup(sm.Stop)
	return sm
}

func TestSessionManager_CreateAndReconnect(t *testing.T) {
	t.Parallel()

	sm := newTestSessionManager(t)

	sess := sm.CreateSession("p1", "Alice")
	require.NotNil(t, sess)
	assert.Len(t, sess.ReconnectToken, 64) // 32 bytes hex
	assert.True(t, sess.IsOnline)

	assert.True(t, sm.CanReconnect(sess.ReconnectToken, "p1"))
	assert.False(t, sm.CanReconnect(sess.ReconnectToken, "p2"))
	assert.False(t, sm.CanReconnect("bogus-token", "p1"))
}

func TestSessionManager_OfflineWithinWindow(t *testing.T) {
	t.Parallel()

	sm := newTestSessionManager(t)
	sess := sm.CreateSession("p1", "Alice")

	sm.SetOffline("p1")
	assert.False(t, sm.GetSession("p1").IsOnline)

	// 刚断线，仍在重连时限内
	assert.True(t, sm.CanReconnect(sess.ReconnectToken, "p1"))

	sm.SetOnline("p1")
	assert.True(t, sm.GetSession("p1").IsOnline)
	assert.Equal(t, time.Time{}, sm.GetSession("p1").DisconnectedAt)
}

func TestSessionManager_RoomBinding(t *testing.T) {
	t.Parallel()

	sm := newTestSessionManager(t)
	sm.CreateSession("p1", "Alice")

	sm.SetRoom("p1", "ABC234")
	assert.Equal(t, "ABC234", sm.GetSession("p1").RoomCode)

	sm.SetRoom("p1", "")
	assert.Empty(t, sm.GetSession("p1").RoomCode)
}

func TestSessionManager_DeleteSession(t *testing.T) {
	t.Parallel()

	sm := newTestSessionManager(t)
	sess := sm.CreateSession("p1", "Alice")

	sm.DeleteSession("p1")
	assert.Nil(t, sm.GetSession("p1"))
	assert.False(t, sm.CanReconnect(sess.ReconnectToken, "p1"))

	// 重复删除不报错
	sm.DeleteSession("p1")
}

func TestSessionManager_CleanupExpired(t *testing.T) {
	t.Parallel()

	sm := newTestSessionManager(t)
	sess := sm.CreateSession("p1", "Alice")

	// 手动把断线时间拨回过期点之前
	sess.mu.Lock()
	sess.IsOnline = false
	sess.DisconnectedAt = time.Now().Add(-sessionExpireTime - time.Minute)
	sess.mu.Unlock()

	sm.cleanup()

	assert.Nil(t, sm.GetSession("p1"))
}
