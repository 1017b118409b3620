package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_ExpiresAfterInactivity(t *testing.T) {
	var fired atomic.Int32
	m := NewMonitor(Config{Timeout: 30 * time.Millisecond, OnExpire: func() { fired.Add(1) }})
	m.Start()
	defer m.Stop()

	require.Eventually(t, m.Expired, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestMonitor_TouchKeepsAlive(t *testing.T) {
	var fired atomic.Int32
	m := NewMonitor(Config{Timeout: 80 * time.Millisecond, OnExpire: func() { fired.Add(1) }})
	m.Start()
	defer m.Stop()

	for i := 0; i < 6; i++ {
		time.Sleep(20 * time.Millisecond)
		m.Touch(ActivityKey)
	}
	assert.False(t, m.Expired())
	assert.Equal(t, int32(0), fired.Load())

	require.Eventually(t, m.Expired, time.Second, 5*time.Millisecond)
}

func TestMonitor_UnknownActivityIgnored(t *testing.T) {
	m := NewMonitor(Config{Timeout: time.Hour})
	m.Start()
	defer m.Stop()

	before := m.LastActivity()
	time.Sleep(2 * time.Millisecond)
	m.Touch("wiggle")
	assert.Equal(t, before, m.LastActivity())

	m.Touch(ActivityScroll)
	assert.True(t, m.LastActivity().After(before))
}

func TestMonitor_GuestExempt(t *testing.T) {
	var fired atomic.Int32
	m := NewMonitor(Config{
		Timeout:  20 * time.Millisecond,
		OnExpire: func() { fired.Add(1) },
		IsGuest:  func() bool { return true },
	})
	m.Start()
	defer m.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, m.Expired())
	assert.Equal(t, int32(0), fired.Load())
}

func TestMonitor_StopPreventsExpiry(t *testing.T) {
	var fired atomic.Int32
	m := NewMonitor(Config{Timeout: 20 * time.Millisecond, OnExpire: func() { fired.Add(1) }})
	m.Start()
	m.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, m.Expired())
	assert.Equal(t, int32(0), fired.Load())
}

func TestMonitor_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewMonitor(Config{}).Timeout())
}

func TestParseActivity(t *testing.T) {
	a, err := ParseActivity(" Click ")
	require.NoError(t, err)
	assert.Equal(t, ActivityClick, a)

	_, err = ParseActivity("hover")
	assert.Error(t, err)
}

func TestAlive(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, Alive(now.Add(-29*time.Minute), now, 0))
	assert.False(t, Alive(now.Add(-31*time.Minute), now, 0))
	assert.False(t, Alive(time.Time{}, now, time.Hour))
	assert.True(t, Alive(now.Add(-2*time.Hour), now, 3*time.Hour))
}
