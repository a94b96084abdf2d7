package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedUpdate(n int) Update {
	ua := fmt.Sprintf("client-%d", n)
	return Update{
		TS:   time.Date(2026, 1, 1, 0, 0, n, 0, time.UTC),
		Meta: Meta{UserAgent: &ua},
	}
}

func TestUpdateBuffer_Empty(t *testing.T) {
	b := NewUpdateBuffer(10)

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Snapshot())

	_, ok := b.Latest()
	assert.False(t, ok)
}

func TestUpdateBuffer_AppendBelowCapacity(t *testing.T) {
	b := NewUpdateBuffer(10)

	for i := 0; i < 7; i++ {
		b.Append(numberedUpdate(i))
	}

	assert.Equal(t, 7, b.Len())

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, numberedUpdate(6).TS, latest.TS)

	snap := b.Snapshot()
	require.Len(t, snap, 7)
	for i, u := range snap {
		assert.Equal(t, numberedUpdate(i).TS, u.TS, "position %d out of order", i)
	}
}

func TestUpdateBuffer_EvictsOldestAtCapacity(t *testing.T) {
	const capacity = 10
	b := NewUpdateBuffer(capacity)

	// 25 appends into a 10-slot buffer leave exactly updates 15..24
	for i := 0; i < 25; i++ {
		b.Append(numberedUpdate(i))
	}

	assert.Equal(t, capacity, b.Len())

	snap := b.Snapshot()
	require.Len(t, snap, capacity)
	for i, u := range snap {
		assert.Equal(t, numberedUpdate(15+i).TS, u.TS, "position %d out of order", i)
	}

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, numberedUpdate(24).TS, latest.TS)
}

func TestUpdateBuffer_SnapshotIsACopy(t *testing.T) {
	b := NewUpdateBuffer(5)
	b.Append(numberedUpdate(0))

	snap := b.Snapshot()
	b.Append(numberedUpdate(1))

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, b.Len())
}

func TestUpdateBuffer_DefaultCapacity(t *testing.T) {
	b := NewUpdateBuffer(0)
	assert.Equal(t, DefaultMaxUpdates, b.Cap())
}
