package save

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noughts-local/testing/suite"
)

func TestRedisStore_SaveLoad(t *testing.T) {
	ctx, st := suite.New(t)

	store := NewRedisStore(st.Redis)

	// Given: a game saved to Redis
	slot, err := store.Save(ctx, sampleGame())
	require.NoError(t, err)

	// When: it is loaded
	got, err := store.Load(ctx, slot)

	// Then: it matches the saved game
	require.NoError(t, err)
	assert.Equal(t, sampleGame().Noughts, got.Noughts)
	assert.Equal(t, sampleGame().Crosses, got.Crosses)
	assert.True(t, sampleGame().SavedAt.Equal(got.SavedAt))
}

func TestRedisStore_NeverOverwrites(t *testing.T) {
	ctx, st := suite.New(t)

	store := NewRedisStore(st.Redis)

	slot1, err := store.Save(ctx, sampleGame())
	require.NoError(t, err)
	slot2, err := store.Save(ctx, sampleGame())
	require.NoError(t, err)

	assert.NotEqual(t, slot1, slot2)
	assert.Equal(t, slot1+"-2", slot2)
}

func TestRedisStore_IndexFailureLeavesNoSlot(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: an index key of the wrong type, so ZADD fails after SETNX
	require.NoError(t, st.Redis.Set(ctx, indexKey, "not a sorted set", 0).Err())

	// When: a game is saved
	_, err := NewRedisStore(st.Redis).Save(ctx, sampleGame())

	// Then: the save fails and the slot key is removed again
	require.Error(t, err)
	n, err := st.Redis.Exists(ctx, keyPrefix+slotName(sampleGame().SavedAt, 1)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStore_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	_, err := NewRedisStore(st.Redis).Load(ctx, "save-Jan-01-00-00-00")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Corrupt(t *testing.T) {
	ctx, st := suite.New(t)

	require.NoError(t, st.Redis.Set(ctx, keyPrefix+"broken", "{", 0).Err())

	_, err := NewRedisStore(st.Redis).Load(ctx, "broken")
	require.ErrorIs(t, err, ErrCorruptSave)
}

func TestRedisStore_List(t *testing.T) {
	ctx, st := suite.New(t)

	store := NewRedisStore(st.Redis)

	older := sampleGame()
	newer := sampleGame()
	newer.SavedAt = older.SavedAt.Add(time.Minute)

	_, err := store.Save(ctx, older)
	require.NoError(t, err)
	newSlot, err := store.Save(ctx, newer)
	require.NoError(t, err)

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, newSlot, infos[0].Slot)
}
