package sqlstore

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hexfront/engine/internal/journal"
	"github.com/hexfront/engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSession = uuid.MustParse("0d5c2c7e-3f7a-4f1e-8b1a-5e2f9c4d6a10")

func newTestBackend(t *testing.T, batchSize int) *Backend {
	t.Helper()
	db, err := Open(Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	b := New(Dependencies{DB: db, Config: Config{BatchSize: batchSize}})
	require.NoError(t, b.Init())
	require.NoError(t, b.StartGame(journal.Game{
		Session:   testSession,
		MapName:   "map05",
		Players:   2,
		GameType:  model.SingleVsAI,
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}))
	return b
}

func TestBackend_StartGame(t *testing.T) {
	b := newTestBackend(t, 10)

	var game GameRow
	require.NoError(t, b.DB().First(&game, "session = ?", testSession.String()).Error)
	assert.Equal(t, "map05", game.MapName)
	assert.Equal(t, "SingleVsAI", game.GameType)
}

func TestBackend_BuffersUntilFlush(t *testing.T) {
	b := newTestBackend(t, 10)

	require.NoError(t, b.RecordEvent(journal.Event{
		Session: testSession,
		Seq:     1,
		Kind:    "end_turn",
		Payload: json.RawMessage(`{"oldId":1,"newId":0}`),
	}))
	require.NoError(t, b.RecordCommand(journal.Command{
		Session: testSession,
		Seq:     2,
		Player:  1,
		Kind:    "attack",
		Payload: json.RawMessage(`{"attackerId":3,"defenderId":4}`),
		Error:   "out of range",
	}))

	var count int64
	require.NoError(t, b.DB().Model(&EventRow{}).Count(&count).Error)
	assert.Zero(t, count, "records stay queued below the batch size")

	require.NoError(t, b.Close())

	var events []EventRow
	require.NoError(t, b.DB().Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "end_turn", events[0].Kind)
	assert.JSONEq(t, `{"oldId":1,"newId":0}`, string(events[0].Payload))

	var commands []CommandRow
	require.NoError(t, b.DB().Find(&commands).Error)
	require.Len(t, commands, 1)
	assert.Equal(t, "out of range", commands[0].Error)
	assert.Equal(t, 1, commands[0].Player)
}

func TestBackend_FlushesFullBatch(t *testing.T) {
	b := newTestBackend(t, 3)
	for seq := 1; seq <= 4; seq++ {
		require.NoError(t, b.RecordEvent(journal.Event{
			Session: testSession,
			Seq:     seq,
			Kind:    "move",
			Payload: json.RawMessage(`{}`),
		}))
	}

	var count int64
	require.NoError(t, b.DB().Model(&EventRow{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	require.NoError(t, b.Flush())
	require.NoError(t, b.DB().Model(&EventRow{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestBackend_InitOpensOwnConnection(t *testing.T) {
	b := New(Dependencies{Config: Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "own.db")}})
	require.NoError(t, b.Init())
	assert.True(t, b.DB().Migrator().HasTable(&EventRow{}))
	require.NoError(t, b.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	assert.Error(t, err)
}
