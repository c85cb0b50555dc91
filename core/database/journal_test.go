package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLiteJournal(t *testing.T) *Journal {
	t.Helper()
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	j := NewJournal(db)
	require.NoError(t, j.Migrate(context.Background()))
	return j
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestJournal_RecordAndList(t *testing.T) {
	j := setupSQLiteJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := j.Record(ctx, &RunRecord{
			RunID:      fmt.Sprintf("run-%d", i),
			Profile:    "classic",
			Status:     StatusSucceeded,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
			Sources:    10,
			Created:    i,
		})
		require.NoError(t, err)
	}

	runs, err := j.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID, "Newest first")
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, 2, runs[0].Created)

	all, err := j.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestJournal_DuplicateRunID(t *testing.T) {
	j := setupSQLiteJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, &RunRecord{RunID: "same", Status: StatusFailed, StartedAt: time.Now()}))
	err := j.Record(ctx, &RunRecord{RunID: "same", Status: StatusFailed, StartedAt: time.Now()})
	assert.ErrorContains(t, err, "failed to record run same")
}

func TestJournal_RecordMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	j := NewJournal(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sync_runs`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	rec := &RunRecord{RunID: "abc", Status: StatusSucceeded, StartedAt: time.Now()}
	require.NoError(t, j.Record(context.Background(), rec))
	assert.Equal(t, uint(7), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_ListMySQLError(t *testing.T) {
	db, mock := setupMockDB(t)
	j := NewJournal(db)

	mock.ExpectQuery("SELECT \\* FROM `sync_runs`").WillReturnError(errors.New("connection lost"))

	_, err := j.ListRecent(context.Background(), 5)
	assert.ErrorContains(t, err, "connection lost")
	assert.NoError(t, mock.ExpectationsWereMet())
}
