package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"smartlight"
	"smartlight/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCommandSQLite_Enqueue_InsertsEachCommandInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewCommandSQLite(db)

	cmds := []smartlight.DeviceCommand{
		{DeviceID: "ND_01", Brightness: 100},
		{DeviceID: "ND_02", Brightness: 0},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO device_commands")).
		WithArgs("GW_01", "ND_01", 100, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO device_commands")).
		WithArgs("GW_01", "ND_02", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.Enqueue(context.Background(), "GW_01", cmds); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_Enqueue_EmptySliceIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewCommandSQLite(db)

	// No expectations set: the DB must not be touched.
	if err := repo.Enqueue(context.Background(), "GW_01", nil); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_Enqueue_InsertErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewCommandSQLite(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO device_commands")).
		WithArgs("GW_01", "ND_01", 100, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = repo.Enqueue(context.Background(), "GW_01", []smartlight.DeviceCommand{
		{DeviceID: "ND_01", Brightness: 100},
	})
	if err == nil {
		t.Fatalf("Enqueue() expected error, got nil")
	}
}

func TestCommandSQLite_Drain_ReturnsAndDeletesQueued(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewCommandSQLite(db)

	rows := sqlmock.NewRows([]string{"device_id", "brightness"}).
		AddRow("ND_01", 100).
		AddRow("ND_02", 0)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT device_id, brightness FROM device_commands")).
		WithArgs("GW_01").
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM device_commands")).
		WithArgs("GW_01").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	got, err := repo.Drain(context.Background(), "GW_01")
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	want := []smartlight.DeviceCommand{
		{DeviceID: "ND_01", Brightness: 100},
		{DeviceID: "ND_02", Brightness: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Drain() got=%v want=%v", got, want)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_Drain_EmptyQueueSkipsDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewCommandSQLite(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT device_id, brightness FROM device_commands")).
		WithArgs("GW_01").
		WillReturnRows(sqlmock.NewRows([]string{"device_id", "brightness"}))
	mock.ExpectCommit()

	got, err := repo.Drain(context.Background(), "GW_01")
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Drain() expected empty non-nil slice, got %v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_QueueDepths(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewCommandSQLite(db)

	rows := sqlmock.NewRows([]string{"gateway_mac", "count"}).
		AddRow("GW_01", 3).
		AddRow("GW_02", 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT gateway_mac, COUNT(*) FROM device_commands")).
		WillReturnRows(rows)

	got, err := repo.QueueDepths(context.Background())
	if err != nil {
		t.Fatalf("QueueDepths() error = %v", err)
	}
	if got["GW_01"] != 3 || got["GW_02"] != 1 || len(got) != 2 {
		t.Fatalf("QueueDepths() unexpected map: %v", got)
	}
}
