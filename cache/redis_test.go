package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/ZaguanLabs/teamtl"
)

func TestRedisStore_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")
	want := testRecord("7", "es", "Founded in 1970.", "Fundado en 1970.")
	data, _ := encodeRecord(want)

	mock.ExpectGet("test:7:es").SetVal(string(data))

	rec, err := s.Get(context.Background(), teamtl.CacheKey{EntityID: "7", TargetLang: "es"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec == nil || rec.SourceText != want.SourceText || rec.TranslatedText != want.TranslatedText {
		t.Errorf("Get returned %+v", rec)
	}
	if !rec.ComputedAt.Equal(want.ComputedAt) {
		t.Errorf("ComputedAt = %v, want %v", rec.ComputedAt, want.ComputedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectGet("test:7:es").RedisNil()

	rec, err := s.Get(context.Background(), teamtl.CacheKey{EntityID: "7", TargetLang: "es"})
	if err != nil || rec != nil {
		t.Errorf("Get on missing key = %v, %v; want nil, nil", rec, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectGet("test:7:es").SetErr(errors.New("connection refused"))

	if _, err := s.Get(context.Background(), teamtl.CacheKey{EntityID: "7", TargetLang: "es"}); err == nil {
		t.Error("Expected connection error to surface")
	}
}

func TestRedisStore_Get_Malformed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectGet("test:7:es").SetVal("not json")

	if _, err := s.Get(context.Background(), teamtl.CacheKey{EntityID: "7", TargetLang: "es"}); err == nil {
		t.Error("Expected malformed record error")
	}
}

func TestRedisStore_Put(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 3600, "test:")
	rec := testRecord("7", "es", "Founded in 1970.", "Fundado en 1970.")
	data, _ := encodeRecord(rec)

	mock.ExpectSet("test:7:es", data, 3600*time.Second).SetVal("OK")

	if err := s.Put(context.Background(), rec); err != nil {
		t.Errorf("Put failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Put_NoRetention(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "")
	rec := testRecord("7", "fr", "a", "b")
	data, _ := encodeRecord(rec)

	mock.ExpectSet(DefaultKeyPrefix+"7:fr", data, 0).SetVal("OK")

	if err := s.Put(context.Background(), rec); err != nil {
		t.Errorf("Put failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Records(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")
	es, _ := encodeRecord(testRecord("7", "es", "a", "b"))

	mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:7:es", "test:7:fr"}, 0)
	mock.ExpectGet("test:7:es").SetVal(string(es))
	mock.ExpectGet("test:7:fr").SetVal("garbage")

	records, err := s.Records(context.Background())
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 1 || records[0].TargetLang != "es" {
		t.Errorf("Records = %+v, want only the es record", records)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
