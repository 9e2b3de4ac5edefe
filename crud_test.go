package mro

import (
	"strings"
	"testing"

	"github.com/brushtech/mro/qb"
)

func TestInsertSQL(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{}

	sq, args, err := users.Query(db).InsertSQL(qb.H{"hash": "1234", "username": "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Declaration order, not map order.
	if sq != "INSERT INTO `users` (`username`, `hash`) VALUES (?, ?)" {
		t.Errorf("wrong statement: %s", sq)
	}
	if len(args) != 2 || args[0] != "bob" || args[1] != "1234" {
		t.Errorf("wrong args: %v", args)
	}
}

func TestInsertMultiSQL(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{}

	sq, args, err := users.Query(db).InsertMultiSQL([]qb.H{
		{"username": "abby", "hash": "h1"},
		{"username": "abel", "hash": "h2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sq != "INSERT INTO `users` (`username`, `hash`) VALUES (?, ?), (?, ?)" {
		t.Errorf("wrong statement: %s", sq)
	}
	want := []any{"abby", "h1", "abel", "h2"}
	if len(args) != len(want) {
		t.Fatalf("args = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestInsertSQLErrors(t *testing.T) {
	users := testSchema(t)

	if _, _, err := users.Query(&fakeDB{}).InsertSQL(qb.H{}); err == nil {
		t.Error("expected error for empty insert")
	}
	if _, _, err := users.Query(&fakeDB{}).InsertSQL(qb.H{"nope": 1}); err == nil {
		t.Error("expected error for undeclared column")
	}
	if _, _, err := users.Query(&fakeDB{}).InsertMultiSQL(nil); err == nil {
		t.Error("expected error for no rows")
	}
}

func TestRecordInsertAssignsKey(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{lastID: 7}

	rec, err := users.NewRecord(qb.H{"username": "bob", "hash": "1234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = rec.Insert(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query, args := db.lastQuery(t)
	if query != "INSERT INTO `users` (`username`, `hash`) VALUES (?, ?)" {
		t.Errorf("wrong statement: %s", query)
	}
	if len(args) != 2 {
		t.Errorf("wrong args: %v", args)
	}
	if got := rec.GetInt("id"); got != 7 {
		t.Errorf("expected assigned id 7, got %d", got)
	}
}

func TestInsertNeverSendsPrimaryKey(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{lastID: 9}

	rec, err := users.NewRecord(qb.H{"id": int64(3), "username": "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = rec.Insert(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query, _ := db.lastQuery(t)
	if strings.Contains(query, "`id`") {
		t.Errorf("insert must not name the primary key: %s", query)
	}
}

func TestUpdateSQL(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{}

	sq, args, err := users.Query(db).
		Where(qb.Eq("id", 5)).
		UpdateSQL(qb.H{"hash": "zzzz", "username": "bill"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sq != "UPDATE `users` SET `users`.`username` = ?, `users`.`hash` = ? WHERE `users`.`id` = ?" {
		t.Errorf("wrong statement: %s", sq)
	}
	if len(args) != 3 || args[0] != "bill" || args[1] != "zzzz" || args[2] != 5 {
		t.Errorf("wrong args: %v", args)
	}
}

func TestUpdateRefusesWithoutWhere(t *testing.T) {
	users := testSchema(t)

	if _, _, err := users.Query(&fakeDB{}).UpdateSQL(qb.H{"hash": "x"}); err == nil {
		t.Error("expected error for whereless update")
	}
}

func TestRecordUpdate(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{}

	rec, err := users.NewRecord(qb.H{"id": int64(5), "username": "bill"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = rec.Update(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query, args := db.lastQuery(t)
	if query != "UPDATE `users` SET `users`.`username` = ? WHERE `users`.`id` = ?" {
		t.Errorf("wrong statement: %s", query)
	}
	if len(args) != 2 || args[0] != "bill" || args[1] != int64(5) {
		t.Errorf("wrong args: %v", args)
	}
}

func TestRecordUpdateWithoutKey(t *testing.T) {
	users := testSchema(t)

	rec, _ := users.NewRecord(qb.H{"username": "bill"})
	if err := rec.Update(&fakeDB{}); err == nil {
		t.Error("expected error updating a record with no key")
	}
}

func TestRecordUpdateNothingSet(t *testing.T) {
	users := testSchema(t)
	db := &fakeDB{}

	rec, _ := users.NewRecord(qb.H{"id": int64(5)})
	if err := rec.Update(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.queries) != 0 {
		t.Errorf("key-only update should be a no-op, ran %v", db.queries)
	}
}

func TestSaveChoosesInsertOrUpdate(t *testing.T) {
	users := testSchema(t)

	t.Run("no key inserts", func(t *testing.T) {
		db := &fakeDB{lastID: 1}
		rec, _ := users.NewRecord(qb.H{"username": "bob"})
		if err := rec.Save(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, _ := db.lastQuery(t)
		if !strings.HasPrefix(query, "INSERT") {
			t.Errorf("expected INSERT, got %s", query)
		}
	})

	t.Run("key updates", func(t *testing.T) {
		db := &fakeDB{}
		rec, _ := users.NewRecord(qb.H{"id": int64(5), "username": "bill"})
		if err := rec.Save(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, _ := db.lastQuery(t)
		if !strings.HasPrefix(query, "UPDATE") {
			t.Errorf("expected UPDATE, got %s", query)
		}
	})
}

func TestDeleteSQL(t *testing.T) {
	users := testSchema(t)

	sq, args, err := users.Query(&fakeDB{}).Where(qb.Eq("id", 5)).DeleteSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sq != "DELETE FROM `users` WHERE `users`.`id` = ?" {
		t.Errorf("wrong statement: %s", sq)
	}
	if len(args) != 1 || args[0] != 5 {
		t.Errorf("wrong args: %v", args)
	}
}

func TestDeleteRefusesWithoutWhere(t *testing.T) {
	users := testSchema(t)

	if _, _, err := users.Query(&fakeDB{}).DeleteSQL(); err == nil {
		t.Error("expected error for whereless delete")
	}
}

func TestRecordDeleteWithoutKey(t *testing.T) {
	users := testSchema(t)

	rec, _ := users.NewRecord(qb.H{"username": "bob"})
	if err := rec.Delete(&fakeDB{}); err == nil {
		t.Error("expected error deleting a record that was never saved")
	}
}
