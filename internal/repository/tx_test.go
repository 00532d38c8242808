package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'c1-2025-06-10-18:00-1' for key 'uq_slot'"}

	if !isDuplicateEntry(dup) {
		t.Error("error 1062 not recognised as a duplicate entry")
	}
	if !isDuplicateEntry(fmt.Errorf("insert booking: %w", dup)) {
		t.Error("wrapped error 1062 not recognised")
	}
	if isDuplicateEntry(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}) {
		t.Error("a different MySQL error treated as duplicate entry")
	}
	if isDuplicateEntry(errors.New("Duplicate entry")) {
		t.Error("a non-MySQL error treated as duplicate entry")
	}
	if isDuplicateEntry(nil) {
		t.Error("nil treated as duplicate entry")
	}
}
