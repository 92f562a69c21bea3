package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStoreErrorClassification(t *testing.T) {
	assert.Nil(t, storeError(nil, "room"))
	assert.True(t, IsKind(storeError(gorm.ErrRecordNotFound, "room"), KindNotFound))
	assert.True(t, IsKind(storeError(gorm.ErrDuplicatedKey, "room"), KindConflict))
	assert.True(t, IsKind(storeError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '101'"}, "room"), KindConflict))
	assert.True(t, IsKind(storeError(&mysql.MySQLError{Number: 1452}, "booking"), KindValidation))
	assert.True(t, isForeignKeyError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}))
	assert.False(t, isForeignKeyError(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsKind(storeError(errors.New("UNIQUE constraint failed: rooms.room_number"), "room"), KindConflict))

	wrapped := storeError(errors.New("connection reset"), "room")
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorContains(t, wrapped, "connection reset")

	original := NotFoundf("booking not found")
	assert.Same(t, original, storeError(original, "invoice"))
}

func TestErrorFormatting(t *testing.T) {
	err := Validationf("checkOut must be after checkIn")
	assert.Equal(t, "ValidationError: checkOut must be after checkIn", err.Error())

	inner := errors.New("boom")
	wrapped := fmt.Errorf("outer: %w", &Error{Kind: KindConflict, Message: "dup", Err: inner})
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.ErrorIs(t, wrapped, inner)
	assert.False(t, IsKind(nil, KindConflict))
}
