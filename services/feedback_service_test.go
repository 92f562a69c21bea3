package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedStay(t *testing.T, db *gorm.DB, guest *models.User, room *models.Room, ref string, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{ReferenceCode: ref, GuestID: guest.ID, RoomID: room.ID,
		CheckIn: day("2025-01-01"), CheckOut: day("2025-01-02"), Status: status, Adults: 1}
	require.NoError(t, db.Create(b).Error)
	return b
}

func TestSubmitFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()
	rt := seedRoomType(t, db, "Standard", 80)
	room := seedRoom(t, db, "101", rt, 80)
	guest := seedUser(t, db, "g@example.com", models.RoleGuest)
	stranger := seedUser(t, db, "s@example.com", models.RoleGuest)

	stay := seedStay(t, db, guest, room, "AAAA-0001", models.BookingCheckedOut)
	upcoming := seedStay(t, db, guest, room, "AAAA-0002", models.BookingReserved)

	fb, err := svc.Submit(ctx, guest.ID, stay.ID, 5, "  Lovely  ")
	require.NoError(t, err)
	assert.Equal(t, "Lovely", fb.Comment)
	assert.False(t, fb.SubmittedAt.IsZero())

	_, err = svc.Submit(ctx, guest.ID, stay.ID, 4, "again")
	assert.True(t, IsKind(err, KindConflict))

	_, err = svc.Submit(ctx, guest.ID, upcoming.ID, 4, "")
	require.True(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "valid booking not found")

	_, err = svc.Submit(ctx, stranger.ID, stay.ID, 4, "")
	assert.True(t, IsKind(err, KindNotFound))

	for _, rating := range []int{0, 6} {
		_, err = svc.Submit(ctx, guest.ID, stay.ID, rating, "")
		assert.True(t, IsKind(err, KindValidation), rating)
	}
	_, err = svc.Submit(ctx, guest.ID, stay.ID, 3, strings.Repeat("é", 501))
	assert.True(t, IsKind(err, KindValidation))
}

func TestFeedbackStatsAndPaging(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()
	rt := seedRoomType(t, db, "Standard", 80)
	room := seedRoom(t, db, "101", rt, 80)
	guest := seedUser(t, db, "g@example.com", models.RoleGuest)

	empty, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Total)
	assert.Equal(t, 0.0, empty.AverageRating)
	assert.Len(t, empty.Distribution, 5)

	for i, rating := range []int{5, 4, 5} {
		stay := seedStay(t, db, guest, room, fmt.Sprintf("BBBB-%04d", i), models.BookingCheckedOut)
		_, err := svc.Submit(ctx, guest.ID, stay.ID, rating, "")
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, 4.67, stats.AverageRating)
	assert.Equal(t, int64(2), stats.Distribution["5"])
	assert.Equal(t, int64(1), stats.Distribution["4"])
	assert.Equal(t, int64(0), stats.Distribution["1"])

	page, total, err := svc.List(ctx, FeedbackFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	second, _, err := svc.List(ctx, FeedbackFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, second, 1)

	fives, total, err := svc.List(ctx, FeedbackFilter{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, fives, 2)

	require.NoError(t, svc.Delete(ctx, fives[0].ID))
	_, err = svc.Get(ctx, fives[0].ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestFeedbackFilterNormalize(t *testing.T) {
	f := FeedbackFilter{}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.Limit)

	f = FeedbackFilter{Page: 3, Limit: 1000}
	f.Normalize()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 100, f.Limit)
}
