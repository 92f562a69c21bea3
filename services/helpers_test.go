package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/mailer"
	"hotel-backoffice/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: "User " + email, Email: email, Password: "x", Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRoomType(t *testing.T, db *gorm.DB, name string, price float64) *models.RoomType {
	t.Helper()
	rt := &models.RoomType{Name: name, BasePrice: price, Capacity: 2, IsAvailable: true}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

func seedRoom(t *testing.T, db *gorm.DB, number string, rt *models.RoomType, price float64) *models.Room {
	t.Helper()
	r := &models.Room{RoomNumber: number, Floor: "1", RoomTypeID: rt.ID, Status: models.RoomAvailable, CurrentPrice: price}
	require.NoError(t, db.Create(r).Error)
	return r
}

func roomStatus(t *testing.T, db *gorm.DB, id uint) models.RoomStatus {
	t.Helper()
	var r models.Room
	require.NoError(t, db.First(&r, id).Error)
	return r.Status
}

// fakeMailQueue records enqueued messages.
type fakeMailQueue struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (q *fakeMailQueue) Enqueue(msg mailer.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func (q *fakeMailQueue) sent() []mailer.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mailer.Message(nil), q.msgs...)
}
