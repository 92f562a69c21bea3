package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNightsBetween(t *testing.T) {
	assert.Equal(t, 3, NightsBetween(day("2024-06-01"), day("2024-06-04")))
	assert.Equal(t, 1, NightsBetween(day("2024-06-01"), day("2024-06-02")))
	// partial days round up
	assert.Equal(t, 2, NightsBetween(day("2024-06-01"), day("2024-06-02").Add(3*time.Hour)))
	assert.Equal(t, 1, NightsBetween(day("2024-06-01").Add(14*time.Hour), day("2024-06-02").Add(11*time.Hour)))
	assert.Equal(t, 0, NightsBetween(day("2024-06-04"), day("2024-06-01")))
	assert.Equal(t, 0, NightsBetween(day("2024-06-04"), day("2024-06-04")))
}

func TestBookingDerive(t *testing.T) {
	b := Booking{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-04")}
	b.Derive(100)
	assert.Equal(t, 3, b.TotalNights)
	assert.Equal(t, 300.0, b.TotalAmount)

	b.CheckOut = day("2024-06-06")
	b.Derive(99.99)
	assert.Equal(t, 5, b.TotalNights)
	assert.Equal(t, 499.95, b.TotalAmount)
}
