package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) *time.Time {
	t := time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestWorkingHours(t *testing.T) {
	a := Attendance{Date: day, CheckIn: at(9, 0), CheckOut: at(17, 30)}
	assert.True(t, decimal.NewFromFloat(8.5).Equal(a.WorkingHours()), a.WorkingHours().String())

	a = Attendance{Date: day, CheckIn: at(9, 0), CheckOut: at(9, 20)}
	assert.Equal(t, "0.33", a.WorkingHours().StringFixed(2))

	a = Attendance{Date: day, CheckIn: at(9, 0)}
	assert.True(t, a.WorkingHours().IsZero())

	a = Attendance{Date: day, CheckOut: at(17, 0)}
	assert.True(t, a.WorkingHours().IsZero())

	a = Attendance{Date: day, CheckIn: at(17, 0), CheckOut: at(9, 0)}
	assert.True(t, a.WorkingHours().IsZero())
}

func TestPercentage(t *testing.T) {
	assert.True(t, Percentage(0, 0).IsZero())
	assert.True(t, decimal.NewFromInt(70).Equal(Percentage(7, 10)))
	assert.Equal(t, "66.67", Percentage(2, 3).StringFixed(2))
	assert.True(t, decimal.NewFromInt(100).Equal(Percentage(4, 4)))
}

func TestSummarize(t *testing.T) {
	rows := []Attendance{
		{Status: StatusPresent, CheckIn: at(9, 0), CheckOut: at(17, 0)},
		{Status: StatusPresent, CheckIn: at(9, 0), CheckOut: at(13, 30)},
		{Status: StatusAbsent},
		{Status: StatusOnLeave},
	}
	s := Summarize(rows)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByStatus[StatusPresent])
	assert.Equal(t, 1, s.ByStatus[StatusAbsent])
	assert.Equal(t, "12.50", s.WorkingHours.StringFixed(2))
	assert.True(t, decimal.NewFromInt(50).Equal(s.Percentage()))

	empty := Summarize(nil)
	assert.True(t, empty.Percentage().IsZero())
}

func TestSelfMarkRequest_Validate(t *testing.T) {
	in, out := "09:00", "17:30"
	req := SelfMarkRequest{CheckIn: &in, CheckOut: &out}
	require.NoError(t, req.Validate(day))

	times := req.Times()
	assert.Equal(t, day, times.Date)
	require.NotNil(t, times.CheckIn)
	assert.Equal(t, *at(9, 0), *times.CheckIn)
	assert.Equal(t, *at(17, 30), *times.CheckOut)

	early := "08:00"
	bad := SelfMarkRequest{CheckIn: &in, CheckOut: &early}
	assert.Error(t, bad.Validate(day))

	garbage := "9am"
	bad = SelfMarkRequest{CheckIn: &garbage}
	assert.Error(t, bad.Validate(day))
}

func TestMarkAttendanceRequest_Validate(t *testing.T) {
	req := MarkAttendanceRequest{UserID: "u1", Date: "2026-03-10", Status: "Half Day"}
	require.NoError(t, req.Validate())
	assert.Equal(t, day, req.Times().Date)
	assert.Nil(t, req.Times().CheckIn)

	bad := MarkAttendanceRequest{Date: "2026-3-10", Status: "Late"}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
	assert.Contains(t, err.Error(), "status")
	assert.Contains(t, err.Error(), "date")
}

func TestToResponse(t *testing.T) {
	a := Attendance{ID: "a1", UserID: "u1", Date: day, Status: StatusPresent, CheckIn: at(9, 0), CheckOut: at(17, 30)}
	resp := ToResponse(a)
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, "09:00", *resp.CheckIn)
	assert.Equal(t, "17:30", *resp.CheckOut)
	assert.Equal(t, 8.5, resp.WorkingHours)
}
