package attendance

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type AttendanceService interface {
	SelfMark(ctx context.Context, actor user.Actor, req SelfMarkRequest) (AttendanceResponse, error)
	Mark(ctx context.Context, actor user.Actor, req MarkAttendanceRequest) (AttendanceResponse, error)
	BulkMark(ctx context.Context, actor user.Actor, req BulkMarkRequest) (BulkMarkResponse, error)
	Edit(ctx context.Context, actor user.Actor, req EditAttendanceRequest) (AttendanceResponse, error)
	Verify(ctx context.Context, actor user.Actor, id string) (AttendanceResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter AttendanceFilter) (MyAttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
