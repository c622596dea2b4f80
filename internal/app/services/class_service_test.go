package services

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/push"
	"github.com/yigit/academy/internal/pkg/websocket"
)

type classFixture struct {
	users     *fakeUsers
	courses   *fakeCourses
	outbox    *fakeOutbox
	guard     *fakeGuard
	publisher *recordingPublisher
	svc       *classServiceImpl
	now       time.Time
}

func newClassFixture(t *testing.T) *classFixture {
	f := &classFixture{
		users:     newFakeUsers(seedUsers(t)...),
		courses:   newFakeCourses(seedCourse()),
		outbox:    &fakeOutbox{},
		guard:     newFakeGuard(),
		publisher: &recordingPublisher{},
		now:       time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewClassService(&fakeTx{}, f.courses, f.users, f.outbox, f.guard, f.publisher, ClassServiceConfig{
		Location:     time.UTC,
		ReminderLead: 15 * time.Minute,
	}, testLogger).(*classServiceImpl)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func introRequest() *dto.ScheduleClassRequest {
	return &dto.ScheduleClassRequest{
		Topic:       "Intro",
		MeetingLink: "https://meet.example/1",
		Date:        "2025-01-10",
		Time:        "19:00",
	}
}

func TestRecipientsFollowEnrollmentAndRole(t *testing.T) {
	f := newClassFixture(t)

	tokens, err := f.svc.Recipients(context.Background(), 12)
	require.NoError(t, err)
	// alice (legacy success), bob (unset role); carol is pending, dave is admin,
	// eve has no token and frank's token is malformed
	assert.Equal(t, []string{tokenAlice, tokenBob}, tokens)
}

func TestScheduleClassIntro(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	resp, err := f.svc.ScheduleClass(ctx, 12, "admin@academy.test", introRequest())
	require.NoError(t, err)

	assert.Equal(t, models.ClassScheduled, resp.Class.Status)
	assert.Equal(t, "Intro", resp.Class.Topic)
	assert.Equal(t, time.Date(2025, 1, 10, 19, 0, 0, 0, time.UTC), resp.Class.ScheduledDateTime)
	assert.Equal(t, 2, resp.Recipients)

	course := f.courses.get(t, 12)
	require.Len(t, course.ScheduledClasses, 1)
	assert.Equal(t, resp.Class.ID, course.ScheduledClasses[0].ID)

	scheduled := f.outbox.ofKind(models.NotificationClassScheduled)
	require.Len(t, scheduled, 1)
	assert.Equal(t, []string{tokenAlice, tokenBob}, scheduled[0].Tokens)
	assert.Equal(t, "course", scheduled[0].Data[push.DataNavigationTarget])
	assert.Equal(t, "12", scheduled[0].Data[push.DataCourseID])
	assert.Equal(t, "Introduction to Programming", scheduled[0].Data[push.DataCourseName])
	assert.Equal(t, string(models.NotificationClassScheduled), scheduled[0].Data[push.DataType])

	reminders := f.outbox.ofKind(models.NotificationClassReminder)
	require.Len(t, reminders, 1)
	assert.Equal(t, time.Date(2025, 1, 10, 18, 45, 0, 0, time.UTC), reminders[0].AvailableAt)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, websocket.EventClassScheduled, f.publisher.events[0].Type)
}

func TestScheduleClassIdsAreUnique(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	first, err := f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
	require.NoError(t, err)

	second := introRequest()
	second.Topic = "Loops"
	next, err := f.svc.ScheduleClass(ctx, 12, "admin", second)
	require.NoError(t, err)

	assert.NotEqual(t, first.Class.ID, next.Class.ID)
	assert.Len(t, f.courses.get(t, 12).ScheduledClasses, 2)
}

func TestScheduleClassSkipsReminderWhenStartingSoon(t *testing.T) {
	f := newClassFixture(t)
	f.now = time.Date(2025, 1, 10, 18, 50, 0, 0, time.UTC)

	_, err := f.svc.ScheduleClass(context.Background(), 12, "admin", introRequest())
	require.NoError(t, err)

	assert.Len(t, f.outbox.ofKind(models.NotificationClassScheduled), 1)
	assert.Empty(t, f.outbox.ofKind(models.NotificationClassReminder))
}

func TestScheduleClassUsesConfiguredTimezone(t *testing.T) {
	f := newClassFixture(t)
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	f.svc.loc = loc

	resp, err := f.svc.ScheduleClass(context.Background(), 12, "admin", introRequest())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), resp.Class.ScheduledDateTime)
}

func TestScheduleClassValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *dto.ScheduleClassRequest)
		wantErr error
	}{
		{"blank topic", func(r *dto.ScheduleClassRequest) { r.Topic = "   " }, apperrors.ErrValidationFailed},
		{"blank link", func(r *dto.ScheduleClassRequest) { r.MeetingLink = " " }, apperrors.ErrValidationFailed},
		{"link without scheme", func(r *dto.ScheduleClassRequest) { r.MeetingLink = "meet.example/1" }, apperrors.ErrValidationFailed},
		{"hour out of range", func(r *dto.ScheduleClassRequest) { r.Time = "25:00" }, apperrors.ErrInvalidTimeFormat},
		{"bad date", func(r *dto.ScheduleClassRequest) { r.Date = "10/01/2025" }, apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClassFixture(t)
			req := introRequest()
			tt.mutate(req)

			_, err := f.svc.ScheduleClass(context.Background(), 12, "admin", req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.courses.get(t, 12).ScheduledClasses)
			assert.Empty(t, f.outbox.messages)
		})
	}
}

func TestScheduleClassRejectsDuplicateSubmission(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	_, err := f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
	require.NoError(t, err)

	_, err = f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubmission)
	assert.Len(t, f.courses.get(t, 12).ScheduledClasses, 1)
}

func TestScheduleClassReleasesGuardOnFailure(t *testing.T) {
	f := newClassFixture(t)
	f.outbox.failWith = errors.New("db down")

	_, err := f.svc.ScheduleClass(context.Background(), 12, "admin", introRequest())
	require.Error(t, err)
	assert.Len(t, f.guard.released, 1)

	f.outbox.failWith = nil
	_, err = f.svc.ScheduleClass(context.Background(), 12, "admin", introRequest())
	assert.NoError(t, err)
}

func TestScheduleClassUnknownCourse(t *testing.T) {
	f := newClassFixture(t)

	_, err := f.svc.ScheduleClass(context.Background(), 404, "admin", introRequest())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestToggleClassStatusLifecycle(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	scheduled, err := f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
	require.NoError(t, err)
	id := scheduled.Class.ID

	live, err := f.svc.ToggleClassStatus(ctx, 12, id)
	require.NoError(t, err)
	assert.Equal(t, models.ClassLive, live.Class.Status)
	assert.Equal(t, "https://meet.example/1", live.LaunchURL)
	require.Len(t, f.outbox.ofKind(models.NotificationClassStarted), 1)

	ended, err := f.svc.ToggleClassStatus(ctx, 12, id)
	require.NoError(t, err)
	assert.Equal(t, models.ClassEnded, ended.Class.Status)
	assert.Empty(t, ended.LaunchURL)

	endedMsgs := f.outbox.ofKind(models.NotificationClassEnded)
	require.Len(t, endedMsgs, 1)
	assert.Equal(t, []string{tokenAlice, tokenBob}, endedMsgs[0].Tokens)

	before := len(f.outbox.messages)
	_, err = f.svc.ToggleClassStatus(ctx, 12, id)
	assert.ErrorIs(t, err, apperrors.ErrInvalidClassTransition)
	assert.Len(t, f.outbox.messages, before)
	assert.Equal(t, models.ClassEnded, f.courses.get(t, 12).ScheduledClasses[0].Status)

	statusEvents := 0
	for _, e := range f.publisher.events {
		if e.Type == websocket.EventClassStatus {
			statusEvents++
		}
	}
	assert.Equal(t, 2, statusEvents)
}

func TestToggleClassStatusCancelsReminder(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	scheduled, err := f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
	require.NoError(t, err)

	_, err = f.svc.ToggleClassStatus(ctx, 12, scheduled.Class.ID)
	require.NoError(t, err)

	reminders := f.outbox.ofKind(models.NotificationClassReminder)
	require.Len(t, reminders, 1)
	assert.Equal(t, models.OutboxCancelled, reminders[0].Status)

	// the announcement of the class itself still goes out
	announced := f.outbox.ofKind(models.NotificationClassScheduled)
	require.Len(t, announced, 1)
	assert.Equal(t, models.OutboxPending, announced[0].Status)

	_, err = f.svc.ToggleClassStatus(ctx, 12, scheduled.Class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxCancelled, f.outbox.ofKind(models.NotificationClassReminder)[0].Status)
	assert.Equal(t, models.OutboxPending, f.outbox.ofKind(models.NotificationClassEnded)[0].Status)
}

func TestToggleClassStatusUnknownClass(t *testing.T) {
	f := newClassFixture(t)

	_, err := f.svc.ToggleClassStatus(context.Background(), 12, "nope")
	assert.ErrorIs(t, err, apperrors.ErrScheduledClassNotFound)
}

func TestDeleteScheduledClass(t *testing.T) {
	t.Run("pending class notifies and cancels reminder", func(t *testing.T) {
		f := newClassFixture(t)
		ctx := context.Background()

		resp, err := f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteScheduledClass(ctx, 12, resp.Class.ID))
		assert.Empty(t, f.courses.get(t, 12).ScheduledClasses)

		reminders := f.outbox.ofKind(models.NotificationClassReminder)
		require.Len(t, reminders, 1)
		assert.Equal(t, models.OutboxCancelled, reminders[0].Status)

		cancelled := f.outbox.ofKind(models.NotificationClassCancelled)
		require.Len(t, cancelled, 1)
		assert.Equal(t, models.OutboxPending, cancelled[0].Status)
	})

	t.Run("ended class is removed quietly", func(t *testing.T) {
		f := newClassFixture(t)
		ctx := context.Background()

		resp, err := f.svc.ScheduleClass(ctx, 12, "admin", introRequest())
		require.NoError(t, err)
		_, err = f.svc.ToggleClassStatus(ctx, 12, resp.Class.ID)
		require.NoError(t, err)
		_, err = f.svc.ToggleClassStatus(ctx, 12, resp.Class.ID)
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteScheduledClass(ctx, 12, resp.Class.ID))
		assert.Empty(t, f.outbox.ofKind(models.NotificationClassCancelled))
	})

	t.Run("unknown class", func(t *testing.T) {
		f := newClassFixture(t)
		err := f.svc.DeleteScheduledClass(context.Background(), 12, "nope")
		assert.ErrorIs(t, err, apperrors.ErrScheduledClassNotFound)
	})
}
