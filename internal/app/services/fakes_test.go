package services

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/filestorage"
	"github.com/yigit/academy/internal/pkg/websocket"
)

var testLogger = zerolog.Nop()

type fakeTx struct{ calls int }

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TxFunc) error {
	f.calls++
	return fn(ctx)
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.EnrolledCourses = append(models.Enrollments{}, u.EnrolledCourses...)
	if u.PushToken != nil {
		token := *u.PushToken
		cp.PushToken = &token
	}
	return &cp
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	writes int
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*models.User{}}
	for _, u := range users {
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
		f.byID[u.ID] = copyUser(u)
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.byID[user.ID] = copyUser(user)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (f *fakeUsers) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) UpdatePushToken(_ context.Context, userID int64, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	f.writes++
	if token == nil {
		u.PushToken = nil
		return nil
	}
	t := *token
	u.PushToken = &t
	return nil
}

func (f *fakeUsers) UpdateEnrollments(_ context.Context, userID int64, enrollments models.Enrollments) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	f.writes++
	u.EnrolledCourses = append(models.Enrollments{}, enrollments.Normalized()...)
	return nil
}

func (f *fakeUsers) ListWithEnrollments(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.User, 0)
	for _, u := range f.byID {
		if len(u.EnrolledCourses) > 0 {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) ListWithEnrollmentsForUpdate(ctx context.Context) ([]*models.User, error) {
	return f.ListWithEnrollments(ctx)
}

func (f *fakeUsers) get(t *testing.T, id int64) *models.User {
	t.Helper()
	u, err := f.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func copyCourse(c *models.Course) *models.Course {
	cp := *c
	cp.ClassSchedule = append(models.Schedule{}, c.ClassSchedule...)
	cp.ScheduledClasses = append([]models.ScheduledClass{}, c.ScheduledClasses...)
	cp.RecordedClasses = append([]models.Video{}, c.RecordedClasses...)
	cp.EBooks = append([]models.EBook{}, c.EBooks...)
	if c.CourseEnd != nil {
		end := *c.CourseEnd
		cp.CourseEnd = &end
	}
	return &cp
}

type fakeCourses struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Course
	writes int
}

func newFakeCourses(courses ...*models.Course) *fakeCourses {
	f := &fakeCourses{byID: map[int64]*models.Course{}}
	for _, c := range courses {
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
		f.byID[c.ID] = copyCourse(c)
	}
	return f
}

func (f *fakeCourses) Create(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	course.ID = f.nextID
	f.byID[course.ID] = copyCourse(course)
	return nil
}

func (f *fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return copyCourse(c), nil
}

func (f *fakeCourses) GetByIDForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCourses) List(_ context.Context, offset, limit int) ([]*models.Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*models.Course, 0, len(f.byID))
	for _, c := range f.byID {
		all = append(all, copyCourse(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Course{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeCourses) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCourses) mutate(id int64, fn func(c *models.Course)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	f.writes++
	fn(c)
	return nil
}

func (f *fakeCourses) UpdateSchedule(_ context.Context, id int64, schedule models.Schedule) error {
	// round trip through the stored text form
	text, err := schedule.Encode()
	if err != nil {
		return err
	}
	return f.mutate(id, func(c *models.Course) { c.ClassSchedule = models.ParseSchedule(text) })
}

func (f *fakeCourses) UpdateCourseEnd(_ context.Context, id int64, end *models.CourseEnd) error {
	return f.mutate(id, func(c *models.Course) {
		if end == nil {
			c.CourseEnd = nil
			return
		}
		cp := *end
		c.CourseEnd = &cp
	})
}

func (f *fakeCourses) UpdateScheduledClasses(_ context.Context, id int64, classes []models.ScheduledClass) error {
	return f.mutate(id, func(c *models.Course) { c.ScheduledClasses = append([]models.ScheduledClass{}, classes...) })
}

func (f *fakeCourses) UpdateRecordedClasses(_ context.Context, id int64, videos []models.Video) error {
	return f.mutate(id, func(c *models.Course) { c.RecordedClasses = append([]models.Video{}, videos...) })
}

func (f *fakeCourses) UpdateEBooks(_ context.Context, id int64, ebooks []models.EBook) error {
	return f.mutate(id, func(c *models.Course) { c.EBooks = append([]models.EBook{}, ebooks...) })
}

func (f *fakeCourses) CompleteDue(_ context.Context, now time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id, c := range f.byID {
		if c.CourseEnd != nil && c.CourseEnd.Status == models.CourseEndPendingSchedule && !c.CourseEnd.CompletedDate.After(now) {
			c.CourseEnd.Status = models.CourseEndCompleted
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCourses) get(t *testing.T, id int64) *models.Course {
	t.Helper()
	c, err := f.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

type threadKey struct {
	videoID  string
	courseID int64
}

type likeKey struct {
	commentID string
	userID    int64
}

type fakeComments struct {
	mu      sync.Mutex
	threads map[threadKey][]models.Comment
	likes   map[likeKey]bool
}

func newFakeComments() *fakeComments {
	return &fakeComments{threads: map[threadKey][]models.Comment{}, likes: map[likeKey]bool{}}
}

func (f *fakeComments) GetComments(_ context.Context, videoID string, courseID int64) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// deep copy so callers cannot mutate the stored thread
	b, _ := json.Marshal(f.threads[threadKey{videoID, courseID}])
	out := []models.Comment{}
	_ = json.Unmarshal(b, &out)
	if out == nil {
		out = []models.Comment{}
	}
	return out, nil
}

func (f *fakeComments) GetCommentsForUpdate(ctx context.Context, videoID string, courseID int64) ([]models.Comment, error) {
	return f.GetComments(ctx, videoID, courseID)
}

func (f *fakeComments) SaveComments(_ context.Context, videoID string, courseID int64, comments []models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threads[threadKey{videoID, courseID}] = append([]models.Comment{}, comments...)
	return nil
}

func (f *fakeComments) ToggleCommentLike(_ context.Context, commentID string, userID int64, isLike bool) (repositories.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey{commentID, userID}
	current, ok := f.likes[key]
	if ok && current == isLike {
		delete(f.likes, key)
		return repositories.ReactionNone, nil
	}
	f.likes[key] = isLike
	if isLike {
		return repositories.ReactionLike, nil
	}
	return repositories.ReactionDislike, nil
}

func (f *fakeComments) GetCommentLikeCounts(_ context.Context, commentIDs []string) (map[string]models.LikeCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]models.LikeCount{}
	for key, isLike := range f.likes {
		for _, id := range commentIDs {
			if key.commentID != id {
				continue
			}
			c := out[id]
			c.CommentID = id
			if isLike {
				c.Likes++
			} else {
				c.Dislikes++
			}
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeComments) GetUserReactions(_ context.Context, userID int64, commentIDs []string) (map[string]repositories.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]repositories.Reaction{}
	for _, id := range commentIDs {
		if isLike, ok := f.likes[likeKey{id, userID}]; ok {
			if isLike {
				out[id] = repositories.ReactionLike
			} else {
				out[id] = repositories.ReactionDislike
			}
		}
	}
	return out, nil
}

func (f *fakeComments) DeleteLikes(_ context.Context, commentIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.likes {
		for _, id := range commentIDs {
			if key.commentID == id {
				delete(f.likes, key)
			}
		}
	}
	return nil
}

func (f *fakeComments) DeleteThread(_ context.Context, videoID string, courseID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.threads, threadKey{videoID, courseID})
	return nil
}

func (f *fakeComments) DeleteThreadsForCourse(_ context.Context, courseID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.threads {
		if key.courseID == courseID {
			delete(f.threads, key)
		}
	}
	return nil
}

type fakeOutbox struct {
	mu        sync.Mutex
	messages  []*models.OutboxMessage
	cancelled []string
	failWith  error
}

func (f *fakeOutbox) Enqueue(_ context.Context, msg *models.OutboxMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	msg.ID = int64(len(f.messages) + 1)
	msg.Status = models.OutboxPending
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeOutbox) CancelPendingForClass(_ context.Context, courseID int64, classID string, kinds ...models.NotificationType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.CourseID != courseID || m.ClassID != classID || m.Status != models.OutboxPending {
			continue
		}
		if len(kinds) == 0 || slices.Contains(kinds, m.Kind) {
			m.Status = models.OutboxCancelled
			n++
		}
	}
	f.cancelled = append(f.cancelled, fmt.Sprintf("%d/%s", courseID, classID))
	return n, nil
}

func (f *fakeOutbox) CancelPendingForCourse(_ context.Context, courseID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.CourseID == courseID && m.Status == models.OutboxPending {
			m.Status = models.OutboxCancelled
			n++
		}
	}
	f.cancelled = append(f.cancelled, fmt.Sprintf("%d/*", courseID))
	return n, nil
}

func (f *fakeOutbox) ofKind(kind models.NotificationType) []*models.OutboxMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.OutboxMessage
	for _, m := range f.messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type sentEmail struct {
	to, name, course string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (f *fakeMailer) SendEnrollmentApproved(_ context.Context, toEmail, toName, courseName string) error {
	f.sent = append(f.sent, sentEmail{toEmail, toName, courseName})
	return f.err
}

type fakeStorage struct {
	files   map[string]bool
	removed []string
}

func newFakeStorage() *fakeStorage { return &fakeStorage{files: map[string]bool{}} }

func (f *fakeStorage) Upload(fh *multipart.FileHeader, dir string) (*filestorage.StoredFile, error) {
	key := dir + "/" + fh.Filename
	f.files[key] = true
	return &filestorage.StoredFile{
		Name:     fh.Filename,
		Path:     key,
		URL:      "http://files.test/" + key,
		Size:     fh.Size,
		MimeType: "application/pdf",
	}, nil
}

func (f *fakeStorage) Remove(key string) error {
	delete(f.files, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string { return "http://files.test/" + key }

type fakeGuard struct {
	claimed  map[string]bool
	released []string
}

func newFakeGuard() *fakeGuard { return &fakeGuard{claimed: map[string]bool{}} }

func (g *fakeGuard) Claim(_ context.Context, key string) (bool, error) {
	if g.claimed[key] {
		return false, nil
	}
	g.claimed[key] = true
	return true, nil
}

func (g *fakeGuard) Release(_ context.Context, key string) error {
	delete(g.claimed, key)
	g.released = append(g.released, key)
	return nil
}

type recordingPublisher struct {
	events []websocket.Event
}

func (p *recordingPublisher) Publish(e websocket.Event) { p.events = append(p.events, e) }

func strPtr(s string) *string { return &s }

// legacyEnrollments decodes raw JSON so tests can seed the bare-string format
func legacyEnrollments(t *testing.T, raw string) models.Enrollments {
	t.Helper()
	var es models.Enrollments
	require.NoError(t, json.Unmarshal([]byte(raw), &es))
	return es
}

const (
	tokenAlice = "ExponentPushToken[alice-aaaaaaaaaaaaaaaa]"
	tokenBob   = "ExponentPushToken[bob-bbbbbbbbbbbbbbbbbb]"
	tokenCarol = "ExponentPushToken[carol-cccccccccccccccc]"
	tokenDave  = "ExponentPushToken[dave-dddddddddddddddd]"
)
