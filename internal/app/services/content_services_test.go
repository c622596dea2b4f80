package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

type contentFixture struct {
	courses  *fakeCourses
	users    *fakeUsers
	comments *fakeComments
	storage  *fakeStorage
	videos   VideoService
	thread   CommentService
	ebooks   EBookService
}

func newContentFixture(t *testing.T) *contentFixture {
	f := &contentFixture{
		courses:  newFakeCourses(seedCourse()),
		users:    newFakeUsers(seedUsers(t)...),
		comments: newFakeComments(),
		storage:  newFakeStorage(),
	}
	tx := &fakeTx{}
	f.videos = NewVideoService(tx, f.courses, f.comments, testLogger)
	f.thread = NewCommentService(tx, f.courses, f.users, f.comments, testLogger)
	f.ebooks = NewEBookService(tx, f.courses, f.storage, testLogger)
	return f
}

func (f *contentFixture) addVideo(t *testing.T) string {
	t.Helper()
	v, err := f.videos.AddVideo(context.Background(), 12, &dto.AddVideoRequest{Title: "Week 1", URL: "https://videos.example/1.mp4"})
	require.NoError(t, err)
	return v.ID
}

func TestVideoAddListDelete(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	videoID := f.addVideo(t)
	videos, err := f.videos.ListVideos(ctx, 12)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Week 1", videos[0].Title)

	_, err = f.thread.AddComment(ctx, 12, videoID, 1, "hello")
	require.NoError(t, err)

	require.NoError(t, f.videos.DeleteVideo(ctx, 12, videoID))
	videos, err = f.videos.ListVideos(ctx, 12)
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Empty(t, f.comments.threads)

	assert.ErrorIs(t, f.videos.DeleteVideo(ctx, 12, videoID), apperrors.ErrVideoNotFound)
}

func TestCommentThread(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	videoID := f.addVideo(t)

	comment, err := f.thread.AddComment(ctx, 12, videoID, 1, "  Great lecture  ")
	require.NoError(t, err)
	assert.Equal(t, "Great lecture", comment.Text)
	assert.Equal(t, "Alice", comment.UserName)

	reply, err := f.thread.AddReply(ctx, 12, videoID, comment.ID, 2, "Agreed")
	require.NoError(t, err)
	assert.Equal(t, "Bob", reply.UserName)

	listed, err := f.thread.ListComments(ctx, 12, videoID, 2)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Replies, 1)
	assert.Equal(t, "Agreed", listed[0].Replies[0].ReplyText)

	_, err = f.thread.AddComment(ctx, 12, videoID, 1, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.thread.AddComment(ctx, 12, "missing", 1, "hi")
	assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)

	_, err = f.thread.AddReply(ctx, 12, videoID, "missing", 2, "hi")
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestToggleLikeStates(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	videoID := f.addVideo(t)

	comment, err := f.thread.AddComment(ctx, 12, videoID, 1, "vote on me")
	require.NoError(t, err)

	steps := []struct {
		name     string
		userID   int64
		isLike   bool
		likes    int
		dislikes int
		reaction string
	}{
		{"first like", 2, true, 1, 0, "like"},
		{"second user dislikes", 3, false, 1, 1, "dislike"},
		{"same reaction removes it", 2, true, 0, 1, ""},
		{"opposite reaction switches", 3, true, 1, 0, "like"},
	}
	for _, step := range steps {
		state, err := f.thread.ToggleLike(ctx, 12, videoID, comment.ID, step.userID, step.isLike)
		require.NoError(t, err, step.name)
		assert.Equal(t, step.likes, state.Likes, step.name)
		assert.Equal(t, step.dislikes, state.Dislikes, step.name)
		assert.Equal(t, step.reaction, state.UserReaction, step.name)
	}

	listed, err := f.thread.ListComments(ctx, 12, videoID, 3)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].Likes)
	assert.Equal(t, "like", listed[0].UserReaction)

	_, err = f.thread.ToggleLike(ctx, 12, videoID, "missing", 2, true)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestDeleteCommentPermissions(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	videoID := f.addVideo(t)

	comment, err := f.thread.AddComment(ctx, 12, videoID, 1, "mine")
	require.NoError(t, err)
	_, err = f.thread.ToggleLike(ctx, 12, videoID, comment.ID, 2, true)
	require.NoError(t, err)

	err = f.thread.DeleteComment(ctx, 12, videoID, comment.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.thread.DeleteComment(ctx, 12, videoID, comment.ID, 4))
	listed, err := f.thread.ListComments(ctx, 12, videoID, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Empty(t, f.comments.likes)

	err = f.thread.DeleteComment(ctx, 12, videoID, comment.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestDeleteCommentUsesStoredRole(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	videoID := f.addVideo(t)

	comment, err := f.thread.AddComment(ctx, 12, videoID, 1, "keep me")
	require.NoError(t, err)

	// user 3 is a student in the store whatever its token claims
	err = f.thread.DeleteComment(ctx, 12, videoID, comment.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.thread.DeleteComment(ctx, 12, videoID, comment.ID, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	listed, err := f.thread.ListComments(ctx, 12, videoID, 1)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestEBookUploadAndDelete(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	book, err := f.ebooks.UploadEBook(ctx, 12, &multipart.FileHeader{Filename: "notes.pdf", Size: 2048}, "admin@academy.test")
	require.NoError(t, err)
	assert.Equal(t, "ebooks/12/notes.pdf", book.Path)
	assert.Equal(t, "admin@academy.test", book.UploadedBy)
	assert.True(t, f.storage.files[book.Path])

	books, err := f.ebooks.ListEBooks(ctx, 12)
	require.NoError(t, err)
	assert.Len(t, books, 2)

	require.NoError(t, f.ebooks.DeleteEBook(ctx, 12, book.ID))
	assert.False(t, f.storage.files[book.Path])
	assert.Contains(t, f.storage.removed, book.Path)

	assert.ErrorIs(t, f.ebooks.DeleteEBook(ctx, 12, book.ID), apperrors.ErrEBookNotFound)
}

func TestEBookUploadValidation(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	_, err := f.ebooks.UploadEBook(ctx, 12, nil, "admin")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.ebooks.UploadEBook(ctx, 12, &multipart.FileHeader{Filename: "huge.pdf", Size: MaxEBookSize + 1}, "admin")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.ebooks.UploadEBook(ctx, 404, &multipart.FileHeader{Filename: "a.pdf", Size: 1}, "admin")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Empty(t, f.storage.files)
}
