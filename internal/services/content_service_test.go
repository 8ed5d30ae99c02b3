package services

import (
	"context"
	"testing"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func createReq(title string) models.CreateContentRequest {
	return models.CreateContentRequest{Title: title, Body: "body of " + title}
}

func TestCreateNewsNotifiesFollowers(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	f1 := w.users.add("f1", models.RoleUser)
	f2 := w.users.add("f2", models.RoleUser)
	bystander := w.users.add("bystander", models.RoleUser)
	_, err := w.followSvc.Toggle(ctx, f1.ID, author.ID)
	require.NoError(t, err)
	_, err = w.followSvc.Toggle(ctx, f2.ID, author.ID)
	require.NoError(t, err)

	view, err := w.contentSvc.Create(ctx, author.ID, models.KindNews, createReq("Breaking"))
	require.NoError(t, err)
	assert.Equal(t, "author", view.Author.Username)
	assert.True(t, view.Published)

	for _, f := range []*models.User{f1, f2} {
		notes := w.notifications.forRecipient(f.ID)
		require.Len(t, notes, 1)
		assert.Equal(t, models.NotificationUpload, notes[0].Type)
		assert.Equal(t, "author published a new news: Breaking", notes[0].Message)
		assert.Equal(t, view.ID.Hex(), notes[0].TargetID)
	}
	assert.Empty(t, w.notifications.forRecipient(bystander.ID))
	assert.Len(t, w.queue.tasks, 2)
}

func TestCreateOtherKindsDoNotFanOut(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	fan := w.users.add("fan", models.RoleUser)
	_, err := w.followSvc.Toggle(ctx, fan.ID, author.ID)
	require.NoError(t, err)

	_, err = w.contentSvc.Create(ctx, author.ID, models.KindPost, createReq("hello"))
	require.NoError(t, err)

	notes := w.notifications.forRecipient(author.ID)
	require.Len(t, notes, 1, "only the follow notification")
	assert.Empty(t, w.notifications.forRecipient(fan.ID))
	assert.Empty(t, w.queue.tasks)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)

	video := createReq("clip")
	_, err := w.contentSvc.Create(ctx, author.ID, models.KindVideo, video)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	video.MediaURL = "https://cdn.example.com/clip.mp4"
	_, err = w.contentSvc.Create(ctx, author.ID, models.KindVideo, video)
	assert.NoError(t, err)

	community := createReq("meetup")
	_, err = w.contentSvc.Create(ctx, author.ID, models.KindCommunityPost, community)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	draftPost := createReq("draft")
	draftPost.Published = boolPtr(false)
	_, err = w.contentSvc.Create(ctx, author.ID, models.KindPost, draftPost)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, err = w.contentSvc.Create(ctx, 0, models.KindPost, createReq("anon"))
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	tagged := createReq("tagged")
	tagged.Tags = []string{" Go ", "go", "", "News"}
	view, err := w.contentSvc.Create(ctx, author.ID, models.KindPost, tagged)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "news"}, view.Tags)
}

func TestDraftNewsVisibilityAndPublish(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	reader := w.users.add("reader", models.RoleUser)
	_, err := w.followSvc.Toggle(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	req := createReq("embargoed")
	req.Published = boolPtr(false)
	draft, err := w.contentSvc.Create(ctx, author.ID, models.KindNews, req)
	require.NoError(t, err)
	assert.Empty(t, w.notifications.forRecipient(reader.ID))
	id := draft.ID.Hex()

	_, err = w.contentSvc.Get(ctx, models.KindNews, id, reader.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	_, err = w.contentSvc.Get(ctx, models.KindNews, id, author.ID)
	assert.NoError(t, err)

	page, err := w.contentSvc.List(ctx, models.KindNews, ListOptions{}, reader.ID)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = w.contentSvc.Update(ctx, author.ID, models.KindNews, id, models.UpdateContentRequest{Published: boolPtr(true)})
	require.NoError(t, err)
	notes := w.notifications.forRecipient(reader.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationUpload, notes[0].Type)

	_, err = w.contentSvc.Update(ctx, author.ID, models.KindNews, id, models.UpdateContentRequest{Title: "still published"})
	require.NoError(t, err)
	assert.Len(t, w.notifications.forRecipient(reader.ID), 1)
}

func TestGetCountsViews(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	id := w.publish(models.KindVideo, author)

	view, err := w.contentSvc.Get(ctx, models.KindVideo, id, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.Views)
	view, err = w.contentSvc.Get(ctx, models.KindVideo, id, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Views)
}

func TestUpdateIsAuthorOnly(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	admin := w.users.add("admin", models.RoleAdmin)
	id := w.publish(models.KindPost, author)

	_, err := w.contentSvc.Update(ctx, admin.ID, models.KindPost, id, models.UpdateContentRequest{Title: "x"})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	view, err := w.contentSvc.Update(ctx, author.ID, models.KindPost, id, models.UpdateContentRequest{Title: "renamed", Tags: []string{"A"}})
	require.NoError(t, err)
	assert.Equal(t, "renamed", view.Title)
	assert.Equal(t, []string{"a"}, view.Tags)
}

// A reader comments, the author's post is removed by an admin: the post and its
// comment thread are gone, a plain user may not remove it.
func TestDeleteCascadesAndChecksRole(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	reader := w.users.add("reader", models.RoleUser)
	admin := w.users.add("admin", models.RoleAdmin)
	id := w.publish(models.KindPost, author)

	c, err := w.commentSvc.Append(ctx, reader.ID, models.KindPost, id, "first!", nil)
	require.NoError(t, err)
	_, err = w.commentSvc.ToggleLike(ctx, author.ID, c.ID)
	require.NoError(t, err)

	err = w.contentSvc.Delete(ctx, reader.ID, reader.Role, models.KindPost, id)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	require.NoError(t, w.contentSvc.Delete(ctx, admin.ID, admin.Role, models.KindPost, id))

	_, err = w.contentSvc.Get(ctx, models.KindPost, id, author.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	count, err := w.comments.CountComments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	sets, err := w.commentLikes.GetLikeSets(ctx, []uint{c.ID})
	require.NoError(t, err)
	assert.Empty(t, sets[c.ID])
}

func TestListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	a := w.users.add("a", models.RoleUser)
	b := w.users.add("b", models.RoleUser)
	for i, title := range []string{"one", "two", "three"} {
		req := createReq(title)
		if i != 1 {
			req.Tags = []string{"golang"}
		}
		_, err := w.contentSvc.Create(ctx, a.ID, models.KindPost, req)
		require.NoError(t, err)
	}
	_, err := w.contentSvc.Create(ctx, b.ID, models.KindPost, createReq("four"))
	require.NoError(t, err)

	page, err := w.contentSvc.List(ctx, models.KindPost, ListOptions{Page: 1, Limit: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "four", page.Items[0].Title)

	page, err = w.contentSvc.List(ctx, models.KindPost, ListOptions{AuthorID: a.ID, Tag: "GoLang"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "three", page.Items[0].Title)
	assert.Equal(t, "one", page.Items[1].Title)
	assert.Equal(t, 10, page.Limit)
}

func TestFeedShowsFollowedAuthorsNewestFirst(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	reader := w.users.add("reader", models.RoleUser)
	followed := w.users.add("followed", models.RoleUser)
	other := w.users.add("other", models.RoleUser)
	_, err := w.followSvc.Toggle(ctx, reader.ID, followed.ID)
	require.NoError(t, err)

	_, err = w.contentSvc.Create(ctx, followed.ID, models.KindPost, createReq("older post"))
	require.NoError(t, err)
	_, err = w.contentSvc.Create(ctx, other.ID, models.KindPost, createReq("not followed"))
	require.NoError(t, err)
	_, err = w.contentSvc.Create(ctx, followed.ID, models.KindNews, createReq("newer news"))
	require.NoError(t, err)
	draft := createReq("draft")
	draft.Published = boolPtr(false)
	_, err = w.contentSvc.Create(ctx, followed.ID, models.KindNews, draft)
	require.NoError(t, err)

	feed, err := w.contentSvc.Feed(ctx, reader.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "newer news", feed[0].Title)
	assert.Equal(t, "older post", feed[1].Title)

	empty, err := w.contentSvc.Feed(ctx, other.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSavedAcrossKinds(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	author := w.users.add("author", models.RoleUser)
	reader := w.users.add("reader", models.RoleUser)
	post, err := w.contentSvc.Create(ctx, author.ID, models.KindPost, createReq("keep me"))
	require.NoError(t, err)
	news, err := w.contentSvc.Create(ctx, author.ID, models.KindNews, createReq("read later"))
	require.NoError(t, err)
	_, err = w.contentSvc.Create(ctx, author.ID, models.KindNews, createReq("ignored"))
	require.NoError(t, err)

	_, err = w.engagement.Toggle(ctx, reader.ID, models.KindPost, post.ID.Hex(), models.ActionSave)
	require.NoError(t, err)
	_, err = w.engagement.Toggle(ctx, reader.ID, models.KindNews, news.ID.Hex(), models.ActionSave)
	require.NoError(t, err)

	saved, err := w.contentSvc.Saved(ctx, reader.ID, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "read later", saved[0].Title)
	assert.True(t, saved[0].IsSaved)

	onlyNews, err := w.contentSvc.Saved(ctx, reader.ID, models.KindNews, 1, 10)
	require.NoError(t, err)
	require.Len(t, onlyNews, 1)

	_, err = w.contentSvc.Saved(ctx, 0, "", 1, 10)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}
