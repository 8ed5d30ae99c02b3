package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/engagement"
	"github.com/anonto42/newsfeed/backend/internal/fanout"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errStorage = errors.New("storage unavailable")

// mockNotifier records notifications requested by services
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, ev Event) *models.Notification {
	args := m.Called(ctx, ev)
	n, _ := args.Get(0).(*models.Notification)
	return n
}

func (m *mockNotifier) FanOut(ctx context.Context, ev Event, recipients []uint) int {
	args := m.Called(ctx, ev, recipients)
	return args.Int(0)
}

var _ Notifier = (*mockNotifier)(nil)

// fakeContentRepo is an in-memory ContentRepository
type fakeContentRepo struct {
	mu        sync.Mutex
	items     map[models.ContentKind]map[string]*models.ContentItem
	appendErr error
	clock     time.Time
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		items: map[models.ContentKind]map[string]*models.ContentItem{},
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// seed stores a copy of item, assigning an id when it has none
func (r *fakeContentRepo) seed(item models.ContentItem) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.CommentIDs == nil {
		item.CommentIDs = []uint{}
	}
	if r.items[item.Kind] == nil {
		r.items[item.Kind] = map[string]*models.ContentItem{}
	}
	stored := item
	r.items[item.Kind][item.ID.Hex()] = &stored
	return item.ID.Hex()
}

func (r *fakeContentRepo) get(kind models.ContentKind, id string) *models.ContentItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[kind][id]; ok {
		cp := *item
		return &cp
	}
	return nil
}

func (r *fakeContentRepo) lookup(kind models.ContentKind, id string) (*models.ContentItem, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.BadRequest("invalid id")
	}
	item, ok := r.items[kind][id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("%s not found", kind.Label()))
	}
	return item, nil
}

func (r *fakeContentRepo) CreateContent(ctx context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	r.clock = r.clock.Add(time.Second)
	item.CreatedAt = r.clock
	item.UpdatedAt = r.clock
	r.mu.Unlock()
	if item.Likes == nil {
		item.Likes = engagement.Set{}
	}
	if item.SavedBy == nil {
		item.SavedBy = engagement.Set{}
	}
	item.ID = primitive.NewObjectID()
	r.seed(*item)
	return nil
}

func (r *fakeContentRepo) GetContentByID(ctx context.Context, kind models.ContentKind, id string) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, err := r.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	cp := *item
	return &cp, nil
}

func (r *fakeContentRepo) ListContent(ctx context.Context, kind models.ContentKind, filter repositories.ContentFilter, skip, limit int64) ([]models.ContentItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContentItem
	for _, item := range r.items[kind] {
		if len(filter.AuthorIDs) > 0 && !engagement.Set(filter.AuthorIDs).Contains(item.AuthorID) {
			continue
		}
		if filter.PublishedOnly && !item.Published {
			continue
		}
		if filter.Tag != "" && !containsString(item.Tags, filter.Tag) {
			continue
		}
		out = append(out, *item)
	}
	sortNewest(out)
	total := int64(len(out))
	return window(out, skip, limit), total, nil
}

func (r *fakeContentRepo) ListSavedBy(ctx context.Context, kind models.ContentKind, userID uint, skip, limit int64) ([]models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContentItem
	for _, item := range r.items[kind] {
		if item.SavedBy.Contains(userID) {
			out = append(out, *item)
		}
	}
	sortNewest(out)
	return window(out, skip, limit), nil
}

func (r *fakeContentRepo) ListCreatedSince(ctx context.Context, kind models.ContentKind, since time.Time) ([]models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContentItem
	for _, item := range r.items[kind] {
		if item.Published && !item.CreatedAt.Before(since) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeContentRepo) UpdateContent(ctx context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.lookup(item.Kind, item.ID.Hex())
	if err != nil {
		return err
	}
	*stored = *item
	return nil
}

func (r *fakeContentRepo) DeleteContent(ctx context.Context, kind models.ContentKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookup(kind, id); err != nil {
		return err
	}
	delete(r.items[kind], id)
	return nil
}

func (r *fakeContentRepo) IncrementViews(ctx context.Context, kind models.ContentKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, err := r.lookup(kind, id)
	if err != nil {
		return err
	}
	item.Views++
	return nil
}

func (r *fakeContentRepo) ToggleEngagement(ctx context.Context, kind models.ContentKind, id string, action models.EngagementAction, userID uint) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, err := r.lookup(kind, id)
	if err != nil {
		return false, 0, err
	}
	next, present := engagement.Toggle(item.Engagement(action), userID)
	item.SetEngagement(action, next)
	return present, next.Count(), nil
}

func (r *fakeContentRepo) AppendComment(ctx context.Context, kind models.ContentKind, id string, commentID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	item, err := r.lookup(kind, id)
	if err != nil {
		return err
	}
	item.CommentIDs = append(item.CommentIDs, commentID)
	return nil
}

func (r *fakeContentRepo) RemoveComment(ctx context.Context, kind models.ContentKind, id string, commentID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, err := r.lookup(kind, id)
	if err != nil {
		return err
	}
	kept := item.CommentIDs[:0]
	for _, cid := range item.CommentIDs {
		if cid != commentID {
			kept = append(kept, cid)
		}
	}
	item.CommentIDs = kept
	return nil
}

func (r *fakeContentRepo) CountContent(ctx context.Context, kind models.ContentKind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items[kind])), nil
}

func sortNewest(items []models.ContentItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

func window(items []models.ContentItem, skip, limit int64) []models.ContentItem {
	if skip >= int64(len(items)) {
		return []models.ContentItem{}
	}
	end := skip + limit
	if limit <= 0 || end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// fakeCommentRepo is an in-memory CommentRepository
type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]*models.Comment
	likes    *fakeCommentLikeRepo
}

func newFakeCommentRepo(likes *fakeCommentLikeRepo) *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uint]*models.Comment{}, likes: likes}
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	if err := c.ValidateParent(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(c.ID) * time.Second)
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NotFound("comment not found")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) GetCommentsByParent(ctx context.Context, kind models.ContentKind, parentID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		k, p, err := c.Parent()
		if err == nil && k == kind && p == parentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) UpdateComment(ctx context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.UpdatedAt = time.Now()
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) DeleteComment(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return apperrors.NotFound("comment not found")
	}
	delete(r.comments, id)
	r.likes.drop(id)
	return nil
}

func (r *fakeCommentRepo) DeleteCommentsByParent(ctx context.Context, kind models.ContentKind, parentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.comments {
		k, p, err := c.Parent()
		if err == nil && k == kind && p == parentID {
			delete(r.comments, id)
			r.likes.drop(id)
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) CountComments(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.comments)), nil
}

// fakeCommentLikeRepo is an in-memory CommentLikeRepository
type fakeCommentLikeRepo struct {
	mu   sync.Mutex
	sets map[uint]engagement.Set
}

func newFakeCommentLikeRepo() *fakeCommentLikeRepo {
	return &fakeCommentLikeRepo{sets: map[uint]engagement.Set{}}
}

func (r *fakeCommentLikeRepo) drop(commentID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, commentID)
}

func (r *fakeCommentLikeRepo) ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, present := engagement.Toggle(r.sets[commentID], userID)
	r.sets[commentID] = next
	return present, int64(next.Count()), nil
}

func (r *fakeCommentLikeRepo) GetLikeSets(ctx context.Context, ids []uint) (map[uint]engagement.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uint]engagement.Set, len(ids))
	for _, id := range ids {
		out[id] = append(engagement.Set{}, r.sets[id]...)
	}
	return out, nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) add(username string, role models.Role) *models.User {
	u := &models.User{Username: username, Email: username + "@example.com", Role: role}
	_ = r.CreateUser(context.Background(), u)
	return u
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperrors.Conflict("username or email already registered")
		}
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == uid })
}

func (r *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uint]models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user not found")
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) CountUsers(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// fakeFollowRepo keeps follow edges in insertion order
type fakeFollowRepo struct {
	mu    sync.Mutex
	edges [][2]uint
	users *fakeUserRepo
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{users: users}
}

func (r *fakeFollowRepo) ToggleFollow(ctx context.Context, follower, following uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.edges {
		if e == [2]uint{follower, following} {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return false, nil
		}
	}
	r.edges = append(r.edges, [2]uint{follower, following})
	return true, nil
}

func (r *fakeFollowRepo) IsFollowing(ctx context.Context, follower, following uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.edges {
		if e == [2]uint{follower, following} {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepo) ids(match func(e [2]uint) (uint, bool)) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []uint{}
	for _, e := range r.edges {
		if id, ok := match(e); ok {
			out = append(out, id)
		}
	}
	return out
}

func (r *fakeFollowRepo) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return r.ids(func(e [2]uint) (uint, bool) { return e[0], e[1] == userID }), nil
}

func (r *fakeFollowRepo) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return r.ids(func(e [2]uint) (uint, bool) { return e[1], e[0] == userID }), nil
}

func (r *fakeFollowRepo) usersFor(ids []uint) []models.User {
	byID, _ := r.users.GetUsersByIDs(context.Background(), ids)
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (r *fakeFollowRepo) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowerIDs(ctx, userID)
	return r.usersFor(ids), nil
}

func (r *fakeFollowRepo) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowingIDs(ctx, userID)
	return r.usersFor(ids), nil
}

func (r *fakeFollowRepo) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	ids, _ := r.GetFollowerIDs(ctx, userID)
	return int64(len(ids)), nil
}

func (r *fakeFollowRepo) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	ids, _ := r.GetFollowingIDs(ctx, userID)
	return int64(len(ids)), nil
}

// fakeNotificationRepo is an in-memory NotificationRepository
type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []models.Notification
	createErr     error
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n.ID) * time.Minute)
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) forRecipient(id uint) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == id {
			out = append(out, n)
		}
	}
	return out
}

func (r *fakeNotificationRepo) GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	all := r.forRecipient(recipientID)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Notification{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var n int64
	for _, x := range r.forRecipient(recipientID) {
		if !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id, recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].RecipientID == recipientID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return apperrors.NotFound("notification not found")
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.notifications {
		if r.notifications[i].RecipientID == recipientID && !r.notifications[i].IsRead {
			r.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.notifications)), nil
}

func (r *fakeNotificationRepo) CountAllUnread(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, x := range r.notifications {
		if !x.IsRead {
			n++
		}
	}
	return n, nil
}

// inlineQueue delivers each task synchronously to its handler
type inlineQueue struct {
	handler fanout.Handler
	tasks   []fanout.Task
	err     error
}

func (q *inlineQueue) Enqueue(ctx context.Context, task fanout.Task) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	if q.handler != nil {
		return q.handler(ctx, task)
	}
	return nil
}

func (q *inlineQueue) Close(context.Context) error { return nil }

// fakeTrendingCache is an in-memory TrendingCache
type fakeTrendingCache struct {
	entries map[string][]models.ContentItem
	getErr  error
	sets    int
}

func (c *fakeTrendingCache) Get(ctx context.Context, key string) ([]models.ContentItem, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	items, ok := c.entries[key]
	return items, ok, nil
}

func (c *fakeTrendingCache) Set(ctx context.Context, key string, items []models.ContentItem, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = map[string][]models.ContentItem{}
	}
	c.entries[key] = items
	c.sets++
	return nil
}

// world wires every service over in-memory repositories with a real Dispatcher
type world struct {
	users         *fakeUserRepo
	follows       *fakeFollowRepo
	content       *fakeContentRepo
	comments      *fakeCommentRepo
	commentLikes  *fakeCommentLikeRepo
	notifications *fakeNotificationRepo
	queue         *inlineQueue
	dispatcher    *Dispatcher
	engagement    *EngagementService
	commentSvc    *CommentService
	contentSvc    *ContentService
	followSvc     *FollowService
}

func newWorld() *world {
	w := &world{
		users:         newFakeUserRepo(),
		content:       newFakeContentRepo(),
		commentLikes:  newFakeCommentLikeRepo(),
		notifications: &fakeNotificationRepo{},
		queue:         &inlineQueue{},
	}
	w.follows = newFakeFollowRepo(w.users)
	w.comments = newFakeCommentRepo(w.commentLikes)

	log := zap.NewNop()
	metrics := telemetry.NewNopMetrics()
	w.dispatcher = NewDispatcher(w.notifications, w.users, w.queue, log, metrics)
	w.queue.handler = w.dispatcher.HandleTask
	w.engagement = NewEngagementService(w.content, w.dispatcher, log, metrics)
	w.commentSvc = NewCommentService(w.comments, w.commentLikes, w.content, w.users, w.dispatcher, log)
	w.contentSvc = NewContentService(w.content, w.comments, w.users, w.follows, w.dispatcher, log)
	w.followSvc = NewFollowService(w.follows, w.users, w.dispatcher, log)
	return w
}

func (w *world) publish(kind models.ContentKind, author *models.User) string {
	return w.content.seed(models.ContentItem{
		Kind:      kind,
		AuthorID:  author.ID,
		Title:     "title",
		Body:      "body",
		Published: true,
		Likes:     engagement.Set{},
		SavedBy:   engagement.Set{},
		CreatedAt: time.Now(),
	})
}
