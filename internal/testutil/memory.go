// Package testutil holds in-memory implementations of the repository and
// service ports for use-case and handler tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// clone deep-copies through JSON so callers never share slices with the store.
// Only used for profiles; users carry a json:"-" password hash.
func clone[T any](v *T) *T {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		panic(err)
	}
	return out
}

type ProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*profile.Profile
	order    []uuid.UUID
	Writes   int
	// FailNext, when set, is returned once by the next write.
	FailNext error
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: make(map[uuid.UUID]*profile.Profile)}
}

func (r *ProfileRepo) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

func (r *ProfileRepo) Insert(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.profiles[p.UserID]; ok {
		return profile.ErrProfileExists
	}
	p.Version = 1
	r.profiles[p.UserID] = clone(p)
	r.order = append(r.order, p.UserID)
	r.Writes++
	return nil
}

func (r *ProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	stored, ok := r.profiles[p.UserID]
	if !ok || stored.Version != p.Version {
		return profile.ErrStaleProfile
	}
	p.Version++
	r.profiles[p.UserID] = clone(p)
	r.Writes++
	return nil
}

func (r *ProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return clone(p), nil
}

func (r *ProfileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*profile.Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.profiles[id]))
	}
	return out, nil
}

func (r *ProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return profile.ErrProfileNotFound
	}
	delete(r.profiles, userID)
	r.order = slices.DeleteFunc(r.order, func(id uuid.UUID) bool { return id == userID })
	return nil
}

// shallow is enough for flat records.
func shallow[T any](v *T) *T {
	c := *v
	return &c
}

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
	// ProjectionReads counts FindProjections calls.
	ProjectionReads int
}

func NewUserRepo(users ...*user.User) *UserRepo {
	r := &UserRepo{users: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		r.users[u.ID] = shallow(u)
	}
	return r
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.users[u.ID] = shallow(u)
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return shallow(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return shallow(u), nil
}

func (r *UserRepo) FindProjections(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProjectionReads++
	out := make(map[uuid.UUID]user.Projection, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Projection()
		}
	}
	return out, nil
}

func (r *UserRepo) UpdateAvatar(_ context.Context, id uuid.UUID, avatar string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Avatar = avatar
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type PostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*post.Post
}

func NewPostRepo() *PostRepo {
	return &PostRepo{posts: make(map[uuid.UUID]*post.Post)}
}

func (r *PostRepo) Save(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = shallow(p)
	return nil
}

func (r *PostRepo) FindByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return shallow(p), nil
}

func (r *PostRepo) List(_ context.Context) ([]*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, shallow(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
			n++
		}
	}
	return n, nil
}

type ProjectionCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]user.Projection
	Evicted []uuid.UUID
	// Err, when set, is returned by every call.
	Err error
}

func NewProjectionCache() *ProjectionCache {
	return &ProjectionCache{entries: make(map[uuid.UUID]user.Projection)}
}

func (c *ProjectionCache) GetMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Projection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	out := make(map[uuid.UUID]user.Projection)
	for _, id := range ids {
		if p, ok := c.entries[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *ProjectionCache) SetMany(_ context.Context, projections []user.Projection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	for _, p := range projections {
		c.entries[p.ID] = p
	}
	return nil
}

func (c *ProjectionCache) Evict(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.entries, id)
	c.Evicted = append(c.Evicted, id)
	return nil
}

func (c *ProjectionCache) Has(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

type Publisher struct {
	mu     sync.Mutex
	Events []service.ProfileEvent
	Err    error
}

func (p *Publisher) PublishProfileEvent(_ context.Context, ev service.ProfileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, ev)
	return nil
}

func (p *Publisher) Types() []service.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]service.EventType, len(p.Events))
	for i, ev := range p.Events {
		out[i] = ev.EventType
	}
	return out
}

// Uploader keeps uploaded bytes keyed by "folder/publicID".
type Uploader struct {
	mu      sync.Mutex
	Assets  map[string][]byte
	Deleted []string
	Err     error
}

func NewUploader() *Uploader {
	return &Uploader{Assets: make(map[string][]byte)}
}

var ErrUploaderDown = errors.New("uploader unavailable")

func (u *Uploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return "", u.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}
	key := folder + "/" + publicID
	u.Assets[key] = buf.Bytes()
	return "https://media.test/" + key, nil
}

func (u *Uploader) Delete(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	delete(u.Assets, publicID)
	u.Deleted = append(u.Deleted, publicID)
	return nil
}
