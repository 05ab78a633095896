package tunes

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"teamtune/cache"
	"teamtune/core/spotify"
	"teamtune/model"
)

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (r *memUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) FindByID(id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateSpotifyTokens(userID int64, access, refresh string, refreshDate time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	u.AccessToken = access
	u.RefreshToken = refresh
	u.TokenRefreshDate = refreshDate
	return nil
}

func (r *memUserRepo) Delete(id int64) error {
	delete(r.users, id)
	return nil
}

// memPlaylistRepo is an in-memory PlaylistRepository preserving insertion
// order.
type memPlaylistRepo struct {
	order     []string
	playlists map[string]*model.Playlist
}

func newMemPlaylistRepo() *memPlaylistRepo {
	return &memPlaylistRepo{playlists: make(map[string]*model.Playlist)}
}

func (r *memPlaylistRepo) Create(p *model.Playlist) error {
	copied := *p
	r.playlists[p.ID] = &copied
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memPlaylistRepo) Save(p *model.Playlist) error {
	copied := *p
	if _, ok := r.playlists[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.playlists[p.ID] = &copied
	return nil
}

func (r *memPlaylistRepo) FindByID(id string) (*model.Playlist, error) {
	p, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *memPlaylistRepo) FindByPublicID(publicID string) (*model.Playlist, error) {
	for _, p := range r.playlists {
		if p.PublicID == publicID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memPlaylistRepo) FindByOwner(ownerID int64) ([]model.Playlist, error) {
	out := []model.Playlist{}
	for _, id := range r.order {
		if p := r.playlists[id]; p != nil && p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPlaylistRepo) Delete(id string) error {
	delete(r.playlists, id)
	return nil
}

// memInviteRepo is an in-memory InvitedUserRepository.
type memInviteRepo struct {
	invites []model.InvitedUser
	nextID  int64
}

func newMemInviteRepo() *memInviteRepo {
	return &memInviteRepo{nextID: 1}
}

func (r *memInviteRepo) Create(inv *model.InvitedUser) error {
	inv.ID = r.nextID
	r.nextID++
	r.invites = append(r.invites, *inv)
	return nil
}

func (r *memInviteRepo) FindByUsername(username string) ([]model.InvitedUser, error) {
	out := []model.InvitedUser{}
	for _, inv := range r.invites {
		if inv.Username == username {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInviteRepo) FindByPlaylist(playlistID string) ([]model.InvitedUser, error) {
	out := []model.InvitedUser{}
	for _, inv := range r.invites {
		if inv.PlaylistID == playlistID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInviteRepo) Delete(id int64) error {
	kept := r.invites[:0]
	for _, inv := range r.invites {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	r.invites = kept
	return nil
}

// fakeAPI implements spotify.API with overridable behavior per method. A
// method without a configured func fails the calling code path loudly.
type fakeAPI struct {
	currentUser       func(ctx context.Context) (*spotify.PrivateUser, error)
	userProfile       func(ctx context.Context, userID string) (*spotify.PublicUser, error)
	myPlaylists       func(ctx context.Context, limit, offset int) (*spotify.Page[spotify.SimplePlaylist], error)
	getPlaylist       func(ctx context.Context, playlistID string) (*spotify.Playlist, error)
	playlistTracks    func(ctx context.Context, playlistID string, limit, offset int) (*spotify.Page[spotify.PlaylistTrack], error)
	createPlaylist    func(ctx context.Context, userID, name, description string, public bool) (*spotify.Playlist, error)
	changeDetails     func(ctx context.Context, playlistID, name, description string, public *bool) error
	addTracks         func(ctx context.Context, playlistID string, uris []string) (string, error)
	removeTracks      func(ctx context.Context, playlistID string, uris []string) error
	followPlaylist    func(ctx context.Context, playlistID string, public bool) error
	unfollowPlaylist  func(ctx context.Context, playlistID string) error
	searchTracks      func(ctx context.Context, query string, limit int) (*spotify.Page[spotify.Track], error)
	audioFeatures     func(ctx context.Context, ids []string) ([]spotify.AudioFeatures, error)
	recommendations   func(ctx context.Context, seedTracks []string, targetPopularity, limit int, market string) (*spotify.Recommendations, error)
	startPlayback     func(ctx context.Context, contextURI string) error
}

var _ spotify.API = (*fakeAPI)(nil)

func (f *fakeAPI) CurrentUser(ctx context.Context) (*spotify.PrivateUser, error) {
	if f.currentUser == nil {
		return nil, fmt.Errorf("unexpected CurrentUser call")
	}
	return f.currentUser(ctx)
}

func (f *fakeAPI) UserProfile(ctx context.Context, userID string) (*spotify.PublicUser, error) {
	if f.userProfile == nil {
		return nil, fmt.Errorf("unexpected UserProfile call")
	}
	return f.userProfile(ctx, userID)
}

func (f *fakeAPI) MyPlaylists(ctx context.Context, limit, offset int) (*spotify.Page[spotify.SimplePlaylist], error) {
	if f.myPlaylists == nil {
		return nil, fmt.Errorf("unexpected MyPlaylists call")
	}
	return f.myPlaylists(ctx, limit, offset)
}

func (f *fakeAPI) GetPlaylist(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
	if f.getPlaylist == nil {
		return nil, fmt.Errorf("unexpected GetPlaylist call")
	}
	return f.getPlaylist(ctx, playlistID)
}

func (f *fakeAPI) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*spotify.Page[spotify.PlaylistTrack], error) {
	if f.playlistTracks == nil {
		return nil, fmt.Errorf("unexpected PlaylistTracks call")
	}
	return f.playlistTracks(ctx, playlistID, limit, offset)
}

func (f *fakeAPI) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*spotify.Playlist, error) {
	if f.createPlaylist == nil {
		return nil, fmt.Errorf("unexpected CreatePlaylist call")
	}
	return f.createPlaylist(ctx, userID, name, description, public)
}

func (f *fakeAPI) ChangePlaylistDetails(ctx context.Context, playlistID, name, description string, public *bool) error {
	if f.changeDetails == nil {
		return fmt.Errorf("unexpected ChangePlaylistDetails call")
	}
	return f.changeDetails(ctx, playlistID, name, description, public)
}

func (f *fakeAPI) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if f.addTracks == nil {
		return "", fmt.Errorf("unexpected AddTracks call")
	}
	return f.addTracks(ctx, playlistID, uris)
}

func (f *fakeAPI) RemoveTracks(ctx context.Context, playlistID string, uris []string) error {
	if f.removeTracks == nil {
		return fmt.Errorf("unexpected RemoveTracks call")
	}
	return f.removeTracks(ctx, playlistID, uris)
}

func (f *fakeAPI) FollowPlaylist(ctx context.Context, playlistID string, public bool) error {
	if f.followPlaylist == nil {
		return fmt.Errorf("unexpected FollowPlaylist call")
	}
	return f.followPlaylist(ctx, playlistID, public)
}

func (f *fakeAPI) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	if f.unfollowPlaylist == nil {
		return fmt.Errorf("unexpected UnfollowPlaylist call")
	}
	return f.unfollowPlaylist(ctx, playlistID)
}

func (f *fakeAPI) SearchTracks(ctx context.Context, query string, limit int) (*spotify.Page[spotify.Track], error) {
	if f.searchTracks == nil {
		return nil, fmt.Errorf("unexpected SearchTracks call")
	}
	return f.searchTracks(ctx, query, limit)
}

func (f *fakeAPI) AudioFeatures(ctx context.Context, ids []string) ([]spotify.AudioFeatures, error) {
	if f.audioFeatures == nil {
		return nil, fmt.Errorf("unexpected AudioFeatures call")
	}
	return f.audioFeatures(ctx, ids)
}

func (f *fakeAPI) Recommendations(ctx context.Context, seedTracks []string, targetPopularity, limit int, market string) (*spotify.Recommendations, error) {
	if f.recommendations == nil {
		return nil, fmt.Errorf("unexpected Recommendations call")
	}
	return f.recommendations(ctx, seedTracks, targetPopularity, limit, market)
}

func (f *fakeAPI) StartPlayback(ctx context.Context, contextURI string) error {
	if f.startPlayback == nil {
		return fmt.Errorf("unexpected StartPlayback call")
	}
	return f.startPlayback(ctx, contextURI)
}

// testEnv bundles the fakes a service test needs.
type testEnv struct {
	users     *memUserRepo
	playlists *memPlaylistRepo
	invites   *memInviteRepo
	api       *fakeAPI
	svc       *Service
}

// freshUser returns a user whose stored token is still comfortably fresh,
// so tests exercise the service without triggering a refresh.
func freshUser(users *memUserRepo) *model.User {
	u := &model.User{
		Username:         "alice",
		Role:             model.RoleMember,
		SpotifyID:        "spotify-alice",
		AccessToken:      "access",
		RefreshToken:     "refresh",
		TokenRefreshDate: time.Now().Add(TokenLifetime),
	}
	_ = users.Create(u)
	return u
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:     newMemUserRepo(),
		playlists: newMemPlaylistRepo(),
		invites:   newMemInviteRepo(),
		api:       &fakeAPI{},
	}

	tokens := NewManager(env.users, nil, nil)
	factory := func(accessToken string) spotify.API { return env.api }

	env.svc = NewService(env.users, env.playlists, env.invites, tokens, cache.NewNameCache(nil), factory, "DE")
	// Deterministic seed picks for the filler tests.
	env.svc.rng = rand.New(rand.NewSource(1))
	return env
}
