package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/la-clef-asso/laclef-news/backend/internal/calendar"
	"github.com/la-clef-asso/laclef-news/backend/internal/config"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

// mockPostsRepository remplace le stockage dans les tests de handlers.
type mockPostsRepository struct {
	posts    []domain.Post
	fetchErr error

	created *domain.Post
	updated *domain.Post
	deleted string
}

func (m *mockPostsRepository) FetchPosts() ([]domain.Post, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.posts, nil
}

func (m *mockPostsRepository) GetPostByID(id string) (*domain.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockPostsRepository) CreatePost(post *domain.Post) error {
	post.ID = "created-id"
	post.CreatedAt = time.Now()
	post.Version = 1
	m.created = post
	return nil
}

func (m *mockPostsRepository) UpdatePost(post *domain.Post) error {
	m.updated = post
	return nil
}

func (m *mockPostsRepository) DeletePost(id string) error {
	m.deleted = id
	return nil
}

func newTestHandler(t *testing.T, posts PostsRepository) *Handler {
	t.Helper()
	h, err := NewHandler(&config.Config{}, nil, posts, nil, nil)
	require.NoError(t, err)
	return h
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func withUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), MyInfoCtx, user))
}

func withPost(r *http.Request, post *domain.Post) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), PostCtx, post))
}

func testDay(offset int) time.Time {
	return calendar.AddDays(calendar.StartOfDay(time.Now()), offset)
}

func TestGetPosts(t *testing.T) {
	mock := &mockPostsRepository{posts: []domain.Post{
		{ID: "old", Title: "Ancienne", CreatedAt: testDay(-10), StartAt: testDay(-10)},
		{ID: "new", Title: "Récente", CreatedAt: testDay(-1), StartAt: testDay(2)},
	}}
	h := newTestHandler(t, mock)

	rr := httptest.NewRecorder()
	h.GetPosts(rr, httptest.NewRequest("GET", "/posts", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	assert.True(t, resp.Success)

	data, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	// Tri par création décroissante
	first := data[0].(map[string]any)
	assert.Equal(t, "new", first["id"])
}

func TestGetPostsSinceYesterday(t *testing.T) {
	mock := &mockPostsRepository{posts: []domain.Post{
		{ID: "fresh", CreatedAt: testDay(-1), StartAt: testDay(0)},
		{ID: "stale", CreatedAt: testDay(-5), StartAt: testDay(0)},
	}}
	h := newTestHandler(t, mock)

	rr := httptest.NewRecorder()
	h.GetPosts(rr, httptest.NewRequest("GET", "/posts?filter=sinceYesterday", nil))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success)

	data := resp.Data.([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "fresh", data[0].(map[string]any)["id"])
}

func TestGetPostsUnknownFilter(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{})

	rr := httptest.NewRecorder()
	h.GetPosts(rr, httptest.NewRequest("GET", "/posts?filter=recent", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
}

func TestGetPostsOnDateRequiresDate(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{})

	rr := httptest.NewRecorder()
	h.GetPosts(rr, httptest.NewRequest("GET", "/posts?filter=onDate", nil))

	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "date de filtre invalide", resp.Message)
}

func TestGetPostsFetchFailure(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{fetchErr: errors.New("boom")})

	rr := httptest.NewRecorder()
	h.GetPosts(rr, httptest.NewRequest("GET", "/posts", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
}

func TestGetPost(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{})
	post := &domain.Post{ID: "p1", Title: "Info"}

	rr := httptest.NewRecorder()
	h.GetPost(rr, withPost(httptest.NewRequest("GET", "/posts/p1", nil), post))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success)
	assert.Equal(t, "p1", resp.Data.(map[string]any)["id"])
}

func TestCreatePost(t *testing.T) {
	mock := &mockPostsRepository{}
	h := newTestHandler(t, mock)

	user := &domain.User{Email: "zoe.amiel@laclef.asso.fr", DisplayName: "Zoé Amiel"}
	body := `{"title":"Stage de théâtre","type":"EVENT","startAt":"2025-03-10","endAt":"2025-03-14","description":"Salle 2"}`

	rr := httptest.NewRecorder()
	h.CreatePost(rr, withUser(httptest.NewRequest("POST", "/posts", strings.NewReader(body)), user))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success, resp.Message)

	require.NotNil(t, mock.created)
	created := mock.created
	assert.Equal(t, "Stage de théâtre", created.Title)
	assert.Equal(t, domain.PostTypeEvent, created.Type)

	// L'auteur est estampillé depuis le compte connecté
	assert.Equal(t, "Zoé Amiel", created.AuthorName)
	assert.Equal(t, "zoe.amiel@laclef.asso.fr", created.AuthorEmail)

	// Les dates sont ramenées à minuit local
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local), created.StartAt)
	require.NotNil(t, created.EndAt)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.Local), *created.EndAt)
}

func TestCreatePostInvalid(t *testing.T) {
	user := &domain.User{Email: "zoe.amiel@laclef.asso.fr", DisplayName: "Zoé Amiel"}

	tests := []struct {
		name string
		body string
	}{
		{"titre manquant", `{"type":"INFO","startAt":"2025-03-10"}`},
		{"type inconnu", `{"title":"ok","type":"NEWS","startAt":"2025-03-10"}`},
		{"date de début illisible", `{"title":"ok","type":"INFO","startAt":"10/03/2025"}`},
		{"fin avant début", `{"title":"ok","type":"INFO","startAt":"2025-03-10","endAt":"2025-03-08"}`},
		{"json invalide", `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockPostsRepository{}
			h := newTestHandler(t, mock)

			rr := httptest.NewRecorder()
			h.CreatePost(rr, withUser(httptest.NewRequest("POST", "/posts", strings.NewReader(tt.body)), user))

			assert.Equal(t, http.StatusOK, rr.Code)
			resp := decodeResponse(t, rr)
			assert.False(t, resp.Success)
			assert.Nil(t, mock.created)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	mock := &mockPostsRepository{}
	h := newTestHandler(t, mock)

	end := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.Local)
	post := &domain.Post{
		ID:      "p1",
		Title:   "Avant",
		Type:    domain.PostTypeEvent,
		StartAt: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local),
		EndAt:   &end,
		Version: 1,
	}

	body := `{"title":"Après","endAt":""}`
	rr := httptest.NewRecorder()
	h.UpdatePost(rr, withPost(httptest.NewRequest("PATCH", "/posts/p1", strings.NewReader(body)), post))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success, resp.Message)

	require.NotNil(t, mock.updated)
	assert.Equal(t, "Après", mock.updated.Title)
	// endAt vide efface la date de fin
	assert.Nil(t, mock.updated.EndAt)
	// Les champs non envoyés sont conservés
	assert.Equal(t, domain.PostTypeEvent, mock.updated.Type)
}

func TestUpdatePostInvalidResult(t *testing.T) {
	mock := &mockPostsRepository{}
	h := newTestHandler(t, mock)

	post := &domain.Post{
		ID:      "p1",
		Title:   "Titre",
		Type:    domain.PostTypeInfo,
		StartAt: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local),
		Version: 1,
	}

	// La nouvelle date de fin précède la date de début
	body := `{"endAt":"2025-03-05"}`
	rr := httptest.NewRecorder()
	h.UpdatePost(rr, withPost(httptest.NewRequest("PATCH", "/posts/p1", strings.NewReader(body)), post))

	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
	assert.Nil(t, mock.updated)
}

func TestDeletePost(t *testing.T) {
	mock := &mockPostsRepository{}
	h := newTestHandler(t, mock)

	post := &domain.Post{ID: "p1"}
	rr := httptest.NewRecorder()
	h.DeletePost(rr, withPost(httptest.NewRequest("DELETE", "/posts/p1", nil), post))

	resp := decodeResponse(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "p1", mock.deleted)
}

func TestGetCalendarWeek(t *testing.T) {
	// Période autour du mercredi 12 mars 2025
	ranged := testPostOn("ranged", "2025-03-09", "2025-03-13")
	single := testPostOn("single", "2025-03-11", "")

	mock := &mockPostsRepository{posts: []domain.Post{ranged, single}}
	h := newTestHandler(t, mock)

	rr := httptest.NewRecorder()
	h.GetCalendar(rr, httptest.NewRequest("GET", "/posts/calendar?mode=week&cursor=2025-03-12", nil))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success, resp.Message)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "week", data["mode"])
	assert.Equal(t, "2025-03-10", data["periodStart"])
	assert.Equal(t, "2025-03-16", data["periodEnd"])
	assert.Equal(t, "2025-03-05", data["prevCursor"])
	assert.Equal(t, "2025-03-19", data["nextCursor"])

	days := data["days"].([]any)
	require.Len(t, days, 7)

	first := days[0].(map[string]any)
	assert.Equal(t, "2025-03-10", first["day"])
	assert.Equal(t, "lundi 10 mars", first["label"])

	countFor := func(day map[string]any) int {
		return len(day["posts"].([]any))
	}
	// Lundi 10 : la période seulement ; mardi 11 : période + jour J
	assert.Equal(t, 1, countFor(days[0].(map[string]any)))
	assert.Equal(t, 2, countFor(days[1].(map[string]any)))
	// Vendredi 14 : plus rien
	assert.Equal(t, 0, countFor(days[4].(map[string]any)))
}

func TestGetCalendarUnknownMode(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{})

	rr := httptest.NewRecorder()
	h.GetCalendar(rr, httptest.NewRequest("GET", "/posts/calendar?mode=fortnight", nil))

	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
}

func TestGetCalendarBadCursor(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{})

	rr := httptest.NewRecorder()
	h.GetCalendar(rr, httptest.NewRequest("GET", "/posts/calendar?mode=day&cursor=12-03-2025", nil))

	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "curseur invalide", resp.Message)
}

func TestGetCalendarDefaultsToToday(t *testing.T) {
	h := newTestHandler(t, &mockPostsRepository{})

	rr := httptest.NewRecorder()
	h.GetCalendar(rr, httptest.NewRequest("GET", "/posts/calendar", nil))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "day", data["mode"])
	today := calendar.StartOfDay(time.Now()).Format("2006-01-02")
	assert.Equal(t, today, data["periodStart"])
	assert.Equal(t, today, data["periodEnd"])
}

func TestGetFeaturedPosts(t *testing.T) {
	end := testDay(3)
	mock := &mockPostsRepository{posts: []domain.Post{
		{ID: "live", Type: domain.PostTypeALaUne, StartAt: testDay(-1), EndAt: &end, CreatedAt: testDay(-1)},
		{ID: "expired", Type: domain.PostTypeALaUne, StartAt: testDay(-10), CreatedAt: testDay(-10)},
		{ID: "info", Type: domain.PostTypeInfo, StartAt: testDay(0), CreatedAt: testDay(0)},
	}}
	h := newTestHandler(t, mock)

	rr := httptest.NewRecorder()
	h.GetFeaturedPosts(rr, httptest.NewRequest("GET", "/posts/featured", nil))

	resp := decodeResponse(t, rr)
	require.True(t, resp.Success)

	data := resp.Data.([]any)
	require.Len(t, data, 1)

	live := data[0].(map[string]any)
	assert.Equal(t, "live", live["id"])
	// Fin dans 3 jours : 4 jours d'affichage restants
	assert.Equal(t, "4 jours restants", live["remainingLabel"])
}

func TestGetMyPosts(t *testing.T) {
	user := &domain.User{Email: "zoe.amiel@laclef.asso.fr", DisplayName: "Zoé Amiel"}

	mock := &mockPostsRepository{posts: []domain.Post{
		{ID: "mine-past", AuthorEmail: "zoe.amiel@laclef.asso.fr", StartAt: testDay(-5), CreatedAt: testDay(-5)},
		{ID: "mine-future", AuthorEmail: "zoe.amiel@laclef.asso.fr", StartAt: testDay(5), CreatedAt: testDay(-1)},
		{ID: "other", AuthorEmail: "admin@laclef.asso.fr", StartAt: testDay(-5), CreatedAt: testDay(-5)},
	}}
	h := newTestHandler(t, mock)

	tests := []struct {
		name    string
		url     string
		wantIDs []string
	}{
		{"tout", "/posts/mine", []string{"mine-future", "mine-past"}},
		{"passées", "/posts/mine?filter=past", []string{"mine-past"}},
		{"programmées", "/posts/mine?filter=scheduled", []string{"mine-future"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.GetMyPosts(rr, withUser(httptest.NewRequest("GET", tt.url, nil), user))

			resp := decodeResponse(t, rr)
			require.True(t, resp.Success, resp.Message)

			data := resp.Data.([]any)
			ids := make([]string, 0, len(data))
			for _, item := range data {
				ids = append(ids, item.(map[string]any)["id"].(string))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGetMyPostsUnknownFilter(t *testing.T) {
	user := &domain.User{Email: "zoe.amiel@laclef.asso.fr"}
	h := newTestHandler(t, &mockPostsRepository{})

	rr := httptest.NewRecorder()
	h.GetMyPosts(rr, withUser(httptest.NewRequest("GET", "/posts/mine?filter=old", nil), user))

	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
}

func testPostOn(id, startAt, endAt string) domain.Post {
	start, _ := time.ParseInLocation("2006-01-02", startAt, time.Local)
	post := domain.Post{ID: id, Title: id, Type: domain.PostTypeEvent, StartAt: start, CreatedAt: start}
	if endAt != "" {
		end, _ := time.ParseInLocation("2006-01-02", endAt, time.Local)
		post.EndAt = &end
	}
	return post
}
