package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"roomlog/config"
	"roomlog/internal/app"
	"roomlog/internal/database"
	"roomlog/internal/handlers/middleware"
	. "roomlog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type testServer struct {
	t          *testing.T
	fiber      *fiber.App
	db         *gorm.DB
	theme      Theme
	otherTheme Theme
}

type session struct {
	ID    int
	Token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&User{}, &Store{}, &Theme{}, &Record{}, &Tag{}, &Review{}))

	store := Store{Name: "Lockbox", Address: "Gangnam"}
	require.NoError(t, db.Create(&store).Error)
	theme := Theme{StoreID: store.ID, Name: "The Last Train", PlayTime: 70, Price: decimal.NewFromInt(25000)}
	require.NoError(t, db.Create(&theme).Error)
	otherTheme := Theme{StoreID: store.ID, Name: "Grandma's Attic", PlayTime: 60, Price: decimal.NewFromInt(22000)}
	require.NoError(t, db.Create(&otherTheme).Error)

	cfg := config.Config{
		GeneralVersion: "test",
		Environment:    "test",
		JWTSecret:      "handler-test-secret",
		JWTIssuer:      "roomlog",
		JWTExpiryHours: 1,
	}
	application, err := app.NewWithDatabase(cfg, database.NewFromGorm(db))
	require.NoError(t, err)

	server := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	server.Use(application.Middleware.TraceID())
	require.NoError(t, Router(server, application))

	return &testServer{t: t, fiber: server, db: db, theme: theme, otherTheme: otherTheme}
}

func (s *testServer) do(method, path, token string, body any) (*http.Response, map[string]any) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return s.send(req, token)
}

func (s *testServer) doForm(method, path, token string, form url.Values) (*http.Response, map[string]any) {
	s.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return s.send(req, token)
}

// doMultipart sends fields in order so repeated keys stay repeated.
func (s *testServer) doMultipart(method, path, token string, fields [][2]string) (*http.Response, map[string]any) {
	s.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range fields {
		require.NoError(s.t, writer.WriteField(field[0], field[1]))
	}
	require.NoError(s.t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (*http.Response, map[string]any) {
	s.t.Helper()

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.fiber.Test(req, -1)
	require.NoError(s.t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func (s *testServer) signup(nickname string) session {
	s.t.Helper()

	resp, body := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    nickname + "@example.com",
		"nickname": nickname,
		"password": "correct-horse",
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, body)

	user := body["user"].(map[string]any)
	token := body["accessToken"].(map[string]any)
	return session{ID: int(user["id"].(float64)), Token: token["token"].(string)}
}

func (s *testServer) activeMembers(recordID int) []int {
	s.t.Helper()

	var ids []int
	require.NoError(s.t, s.db.Model(&Tag{}).
		Where("record_id = ? AND removed_at IS NULL AND is_writer = ?", recordID, false).
		Order("user_id").
		Pluck("user_id", &ids).Error)
	return ids
}

func yesterday() string {
	return time.Now().AddDate(0, 0, -1).Format(time.DateOnly)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "roomlog_api", body["service"])
	assert.NotEmpty(t, resp.Header.Get(middleware.TraceIDHeader))
}

func TestTraceID_EchoesCallerValue(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.TraceIDHeader, "trace-123")
	resp, _ := s.send(req, "")

	assert.Equal(t, "trace-123", resp.Header.Get(middleware.TraceIDHeader))
}

func TestAuth_SignupLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")

	resp, body := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "host@example.com",
		"nickname": "another",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EXISTING_EMAIL", body["code"])

	resp, body = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "host@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	resp, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "host@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodGet, "/api/users/me", host.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "host@example.com", body["email"])
}

func TestRequireAuth_Rejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, body := s.send(req, "")

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "INVALID_TOKEN", body["code"])
		})
	}
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(http.MethodGet, "/api/stores", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["stores"], 1)

	resp, body = s.do(http.MethodGet, fmt.Sprintf("/api/themes?storeId=%d", s.theme.StoreID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["themes"], 2)

	resp, body = s.do(http.MethodGet, "/api/stores/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NON_EXISTING_STORE", body["code"])

	resp, body = s.do(http.MethodGet, "/api/themes/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestRecords_PartyLifecycle(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")
	ada := s.signup("ada")
	grace := s.signup("grace")

	resp, body := s.do(http.MethodPost, "/api/records", host.Token, map[string]any{
		"themeId":   s.theme.ID,
		"playDate":  yesterday(),
		"isSuccess": true,
		"headCount": 3,
		"party":     []any{ada.ID, fmt.Sprint(grace.ID), host.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	recordID := int(body["id"].(float64))
	assert.Len(t, body["tags"], 3)
	assert.Equal(t, []int{ada.ID, grace.ID}, s.activeMembers(recordID))

	path := fmt.Sprintf("/api/records/%d", recordID)

	resp, body = s.do(http.MethodPatch, path, host.Token, map[string]any{"party": []int{ada.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, []int{ada.ID}, s.activeMembers(recordID))

	resp, body = s.do(http.MethodPost, path+"/reviews", ada.Token, map[string]any{"rating": 4.5})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = s.do(http.MethodPatch, path, host.Token, map[string]any{"party": []int{}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EXISTING_REVIEW", body["code"])
	assert.Equal(t, []int{ada.ID}, s.activeMembers(recordID))

	resp, body = s.do(http.MethodPatch, path, ada.Token, map[string]any{"note": "not mine"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_RECORD_WRITER", body["code"])

	resp, _ = s.do(http.MethodDelete, "/api/records/"+fmt.Sprint(recordID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecords_PartyRejections(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")
	ada := s.signup("ada")
	grace := s.signup("grace")

	resp, body := s.do(http.MethodPost, "/api/records", host.Token, map[string]any{
		"themeId":   s.theme.ID,
		"playDate":  yesterday(),
		"headCount": 2,
		"party":     []int{ada.ID, grace.ID},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "PARTY_LENGTH_OVER_HEADCOUNT", body["code"])

	resp, body = s.do(http.MethodPost, "/api/records", host.Token, map[string]any{
		"themeId":   s.theme.ID,
		"playDate":  yesterday(),
		"headCount": 4,
		"party":     []int{ada.ID, 9999},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NON_EXISTING_PARTY", body["code"])

	var count int64
	require.NoError(t, s.db.Model(&Record{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecords_FormBlankPartyIsNoParty(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")
	ada := s.signup("ada")

	resp, body := s.doForm(http.MethodPost, "/api/records", host.Token, url.Values{
		"themeId":   {fmt.Sprint(s.theme.ID)},
		"playDate":  {yesterday()},
		"headCount": {"2"},
		"party":     {fmt.Sprint(ada.ID)},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	recordID := int(body["id"].(float64))

	resp, body = s.doForm(http.MethodPatch, fmt.Sprintf("/api/records/%d", recordID), host.Token, url.Values{
		"note":  {"used two hints"},
		"party": {""},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "used two hints", body["note"])
	assert.Equal(t, []int{ada.ID}, s.activeMembers(recordID))
}

// reviewedRecord creates a record on the default theme with ada tagged and reviewing it.
func (s *testServer) reviewedRecord(host, ada session) int {
	s.t.Helper()

	resp, body := s.do(http.MethodPost, "/api/records", host.Token, map[string]any{
		"themeId":   s.theme.ID,
		"playDate":  yesterday(),
		"headCount": 2,
		"party":     []int{ada.ID},
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, body)
	recordID := int(body["id"].(float64))

	resp, body = s.do(http.MethodPost, fmt.Sprintf("/api/records/%d/reviews", recordID), ada.Token,
		map[string]any{"rating": 4})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, body)

	return recordID
}

func (s *testServer) themeReviews(themeID int) []any {
	s.t.Helper()

	resp, body := s.do(http.MethodGet, fmt.Sprintf("/api/themes/%d/reviews", themeID), "", nil)
	require.Equal(s.t, http.StatusOK, resp.StatusCode, body)
	reviews, _ := body["reviews"].([]any)
	return reviews
}

func (s *testServer) themeReviewCount(themeID int) float64 {
	s.t.Helper()

	resp, body := s.do(http.MethodGet, fmt.Sprintf("/api/themes/%d", themeID), "", nil)
	require.Equal(s.t, http.StatusOK, resp.StatusCode, body)
	return body["stats"].(map[string]any)["reviewCount"].(float64)
}

func TestRecords_ThemeChangeMovesReviews(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")
	ada := s.signup("ada")
	recordID := s.reviewedRecord(host, ada)

	require.Len(t, s.themeReviews(s.theme.ID), 1)

	resp, body := s.do(http.MethodPatch, fmt.Sprintf("/api/records/%d", recordID), host.Token,
		map[string]any{"themeId": s.otherTheme.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	assert.Empty(t, s.themeReviews(s.theme.ID))
	moved := s.themeReviews(s.otherTheme.ID)
	require.Len(t, moved, 1)
	assert.Equal(t, float64(s.otherTheme.ID), moved[0].(map[string]any)["themeId"])
	assert.Equal(t, float64(0), s.themeReviewCount(s.theme.ID))
	assert.Equal(t, float64(1), s.themeReviewCount(s.otherTheme.ID))
}

func TestRecords_DeleteRemovesReviews(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")
	ada := s.signup("ada")
	recordID := s.reviewedRecord(host, ada)

	resp, _ := s.do(http.MethodDelete, fmt.Sprintf("/api/records/%d", recordID), host.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, s.themeReviews(s.theme.ID))
	assert.Equal(t, float64(0), s.themeReviewCount(s.theme.ID))

	resp, body := s.do(http.MethodGet, fmt.Sprintf("/api/records/%d", recordID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NON_EXISTING_RECORD", body["code"])
}

func TestRecords_FormPartyEncodings(t *testing.T) {
	s := newTestServer(t)
	host := s.signup("host")
	ada := s.signup("ada")
	grace := s.signup("grace")

	resp, body := s.doForm(http.MethodPost, "/api/records", host.Token, url.Values{
		"themeId":   {fmt.Sprint(s.theme.ID)},
		"playDate":  {yesterday()},
		"headCount": {"3"},
		"party":     {fmt.Sprintf("%d,%d", ada.ID, grace.ID)},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	recordID := int(body["id"].(float64))
	path := fmt.Sprintf("/api/records/%d", recordID)
	assert.Equal(t, []int{ada.ID, grace.ID}, s.activeMembers(recordID))

	steps := []struct {
		name     string
		fields   [][2]string
		expected []int
	}{
		{
			name:     "multipart blank party leaves tags alone",
			fields:   [][2]string{{"note", "escaped with a minute left"}, {"party", ""}},
			expected: []int{ada.ID, grace.ID},
		},
		{
			name:     "multipart single value drops the rest",
			fields:   [][2]string{{"party", fmt.Sprint(ada.ID)}},
			expected: []int{ada.ID},
		},
		{
			name:     "multipart repeated values",
			fields:   [][2]string{{"party", fmt.Sprint(ada.ID)}, {"party", fmt.Sprint(grace.ID)}},
			expected: []int{ada.ID, grace.ID},
		},
	}

	for _, step := range steps {
		resp, body := s.doMultipart(http.MethodPatch, path, host.Token, step.fields)
		require.Equal(t, http.StatusOK, resp.StatusCode, "%s: %v", step.name, body)
		assert.Equal(t, step.expected, s.activeMembers(recordID), step.name)
	}
}
