package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivot/internal/auth"
	"pivot/internal/content"
	"pivot/internal/models"
	"pivot/internal/store"
)

type stubExtractor struct {
	chunks []string
}

func (s stubExtractor) Extract(context.Context, string) []string { return s.chunks }

const testWidgetBase = "https://testing.gopivot.me"

func newTestAPI(t *testing.T, chunks []string) (*httptest.Server, *store.Memory) {
	t.Helper()
	repo := store.NewMemory()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	svc := content.NewService(repo, stubExtractor{chunks: chunks}, nil, nil, log)
	tokens := auth.NewTokens("test-secret", time.Hour)
	srv := NewServer(repo, svc, tokens, testWidgetBase, log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, repo
}

// doJSON sends a JSON request and decodes the JSON response into a generic map.
func doJSON(t *testing.T, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	status, raw := doRaw(t, method, url, token, body)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return status, out
}

func doList(t *testing.T, method, url, token string, body interface{}) (int, []map[string]interface{}) {
	t.Helper()
	status, raw := doRaw(t, method, url, token, body)
	var out []map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return status, out
}

func doRaw(t *testing.T, method, url, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func registerUser(t *testing.T, ts *httptest.Server, name, email, password string) string {
	t.Helper()
	status, resp := doJSON(t, "POST", ts.URL+"/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := resp["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createWebsite(t *testing.T, ts *httptest.Server, token string) string {
	t.Helper()
	status, resp := doJSON(t, "POST", ts.URL+"/api/websites", token, map[string]string{
		"name": "Test Website", "url": "https://example.com",
	})
	require.Equal(t, http.StatusOK, status)
	id, _ := resp["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestRegisterAndLoginNormalizesEmailCase(t *testing.T) {
	ts, _ := newTestAPI(t, nil)

	registerUser(t, ts, "Test User", "Foo@Bar.com", "TestPass123!")

	for _, email := range []string{"foo@bar.com", "Foo@Bar.com", "FOO@BAR.COM"} {
		status, resp := doJSON(t, "POST", ts.URL+"/api/auth/login", "", map[string]string{
			"email": email, "password": "TestPass123!",
		})
		assert.Equal(t, http.StatusOK, status, "login with %s", email)
		assert.Equal(t, "bearer", resp["token_type"])
	}

	status, _ := doJSON(t, "POST", ts.URL+"/api/auth/login", "", map[string]string{
		"email": "foo@bar.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Unknown email gets the same response as a wrong password.
	status, resp := doJSON(t, "POST", ts.URL+"/api/auth/login", "", map[string]string{
		"email": "nobody@bar.com", "password": "TestPass123!",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", resp["detail"])
}

func TestAuthMeRequiresToken(t *testing.T) {
	ts, _ := newTestAPI(t, nil)

	status, _ := doJSON(t, "GET", ts.URL+"/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := registerUser(t, ts, "Test User", "me@ex.com", "TestPass123!")
	status, resp := doJSON(t, "GET", ts.URL+"/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "me@ex.com", resp["email"])
}

func TestWebsiteEmbedCodeIsDerived(t *testing.T) {
	ts, _ := newTestAPI(t, nil)
	token := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, token)

	status, resp := doJSON(t, "GET", ts.URL+"/api/websites/"+websiteID, token, nil)
	require.Equal(t, http.StatusOK, status)
	embed, _ := resp["embed_code"].(string)
	assert.Contains(t, embed, testWidgetBase+"/api/widget.js")
	assert.Contains(t, embed, websiteID)
}

func TestAccessDenialLooksLikeNotFound(t *testing.T) {
	ts, _ := newTestAPI(t, nil)
	ownerToken := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	strangerToken := registerUser(t, ts, "Stranger", "stranger@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, ownerToken)

	status, _ := doJSON(t, "GET", ts.URL+"/api/websites/"+websiteID, strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, "GET", ts.URL+"/api/websites/does-not-exist", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCollaboratorInvitationFlow(t *testing.T) {
	ts, _ := newTestAPI(t, nil)
	ownerToken := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	collabToken := registerUser(t, ts, "Collaborator", "collab@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, ownerToken)

	status, resp := doJSON(t, "POST", ts.URL+"/api/websites/"+websiteID+"/collaborators/invite", ownerToken,
		map[string]string{"email": "Collab@Ex.com"})
	require.Equal(t, http.StatusOK, status)
	invToken, _ := resp["token"].(string)
	require.NotEmpty(t, invToken)

	// Before accepting, the collaborator cannot see the website.
	status, _ = doJSON(t, "GET", ts.URL+"/api/websites/"+websiteID, collabToken, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, "POST", ts.URL+"/api/invitations/"+invToken+"/accept", collabToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, "GET", ts.URL+"/api/websites/"+websiteID, collabToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPageCreationScrapesSections(t *testing.T) {
	ts, _ := newTestAPI(t, []string{"first chunk of content", "second chunk of content"})
	token := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, token)

	status, page := doJSON(t, "POST", ts.URL+"/api/websites/"+websiteID+"/pages", token,
		map[string]string{"url": "https://example.com/a"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Not Setup", page["status"])
	assert.Equal(t, float64(2), page["sections_count"])

	pageID, _ := page["id"].(string)
	status, sections := doList(t, "GET", ts.URL+"/api/pages/"+pageID+"/sections", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, sections, 2)
	assert.Equal(t, float64(1), sections[0]["position_order"])
	assert.Equal(t, "first chunk of content", sections[0]["selected_text"])
}

func TestSectionLifecycle(t *testing.T) {
	ts, _ := newTestAPI(t, nil)
	token := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, token)

	status, page := doJSON(t, "POST", ts.URL+"/api/websites/"+websiteID+"/pages", token,
		map[string]string{"url": "https://example.com/a"})
	require.Equal(t, http.StatusOK, status)
	pageID, _ := page["id"].(string)

	status, section := doJSON(t, "POST", ts.URL+"/api/pages/"+pageID+"/sections", token,
		map[string]interface{}{"selected_text": "Manual section text", "position_order": 1})
	require.Equal(t, http.StatusOK, status)
	sectionID, _ := section["id"].(string)

	status, _ = doJSON(t, "PATCH", ts.URL+"/api/sections/"+sectionID, token,
		map[string]string{"status": "Bogus"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, updated := doJSON(t, "PATCH", ts.URL+"/api/sections/"+sectionID, token,
		map[string]interface{}{"selected_text": "Edited text", "status": "Active"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Edited text", updated["selected_text"])
	assert.Equal(t, "Edited text", updated["text_content"])
	assert.Equal(t, "Active", updated["status"])

	status, detail := doJSON(t, "GET", ts.URL+"/api/sections/"+sectionID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Empty", detail["content_state"])

	status, _ = doJSON(t, "DELETE", ts.URL+"/api/sections/"+sectionID, token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, "GET", ts.URL+"/api/sections/"+sectionID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReorderEndpointIsIdempotent(t *testing.T) {
	ts, _ := newTestAPI(t, []string{"alpha chunk text", "beta chunk text", "gamma chunk text"})
	token := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, token)

	_, page := doJSON(t, "POST", ts.URL+"/api/websites/"+websiteID+"/pages", token,
		map[string]string{"url": "https://example.com/a"})
	pageID, _ := page["id"].(string)

	_, sections := doList(t, "GET", ts.URL+"/api/pages/"+pageID+"/sections", token, nil)
	require.Len(t, sections, 3)

	reorder := map[string]interface{}{"sections": []map[string]interface{}{
		{"id": sections[0]["id"], "position_order": 3},
		{"id": sections[1]["id"], "position_order": 1},
		{"id": sections[2]["id"], "position_order": 2},
	}}
	for i := 0; i < 2; i++ {
		status, _ := doJSON(t, "PUT", ts.URL+"/api/pages/"+pageID+"/sections/reorder", token, reorder)
		require.Equal(t, http.StatusOK, status)
	}

	_, after := doList(t, "GET", ts.URL+"/api/pages/"+pageID+"/sections", token, nil)
	require.Len(t, after, 3)
	assert.Equal(t, sections[1]["id"], after[0]["id"])
	assert.Equal(t, sections[2]["id"], after[1]["id"])
	assert.Equal(t, sections[0]["id"], after[2]["id"])
}

func TestWidgetEndpointEndToEnd(t *testing.T) {
	ts, repo := newTestAPI(t, []string{"first section content here", "second section content here"})
	token := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, token)

	_, page := doJSON(t, "POST", ts.URL+"/api/websites/"+websiteID+"/pages", token,
		map[string]string{"url": "https://ex.com/a"})
	pageID, _ := page["id"].(string)

	status, _ := doJSON(t, "PATCH", ts.URL+"/api/pages/"+pageID+"/status", token,
		map[string]string{"status": "Active"})
	require.Equal(t, http.StatusOK, status)

	_, sections := doList(t, "GET", ts.URL+"/api/pages/"+pageID+"/sections", token, nil)
	require.Len(t, sections, 2)
	for _, sec := range sections {
		id, _ := sec["id"].(string)
		status, _ := doJSON(t, "PATCH", ts.URL+"/api/sections/"+id, token, map[string]string{"status": "Active"})
		require.Equal(t, http.StatusOK, status)
	}

	firstID, _ := sections[0]["id"].(string)
	require.NoError(t, repo.CreateVideo(context.Background(), models.Video{
		ID: uuid.New().String(), SectionID: firstID, Language: "English", VideoURL: "https://cdn/x.mp4",
	}))

	// Public endpoint, no auth header.
	widgetURL := fmt.Sprintf("%s/api/widget/%s/content?page_url=%s", ts.URL, websiteID, "https://ex.com/a")
	status, payload := doJSON(t, "GET", widgetURL, "", nil)
	require.Equal(t, http.StatusOK, status)

	got, _ := payload["sections"].([]interface{})
	require.Len(t, got, 2)
	first, _ := got[0].(map[string]interface{})
	second, _ := got[1].(map[string]interface{})
	firstVideos, _ := first["videos"].([]interface{})
	require.Len(t, firstVideos, 1)
	video, _ := firstVideos[0].(map[string]interface{})
	assert.Equal(t, "https://cdn/x.mp4", video["video_url"])
	secondVideos, ok := second["videos"].([]interface{})
	assert.True(t, ok)
	assert.Empty(t, secondVideos)

	analytics, err := repo.AnalyticsForWebsite(context.Background(), websiteID)
	require.NoError(t, err)
	require.Len(t, analytics, 1)
	assert.Equal(t, int64(1), analytics[0].Views)

	status, _ = doJSON(t, "GET", ts.URL+"/api/widget/no-such-site/content?page_url=https://ex.com/a", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPageDeleteCascadesOverAPI(t *testing.T) {
	ts, _ := newTestAPI(t, []string{"only chunk of page content"})
	token := registerUser(t, ts, "Owner", "owner@ex.com", "TestPass123!")
	websiteID := createWebsite(t, ts, token)

	_, page := doJSON(t, "POST", ts.URL+"/api/websites/"+websiteID+"/pages", token,
		map[string]string{"url": "https://example.com/a"})
	pageID, _ := page["id"].(string)

	_, sections := doList(t, "GET", ts.URL+"/api/pages/"+pageID+"/sections", token, nil)
	require.Len(t, sections, 1)
	sectionID, _ := sections[0]["id"].(string)

	status, _ := doJSON(t, "DELETE", ts.URL+"/api/pages/"+pageID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, "GET", ts.URL+"/api/pages/"+pageID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, "GET", ts.URL+"/api/sections/"+sectionID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
