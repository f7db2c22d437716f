package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, srv *httptest.Server) *remote.Client {
	t.Helper()
	c, err := remote.NewClient(srv.URL+"/", 2*time.Second, 0, srv.Client())
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsRelativeRoot(t *testing.T) {
	_, err := remote.NewClient("/api", time.Second, 0, nil)
	assert.Error(t, err)

	_, err = remote.NewClient("http://localhost:5002", time.Second, 0, nil)
	assert.NoError(t, err)
}

func TestClient_Get_SendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs", r.URL.Path)
		assert.Equal(t, "Bearer tk-1", r.Header.Get("Authorization"))
		assert.Equal(t, "golang", r.URL.Query().Get("job_title"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs":[{"job_id":7,"job_title":"Go dev"}]}`))
	}))
	defer srv.Close()

	var out struct {
		Jobs []struct {
			ID    remote.Value `json:"job_id"`
			Title string       `json:"job_title"`
		} `json:"jobs"`
	}
	err := newClient(t, srv).Get(context.Background(), "/api/jobs", "tk-1", map[string][]string{"job_title": {"golang"}}, &out)
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, remote.Value("7"), out.Jobs[0].ID)
	assert.Equal(t, "Go dev", out.Jobs[0].Title)
}

func TestClient_Get_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, newClient(t, srv).Get(context.Background(), "/api/job-seeker/ann", "", nil, nil))
}

func TestClient_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name         string
		status       int
		body         string
		wantMsg      string
		unauthorized bool
		notFound     bool
	}{
		{name: "MessageField", status: http.StatusBadRequest, body: `{"message":"Username already taken"}`, wantMsg: "Username already taken"},
		{name: "ErrorField", status: http.StatusInternalServerError, body: `{"error":"db down"}`, wantMsg: "db down"},
		{name: "PlainText", status: http.StatusBadGateway, body: "upstream gone\n", wantMsg: "upstream gone"},
		{name: "EmptyBody", status: http.StatusNotFound, body: "", wantMsg: "Not Found", notFound: true},
		{name: "Unauthorized", status: http.StatusUnauthorized, body: `{"message":"jwt expired"}`, wantMsg: "jwt expired", unauthorized: true},
		{name: "Forbidden", status: http.StatusForbidden, body: "", wantMsg: "Forbidden", unauthorized: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = w.Write([]byte(c.body))
			}))
			defer srv.Close()

			err := newClient(t, srv).PostJSON(context.Background(), "/api/register", "", map[string]string{"username": "x"}, nil)
			require.Error(t, err)
			assert.Equal(t, c.wantMsg, remote.Message(err, "fallback"))
			assert.Equal(t, c.unauthorized, remote.IsUnauthorized(err))
			assert.Equal(t, c.notFound, remote.IsNotFound(err))
		})
	}
}

func TestClient_PostJSON_EncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]interface{}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&in)) {
			return
		}
		assert.Equal(t, float64(42), in["jobId"])
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	var out struct {
		Message string `json:"message"`
	}
	err := newClient(t, srv).PostJSON(context.Background(), "/api/apply-job", "tk", map[string]interface{}{"jobId": remote.Value("42")}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Message)
}

func TestClient_PostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Ann", r.FormValue("firstName"))
		f, hdr, err := r.FormFile("resume")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(b))
		_, _ = w.Write([]byte(`{"message":"Profile created"}`))
	}))
	defer srv.Close()

	err := newClient(t, srv).PostMultipart(
		context.Background(),
		"/api/profile/jobSeeker",
		"tk",
		map[string]string{"firstName": "Ann"},
		[]remote.File{{Field: "resume", Filename: "cv.pdf", Content: strings.NewReader("%PDF")}},
		nil,
	)
	require.NoError(t, err)
}

func TestClient_RateLimitedHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := remote.NewClient(srv.URL, time.Second, 0.001, srv.Client())
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/api/jobs", "", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.Get(ctx, "/api/jobs", "", nil, nil))
}

func TestValue_UnmarshalAndMarshal(t *testing.T) {
	var ids []remote.Value
	require.NoError(t, json.Unmarshal([]byte(`[1, "abc", 2.5, null]`), &ids))
	assert.Equal(t, []remote.Value{"1", "abc", "2.5", ""}, ids)

	b, err := json.Marshal([]remote.Value{"12", "job-12", "NaN"})
	require.NoError(t, err)
	assert.JSONEq(t, `[12, "job-12", "NaN"]`, string(b))
}
