package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monperrus/ladok3/internal/config"
)

func testClient(srvURL string) *Client {
	u, _ := url.Parse(srvURL)
	cfg := &config.Config{}
	cfg.Canvas.Host = u.Host
	cfg.Canvas.AccessToken = "canvas-token"
	cfg.Canvas.UseSSL = false
	cfg.Canvas.Timeout = 5 * time.Second
	return NewClient(cfg)
}

func TestUsersInCourseFollowsPagination(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api/v1/courses/41/enrollments", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"user_id": 3, "type": "StudentEnrollment",
				"user": {"id": 3, "name": "Cecilia", "integration_id": "uid-3"}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/41/enrollments?page=2>; rel="next", <%s/api/v1/courses/41/enrollments?page=1>; rel="first"`, srv.URL, srv.URL))
		fmt.Fprint(w, `[
			{"user_id": 1, "type": "StudentEnrollment", "user": {"id": 1, "name": "Alba", "integration_id": "uid-1"}},
			{"user_id": 2, "type": "StudentEnrollment", "user": {"id": 2, "name": "Bo", "integration_id": "29054"}}
		]`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL)
	enrollments, err := c.UsersInCourse(context.Background(), 41, "StudentEnrollment")
	require.NoError(t, err)
	require.Len(t, enrollments, 3)
	assert.Equal(t, "Bearer canvas-token", gotAuth)
	assert.Equal(t, "Alba", enrollments[0].User.Name)
	assert.Equal(t, "Cecilia", enrollments[2].User.Name)
}

func TestCourseInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/courses/41") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"id": 41, "name": "Tillämpad programmering", "course_code": "DD1321"}`)
	}))
	defer srv.Close()

	course, err := testClient(srv.URL).CourseInfo(context.Background(), 41)
	require.NoError(t, err)
	assert.Equal(t, "DD1321", course.CourseCode)
}

func TestLadokUID(t *testing.T) {
	_, ok := User{IntegrationID: ""}.LadokUID()
	assert.False(t, ok)

	_, ok = User{IntegrationID: "29054"}.LadokUID()
	assert.False(t, ok, "numeric placeholders are not Ladok UIDs")

	uid, ok := User{IntegrationID: "0b6712ac-3156-11ec-9600-1f8972a09e47"}.LadokUID()
	assert.True(t, ok)
	assert.Equal(t, "0b6712ac-3156-11ec-9600-1f8972a09e47", uid)
}
