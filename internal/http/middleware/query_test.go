package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeValues(t *testing.T) {
	cases := []struct {
		name string
		in   url.Values
		want map[string]string
	}{
		{
			name: "drops sequences and empties",
			in:   url.Values{"a": {"1"}, "b": {"x", "y"}, "c": {""}},
			want: map[string]string{"a": "1"},
		},
		{
			name: "drops bracket keys",
			in:   url.Values{"tags[]": {"go"}, "filter[dept]": {"eng"}, "q": {"backend"}},
			want: map[string]string{"q": "backend"},
		},
		{
			name: "keeps whitespace values verbatim",
			in:   url.Values{"q": {" go "}},
			want: map[string]string{"q": " go "},
		},
		{
			name: "key with no values",
			in:   url.Values{"a": {}, "": {"x"}},
			want: map[string]string{},
		},
		{
			name: "nil input",
			in:   nil,
			want: map[string]string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeValues(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("normalizeValues(%v) = %v, want %v", tc.in, got, tc.want)
			}
			for k, v := range got {
				if v == "" {
					t.Fatalf("empty value for %q", k)
				}
			}
		})
	}
}

func TestNormalizeQuery_StoresDictionary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NormalizeQuery())

	var got map[string]string
	r.GET("/jobs", func(c *gin.Context) {
		got = QueryFrom(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs?a=1&b=x&b=y&c=&tags%5B%5D=go", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	want := map[string]string{"a": "1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("QueryFrom = %v, want %v", got, want)
	}
}

func TestQueryFrom_WithoutMiddlewareIsNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?a=1", nil)
	if got := QueryFrom(c); got != nil {
		t.Fatalf("expected nil before NormalizeQuery, got %v", got)
	}

	c.Set(ctxKeyQuery, 42) // wrong type
	if got := QueryFrom(c); got != nil {
		t.Fatalf("expected nil for wrong type, got %v", got)
	}
}
