package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", DefaultLimit, 0},
		{"limit=50&offset=10", 50, 10},
		{"limit=0", DefaultLimit, 0},
		{"limit=-5&offset=-2", DefaultLimit, 0},
		{"limit=5000", MaxLimit, 0},
		{"limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, c := range cases {
		p := paramsFor(t, c.query)
		if p.Limit != c.limit || p.Offset != c.offset {
			t.Errorf("FromContext(%q) = %+v, want limit %d offset %d", c.query, p, c.limit, c.offset)
		}
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !r.HasMore {
		t.Error("expected HasMore with 10 total and page of 3")
	}
	r = NewResponse([]int{1}, 1, 20, 0)
	if r.HasMore {
		t.Error("single full page should not have more")
	}
}

func TestNextOffset(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if p.NextOffset() != 60 {
		t.Errorf("NextOffset = %d, want 60", p.NextOffset())
	}
	if !p.HasNext(100) || p.HasNext(60) {
		t.Error("HasNext boundary wrong")
	}
}
