package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/climg/internal/gallery"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func titles(items []gallery.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestOpenClassifiesArguments(t *testing.T) {
	dir := t.TempDir()
	img := touch(t, dir, "a.png")
	manifest := touch(t, dir, "m.yaml")
	list := touch(t, dir, "l.m3u")
	other := touch(t, dir, "notes.doc")

	tests := []struct {
		arg  string
		want any
		err  error
	}{
		{arg: dir, want: &DirSource{}},
		{arg: manifest, want: &ManifestSource{}},
		{arg: list, want: &ListSource{}},
		{arg: img, want: Static{}},
		{arg: "https://example.com/pic.JPG", want: Static{}},
		{arg: "https://example.com/api", want: &RemoteSource{}},
		{arg: "ftp://example.com/a.png", err: ErrUnsupportedScheme},
		{arg: other, err: ErrUnknownSource},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.arg), func(t *testing.T) {
			src, err := Open(tt.arg)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}

	_, err := Open(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestDirSourceSortsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.png")
	touch(t, dir, "A.jpg")
	touch(t, dir, "c.FLAC")
	touch(t, dir, "readme.txt")
	touch(t, dir, ".hidden.png")
	touch(t, dir, "sub/d.png")

	items, err := NewDirSource(dir, nil).Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "b", "c"}, titles(items))

	abs, err := filepath.Abs(filepath.Join(dir, "A.jpg"))
	require.NoError(t, err)
	assert.Equal(t, ItemID(abs), items[0].ID)
	assert.Equal(t, abs, items[0].Image)
	assert.EqualValues(t, 1, items[0].Size)
}

func TestDirSourceEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt")
	_, err := NewDirSource(dir, nil).Items(context.Background())
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestListSource(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "pics/one.png")
	two := touch(t, dir, "two.webp")
	list := filepath.Join(dir, "list.m3u")
	content := "\ufeff#EXTM3U\n# comment\npics/one.png\n\n" + two + "\nmissing.png\nhttps://example.com/three.jpg\n"
	require.NoError(t, os.WriteFile(list, []byte(content), 0o644))

	items, err := NewListSource(list, nil).Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, titles(items))
	assert.Equal(t, filepath.Join(dir, "pics", "one.png"), items[0].Image)
	assert.Equal(t, "https://example.com/three.jpg", items[2].Image)
}

func TestParseListPLS(t *testing.T) {
	dir := t.TempDir()
	pls := filepath.Join(dir, "x.pls")
	require.NoError(t, os.WriteFile(pls, []byte("[playlist]\nFile1=a.png\nTitle1=A\nFileX=b.png\nFile2=https://h/c.png\nNumberOfEntries=2\n"), 0o644))

	refs, err := ParseList(pls)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.png"), "https://h/c.png"}, refs)

	_, err = ParseList(filepath.Join(dir, "x.doc"))
	require.Error(t, err)
}

func TestManifestSource(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
items:
  - id: first
    title: First Light
    image: img/first.png
    tags: [Landscape, night]
    author: someone
    year: "2019"
  - image: https://cdn.example.com/second.jpg
`), 0o644))

	items, err := (&ManifestSource{Path: p}).Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, gallery.Item{
		ID:     "first",
		Title:  "First Light",
		Image:  filepath.Join(dir, "img", "first.png"),
		Tags:   []string{"Landscape", "night"},
		Author: "someone",
		Year:   "2019",
	}, items[0])
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, ItemID("https://cdn.example.com/second.jpg"), items[1].ID)
}

func TestManifestSourceRejectsMissingImage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(p, []byte("items:\n  - title: nothing\n"), 0o644))
	_, err := (&ManifestSource{Path: p}).Items(context.Background())
	require.Error(t, err)
}

func assetsServer(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/assets" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(envelope{Error: "Authentication required"})
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		var items []asset
		for i := (page - 1) * limit; i < page*limit && i < total; i++ {
			n := strconv.Itoa(i)
			items = append(items, asset{
				ID:           "asset-" + n,
				Title:        "Asset " + n,
				URL:          "https://cdn.example.com/full/" + n + ".jpg",
				ThumbnailURL: "https://cdn.example.com/thumb/" + n + ".jpg",
				CreatedAt:    "2024-05-01T00:00:00.000Z",
				Tags:         []assetTag{{ID: "t", Name: "street"}},
			})
		}
		json.NewEncoder(w).Encode(envelope{
			Success: true,
			Data:    &assetPage{Items: items, Total: total, Page: page, Limit: limit},
		})
	}))
}

func TestRemoteSourcePages(t *testing.T) {
	srv := assetsServer(t, 5)
	defer srv.Close()

	src := NewRemoteSource(srv.URL+"/api", WithToken("secret"), WithPageSize(2), WithHTTPClient(srv.Client()))
	assert.Equal(t, srv.URL+"/api/assets", src.Endpoint())

	items, err := src.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "asset-4", items[4].ID)
	assert.Equal(t, "https://cdn.example.com/thumb/0.jpg", items[0].Image)
	assert.Equal(t, []string{"street"}, items[0].Tags)
	assert.Equal(t, "2024", items[0].Year)
}

func TestRemoteSourceErrors(t *testing.T) {
	srv := assetsServer(t, 3)
	defer srv.Close()

	_, err := NewRemoteSource(srv.URL+"/api", WithHTTPClient(srv.Client())).Items(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "err = %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Authentication required", apiErr.Message)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope{Success: false, Error: "Failed to fetch assets"})
	}))
	defer failing.Close()
	_, err = NewRemoteSource(failing.URL, WithHTTPClient(failing.Client())).Items(context.Background())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to fetch assets", apiErr.Message)

	empty := assetsServer(t, 0)
	defer empty.Close()
	_, err = NewRemoteSource(empty.URL+"/api", WithToken("secret"), WithHTTPClient(empty.Client())).Items(context.Background())
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("  HTTPS://Example.COM/a/b.png#frag ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a/b.png", got)

	_, err = NormalizeURL("file:///etc/passwd")
	require.ErrorIs(t, err, ErrUnsupportedScheme)
	_, err = NormalizeURL("http://")
	require.Error(t, err)
}

func TestFilterByCategory(t *testing.T) {
	items := []gallery.Item{
		{ID: "1", Tags: []string{"Nature", "sky"}},
		{ID: "2", Tags: []string{"city"}},
		{ID: "3"},
	}
	assert.Len(t, FilterByCategory(items, nil), 3)

	got := FilterByCategory(items, []string{"NATURE", "city"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	assert.Empty(t, FilterByCategory(items, []string{"ocean"}))
	assert.Equal(t, []string{"city", "Nature", "sky"}, Categories(append(items, gallery.Item{Tags: []string{"nature", " "}})))
}

func TestOrderWrapsAndShuffles(t *testing.T) {
	o := NewOrder(4)
	assert.Equal(t, 1, o.Next())
	assert.Equal(t, 0, o.Previous())
	assert.Equal(t, 3, o.Previous())

	require.True(t, o.Jump(2))
	require.False(t, o.Jump(9))

	o.intn = func(n int) int { return 0 }
	require.True(t, o.ToggleShuffle())
	assert.Equal(t, 2, o.Current())

	seen := map[int]bool{o.Current(): true}
	for i := 0; i < 3; i++ {
		seen[o.Next()] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 2, o.Next(), "shuffle order should wrap back to the start")

	require.False(t, o.ToggleShuffle())
	assert.Equal(t, 3, o.Next())

	empty := NewOrder(0)
	assert.Equal(t, -1, empty.Current())
	assert.Equal(t, -1, empty.Next())
}
