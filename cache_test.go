package synblog

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/eringen/synblog/syn"
)

func TestPostCacheListAndFilter(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s,
		testPost("a", "A", 1, true, "Go"),
		testPost("b", "B", 2, true, "rust"),
		testPost("d", "D", 3, false, "go"),
	)
	c := NewPostCache(s, time.Minute)

	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"b", "a"}; !reflect.DeepEqual(slugs(posts), want) {
		t.Errorf("ListPosts = %v, want %v", slugs(posts), want)
	}

	posts, err = c.ListPosts(" go")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a"}; !reflect.DeepEqual(slugs(posts), want) {
		t.Errorf("ListPosts(go) = %v, want %v", slugs(posts), want)
	}

	tags, err := c.ListTags()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"go", "rust"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("ListTags = %v, want %v", tags, want)
	}
}

func TestPostCacheGetPostLoadsBody(t *testing.T) {
	s := setupTestStore(t)
	post := testPost("a", "A", 1, true, "go")
	mustSave(t, s, post)
	c := NewPostCache(s, time.Minute)

	got, err := c.GetPost("a")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Document.Equal(post.Document) {
		t.Errorf("GetPost = %q", got.String())
	}

	// Served from the cache until invalidated.
	mustSave(t, s, Post{Slug: "a", Published: true, Document: syn.New("Changed", nil, 1, "")})
	got, _ = c.GetPost("a")
	if got.Title != "A" {
		t.Errorf("expected cached title, got %q", got.Title)
	}
	c.Invalidate()
	got, _ = c.GetPost("a")
	if got.Title != "Changed" {
		t.Errorf("expected reloaded title, got %q", got.Title)
	}
}

func TestPostCacheGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, testPost("draft", "Draft", 1, false))
	c := NewPostCache(s, time.Minute)

	for _, slug := range []string{"missing", "draft"} {
		if _, err := c.GetPost(slug); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPost(%s): expected ErrNotFound, got %v", slug, err)
		}
	}
}

func TestPostCacheExpires(t *testing.T) {
	s := setupTestStore(t)
	c := NewPostCache(s, time.Nanosecond)
	if posts, _ := c.ListPosts(""); len(posts) != 0 {
		t.Fatalf("expected empty cache, got %v", slugs(posts))
	}
	mustSave(t, s, testPost("a", "A", 1, true))
	time.Sleep(time.Millisecond)
	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Errorf("expected reload after TTL, got %v", slugs(posts))
	}
}
