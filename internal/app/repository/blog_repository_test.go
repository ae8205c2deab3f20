package repository

import (
	"testing"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBlog(t *testing.T, repo BlogRepository, slug string, status model.BlogStatus) *model.Blog {
	now := time.Now()
	blog := &model.Blog{
		Title:   "How to layer fragrances",
		Slug:    slug,
		Content: "<p>Start light, finish deep.</p>",
		Tags:    model.StringList{"guide", "layering"},
		Status:  status,
	}
	if status == model.BlogStatusPublished {
		blog.PublishedAt = &now
	}
	require.NoError(t, repo.Create(blog))
	return blog
}

func TestBlogRepository_RecordViewOncePerIP(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewBlogRepository(testDB)
	blog := createBlog(t, repo, "layering", model.BlogStatusPublished)

	counted, err := repo.RecordView(&model.BlogView{BlogID: blog.ID, IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = repo.RecordView(&model.BlogView{BlogID: blog.ID, IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = repo.RecordView(&model.BlogView{BlogID: blog.ID, IPAddress: "10.0.0.2"})
	require.NoError(t, err)
	assert.True(t, counted)

	found, err := repo.FindByID(blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Views)
}

func TestBlogRepository_ToggleLike(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewBlogRepository(testDB)
	blog := createBlog(t, repo, "layering", model.BlogStatusPublished)

	liked, likes, err := repo.ToggleLike(blog.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	liked, likes, err = repo.ToggleLike(blog.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)
}

func TestBlogRepository_FindWithFilter(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewBlogRepository(testDB)
	createBlog(t, repo, "published-post", model.BlogStatusPublished)
	createBlog(t, repo, "draft-post", model.BlogStatusDraft)

	blogs, total, err := repo.FindWithFilter(model.BlogFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, blogs, 1)
	assert.Equal(t, "published-post", blogs[0].Slug)

	_, total, err = repo.FindWithFilter(model.BlogFilter{AllStatus: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.FindWithFilter(model.BlogFilter{Tag: "layering", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
