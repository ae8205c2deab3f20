package service

import (
	"errors"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

// LikeResult is the like state of a blog for one client
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type BlogService interface {
	ListPublished(filter model.BlogFilter) ([]model.Blog, int64, error)
	ListAll(filter model.BlogFilter) ([]model.Blog, int64, error)
	ViewBySlug(slug, ip, userAgent string) (*model.Blog, error)
	GetByID(id uint) (*model.Blog, error)
	ToggleLike(slug, ip string) (*LikeResult, error)
	Create(req model.CreateBlogRequest) (*model.Blog, error)
	Update(id uint, req model.UpdateBlogRequest) (*model.Blog, error)
	Delete(id uint) error
}

type blogService struct {
	blogRepo repository.BlogRepository
	now      func() time.Time
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogService{blogRepo: blogRepo, now: time.Now}
}

func (s *blogService) ListPublished(filter model.BlogFilter) ([]model.Blog, int64, error) {
	filter.AllStatus = false
	filter.Status = model.BlogStatusPublished
	return s.blogRepo.FindWithFilter(filter)
}

func (s *blogService) ListAll(filter model.BlogFilter) ([]model.Blog, int64, error) {
	filter.AllStatus = filter.Status == ""
	return s.blogRepo.FindWithFilter(filter)
}

func (s *blogService) findPublished(slug string) (*model.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	if blog.Status != model.BlogStatusPublished {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// ViewBySlug counts at most one view per client IP
func (s *blogService) ViewBySlug(slug, ip, userAgent string) (*model.Blog, error) {
	blog, err := s.findPublished(slug)
	if err != nil {
		return nil, err
	}
	if ip == "" {
		return blog, nil
	}

	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	counted, err := s.blogRepo.RecordView(&model.BlogView{
		BlogID:    blog.ID,
		IPAddress: ip,
		UserAgent: userAgent,
	})
	if err != nil {
		logger.Warn("Failed to record blog view", map[string]interface{}{
			"blog_id": blog.ID,
			"error":   err.Error(),
		})
		return blog, nil
	}
	if counted {
		blog.Views++
	}
	return blog, nil
}

func (s *blogService) GetByID(id uint) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *blogService) ToggleLike(slug, ip string) (*LikeResult, error) {
	blog, err := s.findPublished(slug)
	if err != nil {
		return nil, err
	}
	liked, likes, err := s.blogRepo.ToggleLike(blog.ID, ip)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}

func normalizeTags(tags []string) model.StringList {
	seen := make(map[string]bool, len(tags))
	out := make(model.StringList, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func (s *blogService) Create(req model.CreateBlogRequest) (*model.Blog, error) {
	base := req.Slug
	if base == "" {
		base = req.Title
	}
	slug, err := uniqueSlug(base, 0, s.blogRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.BlogStatusDraft
	}
	blog := &model.Blog{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Author:     req.Author,
		Tags:       normalizeTags(req.Tags),
		Status:     status,
	}
	if status == model.BlogStatusPublished {
		now := s.now()
		blog.PublishedAt = &now
	}

	if err := s.blogRepo.Create(blog); err != nil {
		return nil, err
	}
	logger.Info("Blog created", map[string]interface{}{
		"blog_id": blog.ID,
		"slug":    blog.Slug,
		"status":  blog.Status,
	})
	return blog, nil
}

func (s *blogService) Update(id uint, req model.UpdateBlogRequest) (*model.Blog, error) {
	blog, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil && slugChanged(blog.Slug, *req.Slug) {
		slug, err := uniqueSlug(*req.Slug, blog.ID, s.blogRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		blog.Slug = slug
	}
	if req.Excerpt != nil {
		blog.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.CoverImage != nil {
		blog.CoverImage = *req.CoverImage
	}
	if req.Author != nil {
		blog.Author = *req.Author
	}
	if req.Tags != nil {
		blog.Tags = normalizeTags(req.Tags)
	}
	if req.Status != nil {
		blog.Status = *req.Status
		if blog.Status == model.BlogStatusPublished && blog.PublishedAt == nil {
			now := s.now()
			blog.PublishedAt = &now
		}
	}

	if err := s.blogRepo.Update(blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *blogService) Delete(id uint) error {
	if err := s.blogRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	logger.Info("Blog deleted", map[string]interface{}{
		"blog_id": id,
	})
	return nil
}
