package service

import (
	"errors"
	"strings"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentsDisabled = errors.New("comments are disabled")
	ErrInvalidReply     = errors.New("replies must target a top-level comment of the same post")
)

type CommentService interface {
	Submit(blogSlug string, userID *uint, req model.CreateCommentRequest) (*model.Comment, error)
	ListApproved(blogSlug string) ([]model.Comment, error)
	List(filter model.CommentFilter) ([]model.Comment, int64, error)
	Moderate(id uint, status model.ModerationStatus) (*model.Comment, error)
	Delete(id uint) error
}

type commentService struct {
	commentRepo  repository.CommentRepository
	blogRepo     repository.BlogRepository
	settingsRepo repository.SettingsRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	blogRepo repository.BlogRepository,
	settingsRepo repository.SettingsRepository,
) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		blogRepo:     blogRepo,
		settingsRepo: settingsRepo,
	}
}

func (s *commentService) publishedBlog(slug string) (*model.Blog, error) {
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

func (s *commentService) Submit(blogSlug string, userID *uint, req model.CreateCommentRequest) (*model.Comment, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if !settings.EnableComments {
		return nil, ErrCommentsDisabled
	}
	blog, err := s.publishedBlog(blogSlug)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidReply
			}
			return nil, err
		}
		if parent.BlogID != blog.ID || parent.ParentID != nil {
			return nil, ErrInvalidReply
		}
	}

	comment := &model.Comment{
		BlogID:   blog.ID,
		ParentID: req.ParentID,
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Content:  strings.TrimSpace(req.Content),
		Status:   model.ModerationPending,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	logger.Info("Comment submitted", map[string]interface{}{
		"comment_id": comment.ID,
		"blog_id":    blog.ID,
	})
	return comment, nil
}

func (s *commentService) ListApproved(blogSlug string) ([]model.Comment, error) {
	blog, err := s.publishedBlog(blogSlug)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindApprovedByBlog(blog.ID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].Email = ""
		for j := range comments[i].Replies {
			comments[i].Replies[j].Email = ""
		}
	}
	return comments, nil
}

func (s *commentService) List(filter model.CommentFilter) ([]model.Comment, int64, error) {
	return s.commentRepo.FindWithFilter(filter)
}

func (s *commentService) Moderate(id uint, status model.ModerationStatus) (*model.Comment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.commentRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return s.commentRepo.FindByID(id)
}

func (s *commentService) Delete(id uint) error {
	if err := s.commentRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
