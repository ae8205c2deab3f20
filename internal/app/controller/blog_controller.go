package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type BlogController struct {
	blogService    service.BlogService
	commentService service.CommentService
	reviewService  service.ReviewService
}

func NewBlogController(
	blogService service.BlogService,
	commentService service.CommentService,
	reviewService service.ReviewService,
) *BlogController {
	return &BlogController{
		blogService:    blogService,
		commentService: commentService,
		reviewService:  reviewService,
	}
}

// ListBlogs returns published posts
// GET /api/v1/blogs
func (ctrl *BlogController) ListBlogs(c *gin.Context) {
	p := pagination(c)
	blogs, total, err := ctrl.blogService.ListPublished(model.BlogFilter{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		respondError(c, err, "list blogs")
		return
	}

	response.Paginated(c, blogs, p, total)
}

// GetBlog returns a published post, counting one view per client IP
// GET /api/v1/blogs/:slug
func (ctrl *BlogController) GetBlog(c *gin.Context) {
	blog, err := ctrl.blogService.ViewBySlug(c.Param("slug"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err, "blog")
		return
	}

	response.OK(c, blog)
}

// ToggleLike likes or unlikes a post for the client IP
// POST /api/v1/blogs/:slug/like
func (ctrl *BlogController) ToggleLike(c *gin.Context) {
	result, err := ctrl.blogService.ToggleLike(c.Param("slug"), c.ClientIP())
	if err != nil {
		respondError(c, err, "blog")
		return
	}

	response.OK(c, result)
}

// GET /api/v1/blogs/:slug/comments
func (ctrl *BlogController) ListComments(c *gin.Context) {
	comments, err := ctrl.commentService.ListApproved(c.Param("slug"))
	if err != nil {
		respondError(c, err, "list comments")
		return
	}

	response.OK(c, comments)
}

// SubmitComment stores a comment awaiting moderation
// POST /api/v1/blogs/:slug/comments
func (ctrl *BlogController) SubmitComment(c *gin.Context) {
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	comment, err := ctrl.commentService.Submit(c.Param("slug"), currentUserID(c), req)
	if err != nil {
		respondError(c, err, "create comment")
		return
	}

	response.Created(c, comment)
}

// GET /api/v1/blogs/:slug/reviews
func (ctrl *BlogController) ListReviews(c *gin.Context) {
	p := pagination(c)
	reviews, total, err := ctrl.reviewService.ListBlogReviews(c.Param("slug"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}

	response.Paginated(c, reviews, p, total)
}

// POST /api/v1/blogs/:slug/reviews
func (ctrl *BlogController) SubmitReview(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	review, err := ctrl.reviewService.SubmitBlogReview(c.Param("slug"), currentUserID(c), req)
	if err != nil {
		respondError(c, err, "create review")
		return
	}

	response.Created(c, review)
}

// AdminListBlogs includes drafts
// GET /api/v1/admin/blogs
func (ctrl *BlogController) AdminListBlogs(c *gin.Context) {
	p := pagination(c)
	blogs, total, err := ctrl.blogService.ListAll(model.BlogFilter{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Status: model.BlogStatus(c.Query("status")),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		respondError(c, err, "list blogs")
		return
	}

	response.Paginated(c, blogs, p, total)
}

// GET /api/v1/admin/blogs/:id
func (ctrl *BlogController) AdminGetBlog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	blog, err := ctrl.blogService.GetByID(id)
	if err != nil {
		respondError(c, err, "blog")
		return
	}

	response.OK(c, blog)
}

// POST /api/v1/admin/blogs
func (ctrl *BlogController) CreateBlog(c *gin.Context) {
	var req model.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	blog, err := ctrl.blogService.Create(req)
	if err != nil {
		respondError(c, err, "create blog")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Blog post created", map[string]interface{}{
		"blog_id": blog.ID,
		"status":  blog.Status,
	})

	response.Created(c, blog)
}

// PUT /api/v1/admin/blogs/:id
func (ctrl *BlogController) UpdateBlog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	blog, err := ctrl.blogService.Update(id, req)
	if err != nil {
		respondError(c, err, "update blog")
		return
	}

	response.OK(c, blog)
}

// DELETE /api/v1/admin/blogs/:id
func (ctrl *BlogController) DeleteBlog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.blogService.Delete(id); err != nil {
		respondError(c, err, "delete blog")
		return
	}

	response.Message(c, "Blog post deleted")
}
