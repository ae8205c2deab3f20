package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

// ContactController handles the contact form and product questions
type ContactController struct {
	contactService  service.ContactService
	questionService service.QuestionService
	productService  service.ProductService
}

func NewContactController(
	contactService service.ContactService,
	questionService service.QuestionService,
	productService service.ProductService,
) *ContactController {
	return &ContactController{
		contactService:  contactService,
		questionService: questionService,
		productService:  productService,
	}
}

// SubmitContact stores a contact form message
// POST /api/v1/contact
func (ctrl *ContactController) SubmitContact(c *gin.Context) {
	var req model.CreateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	msg, err := ctrl.contactService.Submit(req, c.ClientIP())
	if err != nil {
		respondError(c, err, "create contact message")
		return
	}

	response.Created(c, gin.H{"id": msg.ID})
}

// GET /api/v1/admin/contact
func (ctrl *ContactController) ListMessages(c *gin.Context) {
	p := pagination(c)
	messages, total, err := ctrl.contactService.List(model.ContactStatus(c.Query("status")), p.Page, p.Limit)
	if err != nil {
		respondError(c, err, "list contact messages")
		return
	}

	response.Paginated(c, messages, p, total)
}

// GetMessage returns a message and marks it read
// GET /api/v1/admin/contact/:id
func (ctrl *ContactController) GetMessage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	msg, err := ctrl.contactService.Open(id)
	if err != nil {
		respondError(c, err, "contact message")
		return
	}

	response.OK(c, msg)
}

// PUT /api/v1/admin/contact/:id/status
func (ctrl *ContactController) UpdateMessageStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	msg, err := ctrl.contactService.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err, "update contact message")
		return
	}

	response.OK(c, msg)
}

// ReplyToMessage stores the reply and emails it to the sender best effort
// POST /api/v1/admin/contact/:id/reply
func (ctrl *ContactController) ReplyToMessage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.ReplyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	adminID, _ := middleware.GetUserID(c)
	result, err := ctrl.contactService.Reply(c.Request.Context(), id, adminID, req)
	if err != nil {
		respondError(c, err, "update contact message")
		return
	}

	if len(result.Errors) > 0 {
		middleware.GetLoggerFromContext(c).Warn("Contact reply saved but not delivered", map[string]interface{}{
			"contact_id": id,
			"errors":     result.Errors,
		})
	}

	response.OK(c, result)
}

// DELETE /api/v1/admin/contact/:id
func (ctrl *ContactController) DeleteMessage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.contactService.Delete(id); err != nil {
		respondError(c, err, "delete contact message")
		return
	}

	response.Message(c, "Message deleted")
}

// ListProductQuestions returns answered questions
// GET /api/v1/products/:slug/questions
func (ctrl *ContactController) ListProductQuestions(c *gin.Context) {
	product, err := ctrl.productService.GetProduct(c.Param("slug"), false)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	questions, err := ctrl.questionService.ListAnswered(product.ID)
	if err != nil {
		respondError(c, err, "list questions")
		return
	}

	response.OK(c, questions)
}

// AskQuestion stores a question for the shop to answer
// POST /api/v1/products/:slug/questions
func (ctrl *ContactController) AskQuestion(c *gin.Context) {
	var req model.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.GetProduct(c.Param("slug"), false)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	question, err := ctrl.questionService.Ask(product.ID, req)
	if err != nil {
		respondError(c, err, "create question")
		return
	}

	response.Created(c, question)
}

// GET /api/v1/admin/questions
func (ctrl *ContactController) ListQuestions(c *gin.Context) {
	p := pagination(c)
	questions, total, err := ctrl.questionService.List(model.QuestionStatus(c.Query("status")), p.Page, p.Limit)
	if err != nil {
		respondError(c, err, "list questions")
		return
	}

	response.Paginated(c, questions, p, total)
}

// POST /api/v1/admin/questions/:id/answer
func (ctrl *ContactController) AnswerQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.AnswerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	adminID, _ := middleware.GetUserID(c)
	question, err := ctrl.questionService.Answer(id, adminID, req)
	if err != nil {
		respondError(c, err, "update question")
		return
	}

	response.OK(c, question)
}

// PUT /api/v1/admin/questions/:id/status
func (ctrl *ContactController) UpdateQuestionStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateQuestionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	question, err := ctrl.questionService.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err, "update question")
		return
	}

	response.OK(c, question)
}

// DELETE /api/v1/admin/questions/:id
func (ctrl *ContactController) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.questionService.Delete(id); err != nil {
		respondError(c, err, "delete question")
		return
	}

	response.Message(c, "Question deleted")
}
