package service

import (
	"errors"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionService interface {
	Ask(productID uint, req model.CreateQuestionRequest) (*model.ProductQuestion, error)
	ListAnswered(productID uint) ([]model.ProductQuestion, error)
	List(status model.QuestionStatus, page, limit int) ([]model.ProductQuestion, int64, error)
	Answer(id, adminID uint, req model.AnswerQuestionRequest) (*model.ProductQuestion, error)
	UpdateStatus(id uint, status model.QuestionStatus) (*model.ProductQuestion, error)
	Delete(id uint) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	productRepo  repository.ProductRepository
	broadcaster  Broadcaster
}

func NewQuestionService(questionRepo repository.QuestionRepository, productRepo repository.ProductRepository, broadcaster Broadcaster) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		productRepo:  productRepo,
		broadcaster:  broadcaster,
	}
}

func (s *questionService) Ask(productID uint, req model.CreateQuestionRequest) (*model.ProductQuestion, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	question := &model.ProductQuestion{
		ProductID: productID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Question:  strings.TrimSpace(req.Question),
		Status:    model.QuestionStatusPending,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	logger.Info("Product question submitted", map[string]interface{}{
		"question_id": question.ID,
		"product_id":  productID,
	})
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(events.TypeQuestionCreated, map[string]interface{}{
			"id":           question.ID,
			"product_id":   productID,
			"product_name": product.Name,
		})
	}
	return question, nil
}

func (s *questionService) ListAnswered(productID uint) ([]model.ProductQuestion, error) {
	questions, err := s.questionRepo.FindAnsweredByProduct(productID)
	if err != nil {
		return nil, err
	}
	// asker emails stay private on the storefront
	for i := range questions {
		questions[i].Email = ""
	}
	return questions, nil
}

func (s *questionService) List(status model.QuestionStatus, page, limit int) ([]model.ProductQuestion, int64, error) {
	return s.questionRepo.FindWithFilter(status, page, limit)
}

func (s *questionService) find(id uint) (*model.ProductQuestion, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *questionService) Answer(id, adminID uint, req model.AnswerQuestionRequest) (*model.ProductQuestion, error) {
	question, err := s.find(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	question.Answer = strings.TrimSpace(req.Answer)
	question.AnsweredAt = &now
	question.AnsweredBy = &adminID
	question.Status = model.QuestionStatusAnswered
	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) UpdateStatus(id uint, status model.QuestionStatus) (*model.ProductQuestion, error) {
	question, err := s.find(id)
	if err != nil {
		return nil, err
	}
	question.Status = status
	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) Delete(id uint) error {
	if err := s.questionRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return nil
}
