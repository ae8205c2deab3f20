package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact message not found")

// ContactReplyResult tells the admin whether the reply email went out
type ContactReplyResult struct {
	Message   *model.ContactMessage `json:"message"`
	EmailSent bool                  `json:"email_sent"`
	Errors    []string              `json:"errors"`
}

type ContactService interface {
	Submit(req model.CreateContactMessageRequest, ip string) (*model.ContactMessage, error)
	List(status model.ContactStatus, page, limit int) ([]model.ContactMessage, int64, error)
	Get(id uint) (*model.ContactMessage, error)
	Open(id uint) (*model.ContactMessage, error)
	UpdateStatus(id uint, status model.ContactStatus) (*model.ContactMessage, error)
	Reply(ctx context.Context, id, adminID uint, req model.ReplyContactRequest) (*ContactReplyResult, error)
	Delete(id uint) error
}

type contactService struct {
	contactRepo repository.ContactRepository
	notifier    NotificationService
	broadcaster Broadcaster
}

func NewContactService(contactRepo repository.ContactRepository, notifier NotificationService, broadcaster Broadcaster) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		notifier:    notifier,
		broadcaster: broadcaster,
	}
}

func (s *contactService) Submit(req model.CreateContactMessageRequest, ip string) (*model.ContactMessage, error) {
	message := &model.ContactMessage{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Status:    model.ContactStatusNew,
		IPAddress: ip,
	}
	if err := s.contactRepo.Create(message); err != nil {
		return nil, err
	}

	logger.Info("Contact message received", map[string]interface{}{
		"message_id": message.ID,
		"subject":    message.Subject,
	})
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(events.TypeContactCreated, map[string]interface{}{
			"id":      message.ID,
			"name":    message.Name,
			"subject": message.Subject,
		})
	}
	return message, nil
}

func (s *contactService) List(status model.ContactStatus, page, limit int) ([]model.ContactMessage, int64, error) {
	return s.contactRepo.FindWithFilter(status, page, limit)
}

func (s *contactService) Get(id uint) (*model.ContactMessage, error) {
	message, err := s.contactRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return message, nil
}

// Open is the admin detail view; a new message becomes read
func (s *contactService) Open(id uint) (*model.ContactMessage, error) {
	message, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if message.Status == model.ContactStatusNew {
		message.Status = model.ContactStatusRead
		if err := s.contactRepo.Update(message); err != nil {
			return nil, err
		}
	}
	return message, nil
}

func (s *contactService) UpdateStatus(id uint, status model.ContactStatus) (*model.ContactMessage, error) {
	message, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	message.Status = status
	if err := s.contactRepo.Update(message); err != nil {
		return nil, err
	}
	return message, nil
}

// Reply stores the answer first; the email is best effort
func (s *contactService) Reply(ctx context.Context, id, adminID uint, req model.ReplyContactRequest) (*ContactReplyResult, error) {
	message, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	message.Reply = strings.TrimSpace(req.Reply)
	message.RepliedAt = &now
	message.RepliedBy = &adminID
	message.Status = model.ContactStatusReplied
	if err := s.contactRepo.Update(message); err != nil {
		return nil, err
	}

	result := &ContactReplyResult{Message: message, Errors: []string{}}
	sendEmail := req.SendEmail == nil || *req.SendEmail
	if sendEmail && s.notifier != nil {
		if err := s.notifier.SendContactReply(ctx, message); err != nil {
			logger.Warn("Contact reply email failed", map[string]interface{}{
				"message_id": message.ID,
				"error":      err.Error(),
			})
			result.Errors = append(result.Errors, "email: "+err.Error())
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

func (s *contactService) Delete(id uint) error {
	if err := s.contactRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	return nil
}
