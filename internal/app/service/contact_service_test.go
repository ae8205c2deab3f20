package service

import (
	"context"
	"errors"
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactRequest() model.CreateContactMessageRequest {
	return model.CreateContactMessageRequest{
		Name:    "Maya",
		Email:   "Maya@Example.com",
		Subject: "Gift wrapping",
		Message: "Can you gift wrap my order please?",
	}
}

func TestContactService_Lifecycle(t *testing.T) {
	f := setupNotificationServiceTest(t)
	contactService := NewContactService(repository.NewContactRepository(f.db), f.notifier, f.broadcaster)
	admin := createUser(t, f.db, "admin@example.com", model.RoleAdmin)

	message, err := contactService.Submit(contactRequest(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusNew, message.Status)
	assert.Equal(t, "maya@example.com", message.Email)
	assert.Contains(t, f.broadcaster.types(), events.TypeContactCreated)

	opened, err := contactService.Open(message.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusRead, opened.Status)

	result, err := contactService.Reply(context.Background(), message.ID, admin.ID, model.ReplyContactRequest{Reply: "Of course!"})
	require.NoError(t, err)
	assert.True(t, result.EmailSent)
	assert.Equal(t, model.ContactStatusReplied, result.Message.Status)
	require.NotNil(t, result.Message.RepliedBy)
	assert.Equal(t, admin.ID, *result.Message.RepliedBy)
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "Re: Gift wrapping", f.mail.sent[0].Subject)

	archived, err := contactService.UpdateStatus(message.ID, model.ContactStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusArchived, archived.Status)

	require.NoError(t, contactService.Delete(message.ID))
	_, err = contactService.Get(message.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestContactService_ReplyEmailFailureKeepsReply(t *testing.T) {
	f := setupNotificationServiceTest(t)
	contactService := NewContactService(repository.NewContactRepository(f.db), f.notifier, nil)
	f.mail.err = errors.New("mailbox unavailable")

	message, err := contactService.Submit(contactRequest(), "")
	require.NoError(t, err)

	result, err := contactService.Reply(context.Background(), message.ID, 1, model.ReplyContactRequest{Reply: "Sure"})
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
	require.Len(t, result.Errors, 1)

	stored, err := contactService.Get(message.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sure", stored.Reply)

	skip := false
	result, err = contactService.Reply(context.Background(), message.ID, 1, model.ReplyContactRequest{Reply: "Again", SendEmail: &skip})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.False(t, result.EmailSent)
}

func TestQuestionService(t *testing.T) {
	testDB := setupTestDB(t)
	broadcaster := &recordingBroadcaster{}
	questionService := NewQuestionService(repository.NewQuestionRepository(testDB), repository.NewProductRepository(testDB), broadcaster)
	product := createProduct(t, testDB, "Iris Noir", 95, 5)

	question, err := questionService.Ask(product.ID, model.CreateQuestionRequest{
		Name:     "Omar",
		Email:    "omar@example.com",
		Question: "How long does it last?",
	})
	require.NoError(t, err)
	assert.Equal(t, model.QuestionStatusPending, question.Status)
	assert.Equal(t, []string{events.TypeQuestionCreated}, broadcaster.types())

	_, err = questionService.Ask(9999, model.CreateQuestionRequest{Name: "Omar", Email: "omar@example.com", Question: "Anyone?"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	answered, err := questionService.ListAnswered(product.ID)
	require.NoError(t, err)
	assert.Empty(t, answered)

	_, err = questionService.Answer(question.ID, 1, model.AnswerQuestionRequest{Answer: "About eight hours."})
	require.NoError(t, err)

	answered, err = questionService.ListAnswered(product.ID)
	require.NoError(t, err)
	require.Len(t, answered, 1)
	assert.Equal(t, "About eight hours.", answered[0].Answer)
	assert.Empty(t, answered[0].Email)

	_, err = questionService.UpdateStatus(question.ID, model.QuestionStatusHidden)
	require.NoError(t, err)
	answered, err = questionService.ListAnswered(product.ID)
	require.NoError(t, err)
	assert.Empty(t, answered)

	require.NoError(t, questionService.Delete(question.ID))
	assert.ErrorIs(t, questionService.Delete(question.ID), ErrQuestionNotFound)
}

func TestPageService(t *testing.T) {
	testDB := setupTestDB(t)
	pageService := NewPageService(repository.NewPageRepository(testDB))

	about, err := pageService.GetPublished("about")
	require.NoError(t, err)
	assert.Equal(t, "About us", about.Title)

	page, created, err := pageService.Save("Gift Cards", model.SavePageRequest{Title: "Gift cards", Content: "<p>Soon</p>"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "gift-cards", page.Slug)

	hidden := false
	page, created, err = pageService.Save("gift-cards", model.SavePageRequest{Title: "Gift cards", Content: "<p>Later</p>", IsPublished: &hidden})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "<p>Later</p>", page.Content)

	_, err = pageService.GetPublished("gift-cards")
	assert.ErrorIs(t, err, ErrPageNotFound)

	published, err := pageService.ListPublished()
	require.NoError(t, err)
	all, err := pageService.ListAll()
	require.NoError(t, err)
	assert.Equal(t, len(published)+1, len(all))

	require.NoError(t, pageService.Delete("gift-cards"))
	assert.ErrorIs(t, pageService.Delete("gift-cards"), ErrPageNotFound)
}
