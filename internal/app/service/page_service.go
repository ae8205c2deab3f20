package service

import (
	"errors"
	"strings"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrPageNotFound = errors.New("page not found")

type PageService interface {
	GetPublished(slug string) (*model.Page, error)
	ListPublished() ([]model.Page, error)
	ListAll() ([]model.Page, error)
	Save(slug string, req model.SavePageRequest) (*model.Page, bool, error)
	Delete(slug string) error
}

type pageService struct {
	pageRepo repository.PageRepository
}

func NewPageService(pageRepo repository.PageRepository) PageService {
	return &pageService{pageRepo: pageRepo}
}

func (s *pageService) GetPublished(slug string) (*model.Page, error) {
	page, err := s.pageRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	if !page.IsPublished {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (s *pageService) ListPublished() ([]model.Page, error) {
	return s.pageRepo.FindAll(true)
}

func (s *pageService) ListAll() ([]model.Page, error) {
	return s.pageRepo.FindAll(false)
}

// Save creates or replaces the page at slug and reports whether it was created
func (s *pageService) Save(slug string, req model.SavePageRequest) (*model.Page, bool, error) {
	slug = util.Slugify(slug)
	if slug == "" {
		slug = util.Slugify(req.Title)
	}

	page, err := s.pageRepo.FindBySlug(slug)
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		page = &model.Page{Slug: slug, IsPublished: true}
		created = true
	}

	page.Title = strings.TrimSpace(req.Title)
	page.Content = req.Content
	page.MetaTitle = req.MetaTitle
	page.MetaDescription = req.MetaDescription
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}

	if created {
		err = s.pageRepo.Create(page)
	} else {
		err = s.pageRepo.Update(page)
	}
	if err != nil {
		return nil, false, err
	}
	logger.Info("Page saved", map[string]interface{}{
		"slug":    page.Slug,
		"created": created,
	})
	return page, created, nil
}

func (s *pageService) Delete(slug string) error {
	if err := s.pageRepo.DeleteBySlug(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return err
	}
	return nil
}
