package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/deeplinks/internal/cache"
	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/idgen"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/sanitize"
	"github.com/Varun5711/deeplinks/internal/storage"
	"github.com/Varun5711/deeplinks/internal/validation"
)

const maxCodeAttempts = 5

type LinkService struct {
	store      storage.Storage
	cache      *cache.LinkCache
	app        config.AppConfig
	baseURL    string
	codeLength int
	log        *logger.Logger

	now     func() time.Time
	newCode func(n int) (string, error)
}

// NewLinkService wires the registry. linkCache may be nil.
func NewLinkService(store storage.Storage, linkCache *cache.LinkCache, cfg *config.Config) *LinkService {
	return &LinkService{
		store:      store,
		cache:      linkCache,
		app:        cfg.App,
		baseURL:    cfg.Server.BaseURL,
		codeLength: cfg.Responder.ShortCodeLength,
		log:        logger.New("link-service"),
		now:        time.Now,
		newCode:    idgen.RandomCode,
	}
}

func (s *LinkService) ShortURL(shortCode string) string {
	return s.baseURL + "/" + shortCode
}

func (s *LinkService) Create(ctx context.Context, req *models.CreateLinkRequest) (*models.CreateLinkResponse, error) {
	link, err := s.buildLink(req)
	if err != nil {
		return nil, err
	}

	if req.CustomCode != "" {
		if err := validation.ValidateCustomCode(req.CustomCode); err != nil {
			return nil, invalid(err.Error())
		}
		if err := s.save(ctx, link, req.CustomCode); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return nil, ErrCodeTaken
			}
			return nil, err
		}
	} else if err := s.saveWithRandomCode(ctx, link); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, link); err != nil {
			s.log.Warn("Failed to cache link %s: %v", link.ShortCode, err)
		}
	}

	shortURL := s.ShortURL(link.ShortCode)
	s.log.Info("Created short link: %s -> %s", shortURL, link.OriginalURL)

	return &models.CreateLinkResponse{
		ShortURL:    shortURL,
		ShortCode:   link.ShortCode,
		LinkID:      link.ID,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
	}, nil
}

func (s *LinkService) saveWithRandomCode(ctx context.Context, link *models.Link) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.newCode(s.codeLength)
		if err != nil {
			return fmt.Errorf("failed to generate short code: %w", err)
		}

		err = s.save(ctx, link, code)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return err
		}
		s.log.Warn("Short code collision on %s (attempt %d/%d)", code, attempt, maxCodeAttempts)
	}

	return ErrShortCodeExhausted
}

func (s *LinkService) save(ctx context.Context, link *models.Link, code string) error {
	link.ShortCode = code
	link.ID = models.LinkID(code)
	link.CreatedAt = s.now().UnixMilli()

	if err := s.store.Save(ctx, link); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}

// buildLink validates the request and fills defaults from the app config.
func (s *LinkService) buildLink(req *models.CreateLinkRequest) (*models.Link, error) {
	destination := strings.TrimSpace(req.OriginalURL)
	if destination == "" {
		destination = strings.TrimSpace(req.WebURL)
	}
	if destination == "" {
		return nil, invalid("originalUrl or webUrl is required")
	}
	if err := validation.ValidateWebURL("originalUrl", destination); err != nil {
		return nil, invalid(err.Error())
	}

	webURL := orDefault(req.WebURL, destination)
	if err := validation.ValidateWebURL("webUrl", webURL); err != nil {
		return nil, invalid(err.Error())
	}

	iosURL := orDefault(req.IOSURL, s.app.DefaultIOSURL)
	if err := validation.ValidateAppURL("iosUrl", iosURL); err != nil {
		return nil, invalid(err.Error())
	}
	androidURL := orDefault(req.AndroidURL, s.app.DefaultAndroidURL)
	if err := validation.ValidateAppURL("androidUrl", androidURL); err != nil {
		return nil, invalid(err.Error())
	}

	iosFallback := orDefault(req.IOSFallback, s.app.IOSStoreURL)
	if err := validation.ValidateWebURL("iosFallback", iosFallback); err != nil {
		return nil, invalid(err.Error())
	}
	androidFallback := orDefault(req.AndroidFallback, s.app.AndroidStoreURL)
	if err := validation.ValidateWebURL("androidFallback", androidFallback); err != nil {
		return nil, invalid(err.Error())
	}

	image := orDefault(req.Image, s.app.DefaultImage)
	if image != "" {
		if err := validation.ValidateWebURL("image", image); err != nil {
			return nil, invalid(err.Error())
		}
	}

	title := sanitize.Text(req.Title)
	if title == "" {
		title = s.app.DefaultTitle
	}
	description := sanitize.Text(req.Description)
	if description == "" {
		description = s.app.DefaultDescription
	}

	params := req.CustomParams
	if params == nil {
		params = map[string]interface{}{}
	}

	return &models.Link{
		OriginalURL:     destination,
		Title:           title,
		Description:     description,
		Image:           image,
		IOSURL:          iosURL,
		AndroidURL:      androidURL,
		WebURL:          webURL,
		IOSFallback:     iosFallback,
		AndroidFallback: androidFallback,
		CustomParams:    params,
	}, nil
}

func (s *LinkService) Get(ctx context.Context, shortCode string) (*models.Link, error) {
	if s.cache != nil {
		if link, found := s.cache.Get(ctx, shortCode); found {
			return link, nil
		}
	}

	link, err := s.store.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, link); err != nil {
			s.log.Warn("Failed to cache link %s: %v", shortCode, err)
		}
	}

	return link, nil
}

func (s *LinkService) GetByID(ctx context.Context, id string) (*models.Link, error) {
	link, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

func (s *LinkService) List(ctx context.Context) ([]models.LinkSummary, error) {
	links, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	summaries := make([]models.LinkSummary, len(links))
	for i, link := range links {
		summaries[i] = link.Summary()
	}
	return summaries, nil
}

func (s *LinkService) Delete(ctx context.Context, shortCode string) error {
	if err := s.store.Delete(ctx, shortCode); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, shortCode); err != nil {
			s.log.Warn("Failed to evict link %s from cache: %v", shortCode, err)
		}
	}

	s.log.Info("Deleted short link: %s", shortCode)
	return nil
}

func (s *LinkService) Count(ctx context.Context) (int64, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return count, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
