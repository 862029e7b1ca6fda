package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/showcase-api/internal/application/media"
	"github.com/showcase-api/internal/domain"
	"github.com/showcase-api/internal/pkg/id"
)

// ProjectStore is the persistence surface the service needs.
type ProjectStore interface {
	Put(ctx context.Context, p *domain.Project) error
	Scan(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, updates map[string]interface{}) error
	Delete(ctx context.Context, projectID string) error
}

// Mailer hands a message to the email transport.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// EventPublisher emits lifecycle events. May be nil (publishing disabled).
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// CreateInput carries the multipart form fields for project creation.
type CreateInput struct {
	Title       string
	Description string
	TechStack   string // raw comma-separated form value
	Live        string
	UserID      string
	Email       string // notification target, not persisted on create
}

// UpdateInput carries the multipart form fields for project update.
// Title is absent on purpose: update never modifies it. Email and UserID
// are accepted and written with the update document, matching the
// contract existing clients observe.
type UpdateInput struct {
	Description string
	TechStack   string
	Live        string
	UserID      string
	Email       string
}

type Service interface {
	Create(ctx context.Context, input CreateInput, file multipart.File, header *multipart.FileHeader) error
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, input UpdateInput, file multipart.File, header *multipart.FileHeader) error
	Delete(ctx context.Context, projectID string) error
}

type ServiceDeps struct {
	ProjectRepo ProjectStore
	Media       media.Service
	Mailer      Mailer
	Events      EventPublisher
}

type service struct {
	projectRepo ProjectStore
	media       media.Service
	mailer      Mailer
	events      EventPublisher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		projectRepo: deps.ProjectRepo,
		media:       deps.Media,
		mailer:      deps.Mailer,
		events:      deps.Events,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput, file multipart.File, header *multipart.FileHeader) error {
	if input.Title == "" || input.Description == "" || input.TechStack == "" ||
		input.UserID == "" || input.Email == "" {
		return fmt.Errorf("title, description, techStack, userId and email are required: %w", domain.ErrValidation)
	}

	image := ""
	if header != nil {
		stored, err := s.media.Store(ctx, file, header)
		if err != nil {
			return err
		}
		image = stored
	}

	record := &domain.Project{
		ProjectID:   id.New(),
		Title:       input.Title,
		Description: input.Description,
		TechStack:   domain.SplitTechStack(input.TechStack),
		Live:        input.Live,
		Image:       image,
		UserID:      input.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.projectRepo.Put(ctx, record); err != nil {
		return fmt.Errorf("insert project: %v: %w", err, domain.ErrStore)
	}

	s.publish(ctx, "project.created", record)

	// The record stays persisted even when the send fails — the insert and
	// the notification are not atomic.
	body := fmt.Sprintf("Your project %q was submitted successfully.", input.Title)
	if err := s.mailer.SendEmail(input.Email, "Project Submitted", body); err != nil {
		return fmt.Errorf("send submission email: %v: %w", err, domain.ErrDelivery)
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projectRepo.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %v: %w", err, domain.ErrStore)
	}
	return projects, nil
}

func (s *service) Update(ctx context.Context, projectID string, input UpdateInput, file multipart.File, header *multipart.FileHeader) error {
	if input.Description == "" || input.TechStack == "" {
		return fmt.Errorf("description and techStack are required: %w", domain.ErrValidation)
	}
	if !id.Valid(projectID) {
		return fmt.Errorf("malformed project id %q: %w", projectID, domain.ErrValidation)
	}

	updates := map[string]interface{}{
		"description": input.Description,
		"tech_stack":  domain.SplitTechStack(input.TechStack),
		"live":        input.Live,
		"user_id":     input.UserID,
		"email":       input.Email,
	}

	// The image reference is only replaced when this request carried a new
	// file; title is never touched.
	if header != nil {
		stored, err := s.media.Store(ctx, file, header)
		if err != nil {
			return err
		}
		updates["image"] = stored
	}

	if err := s.projectRepo.Update(ctx, projectID, updates); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update project: %v: %w", err, domain.ErrStore)
	}

	s.publish(ctx, "project.updated", map[string]interface{}{"_id": projectID, "fields": updates})
	return nil
}

func (s *service) Delete(ctx context.Context, projectID string) error {
	if !id.Valid(projectID) {
		return fmt.Errorf("malformed project id %q: %w", projectID, domain.ErrValidation)
	}
	// No existence check: deleting an absent record reports success.
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %v: %w", err, domain.ErrStore)
	}

	s.publish(ctx, "project.deleted", map[string]string{"_id": projectID})
	return nil
}

// publish emits a lifecycle event when a publisher is wired. Failures are
// logged and never fail the request.
func (s *service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		slog.Warn("could not publish event", "type", eventType, "err", err)
	}
}
