package post

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-photo-share/internal/domain"
	"github.com/go-photo-share/internal/infrastructure/sns"
	"github.com/go-photo-share/internal/pkg/id"
)

type CreateInput struct {
	UserID      string
	Filename    string
	Data        []byte
	Description string
	Watermark   bool
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*domain.Post, error)
	ListMine(ctx context.Context, userID string) ([]domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	Delete(ctx context.Context, postID, userID string) error
	Image(ctx context.Context, postID string) (io.ReadCloser, *domain.Post, error)
	Preview(ctx context.Context, userID, filename string, data []byte) ([]byte, error)
}

type postStore interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	Delete(ctx context.Context, postID string) error
}

type userFinder interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type watermarker interface {
	Enabled() bool
	Apply(ctx context.Context, filename string, image []byte, text string) ([]byte, error)
}

type service struct {
	posts     postStore
	users     userFinder
	images    objectStore
	watermark watermarker
	events    sns.Publisher
}

type ServiceDeps struct {
	PostRepo  postStore
	UserRepo  userFinder
	Images    objectStore
	Watermark watermarker
	Events    sns.Publisher
}

func NewService(deps ServiceDeps) Service {
	events := deps.Events
	if events == nil {
		events = sns.NopPublisher{}
	}
	return &service{
		posts:     deps.PostRepo,
		users:     deps.UserRepo,
		images:    deps.Images,
		watermark: deps.Watermark,
		events:    events,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*domain.Post, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("image is required: %w", domain.ErrBadRequest)
	}
	contentType := imageContentType(input.Data)
	if contentType == "" {
		return nil, fmt.Errorf("file must be an image: %w", domain.ErrBadRequest)
	}
	name := sanitizeFilename(input.Filename)
	data := input.Data
	if input.Watermark {
		marked, err := s.stamp(ctx, input.UserID, name, data)
		if err != nil {
			return nil, err
		}
		data = marked
		contentType = "image/png"
		name = strings.TrimSuffix(name, path.Ext(name)) + ".png"
	}

	postID := id.New()
	key := fmt.Sprintf("posts/%s/%s-%s", input.UserID, postID, name)
	if _, err := s.images.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, err
	}
	p := &domain.Post{
		PostID:      postID,
		UserID:      input.UserID,
		Image:       key,
		ContentType: contentType,
		Description: input.Description,
		Watermarked: input.Watermark,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.posts.Put(ctx, p); err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			slog.ErrorContext(ctx, "orphaned image after failed post write", "key", key, "err", delErr)
		}
		return nil, err
	}
	s.publish(ctx, sns.EventPostCreated, p)
	return p, nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

// ListAll returns every post with its author's public fields filled in.
// Posts whose author no longer exists keep a nil Author.
func (s *service) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]*domain.Author)
	for i := range posts {
		uid := posts[i].UserID
		a, seen := authors[uid]
		if !seen {
			u, err := s.users.FindByID(ctx, uid)
			switch {
			case err == nil:
				a = &domain.Author{UserID: u.UserID, Username: u.Username}
			case errors.Is(err, domain.ErrNotFound):
				a = nil
			default:
				return nil, err
			}
			authors[uid] = a
		}
		posts[i].Author = a
	}
	return posts, nil
}

// Delete removes a post owned by userID. A failure to remove the stored image
// is logged and does not keep the record alive.
func (s *service) Delete(ctx context.Context, postID, userID string) error {
	p, err := s.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return fmt.Errorf("post belongs to another user: %w", domain.ErrForbidden)
	}
	if err := s.images.Delete(ctx, p.Image); err != nil {
		slog.ErrorContext(ctx, "delete image failed", "post_id", postID, "key", p.Image, "err", err)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.publish(ctx, sns.EventPostDeleted, map[string]string{"post_id": postID, "user_id": userID})
	return nil
}

func (s *service) Image(ctx context.Context, postID string) (io.ReadCloser, *domain.Post, error) {
	p, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.images.Download(ctx, p.Image)
	if err != nil {
		return nil, nil, err
	}
	return rc, p, nil
}

// Preview watermarks an image for userID without storing anything.
func (s *service) Preview(ctx context.Context, userID, filename string, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is required: %w", domain.ErrBadRequest)
	}
	if imageContentType(data) == "" {
		return nil, fmt.Errorf("file must be an image: %w", domain.ErrBadRequest)
	}
	return s.stamp(ctx, userID, sanitizeFilename(filename), data)
}

func (s *service) stamp(ctx context.Context, userID, filename string, data []byte) ([]byte, error) {
	if s.watermark == nil || !s.watermark.Enabled() {
		return nil, fmt.Errorf("watermarking is not available: %w", domain.ErrBadRequest)
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out, err := s.watermark.Apply(ctx, filename, data, u.Username)
	if err != nil {
		slog.ErrorContext(ctx, "watermark failed", "user_id", userID, "err", err)
		return nil, fmt.Errorf("watermark image: %w", domain.ErrUpstream)
	}
	return out, nil
}

func (s *service) publish(ctx context.Context, eventType string, payload any) {
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		slog.WarnContext(ctx, "publish event failed", "event", eventType, "err", err)
	}
}

// allowedImageTypes are the raster formats accepted for posts. Scriptable
// formats such as SVG are never stored.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// imageContentType sniffs data and returns its type when it is an allowed
// image format, otherwise "". The client's declared type is ignored.
func imageContentType(data []byte) string {
	if sniffed := http.DetectContentType(data); allowedImageTypes[sniffed] {
		return sniffed
	}
	return ""
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "image"
}
