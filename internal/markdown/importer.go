package markdown

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// DefaultPostType receives imported documents unless ImportOptions.PostType is set.
const DefaultPostType = "landing_page"

var (
	ErrPostStoreRequired = errors.New("markdown importer: post store is required")
	ErrNameMissing       = errors.New("markdown importer: document has no slug, title or file name")
)

// PostStore is the subset of posts.Service the importer writes through.
type PostStore interface {
	Create(ctx context.Context, req posts.CreateRequest) (*posts.Post, error)
	Update(ctx context.Context, req posts.UpdateRequest) (*posts.Post, error)
	GetByName(ctx context.Context, postType, name string) (*posts.Post, error)
}

// Importer turns rendered documents into posts. Documents are matched to
// existing posts by type and name.
type Importer struct {
	posts  PostStore
	logger interfaces.Logger
}

func NewImporter(store PostStore, logger interfaces.Logger) *Importer {
	return &Importer{
		posts:  store,
		logger: logging.Ensure(logger),
	}
}

// ImportDocuments creates or updates one post per document. A failing
// document is recorded in the result and does not stop the others.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i == nil || i.posts == nil {
		return nil, ErrPostStoreRequired
	}

	postType := strings.TrimSpace(opts.PostType)
	if postType == "" {
		postType = DefaultPostType
	}

	result := &interfaces.ImportResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		if doc == nil {
			continue
		}
		if err := i.importDocument(ctx, postType, doc, opts, result); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("markdown import %s: %w", doc.FilePath, err))
		}
	}

	i.logger.Info("markdown.imported",
		"post_type", postType,
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
		"dry_run", opts.DryRun,
	)
	return result, errors.Join(result.Errors...)
}

func (i *Importer) importDocument(ctx context.Context, postType string, doc *interfaces.Document, opts interfaces.ImportOptions, result *interfaces.ImportResult) error {
	fm := doc.FrontMatter
	name, err := documentName(doc)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = fallbackTitle(name)
	}
	status := documentStatus(fm, opts.DefaultStatus)
	body := string(doc.BodyHTML)
	logger := logging.WithPostContext(i.logger, postType, name, doc.FilePath)

	existing, err := i.posts.GetByName(ctx, postType, name)
	switch {
	case err == nil:
	case posts.IsNotFound(err):
		if opts.DryRun {
			result.Created = append(result.Created, uuid.Nil)
			return nil
		}
		created, err := i.posts.Create(ctx, posts.CreateRequest{
			Type:         postType,
			Name:         name,
			Title:        title,
			Body:         body,
			Status:       status,
			Thumbnail:    fm.Thumbnail,
			CustomFields: fm.CustomFields,
		})
		if err != nil {
			return err
		}
		logger.Debug("markdown.post_created", "id", created.ID.String())
		result.Created = append(result.Created, created.ID)
		return nil
	default:
		return err
	}

	if unchanged(existing, title, body, status, fm) {
		result.Skipped = append(result.Skipped, existing.ID)
		return nil
	}
	if opts.DryRun {
		result.Updated = append(result.Updated, existing.ID)
		return nil
	}

	thumbnail := fm.Thumbnail
	updated, err := i.posts.Update(ctx, posts.UpdateRequest{
		ID:           existing.ID,
		Title:        &title,
		Body:         &body,
		Status:       &status,
		Thumbnail:    &thumbnail,
		CustomFields: fm.CustomFields,
	})
	if err != nil {
		return err
	}
	logger.Debug("markdown.post_updated", "id", updated.ID.String())
	result.Updated = append(result.Updated, updated.ID)
	return nil
}

func documentName(doc *interfaces.Document) (string, error) {
	source := strings.TrimSpace(doc.FrontMatter.Slug)
	if source == "" && strings.TrimSpace(doc.FrontMatter.Title) == "" {
		base := path.Base(doc.FilePath)
		source = strings.TrimSuffix(base, path.Ext(base))
	}
	name, err := posts.NormalizeName(source, doc.FrontMatter.Title)
	if errors.Is(err, posts.ErrNameRequired) {
		return "", ErrNameMissing
	}
	return name, err
}

func documentStatus(fm interfaces.FrontMatter, fallback string) posts.Status {
	if status := strings.ToLower(strings.TrimSpace(fm.Status)); status != "" {
		return posts.Status(status)
	}
	if fm.Draft {
		return posts.StatusDraft
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return posts.Status(fallback)
	}
	return posts.StatusPublish
}

func fallbackTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for idx, word := range words {
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func unchanged(existing *posts.Post, title, body string, status posts.Status, fm interfaces.FrontMatter) bool {
	if existing.Title != title || existing.Body != body || existing.Status != status {
		return false
	}
	if existing.Thumbnail != strings.TrimSpace(fm.Thumbnail) {
		return false
	}
	return sameFields(existing.CustomFields, fm.CustomFields)
}

// sameFields compares through JSON so numbers decoded from YAML and from
// storage compare equal.
func sameFields(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	left, errLeft := json.Marshal(a)
	right, errRight := json.Marshal(b)
	return errLeft == nil && errRight == nil && bytes.Equal(left, right)
}
