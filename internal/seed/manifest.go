package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/service"

	"gopkg.in/yaml.v3"
)

// Manifest is hand-written site content loaded from YAML.
type Manifest struct {
	Posts    []ManifestPost    `yaml:"posts"`
	Projects []ManifestProject `yaml:"projects"`
}

// ManifestPost is one post of a manifest.
type ManifestPost struct {
	Title         string            `yaml:"title"`
	Excerpt       string            `yaml:"excerpt"`
	Content       string            `yaml:"content"`
	Cover         string            `yaml:"cover"`
	Status        string            `yaml:"status"`
	Tags          []string          `yaml:"tags"`
	ContentImages []string          `yaml:"content_images"`
	Comments      []ManifestComment `yaml:"comments"`
}

// ManifestComment is a comment written by the reader account Author.
type ManifestComment struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// ManifestProject is one project of a manifest.
type ManifestProject struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Link        string   `yaml:"link"`
	SortOrder   int      `yaml:"sort_order"`
	TechStack   []string `yaml:"tech_stack"`
}

// ParseManifest decodes a manifest, rejecting unknown keys.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return ParseManifest(f)
}

// Apply writes every post, comment and project of m.
func (s *Seeder) Apply(ctx context.Context, m *Manifest) (*Report, error) {
	admin, err := s.adminIdentity(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	readers := map[string]auth.Identity{}

	for i, p := range m.Posts {
		post, err := s.blog.CreatePost(ctx, admin, service.PostInput{
			Title:         p.Title,
			Excerpt:       p.Excerpt,
			Content:       p.Content,
			Cover:         p.Cover,
			Status:        models.PostStatus(p.Status),
			Tags:          p.Tags,
			ContentImages: p.ContentImages,
		})
		if err != nil {
			return report, fmt.Errorf("post %d (%q): %w", i+1, p.Title, err)
		}
		report.Posts++

		for _, c := range p.Comments {
			author, ok := readers[c.Author]
			if !ok {
				var created bool
				author, created, err = s.ensureReader(ctx, c.Author)
				if err != nil {
					return report, err
				}
				if created {
					report.Readers++
				}
				readers[c.Author] = author
			}
			if _, err := s.comments.AddComment(ctx, author, post.ID, service.CommentInput{Content: c.Content}); err != nil {
				return report, fmt.Errorf("comment on %q: %w", p.Title, err)
			}
			report.Comments++
		}
	}

	for i, p := range m.Projects {
		_, err := s.projects.CreateProject(ctx, admin, service.ProjectInput{
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			Link:        p.Link,
			SortOrder:   p.SortOrder,
			TechStack:   p.TechStack,
		})
		if err != nil {
			return report, fmt.Errorf("project %d (%q): %w", i+1, p.Title, err)
		}
		report.Projects++
	}
	return report, nil
}
