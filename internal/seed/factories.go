// Package seed fills a database with demo content for development. All
// writes go through the content services so seeded data obeys the same
// rules as data written through the API.
package seed

import (
	"fmt"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var topicTags = []string{
	"go", "postgres", "redis", "devops", "frontend", "backend", "testing",
	"performance", "security", "homelab", "notes", "career", "design",
}

var stackTechnologies = []string{
	"Go", "TypeScript", "React", "Vue", "PostgreSQL", "SQLite", "Redis",
	"Docker", "Kubernetes", "Fiber", "GORM", "Prometheus", "OpenTelemetry",
}

// Factory builds random but valid service inputs.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory returns a factory. A zero seed picks one from the clock.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed)}
}

// PostInput builds a post with one to three tags and up to two content images.
func (f *Factory) PostInput() service.PostInput {
	in := service.PostInput{
		Title:   truncate(strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."), 200),
		Excerpt: truncate(f.faker.Sentence(16), 500),
		Content: f.faker.Paragraph(f.faker.Number(2, 5), 4, 12, "\n\n"),
		Cover:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", f.faker.UUID()),
		Status:  models.PostPublished,
		Tags:    f.pick(topicTags, f.faker.Number(1, 3)),
	}
	for i := f.faker.Number(0, 2); i > 0; i-- {
		in.ContentImages = append(in.ContentImages, fmt.Sprintf("https://picsum.photos/seed/%s/800/500", f.faker.UUID()))
	}
	if f.faker.Number(1, 10) == 1 {
		in.Status = models.PostDraft
	}
	return in
}

// ProjectInput builds a project shown at position order.
func (f *Factory) ProjectInput(order int) service.ProjectInput {
	return service.ProjectInput{
		Title:       truncate(f.faker.AppName(), 200),
		Description: f.faker.Paragraph(1, 3, 12, " "),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
		Link:        "https://" + f.faker.DomainName(),
		SortOrder:   order,
		TechStack:   f.pick(stackTechnologies, f.faker.Number(2, 5)),
	}
}

// CommentText returns a short comment body.
func (f *Factory) CommentText() string {
	return truncate(f.faker.Sentence(f.faker.Number(5, 20)), 2000)
}

// Nickname returns a display name for a demo reader.
func (f *Factory) Nickname() string {
	return truncate(f.faker.Name(), 64)
}

// Intn returns a number in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

func (f *Factory) pick(from []string, n int) []string {
	shuffled := append([]string(nil), from...)
	f.faker.ShuffleStrings(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
