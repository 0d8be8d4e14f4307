package entities

import (
	"fmt"
	"strings"
)

// Category is one bucket of a retrospective template, identified by its slug
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Template is the ordered set of categories a session's notes are organized into
type Template struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// NewTemplate builds a template, rejecting empty or repeated slugs
func NewTemplate(id, name string, categories []Category) (*Template, error) {
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		slug := strings.TrimSpace(c.Slug)
		if slug == "" {
			return nil, fmt.Errorf("template %q has a category without slug", name)
		}
		if seen[slug] {
			return nil, fmt.Errorf("template %q has duplicate category slug %q", name, slug)
		}
		seen[slug] = true
	}

	cats := make([]Category, len(categories))
	copy(cats, categories)

	return &Template{ID: id, Name: name, Categories: cats}, nil
}

// CategoryBySlug returns the category with the given slug
func (t *Template) CategoryBySlug(slug string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	for _, c := range t.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// Slugs returns category slugs in template order
func (t *Template) Slugs() []string {
	if t == nil {
		return nil
	}
	slugs := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		slugs[i] = c.Slug
	}
	return slugs
}

// HasSameCategories reports whether both templates expose the same slug set
func (t *Template) HasSameCategories(other *Template) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Categories) != len(other.Categories) {
		return false
	}
	for _, c := range t.Categories {
		if _, ok := other.CategoryBySlug(c.Slug); !ok {
			return false
		}
	}
	return true
}
