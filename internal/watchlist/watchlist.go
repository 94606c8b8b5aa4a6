// Package watchlist manages the user-curated catalog of watched
// strings: loaded at startup, mutated by add/remove, and re-saved
// immediately after every mutation.
package watchlist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mclog/mclog-go/internal/safefile"
	"github.com/mclog/mclog-go/pkg/mclog/view"
)

// MaxFileSize bounds the watch-list file to keep a corrupted or
// hostile file from exhausting memory.
const MaxFileSize = 1 * 1024 * 1024

// Category is one persisted watch category.
type Category struct {
	Name     string   `yaml:"name"`
	Template string   `yaml:"template"`
	Weight   int      `yaml:"weight"`
	Terms    []string `yaml:"terms"`
}

// file is the on-disk document shape.
type file struct {
	Categories []Category `yaml:"categories"`
}

// Store is a file-backed watch-list catalog. It is not safe for
// concurrent use; the viewer has a single logical consumer.
type Store struct {
	path       string
	categories []Category
}

// Load reads the watch-list file at path. A missing file yields an
// empty store; any other read or parse failure is an error.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	f, info, err := safefile.OpenRegular(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening watch list: %w", err)
	}
	defer f.Close()

	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("watch list too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading watch list: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("watch list too large (max %d bytes)", MaxFileSize)
	}

	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing watch list: %w", err)
	}
	s.categories = doc.Categories
	return s, nil
}

// Categories returns the catalog in ascending weight order, converted
// for the decoration pass.
func (s *Store) Categories() []view.Category {
	out := make([]view.Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = view.Category{
			Name:     c.Name,
			Template: c.Template,
			Weight:   c.Weight,
			Terms:    append([]string(nil), c.Terms...),
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

// Add inserts a term into the named category, creating the category
// with the given template and weight if absent, then saves. Adding a
// term that is already present is a no-op.
func (s *Store) Add(name, template string, weight int, term string) error {
	if term == "" {
		return errors.New("term must not be empty")
	}
	for i := range s.categories {
		if s.categories[i].Name != name {
			continue
		}
		for _, t := range s.categories[i].Terms {
			if t == term {
				return nil
			}
		}
		s.categories[i].Terms = append(s.categories[i].Terms, term)
		return s.save()
	}
	s.categories = append(s.categories, Category{
		Name:     name,
		Template: template,
		Weight:   weight,
		Terms:    []string{term},
	})
	return s.save()
}

// Remove deletes a term from the named category, dropping the
// category once empty, then saves. Removing an absent term is a
// no-op.
func (s *Store) Remove(name, term string) error {
	for i := range s.categories {
		if s.categories[i].Name != name {
			continue
		}
		terms := s.categories[i].Terms
		for j, t := range terms {
			if t != term {
				continue
			}
			s.categories[i].Terms = append(terms[:j], terms[j+1:]...)
			if len(s.categories[i].Terms) == 0 {
				s.categories = append(s.categories[:i], s.categories[i+1:]...)
			}
			return s.save()
		}
		return nil
	}
	return nil
}

func (s *Store) save() error {
	data, err := yaml.Marshal(file{Categories: s.categories})
	if err != nil {
		return fmt.Errorf("encoding watch list: %w", err)
	}
	if err := safefile.WriteAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("saving watch list: %w", err)
	}
	return nil
}
