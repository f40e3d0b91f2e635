// Package seed loads catalog fixtures from YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nguyenvuong1309/glow/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type File struct {
	Categories []CategoryFixture `yaml:"categories" validate:"required,min=1,dive"`
	Services   []ServiceFixture  `yaml:"services" validate:"dive"`
}

type CategoryFixture struct {
	Name string `yaml:"name" validate:"required"`
	Icon string `yaml:"icon"`
}

type ServiceFixture struct {
	Slug            string          `yaml:"slug" validate:"required"`
	Name            string          `yaml:"name" validate:"required"`
	Category        string          `yaml:"category" validate:"required"`
	Description     string          `yaml:"description"`
	Price           float64         `yaml:"price" validate:"gte=0"`
	DurationMinutes int             `yaml:"duration_minutes" validate:"required,gt=0,lte=1440"`
	ImageURL        string          `yaml:"image_url" validate:"omitempty,url"`
	Rating          float64         `yaml:"rating" validate:"gte=0,lte=5"`
	Availability    []WindowFixture `yaml:"availability" validate:"dive"`
}

type WindowFixture struct {
	Days  []string `yaml:"days" validate:"required,min=1,dive,oneof=sun mon tue wed thu fri sat"`
	Start string   `yaml:"start" validate:"required"`
	End   string   `yaml:"end" validate:"required"`
}

type Catalog struct {
	Categories []domain.Category
	Services   []domain.ServiceAvailability
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Default returns the bundled demo catalog.
func Default() (Catalog, error) {
	return Parse(defaultCatalog)
}

func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	return Parse(data)
}

// Parse decodes and validates a fixture. IDs are derived from category names
// and service slugs, so seeding the same file twice updates rows in place.
func Parse(data []byte) (Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return Catalog{}, fmt.Errorf("validate catalog: %w", err)
	}
	return f.toDomain()
}

func CategoryID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("glow:category:"+name))
}

func ServiceID(slug string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("glow:service:"+slug))
}

func (f File) toDomain() (Catalog, error) {
	out := Catalog{
		Categories: make([]domain.Category, 0, len(f.Categories)),
		Services:   make([]domain.ServiceAvailability, 0, len(f.Services)),
	}

	known := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if _, dup := known[name]; dup {
			return Catalog{}, fmt.Errorf("duplicate category %q", name)
		}
		known[name] = struct{}{}
		out.Categories = append(out.Categories, domain.Category{
			ID:   CategoryID(name),
			Name: name,
			Icon: c.Icon,
		})
	}

	slugs := make(map[string]struct{}, len(f.Services))
	for _, s := range f.Services {
		if _, dup := slugs[s.Slug]; dup {
			return Catalog{}, fmt.Errorf("duplicate service slug %q", s.Slug)
		}
		slugs[s.Slug] = struct{}{}

		category := strings.TrimSpace(s.Category)
		if _, ok := known[category]; !ok {
			return Catalog{}, fmt.Errorf("service %q: unknown category %q", s.Slug, category)
		}

		id := ServiceID(s.Slug)
		svc := domain.ServiceAvailability{
			Service: domain.Service{
				ID:              id,
				Name:            strings.TrimSpace(s.Name),
				Category:        category,
				Description:     strings.TrimSpace(s.Description),
				Price:           s.Price,
				DurationMinutes: s.DurationMinutes,
				ImageURL:        s.ImageURL,
				Rating:          s.Rating,
			},
		}

		for i, w := range s.Availability {
			start, err := domain.ParseClock(w.Start)
			if err != nil {
				return Catalog{}, fmt.Errorf("service %q window %d: start must be HH:MM", s.Slug, i)
			}
			end, err := domain.ParseWindowEnd(w.End)
			if err != nil {
				return Catalog{}, fmt.Errorf("service %q window %d: end must be HH:MM", s.Slug, i)
			}
			if !start.Before(end) {
				return Catalog{}, fmt.Errorf("service %q window %d: start must be before end", s.Slug, i)
			}
			for _, d := range w.Days {
				svc.Windows = append(svc.Windows, domain.AvailabilityWindow{
					ServiceID: id,
					DayOfWeek: weekdays[d],
					Start:     start,
					End:       end,
				})
			}
		}

		out.Services = append(out.Services, svc)
	}

	return out, nil
}
