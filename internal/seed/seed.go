package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

// File is the on-disk fixture format: a component catalog plus the
// compatibility rules that govern it.
type File struct {
	Components []ComponentSeed `yaml:"components"`
	Rules      []RuleSeed      `yaml:"rules"`
}

type ComponentSeed struct {
	Category string                 `yaml:"category"`
	Name     string                 `yaml:"name"`
	Price    float64                `yaml:"price"`
	Discount float64                `yaml:"discount"`
	Specs    map[string]interface{} `yaml:"specs"`
}

type RuleSeed struct {
	Kind     string                 `yaml:"kind"`
	Category string                 `yaml:"category"`
	Name     string                 `yaml:"name"`
	Message  string                 `yaml:"message"`
	Config   map[string]interface{} `yaml:"config"`
}

// Load reads and parses a fixture file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &file, nil
}

// Apply upserts the fixture rows. Components and rules are keyed by name so
// re-running the seed is idempotent: existing rows are updated in place,
// missing ones created.
func Apply(ctx context.Context, db *gorm.DB, log *logger.Logger, file *File) error {
	seedLog := log.With("component", "seed")

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range file.Components {
			seeded := &file.Components[i]
			if seeded.Name == "" || seeded.Category == "" {
				return fmt.Errorf("component %d: name and category are required", i)
			}

			row := types.Component{
				Category: seeded.Category,
				Name:     seeded.Name,
				Price:    seeded.Price,
				Discount: seeded.Discount,
				Specs:    datatypes.JSONMap(normalize(seeded.Specs)),
				Active:   true,
			}

			var existing types.Component
			err := tx.Where("name = ?", seeded.Name).First(&existing).Error
			switch {
			case err == nil:
				row.ID = existing.ID
				// Select forces zero values (discount 0) through as well.
				if err := tx.Model(&existing).
					Select("category", "price", "discount", "specs", "active").
					Updates(&row).Error; err != nil {
					return fmt.Errorf("update component %q: %w", seeded.Name, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				row.ID = uuid.New()
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("create component %q: %w", seeded.Name, err)
				}
			default:
				return err
			}
		}

		for i := range file.Rules {
			seeded := &file.Rules[i]
			if seeded.Name == "" || seeded.Kind == "" {
				return fmt.Errorf("rule %d: name and kind are required", i)
			}
			config, err := json.Marshal(normalize(seeded.Config))
			if err != nil {
				return fmt.Errorf("rule %q: encode config: %w", seeded.Name, err)
			}

			row := types.CompatibilityRule{
				Kind:     seeded.Kind,
				Category: seeded.Category,
				Name:     seeded.Name,
				Message:  seeded.Message,
				Config:   datatypes.JSON(config),
				Active:   true,
			}

			var existing types.CompatibilityRule
			err = tx.Where("name = ?", seeded.Name).First(&existing).Error
			switch {
			case err == nil:
				row.ID = existing.ID
				if err := tx.Model(&existing).
					Select("kind", "category", "message", "config", "active").
					Updates(&row).Error; err != nil {
					return fmt.Errorf("update rule %q: %w", seeded.Name, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				row.ID = uuid.New()
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("create rule %q: %w", seeded.Name, err)
				}
			default:
				return err
			}
		}

		seedLog.Info("Seed applied", "components", len(file.Components), "rules", len(file.Rules))
		return nil
	})
}

// normalize rewrites yaml.v3's map[interface{}]interface{} values into the
// string-keyed maps the JSON column types expect.
func normalize(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		return normalize(typed)
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, val := range typed {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, val := range typed {
			out[i] = normalizeValue(val)
		}
		return out
	case int:
		return float64(typed)
	default:
		return v
	}
}
