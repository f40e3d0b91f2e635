package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/nguyenvuong1309/glow/internal/domain"
)

// SeedCatalog upserts categories and services and replaces each seeded
// service's availability windows. Service order in the slice becomes the
// catalog order.
func SeedCatalog(ctx context.Context, db *bun.DB, categories []domain.Category, services []domain.ServiceAvailability) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		categoryIDs := make(map[string]uuid.UUID, len(categories))
		for _, c := range categories {
			row := categoryRow{ID: c.ID, Name: c.Name, Icon: c.Icon}
			if _, err := upsertCategory(tx, &row).Exec(ctx); err != nil {
				return fmt.Errorf("upsert category %q: %w", c.Name, err)
			}
			categoryIDs[c.Name] = c.ID
		}

		for i, s := range services {
			categoryID, ok := categoryIDs[s.Category]
			if !ok {
				return fmt.Errorf("service %q: unknown category %q", s.Name, s.Category)
			}

			row := serviceRow{
				ID:              s.ID,
				Name:            s.Name,
				CategoryID:      categoryID,
				Description:     s.Description,
				Price:           s.Price,
				DurationMinutes: s.DurationMinutes,
				ImageURL:        s.ImageURL,
				Rating:          s.Rating,
				Position:        i,
			}
			if _, err := upsertService(tx, &row).Exec(ctx); err != nil {
				return fmt.Errorf("upsert service %q: %w", s.Name, err)
			}

			_, err := tx.NewDelete().
				Model((*availabilityRow)(nil)).
				Where("service_id = ?", s.ID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("clear availability for %q: %w", s.Name, err)
			}
			if len(s.Windows) == 0 {
				continue
			}

			windows := make([]availabilityRow, 0, len(s.Windows))
			for _, w := range s.Windows {
				id, err := uuid.NewV7()
				if err != nil {
					return err
				}
				windows = append(windows, availabilityRow{
					ID:        id,
					ServiceID: s.ID,
					DayOfWeek: int16(w.DayOfWeek),
					StartTime: domain.FormatClock(w.Start),
					EndTime:   domain.FormatClock(w.End),
				})
			}
			if _, err := tx.NewInsert().Model(&windows).Exec(ctx); err != nil {
				return fmt.Errorf("insert availability for %q: %w", s.Name, err)
			}
		}

		return nil
	})
}

func upsertCategory(db bun.IDB, row *categoryRow) *bun.InsertQuery {
	return db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("icon = EXCLUDED.icon")
}

// Relation fields on serviceRow are not columns; bun leaves them out of the
// insert on its own.
func upsertService(db bun.IDB, row *serviceRow) *bun.InsertQuery {
	return db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("category_id = EXCLUDED.category_id").
		Set("description = EXCLUDED.description").
		Set("price = EXCLUDED.price").
		Set("duration_minutes = EXCLUDED.duration_minutes").
		Set("image_url = EXCLUDED.image_url").
		Set("rating = EXCLUDED.rating").
		Set("position = EXCLUDED.position")
}
