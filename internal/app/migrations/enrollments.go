package migrations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
)

// LegacyEnrollmentRow is a user row whose enrolled_courses still holds bare course ids
type LegacyEnrollmentRow struct {
	UserID      int64
	Enrollments models.Enrollments
}

// RewriteLegacyEnrollments converts raw enrolled_courses documents to the tagged form.
// Rows that are already tagged are skipped. Invalid documents are returned as errors.
func RewriteLegacyEnrollments(raw map[int64][]byte) ([]LegacyEnrollmentRow, error) {
	var rows []LegacyEnrollmentRow
	for userID, doc := range raw {
		var es models.Enrollments
		if err := json.Unmarshal(doc, &es); err != nil {
			return nil, fmt.Errorf("user %d: %w", userID, err)
		}
		if !es.HasLegacy() {
			continue
		}
		rows = append(rows, LegacyEnrollmentRow{UserID: userID, Enrollments: es.Normalized()})
	}
	return rows, nil
}

// TaggedEnrollments rewrites every legacy enrolled_courses array into {course_id, status} objects
func TaggedEnrollments(logger zerolog.Logger) GoMigration {
	return GoMigration{
		Version: "100",
		Name:    "100_tagged_enrollments",
		Run: func(ctx context.Context, tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				SELECT id, enrolled_courses
				FROM users
				WHERE enrolled_courses IS NOT NULL AND jsonb_array_length(enrolled_courses) > 0
				FOR UPDATE`)
			if err != nil {
				return fmt.Errorf("failed to read enrollments: %w", err)
			}

			raw := make(map[int64][]byte)
			for rows.Next() {
				var id int64
				var doc []byte
				if err := rows.Scan(&id, &doc); err != nil {
					rows.Close()
					return fmt.Errorf("failed to scan enrollments: %w", err)
				}
				raw[id] = doc
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return err
			}

			updates, err := RewriteLegacyEnrollments(raw)
			if err != nil {
				return err
			}

			for _, row := range updates {
				doc, err := json.Marshal(row.Enrollments)
				if err != nil {
					return err
				}
				if _, err := tx.Exec(ctx, `UPDATE users SET enrolled_courses = $1::jsonb, updated_at = NOW() WHERE id = $2`, string(doc), row.UserID); err != nil {
					return fmt.Errorf("failed to rewrite enrollments of user %d: %w", row.UserID, err)
				}
			}

			logger.Info().Int("users", len(updates)).Msg("Legacy enrollments rewritten")
			return nil
		},
	}
}
