package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
)

const outboxReturning = "RETURNING id, kind, COALESCE(course_id, 0), COALESCE(class_id, ''), tokens, title, body, data, " +
	"attempts, available_at, last_error, status, created_at, sent_at"

// OutboxRepository stores push notifications waiting to be delivered
type OutboxRepository struct {
	db *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) q(ctx context.Context) db.Querier {
	return db.QuerierFrom(ctx, r.db)
}

func scanOutbox(row pgx.Row) (*models.OutboxMessage, error) {
	var (
		msg          models.OutboxMessage
		tokens, data []byte
	)
	err := row.Scan(
		&msg.ID, &msg.Kind, &msg.CourseID, &msg.ClassID, &tokens, &msg.Title, &msg.Body, &data,
		&msg.Attempts, &msg.AvailableAt, &msg.LastError, &msg.Status, &msg.CreatedAt, &msg.SentAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(tokens, &msg.Tokens); err != nil {
		return nil, fmt.Errorf("outbox %d tokens: %w", msg.ID, err)
	}
	if err := decodeJSON(data, &msg.Data); err != nil {
		return nil, fmt.Errorf("outbox %d data: %w", msg.ID, err)
	}
	return &msg, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

// Enqueue inserts a pending message. An unset AvailableAt means deliver now.
func (r *OutboxRepository) Enqueue(ctx context.Context, msg *models.OutboxMessage) error {
	if msg.Tokens == nil {
		msg.Tokens = []string{}
	}
	if msg.Data == nil {
		msg.Data = map[string]string{}
	}
	tokens, err := jsonbValue(msg.Tokens)
	if err != nil {
		return err
	}
	data, err := jsonbValue(msg.Data)
	if err != nil {
		return err
	}

	var availableAt interface{} = squirrel.Expr("NOW()")
	if !msg.AvailableAt.IsZero() {
		availableAt = msg.AvailableAt
	}

	sql, args, err := psql.Insert("notification_outbox").
		Columns("kind", "course_id", "class_id", "tokens", "title", "body", "data", "available_at", "status").
		Values(string(msg.Kind), nullableID(msg.CourseID), nullableString(msg.ClassID), tokens, msg.Title, msg.Body, data,
			availableAt, string(models.OutboxPending)).
		Suffix("RETURNING id, available_at, status, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&msg.ID, &msg.AvailableAt, &msg.Status, &msg.CreatedAt); err != nil {
		return fmt.Errorf("error enqueuing notification: %w", err)
	}
	return nil
}

// ClaimDue leases up to limit due pending messages. Claimed rows have available_at pushed
// forward by lease so a concurrent worker skips them until the lease runs out.
func (r *OutboxRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*models.OutboxMessage, error) {
	rows, err := r.q(ctx).Query(ctx, `
		UPDATE notification_outbox
		SET available_at = $2
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE status = 'pending' AND available_at <= $1
			ORDER BY available_at, id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		`+outboxReturning,
		now, now.Add(lease), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error claiming notifications: %w", err)
	}
	defer rows.Close()

	var messages []*models.OutboxMessage
	for rows.Next() {
		msg, err := scanOutbox(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkSent records a delivered message
func (r *OutboxRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.q(ctx).Exec(ctx,
		`UPDATE notification_outbox SET status = 'sent', sent_at = $2, last_error = NULL WHERE id = $1`,
		id, at)
	if err != nil {
		return fmt.Errorf("error marking notification sent: %w", err)
	}
	return nil
}

// MarkRetry records a failed attempt and reschedules the message
func (r *OutboxRepository) MarkRetry(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error {
	_, err := r.q(ctx).Exec(ctx,
		`UPDATE notification_outbox SET attempts = $2, available_at = $3, last_error = $4 WHERE id = $1`,
		id, attempts, next, lastErr)
	if err != nil {
		return fmt.Errorf("error rescheduling notification: %w", err)
	}
	return nil
}

// MarkFailed gives up on a message
func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, attempts int, lastErr string) error {
	_, err := r.q(ctx).Exec(ctx,
		`UPDATE notification_outbox SET status = 'failed', attempts = $2, last_error = $3 WHERE id = $1`,
		id, attempts, lastErr)
	if err != nil {
		return fmt.Errorf("error marking notification failed: %w", err)
	}
	return nil
}

// CancelPendingForClass cancels undelivered messages about one scheduled class.
// With kinds given, only messages of those kinds are cancelled.
func (r *OutboxRepository) CancelPendingForClass(ctx context.Context, courseID int64, classID string, kinds ...models.NotificationType) (int64, error) {
	where := squirrel.Eq{"status": string(models.OutboxPending), "course_id": courseID, "class_id": classID}
	if len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		where["kind"] = names
	}

	query, args, err := psql.Update("notification_outbox").
		Set("status", string(models.OutboxCancelled)).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building cancel query: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error cancelling class notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CancelPendingForCourse cancels undelivered messages about a course
func (r *OutboxRepository) CancelPendingForCourse(ctx context.Context, courseID int64) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE notification_outbox SET status = 'cancelled' WHERE status = 'pending' AND course_id = $1`,
		courseID)
	if err != nil {
		return 0, fmt.Errorf("error cancelling course notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
