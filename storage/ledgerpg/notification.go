package ledgerpg

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/notification"
)

type notificationRow struct {
	ID        string      `db:"id"`
	UserID    null.String `db:"user_id"`
	Category  string      `db:"category"`
	Title     string      `db:"title"`
	Message   string      `db:"message"`
	Severity  string      `db:"severity"`
	Read      bool        `db:"read"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r notificationRow) notification() notification.Notification {
	return notification.Notification{
		ID:        r.ID,
		UserID:    r.UserID.String,
		Category:  notification.Category(r.Category),
		Title:     r.Title,
		Message:   r.Message,
		Severity:  notification.Severity(r.Severity),
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
	}
}

func newNotificationRow(n notification.Notification) notificationRow {
	return notificationRow{
		ID:        n.ID,
		UserID:    null.NewString(n.UserID, n.UserID != ""),
		Category:  string(n.Category),
		Title:     n.Title,
		Message:   n.Message,
		Severity:  string(n.Severity),
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC(),
	}
}

type notificationRepository struct {
	db  *sqlx.DB
	ids core.IDGenerator
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB, ids core.IDGenerator) *notificationRepository {
	return &notificationRepository{db: db, ids: ids}
}

func (repo notificationRepository) CreateNotification(n notification.Notification) (notification.Notification, error) {
	n.ID = repo.ids.NextID()
	r := newNotificationRow(n)
	_, err := repo.db.NamedExec(`
		INSERT INTO notifications (id, user_id, category, title, message, severity, read, created_at)
		VALUES (:id, :user_id, :category, :title, :message, :severity, :read, :created_at)`, r)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return r.notification(), nil
}

func (repo notificationRepository) QueryAllNotifications() ([]notification.Notification, error) {
	var rows []notificationRow
	if err := repo.db.Select(&rows, `SELECT * FROM notifications`); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	ns := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		ns = append(ns, r.notification())
	}
	return ns, nil
}

func (repo notificationRepository) GetNotificationByID(id string) (notification.Notification, error) {
	var r notificationRow
	if err := repo.db.Get(&r, `SELECT * FROM notifications WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "getting notification")
	}
	return r.notification(), nil
}

func (repo notificationRepository) MarkNotificationRead(id string) (notification.Notification, error) {
	var r notificationRow
	err := repo.db.Get(&r, `UPDATE notifications SET read = true WHERE id = $1 RETURNING *`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "marking notification read")
	}
	return r.notification(), nil
}
