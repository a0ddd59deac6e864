package postgres

import (
	"database/sql"
	"errors"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pqUniqueViolation — код ошибки postgres при нарушении уникального индекса.
const pqUniqueViolation = "23505"

const selectComment = `
	SELECT c.id, c.event_id, c.author_id, u.name AS author_name, c.text,
	       c.status, c.created_at, c.edited_at, c.moderator_message
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

type Comment struct {
	db *sqlx.DB
}

func NewComment(db *sqlx.DB) repo.Comment {
	return &Comment{
		db: db,
	}
}

func (c *Comment) AddComment(comment *entity.Comment) (int64, error) {
	var id int64
	err := c.db.QueryRow(`
		INSERT INTO comments (event_id, author_id, text, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, comment.EventID, comment.AuthorID, comment.Text, comment.Status, comment.Created).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return 0, repo.ErrCommentExists
		}
		return 0, err
	}
	return id, nil
}

func (c *Comment) GetComment(commentID int64) (*entity.Comment, error) {
	var comment entity.Comment
	err := c.db.Get(&comment, selectComment+` WHERE c.id = $1`, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (c *Comment) GetEventComment(commentID, eventID int64) (*entity.Comment, error) {
	var comment entity.Comment
	err := c.db.Get(&comment, selectComment+` WHERE c.id = $1 AND c.event_id = $2`, commentID, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (c *Comment) HasComment(eventID, authorID int64) (bool, error) {
	var exists bool
	err := c.db.Get(&exists, `
		SELECT EXISTS (SELECT 1 FROM comments WHERE event_id = $1 AND author_id = $2)
	`, eventID, authorID)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateComment блокирует строку комментария, применяет change и записывает
// изменённые поля вместе с дельтой счётчика события в одной транзакции.
// Счётчик не опускается ниже нуля.
func (c *Comment) UpdateComment(commentID int64, change repo.CommentChangeFn) (*entity.Comment, error) {
	tx, err := c.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var comment entity.Comment
	err = tx.Get(&comment, selectComment+` WHERE c.id = $1 FOR UPDATE OF c`, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrCommentNotFound
		}
		return nil, err
	}

	delta, err := change(&comment)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE comments
		SET text = $1, status = $2, edited_at = $3, moderator_message = $4
		WHERE id = $5
	`, comment.Text, comment.Status, comment.Edited, comment.ModeratorMessage, comment.ID)
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		if err := applyCounterDelta(tx, comment.EventID, delta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Comment) DeleteComment(commentID int64, delta repo.CounterDeltaFn) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var row struct {
		EventID int64                `db:"event_id"`
		Status  entity.CommentStatus `db:"status"`
	}
	err = tx.Get(&row, `SELECT event_id, status FROM comments WHERE id = $1 FOR UPDATE`, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repo.ErrCommentNotFound
		}
		return err
	}

	if _, err := tx.Exec(`DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return err
	}

	if d := delta(row.Status); d != 0 {
		if err := applyCounterDelta(tx, row.EventID, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func applyCounterDelta(tx *sqlx.Tx, eventID int64, delta int) error {
	_, err := tx.Exec(`
		UPDATE events
		SET comment_count = GREATEST(comment_count + $1, 0)
		WHERE id = $2
	`, delta, eventID)
	return err
}

func (c *Comment) GetEventComments(eventID int64, status entity.CommentStatus, from, size int) ([]*entity.Comment, error) {
	comments := make([]*entity.Comment, 0)
	err := c.db.Select(&comments, selectComment+`
		WHERE c.event_id = $1 AND c.status = $2
		ORDER BY c.created_at DESC
		OFFSET $3 LIMIT $4
	`, eventID, status, from, size)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Comment) GetCommentsByStatus(status entity.CommentStatus, from, size int, ascending bool) ([]*entity.Comment, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	comments := make([]*entity.Comment, 0)
	err := c.db.Select(&comments, selectComment+`
		WHERE c.status = $1
		ORDER BY c.created_at `+order+`
		OFFSET $2 LIMIT $3
	`, status, from, size)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Comment) GetAuthorComments(authorID int64, from, size int) ([]*entity.Comment, error) {
	comments := make([]*entity.Comment, 0)
	err := c.db.Select(&comments, selectComment+`
		WHERE c.author_id = $1
		ORDER BY c.created_at DESC
		OFFSET $2 LIMIT $3
	`, authorID, from, size)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Comment) GetAuthorEventComments(eventID, authorID int64) ([]*entity.Comment, error) {
	comments := make([]*entity.Comment, 0)
	err := c.db.Select(&comments, selectComment+`
		WHERE c.event_id = $1 AND c.author_id = $2
		ORDER BY c.created_at DESC
	`, eventID, authorID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Comment) CountEventComments(eventID int64, status entity.CommentStatus) (int64, error) {
	var count int64
	err := c.db.Get(&count, `
		SELECT COUNT(*) FROM comments WHERE event_id = $1 AND status = $2
	`, eventID, status)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Comment) GetAuthorCommentStats(authorID int64) (*entity.CommentStats, error) {
	rows, err := c.db.Queryx(`
		SELECT status, COUNT(*) AS count
		FROM comments
		WHERE author_id = $1
		GROUP BY status
	`, authorID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var stats entity.CommentStats
	for rows.Next() {
		var status entity.CommentStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case entity.StatusPublished:
			stats.Published = count
		case entity.StatusPending:
			stats.Pending = count
		case entity.StatusRejected:
			stats.Rejected = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Comment) GetRecentComments(since time.Time, limit int) ([]*entity.Comment, error) {
	comments := make([]*entity.Comment, 0)
	err := c.db.Select(&comments, selectComment+`
		WHERE c.status = $1 AND c.created_at > $2
		ORDER BY c.created_at DESC
		LIMIT $3
	`, entity.StatusPublished, since, limit)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
