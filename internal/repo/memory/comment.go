package memory

import (
	"sort"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"time"
)

func (s *Store) AddComment(comment *entity.Comment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Аналог уникального индекса (event_id, author_id).
	for _, c := range s.comments {
		if c.EventID == comment.EventID && c.AuthorID == comment.AuthorID {
			return 0, repo.ErrCommentExists
		}
	}

	s.nextCommentID++
	c := *comment
	c.ID = s.nextCommentID
	if user, ok := s.users[c.AuthorID]; ok {
		c.AuthorName = user.Name
	}
	s.comments[c.ID] = &c
	return c.ID, nil
}

func (s *Store) GetComment(commentID int64) (*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[commentID]
	if !ok {
		return nil, repo.ErrCommentNotFound
	}
	c := *comment
	return &c, nil
}

func (s *Store) GetEventComment(commentID, eventID int64) (*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[commentID]
	if !ok || comment.EventID != eventID {
		return nil, repo.ErrCommentNotFound
	}
	c := *comment
	return &c, nil
}

func (s *Store) HasComment(eventID, authorID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.comments {
		if c.EventID == eventID && c.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateComment(commentID int64, change repo.CommentChangeFn) (*entity.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.comments[commentID]
	if !ok {
		return nil, repo.ErrCommentNotFound
	}

	// change правит копию: при ошибке исходный комментарий не меняется.
	c := *stored
	delta, err := change(&c)
	if err != nil {
		return nil, err
	}

	s.comments[commentID] = &c
	if delta != 0 {
		s.applyCounterDelta(c.EventID, delta)
	}
	result := c
	return &result, nil
}

func (s *Store) DeleteComment(commentID int64, delta repo.CounterDeltaFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.comments[commentID]
	if !ok {
		return repo.ErrCommentNotFound
	}
	delete(s.comments, commentID)
	if d := delta(stored.Status); d != 0 {
		s.applyCounterDelta(stored.EventID, d)
	}
	return nil
}

func (s *Store) applyCounterDelta(eventID int64, delta int) {
	event, ok := s.events[eventID]
	if !ok {
		return
	}
	event.CommentCount += int64(delta)
	if event.CommentCount < 0 {
		event.CommentCount = 0
	}
}

func (s *Store) GetEventComments(eventID int64, status entity.CommentStatus, from, size int) ([]*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.filter(func(c *entity.Comment) bool {
		return c.EventID == eventID && c.Status == status
	}, false)
	return paginate(matched, from, size), nil
}

func (s *Store) GetCommentsByStatus(status entity.CommentStatus, from, size int, ascending bool) ([]*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.filter(func(c *entity.Comment) bool {
		return c.Status == status
	}, ascending)
	return paginate(matched, from, size), nil
}

func (s *Store) GetAuthorComments(authorID int64, from, size int) ([]*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.filter(func(c *entity.Comment) bool {
		return c.AuthorID == authorID
	}, false)
	return paginate(matched, from, size), nil
}

func (s *Store) GetAuthorEventComments(eventID, authorID int64) ([]*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(c *entity.Comment) bool {
		return c.EventID == eventID && c.AuthorID == authorID
	}, false), nil
}

func (s *Store) CountEventComments(eventID int64, status entity.CommentStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, c := range s.comments {
		if c.EventID == eventID && c.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetAuthorCommentStats(authorID int64) (*entity.CommentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats entity.CommentStats
	for _, c := range s.comments {
		if c.AuthorID != authorID {
			continue
		}
		stats.Total++
		switch c.Status {
		case entity.StatusPublished:
			stats.Published++
		case entity.StatusPending:
			stats.Pending++
		case entity.StatusRejected:
			stats.Rejected++
		}
	}
	return &stats, nil
}

func (s *Store) GetRecentComments(since time.Time, limit int) ([]*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.filter(func(c *entity.Comment) bool {
		return c.Status == entity.StatusPublished && c.Created.After(since)
	}, false)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// filter возвращает копии подходящих комментариев, упорядоченные по дате
// создания (по умолчанию новые первыми), при равенстве — по ID.
func (s *Store) filter(match func(*entity.Comment) bool, ascending bool) []*entity.Comment {
	result := make([]*entity.Comment, 0)
	for _, c := range s.comments {
		if match(c) {
			copied := *c
			if user, ok := s.users[copied.AuthorID]; ok {
				copied.AuthorName = user.Name
			}
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Created.Equal(result[j].Created) {
			if ascending {
				return result[i].Created.Before(result[j].Created)
			}
			return result[i].Created.After(result[j].Created)
		}
		if ascending {
			return result[i].ID < result[j].ID
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func paginate(comments []*entity.Comment, from, size int) []*entity.Comment {
	if from >= len(comments) {
		return []*entity.Comment{}
	}
	end := from + size
	if end > len(comments) {
		end = len(comments)
	}
	return comments[from:end]
}
