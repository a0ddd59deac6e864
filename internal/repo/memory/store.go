// Package memory реализует контракты repo поверх карт в памяти.
// Используется модульными тестами и cmd/mock: изменение комментария и
// счётчика события выполняется под одной блокировкой, как единая транзакция.
package memory

import (
	"sort"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"sync"
	"time"
)

type Store struct {
	mu sync.RWMutex

	hits     []*entity.EndpointHit
	users    map[int64]*entity.User
	events   map[int64]*entity.Event
	comments map[int64]*entity.Comment

	nextHitID     int64
	nextCommentID int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*entity.User),
		events:   make(map[int64]*entity.Event),
		comments: make(map[int64]*entity.Comment),
	}
}

// AddUser и AddEvent заполняют справочники; события и пользователи
// принадлежат основному сервису, поэтому тут только посев данных.
func (s *Store) AddUser(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[u.ID] = &u
}

func (s *Store) AddEvent(event *entity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *event
	s.events[e.ID] = &e
}

func (s *Store) GetUser(userID int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		u := *user
		return &u, nil
	}
	return nil, repo.ErrUserNotFound
}

func (s *Store) GetEvent(eventID int64) (*entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if event, ok := s.events[eventID]; ok {
		e := *event
		return &e, nil
	}
	return nil, repo.ErrEventNotFound
}

func (s *Store) AddHit(hit *entity.EndpointHit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHitID++
	h := *hit
	h.ID = s.nextHitID
	s.hits = append(s.hits, &h)
	return h.ID, nil
}

func (s *Store) GetStats(start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filter map[string]struct{}
	if uris != nil {
		filter = make(map[string]struct{}, len(uris))
		for _, uri := range uris {
			filter[uri] = struct{}{}
		}
	}

	type key struct{ app, uri string }
	counts := make(map[key]int64)
	seen := make(map[key]map[string]struct{})
	for _, hit := range s.hits {
		if hit.Timestamp.Before(start) || hit.Timestamp.After(end) {
			continue
		}
		if filter != nil {
			if _, ok := filter[hit.URI]; !ok {
				continue
			}
		}
		k := key{app: hit.App, uri: hit.URI}
		if unique {
			if seen[k] == nil {
				seen[k] = make(map[string]struct{})
			}
			seen[k][hit.IP] = struct{}{}
			counts[k] = int64(len(seen[k]))
		} else {
			counts[k]++
		}
	}

	stats := make([]*entity.ViewStats, 0, len(counts))
	for k, hits := range counts {
		stats = append(stats, &entity.ViewStats{App: k.app, URI: k.uri, Hits: hits})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Hits != stats[j].Hits {
			return stats[i].Hits > stats[j].Hits
		}
		if stats[i].App != stats[j].App {
			return stats[i].App < stats[j].App
		}
		return stats[i].URI < stats[j].URI
	})
	return stats, nil
}
