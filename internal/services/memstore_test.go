package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/blob"
	"dating-backend/internal/models"
	"dating-backend/internal/repository"
)

// memDB holds all fake data. The typed wrappers below satisfy the
// store interfaces over it, the way the real repositories share one
// pgx pool. Semantics mirror the repositories: ErrNotFound on misses,
// ErrAlreadyLiked on duplicate edges, first-read-wins on MarkRead,
// purge once both deletion flags are set.
type memDB struct {
	users    map[int64]models.User
	likes    map[[2]int64]bool
	messages map[int64]models.Message
	photos   map[int64]models.Photo
	nextID   int64

	released   []string
	releaseErr error
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[int64]models.User),
		likes:    make(map[[2]int64]bool),
		messages: make(map[int64]models.Message),
		photos:   make(map[int64]models.Photo),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) userStore() *memUserStore       { return &memUserStore{db} }
func (db *memDB) likeStore() *memLikeStore       { return &memLikeStore{db} }
func (db *memDB) messageStore() *memMessageStore { return &memMessageStore{db} }
func (db *memDB) photoStore() *memPhotoStore     { return &memPhotoStore{db} }
func (db *memDB) blobStore() *memBlobStore       { return &memBlobStore{db} }

// --- UserStore ---

type memUserStore struct{ db *memDB }

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
	user.ID = s.db.id()
	s.db.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return &u, nil
}

func (s *memUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
}

func (s *memUserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	return err == nil, nil
}

func (s *memUserStore) Update(ctx context.Context, user *models.User) error {
	if _, ok := s.db.users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, apperr.ErrNotFound)
	}
	s.db.users[user.ID] = *user
	return nil
}

func (s *memUserStore) TouchLastActive(ctx context.Context, id int64, at time.Time) error {
	u, ok := s.db.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	u.LastActive = at
	s.db.users[id] = u
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.db.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	delete(s.db.users, id)
	for pid, p := range s.db.photos {
		if p.UserID == id {
			delete(s.db.photos, pid)
		}
	}
	for edge := range s.db.likes {
		if edge[0] == id || edge[1] == id {
			delete(s.db.likes, edge)
		}
	}
	for mid, m := range s.db.messages {
		if m.SenderID == id || m.RecipientID == id {
			delete(s.db.messages, mid)
		}
	}
	return nil
}

func (s *memUserStore) List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error) {
	restrict := map[int64]bool{}
	for _, id := range f.IDs {
		restrict[id] = true
	}

	var matched []models.User
	for _, u := range s.db.users {
		if u.ID == f.ExcludeID || u.Gender != f.Gender {
			continue
		}
		if f.RestrictIDs && !restrict[u.ID] {
			continue
		}
		if !f.MinDOB.IsZero() || !f.MaxDOB.IsZero() {
			if u.DateOfBirth.Before(f.MinDOB) || u.DateOfBirth.After(f.MaxDOB) {
				continue
			}
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if f.OrderBy == "created" {
			return matched[i].Created.After(matched[j].Created)
		}
		return matched[i].LastActive.After(matched[j].LastActive)
	})

	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

// --- LikeStore ---

type memLikeStore struct{ db *memDB }

func (s *memLikeStore) Get(ctx context.Context, likerID, likeeID int64) (*models.Like, error) {
	if !s.db.likes[[2]int64{likerID, likeeID}] {
		return nil, fmt.Errorf("like %d->%d: %w", likerID, likeeID, apperr.ErrNotFound)
	}
	return &models.Like{LikerID: likerID, LikeeID: likeeID}, nil
}

func (s *memLikeStore) Create(ctx context.Context, like *models.Like) error {
	edge := [2]int64{like.LikerID, like.LikeeID}
	if s.db.likes[edge] {
		return fmt.Errorf("like %d->%d: %w", like.LikerID, like.LikeeID, apperr.ErrAlreadyLiked)
	}
	s.db.likes[edge] = true
	return nil
}

func (s *memLikeStore) LikerIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for edge := range s.db.likes {
		if edge[1] == userID {
			ids = append(ids, edge[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memLikeStore) LikeeIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for edge := range s.db.likes {
		if edge[0] == userID {
			ids = append(ids, edge[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- MessageStore ---

type memMessageStore struct{ db *memDB }

func (s *memMessageStore) Create(ctx context.Context, msg *models.Message) error {
	msg.ID = s.db.id()
	s.db.messages[msg.ID] = *msg
	return nil
}

func (s *memMessageStore) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	msg, ok := s.db.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	return &msg, nil
}

func (s *memMessageStore) Thread(ctx context.Context, userID, otherID int64) ([]models.Message, error) {
	msgs := []models.Message{}
	for _, msg := range s.db.messages {
		received := msg.RecipientID == userID && msg.SenderID == otherID && !msg.RecipientDeleted
		sent := msg.RecipientID == otherID && msg.SenderID == userID && !msg.SenderDeleted
		if received || sent {
			msgs = append(msgs, msg)
		}
	}
	sortMessages(msgs)
	return msgs, nil
}

func (s *memMessageStore) ListForUser(ctx context.Context, f repository.MessageFilter) ([]models.Message, int, error) {
	var msgs []models.Message
	for _, msg := range s.db.messages {
		var ok bool
		switch f.Container {
		case repository.ContainerInbox:
			ok = msg.RecipientID == f.UserID && !msg.RecipientDeleted
		case repository.ContainerOutbox:
			ok = msg.SenderID == f.UserID && !msg.SenderDeleted
		default:
			ok = msg.RecipientID == f.UserID && !msg.RecipientDeleted && !msg.IsRead
		}
		if ok {
			msgs = append(msgs, msg)
		}
	}
	sortMessages(msgs)

	total := len(msgs)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return msgs[f.Offset:end], total, nil
}

func (s *memMessageStore) MarkRead(ctx context.Context, id int64, readAt time.Time) error {
	msg, ok := s.db.messages[id]
	if !ok {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	if msg.IsRead {
		return nil
	}
	msg.IsRead = true
	msg.DateRead = &readAt
	s.db.messages[id] = msg
	return nil
}

func (s *memMessageStore) ApplyDeletion(ctx context.Context, id int64, bySender, byRecipient bool) error {
	msg, ok := s.db.messages[id]
	if !ok {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	msg.SenderDeleted = msg.SenderDeleted || bySender
	msg.RecipientDeleted = msg.RecipientDeleted || byRecipient
	if msg.SenderDeleted && msg.RecipientDeleted {
		delete(s.db.messages, id)
		return nil
	}
	s.db.messages[id] = msg
	return nil
}

func sortMessages(msgs []models.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].MessageSent.Equal(msgs[j].MessageSent) {
			return msgs[i].MessageSent.After(msgs[j].MessageSent)
		}
		return msgs[i].ID > msgs[j].ID
	})
}

// --- PhotoStore ---

type memPhotoStore struct{ db *memDB }

func (s *memPhotoStore) Create(ctx context.Context, photo *models.Photo) error {
	photo.ID = s.db.id()
	s.db.photos[photo.ID] = *photo
	return nil
}

func (s *memPhotoStore) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	p, ok := s.db.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	return &p, nil
}

func (s *memPhotoStore) MainForUser(ctx context.Context, userID int64) (*models.Photo, error) {
	for _, p := range s.db.photos {
		if p.UserID == userID && p.IsMain {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("main photo for user %d: %w", userID, apperr.ErrNotFound)
}

func (s *memPhotoStore) ListForUser(ctx context.Context, userID int64) ([]models.Photo, error) {
	photos := []models.Photo{}
	for _, p := range s.db.photos {
		if p.UserID == userID {
			photos = append(photos, p)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].IsMain != photos[j].IsMain {
			return photos[i].IsMain
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

func (s *memPhotoStore) MainURLs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	wanted := map[int64]bool{}
	for _, id := range userIDs {
		wanted[id] = true
	}
	urls := map[int64]string{}
	for _, p := range s.db.photos {
		if p.IsMain && wanted[p.UserID] {
			urls[p.UserID] = p.URL
		}
	}
	return urls, nil
}

func (s *memPhotoStore) SetMain(ctx context.Context, userID, photoID int64) error {
	target, ok := s.db.photos[photoID]
	if !ok || target.UserID != userID {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}
	for id, p := range s.db.photos {
		if p.UserID == userID && p.IsMain {
			p.IsMain = false
			s.db.photos[id] = p
		}
	}
	target.IsMain = true
	s.db.photos[photoID] = target
	return nil
}

func (s *memPhotoStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.db.photos[id]; !ok {
		return fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	delete(s.db.photos, id)
	return nil
}

// --- BlobStore ---

type memBlobStore struct{ db *memDB }

func (s *memBlobStore) PresignUpload(ctx context.Context, userID int64, contentType string) (*blob.Upload, error) {
	return &blob.Upload{
		UploadURL: fmt.Sprintf("https://upload.test/%d", userID),
		URL:       fmt.Sprintf("https://photos.test/%d/next.jpg", userID),
		PublicID:  fmt.Sprintf("%d/next.jpg", userID),
		ExpiresIn: 300,
	}, nil
}

func (s *memBlobStore) Release(ctx context.Context, publicID string) error {
	if s.db.releaseErr != nil {
		return s.db.releaseErr
	}
	s.db.released = append(s.db.released, publicID)
	return nil
}
