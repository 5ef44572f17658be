package services

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"
)

const (
	defaultMinAge = 18
	defaultMaxAge = 99
)

// ListUsersParams are the caller-supplied member search parameters.
// Zero values mean "use the default": gender defaults to the opposite
// of the caller's own, the age range to 18..99.
//
// Likers and Likees are effectively mutually exclusive; when both are
// set, Likers wins. That precedence is long-standing observable
// behavior, so it is kept rather than rejected.
type ListUsersParams struct {
	Gender  string
	MinAge  int
	MaxAge  int
	Likers  bool
	Likees  bool
	OrderBy string
	Page    pagination.Params
}

// UserSummary is the list projection of a user: profile basics plus
// the computed age and main photo url.
type UserSummary struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	KnownAs    string    `json:"known_as"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Created    time.Time `json:"created"`
	LastActive time.Time `json:"last_active"`
	PhotoURL   string    `json:"photo_url,omitempty"`
}

// UserDetail is the single-user projection, including all photos.
type UserDetail struct {
	UserSummary
	Introduction string         `json:"introduction"`
	Photos       []models.Photo `json:"photos"`
}

// UpdateUserParams is the profile patch a user may apply to themselves.
type UpdateUserParams struct {
	KnownAs      string `json:"known_as"`
	Introduction string `json:"introduction"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// UserService handles member search and profile maintenance.
type UserService struct {
	users  UserStore
	likes  LikeStore
	photos PhotoStore
	now    func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users UserStore, likes LikeStore, photos PhotoStore) *UserService {
	return &UserService{users: users, likes: likes, photos: photos, now: time.Now}
}

// List runs the member search for the calling user and returns one
// page of matches. The caller is always excluded from their own
// results.
func (s *UserService) List(ctx context.Context, callerID int64, p ListUsersParams) (pagination.Page[UserSummary], error) {
	var empty pagination.Page[UserSummary]

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return empty, fmt.Errorf("failed to load caller: %w", err)
	}

	gender := p.Gender
	if gender == "" {
		gender = models.GenderFemale
		if caller.Gender == models.GenderFemale {
			gender = models.GenderMale
		}
	}

	minAge, maxAge := p.MinAge, p.MaxAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}

	filter := repository.UserFilter{
		ExcludeID: callerID,
		Gender:    gender,
		OrderBy:   p.OrderBy,
	}

	// Likers takes precedence when both flags are set.
	if p.Likers {
		ids, err := s.likes.LikerIDs(ctx, callerID)
		if err != nil {
			return empty, fmt.Errorf("failed to load likers: %w", err)
		}
		filter.RestrictIDs = true
		filter.IDs = ids
	} else if p.Likees {
		ids, err := s.likes.LikeeIDs(ctx, callerID)
		if err != nil {
			return empty, fmt.Errorf("failed to load likees: %w", err)
		}
		filter.RestrictIDs = true
		filter.IDs = ids
	}

	// The DOB window is only attached when the caller narrowed the
	// range; with the 18..99 defaults the window covers everyone, so
	// skipping it changes nothing but saves the predicate.
	if minAge != defaultMinAge || maxAge != defaultMaxAge {
		today := s.today()
		filter.MinDOB = today.AddDate(-maxAge-1, 0, 0)
		filter.MaxDOB = today.AddDate(-minAge, 0, 0)
	}

	page := p.Page.Normalize()
	filter.Limit = page.PageSize
	filter.Offset = page.Offset()

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return empty, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	urls, err := s.photos.MainURLs(ctx, ids)
	if err != nil {
		return empty, fmt.Errorf("failed to load photo urls: %w", err)
	}

	now := s.now()
	summaries := make([]UserSummary, len(users))
	for i, u := range users {
		summaries[i] = s.summarize(u, urls[u.ID], now)
	}

	return pagination.New(summaries, total, page), nil
}

// Get returns the detailed view of one user.
func (s *UserService) Get(ctx context.Context, id int64) (*UserDetail, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := s.photos.ListForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load photos: %w", err)
	}

	var photoURL string
	for _, p := range photos {
		if p.IsMain {
			photoURL = p.URL
			break
		}
	}

	return &UserDetail{
		UserSummary:  s.summarize(*user, photoURL, s.now()),
		Introduction: user.Introduction,
		Photos:       photos,
	}, nil
}

// Update applies a profile patch. Users can only update themselves.
func (s *UserService) Update(ctx context.Context, callerID, id int64, p UpdateUserParams) error {
	if callerID != id {
		return fmt.Errorf("user %d updating user %d: %w", callerID, id, apperr.ErrForbidden)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.KnownAs = p.KnownAs
	user.Introduction = p.Introduction
	user.City = p.City
	user.Country = p.Country
	return s.users.Update(ctx, user)
}

// Delete removes a user and, explicitly, everything they own.
func (s *UserService) Delete(ctx context.Context, callerID, id int64) error {
	if callerID != id {
		return fmt.Errorf("user %d deleting user %d: %w", callerID, id, apperr.ErrForbidden)
	}
	return s.users.Delete(ctx, id)
}

// TouchLastActive records caller activity. Failures are the caller's
// to log; activity tracking never fails a request.
func (s *UserService) TouchLastActive(ctx context.Context, id int64) error {
	return s.users.TouchLastActive(ctx, id, s.now())
}

func (s *UserService) summarize(u models.User, photoURL string, now time.Time) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		KnownAs:    u.KnownAs,
		Age:        u.Age(now),
		Gender:     u.Gender,
		City:       u.City,
		Country:    u.Country,
		Created:    u.Created,
		LastActive: u.LastActive,
		PhotoURL:   photoURL,
	}
}

// today truncates now to midnight, matching how the DOB window is
// defined in whole days.
func (s *UserService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
