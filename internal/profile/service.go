package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
	profilerepo "github.com/ovaphlow/pitchfork/service-youapp/internal/profile/repo"
)

// Input is the full profile submitted on create.
type Input struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Birthday     string   `json:"birthday" validate:"required"`
	Gender       string   `json:"gender" validate:"required,oneof=male female"`
	Height       float64  `json:"height" validate:"gt=0,lte=300"`
	Weight       float64  `json:"weight" validate:"gt=0,lte=500"`
	Interests    []string `json:"interests" validate:"max=30,dive,required,max=50"`
	ProfileImage string   `json:"profileImage" validate:"max=2048"`
	HeightUnit   string   `json:"heightUnit" validate:"omitempty,oneof=cm ft"`
	HeightFeet   int      `json:"heightFeet" validate:"gte=0,lte=9"`
	HeightInches int      `json:"heightInches" validate:"gte=0,lte=11"`
}

// Patch carries the fields to change on update; nil means unchanged.
type Patch struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Birthday     *string   `json:"birthday" validate:"omitempty"`
	Gender       *string   `json:"gender" validate:"omitempty,oneof=male female"`
	Height       *float64  `json:"height" validate:"omitempty,gt=0,lte=300"`
	Weight       *float64  `json:"weight" validate:"omitempty,gt=0,lte=500"`
	Interests    *[]string `json:"interests" validate:"omitempty,max=30,dive,required,max=50"`
	ProfileImage *string   `json:"profileImage" validate:"omitempty,max=2048"`
	HeightUnit   *string   `json:"heightUnit" validate:"omitempty,oneof=cm ft"`
	HeightFeet   *int      `json:"heightFeet" validate:"omitempty,gte=0,lte=9"`
	HeightInches *int      `json:"heightInches" validate:"omitempty,gte=0,lte=11"`
}

type Service struct {
	store   profilerepo.Store
	cache   Cache
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewService(store profilerepo.Store, cache Cache, m *metrics.Metrics, logger *zap.SugaredLogger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, cache: cache, metrics: m, logger: logger, now: time.Now}
}

func invalidBirthday(err error) error {
	return apperr.Validation("invalid_input", "Validation failed",
		map[string]string{"birthday": "must be a date in YYYY-MM-DD format"}).Wrap(err)
}

// Create stores the first profile of userID and derives its zodiac sign.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*entity.Profile, error) {
	sign, horo, err := DeriveZodiac(in.Birthday)
	if err != nil {
		return nil, invalidBirthday(err)
	}
	unit := in.HeightUnit
	if unit == "" {
		unit = "cm"
	}
	now := s.now().UTC()
	p := &entity.Profile{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         in.Name,
		Birthday:     in.Birthday,
		Gender:       in.Gender,
		Height:       in.Height,
		Weight:       in.Weight,
		Interests:    entity.Interests(slices.Clone(in.Interests)),
		ProfileImage: in.ProfileImage,
		HeightUnit:   unit,
		HeightFeet:   in.HeightFeet,
		HeightInches: in.HeightInches,
		Zodiac:       sign,
		Horoscope:    horo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Interests == nil {
		p.Interests = entity.Interests{}
	}
	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.remember(ctx, p)
	return p, nil
}

// Get returns the profile of userID, from cache when possible.
func (s *Service) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	if p, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.logger.Warnw("profile cache read failed", "user_id", userID, "err", err)
	} else if ok {
		s.metrics.CacheLookup(true)
		return p, nil
	}
	s.metrics.CacheLookup(false)

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, p)
	return p, nil
}

// Update applies patch to the profile of userID. A new birthday re-derives the sign.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*entity.Profile, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := apply(p, patch); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()

	s.forget(ctx, userID)
	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.remember(ctx, p)
	return p, nil
}

func apply(p *entity.Profile, patch Patch) error {
	if patch.Birthday != nil {
		sign, horo, err := DeriveZodiac(*patch.Birthday)
		if err != nil {
			return invalidBirthday(err)
		}
		p.Birthday, p.Zodiac, p.Horoscope = *patch.Birthday, sign, horo
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.Interests != nil {
		p.Interests = entity.Interests(slices.Clone(*patch.Interests))
		if p.Interests == nil {
			p.Interests = entity.Interests{}
		}
	}
	if patch.ProfileImage != nil {
		p.ProfileImage = *patch.ProfileImage
	}
	if patch.HeightUnit != nil {
		p.HeightUnit = *patch.HeightUnit
	}
	if patch.HeightFeet != nil {
		p.HeightFeet = *patch.HeightFeet
	}
	if patch.HeightInches != nil {
		p.HeightInches = *patch.HeightInches
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

func notFound() error {
	return apperr.NotFound("profile_not_found", "Profile not found")
}

func (s *Service) remember(ctx context.Context, p *entity.Profile) {
	if err := s.cache.Set(ctx, p); err != nil {
		s.logger.Warnw("profile cache write failed", "user_id", p.UserID, "err", err)
	}
}

func (s *Service) forget(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warnw("profile cache delete failed", "user_id", userID, "err", err)
	}
}
