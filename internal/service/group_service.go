package service

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/art-studio-api/internal/models"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
)

const (
	groupListCacheKey   = "groups:list"
	groupCachePattern   = "groups:*"
	groupNotFoundReason = "group not found"
)

type groupRepository interface {
	List(ctx context.Context) ([]models.Group, error)
	FindByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, id string, patch models.GroupPatch) (*models.Group, error)
	Delete(ctx context.Context, id string) error
}

type groupCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CreateGroupRequest captures creation payload. Every field is required.
type CreateGroupRequest struct {
	Name      string `json:"name"`
	Day1      string `json:"day1"`
	Day2      string `json:"day2"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UpdateGroupRequest modifies any subset of group fields. Omitted (or null)
// fields are left unchanged; a field sent as "" is rejected.
type UpdateGroupRequest struct {
	Name      *string `json:"name"`
	Day1      *string `json:"day1"`
	Day2      *string `json:"day2"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// Patch converts the request into the repository's update structure.
func (r UpdateGroupRequest) Patch() models.GroupPatch {
	return models.GroupPatch{Name: r.Name, Day1: r.Day1, Day2: r.Day2, StartTime: r.StartTime, EndTime: r.EndTime}
}

// GroupServiceConfig sets the access policy and list cache lifetime.
type GroupServiceConfig struct {
	// AdminOnlyWrites requires the ADMIN role for create, update and delete.
	AdminOnlyWrites bool
	CacheTTL        time.Duration
}

// GroupService runs every group operation through the same steps:
// authorize the session, validate input, call the repository and map
// repository failures onto API errors.
type GroupService struct {
	repo      groupRepository
	cache     groupCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       GroupServiceConfig

	// generation is bumped by every mutation before the list cache is
	// invalidated. A list read only populates the cache if no mutation
	// started while it was reading.
	generation atomic.Uint64
}

// NewGroupService constructs GroupService. cache and metrics may be nil.
func NewGroupService(repo groupRepository, cache groupCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg GroupServiceConfig) *GroupService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// List returns all groups, newest first.
func (s *GroupService) List(ctx context.Context, session *models.Session) ([]models.Group, error) {
	if err := s.authorize(session, false); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached []models.Group
		if hit, _ := s.cache.Get(ctx, groupListCacheKey, &cached); hit {
			return cached, nil
		}
	}

	gen := s.generation.Load()
	start := time.Now()
	groups, err := s.repo.List(ctx)
	s.metrics.ObserveStoreCall("groups.list", time.Since(start), err)
	if err != nil {
		return nil, s.internal(err, "failed to list groups")
	}

	s.cacheList(ctx, gen, groups)
	return groups, nil
}

// cacheList stores groups read at generation gen. A mutation that raced the
// read either prevents the write or is followed by a second invalidation.
func (s *GroupService) cacheList(ctx context.Context, gen uint64, groups []models.Group) {
	if s.cache == nil || s.generation.Load() != gen {
		return
	}
	_ = s.cache.Set(ctx, groupListCacheKey, groups, s.cfg.CacheTTL)
	if s.generation.Load() != gen {
		_ = s.cache.Invalidate(ctx, groupCachePattern)
	}
}

// Get returns a single group.
func (s *GroupService) Get(ctx context.Context, session *models.Session, id string) (*models.Group, error) {
	if err := s.authorize(session, false); err != nil {
		return nil, err
	}

	start := time.Now()
	group, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveStoreCall("groups.get", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, s.storeError(err, "failed to load group")
	}
	return group, nil
}

// Create validates and persists a new group.
func (s *GroupService) Create(ctx context.Context, session *models.Session, req CreateGroupRequest) (*models.Group, error) {
	if err := s.authorize(session, true); err != nil {
		return nil, err
	}
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:      req.Name,
		Day1:      req.Day1,
		Day2:      req.Day2,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	start := time.Now()
	err := s.repo.Create(ctx, group)
	s.metrics.ObserveStoreCall("groups.create", time.Since(start), err)
	if err != nil {
		return nil, s.internal(err, "failed to create group")
	}

	s.afterMutation(ctx, "create", group.ID, session)
	return group, nil
}

// Update applies a partial update to an existing group.
func (s *GroupService) Update(ctx context.Context, session *models.Session, id string, req UpdateGroupRequest) (*models.Group, error) {
	if err := s.authorize(session, true); err != nil {
		return nil, err
	}
	if err := s.validateUpdate(req); err != nil {
		return nil, err
	}

	patch := req.Patch()
	start := time.Now()
	group, err := s.repo.Update(ctx, id, patch)
	s.metrics.ObserveStoreCall("groups.update", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, s.storeError(err, "failed to update group")
	}

	// an empty patch is a plain read in the repository
	if !patch.IsEmpty() {
		s.afterMutation(ctx, "update", id, session)
	}
	return group, nil
}

// Delete removes a group permanently.
func (s *GroupService) Delete(ctx context.Context, session *models.Session, id string) error {
	if err := s.authorize(session, true); err != nil {
		return err
	}

	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveStoreCall("groups.delete", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return s.storeError(err, "failed to delete group")
	}

	s.afterMutation(ctx, "delete", id, session)
	return nil
}

// Authorize applies the session policy on its own, for callers that must
// reject a request before reading its body.
func (s *GroupService) Authorize(session *models.Session, write bool) error {
	return s.authorize(session, write)
}

func (s *GroupService) authorize(session *models.Session, write bool) error {
	if session == nil {
		return appErrors.ErrUnauthorized
	}
	if write && s.cfg.AdminOnlyWrites && !session.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	return nil
}

// validateCreate checks presence, then weekdays, then times; the first
// failure wins.
func (s *GroupService) validateCreate(req CreateGroupRequest) error {
	required := []struct{ field, value string }{
		{"name", req.Name},
		{"day1", req.Day1},
		{"day2", req.Day2},
		{"startTime", req.StartTime},
		{"endTime", req.EndTime},
	}
	for _, f := range required {
		if err := checkField(s.validator, f.field, f.value, "required"); err != nil {
			return err
		}
	}
	return s.validateSchedule(&req.Day1, &req.Day2, &req.StartTime, &req.EndTime)
}

func (s *GroupService) validateUpdate(req UpdateGroupRequest) error {
	present := []struct {
		field string
		value *string
	}{
		{"name", req.Name},
		{"day1", req.Day1},
		{"day2", req.Day2},
		{"startTime", req.StartTime},
		{"endTime", req.EndTime},
	}
	for _, f := range present {
		if f.value == nil {
			continue
		}
		if *f.value == "" {
			return appErrors.Invalid(f.field, f.field+" cannot be empty")
		}
	}
	return s.validateSchedule(req.Day1, req.Day2, req.StartTime, req.EndTime)
}

func (s *GroupService) validateSchedule(day1, day2, startTime, endTime *string) error {
	checks := []struct {
		field string
		value *string
		tag   string
	}{
		{"day1", day1, weekdayTag},
		{"day2", day2, weekdayTag},
		{"startTime", startTime, timeTag},
		{"endTime", endTime, timeTag},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := checkField(s.validator, c.field, *c.value, c.tag); err != nil {
			return err
		}
	}
	return nil
}

func (s *GroupService) afterMutation(ctx context.Context, operation, id string, session *models.Session) {
	s.generation.Add(1)
	s.metrics.RecordGroupMutation(operation)
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, groupCachePattern)
	}
	s.logger.Info("group mutated",
		zap.String("operation", operation),
		zap.String("group_id", id),
		zap.String("user_id", session.UserID),
	)
}

// storeError maps a repository failure: a missing row is a normal not-found,
// anything else is logged and hidden behind an internal error.
func (s *GroupService) storeError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, groupNotFoundReason)
	}
	return s.internal(err, message)
}

func (s *GroupService) internal(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
