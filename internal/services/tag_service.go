package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/models/dtos/requests"
	models "devcircle/rollcall/internal/models/gorm"
)

// TagService owns tag definitions and the assignment coordinator. The
// at-most-one-primary rule is enforced here, not by the store.
type TagService struct {
	tags     *repositories.TagRepository
	userTags *repositories.UserTagRepository
}

func NewTagService(tags *repositories.TagRepository, userTags *repositories.UserTagRepository) *TagService {
	return &TagService{
		tags:     tags,
		userTags: userTags,
	}
}

// CreateTag inserts a new tag definition.
func (s *TagService) CreateTag(ctx context.Context, req *requests.CreateTagReq) (*models.Tag, error) {
	if req.Name == "" || req.DisplayName == "" {
		return nil, fmt.Errorf("%w: name and display_name are required", constants.ErrValidation)
	}

	tag := &models.Tag{
		ID:           uuid.NewString(),
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		Category:     req.Category,
		Color:        req.Color,
		Icon:         req.Icon,
		IsActive:     true,
		IsAssignable: true,
	}
	if req.IsAssignable != nil {
		tag.IsAssignable = *req.IsAssignable
	}
	if req.IsEarnable != nil {
		tag.IsEarnable = *req.IsEarnable
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag edits a tag definition.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, req *requests.CreateTagReq) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		tag.DisplayName = req.DisplayName
	}
	if req.Category != "" {
		tag.Category = req.Category
	}
	if req.Color != "" {
		tag.Color = req.Color
	}
	if req.Icon != "" {
		tag.Icon = req.Icon
	}
	if req.IsAssignable != nil {
		tag.IsAssignable = *req.IsAssignable
	}
	if req.IsEarnable != nil {
		tag.IsEarnable = *req.IsEarnable
	}

	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeactivateTag soft-deletes a tag definition.
func (s *TagService) DeactivateTag(ctx context.Context, tagID string) error {
	return s.tags.Deactivate(ctx, tagID)
}

// ListTags returns tag definitions.
func (s *TagService) ListTags(ctx context.Context, activeOnly bool) ([]models.Tag, error) {
	return s.tags.List(ctx, activeOnly)
}

// AssignTag attaches a tag to a user. A nil assignedBy means self-earned,
// which requires an earnable tag; assigned tags require an assignable one.
// Prior history for the pair is reactivated instead of duplicated.
func (s *TagService) AssignTag(ctx context.Context, userID string, assignedBy *string, req *requests.AssignTagReq) (*models.UserTag, error) {
	tag, err := s.tags.GetByName(ctx, req.TagName)
	if err != nil {
		return nil, err
	}
	if !tag.IsActive {
		return nil, fmt.Errorf("%w: tag %s is inactive", constants.ErrTagNotFound, req.TagName)
	}
	if assignedBy == nil && !tag.IsEarnable {
		return nil, fmt.Errorf("%w: tag %s cannot be self-earned", constants.ErrValidation, req.TagName)
	}
	if assignedBy != nil && !tag.IsAssignable {
		return nil, fmt.Errorf("%w: tag %s is not assignable", constants.ErrValidation, req.TagName)
	}

	if req.IsPrimary {
		if err := s.userTags.ClearPrimary(ctx, userID); err != nil {
			return nil, err
		}
	}

	existing, err := s.userTags.GetPair(ctx, userID, tag.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.IsActive = true
		existing.IsPrimary = req.IsPrimary
		existing.AssignedBy = assignedBy
		existing.RevokedAt = nil
		if req.Notes != "" {
			existing.Notes = req.Notes
		}
		if err := s.userTags.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	assignment := &models.UserTag{
		ID:         uuid.NewString(),
		UserID:     userID,
		TagID:      tag.ID,
		AssignedBy: assignedBy,
		IsActive:   true,
		IsPrimary:  req.IsPrimary,
		Notes:      req.Notes,
	}
	if err := s.userTags.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// RevokeTag deactivates the user's assignment of the named tag. Revoking an
// unassigned tag is a no-op.
func (s *TagService) RevokeTag(ctx context.Context, userID, tagName string) error {
	tag, err := s.tags.GetByName(ctx, tagName)
	if err != nil {
		return err
	}

	assignment, err := s.userTags.GetPair(ctx, userID, tag.ID)
	if err != nil {
		return err
	}
	if assignment == nil || !assignment.IsActive {
		return nil
	}

	now := time.Now().UTC()
	assignment.IsActive = false
	assignment.IsPrimary = false
	assignment.RevokedAt = &now
	return s.userTags.Update(ctx, assignment)
}

// UserTags returns a user's active assignments with definitions preloaded.
func (s *TagService) UserTags(ctx context.Context, userID string) ([]models.UserTag, error) {
	return s.userTags.GetActiveByUser(ctx, userID)
}
