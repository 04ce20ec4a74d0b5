package folders

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"educreate/internal/config"
	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/services"
)

var (
	folderNamePattern = regexp.MustCompile(`^[^/]+$`)
	colorPattern      = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	}
}

func (s *Service) typeRule() validation.Rule {
	return validation.In(s.types.IDs()...).Error("unknown folder type")
}

// validateCreateRequest validates a folder creation request
func (s *Service) validateCreateRequest(req *services.CreateFolderRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules()...),
		validation.Field(&req.Type, validation.Required, s.typeRule()),
		validation.Field(&req.Color, validation.Match(colorPattern).Error("color must be a #RRGGBB hex value")),
		validation.Field(&req.Icon, validation.Length(0, config.MaxIconLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxFolderDescriptionLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateUpdateRequest validates a folder update request
func (s *Service) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.Color == nil && req.Icon == nil && !req.DescriptionSet {
		return fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	var rules []*validation.FieldRules
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		rules = append(rules, validation.Field(&req.Name, nameRules()...))
	}
	if req.Color != nil {
		rules = append(rules, validation.Field(&req.Color, validation.Required, validation.Match(colorPattern).Error("color must be a #RRGGBB hex value")))
	}
	if req.Icon != nil {
		rules = append(rules, validation.Field(&req.Icon, validation.Required, validation.Length(1, config.MaxIconLength)))
	}
	if req.DescriptionSet {
		rules = append(rules, validation.Field(&req.Description, validation.Length(0, config.MaxFolderDescriptionLength)))
	}

	if err := validation.ValidateStruct(req, rules...); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateType checks a folder type taken from a query parameter
func (s *Service) validateType(folderType models.FolderType) error {
	if err := validation.Validate(folderType, validation.Required, s.typeRule()); err != nil {
		return fmt.Errorf("%w: type: %v", domain.ErrValidation, err)
	}
	return nil
}
