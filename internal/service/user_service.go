package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/observability"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// UserService orchestrates the user/role aggregate: the primary user
// document plus its role satellite. Multi-step writes (create, delete,
// detail patch) are not transactional; a failure after the first write is
// surfaced with the step that failed and left for operational cleanup.
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	GetDetail(ctx context.Context, id string) (models.UserDetail, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	ListByRole(ctx context.Context, role string) ([]dto.UserResponse, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]models.UserDetail, error)
	Patch(ctx context.Context, id string, req dto.PatchUserRequest) (dto.UserResponse, error)
	PatchDetail(ctx context.Context, id string, req dto.PatchUserDetailRequest) (dto.PatchDetailResponse, error)
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
}

type userService struct {
	repo       repository.UserRepository
	roleInfo   repository.RoleInfoRepository
	validator  *validator.Validate
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, roleInfo repository.RoleInfoRepository, validate *validator.Validate, bcryptCost int, logger zerolog.Logger) UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:       repo,
		roleInfo:   roleInfo,
		validator:  validate,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "user_service").Logger(),
		now:        time.Now,
	}
}

func (s *userService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", apperr.Internal("hash password", err)
	}
	return string(hash), nil
}

// Create validates the payload, enforces username/email uniqueness and
// inserts the primary document followed by the minimal role satellite.
// The uniqueness checks are check-then-insert: two concurrent creates can
// race through the window between check and insert.
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return dto.UserResponse{}, apperr.BadRequest("invalid role %q", req.Role).
			WithUserMessage("The specified user role is invalid.")
	}

	taken, err := s.repo.UsernameTaken(ctx, req.Username, primitive.NilObjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, apperr.BadRequest("username %q already exists", req.Username).
			WithUserMessage("The username is already taken. Please choose another.")
	}

	if req.Email != "" {
		taken, err := s.repo.EmailTaken(ctx, req.Email, primitive.NilObjectID)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, apperr.BadRequest("email %q already exists", req.Email).
				WithUserMessage("The email is already registered. Please choose another.")
		}
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Role:      role,
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		CreatedAt: s.now().UTC(),
	}

	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		return dto.UserResponse{}, err
	}
	user.ID = id

	s.logger.Info().Str("user_id", id.Hex()).Str("role", string(role)).Msg("creating role info for new user")
	if err := s.roleInfo.CreateMinimal(ctx, id, role); err != nil {
		// no compensating rollback: the primary document stays behind
		s.logger.Error().Err(err).Str("user_id", id.Hex()).Msg("role info creation failed after user insert")
		return dto.UserResponse{}, apperr.Internal("create role info after user insert", err).
			WithDetail("user_id", id.Hex()).
			WithDetail("step", "satellite_insert")
	}

	observability.UsersCreated().WithLabelValues(string(role)).Inc()
	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id string) (dto.UserResponse, error) {
	userID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) GetDetail(ctx context.Context, id string) (models.UserDetail, error) {
	userID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.UserDetail{}, err
	}
	return s.repo.FindDetail(ctx, userID)
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *userService) ListByRole(ctx context.Context, role string) ([]dto.UserResponse, error) {
	r := models.Role(role)
	if !r.Valid() {
		return nil, apperr.BadRequest("invalid role %q", role)
	}

	users, err := s.repo.FindByRole(ctx, r)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *userService) Search(ctx context.Context, query string, page, pageSize int) ([]models.UserDetail, error) {
	return s.repo.Search(ctx, query, page, pageSize)
}

// Patch applies a partial update to the primary document. Protected fields
// are stripped, username/email conflicts are checked against other users
// only, and an empty payload fails fast before any write.
func (s *userService) Patch(ctx context.Context, id string, req dto.PatchUserRequest) (dto.UserResponse, error) {
	userID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	payload := docutil.PrepareSafeUpdate(req.ToMap())
	if len(payload) == 0 {
		return dto.UserResponse{}, apperr.BadRequest("no update data provided").
			WithUserMessage("Please provide fields to update.")
	}

	if password, ok := payload["password"].(string); ok && password != "" {
		hash, err := s.hashPassword(password)
		if err != nil {
			return dto.UserResponse{}, err
		}
		payload["password"] = hash
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return dto.UserResponse{}, err
	}

	if username, ok := payload["username"].(string); ok {
		taken, err := s.repo.UsernameTaken(ctx, username, userID)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, apperr.BadRequest("username %q already taken by another user", username).
				WithUserMessage("The username is already taken. Please choose another.")
		}
	}

	if email, ok := payload["email"].(string); ok && email != "" {
		taken, err := s.repo.EmailTaken(ctx, email, userID)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, apperr.BadRequest("email %q already taken by another user", email).
				WithUserMessage("The email is already registered. Please choose another.")
		}
	}

	patch := bson.M{}
	for key, value := range payload {
		patch[key] = value
	}
	patch["updated_at"] = s.now().UTC()

	if err := s.repo.Update(ctx, userID, patch); err != nil {
		return dto.UserResponse{}, err
	}

	updated, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(updated), nil
}

// PatchDetail applies a partial update to the role satellite of a user.
// Nested payloads are flattened to dot-path keys so sibling fields survive,
// with one exception: attendance_record is replaced wholesale, since its
// keys are dates and a merge would resurrect stale entries.
func (s *userService) PatchDetail(ctx context.Context, id string, req dto.PatchUserDetailRequest) (dto.PatchDetailResponse, error) {
	userID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return dto.PatchDetailResponse{}, err
	}

	detail, err := s.repo.FindDetail(ctx, userID)
	if err != nil {
		return dto.PatchDetailResponse{}, err
	}

	var payload map[string]any
	switch detail.Profile.Role {
	case models.RoleStudent:
		if req.StudentInfo == nil {
			return dto.PatchDetailResponse{}, apperr.BadRequest("no student info provided").
				WithUserMessage("Please provide student fields to update.")
		}
		payload = req.StudentInfo.ToMap()
		if raw, ok := payload["birth_date"]; ok {
			birthDate, err := docutil.EnsureDate(raw)
			if err != nil {
				return dto.PatchDetailResponse{}, err
			}
			payload["birth_date"] = birthDate
		}
	case models.RoleTeacher:
		if req.TeacherInfo == nil {
			return dto.PatchDetailResponse{}, apperr.BadRequest("no teacher info provided").
				WithUserMessage("Please provide teacher fields to update.")
		}
		payload = req.TeacherInfo.ToMap()
		// an explicitly empty phone number keeps the stored value
		if phone, ok := payload["phone_number"].(string); ok && phone == "" {
			delete(payload, "phone_number")
		}
	default:
		return dto.PatchDetailResponse{}, apperr.BadRequest("role %q has no editable detail document", detail.Profile.Role)
	}

	payload = docutil.PrepareSafeUpdate(payload)
	if len(payload) == 0 {
		return dto.PatchDetailResponse{}, apperr.BadRequest("no update data provided").
			WithUserMessage("Please provide fields to update.")
	}

	attendance, replaceAttendance := payload["attendance_record"]

	flat := docutil.Flatten(payload)
	patch := bson.M{}
	for key, value := range flat {
		if replaceAttendance && strings.HasPrefix(key, "attendance_record.") {
			continue
		}
		patch[key] = value
	}
	if replaceAttendance {
		patch["attendance_record"] = attendance
	}
	patch["updated_at"] = s.now().UTC()

	modified, err := s.roleInfo.ApplyPatch(ctx, userID, detail.Profile.Role, patch)
	if err != nil {
		return dto.PatchDetailResponse{}, err
	}

	if modified == 0 {
		return dto.PatchDetailResponse{Updated: false, Message: "No changes made to the user details."}, nil
	}
	return dto.PatchDetailResponse{Updated: true, Message: "User details updated successfully."}, nil
}

// Delete removes the role satellite first and the primary document second.
// The two deletes are independent writes; a failure in between leaves an
// orphan that is logged, not repaired.
func (s *userService) Delete(ctx context.Context, id string) error {
	userID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.roleInfo.Delete(ctx, userID, user.Role); err != nil {
		return apperr.Internal("delete role info", err).
			WithDetail("user_id", userID.Hex()).
			WithDetail("step", "satellite_delete")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("primary delete failed after satellite delete")
		return err
	}
	return nil
}

func (s *userService) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	return s.repo.CountByRole(ctx)
}

func toUserResponses(users []models.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses
}

// validationError converts validator failures into the field→reason shape
// of the application error taxonomy.
func validationError(err error) *apperr.Error {
	fields := map[string]string{}
	var invalid validator.ValidationErrors
	if ok := asValidationErrors(err, &invalid); ok {
		for _, fieldErr := range invalid {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	return apperr.Validation("invalid payload", fields).WithCause(err)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if ve, ok := err.(validator.ValidationErrors); ok {
		*target = ve
		return true
	}
	return false
}
