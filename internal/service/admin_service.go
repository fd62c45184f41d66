package service

import (
	"context"
	"errors"
	"strings"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/mailer"
	"fitcoach/coaching-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrStudentRoleRequired  = errors.New("assigned student must have the STUDENT role")
	ErrCoachRoleRequired    = errors.New("assigned coach must have the COACH or ADMIN role")
	ErrAlreadyAssigned      = errors.New("coach is already assigned to this student")
	ErrAssignmentNotFound   = errors.New("coach-student assignment not found")
	ErrInvitationSendFailed = errors.New("failed to send invitation email")
)

// AdminService covers the operations reserved to administrators: account
// provisioning, role management, and coach-student assignments.
type AdminService interface {
	InviteUser(ctx context.Context, email, fullName string, role domain.Role) (*domain.Profile, error)
	GetAllProfiles(ctx context.Context) ([]domain.Profile, error)
	UpdateUserRole(ctx context.Context, profileID primitive.ObjectID, role domain.Role) error
	GetAssignments(ctx context.Context) ([]domain.CoachStudentAssignment, error)
	AssignCoachToStudent(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.CoachStudentAssignment, error)
	RemoveCoachFromStudent(ctx context.Context, coachID, studentID primitive.ObjectID) error
	GetAllTrainingPlans(ctx context.Context) ([]domain.TrainingPlan, error)
}

// adminService implements the AdminService interface.
type adminService struct {
	profileRepo    repository.ProfileRepository
	assignmentRepo repository.AssignmentRepository
	planRepo       repository.TrainingPlanRepository
	mail           mailer.Mailer
	loginURL       string
}

// NewAdminService creates a new instance of adminService.
func NewAdminService(
	profileRepo repository.ProfileRepository,
	assignmentRepo repository.AssignmentRepository,
	planRepo repository.TrainingPlanRepository,
	mail mailer.Mailer,
	loginURL string,
) AdminService {
	return &adminService{
		profileRepo:    profileRepo,
		assignmentRepo: assignmentRepo,
		planRepo:       planRepo,
		mail:           mail,
		loginURL:       loginURL,
	}
}

// InviteUser provisions an account with a temporary password and emails the
// credentials to the invitee. The full name is split on the first space:
// first token becomes the name, the remainder the last name.
func (s *adminService) InviteUser(ctx context.Context, email, fullName string, role domain.Role) (*domain.Profile, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || fullName == "" {
		return nil, errors.New("email and full name are required")
	}
	if !domain.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	_, err := s.profileRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	name, lastName := splitFullName(fullName)

	tempPassword := uuid.NewString()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	profile := &domain.Profile{
		Name:         name,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	profileID, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	profile.ID = profileID

	// The profile write and the email are two dependent, non-transactional
	// steps; a send failure leaves the account in place and surfaces an
	// error so the admin can retry or reset.
	err = s.mail.SendInvitation(ctx, mailer.Invitation{
		Email:        email,
		FullName:     fullName,
		Role:         string(role),
		TempPassword: tempPassword,
		LoginURL:     s.loginURL,
	})
	if err != nil {
		return nil, ErrInvitationSendFailed
	}

	profile.PasswordHash = ""
	return profile, nil
}

func splitFullName(fullName string) (name, lastName string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// GetAllProfiles retrieves the whole profile directory, newest first.
func (s *adminService) GetAllProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.profileRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].PasswordHash = ""
	}
	return profiles, nil
}

// UpdateUserRole sets the role of a profile.
func (s *adminService) UpdateUserRole(ctx context.Context, profileID primitive.ObjectID, role domain.Role) error {
	if profileID == primitive.NilObjectID {
		return errors.New("profile ID is required")
	}
	if !domain.IsValidRole(role) {
		return ErrInvalidRole
	}

	err := s.profileRepo.UpdateRole(ctx, profileID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

// GetAssignments lists every coach-student pair.
func (s *adminService) GetAssignments(ctx context.Context) ([]domain.CoachStudentAssignment, error) {
	return s.assignmentRepo.GetAll(ctx)
}

// AssignCoachToStudent creates a coach-student assignment after verifying
// both profiles exist and carry the required roles.
func (s *adminService) AssignCoachToStudent(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.CoachStudentAssignment, error) {
	if coachID == primitive.NilObjectID || studentID == primitive.NilObjectID {
		return nil, errors.New("coach ID and student ID are required")
	}

	coach, err := s.profileRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if !coach.CanCoach() {
		return nil, ErrCoachRoleRequired
	}

	student, err := s.profileRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if !student.IsStudent() {
		return nil, ErrStudentRoleRequired
	}

	assignment := &domain.CoachStudentAssignment{
		CoachID:   coachID,
		StudentID: studentID,
	}
	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}
	assignment.ID = assignmentID
	return assignment, nil
}

// RemoveCoachFromStudent deletes the assignment identified by the pair.
func (s *adminService) RemoveCoachFromStudent(ctx context.Context, coachID, studentID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || studentID == primitive.NilObjectID {
		return errors.New("coach ID and student ID are required")
	}

	err := s.assignmentRepo.Delete(ctx, coachID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}

// GetAllTrainingPlans retrieves every plan in the system.
func (s *adminService) GetAllTrainingPlans(ctx context.Context) ([]domain.TrainingPlan, error) {
	return s.planRepo.GetAll(ctx)
}
