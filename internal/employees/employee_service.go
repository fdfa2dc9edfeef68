package employees

import (
	"fmt"
	"strings"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"golang.org/x/crypto/bcrypt"
)

const maxEmailSuffix = 50

// directoryStore is the persistence surface the service needs; satisfied by
// EmployeeRepository.
type directoryStore interface {
	CreateEmployee(req models.CreateEmployeeRequest, passwordHash string) (*models.Employee, error)
	UpdateEmployee(empCode string, req models.UpdateEmployeeRequest) (*models.Employee, error)
	EmailExists(email string) (bool, error)
}

type EmployeeService struct {
	repository directoryStore
}

func NewService(r directoryStore) *EmployeeService {
	return &EmployeeService{
		repository: r,
	}
}

// Register creates a directory entry. The email is deduplicated with a
// numeric suffix so imports from HR exports do not collide on shared
// mailbox naming.
func (s *EmployeeService) Register(req models.CreateEmployeeRequest) (*models.Employee, error) {
	if req.Role == "" {
		req.Role = "user"
	}
	if req.StatusAccount == "" {
		req.StatusAccount = "active"
	}
	if req.StatusWork == "" {
		req.StatusWork = metadata.WorkWorking.String()
	}
	if _, err := metadata.NewWorkStatus(req.StatusWork); err != nil {
		return nil, custom_error.NewValidation("invalid work status: %s", req.StatusWork)
	}

	email, err := s.dedupeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	req.Email = email

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repository.CreateEmployee(req, string(hash))
}

func (s *EmployeeService) Update(empCode string, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	if req.StatusWork != "" {
		if _, err := metadata.NewWorkStatus(req.StatusWork); err != nil {
			return nil, custom_error.NewValidation("invalid work status: %s", req.StatusWork)
		}
	}
	return s.repository.UpdateEmployee(empCode, req)
}

func (s *EmployeeService) dedupeEmail(email string) (string, error) {
	exists, err := s.repository.EmailExists(email)
	if err != nil {
		return "", err
	}
	if !exists {
		return email, nil
	}

	at := strings.Index(email, "@")
	if at <= 0 {
		return "", custom_error.NewValidation("invalid email address: %s", email)
	}
	local, domain := email[:at], email[at:]

	for suffix := 2; suffix <= maxEmailSuffix; suffix++ {
		candidate := fmt.Sprintf("%s%d%s", local, suffix, domain)
		exists, err := s.repository.EmailExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", custom_error.NewValidation("could not allocate a unique email for %s", email)
}
