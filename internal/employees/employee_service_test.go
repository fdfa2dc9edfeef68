package employees

import (
	"testing"

	custom_error "custodian/pkg/errors"
	"custodian/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type directoryStoreMock struct{ mock.Mock }

func (m *directoryStoreMock) CreateEmployee(req models.CreateEmployeeRequest, passwordHash string) (*models.Employee, error) {
	args := m.Called(req, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *directoryStoreMock) UpdateEmployee(empCode string, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	args := m.Called(empCode, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *directoryStoreMock) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func validCreateRequest() models.CreateEmployeeRequest {
	return models.CreateEmployeeRequest{
		EmpCode:        "E200",
		FirstName:      "An",
		LastName:       "Nguyen",
		FullName:       "Nguyen Van An",
		Email:          "an.nguyen@example.com",
		Password:       "s3cret",
		BusinessUnitID: 1,
		DepartmentID:   2,
	}
}

func TestRegisterHashesPasswordAndAppliesDefaults(t *testing.T) {
	store := &directoryStoreMock{}
	store.On("EmailExists", "an.nguyen@example.com").Return(false, nil)
	store.On("CreateEmployee", mock.MatchedBy(func(req models.CreateEmployeeRequest) bool {
		return req.Role == "user" && req.StatusWork == "Working" && req.StatusAccount == "active"
	}), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")) == nil
	})).Return(&models.Employee{EmpCode: "E200"}, nil)

	employee, err := NewService(store).Register(validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, "E200", employee.EmpCode)
	store.AssertExpectations(t)
}

func TestRegisterDeduplicatesEmailWithNumericSuffix(t *testing.T) {
	store := &directoryStoreMock{}
	store.On("EmailExists", "an.nguyen@example.com").Return(true, nil)
	store.On("EmailExists", "an.nguyen2@example.com").Return(true, nil)
	store.On("EmailExists", "an.nguyen3@example.com").Return(false, nil)
	store.On("CreateEmployee", mock.MatchedBy(func(req models.CreateEmployeeRequest) bool {
		return req.Email == "an.nguyen3@example.com"
	}), mock.Anything).Return(&models.Employee{EmpCode: "E200"}, nil)

	_, err := NewService(store).Register(validCreateRequest())

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRegisterRejectsUnknownWorkStatus(t *testing.T) {
	store := &directoryStoreMock{}
	req := validCreateRequest()
	req.StatusWork = "On Leave"

	_, err := NewService(store).Register(req)

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
	store.AssertNotCalled(t, "CreateEmployee", mock.Anything, mock.Anything)
}

func TestUpdateRejectsUnknownWorkStatus(t *testing.T) {
	store := &directoryStoreMock{}

	_, err := NewService(store).Update("E200", models.UpdateEmployeeRequest{StatusWork: "gone"})

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
	store.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything)
}
