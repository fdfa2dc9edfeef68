package security

import (
	"fmt"
	"os"
	"time"

	"custodian/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 8 * time.Hour

// jwtSecret reads the signing key from the environment. Startup fails fast
// when JWT_SECRET is unset, so an empty key never signs a token.
func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// CredentialStore looks up the stored credential row for a login attempt.
type CredentialStore interface {
	GetByCodeForAuth(empCode string) (*models.Employee, error)
}

// AuthenticateUser verifies an employee code and password pair.
func AuthenticateUser(store CredentialStore, empCode, password string) (*models.Employee, error) {
	employee, err := store.GetByCodeForAuth(empCode)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return employee, nil
}

// GenerateJWT issues a signed token carrying the employee id and role.
func GenerateJWT(employeeID int, empCode string, role string) (string, error) {
	claims := jwt.MapClaims{
		"userID":  employeeID,
		"empCode": empCode,
		"role":    role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
