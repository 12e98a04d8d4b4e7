package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/middleware"
	"github.com/noah-isme/career-roadmap-api/internal/models"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentStudent returns the student number of the signed-in student.
func currentStudent(c *gin.Context) (int, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.Role != models.RoleStudent || claims.StudentNumber <= 0 {
		return 0, appErrors.ErrUnauthorized
	}
	return claims.StudentNumber, nil
}

// studentParam parses the :number path parameter.
func studentParam(c *gin.Context) (int, error) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "student number must be a positive integer")
	}
	return number, nil
}

func bindJSON(c *gin.Context, dst interface{}, message string) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
	}
	return nil
}
