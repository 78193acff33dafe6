package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the HS256 access token (header or cookie) and
// copies the identity claims into the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, apperror.ErrTokenExpired)
				return
			}
			abortWith(c, apperror.ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, apperror.ErrInvalidToken)
			return
		}

		userID, _ := claims["user_id"].(string)
		companyID, _ := claims["company_id"].(string)
		employeeID, _ := claims["employee_id"].(string)
		if userID == "" || companyID == "" || employeeID == "" {
			abortWith(c, apperror.ErrInvalidToken)
			return
		}

		c.Set("user_id", userID)
		c.Set("user_id_validated", userID)
		c.Set(string(ContextEmployeeID), employeeID)
		c.Set(string(ContextCompanyID), companyID)

		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
