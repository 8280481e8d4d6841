package httpx

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Problem is the RFC 7807 error body used by every non-2xx response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func NewProblem(status int, title, detail string) Problem {
	if detail == "" {
		detail = title
	}
	slug := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	return Problem{
		Type:   "https://trainbook.example.com/errors/" + slug,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func WriteProblem(c *gin.Context, status int, title, detail string) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(status, NewProblem(status, title, detail))
}

func BadRequest(c *gin.Context, detail string) {
	WriteProblem(c, http.StatusBadRequest, "Bad Request", detail)
}

func Unauthorized(c *gin.Context, detail string) {
	WriteProblem(c, http.StatusUnauthorized, "Unauthorized", detail)
}

func Forbidden(c *gin.Context, detail string) {
	WriteProblem(c, http.StatusForbidden, "Forbidden", detail)
}

func NotFound(c *gin.Context, detail string) {
	WriteProblem(c, http.StatusNotFound, "Not Found", detail)
}

func Conflict(c *gin.Context, detail string) {
	WriteProblem(c, http.StatusConflict, "Conflict", detail)
}

func Internal(c *gin.Context) {
	WriteProblem(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
}
