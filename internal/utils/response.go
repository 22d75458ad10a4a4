package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseData is the envelope every endpoint answers with.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func write(c *gin.Context, status int, body ResponseData) {
	body.Status = status
	c.JSON(status, body)
}

// Success sends a 200 with data.
func Success(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, ResponseData{Message: message, Data: data})
}

// Created sends a 201 with the created resource.
func Created(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusCreated, ResponseData{Message: message, Data: data})
}

// Error sends an error envelope with the given status.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	write(c, statusCode, ResponseData{Message: http.StatusText(statusCode), Error: errorMessage})
}

func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

func Conflict(c *gin.Context, errorMessage string) {
	Error(c, http.StatusConflict, errorMessage)
}

// InternalServerError hides err details from the client; callers log them.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
