package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Status   string      `json:"status" example:"success"`
	Data     interface{} `json:"data,omitempty"`
	Message  string      `json:"message,omitempty" example:"ok"`
	Count    *int        `json:"count,omitempty"`
	Code     string      `json:"code,omitempty" example:"membership_required"`
	Redirect string      `json:"redirect,omitempty" example:"/membership"`
	Details  interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"something went wrong"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

func Message(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// List writes data together with its length as count.
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Data: items, Count: &n})
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Status: StatusError, Message: message})
}

// Redirect writes an error that tells the client where to send the user.
func Redirect(c *gin.Context, status int, code, message, target string) {
	c.AbortWithStatusJSON(status, Envelope{
		Status:   StatusError,
		Code:     code,
		Message:  message,
		Redirect: target,
	})
}

func ValidationFailed(c *gin.Context, details interface{}) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Status:  StatusError,
		Message: "validation failed",
		Details: details,
	})
}
