// Package core holds the shared HTTP response envelope used by all
// handlers.
package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minimind-ai/minimind/pkg/errorx"
	"github.com/minimind-ai/minimind/pkg/log"
)

// ErrResponse is the body returned for any failed request.
type ErrResponse struct {
	// Code is the business error code.
	Code int `json:"code"`

	// Message is the safe, user-facing description.
	Message string `json:"message"`

	// Reference optionally points at a document describing the fix.
	Reference string `json:"reference,omitempty"`
}

// WriteResponse writes either an error envelope or the success payload.
// The HTTP status comes from the error's registered coder.
func WriteResponse(c *gin.Context, err error, data any) {
	if err != nil {
		log.Error("%#v", err)
		coder := errorx.ParseCoder(err)
		c.JSON(coder.HTTPStatus(), ErrResponse{
			Code:      coder.Code(),
			Message:   coder.String(),
			Reference: coder.Reference(),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}
