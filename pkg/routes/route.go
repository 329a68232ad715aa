package routes

import (
	"net/http"

	"github.com/JaimeStill/filevault/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. Doc, when set, is
// published in the OpenAPI document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Doc     *openapi.Operation
}
