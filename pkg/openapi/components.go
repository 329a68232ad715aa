package openapi

import (
	"maps"
	"net/http"
)

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// NewComponents creates Components with the shared error schema and responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:       "object",
				Required:   []string{"error"},
				Properties: map[string]*Schema{"error": {Type: "string", Description: "Error message"}},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      errorResponse(http.StatusText(http.StatusBadRequest)),
			"Unauthorized":    errorResponse("Missing caller identity header"),
			"NotFound":        errorResponse("Resource not found"),
			"Conflict":        errorResponse("Resource conflict"),
			"PayloadTooLarge": errorResponse("Upload exceeds the size limit"),
			"Unprocessable":   errorResponse("Document content cannot be processed"),
			"BadGateway":      errorResponse("Upstream inspection or extraction service failed"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}
