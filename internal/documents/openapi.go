package documents

import "github.com/JaimeStill/filevault/pkg/openapi"

// Schemas returns the component schemas referenced by document operations.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Descriptor": {
			Type:     "object",
			Required: []string{"status", "correlation_id", "preview_url"},
			Properties: map[string]*openapi.Schema{
				"status":         {Type: "string", Example: StatusPendingApproval},
				"correlation_id": {Type: "string", Format: "uuid"},
				"preview_url":    {Type: "string", Format: "uri", Description: "Time-limited link to the redacted copy"},
			},
		},
		"Approval": {
			Type:     "object",
			Required: []string{"status", "data", "record_id"},
			Properties: map[string]*openapi.Schema{
				"status":    {Type: "string", Example: StatusApproved},
				"data":      {Type: "object", Description: "Fields returned by the extraction model"},
				"record_id": {Type: "integer", Format: "int64"},
			},
		},
	}
}

var correlationParam = openapi.PathParam("correlation_id", "string", "uuid", "Correlation id returned by upload")

var uploadDoc = &openapi.Operation{
	Summary:     "Upload a document",
	Description: "Quarantines a PDF and a copy with personal data redacted, then returns a preview link to the redacted copy.",
	RequestBody: openapi.RequestBodyMultipart("file", "PDF document"),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Document quarantined", "Descriptor"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		422: openapi.ResponseRef("Unprocessable"),
		502: openapi.ResponseRef("BadGateway"),
	},
}

var approveDoc = &openapi.Operation{
	Summary:     "Approve a document",
	Description: "Moves the redacted copy into the vault, extracts its tax fields, and stores a record.",
	Parameters:  []*openapi.Parameter{correlationParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Document approved", "Approval"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		404: openapi.ResponseRef("NotFound"),
		409: openapi.ResponseRef("Conflict"),
		502: openapi.ResponseRef("BadGateway"),
	},
}

var discardDoc = &openapi.Operation{
	Summary:    "Discard a quarantined document",
	Parameters: []*openapi.Parameter{correlationParam},
	Responses: map[int]*openapi.Response{
		204: {Description: "Document discarded"},
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		404: openapi.ResponseRef("NotFound"),
	},
}
