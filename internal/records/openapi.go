package records

import "github.com/JaimeStill/filevault/pkg/openapi"

// Schemas returns the component schemas referenced by record operations.
func Schemas() map[string]*openapi.Schema {
	amount := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "number", Format: "double", Description: desc + "; null when missing or redacted"}
	}

	return map[string]*openapi.Schema{
		"Record": {
			Type:     "object",
			Required: []string{"id", "user_id", "correlation_id", "created_at"},
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "integer", Format: "int64"},
				"user_id":           {Type: "string"},
				"correlation_id":    {Type: "string", Format: "uuid"},
				"document_key":      {Type: "string", Description: "Vault blob key of the approved document"},
				"filing_status":     {Type: "string", Description: "null when missing or redacted", Example: "single"},
				"w2_wages":          amount("W-2 wages"),
				"total_deductions":  amount("Total deductions"),
				"ira_distributions": amount("IRA distributions"),
				"capital_gain_loss": amount("Capital gain or loss"),
				"created_at":        {Type: "string", Format: "date-time"},
			},
		},
	}
}

var listDoc = &openapi.Operation{
	Summary:     "List records",
	Description: "Returns the records extracted for the caller, newest first unless sort is given.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("filing_status", "string", "Only records with this filing status"),
		openapi.QueryParam("sort", "string", "Comma-separated fields, \"-\" prefix for descending, e.g. -w2_wages,id"),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSONArray("Records owned by the caller", "Record"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}

var findDoc = &openapi.Operation{
	Summary:    "Get record",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "integer", "int64", "Record id")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("The record", "Record"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		404: openapi.ResponseRef("NotFound"),
	},
}
