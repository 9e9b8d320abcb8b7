package uploads

import "github.com/JaimeStill/signpost/pkg/openapi"

type spec struct {
	List *openapi.Operation
	Find *openapi.Operation
}

// Spec holds the OpenAPI operations for upload endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List uploaded images",
		Description: "Pages through the upload registry, newest first. Sort fields: created_at, filename, label, confidence, size_bytes.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches filename or label", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
			openapi.QueryParam("class_index", "integer", "Only uploads classified as this class", false),
			openapi.QueryParam("filename", "string", "Filename substring", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Upload page", "UploadPage"),
			404: openapi.ResponseRef("ServiceDisabled"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Get an upload",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Upload UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Registered upload", "Upload"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Upload": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"storage_key":  {Type: "string"},
				"filename":     {Type: "string", Description: "Client-supplied filename"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"url":          {Type: "string", Description: "Path the image is served from"},
				"class_index":  {Type: "integer"},
				"label":        {Type: "string"},
				"confidence":   {Type: "number", Format: "float"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
		"UploadPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Upload")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
