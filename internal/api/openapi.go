package api

import "github.com/JaimeStill/signpost/pkg/openapi"

type spec struct {
	Classify *openapi.Operation
	Signs    *openapi.Operation
}

// Spec holds the OpenAPI operations owned by the api package.
var Spec = spec{
	Classify: &openapi.Operation{
		Summary:     "Classify a traffic sign image",
		Description: "Decodes the uploaded image, predicts one of 43 sign classes, and stores the image for later display.",
		RequestBody: openapi.RequestBodyMultipart(&openapi.Schema{
			Type:     "object",
			Required: []string{"file"},
			Properties: map[string]*openapi.Schema{
				"file": {Type: "string", Format: "binary", Description: "JPEG, PNG, GIF, BMP, TIFF, or WebP image"},
			},
		}),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stored upload and its classification", "ClassifyResponse"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("TooLarge"),
			502: {Description: "Model inference failed"},
		},
	},
	Signs: &openapi.Operation{
		Summary:     "List sign classes",
		Description: "Returns the fixed label table in class index order.",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Sign classes",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Sign")}},
				},
			},
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Sign": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"index": {Type: "integer"},
				"label": {Type: "string"},
			},
		},
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"class_index": {Type: "integer"},
				"label":       {Type: "string"},
				"confidence":  {Type: "number", Format: "float", Description: "Softmax probability of the predicted class"},
			},
		},
		"ClassifyResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"upload":         openapi.SchemaRef("Upload"),
				"classification": openapi.SchemaRef("Classification"),
			},
		},
	}
}
