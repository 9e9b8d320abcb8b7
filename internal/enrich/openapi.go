package enrich

import "github.com/JaimeStill/signpost/pkg/openapi"

type spec struct {
	Lookup *openapi.Operation
}

// Spec holds the OpenAPI operations for enrichment endpoints.
var Spec = spec{
	Lookup: &openapi.Operation{
		Summary:     "Enrich a sign name",
		Description: "Returns example images and a translated encyclopedic summary. Collaborator failures become fallback text rather than errors. A blank q returns an empty result.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("q", "string", "Sign name to look up", false),
			openapi.QueryParam("full_info", "boolean", "Return the long summary", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Enrichment result", "Enrichment"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"EnrichmentImage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"url":   {Type: "string"},
				"title": {Type: "string"},
			},
		},
		"Enrichment": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"query":         {Type: "string"},
				"images":        {Type: "array", Items: openapi.SchemaRef("EnrichmentImage")},
				"short_summary": {Type: "string"},
				"full_summary":  {Type: "string"},
				"error":         {Type: "string", Description: "Notice when image search failed"},
			},
		},
	}
}
