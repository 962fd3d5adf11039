package quercle

import (
	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/quercle"
)

const (
	NodeType        = "quercle"
	NodeDisplayName = "Quercle"
	NodeSummary     = "AI-powered web search and fetch"
)

// Operation descriptions shown in the operation picker.
const (
	SearchDescription = "Search the web and get an AI-synthesized answer with citations. " +
		"The response includes the answer and source URLs that can be fetched for further investigation. " +
		"Optionally filter by allowed or blocked domains."
	FetchDescription = "Fetch a web page and analyze its content using AI. " +
		"Provide a URL and a prompt describing what information you want to extract or how to analyze the content. " +
		"The raw HTML is NOT returned - only the AI's analysis based on your prompt."
)

// Field descriptions.
const (
	QueryDescription   = "The search query to find information about. Be specific"
	URLDescription     = "The URL to fetch and analyze"
	PromptDescription  = "Instructions for how to analyze the page content. Be specific about what information you want to extract"
	DomainsDescription = "Only include results from these domains (e.g., 'example.com, *.example.org')"
)

// Parameter names.
const (
	ParamOperation      = "operation"
	ParamQuery          = "query"
	ParamDomainFilter   = "domainFilter"
	ParamDomains        = "domains"
	ParamURL            = "url"
	ParamPrompt         = "prompt"
	ParamContinueOnFail = "continueOnFail"
)

var (
	showForSearch = &models.DisplayOptions{Show: map[string][]string{
		ParamOperation: {string(quercle.OperationSearch)},
	}}
	showForFetch = &models.DisplayOptions{Show: map[string][]string{
		ParamOperation: {string(quercle.OperationFetch)},
	}}
)

// Description returns the form descriptor of the Quercle node.
// Properties are ordered so that a property only depends on the ones before it.
func Description() models.NodeDescription {
	return models.NodeDescription{
		DisplayName: NodeDisplayName,
		Name:        NodeType,
		Icon:        "file:quercle.svg",
		Group:       []string{"transform"},
		Version:     1,
		Subtitle:    `={{$parameter["operation"]}}`,
		Description: NodeSummary,
		Defaults:    map[string]any{"name": NodeDisplayName},
		Inputs:      []string{InputPortMain},
		Outputs:     []string{OutputPortSuccess, OutputPortError},
		Credentials: []models.NodeCredentialReference{
			{Name: credentials.QuercleAPIName, Required: false},
		},
		Properties: []models.NodeProperty{
			{
				DisplayName:      "Operation",
				Name:             ParamOperation,
				Type:             "options",
				NoDataExpression: true,
				Options: []models.NodePropertyOption{
					{
						Name:        "Search",
						Value:       string(quercle.OperationSearch),
						Description: SearchDescription,
						Action:      "Perform AI powered web search",
					},
					{
						Name:        "Fetch",
						Value:       string(quercle.OperationFetch),
						Description: FetchDescription,
						Action:      "Fetch and process content from a URL",
					},
				},
				Default: string(quercle.OperationSearch),
			},
			{
				DisplayName:    "Query",
				Name:           ParamQuery,
				Type:           "string",
				Required:       true,
				DisplayOptions: showForSearch,
				Default:        "",
				Description:    QueryDescription,
			},
			{
				DisplayName:    "Domain Filter",
				Name:           ParamDomainFilter,
				Type:           "options",
				DisplayOptions: showForSearch,
				Options: []models.NodePropertyOption{
					{Name: "None", Value: string(quercle.DomainFilterNone)},
					{Name: "Allowed Domains", Value: string(quercle.DomainFilterAllowed)},
					{Name: "Blocked Domains", Value: string(quercle.DomainFilterBlocked)},
				},
				Default:     string(quercle.DomainFilterNone),
				Description: "Filter search results by domain",
			},
			{
				DisplayName: "Domains",
				Name:        ParamDomains,
				Type:        "string",
				DisplayOptions: &models.DisplayOptions{Show: map[string][]string{
					ParamOperation:    {string(quercle.OperationSearch)},
					ParamDomainFilter: {string(quercle.DomainFilterAllowed), string(quercle.DomainFilterBlocked)},
				}},
				Default:     "",
				Description: DomainsDescription,
				Placeholder: "example.com, another.com",
			},
			{
				DisplayName:    "URL",
				Name:           ParamURL,
				Type:           "string",
				Required:       true,
				DisplayOptions: showForFetch,
				Default:        "",
				Description:    URLDescription,
				Placeholder:    "https://example.com/page",
			},
			{
				DisplayName:    "Prompt",
				Name:           ParamPrompt,
				Type:           "string",
				Required:       true,
				DisplayOptions: showForFetch,
				Default:        "",
				Description:    PromptDescription,
				Rows:           4,
				Placeholder:    "Extract the main article content and summarize it",
			},
		},
	}
}
