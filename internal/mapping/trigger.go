package mapping

import (
	"bytes"
	"fmt"
	"text/template"

	"story_sync/internal/domain"
)

// TriggerParams configures the rendered backend trigger.
type TriggerParams struct {
	TokenEnv      string
	CollectionEnv string
	APIBaseURL    string
	Table         string
}

// DefaultTriggerParams matches the environment variable names the backend
// workspace is expected to define.
func DefaultTriggerParams() TriggerParams {
	return TriggerParams{
		TokenEnv:      "WEBFLOW_API_TOKEN",
		CollectionEnv: "WEBFLOW_COLLECTION_ID",
		APIBaseURL:    "https://api.webflow.com/v2",
		Table:         "stories",
	}
}

type triggerField struct {
	Target  string
	Sources []string
	Image   bool
}

type triggerData struct {
	TriggerParams
	Fields        []triggerField
	NameColumn    string
	StatusColumn  string
	LinkColumn    string
	SyncedColumn  string
	Placeholder   string
	Fallback      string
	Published     string
	FieldName     string
	FieldSlug     string
	FieldArchived string
	FieldDraft    string
	FieldXanoID   string
}

var triggerTemplate = template.Must(template.New("trigger").Parse(`// Sync story to Webflow on create/update
var story $trigger.new

conditional $story == null
  return { skipped: true }
endConditional

var webflow_token $env.{{.TokenEnv}}
var webflow_collection_id $env.{{.CollectionEnv}}

conditional $webflow_token == null || $webflow_collection_id == null
  return { error: "Webflow not configured" }
endConditional

var title $story.{{.NameColumn}}
conditional $title == null || $title == ""
  var title "{{.Placeholder}}"
endConditional

var slug $title|to_lower|regex_replace:"[^a-z0-9\s-]":""|trim|regex_replace:"\s+":"-"|regex_replace:"-+":"-"|regex_replace:"^[^a-z0-9]+":""|regex_replace:"-+$":""
conditional $slug == ""
  var slug "{{.Fallback}}"
endConditional
var slug $slug ~ "-" ~ $story.id

var fields {}
var fields $fields|set:"{{.FieldName}}":$title
var fields $fields|set:"{{.FieldSlug}}":$slug
var fields $fields|set:"{{.FieldArchived}}":false
var fields $fields|set:"{{.FieldDraft}}":($story.{{.StatusColumn}} != "{{.Published}}")
var fields $fields|set:"{{.FieldXanoID}}":($story.id|to_text)
{{range .Fields}}{{$f := .}}
{{range $i, $src := .Sources}}conditional $fields|has:"{{$f.Target}}" == false && $story.{{$src}} != null && $story.{{$src}} != ""
  var fields $fields|set:"{{$f.Target}}":{{if $f.Image}}{url: $story.{{$src}}}{{else}}$story.{{$src}}{{end}}
endConditional
{{end}}{{end}}
var is_update $story.{{.LinkColumn}} != null && $story.{{.LinkColumn}} != ""
var method $is_update ? "PATCH" : "POST"
var url "{{.APIBaseURL}}/collections/" ~ $webflow_collection_id ~ "/items"
conditional $is_update
  var url $url ~ "/" ~ $story.{{.LinkColumn}}
endConditional

var response external_api_request {
  url: $url,
  method: $method,
  headers: {
    "Authorization": "Bearer " ~ $webflow_token,
    "Content-Type": "application/json"
  },
  body: { fieldData: $fields }
}

var result $response.response.result

conditional $result.id != null
  var updated {{.Table}}|edit:$story.id:{
    {{.LinkColumn}}: $result.id,
    {{.SyncedColumn}}: now
  }
  return { success: true, webflow_id: $result.id }
endConditional

return { success: false, error: $result }
`))

// RenderTrigger renders the trigger script from Rules so the backend trigger
// and the local sync share one field mapping.
func RenderTrigger(p TriggerParams) (string, error) {
	data := triggerData{
		TriggerParams: p,
		NameColumn:    domain.ColumnName,
		StatusColumn:  domain.ColumnStatus,
		LinkColumn:    domain.ColumnWebflowItemID,
		SyncedColumn:  domain.ColumnWebflowSynced,
		Placeholder:   PlaceholderTitle,
		Fallback:      FallbackSlug,
		Published:     domain.StatusPublished,
		FieldName:     FieldName,
		FieldSlug:     FieldSlug,
		FieldArchived: FieldArchived,
		FieldDraft:    FieldDraft,
		FieldXanoID:   FieldXanoID,
	}
	for _, rule := range Rules {
		if !rule.Applies(VariantTrigger) {
			continue
		}
		data.Fields = append(data.Fields, triggerField{
			Target:  rule.Target,
			Sources: rule.Sources,
			Image:   rule.Kind == KindImage,
		})
	}

	var buf bytes.Buffer
	if err := triggerTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render trigger: %w", err)
	}
	return buf.String(), nil
}
