package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTrigger(t *testing.T) {
	script, err := RenderTrigger(DefaultTriggerParams())
	require.NoError(t, err)

	assert.Contains(t, script, "$env.WEBFLOW_API_TOKEN")
	assert.Contains(t, script, "$env.WEBFLOW_COLLECTION_ID")
	assert.Contains(t, script, "https://api.webflow.com/v2/collections/")
	assert.Contains(t, script, `set:"xano-id"`)
	assert.Contains(t, script, `set:"_draft":($story.status != "published")`)
	assert.Contains(t, script, "stories|edit:$story.id")
	assert.Contains(t, script, "webflow_synced_at: now")

	for _, rule := range Rules {
		assert.Contains(t, script, `set:"`+rule.Target+`"`, "rule %s not rendered", rule.Target)
		for _, src := range rule.Sources {
			assert.Contains(t, script, "$story."+src)
		}
	}
	assert.Contains(t, script, `"document-file":{url: $story.document_url}`)
	assert.NotContains(t, script, "<no value>")
}
