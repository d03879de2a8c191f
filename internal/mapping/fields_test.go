package mapping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"story_sync/internal/domain"
)

func TestMap_FullStory(t *testing.T) {
	story := &domain.Story{
		ID:          42,
		Name:        "Hello, World!!",
		Input:       "short summary",
		BodyHTML:    "<p>body</p>",
		ContentHTML: "<p>ignored</p>",
		ImageURL:    "https://cdn.example.com/cover.jpg",
		AuthorPhoto: "https://cdn.example.com/me.jpg",
		AuthorName:  "Sam",
		Category:    "opinion",
		Status:      domain.StatusPublished,
		DocumentURL: "https://cdn.example.com/doc.pdf",
	}

	want := domain.FieldData{
		"name":           "Hello, World!!",
		"slug":           "hello-world-42",
		"_archived":      false,
		"_draft":         false,
		"xano-id":        "42",
		"excerpt":        "short summary",
		"story-content":  "<p>body</p>",
		"featured-image": map[string]string{"url": "https://cdn.example.com/cover.jpg"},
		"author-image":   map[string]string{"url": "https://cdn.example.com/me.jpg"},
		"author-name":    "Sam",
		"category":       "opinion",
	}

	got := Map(story, VariantBatch)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_TriggerVariantAddsDocument(t *testing.T) {
	story := &domain.Story{ID: 1, Name: "Doc", DocumentURL: "https://cdn.example.com/doc.pdf"}

	batch := Map(story, VariantBatch)
	trigger := Map(story, VariantTrigger)

	assert.NotContains(t, batch, "document-file")
	assert.Equal(t, map[string]string{"url": "https://cdn.example.com/doc.pdf"}, trigger["document-file"])
}

func TestMap_OmitsEmptyFields(t *testing.T) {
	story := &domain.Story{ID: 7, Status: domain.StatusDraft}

	got := Map(story, VariantTrigger)

	want := domain.FieldData{
		"name":      PlaceholderTitle,
		"slug":      "untitled-story-7",
		"_archived": false,
		"_draft":    true,
		"xano-id":   "7",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{"category", "excerpt", "story-content", "featured-image", "author-image", "author-name", "document-file"} {
		assert.NotContains(t, got, key)
	}
}

func TestMap_ContentFallsBackToSecondBody(t *testing.T) {
	story := &domain.Story{ID: 3, Name: "x", ContentHTML: "<p>alt</p>"}

	got := Map(story, VariantBatch)

	assert.Equal(t, "<p>alt</p>", got["story-content"])
}

func TestMap_DraftUnlessPublished(t *testing.T) {
	for status, draft := range map[string]bool{
		"":                     true,
		domain.StatusDraft:     true,
		"archived":             true,
		domain.StatusPublished: false,
	} {
		got := Map(&domain.Story{ID: 1, Name: "x", Status: status}, VariantBatch)
		assert.Equal(t, draft, got[FieldDraft], "status %q", status)
	}
}
