package mapping

import (
	"strconv"

	"story_sync/internal/domain"
)

// PlaceholderTitle is used for stories saved without a name.
const PlaceholderTitle = "Untitled Story"

// CMS field slugs that are always written.
const (
	FieldName     = "name"
	FieldSlug     = "slug"
	FieldArchived = "_archived"
	FieldDraft    = "_draft"
	FieldXanoID   = "xano-id"
)

// Kind describes how a source value is shaped in the CMS.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

// Variant selects which rules apply. Some fields are only filled in by the
// trigger deployed into the backend.
type Variant int

const (
	VariantBatch Variant = iota
	VariantTrigger
)

// Rule maps one CMS field from the first non-empty source column.
type Rule struct {
	Target      string
	Sources     []string
	Kind        Kind
	TriggerOnly bool
}

// Rules is the single definition of the story to CMS item mapping. Both the
// local sync and the rendered backend trigger are built from it.
var Rules = []Rule{
	{Target: "excerpt", Sources: []string{domain.ColumnInput}},
	{Target: "story-content", Sources: []string{domain.ColumnBodyHTML, domain.ColumnContentHTML}},
	{Target: "featured-image", Sources: []string{domain.ColumnImageURL}, Kind: KindImage},
	{Target: "author-image", Sources: []string{domain.ColumnAuthorPhoto}, Kind: KindImage},
	{Target: "author-name", Sources: []string{domain.ColumnAuthorName}},
	{Target: "category", Sources: []string{domain.ColumnCategory}},
	{Target: "document-file", Sources: []string{domain.ColumnDocumentURL}, Kind: KindImage, TriggerOnly: true},
}

// Applies reports whether the rule is part of the given variant.
func (r Rule) Applies(v Variant) bool {
	return !r.TriggerOnly || v == VariantTrigger
}

func (r Rule) value(story *domain.Story) (any, bool) {
	for _, col := range r.Sources {
		v := story.Field(col)
		if v == "" {
			continue
		}
		if r.Kind == KindImage {
			return map[string]string{"url": v}, true
		}
		return v, true
	}
	return nil, false
}

// Title returns the story name or the placeholder.
func Title(story *domain.Story) string {
	if story.Name == "" {
		return PlaceholderTitle
	}
	return story.Name
}

// Map builds the CMS field bag for a story. Absent source values never
// produce a key.
func Map(story *domain.Story, v Variant) domain.FieldData {
	title := Title(story)
	fields := domain.FieldData{
		FieldName:     title,
		FieldSlug:     Slug(title, story.ID),
		FieldArchived: false,
		FieldDraft:    !story.Published(),
		FieldXanoID:   strconv.FormatInt(story.ID, 10),
	}

	for _, rule := range Rules {
		if !rule.Applies(v) {
			continue
		}
		if val, ok := rule.value(story); ok {
			fields[rule.Target] = val
		}
	}

	return fields
}
