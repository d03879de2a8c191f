package webflow

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StoryView is the published shape of a CMS story item.
type StoryView struct {
	ID            string
	Slug          string
	Title         string
	Excerpt       string
	Body          string
	AuthorName    string
	AuthorImage   string
	FeaturedImage string
	Category      string
	XanoID        string
}

// Live reports whether the item is visible on the site.
func (i *Item) Live() bool {
	return !i.IsDraft && !i.IsArchived
}

// View flattens the item field bag. When no featured image is set the first
// image in the story body is used instead.
func (i *Item) View() StoryView {
	v := StoryView{
		ID:          i.ID,
		Slug:        i.text("slug"),
		Title:       i.text("name"),
		Excerpt:     i.text("excerpt"),
		Body:        i.text("story-content"),
		AuthorName:  i.text("author-name"),
		AuthorImage: i.image("author-image"),
		Category:    i.text("category"),
		XanoID:      i.text("xano-id"),
	}
	if v.Slug == "" {
		v.Slug = i.ID
	}
	if v.Title == "" {
		v.Title = "Untitled"
	}

	v.FeaturedImage = i.image("featured-image")
	if v.FeaturedImage == "" {
		v.FeaturedImage = FirstImage(v.Body)
	}
	return v
}

// LiveViews returns views of the items that are neither drafts nor archived.
func LiveViews(items []Item) []StoryView {
	views := make([]StoryView, 0, len(items))
	for i := range items {
		if !items[i].Live() {
			continue
		}
		views = append(views, items[i].View())
	}
	return views
}

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}

func (i *Item) text(key string) string {
	s, _ := i.FieldData[key].(string)
	return s
}

// image accepts both {url: ...} objects and bare strings.
func (i *Item) image(key string) string {
	switch v := i.FieldData[key].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["url"].(string)
		return s
	}
	return ""
}
