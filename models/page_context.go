package models

// PageContext is a snapshot of the active page, captured per user action.
type PageContext struct {
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
	Selection  string `json:"selection" yaml:"selection"`
	TopContent string `json:"topContent" yaml:"top_content"`
}

// Tab is what the surface knows about the active page without asking the peer.
type Tab struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Article is the reader-mode distillation of a page.
type Article struct {
	Title    string `json:"title" yaml:"title"`
	Byline   string `json:"byline,omitempty" yaml:"byline,omitempty"`
	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Text     string `json:"text" yaml:"text"`
}
