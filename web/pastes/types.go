package pastes

import (
	"html/template"

	"katb.in/katbin"
)

// PasteForm backs the new paste page. Input is preserved when a submission
// is rejected.
type PasteForm struct {
	Content     string          `json:"content"`
	CustomURL   string          `json:"custom_url,omitempty"`
	CanChooseID bool            `json:"can_choose_id"`
	MaxSize     katbin.ByteSize `json:"max_size"`
}

func (*PasteForm) PageName() string { return "paste_new" }

type PasteResponse struct {
	*katbin.Paste
	Editable bool `json:"editable"`
}

func (*PasteResponse) PageName() string { return "paste_show" }

type PasteEditResponse struct {
	PasteResponse
	// Content is the editor's text, which differs from the paste's after a
	// rejected submission.
	Content string          `json:"content"`
	MaxSize katbin.ByteSize `json:"max_size"`
}

func (*PasteEditResponse) PageName() string { return "paste_edit" }

type MarkdownResponse struct {
	PasteResponse
	HTML template.HTML `json:"html"`
}

func (*MarkdownResponse) PageName() string { return "paste_markdown" }

type PasteListResponse struct {
	Pastes []*katbin.Paste `json:"pastes"`
}

func (*PasteListResponse) PageName() string { return "paste_list" }
