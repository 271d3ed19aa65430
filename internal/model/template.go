package model

// Template-library categories.
const (
	CategoryScript  = "script"
	CategoryProduct = "product"
	CategoryService = "service"
)

// TemplateEntry is reusable copy-paste source material; it has no foreign
// key into campaigns or drafts.
type TemplateEntry struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// TemplateDefaults seeds the new-campaign form.
type TemplateDefaults struct {
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `json:"body_template"`
}
