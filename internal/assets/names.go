package assets

// Built-in style names.
const (
	StyleBase    = "base"    // math-* and markdown-table classes, shared by every document
	StyleHTML    = "html"    // standalone HTML export
	StyleWord    = "word"    // Word-compatible export
	StylePrint   = "print"   // print and PDF export
	StylePreview = "preview" // editor page chrome
)

// Built-in template names.
const (
	TemplateDocument = "document"
	TemplateWord     = "word"
	TemplatePrint    = "print"
	TemplatePreview  = "preview"
)
