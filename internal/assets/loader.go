package assets

// AssetLoader loads stylesheets and templates by bare name.
type AssetLoader interface {
	// LoadStyle returns the CSS for name (no .css extension).
	// Returns ErrStyleNotFound or ErrInvalidAssetName.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns the HTML template for name (no .html extension).
	// Returns ErrTemplateNotFound or ErrInvalidAssetName.
	LoadTemplate(name string) (string, error)
}
