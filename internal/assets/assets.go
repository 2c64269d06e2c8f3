package assets

import "strings"

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// ComposeStyles loads each named style from loader and joins them in order.
// It stops at the first error.
func ComposeStyles(loader AssetLoader, names ...string) (string, error) {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		css, err := loader.LoadStyle(name)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimSpace(css))
	}
	return strings.Join(parts, "\n\n"), nil
}
