// Package assets provides the stylesheets and HTML templates used to wrap
// rendered Markdown into export documents and the preview page.
//
// # Loaders
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - assets from a user directory
//	    └── AssetResolver     - user directory first, embedded as fallback
//
// A user directory only needs the files it overrides:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Asset names never contain separators or dots, and FilesystemLoader checks
// that resolved paths (symlinks included) stay under basePath.
package assets
