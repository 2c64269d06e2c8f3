// Package export wraps rendered HTML into the downloadable document formats.
//
// Export never re-parses the content: the Markdown format passes the source
// through, every other format fills one of the asset templates with the
// rendered body and injects the matching stylesheets before </head>.
//
//	Format   Template   Styles         MIME type
//	md       -          -              text/markdown
//	html     document   base, html     text/html
//	doc      word       base, word     application/msword (UTF-8 BOM)
//	print    print      base, print    text/html (prints on load)
//	pdf      print      base, print    application/pdf (rendered by the caller)
package export
