// Package mdkit renders Markdown with lightweight math notation to HTML and
// exports it as Markdown, HTML, Word, printable HTML or PDF.
//
// # Quick Start
//
//	conv, err := mdkit.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	res, err := conv.Convert(ctx, mdkit.Input{
//	    Markdown: "# Hello\n\n$E = mc^2$",
//	    Format:   mdkit.FormatPDF,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.Data, 0o644)
//
// # Conversion Pipeline
//
//  1. Source normalization (BOM, line endings, NFC)
//  2. Markdown to HTML with the selected engine: "lite" for the built-in
//     math-aware renderer, "gfm" for Goldmark with highlighting
//  3. Layout: the body is wrapped in the format's template and stylesheets
//  4. PDF only: relative image and link paths become file:// URLs, then
//     headless Chrome (go-rod) prints the page
//
// The Markdown format skips every stage and returns the source unchanged.
//
// # Configuration
//
//	conv, err := mdkit.NewConverter(
//	    mdkit.WithTimeout(2 * time.Minute),
//	    mdkit.WithEngine(mdkit.EngineGFM),
//	    mdkit.WithAssetPath("/path/to/assets"),
//	)
//
// # Parallel Processing
//
//	pool := mdkit.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// Only PDF export needs Chrome/Chromium. go-rod downloads a managed build on
// first use unless ROD_BROWSER_BIN points at an installed binary. Set CI=true
// in containers to disable the sandbox.
package mdkit
