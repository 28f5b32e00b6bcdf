package mdreport

// defaultFontFamily is the standard font stack for PDF footers and generated content.
const defaultFontFamily = "sans-serif"

// buildPrintCSS generates the pagination rules applied to every document:
// rendered diagram images, tables, code listings and blockquotes must not be
// split across pages, and headings must not be stranded at a page bottom.
func buildPrintCSS() string {
	return `
/* Pagination: keep rendered images and block elements on one page */
img, table, pre, blockquote {
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Pagination: prevent heading alone at page bottom */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Pagination: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: 2;
  widows: 2;
}
`
}
