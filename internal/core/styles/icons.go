package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconBook     = "\U000F00BE" // nf-md-book_open_page_variant
	IconMarkdown = "\ue73e"     // nf-dev-markdown
	IconFile     = "\uf15c"     // nf-fa-file_text
	IconSearch   = "\uf002"     // nf-fa-search
	IconError    = "\uf071"     // nf-fa-warning
	IconSpinner  = "\uf110"     // nf-fa-spinner
)
