package core

// ExportInfo is the metadata block of a batch export file.
type ExportInfo struct {
	SourceInfo
	ParseablePages   int `json:"parseable_pages"`
	UnparseablePages int `json:"unparseable_pages"`
	MainReviews      int `json:"main_reviews"`
	FollowupVisits   int `json:"followup_visits"`
}

// ExportPage is one page record in a batch export file, annotated with the
// outcome of a trial parse at export time.
type ExportPage struct {
	RawPage
	ParseStatus string `json:"_parse_status"`
	DishCount   int    `json:"_dish_count"`
}

// ExportDocument is the batch export file: source metadata plus every page
// captured from the hierarchy walk.
type ExportDocument struct {
	ExportInfo ExportInfo   `json:"export_info"`
	Pages      []ExportPage `json:"pages"`
}
