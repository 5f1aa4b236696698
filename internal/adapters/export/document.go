package export

// Document はエクスポート結果のファイルです。
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

const (
	contentTypeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCalendar = "text/calendar; charset=utf-8"
)
