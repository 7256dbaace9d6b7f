package ds

const (
	DefaultTablePageSize = 20
	DefaultLogPageSize   = 8
	MaxLogPageSize       = 50
)

// PaginationInfo представляет метаданные пагинации
type PaginationInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// UploadLogFiltersInfo представляет примененные фильтры журнала загрузок
type UploadLogFiltersInfo struct {
	Status string `json:"status,omitempty"`
}

// PaginatedUploadLogsResponse представляет ответ с пагинированным журналом загрузок
type PaginatedUploadLogsResponse struct {
	Data       []UploadLog           `json:"data"`
	Pagination PaginationInfo        `json:"pagination"`
	Filters    *UploadLogFiltersInfo `json:"filters,omitempty"`
}

// ViewResponse ответ с графиком и страницей таблицы
type ViewResponse struct {
	Chart      ChartSpec      `json:"chart"`
	Table      TableView      `json:"table"`
	Pagination PaginationInfo `json:"pagination"`
	Params     ParamsDTO      `json:"params"`
}
