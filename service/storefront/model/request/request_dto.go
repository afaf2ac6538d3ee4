package request

type CatalogQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
