package catalog

// BrowseRequest — query-параметры каталога, все необязательные
type BrowseRequest struct {
	Search   *string `form:"search"`
	Category *string `form:"category"`
	Tone     *string `form:"tone"`
	Sort     *string `form:"sort" binding:"omitempty,max=32"`
	Page     *int    `form:"page" binding:"omitempty,min=1"`
}

func (r BrowseRequest) Query() Query {
	return Query{
		Search:   r.Search,
		Category: r.Category,
		Tone:     r.Tone,
		Sort:     r.Sort,
		Page:     r.Page,
	}
}
