package dto

type CreateNewsRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

type PageQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}
