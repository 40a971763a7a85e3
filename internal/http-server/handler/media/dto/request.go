package dto

type InspectRequest struct {
	Path string `validate:"required,startswith=storage/"`
}

type DeleteRequest struct {
	Path string `validate:"required,startswith=storage/"`
}
