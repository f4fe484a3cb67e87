package request

// NameRequest creates or renames a class, teacher or document type
type NameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}
