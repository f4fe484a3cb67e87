package entity

// Teacher is a reference record used to fill PrintJob.TeacherName
type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DocumentType is a reference record used to fill PrintJob.DocumentType
type DocumentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
