package entity

// Backup is the export document holding every persisted collection
type Backup struct {
	PrintJobs     []PrintJob     `json:"printjobs"`
	Classes       []Class        `json:"classes"`
	Teachers      []Teacher      `json:"teachers"`
	DocumentTypes []DocumentType `json:"documenttypes"`
	Settings      *Settings      `json:"settings"`
}
