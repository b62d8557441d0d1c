package models

import "time"

// DocumentStatus is the lifecycle state of a stored robot description.
type DocumentStatus string

const (
	DocumentStatusUploaded  DocumentStatus = "uploaded"
	DocumentStatusConverted DocumentStatus = "converted"
	DocumentStatusError     DocumentStatus = "error"
)

// DocumentInfo represents metadata about an uploaded robot description.
type DocumentInfo struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Size       int64          `json:"size"`
	UploadedAt time.Time      `json:"uploadedAt"`
	Status     DocumentStatus `json:"status"`
	RobotName  string         `json:"robotName,omitempty"`
	LinkCount  int            `json:"linkCount,omitempty"`
	JointCount int            `json:"jointCount,omitempty"`
	Error      string         `json:"error,omitempty"`
}
