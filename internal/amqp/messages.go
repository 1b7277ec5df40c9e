package amqp

import (
	"encoding/json"
	"time"
)

// ReportSyncMessage asks the worker to export one report to Google
// Sheets. It carries only the id and version; the worker reads the full
// row from the database, so a stale message for an overwritten report
// is detected by comparing versions.
type ReportSyncMessage struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportSyncMessage(id string, version int64) *ReportSyncMessage {
	return &ReportSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
