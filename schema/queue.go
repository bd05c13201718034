package schema

// SubmissionMetadata is attached once per submitted batch.
type SubmissionMetadata struct {
	APIKey *string `json:"api_key"`
}

// QueueItem is the unit pushed onto the data queue for downstream workers.
type QueueItem struct {
	Metadata SubmissionMetadata `json:"metadata"`
	Report   Report             `json:"report"`
}

// NewQueueItems pairs every report with the batch metadata, keeping order.
func NewQueueItems(metadata SubmissionMetadata, reports []Report) []QueueItem {
	items := make([]QueueItem, 0, len(reports))
	for _, r := range reports {
		items = append(items, QueueItem{Metadata: metadata, Report: r})
	}
	return items
}
