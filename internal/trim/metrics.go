package trim

// Metrics is the accounting record produced by a trim run. Byte sizes are
// measured on the newline-terminated form of each line, so an untouched
// transcript reports TrimmedBytes == OriginalBytes.
type Metrics struct {
	OriginalBytes int64 `json:"originalBytes"`
	TrimmedBytes  int64 `json:"trimmedBytes"`

	PreCompactionLinesSkipped int `json:"preCompactionLinesSkipped"`
	FileHistoryRemoved        int `json:"fileHistoryRemoved"`
	QueueOperationsRemoved    int `json:"queueOperationsRemoved"`
	ToolResultsStubbed        int `json:"toolResultsStubbed"`
	ToolUseInputsStubbed      int `json:"toolUseInputsStubbed"`
	OrphanResultsRemoved      int `json:"orphanResultsRemoved"`
	ImagesStripped            int `json:"imagesStripped"`
	SignaturesStripped        int `json:"signaturesStripped"`

	UserMessages       int `json:"userMessages"`
	AssistantResponses int `json:"assistantResponses"`
	ToolUseRequests    int `json:"toolUseRequests"`
}

// Reduction returns the size reduction as a percentage of the original.
func (m *Metrics) Reduction() float64 {
	if m.OriginalBytes == 0 {
		return 0
	}
	return float64(m.OriginalBytes-m.TrimmedBytes) / float64(m.OriginalBytes) * 100
}
