// File path: internal/api/types.go
package api

type analyzeRequest struct {
	Query string `json:"query"`
}

type chatRequest struct {
	Prompt string `json:"prompt"`
	UseRAG bool   `json:"use_rag"`
}
