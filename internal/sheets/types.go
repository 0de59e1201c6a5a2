package sheets

// AppendRequest тело запроса values:append.
type AppendRequest struct {
	Values [][]any `json:"values"`
}

// AppendResponse ответ values:append, содержит диапазон добавленной строки.
type AppendResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Updates       struct {
		UpdatedRange string `json:"updatedRange"`
		UpdatedRows  int    `json:"updatedRows"`
	} `json:"updates"`
}

// ClearResponse ответ values:clear.
type ClearResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
	ClearedRange  string `json:"clearedRange"`
}
