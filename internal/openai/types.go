package openai

// Message элемент диалога chat completions.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest запрос к /chat/completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Choice один из вариантов ответа модели.
type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

// ChatResponse ответ /chat/completions.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Choices []Choice `json:"choices"`
}
