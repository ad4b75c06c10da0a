package types

// CodeBlock is a fenced code region lifted out of model text. ID is the placeholder token
// that stands in for it while the surrounding markdown is handled.
type CodeBlock struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

type ResourceType string

const (
	ResourceVideo         ResourceType = "video"
	ResourceArticle       ResourceType = "article"
	ResourceTool          ResourceType = "tool"
	ResourceDocumentation ResourceType = "documentation"
)

type Resource struct {
	URL         string       `json:"url"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
}

type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type FlashcardSet struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// ChatAnswer is markdown text with its code blocks also listed separately for custom rendering.
type ChatAnswer struct {
	Text       string      `json:"text"`
	CodeBlocks []CodeBlock `json:"code_blocks"`
}

type ConversationTurn struct {
	Question string `json:"question"`
	Response string `json:"response"`
	Topic    string `json:"topic"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
