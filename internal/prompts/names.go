package prompts

type PromptName string

const (
	// Conversation
	PromptChatQA             PromptName = "chat_qa"
	PromptTaskQA             PromptName = "task_qa"
	PromptSearchEnhancedChat PromptName = "search_enhanced_chat"

	// Planning
	PromptRoadmap       PromptName = "roadmap"
	PromptRoadmapRefine PromptName = "roadmap_refine"

	// Study aids
	PromptFlashcards PromptName = "flashcards"
	PromptStudyGuide PromptName = "study_guide"
	PromptMaterials  PromptName = "materials"
)
