package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Topic string

	// Conversation
	Question      string
	TasksContext  string
	SearchResults string

	// Roadmap
	Days        int
	Hours       float64
	Experience  string
	RoadmapJSON string
	Instruction string

	// Current ConceptScores as JSON.
	UnderstandingJSON string
}
