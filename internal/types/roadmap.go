package types

// Roadmap mirrors the JSON the planner prompt asks for. Sub-task durations are expected to sum to
// OriginalDurationMinutes but nothing here enforces it.
type Roadmap struct {
	Topic   string       `json:"topic"`
	Days    int          `json:"days"`
	Hours   float64      `json:"hours"`
	Roadmap []RoadmapDay `json:"roadmap"`
}

type RoadmapDay struct {
	Day   int          `json:"day"`
	Tasks []ParentTask `json:"tasks"`
}

type ParentTask struct {
	ParentTask              string    `json:"parent_task"`
	OriginalDurationMinutes int       `json:"original_duration_minutes"`
	SubTasks                []SubTask `json:"sub_tasks"`
}

type SubTask struct {
	Task            string `json:"task"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
}

type StudyGuide struct {
	LearningObjectives []string           `json:"learning_objectives"`
	KeyConcepts        []string           `json:"key_concepts"`
	PracticeExercises  []PracticeExercise `json:"practice_exercises"`
	StudySchedule      []StudyWeek        `json:"study_schedule"`
	Resources          []GuideResource    `json:"resources"`
}

type PracticeExercise struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

type StudyWeek struct {
	Week      int      `json:"week"`
	Topics    []string `json:"topics"`
	Exercises []string `json:"exercises"`
}

type GuideResource struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Materials struct {
	Videos   []MaterialVideo    `json:"videos"`
	Articles []MaterialArticle  `json:"articles"`
	Practice []MaterialPractice `json:"practice"`
	Tools    []MaterialTool     `json:"tools"`
}

type MaterialVideo struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Channel  string `json:"channel,omitempty"`
	Duration string `json:"duration,omitempty"`
	Type     string `json:"type"`
}

type MaterialArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	ReadingTime string `json:"reading_time,omitempty"`
	Type        string `json:"type"`
}

type MaterialPractice struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Difficulty string `json:"difficulty,omitempty"`
	Type       string `json:"type"`
}

type MaterialTool struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}
