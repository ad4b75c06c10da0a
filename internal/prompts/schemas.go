package prompts

func StringSchema() map[string]any { return map[string]any{"type": "string"} }

func IntSchema() map[string]any { return map[string]any{"type": "integer"} }

func NumberSchema() map[string]any { return map[string]any{"type": "number"} }

func StringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": StringSchema()}
}

func ArrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func RoadmapSchema() map[string]any {
	subTask := ObjectSchema(map[string]any{
		"task":             StringSchema(),
		"duration_minutes": IntSchema(),
		"description":      StringSchema(),
	}, "task", "duration_minutes", "description")
	task := ObjectSchema(map[string]any{
		"parent_task":               StringSchema(),
		"original_duration_minutes": IntSchema(),
		"sub_tasks":                 ArrayOf(subTask),
	}, "parent_task", "original_duration_minutes", "sub_tasks")
	day := ObjectSchema(map[string]any{
		"day":   IntSchema(),
		"tasks": ArrayOf(task),
	}, "day", "tasks")
	return ObjectSchema(map[string]any{
		"topic":   StringSchema(),
		"days":    IntSchema(),
		"hours":   NumberSchema(),
		"roadmap": ArrayOf(day),
	}, "topic", "days", "hours", "roadmap")
}

func FlashcardsSchema() map[string]any {
	card := ObjectSchema(map[string]any{
		"question":   StringSchema(),
		"answer":     StringSchema(),
		"category":   StringSchema(),
		"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
	}, "question", "answer", "category", "difficulty")
	return ObjectSchema(map[string]any{"flashcards": ArrayOf(card)}, "flashcards")
}

func StudyGuideSchema() map[string]any {
	exercise := ObjectSchema(map[string]any{
		"title":       StringSchema(),
		"description": StringSchema(),
		"difficulty":  StringSchema(),
	}, "title", "description", "difficulty")
	week := ObjectSchema(map[string]any{
		"week":      IntSchema(),
		"topics":    StringArraySchema(),
		"exercises": StringArraySchema(),
	}, "week", "topics", "exercises")
	resource := ObjectSchema(map[string]any{
		"type":  StringSchema(),
		"title": StringSchema(),
		"url":   StringSchema(),
	}, "type", "title", "url")
	return ObjectSchema(map[string]any{
		"learning_objectives": StringArraySchema(),
		"key_concepts":        StringArraySchema(),
		"practice_exercises":  ArrayOf(exercise),
		"study_schedule":      ArrayOf(week),
		"resources":           ArrayOf(resource),
	}, "learning_objectives", "key_concepts", "practice_exercises", "study_schedule", "resources")
}

func MaterialsSchema() map[string]any {
	link := func(extra string) map[string]any {
		return ObjectSchema(map[string]any{
			"title": StringSchema(),
			"url":   StringSchema(),
			extra:   StringSchema(),
			"type":  StringSchema(),
		}, "title", "url", "type")
	}
	tool := ObjectSchema(map[string]any{
		"name":        StringSchema(),
		"url":         StringSchema(),
		"description": StringSchema(),
		"type":        StringSchema(),
	}, "name", "url", "type")
	return ObjectSchema(map[string]any{
		"videos":   ArrayOf(link("channel")),
		"articles": ArrayOf(link("source")),
		"practice": ArrayOf(link("difficulty")),
		"tools":    ArrayOf(tool),
	}, "videos", "articles", "practice", "tools")
}
