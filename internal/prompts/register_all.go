package prompts

const markdownRules = `
Formatting:
- Answer in clean Markdown: headings, bullet and numbered lists, **bold** for key terms, tables for comparisons.
- Wrap every code example in triple backticks with a language tag, e.g. ` + "```python" + `.
- Never escape backticks and never emit code outside a fenced block.
- Use blockquotes (>) for warnings or important notes. Keep paragraphs short.`

func RegisterAll() {
	// ---------- Conversation ----------

	RegisterSpec(Spec{
		Name:    PromptChatQA,
		Version: 1,
		System: `
You are a patient, professional programming tutor.
Explain clearly, give practical examples, and structure longer answers with headings.
` + markdownRules + `

Current tasks context:
{{.TasksContext}}`,
		User: `{{.Question}}`,
		Validators: []Validator{
			RequireNonEmpty("Question", func(in Input) string { return in.Question }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptTaskQA,
		Version: 1,
		System: `
You are a patient, professional programming tutor helping a student with today's study tasks.
` + markdownRules,
		User: `
Tasks for today (context):
{{.TasksContext}}

Student question:
{{.Question}}`,
		Validators: []Validator{
			RequireNonEmpty("Question", func(in Input) string { return in.Question }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptSearchEnhancedChat,
		Version: 1,
		System: `
You are an expert tutor with access to current web results.
` + markdownRules + `

Web results for {{.Topic}}:
{{.SearchResults}}

Learner's current understanding (concept -> score 0-100):
{{.UnderstandingJSON}}

Guidelines:
1. Ground the answer in the web results and prefer the most recent, educational sources.
2. Recommend specific resources and include their URLs when the results contain them.
3. Call out recent changes or developments.
4. Keep advice practical and actionable.`,
		User: `{{.Question}}`,
		Validators: []Validator{
			RequireNonEmpty("Question", func(in Input) string { return in.Question }),
			RequireNonEmpty("SearchResults", func(in Input) string { return in.SearchResults }),
		},
	})

	// ---------- Planning ----------

	RegisterSpec(Spec{
		Name:       PromptRoadmap,
		Version:    1,
		SchemaName: "roadmap",
		Schema:     RoadmapSchema,
		System: `
You are an expert study planner. Return JSON only.`,
		User: `
Create a day-by-day study roadmap.

Inputs:
- topic: {{.Topic}}
- days: {{.Days}}
- hours per day: {{.Hours}}
- experience: {{.Experience}}

Output rules:
- Top level: topic, days, hours, roadmap (one entry per day with "day" and "tasks").
- Every task has parent_task, original_duration_minutes and a sub_tasks array.
- Break each parent task into small, actionable sub_tasks with task, duration_minutes and a one-sentence description.
- The duration_minutes of a task's sub_tasks must sum to its original_duration_minutes.`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
			RequirePositive("Days", func(in Input) float64 { return float64(in.Days) }),
			RequirePositive("Hours", func(in Input) float64 { return in.Hours }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptRoadmapRefine,
		Version:    1,
		SchemaName: "roadmap",
		Schema:     RoadmapSchema,
		System: `
You are an expert study planner refining an existing roadmap. Return JSON only.`,
		User: `
Current roadmap (JSON):
{{.RoadmapJSON}}

Instruction:
{{.Instruction}}

Keep the nested sub_tasks structure. When you change a parent task, update its sub_tasks,
durations and descriptions so the sub_task minutes still sum to original_duration_minutes.`,
		Validators: []Validator{
			RequireNonEmpty("RoadmapJSON", func(in Input) string { return in.RoadmapJSON }),
			RequireNonEmpty("Instruction", func(in Input) string { return in.Instruction }),
		},
	})

	// ---------- Study aids ----------

	RegisterSpec(Spec{
		Name:       PromptFlashcards,
		Version:    1,
		SchemaName: "flashcards",
		Schema:     FlashcardsSchema,
		System: `
You write high-quality study flashcards. Return JSON only, no commentary.`,
		User: `
Generate 8-10 flashcards for {{.Topic}}, weighted toward the learner's weakest concepts.

Current understanding (concept -> score 0-100):
{{.UnderstandingJSON}}

Each card needs question, answer (with an example where useful), category
(Fundamentals, Advanced, Practical...) and difficulty (easy|medium|hard).`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptStudyGuide,
		Version:    1,
		SchemaName: "study_guide",
		Schema:     StudyGuideSchema,
		System: `
You build structured, practical study guides. Return JSON only.`,
		User: `
Create a study guide for {{.Topic}}.

Current understanding (concept -> score 0-100):
{{.UnderstandingJSON}}

Include:
- learning_objectives: 4-6 measurable objectives.
- key_concepts: fundamental through advanced terms.
- practice_exercises: 3-5 exercises of increasing difficulty (beginner|intermediate|advanced).
- study_schedule: a 4-week plan with topics and exercises per week.
- resources: 2-3 high-quality resources (documentation, tutorial or practice) with URLs.`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptMaterials,
		Version:    1,
		SchemaName: "materials",
		Schema:     MaterialsSchema,
		System: `
You curate learning resources. Return JSON only.`,
		User: `
List learning resources for "{{.Topic}}":
- videos (YouTube preferred) with title, url, channel, duration
- articles with title, url, source, reading_time
- practice platforms with title, url, difficulty
- tools with name, url, description
Set "type" on every item to video, article, practice or tool.`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
		},
	})
}
